package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format used in storage-facing and exported values.
const DateLayout = "2006-01-02"

// Period is an inclusive range of calendar dates.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthPeriod returns the period covering the given calendar month.
func MonthPeriod(year int, month time.Month) (Period, error) {
	if month < time.January || month > time.December {
		return Period{}, NewValidationError("month", ErrInvalidPeriod)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{Start: start, End: start.AddDate(0, 1, -1)}, nil
}

// RangePeriod returns the inclusive period between two dates. Time of day is discarded.
func RangePeriod(start, end time.Time) (Period, error) {
	p := Period{Start: truncateDate(start), End: truncateDate(end)}
	if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
		return Period{}, NewValidationError("period", ErrInvalidPeriod)
	}
	return p, nil
}

// CalendarMonth reports the year and month when the period lies within a
// single calendar month.
func (p Period) CalendarMonth() (int, time.Month, bool) {
	if p.Start.Year() != p.End.Year() || p.Start.Month() != p.End.Month() {
		return 0, 0, false
	}
	return p.Start.Year(), p.Start.Month(), true
}

// Contains reports whether the date falls within the period.
func (p Period) Contains(d time.Time) bool {
	d = truncateDate(d)
	return !d.Before(p.Start) && !d.After(p.End)
}

// IsWholeMonth reports whether the period is exactly one calendar month.
func (p Period) IsWholeMonth() bool {
	_, _, ok := p.CalendarMonth()
	return ok && p.Start.Day() == 1 && p.End.AddDate(0, 0, 1).Day() == 1
}

func (p Period) String() string {
	if p.IsWholeMonth() {
		return fmt.Sprintf("%d-%02d", p.Start.Year(), int(p.Start.Month()))
	}
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}

func truncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RequestContext identifies the user and request a core operation runs on behalf of.
type RequestContext struct {
	Username  string
	RequestID string
}

// NewRequestContext creates a request context with a fresh request ID.
func NewRequestContext(username string) RequestContext {
	return RequestContext{Username: username, RequestID: uuid.NewString()}
}

// Validate checks that the request carries an identified user.
func (rc RequestContext) Validate() error {
	if rc.Username == "" {
		return NewValidationError("username", ErrMissingUsername)
	}
	return nil
}
