// Package budget derives spending totals, category breakdowns and goal status
// for a period of a user's ledger.
package budget

import (
	"github.com/shopspring/decimal"
)

// Status thresholds, as fractions of the monthly goal.
var (
	// NearingLimitRatio is the largest spend/goal ratio still on track.
	NearingLimitRatio = decimal.RequireFromString("0.8")
	// OverspentRatio is the largest spend/goal ratio not yet overspent.
	OverspentRatio = decimal.NewFromInt(1)
)

// Status classifies spending against a goal.
type Status string

const (
	StatusOnTrack      Status = "on-track"
	StatusNearingLimit Status = "nearing-limit"
	StatusOverspent    Status = "overspent"
	StatusNoGoal       Status = "no-goal-set"
)

// Label returns the human-readable status used in reports.
func (s Status) Label() string {
	switch s {
	case StatusOnTrack:
		return "Within budget"
	case StatusNearingLimit:
		return "Nearing limit"
	case StatusOverspent:
		return "Overspent"
	case StatusNoGoal:
		return "No goal set"
	default:
		return string(s)
	}
}

// StatusFor classifies total against goal. A goal that is not positive means
// no goal applies. Boundaries are inclusive on the lower status and compared
// without rounding.
func StatusFor(total, goal decimal.Decimal) Status {
	if !goal.IsPositive() {
		return StatusNoGoal
	}
	switch {
	case total.LessThanOrEqual(goal.Mul(NearingLimitRatio)):
		return StatusOnTrack
	case total.LessThanOrEqual(goal.Mul(OverspentRatio)):
		return StatusNearingLimit
	default:
		return StatusOverspent
	}
}
