package models

import (
	"errors"
	"fmt"
)

// Validation failures. Always recoverable; nothing is written when one is returned.
var (
	ErrMissingDescription = errors.New("description is required")
	ErrInvalidAmount      = errors.New("amount must not be negative")
	ErrInvalidGoalAmount  = errors.New("goal amount must be greater than zero")
	ErrMissingItem        = errors.New("wishlist item is required")
	ErrMissingCategory    = errors.New("category name is required")
	ErrCategoryTooLong    = errors.New("category name is too long")
	ErrMissingDate        = errors.New("date is required")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrMissingUsername    = errors.New("username is required")
	ErrMissingPassword    = errors.New("password is required")
)

// Integrity and lookup failures.
var (
	ErrDuplicateCategory    = errors.New("category already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrExpenseNotFound      = errors.New("expense not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrConfirmationRequired = errors.New("expense does not match any wishlist item; confirmation required")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err with the offending field name.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// IntegrityError is returned when the store rejects a write because of a
// key or reference constraint. It is never retried.
type IntegrityError struct {
	Constraint string
	Err        error
}

func (e *IntegrityError) Error() string {
	if e.Constraint == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (constraint %s)", e.Err, e.Constraint)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
