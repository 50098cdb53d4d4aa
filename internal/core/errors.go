package core

import (
	"errors"
	"fmt"
)

// Field names reported by ValidationError.
const (
	FieldDate     = "date"
	FieldCategory = "category"
	FieldAmount   = "amount"
)

var (
	ErrInvalidDate   = errors.New("invalid date, use YYYY-MM-DD")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidAmount = errors.New("invalid amount, enter a positive number")
)

// ValidationError reports which field of an expense was rejected.
type ValidationError struct {
	Field string
	Err   error
}

func newValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
