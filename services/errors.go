package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on.
var (
	// ErrNotFound means the target record vanished between load and mutation.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateFirmName is a registration-time uniqueness violation,
	// detected before the principal is ever created.
	ErrDuplicateFirmName = errors.New("company name is already registered")
)

// ValidationError is a required-field problem caught before any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StoreError is an underlying persistence or network failure. The message is
// passed through verbatim for display; Op names the failing operation.
type StoreError struct {
	Op      string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps an underlying failure with its operation name.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Message: err.Error(), Err: err}
}
