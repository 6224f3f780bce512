package domain

import (
	"errors"
	"fmt"
)

var (
	ErrTypeRequired      = errors.New("coffee type is required")
	ErrUnknownType       = errors.New("unknown coffee type")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError is returned for client input that can never succeed,
// regardless of how often it is retried.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
