package domain

import (
	"errors"
	"fmt"
)

// Shared error kinds. Every error returned by the core wraps (or is) one of
// these, so the boundary can map it to a transport status with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
)

// Token verification failures. All three collapse to ErrUnauthenticated at the
// boundary but stay distinguishable for logging.
var (
	ErrTokenMalformed        = fmt.Errorf("%w: malformed token", ErrUnauthenticated)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: invalid token signature", ErrUnauthenticated)
	ErrTokenExpired          = fmt.Errorf("%w: token expired", ErrUnauthenticated)
)

// ValidationError reports the specific offending field to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
