package dedup

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when the upstream document or chunk batch is malformed.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
