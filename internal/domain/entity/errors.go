package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by repositories for a missing row on writes.
	// Reads return (nil, nil) instead.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput marks malformed identifiers and arguments that never
	// reached field validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed matches every *ValidationError via errors.Is.
	ErrValidationFailed = errors.New("validation failed")

	// ErrConflict is returned when storage rejects a duplicate row.
	ErrConflict = errors.New("entity already exists")
)

// ValidationError names the offending field. Handlers may echo Message to
// the client.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is lets callers test for the category without errors.As.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
