package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by repositories when a lookup matches nothing
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is wrapped by repositories when a create collides with a stored ID
var ErrAlreadyExists = errors.New("already exists")

// ValidationError reports an input rejected at construction time
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
