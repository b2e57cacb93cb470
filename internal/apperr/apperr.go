// Package apperr holds the error taxonomy shared by the domain packages.
// Handlers map these to transport status codes with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrPersistence       = errors.New("persistence failed")
)

// ValidationError describes a rejected input. No state is committed when it is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Persistence wraps a storage failure so callers can match ErrPersistence
// while keeping the underlying cause reachable.
func Persistence(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(ErrPersistence, err))
}
