package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange = errors.New("start_date must be before or equal to end_date")

	// ErrInvalidReference covers ids that do not name a row visible to the caller.
	ErrInvalidReference = errors.New("invalid reference")
	ErrInvalidAccount   = fmt.Errorf("%w: account", ErrInvalidReference)
	ErrInvalidCategory  = fmt.Errorf("%w: category", ErrInvalidReference)

	ErrValidation = errors.New("validation failed")
)

// ValidationError is input the service refuses regardless of stored state.
// It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
