package utils

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so callers can branch with errors.Is.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrKeyResolution  = errors.New("key resolution error")
	ErrAuthentication = errors.New("authentication error")
	ErrValidation     = errors.New("validation error")
	ErrRepository     = errors.New("repository error")
	ErrDataSource     = errors.New("data source error")
	ErrNotFound       = errors.New("not found")
)

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field with a formatted message.
func NewValidationError(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
