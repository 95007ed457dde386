package resolver

import (
	"errors"
	"fmt"
)

// ErrNilConfiguration indicates Resolve was called without a client configuration
var ErrNilConfiguration = errors.New("client configuration is nil")

// FieldError records a stored value that could not be used. The field is
// treated as absent and resolution continues.
type FieldError struct {
	Field string
	Value string
	Cause error
}

// Error implements the error interface
func (e *FieldError) Error() string {
	return fmt.Sprintf("settings field %s: cannot use %q: %v", e.Field, e.Value, e.Cause)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FieldError) Unwrap() error {
	return e.Cause
}

// IsNilConfiguration checks if the error is a nil configuration error
func IsNilConfiguration(err error) bool {
	return errors.Is(err, ErrNilConfiguration)
}

// AsFieldError extracts a FieldError from an error chain
func AsFieldError(err error) (*FieldError, bool) {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) {
		return fieldErr, true
	}
	return nil, false
}
