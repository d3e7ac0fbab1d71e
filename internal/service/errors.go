package service

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter indicates a listing filter carries an unknown status or priority.
var ErrInvalidFilter = errors.New("invalid task filter")

// ServiceError wraps an unexpected failure with the operation that hit it.
// Expected conditions (validation, not found) are returned unwrapped so the
// API layer can classify them with errors.Is.
type ServiceError struct {
	Operation string
	Err       error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("task service %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Err: err}
}
