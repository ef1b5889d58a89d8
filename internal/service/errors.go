package service

import (
	"errors"
	"fmt"
)

// Service sentinel errors. Store and domain errors are passed through
// wrapped, so callers can also match store.ErrTaskNotFound or
// domain.ErrValidation directly.
var (
	// ErrInvalidCredentials is returned when an email/password pair does not
	// match a registered user. Unknown emails and wrong passwords are not
	// distinguished.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ServiceError records the service and operation a failure happened in.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
