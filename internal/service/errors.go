package service

import (
	"fmt"
	"time"
)

// ServiceError describes a failed service operation. Err carries the cause,
// usually a domain sentinel such as domain.ErrNotFound.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// QueryMetrics records the duration of every catalog query, keyed by operation name.
// metrics.Recorder is the production implementation.
type QueryMetrics interface {
	ObserveQuery(operation string, elapsed time.Duration)
}
