package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Services wrap these sentinels so the API layer can
// map each kind to a distinct, stable response with errors.Is.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when an operation would violate a uniqueness rule,
	// such as a second registration for the same login or a duplicate favorite.
	ErrConflict = errors.New("entity already exists")

	// ErrUnauthorized is returned for credential mismatches and invalid or expired tokens.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUncomputable is returned when a derived value (for example an item's self price)
	// cannot be produced from the data the store holds.
	ErrUncomputable = errors.New("value cannot be computed")

	// ErrValidation is returned when structural input checks fail at the boundary.
	ErrValidation = errors.New("validation failed")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel so errors.Is(err, ErrValidation) holds.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil, ErrValidation is used.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
