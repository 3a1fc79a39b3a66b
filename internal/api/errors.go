package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ShipIM/database-refactoring/internal/api/shared"
	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/service"
	"github.com/ShipIM/database-refactoring/internal/service/auth"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps the domain error kinds to HTTP status codes.
// Anything outside the taxonomy is an internal server error.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUncomputable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrValidation), errors.As(err, &verrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Service messages are
// authored for clients; everything else is replaced by a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return unexpectedErrorMessage
	}

	var verr *domain.ValidationError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid %s: %s", verr.Field, verr.Message)
	case errors.As(err, &verrs):
		return SanitizeValidationError(err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	}

	if MapErrorToStatusCode(err) == http.StatusInternalServerError {
		return unexpectedErrorMessage
	}

	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return capitalize(svcErr.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, domain.ErrConflict):
		return "Resource already exists"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, domain.ErrUncomputable):
		return "Value cannot be computed"
	default:
		return "Validation error"
	}
}

// SanitizeValidationError turns validator failures into a message naming the first
// rejected field. Other errors get a generic message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}

	first := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", first.Field(), getValidationTagMessage(first.Tag()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gt", "gte":
		return "too small"
	case "lt", "lte":
		return "too large"
	case "datetime":
		return "expected a date in YYYY-MM-DD format"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err using the status and message derived
// from its kind, and logs the redacted cause. Credential failures log at WARN.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if errors.Is(err, auth.ErrInvalidCredentials) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
