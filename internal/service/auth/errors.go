package auth

import (
	"errors"
	"fmt"

	"github.com/ShipIM/database-refactoring/internal/domain"
)

// Common authentication service errors
var (
	// ErrInvalidToken is the common cause of every token verification failure.
	// Callers treat it as "unauthenticated".
	ErrInvalidToken = fmt.Errorf("%w: invalid authentication token", domain.ErrUnauthorized)

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrInvalidToken)

	// ErrMalformedToken indicates the token could not be decoded
	ErrMalformedToken = fmt.Errorf("%w: token is malformed", ErrInvalidToken)

	// ErrUnsupportedAlgorithm indicates the token is signed with an algorithm other than HS256
	ErrUnsupportedAlgorithm = fmt.Errorf("%w: unsupported signing algorithm", ErrInvalidToken)

	// ErrInvalidSignature indicates the signature does not match the signing key
	ErrInvalidSignature = fmt.Errorf("%w: token signature is invalid", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = fmt.Errorf("%w: authentication token is missing", domain.ErrUnauthorized)

	// ErrInvalidCredentials indicates the login is unknown or the password does not match.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)

	// ErrWeakSecret indicates the configured signing secret is too short
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")
)
