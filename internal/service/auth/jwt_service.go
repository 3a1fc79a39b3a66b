// Package auth issues and verifies session tokens, hashes and checks passwords,
// and implements the register and authenticate flows on top of them.
package auth

import (
	"context"
	"time"
)

// TokenService signs and verifies stateless session tokens. Tokens are never
// persisted and cannot be revoked before they expire.
type TokenService interface {
	// Issue creates a signed token for subject carrying the optional extra claims.
	// Registered claim names in extra are ignored.
	Issue(ctx context.Context, subject string, extra map[string]any) (string, error)

	// Verify checks the token's signature and expiry and returns its claims.
	// Every failure wraps ErrInvalidToken and is exactly one of ErrExpiredToken,
	// ErrMalformedToken, ErrUnsupportedAlgorithm or ErrInvalidSignature.
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Claims holds the verified content of a session token.
type Claims struct {
	// Subject is the login the token was issued for.
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	// ID is the unique token id (jti).
	ID    string
	Extra map[string]any
}
