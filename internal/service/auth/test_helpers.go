package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ShipIM/database-refactoring/internal/config"
)

// TestJWTSecret is a signing secret long enough for NewJWTService.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            TestJWTSecret,
		TokenLifetimeMinutes: 60,
		BCryptCost:           4,
	}
}

// NewTestJWTService creates a token service with the given secret, lifetime and clock.
// It panics if the secret is shorter than 32 characters.
func NewTestJWTService(secret string, lifetime time.Duration, now func() time.Time) TokenService {
	svc, err := newHMACJWTService(secret, lifetime, now)
	if err != nil {
		// ALLOW-PANIC
		panic(err)
	}
	return svc
}

// RequireTestJWTService creates a token service from DefaultJWTConfig and fails the test on error.
func RequireTestJWTService(t *testing.T) TokenService {
	t.Helper()
	svc, err := NewJWTService(DefaultJWTConfig())
	require.NoError(t, err, "Failed to create test JWT service")
	return svc
}
