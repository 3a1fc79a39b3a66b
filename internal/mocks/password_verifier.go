package mocks

import (
	"context"
	"errors"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier when comparison fails.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// CompareCalledWith stores the arguments passed to Compare for verification
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}

// MockPasswordHasher implements auth.PasswordHasher for testing.
// By default it prefixes the password with "hashed:".
type MockPasswordHasher struct {
	HashFn func(password string) (string, error)

	// HashCallCount tracks how many times Hash was called
	HashCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCallCount++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// MockCredentialVerifier implements auth.CredentialVerifier for testing
type MockCredentialVerifier struct {
	VerifyFn func(ctx context.Context, login, password string) (*domain.User, error)

	// Default values used when VerifyFn isn't set
	User *domain.User
	Err  error
}

var _ auth.CredentialVerifier = (*MockCredentialVerifier)(nil)

// Verify implements the auth.CredentialVerifier interface
func (m *MockCredentialVerifier) Verify(ctx context.Context, login, password string) (*domain.User, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, login, password)
	}
	return m.User, m.Err
}
