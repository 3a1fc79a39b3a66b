package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ShipIM/database-refactoring/internal/domain"
)

// UserResolver looks up an account, including its password hash, by login.
type UserResolver interface {
	ResolveByLogin(ctx context.Context, login string) (*domain.User, error)
}

// CredentialVerifier checks a login and plaintext password pair.
type CredentialVerifier interface {
	// Verify returns the matching account, or an error wrapping ErrInvalidCredentials
	// when the login is unknown or the password does not match.
	Verify(ctx context.Context, login, password string) (*domain.User, error)
}

// StoredCredentialVerifier verifies credentials against stored password hashes.
type StoredCredentialVerifier struct {
	users     UserResolver
	passwords PasswordVerifier
}

var _ CredentialVerifier = (*StoredCredentialVerifier)(nil)

// NewCredentialVerifier creates a StoredCredentialVerifier.
func NewCredentialVerifier(users UserResolver, passwords PasswordVerifier) *StoredCredentialVerifier {
	return &StoredCredentialVerifier{users: users, passwords: passwords}
}

// Verify implements CredentialVerifier.
func (v *StoredCredentialVerifier) Verify(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := v.users.ResolveByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if err := v.passwords.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
