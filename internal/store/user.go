package store

import (
	"context"

	"github.com/ShipIM/database-refactoring/internal/domain"
)

// UserStore defines the interface for user credential persistence.
type UserStore interface {
	// GetByLogin retrieves a user by login.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user carries the password hash but never a plaintext password.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)

	// Exists reports whether a user with the given login is stored.
	Exists(ctx context.Context, login string) (bool, error)

	// Create persists a new user together with its password hash.
	// The caller assigns RegisteredAt.
	// Returns ErrLoginExists if the login is already taken.
	Create(ctx context.Context, user *domain.User) error
}
