package memory

import (
	"context"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// UserStore implements store.UserStore.
type UserStore struct {
	db *DB
}

var _ store.UserStore = (*UserStore)(nil)

// GetByLogin implements store.UserStore.
func (s *UserStore) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[login]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// Exists implements store.UserStore.
func (s *UserStore) Exists(ctx context.Context, login string) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.db.users[login]
	return ok, nil
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[user.Login]; ok {
		return store.ErrLoginExists
	}

	stored := *user
	stored.Password = ""
	s.db.users[user.Login] = stored
	return nil
}
