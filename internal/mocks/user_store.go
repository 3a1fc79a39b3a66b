package mocks

import (
	"context"
	"sync"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByLoginFn func(ctx context.Context, login string) (*domain.User, error)
	ExistsFn     func(ctx context.Context, login string) (bool, error)

	// Data for default implementation
	mu              sync.Mutex
	Users           map[string]*domain.User
	CreateError     error
	GetByLoginError error
	CreateCalls     int
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Users: make(map[string]*domain.User),
	}
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Users[user.Login]; exists {
		return store.ErrLoginExists
	}

	stored := *user
	m.Users[user.Login] = &stored
	return nil
}

// GetByLogin implements the UserStore interface
func (m *MockUserStore) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	if m.GetByLoginFn != nil {
		return m.GetByLoginFn(ctx, login)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetByLoginError != nil {
		return nil, m.GetByLoginError
	}
	user, ok := m.Users[login]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

// Exists implements the UserStore interface
func (m *MockUserStore) Exists(ctx context.Context, login string) (bool, error) {
	if m.ExistsFn != nil {
		return m.ExistsFn(ctx, login)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Users[login]
	return ok, nil
}
