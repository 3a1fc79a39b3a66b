package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// IdentityService resolves and creates user accounts. Logins are the identity.
type IdentityService struct {
	users  store.UserStore
	now    func() time.Time
	logger *slog.Logger
}

// IdentityOption customizes an IdentityService.
type IdentityOption func(*IdentityService)

// WithClock overrides the clock used to stamp registration dates.
func WithClock(now func() time.Time) IdentityOption {
	return func(s *IdentityService) {
		s.now = now
	}
}

// NewIdentityService creates a new IdentityService.
// It returns an error if the user store is nil.
func NewIdentityService(
	users store.UserStore,
	logger *slog.Logger,
	opts ...IdentityOption,
) (*IdentityService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &IdentityService{
		users:  users,
		now:    time.Now,
		logger: logger.With(slog.String("component", "identity_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// UserExists reports whether an account with the given login exists.
func (s *IdentityService) UserExists(ctx context.Context, login string) (bool, error) {
	exists, err := s.users.Exists(ctx, login)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check user existence",
			slog.String("error", err.Error()))
		return false, NewServiceError("user_exists", "failed to check user", err)
	}
	return exists, nil
}

// ResolveByLogin returns the account with the given login, including its password hash.
func (s *IdentityService) ResolveByLogin(ctx context.Context, login string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("user not found by login")
			return nil, NewServiceError("resolve_user", "user not found", domain.ErrNotFound)
		}
		log.Error("failed to retrieve user by login", slog.String("error", err.Error()))
		return nil, NewServiceError("resolve_user", "failed to retrieve user", err)
	}

	return user, nil
}

// CreateUser persists a new account. The registration date is assigned here and
// any value set by the caller is overwritten. The user must already carry a
// password hash. A second registration for the same login fails with domain.ErrConflict.
func (s *IdentityService) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	created := *user
	created.ClearPassword()
	created.RegisteredAt = s.now().UTC()

	if err := s.users.Create(ctx, &created); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("attempted to register an existing login")
			return nil, NewServiceError("create_user", "login already registered", domain.ErrConflict)
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, NewServiceError("create_user", "failed to save user", err)
	}

	log.Info("user created", slog.Time("registered_at", created.RegisteredAt))
	return &created, nil
}
