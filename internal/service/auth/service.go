package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/platform/metrics"
)

// UserRegistry persists new accounts. service.IdentityService implements it.
type UserRegistry interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
}

// LoginRecorder counts authentication attempts.
type LoginRecorder interface {
	LoginAttempt(success bool)
}

// Session is the result of a successful registration or authentication.
type Session struct {
	User  *domain.User
	Token string
}

// Service implements registration and authentication.
type Service struct {
	users       UserRegistry
	hasher      PasswordHasher
	credentials CredentialVerifier
	tokens      TokenService
	logins      LoginRecorder
	logger      *slog.Logger
}

// ServiceDeps groups the collaborators of Service.
type ServiceDeps struct {
	Users       UserRegistry
	Hasher      PasswordHasher
	Credentials CredentialVerifier
	Tokens      TokenService
	// Logins is optional.
	Logins LoginRecorder
}

// NewService creates a new authentication Service.
func NewService(deps ServiceDeps, logger *slog.Logger) (*Service, error) {
	switch {
	case deps.Users == nil:
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	case deps.Hasher == nil:
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	case deps.Credentials == nil:
		return nil, domain.NewValidationError("credentials", "cannot be nil", domain.ErrValidation)
	case deps.Tokens == nil:
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if deps.Logins == nil {
		deps.Logins = metrics.NopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		users:       deps.Users,
		hasher:      deps.Hasher,
		credentials: deps.Credentials,
		tokens:      deps.Tokens,
		logins:      deps.Logins,
		logger:      logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Register hashes the candidate's password, persists the account and issues a token.
// The password is hashed before anything is persisted and the token is issued only
// after the account exists. A duplicate login fails with domain.ErrConflict.
func (s *Service) Register(ctx context.Context, candidate *domain.User) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hash, err := s.hasher.Hash(candidate.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := *candidate
	user.HashedPassword = hash
	user.ClearPassword()

	created, err := s.users.CreateUser(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.tokens.Issue(ctx, created.Login, nil)
	if err != nil {
		log.Error("failed to issue token after registration", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user registered")
	return &Session{User: created, Token: token}, nil
}

// Authenticate verifies the candidate's login and password and issues a token.
// Every failure wraps domain.ErrUnauthorized without revealing which part was wrong.
func (s *Service) Authenticate(ctx context.Context, candidate *domain.User) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.credentials.Verify(ctx, candidate.Login, candidate.Password)
	if err != nil {
		s.logins.LoginAttempt(false)
		if !errors.Is(err, ErrInvalidCredentials) {
			log.Error("credential verification failed", slog.String("error", err.Error()))
		}
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, user.Login, nil)
	if err != nil {
		s.logins.LoginAttempt(false)
		log.Error("failed to issue token after authentication", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logins.LoginAttempt(true)
	return &Session{User: user, Token: token}, nil
}
