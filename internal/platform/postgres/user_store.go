package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/store"
	"github.com/jmoiron/sqlx"
)

// PostgresUserStore implements the store.UserStore interface over the
// _user and password tables.
type PostgresUserStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db *sqlx.DB, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

type userRow struct {
	Login            string    `db:"login"`
	BirthDate        time.Time `db:"birth_date"`
	RegistrationDate time.Time `db:"registration_date"`
	Password         string    `db:"password"`
}

// GetByLogin implements store.UserStore.GetByLogin
func (s *PostgresUserStore) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT u.login, u.birth_date, u.registration_date, p.password
		FROM _user u
		JOIN password p ON p.user_login = u.login
		WHERE u.login = $1
	`

	var row userRow
	if err := s.db.GetContext(ctx, &row, query, login); err != nil {
		err = MapError(err)
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by login", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}

	return &domain.User{
		Login:          row.Login,
		HashedPassword: row.Password,
		BirthDate:      row.BirthDate,
		RegisteredAt:   row.RegistrationDate,
	}, nil
}

// Exists implements store.UserStore.Exists
func (s *PostgresUserStore) Exists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM _user WHERE login = $1)`, login)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check user existence",
			slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to check user existence: %w", MapError(err))
	}
	return exists, nil
}

// Create implements store.UserStore.Create. The account row and its password
// row are written in one transaction.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO _user (login, birth_date, registration_date) VALUES ($1, $2, $3)`,
			user.Login, user.BirthDate, user.RegisteredAt,
		); err != nil {
			return MapUniqueViolation(err, store.ErrLoginExists)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO password (user_login, password) VALUES ($1, $2)`,
			user.Login, user.HashedPassword,
		); err != nil {
			return MapError(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrLoginExists) {
			log.Debug("login already registered")
			return err
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created successfully")
	return nil
}
