package postgres

import (
	"context"
	"log/slog"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// PostgresDependencyStore implements the store.DependencyStore interface via the
// recursive dependency_parser function.
type PostgresDependencyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.DependencyStore = (*PostgresDependencyStore)(nil)

// NewPostgresDependencyStore creates a new PostgreSQL implementation of the DependencyStore interface.
func NewPostgresDependencyStore(db store.DBTX, logger *slog.Logger) *PostgresDependencyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDependencyStore{
		db:     db,
		logger: logger.With(slog.String("component", "dependency_store")),
	}
}

// Find implements store.DependencyStore.Find
func (s *PostgresDependencyStore) Find(ctx context.Context, itemID int64, page domain.Page) ([]domain.Dependency, error) {
	query := `
		SELECT dep_name AS name, dep_id AS id, dep_level AS level
		FROM dependency_parser($1::bigint)
		LIMIT $2 OFFSET $3
	`

	deps := []domain.Dependency{}
	if err := s.db.SelectContext(ctx, &deps, query, itemID, page.Limit(), page.Offset()); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to find dependencies",
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("dependency", "find dependencies", "database error", MapError(err))
	}
	return deps, nil
}

// Count implements store.DependencyStore.Count
func (s *PostgresDependencyStore) Count(ctx context.Context, itemID int64) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT count(*) FROM dependency_parser($1::bigint)`, itemID); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count dependencies",
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("dependency", "count dependencies", "database error", MapError(err))
	}
	return count, nil
}
