package postgres

import (
	"context"
	"log/slog"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// PostgresFavoriteStore implements the store.FavoriteStore interface over the favourite table.
type PostgresFavoriteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.FavoriteStore = (*PostgresFavoriteStore)(nil)

// NewPostgresFavoriteStore creates a new PostgreSQL implementation of the FavoriteStore interface.
func NewPostgresFavoriteStore(db store.DBTX, logger *slog.Logger) *PostgresFavoriteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFavoriteStore{
		db:     db,
		logger: logger.With(slog.String("component", "favorite_store")),
	}
}

// Insert implements store.FavoriteStore.Insert
func (s *PostgresFavoriteStore) Insert(ctx context.Context, login string, itemID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favourite (user_login, item_id) VALUES ($1, $2)`,
		login, itemID,
	)
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		log.Debug("item already in favourites", slog.Int64("item_id", itemID))
		return MapUniqueViolation(err, store.ErrFavoriteExists)
	case IsForeignKeyViolation(err):
		log.Warn("favourite references a missing user or item",
			slog.Int64("item_id", itemID),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return s.fail(ctx, "insert favourite", err)
}

// Delete implements store.FavoriteStore.Delete
func (s *PostgresFavoriteStore) Delete(ctx context.Context, login string, itemID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favourite WHERE user_login = $1 AND item_id = $2`,
		login, itemID,
	)
	if err != nil {
		return s.fail(ctx, "delete favourite", err)
	}
	return nil
}

// Exists implements store.FavoriteStore.Exists
func (s *PostgresFavoriteStore) Exists(ctx context.Context, login string, itemID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM favourite WHERE user_login = $1 AND item_id = $2)`,
		login, itemID,
	)
	if err != nil {
		return false, s.fail(ctx, "check favourite", err)
	}
	return exists, nil
}

// FindFiltered implements store.FavoriteStore.FindFiltered
func (s *PostgresFavoriteStore) FindFiltered(
	ctx context.Context,
	login string,
	filter domain.ItemFilter,
	page domain.Page,
) ([]domain.Item, error) {
	query := `SELECT i.id, i.name, i.properties FROM item i
		JOIN favourite f ON f.item_id = i.id AND f.user_login = $3
		WHERE ` + itemFilterClause + ` ORDER BY i.id LIMIT $4 OFFSET $5`

	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, query,
		filter.Name, filter.Category, login, page.Limit(), page.Offset(),
	); err != nil {
		return nil, s.fail(ctx, "find favourites", err)
	}
	return toItems(rows), nil
}

// CountFiltered implements store.FavoriteStore.CountFiltered
func (s *PostgresFavoriteStore) CountFiltered(
	ctx context.Context,
	login string,
	filter domain.ItemFilter,
) (int64, error) {
	query := `SELECT count(*) FROM item i
		JOIN favourite f ON f.item_id = i.id AND f.user_login = $3
		WHERE ` + itemFilterClause

	var count int64
	if err := s.db.GetContext(ctx, &count, query, filter.Name, filter.Category, login); err != nil {
		return 0, s.fail(ctx, "count favourites", err)
	}
	return count, nil
}

// Categories implements store.FavoriteStore.Categories
func (s *PostgresFavoriteStore) Categories(ctx context.Context, login string) ([]string, error) {
	categories := []string{}
	err := s.db.SelectContext(ctx, &categories, `
		SELECT DISTINCT ic.category
		FROM item_category ic
		JOIN favourite f ON f.item_id = ic.item_id
		WHERE f.user_login = $1
		ORDER BY ic.category
	`, login)
	if err != nil {
		return nil, s.fail(ctx, "list favourite categories", err)
	}
	return categories, nil
}

func (s *PostgresFavoriteStore) fail(ctx context.Context, op string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to "+op, slog.String("error", err.Error()))
	return store.NewStoreError("favourite", op, "database error", MapError(err))
}
