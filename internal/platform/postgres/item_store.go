package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// itemFilterClause restricts item i by name ($1) and category ($2).
// A NULL argument disables its condition.
const itemFilterClause = `
	($1::text IS NULL OR strpos(lower(i.name), lower($1::text)) > 0)
	AND ($2::text IS NULL OR EXISTS (
		SELECT 1 FROM item_category ic WHERE ic.item_id = i.id AND ic.category = $2::text
	))
`

type itemRow struct {
	ID         int64  `db:"id"`
	Name       string `db:"name"`
	Properties []byte `db:"properties"`
}

func (r itemRow) toDomain() domain.Item {
	return domain.Item{ID: r.ID, Name: r.Name, Properties: json.RawMessage(r.Properties)}
}

func toItems(rows []itemRow) []domain.Item {
	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toDomain())
	}
	return items
}

// PostgresItemStore implements the store.ItemStore interface.
type PostgresItemStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.ItemStore = (*PostgresItemStore)(nil)

// NewPostgresItemStore creates a new PostgreSQL implementation of the ItemStore interface.
func NewPostgresItemStore(db store.DBTX, logger *slog.Logger) *PostgresItemStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresItemStore{
		db:     db,
		logger: logger.With(slog.String("component", "item_store")),
	}
}

// FindFiltered implements store.ItemStore.FindFiltered
func (s *PostgresItemStore) FindFiltered(
	ctx context.Context,
	filter domain.ItemFilter,
	page domain.Page,
) ([]domain.Item, error) {
	query := `SELECT i.id, i.name, i.properties FROM item i WHERE ` + itemFilterClause +
		` ORDER BY i.id LIMIT $3 OFFSET $4`

	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, query,
		filter.Name, filter.Category, page.Limit(), page.Offset(),
	); err != nil {
		return nil, s.fail(ctx, "find filtered items", err)
	}
	return toItems(rows), nil
}

// CountFiltered implements store.ItemStore.CountFiltered
func (s *PostgresItemStore) CountFiltered(ctx context.Context, filter domain.ItemFilter) (int64, error) {
	query := `SELECT count(*) FROM item i WHERE ` + itemFilterClause

	var count int64
	if err := s.db.GetContext(ctx, &count, query, filter.Name, filter.Category); err != nil {
		return 0, s.fail(ctx, "count filtered items", err)
	}
	return count, nil
}

// FindByID implements store.ItemStore.FindByID
func (s *PostgresItemStore) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	var row itemRow
	err := s.db.GetContext(ctx, &row, `SELECT i.id, i.name, i.properties FROM item i WHERE i.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.FromContextOrDefault(ctx, s.logger).Debug("item not found", slog.Int64("item_id", id))
			return nil, store.ErrItemNotFound
		}
		return nil, s.fail(ctx, "find item", err)
	}

	item := row.toDomain()
	return &item, nil
}

// Exists implements store.ItemStore.Exists
func (s *PostgresItemStore) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM item WHERE id = $1)`, id); err != nil {
		return false, s.fail(ctx, "check item existence", err)
	}
	return exists, nil
}

// SelfPrice implements store.ItemStore.SelfPrice via calculate_selfprice,
// which yields NULL when the price cannot be resolved.
func (s *PostgresItemStore) SelfPrice(ctx context.Context, id int64) (int64, error) {
	var price sql.NullInt64
	if err := s.db.GetContext(ctx, &price, `SELECT calculate_selfprice($1::bigint)`, id); err != nil {
		return 0, s.fail(ctx, "calculate self price", err)
	}
	if !price.Valid {
		return 0, store.ErrSelfPriceUnavailable
	}
	return price.Int64, nil
}

// Categories implements store.ItemStore.Categories
func (s *PostgresItemStore) Categories(ctx context.Context) ([]string, error) {
	categories := []string{}
	if err := s.db.SelectContext(ctx, &categories,
		`SELECT DISTINCT category FROM item_category ORDER BY category`,
	); err != nil {
		return nil, s.fail(ctx, "list categories", err)
	}
	return categories, nil
}

func (s *PostgresItemStore) fail(ctx context.Context, op string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to "+op, slog.String("error", err.Error()))
	return store.NewStoreError("item", op, "database error", MapError(err))
}
