package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// PostgresLotStore implements the store.LotStore interface. A lot is spread
// over lot and its cost, status and time information tables.
type PostgresLotStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.LotStore = (*PostgresLotStore)(nil)

// NewPostgresLotStore creates a new PostgreSQL implementation of the LotStore interface.
func NewPostgresLotStore(db store.DBTX, logger *slog.Logger) *PostgresLotStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLotStore{
		db:     db,
		logger: logger.With(slog.String("component", "lot_store")),
	}
}

// FindActive implements store.LotStore.FindActive
func (s *PostgresLotStore) FindActive(ctx context.Context, itemID int64, page domain.Page) ([]domain.Lot, error) {
	query := `
		SELECT l.id, l.user_login AS seller, lci.cost_current AS current_price,
		       lci.cost_buy AS buyout_price, lti.time_end AS ends_at
		FROM lot l
		JOIN lot_cost_information lci ON lci.lot_id = l.id
		JOIN lot_status_information lsi ON lsi.lot_id = l.id
		JOIN lot_time_information lti ON lti.lot_id = l.id
		WHERE l.item_id = $1 AND lsi.status = 'ACTIVE'
		ORDER BY l.id
		LIMIT $2 OFFSET $3
	`

	lots := []domain.Lot{}
	if err := s.db.SelectContext(ctx, &lots, query, itemID, page.Limit(), page.Offset()); err != nil {
		return nil, s.fail(ctx, "find active lots", err)
	}
	for i := range lots {
		lots[i].Status = domain.LotStatusActive
	}
	return lots, nil
}

// CountActive implements store.LotStore.CountActive
func (s *PostgresLotStore) CountActive(ctx context.Context, itemID int64) (int64, error) {
	query := `
		SELECT count(*)
		FROM lot l
		JOIN lot_cost_information lci ON lci.lot_id = l.id
		JOIN lot_status_information lsi ON lsi.lot_id = l.id
		JOIN lot_time_information lti ON lti.lot_id = l.id
		WHERE l.item_id = $1 AND lsi.status = 'ACTIVE'
	`

	var count int64
	if err := s.db.GetContext(ctx, &count, query, itemID); err != nil {
		return 0, s.fail(ctx, "count active lots", err)
	}
	return count, nil
}

func (s *PostgresLotStore) fail(ctx context.Context, op string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to "+op, slog.String("error", err.Error()))
	return store.NewStoreError("lot", op, "database error", MapError(err))
}

// PostgresPriceHistoryStore implements the store.PriceHistoryStore interface via
// the get_max_cost_buy_per_day_for_period function.
type PostgresPriceHistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.PriceHistoryStore = (*PostgresPriceHistoryStore)(nil)

// NewPostgresPriceHistoryStore creates a new PostgreSQL implementation of the PriceHistoryStore interface.
func NewPostgresPriceHistoryStore(db store.DBTX, logger *slog.Logger) *PostgresPriceHistoryStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPriceHistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "price_history_store")),
	}
}

// FindDaily implements store.PriceHistoryStore.FindDaily
func (s *PostgresPriceHistoryStore) FindDaily(
	ctx context.Context,
	itemID int64,
	period domain.Period,
	page domain.Page,
) ([]domain.DailyPriceSample, error) {
	query := `
		SELECT sample_day AS day, sample_max_cost_buy AS max_cost_buy, sample_quantity AS quantity
		FROM get_max_cost_buy_per_day_for_period($1::date, $2::date, $3::bigint)
		LIMIT $4 OFFSET $5
	`

	samples := []domain.DailyPriceSample{}
	if err := s.db.SelectContext(ctx, &samples, query,
		period.Start.Format(time.DateOnly), period.End.Format(time.DateOnly), itemID, page.Limit(), page.Offset(),
	); err != nil {
		return nil, s.fail(ctx, "find daily price samples", err)
	}
	return samples, nil
}

// CountDaily implements store.PriceHistoryStore.CountDaily
func (s *PostgresPriceHistoryStore) CountDaily(ctx context.Context, itemID int64, period domain.Period) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		`SELECT count(*) FROM get_max_cost_buy_per_day_for_period($1::date, $2::date, $3::bigint)`,
		period.Start.Format(time.DateOnly), period.End.Format(time.DateOnly), itemID,
	)
	if err != nil {
		return 0, s.fail(ctx, "count daily price samples", err)
	}
	return count, nil
}

func (s *PostgresPriceHistoryStore) fail(ctx context.Context, op string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Error("failed to "+op, slog.String("error", err.Error()))
	return store.NewStoreError("price_history", op, "database error", MapError(err))
}
