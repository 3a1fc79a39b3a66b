//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/store"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to CATALOG_TEST_DATABASE_URL and applies the migrations
// from scratch. The test is skipped when the variable is unset.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	url := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set")
	}

	db, err := sqlx.Connect("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db.DB, "reset", nil))
	require.NoError(t, Migrate(ctx, db.DB, "up", nil))
	return db
}

func mustExec(t *testing.T, db *sqlx.DB, query string, args ...any) {
	t.Helper()
	_, err := db.Exec(query, args...)
	require.NoError(t, err)
}

func TestIntegration_CatalogQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	users := NewPostgresUserStore(db, nil)
	items := NewPostgresItemStore(db, nil)
	favs := NewPostgresFavoriteStore(db, nil)
	lots := NewPostgresLotStore(db, nil)
	deps := NewPostgresDependencyStore(db, nil)
	history := NewPostgresPriceHistoryStore(db, nil)

	user := &domain.User{
		Login:          "a@b.com",
		HashedPassword: "hash",
		BirthDate:      time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC),
		RegisteredAt:   time.Now().UTC(),
	}
	require.NoError(t, users.Create(ctx, user))
	assert.ErrorIs(t, users.Create(ctx, user), store.ErrLoginExists)

	mustExec(t, db, `INSERT INTO item (id, name) VALUES (1, 'Laptop'), (2, 'Laptop Pro'), (3, 'Phone'), (4, 'Battery')`)
	mustExec(t, db, `INSERT INTO item_category (item_id, category) VALUES (1, 'electronics'), (2, 'electronics'), (2, 'computers'), (3, 'electronics')`)
	mustExec(t, db, `INSERT INTO item_component (item_id, component_id, quantity) VALUES (1, 4, 2), (4, 1, 1)`)
	mustExec(t, db, `INSERT INTO lot (id, user_login, item_id) VALUES (1, 'seller', 4), (2, 'seller', 4)`)
	mustExec(t, db, `INSERT INTO lot_cost_information (lot_id, cost_current, cost_buy) VALUES (1, 10, 30), (2, 5, 20)`)
	mustExec(t, db, `INSERT INTO lot_status_information (lot_id, status) VALUES (1, 'ACTIVE'), (2, 'SOLD')`)
	mustExec(t, db, `INSERT INTO lot_time_information (lot_id, time_start, time_end) VALUES
		(1, '2024-05-01 10:00', '2024-05-03 10:00'), (2, '2024-05-02 10:00', '2024-05-02 12:00')`)

	name := "lap"
	found, err := items.FindFiltered(ctx, domain.ItemFilter{Name: &name}, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Len(t, found, 2)
	count, err := items.CountFiltered(ctx, domain.ItemFilter{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	category := "electronics"
	count, err = items.CountFiltered(ctx, domain.ItemFilter{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "multi-category items are counted once")

	price, err := items.SelfPrice(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(60), price)
	_, err = items.SelfPrice(ctx, 3)
	assert.ErrorIs(t, err, store.ErrSelfPriceUnavailable)

	require.NoError(t, favs.Insert(ctx, user.Login, 2))
	assert.ErrorIs(t, favs.Insert(ctx, user.Login, 2), store.ErrFavoriteExists)
	cats, err := favs.Categories(ctx, user.Login)
	require.NoError(t, err)
	assert.Equal(t, []string{"computers", "electronics"}, cats)
	require.NoError(t, favs.Delete(ctx, user.Login, 2))
	require.NoError(t, favs.Delete(ctx, user.Login, 2))

	active, err := lots.FindActive(ctx, 4, domain.NewPage(0, 20))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(30), active[0].BuyoutPrice)

	dependencies, err := deps.Find(ctx, 1, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Equal(t, []domain.Dependency{{Name: "Battery", ID: 4, Level: 1}}, dependencies)

	period := domain.Period{
		Start: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC),
	}
	samples, err := history.FindDaily(ctx, 4, period, domain.NewPage(0, 20))
	require.NoError(t, err)
	require.Len(t, samples, 4)
	assert.Equal(t, int64(2), samples[1].Quantity)
	assert.Equal(t, int64(30), samples[1].MaxBuyoutPrice)
	assert.Equal(t, int64(0), samples[3].Quantity)

	inverted, err := history.CountDaily(ctx, 4, domain.Period{Start: period.End, End: period.Start})
	require.NoError(t, err)
	assert.Zero(t, inverted)
}
