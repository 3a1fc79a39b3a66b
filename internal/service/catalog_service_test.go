package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/memory"
	"github.com/ShipIM/database-refactoring/internal/service"
	"github.com/ShipIM/database-refactoring/internal/store"
)

const (
	buyer     = "buyer@example.com"
	unknownID = int64(999)
)

// queryMetricsMock records ObserveQuery calls.
type queryMetricsMock struct {
	mock.Mock
}

func (m *queryMetricsMock) ObserveQuery(operation string, elapsed time.Duration) {
	m.Called(operation, elapsed)
}

type catalogFixture struct {
	db      *memory.DB
	svc     *service.CatalogService
	laptop  domain.Item
	pro     domain.Item
	phone   domain.Item
	metrics *queryMetricsMock
}

func ptr(s string) *string { return &s }

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func stores(db *memory.DB) service.CatalogStores {
	return service.CatalogStores{
		Items:        db.Items(),
		Favorites:    db.Favorites(),
		Lots:         db.Lots(),
		Dependencies: db.Dependencies(),
		PriceHistory: db.PriceHistory(),
	}
}

func newCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()

	db := memory.NewDB()
	f := catalogFixture{
		db:      db,
		laptop:  db.AddItem(domain.Item{Name: "Laptop"}, "electronics", "computers"),
		pro:     db.AddItem(domain.Item{Name: "Laptop Pro"}, "computers"),
		phone:   db.AddItem(domain.Item{Name: "Phone"}, "electronics"),
		metrics: &queryMetricsMock{},
	}
	f.metrics.On("ObserveQuery", mock.Anything, mock.Anything).Return()

	require.NoError(t, db.Users().Create(context.Background(), &domain.User{
		Login:          buyer,
		HashedPassword: "hash",
		BirthDate:      day(1),
	}))

	identity, err := service.NewIdentityService(db.Users(), nil)
	require.NoError(t, err)

	svc, err := service.NewCatalogService(stores(db), identity, f.metrics, nil)
	require.NoError(t, err)
	f.svc = svc

	return f
}

func itemNames(items []domain.Item) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func TestListItems_NameFilter(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)

	page, err := f.svc.ListItems(context.Background(), domain.ItemFilter{Name: ptr("lap")}, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Laptop Pro"}, itemNames(page.Items))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(1), page.TotalPages())

	f.metrics.AssertCalled(t, "ObserveQuery", "list_items", mock.AnythingOfType("time.Duration"))
}

func TestListItems_CategoryFilter(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	page, err := f.svc.ListItems(ctx, domain.ItemFilter{Category: ptr("electronics")}, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Phone"}, itemNames(page.Items))

	page, err = f.svc.ListItems(ctx, domain.ItemFilter{Name: ptr("PRO"), Category: ptr("computers")}, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop Pro"}, itemNames(page.Items))
	assert.Equal(t, int64(1), page.Total)
}

func TestListItems_PaginationSlicesFullList(t *testing.T) {
	t.Parallel()

	db := memory.NewDB()
	var all []domain.Item
	for i := 0; i < 7; i++ {
		all = append(all, db.AddItem(domain.Item{Name: "Item"}))
	}
	identity, err := service.NewIdentityService(db.Users(), nil)
	require.NoError(t, err)
	svc, err := service.NewCatalogService(stores(db), identity, nil, nil)
	require.NoError(t, err)

	for size := 1; size <= 8; size++ {
		for number := 0; number <= 8; number++ {
			page, err := svc.ListItems(context.Background(), domain.ItemFilter{}, domain.NewPage(number, size))
			require.NoError(t, err)

			start := min(number*size, len(all))
			end := min(start+size, len(all))
			assert.Equal(t, all[start:end], page.Items, "page %d size %d", number, size)
			assert.LessOrEqual(t, len(page.Items), size)
			assert.Equal(t, int64(len(all)), page.Total)
			assert.NotNil(t, page.Items, "past the end is an empty slice")
		}
	}
}

func TestListItems_OverflowingPageIsEmpty(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)

	for _, number := range []int{1 << 60, math.MaxInt / 3, math.MaxInt} {
		page, err := f.svc.ListItems(context.Background(), domain.ItemFilter{}, domain.NewPage(number, 16))
		require.NoError(t, err)
		assert.Empty(t, page.Items, "page %d", number)
		assert.NotNil(t, page.Items)
		assert.Equal(t, int64(3), page.Total)
	}
}

func TestGetItem(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)

	item, err := f.svc.GetItem(context.Background(), f.phone.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phone", item.Name)
	assert.JSONEq(t, "{}", string(item.Properties))
}

func TestUnknownItemIsNotFound(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	page := domain.NewPage(0, 20)

	exists, err := f.svc.ItemExists(ctx, unknownID)
	require.NoError(t, err)
	require.False(t, exists)

	_, err = f.svc.GetItem(ctx, unknownID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetActiveLots(ctx, unknownID, page)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetDependencies(ctx, unknownID, page)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetSelfPrice(ctx, unknownID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetItemsForPeriod(ctx, domain.Period{Start: day(1), End: day(3)}, unknownID, page)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.IsFavorite(ctx, buyer, unknownID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.svc.AddFavorite(ctx, buyer, unknownID), domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.RemoveFavorite(ctx, buyer, unknownID), domain.ErrNotFound)
}

func TestFavorites_RoundTrip(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddFavorite(ctx, buyer, f.laptop.ID))

	isFavorite, err := f.svc.IsFavorite(ctx, buyer, f.laptop.ID)
	require.NoError(t, err)
	assert.True(t, isFavorite)

	err = f.svc.AddFavorite(ctx, buyer, f.laptop.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, f.svc.RemoveFavorite(ctx, buyer, f.laptop.ID))
	require.NoError(t, f.svc.RemoveFavorite(ctx, buyer, f.laptop.ID), "second removal is a no-op")

	isFavorite, err = f.svc.IsFavorite(ctx, buyer, f.laptop.ID)
	require.NoError(t, err)
	assert.False(t, isFavorite)
}

func TestFavorites_UnknownUser(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()
	stranger := "stranger@example.com"

	_, err := f.svc.IsFavorite(ctx, stranger, f.laptop.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.AddFavorite(ctx, stranger, f.laptop.ID), domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.RemoveFavorite(ctx, stranger, f.laptop.ID), domain.ErrNotFound)

	_, err = f.svc.ListFavorites(ctx, stranger, domain.ItemFilter{}, domain.NewPage(0, 20))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	categories, err := f.svc.ListFavoriteCategories(ctx, stranger)
	require.NoError(t, err, "favorite categories do not check the user")
	assert.Empty(t, categories)
	assert.NotNil(t, categories)
}

func TestFavorites_UserCheckedBeforeItem(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("item lookup must not run")
	db := memory.NewDB()
	all := stores(db)
	all.Items = failingItemStore{err: storeErr}

	identity, err := service.NewIdentityService(db.Users(), nil)
	require.NoError(t, err)
	svc, err := service.NewCatalogService(all, identity, nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	stranger := "stranger@example.com"
	checks := map[string]error{}
	_, checks["is_favorite"] = svc.IsFavorite(ctx, stranger, unknownID)
	checks["add_favorite"] = svc.AddFavorite(ctx, stranger, unknownID)
	checks["remove_favorite"] = svc.RemoveFavorite(ctx, stranger, unknownID)

	for op, err := range checks {
		assert.ErrorIs(t, err, domain.ErrNotFound, op)
		assert.NotErrorIs(t, err, storeErr, op)

		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr, op)
		assert.Equal(t, "user not found", serviceErr.Message, op)
	}
}

func TestListFavorites(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.AddFavorite(ctx, buyer, f.pro.ID))
	require.NoError(t, f.svc.AddFavorite(ctx, buyer, f.phone.ID))

	page, err := f.svc.ListFavorites(ctx, buyer, domain.ItemFilter{}, domain.NewPage(0, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop Pro"}, itemNames(page.Items))
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(2), page.TotalPages())

	page, err = f.svc.ListFavorites(ctx, buyer, domain.ItemFilter{Category: ptr("electronics")}, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Equal(t, []string{"Phone"}, itemNames(page.Items))

	categories, err := f.svc.ListFavoriteCategories(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, []string{"computers", "electronics"}, categories)
}

func TestListCategories(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)

	categories, err := f.svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"computers", "electronics"}, categories)
}

func TestGetSelfPrice(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetSelfPrice(ctx, f.laptop.ID)
	assert.ErrorIs(t, err, domain.ErrUncomputable, "item without components")
	assert.NotErrorIs(t, err, domain.ErrNotFound)

	f.db.AddComponent(f.laptop.ID, f.phone.ID, 2)
	_, err = f.svc.GetSelfPrice(ctx, f.laptop.ID)
	assert.ErrorIs(t, err, domain.ErrUncomputable, "component not on sale")

	f.db.AddLot(f.phone.ID, domain.Lot{Seller: "s1", BuyoutPrice: 300, EndsAt: day(10)})
	f.db.AddLot(f.phone.ID, domain.Lot{Seller: "s2", BuyoutPrice: 250, EndsAt: day(10)})
	f.db.AddLot(f.phone.ID, domain.Lot{Seller: "s3", BuyoutPrice: 100, EndsAt: day(10), Status: domain.LotStatusSold})

	price, err := f.svc.GetSelfPrice(ctx, f.laptop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), price)
}

func TestGetActiveLots(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	active := f.db.AddLot(f.phone.ID, domain.Lot{Seller: "s1", CurrentPrice: 90, BuyoutPrice: 120, EndsAt: day(10)})
	f.db.AddLot(f.phone.ID, domain.Lot{Seller: "s2", BuyoutPrice: 150, EndsAt: day(10), Status: domain.LotStatusCanceled})
	f.db.AddLot(f.laptop.ID, domain.Lot{Seller: "s3", BuyoutPrice: 900, EndsAt: day(10)})

	page, err := f.svc.GetActiveLots(ctx, f.phone.ID, domain.NewPage(0, 20))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, active.ID, page.Items[0].ID)
	assert.Equal(t, int64(1), page.Total)

	page, err = f.svc.GetActiveLots(ctx, f.pro.ID, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestGetDependencies(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	f.db.AddComponent(f.laptop.ID, f.pro.ID, 1)
	f.db.AddComponent(f.pro.ID, f.phone.ID, 1)
	f.db.AddComponent(f.phone.ID, f.laptop.ID, 1)

	page, err := f.svc.GetDependencies(ctx, f.laptop.ID, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Equal(t, []domain.Dependency{
		{Name: "Laptop Pro", ID: f.pro.ID, Level: 1},
		{Name: "Phone", ID: f.phone.ID, Level: 2},
	}, page.Items)
	assert.Equal(t, int64(2), page.Total)

	page, err = f.svc.GetDependencies(ctx, f.laptop.ID, domain.NewPage(1, 1))
	require.NoError(t, err)
	assert.Equal(t, []domain.Dependency{{Name: "Phone", ID: f.phone.ID, Level: 2}}, page.Items)
}

func TestGetItemsForPeriod(t *testing.T) {
	t.Parallel()

	f := newCatalogFixture(t)
	ctx := context.Background()

	f.db.AddLot(f.phone.ID, domain.Lot{Seller: "s1", BuyoutPrice: 100, StartsAt: day(1), EndsAt: day(2)})
	f.db.AddLot(f.phone.ID, domain.Lot{Seller: "s2", BuyoutPrice: 300, StartsAt: day(2), EndsAt: day(3), Status: domain.LotStatusSold})

	page, err := f.svc.GetItemsForPeriod(ctx, domain.Period{Start: day(1), End: day(4)}, f.phone.ID, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, []domain.DailyPriceSample{
		{Day: day(1), MaxBuyoutPrice: 100, Quantity: 1},
		{Day: day(2), MaxBuyoutPrice: 300, Quantity: 2},
		{Day: day(3), MaxBuyoutPrice: 300, Quantity: 1},
		{Day: day(4), MaxBuyoutPrice: 0, Quantity: 0},
	}, page.Items)

	page, err = f.svc.GetItemsForPeriod(ctx, domain.Period{Start: day(4), End: day(1)}, f.phone.ID, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}

// recordingPriceHistory remembers the periods it was asked about.
type recordingPriceHistory struct {
	store.PriceHistoryStore
	periods []domain.Period
}

func (s *recordingPriceHistory) CountDaily(ctx context.Context, itemID int64, period domain.Period) (int64, error) {
	s.periods = append(s.periods, period)
	return s.PriceHistoryStore.CountDaily(ctx, itemID, period)
}

func (s *recordingPriceHistory) FindDaily(
	ctx context.Context,
	itemID int64,
	period domain.Period,
	page domain.Page,
) ([]domain.DailyPriceSample, error) {
	s.periods = append(s.periods, period)
	return s.PriceHistoryStore.FindDaily(ctx, itemID, period, page)
}

func TestGetItemsForPeriod_InvertedPeriodReachesStore(t *testing.T) {
	t.Parallel()

	db := memory.NewDB()
	item := db.AddItem(domain.Item{Name: "Phone"})
	history := &recordingPriceHistory{PriceHistoryStore: db.PriceHistory()}
	all := stores(db)
	all.PriceHistory = history

	identity, err := service.NewIdentityService(db.Users(), nil)
	require.NoError(t, err)
	svc, err := service.NewCatalogService(all, identity, nil, nil)
	require.NoError(t, err)

	inverted := domain.Period{Start: day(4), End: day(1)}
	page, err := svc.GetItemsForPeriod(context.Background(), inverted, item.ID, domain.NewPage(0, 20))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Zero(t, page.Total)
	assert.Equal(t, []domain.Period{inverted, inverted}, history.periods)
}

// failingItemStore fails every call with err.
type failingItemStore struct {
	store.ItemStore
	err error
}

func (s failingItemStore) Exists(context.Context, int64) (bool, error) { return false, s.err }
func (s failingItemStore) Categories(context.Context) ([]string, error) { return nil, s.err }
func (s failingItemStore) FindByID(context.Context, int64) (*domain.Item, error) {
	return nil, s.err
}

func (s failingItemStore) CountFiltered(context.Context, domain.ItemFilter) (int64, error) {
	return 0, s.err
}

func TestCatalogService_StoreFailuresPropagate(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")
	db := memory.NewDB()
	all := stores(db)
	all.Items = failingItemStore{err: storeErr}

	identity, err := service.NewIdentityService(db.Users(), nil)
	require.NoError(t, err)
	svc, err := service.NewCatalogService(all, identity, nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	checks := map[string]error{}
	_, checks["list_items"] = svc.ListItems(ctx, domain.ItemFilter{}, domain.NewPage(0, 20))
	_, checks["get_item"] = svc.GetItem(ctx, 1)
	_, checks["item_exists"] = svc.ItemExists(ctx, 1)
	_, checks["get_active_lots"] = svc.GetActiveLots(ctx, 1, domain.NewPage(0, 20))
	_, checks["list_categories"] = svc.ListCategories(ctx)

	for op, err := range checks {
		assert.ErrorIs(t, err, storeErr, op)
		assert.NotErrorIs(t, err, domain.ErrNotFound, op)

		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr, op)
		assert.Equal(t, op, serviceErr.Operation)
	}
}

func TestNewCatalogService_RequiresDependencies(t *testing.T) {
	t.Parallel()

	db := memory.NewDB()
	identity, err := service.NewIdentityService(db.Users(), nil)
	require.NoError(t, err)

	missing := stores(db)
	missing.Lots = nil
	_, err = service.NewCatalogService(missing, identity, nil, nil)
	assert.True(t, domain.IsValidationError(err))

	_, err = service.NewCatalogService(stores(db), nil, nil, nil)
	assert.True(t, domain.IsValidationError(err))
}
