package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
	"github.com/ShipIM/database-refactoring/internal/platform/metrics"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// UserDirectory answers whether a login is registered. IdentityService implements it.
type UserDirectory interface {
	UserExists(ctx context.Context, login string) (bool, error)
}

// CatalogStores groups the stores the catalog service reads and mutates.
type CatalogStores struct {
	Items        store.ItemStore
	Favorites    store.FavoriteStore
	Lots         store.LotStore
	Dependencies store.DependencyStore
	PriceHistory store.PriceHistoryStore
}

// CatalogService serves the item catalog: items and categories, favorites,
// active lots, dependency graphs, self price and daily price history.
type CatalogService struct {
	stores  CatalogStores
	users   UserDirectory
	metrics QueryMetrics
	logger  *slog.Logger
}

// NewCatalogService creates a new CatalogService.
// It returns an error if any store or the user directory is nil.
// A nil metrics recorder disables query metrics.
func NewCatalogService(
	stores CatalogStores,
	users UserDirectory,
	queryMetrics QueryMetrics,
	logger *slog.Logger,
) (*CatalogService, error) {
	switch {
	case stores.Items == nil:
		return nil, domain.NewValidationError("items", "cannot be nil", domain.ErrValidation)
	case stores.Favorites == nil:
		return nil, domain.NewValidationError("favorites", "cannot be nil", domain.ErrValidation)
	case stores.Lots == nil:
		return nil, domain.NewValidationError("lots", "cannot be nil", domain.ErrValidation)
	case stores.Dependencies == nil:
		return nil, domain.NewValidationError("dependencies", "cannot be nil", domain.ErrValidation)
	case stores.PriceHistory == nil:
		return nil, domain.NewValidationError("price_history", "cannot be nil", domain.ErrValidation)
	case users == nil:
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}

	if queryMetrics == nil {
		queryMetrics = metrics.NopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CatalogService{
		stores:  stores,
		users:   users,
		metrics: queryMetrics,
		logger:  logger.With(slog.String("component", "catalog_service")),
	}, nil
}

// ListItems returns one page of items matching the filter.
func (s *CatalogService) ListItems(
	ctx context.Context,
	filter domain.ItemFilter,
	page domain.Page,
) (domain.Paged[domain.Item], error) {
	defer s.observe("list_items", time.Now())

	return paged(ctx, s.log(ctx), "list_items", page,
		func(ctx context.Context) (int64, error) { return s.stores.Items.CountFiltered(ctx, filter) },
		func(ctx context.Context) ([]domain.Item, error) { return s.stores.Items.FindFiltered(ctx, filter, page) },
	)
}

// GetItem returns the item with the given id.
func (s *CatalogService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	defer s.observe("get_item", time.Now())

	item, err := s.stores.Items.FindByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewServiceError("get_item", "item not found", domain.ErrNotFound)
		}
		s.log(ctx).Error("failed to retrieve item",
			slog.String("error", err.Error()),
			slog.Int64("item_id", id))
		return nil, NewServiceError("get_item", "failed to retrieve item", err)
	}
	return item, nil
}

// ItemExists reports whether an item with the given id exists.
func (s *CatalogService) ItemExists(ctx context.Context, id int64) (bool, error) {
	defer s.observe("item_exists", time.Now())

	exists, err := s.stores.Items.Exists(ctx, id)
	if err != nil {
		return false, NewServiceError("item_exists", "failed to check item", err)
	}
	return exists, nil
}

// IsFavorite reports whether the user has favorited the item.
// The user is checked first, then the item.
func (s *CatalogService) IsFavorite(ctx context.Context, login string, itemID int64) (bool, error) {
	defer s.observe("is_favorite", time.Now())

	if err := s.requireUserAndItem(ctx, "is_favorite", login, itemID); err != nil {
		return false, err
	}

	exists, err := s.stores.Favorites.Exists(ctx, login, itemID)
	if err != nil {
		return false, NewServiceError("is_favorite", "failed to check favorite", err)
	}
	return exists, nil
}

// AddFavorite marks the item as a favorite of the user. Adding the same pair twice
// fails with domain.ErrConflict.
func (s *CatalogService) AddFavorite(ctx context.Context, login string, itemID int64) error {
	defer s.observe("add_favorite", time.Now())

	if err := s.requireUserAndItem(ctx, "add_favorite", login, itemID); err != nil {
		return err
	}

	if err := s.stores.Favorites.Insert(ctx, login, itemID); err != nil {
		switch {
		case store.IsDuplicateError(err):
			return NewServiceError("add_favorite", "item already in favorites", domain.ErrConflict)
		case store.IsInvalidEntityError(err):
			// The user or item vanished between the check and the insert.
			return NewServiceError("add_favorite", "user or item not found", domain.ErrNotFound)
		}
		s.log(ctx).Error("failed to add favorite",
			slog.String("error", err.Error()),
			slog.Int64("item_id", itemID))
		return NewServiceError("add_favorite", "failed to add favorite", err)
	}

	s.log(ctx).Debug("favorite added", slog.Int64("item_id", itemID))
	return nil
}

// RemoveFavorite removes the item from the user's favorites. Removing a favorite
// that does not exist succeeds.
func (s *CatalogService) RemoveFavorite(ctx context.Context, login string, itemID int64) error {
	defer s.observe("remove_favorite", time.Now())

	if err := s.requireUserAndItem(ctx, "remove_favorite", login, itemID); err != nil {
		return err
	}

	if err := s.stores.Favorites.Delete(ctx, login, itemID); err != nil {
		s.log(ctx).Error("failed to remove favorite",
			slog.String("error", err.Error()),
			slog.Int64("item_id", itemID))
		return NewServiceError("remove_favorite", "failed to remove favorite", err)
	}
	return nil
}

// ListFavorites returns one page of the user's favorite items matching the filter.
func (s *CatalogService) ListFavorites(
	ctx context.Context,
	login string,
	filter domain.ItemFilter,
	page domain.Page,
) (domain.Paged[domain.Item], error) {
	defer s.observe("list_favorites", time.Now())

	if err := s.requireUser(ctx, "list_favorites", login); err != nil {
		return domain.Paged[domain.Item]{}, err
	}

	return paged(ctx, s.log(ctx), "list_favorites", page,
		func(ctx context.Context) (int64, error) {
			return s.stores.Favorites.CountFiltered(ctx, login, filter)
		},
		func(ctx context.Context) ([]domain.Item, error) {
			return s.stores.Favorites.FindFiltered(ctx, login, filter, page)
		},
	)
}

// GetSelfPrice returns the cost of assembling the item from its direct components
// at their cheapest active buy-out prices. It fails with domain.ErrUncomputable when
// the item has no components or a component is not on sale.
func (s *CatalogService) GetSelfPrice(ctx context.Context, itemID int64) (int64, error) {
	defer s.observe("get_self_price", time.Now())

	if err := s.requireItem(ctx, "get_self_price", itemID); err != nil {
		return 0, err
	}

	price, err := s.stores.Items.SelfPrice(ctx, itemID)
	if err != nil {
		switch {
		case store.IsNoValueError(err):
			return 0, NewServiceError("get_self_price", "self price cannot be computed", domain.ErrUncomputable)
		case store.IsNotFoundError(err):
			return 0, NewServiceError("get_self_price", "item not found", domain.ErrNotFound)
		}
		s.log(ctx).Error("failed to compute self price",
			slog.String("error", err.Error()),
			slog.Int64("item_id", itemID))
		return 0, NewServiceError("get_self_price", "failed to compute self price", err)
	}
	return price, nil
}

// GetItemsForPeriod returns one page of daily price samples of the item, one per
// calendar day of the inclusive period. The period is passed to the store as is.
func (s *CatalogService) GetItemsForPeriod(
	ctx context.Context,
	period domain.Period,
	itemID int64,
	page domain.Page,
) (domain.Paged[domain.DailyPriceSample], error) {
	defer s.observe("get_items_for_period", time.Now())

	if err := s.requireItem(ctx, "get_items_for_period", itemID); err != nil {
		return domain.Paged[domain.DailyPriceSample]{}, err
	}

	return paged(ctx, s.log(ctx), "get_items_for_period", page,
		func(ctx context.Context) (int64, error) {
			return s.stores.PriceHistory.CountDaily(ctx, itemID, period)
		},
		func(ctx context.Context) ([]domain.DailyPriceSample, error) {
			return s.stores.PriceHistory.FindDaily(ctx, itemID, period, page)
		},
	)
}

// GetActiveLots returns one page of the item's ACTIVE lots.
func (s *CatalogService) GetActiveLots(
	ctx context.Context,
	itemID int64,
	page domain.Page,
) (domain.Paged[domain.Lot], error) {
	defer s.observe("get_active_lots", time.Now())

	if err := s.requireItem(ctx, "get_active_lots", itemID); err != nil {
		return domain.Paged[domain.Lot]{}, err
	}

	return paged(ctx, s.log(ctx), "get_active_lots", page,
		func(ctx context.Context) (int64, error) { return s.stores.Lots.CountActive(ctx, itemID) },
		func(ctx context.Context) ([]domain.Lot, error) { return s.stores.Lots.FindActive(ctx, itemID, page) },
	)
}

// GetDependencies returns one page of the item's transitive components in store order.
func (s *CatalogService) GetDependencies(
	ctx context.Context,
	itemID int64,
	page domain.Page,
) (domain.Paged[domain.Dependency], error) {
	defer s.observe("get_dependencies", time.Now())

	if err := s.requireItem(ctx, "get_dependencies", itemID); err != nil {
		return domain.Paged[domain.Dependency]{}, err
	}

	return paged(ctx, s.log(ctx), "get_dependencies", page,
		func(ctx context.Context) (int64, error) { return s.stores.Dependencies.Count(ctx, itemID) },
		func(ctx context.Context) ([]domain.Dependency, error) {
			return s.stores.Dependencies.Find(ctx, itemID, page)
		},
	)
}

// ListCategories returns every distinct category name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]string, error) {
	defer s.observe("list_categories", time.Now())

	categories, err := s.stores.Items.Categories(ctx)
	if err != nil {
		return nil, NewServiceError("list_categories", "failed to list categories", err)
	}
	return nonNil(categories), nil
}

// ListFavoriteCategories returns the distinct categories of the user's favorite items.
// Unknown users get an empty list.
func (s *CatalogService) ListFavoriteCategories(ctx context.Context, login string) ([]string, error) {
	defer s.observe("list_favorite_categories", time.Now())

	categories, err := s.stores.Favorites.Categories(ctx, login)
	if err != nil {
		return nil, NewServiceError("list_favorite_categories", "failed to list favorite categories", err)
	}
	return nonNil(categories), nil
}

func (s *CatalogService) requireUserAndItem(ctx context.Context, op, login string, itemID int64) error {
	if err := s.requireUser(ctx, op, login); err != nil {
		return err
	}
	return s.requireItem(ctx, op, itemID)
}

func (s *CatalogService) requireUser(ctx context.Context, op, login string) error {
	exists, err := s.users.UserExists(ctx, login)
	if err != nil {
		return NewServiceError(op, "failed to check user", err)
	}
	if !exists {
		return NewServiceError(op, "user not found", domain.ErrNotFound)
	}
	return nil
}

func (s *CatalogService) requireItem(ctx context.Context, op string, itemID int64) error {
	exists, err := s.stores.Items.Exists(ctx, itemID)
	if err != nil {
		s.log(ctx).Error("failed to check item existence",
			slog.String("error", err.Error()),
			slog.Int64("item_id", itemID))
		return NewServiceError(op, "failed to check item", err)
	}
	if !exists {
		return NewServiceError(op, "item not found", domain.ErrNotFound)
	}
	return nil
}

func (s *CatalogService) observe(op string, start time.Time) {
	s.metrics.ObserveQuery(op, time.Since(start))
}

func (s *CatalogService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// paged runs count then list under the same filter and assembles the page.
// Page bounds are passed to the store untouched.
func paged[T any](
	ctx context.Context,
	log *slog.Logger,
	op string,
	page domain.Page,
	count func(context.Context) (int64, error),
	list func(context.Context) ([]T, error),
) (domain.Paged[T], error) {
	total, err := count(ctx)
	if err != nil {
		log.Error("failed to count rows", slog.String("operation", op), slog.String("error", err.Error()))
		return domain.Paged[T]{}, NewServiceError(op, "failed to count results", err)
	}

	rows, err := list(ctx)
	if err != nil {
		log.Error("failed to list rows", slog.String("operation", op), slog.String("error", err.Error()))
		return domain.Paged[T]{}, NewServiceError(op, "failed to list results", err)
	}

	return domain.Paged[T]{Items: nonNil(rows), Total: total, Page: page}, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
