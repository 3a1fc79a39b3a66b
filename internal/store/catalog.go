package store

import (
	"context"

	"github.com/ShipIM/database-refactoring/internal/domain"
)

// ItemStore defines read access to catalog items.
//
// FindFiltered and CountFiltered apply identical filter semantics: a nil
// filter field applies no restriction, Name is a case-insensitive substring
// match and Category is an exact match.
type ItemStore interface {
	// FindFiltered returns at most page.Size items at page.Offset(), ordered by id.
	FindFiltered(ctx context.Context, filter domain.ItemFilter, page domain.Page) ([]domain.Item, error)

	// CountFiltered returns the number of items matching filter.
	CountFiltered(ctx context.Context, filter domain.ItemFilter) (int64, error)

	// FindByID retrieves an item.
	// Returns ErrItemNotFound if the item does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Item, error)

	// Exists reports whether the item is stored.
	Exists(ctx context.Context, id int64) (bool, error)

	// SelfPrice computes the cost of building the item from its direct components.
	// Returns ErrSelfPriceUnavailable if the price cannot be resolved.
	SelfPrice(ctx context.Context, id int64) (int64, error)

	// Categories returns every distinct category name, sorted.
	Categories(ctx context.Context) ([]string, error)
}

// FavoriteStore defines persistence of the (login, item) favorite relation.
type FavoriteStore interface {
	// Insert adds the relation.
	// Returns ErrFavoriteExists if the pair is already stored.
	Insert(ctx context.Context, login string, itemID int64) error

	// Delete removes the relation. Deleting an absent pair is not an error.
	Delete(ctx context.Context, login string, itemID int64) error

	// Exists reports whether the pair is stored.
	Exists(ctx context.Context, login string, itemID int64) (bool, error)

	// FindFiltered returns the user's favorite items under the same filter
	// semantics as ItemStore.FindFiltered.
	FindFiltered(ctx context.Context, login string, filter domain.ItemFilter, page domain.Page) ([]domain.Item, error)

	// CountFiltered returns the number of the user's favorites matching filter.
	CountFiltered(ctx context.Context, login string, filter domain.ItemFilter) (int64, error)

	// Categories returns the distinct categories of the user's favorite items, sorted.
	Categories(ctx context.Context, login string) ([]string, error)
}

// LotStore defines read access to sale lots.
type LotStore interface {
	// FindActive returns the item's ACTIVE lots ordered by id.
	FindActive(ctx context.Context, itemID int64, page domain.Page) ([]domain.Lot, error)

	// CountActive returns the number of the item's ACTIVE lots.
	CountActive(ctx context.Context, itemID int64) (int64, error)
}

// DependencyStore exposes the recursive component expansion of an item.
type DependencyStore interface {
	// Find returns the page of the expansion rooted at itemID. The root itself is
	// not part of the result; rows are ordered by level, then id.
	Find(ctx context.Context, itemID int64, page domain.Page) ([]domain.Dependency, error)

	// Count returns the size of the full expansion rooted at itemID.
	Count(ctx context.Context, itemID int64) (int64, error)
}

// PriceHistoryStore exposes per-day price aggregates of an item's lots.
type PriceHistoryStore interface {
	// FindDaily returns one sample per calendar day of period (inclusive), ordered
	// by day. An inverted period yields no rows.
	FindDaily(ctx context.Context, itemID int64, period domain.Period, page domain.Page) ([]domain.DailyPriceSample, error)

	// CountDaily returns the number of samples FindDaily would produce without paging.
	CountDaily(ctx context.Context, itemID int64, period domain.Period) (int64, error)
}
