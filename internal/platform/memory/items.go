package memory

import (
	"context"
	"sort"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/store"
	"github.com/samber/lo"
)

// ItemStore implements store.ItemStore.
type ItemStore struct {
	db *DB
}

var _ store.ItemStore = (*ItemStore)(nil)

// FindFiltered implements store.ItemStore.
func (s *ItemStore) FindFiltered(
	ctx context.Context,
	filter domain.ItemFilter,
	page domain.Page,
) ([]domain.Item, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return paginate(s.db.filterItems(filter, nil), page), nil
}

// CountFiltered implements store.ItemStore.
func (s *ItemStore) CountFiltered(ctx context.Context, filter domain.ItemFilter) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return int64(len(s.db.filterItems(filter, nil))), nil
}

// FindByID implements store.ItemStore.
func (s *ItemStore) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.items[id]
	if !ok {
		return nil, store.ErrItemNotFound
	}
	item := rec.item
	return &item, nil
}

// Exists implements store.ItemStore.
func (s *ItemStore) Exists(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.db.items[id]
	return ok, nil
}

// SelfPrice sums, over the item's direct components, the component quantity times
// the cheapest buy-out price among that component's active lots.
func (s *ItemStore) SelfPrice(ctx context.Context, id int64) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	rec, ok := s.db.items[id]
	if !ok {
		return 0, store.ErrItemNotFound
	}
	if len(rec.components) == 0 {
		return 0, store.ErrSelfPriceUnavailable
	}

	var total int64
	for _, c := range rec.components {
		cheapest, ok := s.db.cheapestActiveBuyout(c.ItemID)
		if !ok {
			return 0, store.ErrSelfPriceUnavailable
		}
		total += c.Quantity * cheapest
	}
	return total, nil
}

// Categories implements store.ItemStore.
func (s *ItemStore) Categories(ctx context.Context) ([]string, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	all := lo.FlatMap(lo.Values(s.db.items), func(rec *itemRecord, _ int) []string {
		return rec.categories
	})
	return sortedUniq(all), nil
}

// cheapestActiveBuyout is called with the lock held.
func (db *DB) cheapestActiveBuyout(itemID int64) (int64, bool) {
	var (
		best  int64
		found bool
	)
	for _, rec := range db.lots {
		if rec.itemID != itemID || rec.lot.Status != domain.LotStatusActive {
			continue
		}
		if !found || rec.lot.BuyoutPrice < best {
			best = rec.lot.BuyoutPrice
			found = true
		}
	}
	return best, found
}

func sortedUniq(values []string) []string {
	out := lo.Uniq(values)
	sort.Strings(out)
	return out
}
