package memory

import (
	"context"
	"sort"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// LotStore implements store.LotStore.
type LotStore struct {
	db *DB
}

var _ store.LotStore = (*LotStore)(nil)

// FindActive implements store.LotStore.
func (s *LotStore) FindActive(ctx context.Context, itemID int64, page domain.Page) ([]domain.Lot, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return paginate(s.db.activeLots(itemID), page), nil
}

// CountActive implements store.LotStore.
func (s *LotStore) CountActive(ctx context.Context, itemID int64) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return int64(len(s.db.activeLots(itemID))), nil
}

func (db *DB) activeLots(itemID int64) []domain.Lot {
	out := make([]domain.Lot, 0)
	for _, rec := range db.lots {
		if rec.itemID == itemID && rec.lot.Status == domain.LotStatusActive {
			out = append(out, rec.lot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PriceHistoryStore implements store.PriceHistoryStore.
type PriceHistoryStore struct {
	db *DB
}

var _ store.PriceHistoryStore = (*PriceHistoryStore)(nil)

// FindDaily implements store.PriceHistoryStore. Every lot of the item counts
// toward the days it was open, whatever its current status.
func (s *PriceHistoryStore) FindDaily(
	ctx context.Context,
	itemID int64,
	period domain.Period,
	page domain.Page,
) ([]domain.DailyPriceSample, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	days := paginate(period.Days(), page)
	samples := make([]domain.DailyPriceSample, 0, len(days))
	for _, day := range days {
		sample := domain.DailyPriceSample{Day: day}
		for _, rec := range s.db.lots {
			if rec.itemID != itemID || !rec.lot.OpenOn(day) {
				continue
			}
			sample.Quantity++
			sample.MaxBuyoutPrice = max(sample.MaxBuyoutPrice, rec.lot.BuyoutPrice)
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

// CountDaily implements store.PriceHistoryStore.
func (s *PriceHistoryStore) CountDaily(ctx context.Context, itemID int64, period domain.Period) (int64, error) {
	return int64(len(period.Days())), nil
}
