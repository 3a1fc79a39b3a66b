package memory

import (
	"context"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// FavoriteStore implements store.FavoriteStore.
type FavoriteStore struct {
	db *DB
}

var _ store.FavoriteStore = (*FavoriteStore)(nil)

// Insert implements store.FavoriteStore. Like the foreign keys of the SQL schema,
// it rejects pairs that reference a missing user or item.
func (s *FavoriteStore) Insert(ctx context.Context, login string, itemID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[login]; !ok {
		return store.ErrInvalidEntity
	}
	if _, ok := s.db.items[itemID]; !ok {
		return store.ErrInvalidEntity
	}

	set, ok := s.db.favorites[login]
	if !ok {
		set = make(map[int64]struct{})
		s.db.favorites[login] = set
	}
	if _, ok := set[itemID]; ok {
		return store.ErrFavoriteExists
	}
	set[itemID] = struct{}{}
	return nil
}

// Delete implements store.FavoriteStore.
func (s *FavoriteStore) Delete(ctx context.Context, login string, itemID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	delete(s.db.favorites[login], itemID)
	return nil
}

// Exists implements store.FavoriteStore.
func (s *FavoriteStore) Exists(ctx context.Context, login string, itemID int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.db.favorites[login][itemID]
	return ok, nil
}

// FindFiltered implements store.FavoriteStore.
func (s *FavoriteStore) FindFiltered(
	ctx context.Context,
	login string,
	filter domain.ItemFilter,
	page domain.Page,
) ([]domain.Item, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return paginate(s.db.filterItems(filter, s.db.isFavorite(login)), page), nil
}

// CountFiltered implements store.FavoriteStore.
func (s *FavoriteStore) CountFiltered(
	ctx context.Context,
	login string,
	filter domain.ItemFilter,
) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return int64(len(s.db.filterItems(filter, s.db.isFavorite(login)))), nil
}

// Categories implements store.FavoriteStore.
func (s *FavoriteStore) Categories(ctx context.Context, login string) ([]string, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var all []string
	for id := range s.db.favorites[login] {
		if rec, ok := s.db.items[id]; ok {
			all = append(all, rec.categories...)
		}
	}
	return sortedUniq(all), nil
}

func (db *DB) isFavorite(login string) func(int64) bool {
	set := db.favorites[login]
	return func(id int64) bool {
		_, ok := set[id]
		return ok
	}
}
