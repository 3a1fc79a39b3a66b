package memory

import (
	"context"
	"sort"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/ShipIM/database-refactoring/internal/store"
)

// DependencyStore implements store.DependencyStore with a breadth-first walk
// over the component graph.
type DependencyStore struct {
	db *DB
}

var _ store.DependencyStore = (*DependencyStore)(nil)

// Find implements store.DependencyStore.
func (s *DependencyStore) Find(ctx context.Context, itemID int64, page domain.Page) ([]domain.Dependency, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return paginate(s.db.expand(itemID), page), nil
}

// Count implements store.DependencyStore.
func (s *DependencyStore) Count(ctx context.Context, itemID int64) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return int64(len(s.db.expand(itemID))), nil
}

// expand lists every item reachable from root, each once at its shortest
// distance. The root is excluded; visited ids stop cycles.
func (db *DB) expand(root int64) []domain.Dependency {
	visited := map[int64]struct{}{root: {}}
	frontier := []int64{root}
	out := make([]domain.Dependency, 0)

	for level := int64(1); len(frontier) > 0; level++ {
		var next []int64
		for _, id := range frontier {
			rec, ok := db.items[id]
			if !ok {
				continue
			}
			for _, c := range rec.components {
				if _, seen := visited[c.ItemID]; seen {
					continue
				}
				visited[c.ItemID] = struct{}{}
				next = append(next, c.ItemID)
			}
		}

		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		for _, id := range next {
			out = append(out, domain.Dependency{Name: db.items[id].item.Name, ID: id, Level: level})
		}
		frontier = next
	}
	return out
}
