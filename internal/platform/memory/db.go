// Package memory provides a concurrency-safe in-memory implementation of every
// store interface. It backs local runs (database.driver=memory) and service tests.
package memory

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"github.com/ShipIM/database-refactoring/internal/domain"
	"github.com/samber/lo"
)

// Component is one edge of the item composition graph.
type Component struct {
	ItemID   int64
	Quantity int64
}

type itemRecord struct {
	item       domain.Item
	categories []string
	components []Component
}

type lotRecord struct {
	lot    domain.Lot
	itemID int64
}

// DB holds every in-memory table. The typed stores returned by its accessors
// share the same data and lock.
type DB struct {
	mu sync.RWMutex

	users      map[string]domain.User
	items      map[int64]*itemRecord
	favorites  map[string]map[int64]struct{}
	lots       map[int64]lotRecord
	nextItemID int64
	nextLotID  int64
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		users:     make(map[string]domain.User),
		items:     make(map[int64]*itemRecord),
		favorites: make(map[string]map[int64]struct{}),
		lots:      make(map[int64]lotRecord),
	}
}

// Users returns the UserStore view of the database.
func (db *DB) Users() *UserStore { return &UserStore{db: db} }

// Items returns the ItemStore view of the database.
func (db *DB) Items() *ItemStore { return &ItemStore{db: db} }

// Favorites returns the FavoriteStore view of the database.
func (db *DB) Favorites() *FavoriteStore { return &FavoriteStore{db: db} }

// Lots returns the LotStore view of the database.
func (db *DB) Lots() *LotStore { return &LotStore{db: db} }

// Dependencies returns the DependencyStore view of the database.
func (db *DB) Dependencies() *DependencyStore { return &DependencyStore{db: db} }

// PriceHistory returns the PriceHistoryStore view of the database.
func (db *DB) PriceHistory() *PriceHistoryStore { return &PriceHistoryStore{db: db} }

// AddItem stores an item under the given categories and returns it with its
// assigned id. A non-zero item.ID is kept as is.
func (db *DB) AddItem(item domain.Item, categories ...string) domain.Item {
	db.mu.Lock()
	defer db.mu.Unlock()

	if item.ID == 0 {
		db.nextItemID++
		item.ID = db.nextItemID
	} else if item.ID > db.nextItemID {
		db.nextItemID = item.ID
	}
	if item.Properties == nil {
		item.Properties = json.RawMessage("{}")
	}

	db.items[item.ID] = &itemRecord{item: item, categories: lo.Uniq(categories)}
	return item
}

// AddComponent records that quantity units of component are needed to build item.
// Unknown ids are ignored.
func (db *DB) AddComponent(itemID, componentID, quantity int64) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.items[itemID]
	if !ok {
		return
	}
	if _, ok := db.items[componentID]; !ok {
		return
	}
	rec.components = append(rec.components, Component{ItemID: componentID, Quantity: quantity})
}

// AddLot stores a lot for the given item and returns it with its assigned id.
func (db *DB) AddLot(itemID int64, lot domain.Lot) domain.Lot {
	db.mu.Lock()
	defer db.mu.Unlock()

	if lot.ID == 0 {
		db.nextLotID++
		lot.ID = db.nextLotID
	} else if lot.ID > db.nextLotID {
		db.nextLotID = lot.ID
	}
	if lot.Status == "" {
		lot.Status = domain.LotStatusActive
	}

	db.lots[lot.ID] = lotRecord{lot: lot, itemID: itemID}
	return lot
}

// matches applies the shared filter semantics. Callers hold the lock.
func (r *itemRecord) matches(filter domain.ItemFilter) bool {
	if filter.Name != nil &&
		!strings.Contains(strings.ToLower(r.item.Name), strings.ToLower(*filter.Name)) {
		return false
	}
	if filter.Category != nil && !lo.Contains(r.categories, *filter.Category) {
		return false
	}
	return true
}

// filterItems returns matching items ordered by id. Callers hold the lock.
func (db *DB) filterItems(filter domain.ItemFilter, keep func(id int64) bool) []domain.Item {
	out := make([]domain.Item, 0)
	for id, rec := range db.items {
		if keep != nil && !keep(id) {
			continue
		}
		if rec.matches(filter) {
			out = append(out, rec.item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// paginate returns the page window of rows. A page that is out of range or has a
// non-positive size yields an empty slice.
func paginate[T any](rows []T, page domain.Page) []T {
	offset := page.Offset()
	if page.Size <= 0 || offset < 0 || offset >= len(rows) {
		return []T{}
	}
	end := min(offset+page.Size, len(rows))
	return append([]T(nil), rows[offset:end]...)
}
