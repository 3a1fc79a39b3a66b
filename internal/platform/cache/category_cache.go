// Package cache provides read-through caching decorators for store implementations.
package cache

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ShipIM/database-refactoring/internal/store"
)

const categoriesKey = "categories"

// CategoryCache decorates a store.ItemStore, caching the category list for a TTL.
// Every other method is delegated to the wrapped store.
type CategoryCache struct {
	store.ItemStore

	cache  *cache.Cache
	logger *slog.Logger
}

var _ store.ItemStore = (*CategoryCache)(nil)

// NewCategoryCache wraps next. The TTL must be positive.
func NewCategoryCache(next store.ItemStore, ttl time.Duration, logger *slog.Logger) *CategoryCache {
	if next == nil {
		panic("item store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CategoryCache{
		ItemStore: next,
		cache:     cache.New(ttl, 2*ttl),
		logger:    logger.With(slog.String("component", "category_cache")),
	}
}

// Categories returns the cached category list, loading it from the wrapped store on a miss.
// Errors are never cached.
func (c *CategoryCache) Categories(ctx context.Context) ([]string, error) {
	if cached, ok := c.cache.Get(categoriesKey); ok {
		return slices.Clone(cached.([]string)), nil
	}

	categories, err := c.ItemStore.Categories(ctx)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(categoriesKey, slices.Clone(categories))
	c.logger.DebugContext(ctx, "category list cached", slog.Int("count", len(categories)))

	return categories, nil
}

// Invalidate drops the cached category list.
func (c *CategoryCache) Invalidate() {
	c.cache.Delete(categoriesKey)
}
