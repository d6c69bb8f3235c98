package service

import (
	"context"
	"time"
)

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

// CatalogCacheHelper binds a cache store to the catalog TTL so callers
// never pass TTLs around.
type CatalogCacheHelper struct {
	store cacheStore
	ttl   time.Duration
}

// NewCatalogCacheHelper constructs the helper. A nil store is allowed
// and disables caching.
func NewCatalogCacheHelper(store cacheStore, ttl time.Duration) *CatalogCacheHelper {
	if store == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCacheHelper{store: store, ttl: ttl}
}

// Get reads a cached value into dest.
func (h *CatalogCacheHelper) Get(ctx context.Context, key string, dest interface{}) error {
	return h.store.Get(ctx, key, dest)
}

// Set stores a value under the configured TTL.
func (h *CatalogCacheHelper) Set(ctx context.Context, key string, value interface{}) error {
	return h.store.Set(ctx, key, value, h.ttl)
}

// Invalidate drops cached entries matching the pattern.
func (h *CatalogCacheHelper) Invalidate(ctx context.Context, pattern string) error {
	return h.store.Invalidate(ctx, pattern)
}
