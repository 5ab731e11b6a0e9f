package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemoryCache implements the Cache interface with a process-local store.
type InMemoryCache struct {
	store *gocache.Cache
}

// Global in-memory cache instance.
var inMemoryCache *InMemoryCache

// NewInMemoryCache creates a dedicated in-memory cache. Report runs create
// their own instance so memoized entries never leak across runs.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		store: gocache.New(ExpiryDefaultInMemory, 10*time.Minute),
	}
}

// InitializeInMemoryCache initializes the global in-memory cache instance.
func InitializeInMemoryCache() {
	if inMemoryCache == nil {
		inMemoryCache = NewInMemoryCache()
	}
}

// GetInMemoryCache returns the global in-memory cache instance.
func GetInMemoryCache() *InMemoryCache {
	InitializeInMemoryCache()
	return inMemoryCache
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	span := StartCacheSpan(ctx, "inmemory", "get", map[string]interface{}{"key": key})
	defer FinishSpan(span)

	return c.store.Get(key)
}

// Set adds a value to the cache with the specified expiration.
func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	span := StartCacheSpan(ctx, "inmemory", "set", map[string]interface{}{"key": key})
	defer FinishSpan(span)

	if expiration == 0 {
		expiration = ExpiryDefaultInMemory
	}
	c.store.Set(key, value, expiration)
}

// Delete removes a key from the cache.
func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	c.store.Delete(key)
}

// DeleteByPrefix removes all keys with the given prefix.
func (c *InMemoryCache) DeleteByPrefix(ctx context.Context, prefix string) {
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}

// Flush removes all items from the cache.
func (c *InMemoryCache) Flush(ctx context.Context) {
	c.store.Flush()
}
