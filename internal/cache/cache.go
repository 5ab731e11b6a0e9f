// Package cache provides the in-process cache used to memoize remote
// entitlement lookups for the lifetime of a report run.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store with optional per-entry expiration.
type Cache interface {
	// Get retrieves a value from the cache.
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration.
	// ExpiryNever keeps the entry for the cache's lifetime.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache.
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix.
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache.
	Flush(ctx context.Context)
}
