package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	// ExpiryDefaultInMemory is the default entry lifetime.
	ExpiryDefaultInMemory = 30 * time.Minute

	// ExpiryNever pins an entry for the cache's lifetime. Report runs use
	// this: a run-scoped cache is discarded whole at run end.
	ExpiryNever = gocache.NoExpiration
)
