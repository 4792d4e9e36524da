package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache implements in-memory score caching.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache. Scores are immutable within a
// run, so the TTL only bounds memory on very large inputs.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a score from the cache.
func (c *MemoryCache) Get(key string) (float64, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(float64), true
	}
	return 0, false
}

// Set stores a score in the cache.
func (c *MemoryCache) Set(key string, score float64) {
	c.cache.SetDefault(key, score)
}

// Clear removes all scores from the cache.
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
