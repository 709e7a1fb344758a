package cache

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStats counts lookups served by a MemoryCache
type MemoryStats struct {
	Items  int
	Hits   uint64
	Misses uint64
}

// MemoryCache keeps encoded reference entries in process memory until
// they expire
type MemoryCache struct {
	entries *gocache.Cache
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// NewMemoryCache creates a memory cache. A zero TTL passed to Set uses
// defaultTTL.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: gocache.New(defaultTTL, cleanupInterval),
	}
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.entries.Get(key); found {
		if b, ok := val.([]byte); ok {
			c.hits.Add(1)
			return b, true
		}
	}
	c.misses.Add(1)
	return nil, false
}

// Set stores a copy of value; callers may reuse the slice
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.entries.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (c *MemoryCache) Delete(key string) error {
	c.entries.Delete(key)
	return nil
}

// Clear drops every entry and resets the counters
func (c *MemoryCache) Clear() error {
	c.entries.Flush()
	c.hits.Store(0)
	c.misses.Store(0)
	return nil
}

// Len returns the number of entries, including expired ones not yet
// cleaned up
func (c *MemoryCache) Len() int {
	return c.entries.ItemCount()
}

// Stats returns the entry count and hit/miss counters
func (c *MemoryCache) Stats() MemoryStats {
	return MemoryStats{
		Items:  c.entries.ItemCount(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
