package app

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	value    V
	found    bool // distinguishes "cached miss" from "not in cache"
	storedAt time.Time
}

// Cache is a concurrent-safe in-memory cache with support for caching
// negative lookups. Entries older than the TTL read as never cached; a zero
// TTL keeps entries until Delete or Flush.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[K]cacheEntry[V]
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[K]cacheEntry[V]),
	}
}

// Get returns (value, found, inCache). If inCache is false, the key has never
// been cached or its entry expired. If inCache is true and found is false,
// the key was cached as a miss.
func (c *Cache[K, V]) Get(key K) (V, bool, bool) {
	c.mu.RLock()
	entry, inCache := c.items[key]
	c.mu.RUnlock()
	if !inCache || c.expired(entry) {
		var zero V
		return zero, false, false
	}
	return entry.value, entry.found, true
}

// Set stores a value in the cache. Use found=false to cache a negative lookup.
func (c *Cache[K, V]) Set(key K, value V, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheEntry[V]{value: value, found: found, storedAt: c.now()}
}

func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Flush clears all entries from the cache.
func (c *Cache[K, V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]cacheEntry[V])
}

func (c *Cache[K, V]) expired(entry cacheEntry[V]) bool {
	return c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl
}
