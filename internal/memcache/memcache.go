// Package memcache provides the in-memory tier of the cache: a bounded,
// thread-safe LRU keyed by identifier. Eviction is count-based; the owner
// never needs to lock around it.
package memcache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU caches up to a fixed number of entries, evicting the least recently
// used. Safe for concurrent use.
type LRU[V any] struct {
	inner *lru.Cache[string, V]
}

// New creates an LRU holding at most entries items.
func New[V any](entries int) (*LRU[V], error) {
	inner, err := lru.New[string, V](entries)
	if err != nil {
		return nil, err
	}
	return &LRU[V]{inner: inner}, nil
}

// Get retrieves a value and marks it recently used.
func (c *LRU[V]) Get(key string) (V, bool) {
	return c.inner.Get(key)
}

// Add stores a value, evicting the oldest entry when full.
func (c *LRU[V]) Add(key string, value V) {
	c.inner.Add(key, value)
}

// Has checks membership without affecting recency.
func (c *LRU[V]) Has(key string) bool {
	return c.inner.Contains(key)
}

// Remove drops a key.
func (c *LRU[V]) Remove(key string) {
	c.inner.Remove(key)
}

// Clear drops every entry.
func (c *LRU[V]) Clear() {
	c.inner.Purge()
}

// Len returns the number of cached entries.
func (c *LRU[V]) Len() int {
	return c.inner.Len()
}
