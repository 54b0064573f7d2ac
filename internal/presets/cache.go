package presets

import (
	"sort"
	"sync"
)

// Cache is an unbounded, process-lifetime map from preset id to a resolved
// value. Entries leave only through Invalidate or Clear.
//
// GetOrLoad does not deduplicate concurrent loads of the same key: each caller
// runs the loader and the last Set wins. Loaders are expected to be
// deterministic for the same disk content.
type Cache[V any] struct {
	entries map[string]V
	mutex   sync.RWMutex
}

// NewCache creates an empty cache.
func NewCache[V any]() *Cache[V] {
	return &Cache[V]{entries: make(map[string]V)}
}

// Get returns the cached value for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	v, ok := c.entries[key]
	return v, ok
}

// Set stores value under key, replacing any previous entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = value
}

// GetOrLoad returns the cached value, or runs load and caches its result.
// Failed loads are not cached.
func (c *Cache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := load()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v)

	return v, nil
}

// Invalidate removes key and reports whether it was present.
func (c *Cache[V]) Invalidate(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]V)
}

// Keys returns the cached keys in sorted order.
func (c *Cache[V]) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the cache contents.
func (c *Cache[V]) Snapshot() map[string]V {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make(map[string]V, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}
