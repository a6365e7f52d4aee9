package utils

import (
	"sync"
	"time"
)

type cacheEntry[T any] struct {
	value      T
	expiration time.Time
}

// Cache is an in-process TTL cache keyed by string.
type Cache[T any] struct {
	entries map[string]cacheEntry[T]
	mutex   sync.RWMutex
}

// NewCache initializes an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]cacheEntry[T]),
	}
}

// Set stores value under key until duration elapses. Expired entries are
// swept on the way.
func (c *Cache[T]) Set(key string, value T, duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for k, entry := range c.entries {
		if now.After(entry.expiration) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = cacheEntry[T]{
		value:      value,
		expiration: now.Add(duration),
	}
}

// Get retrieves the cached value if present and not expired. An expired
// entry is removed.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T

	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()
	if !ok {
		return zero, false
	}
	if time.Now().After(entry.expiration) {
		c.mutex.Lock()
		if current, ok := c.entries[key]; ok && time.Now().After(current.expiration) {
			delete(c.entries, key)
		}
		c.mutex.Unlock()
		return zero, false
	}
	return entry.value, true
}

// Len counts stored entries, expired ones included until they are swept.
func (c *Cache[T]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// Delete removes key from the cache.
func (c *Cache[T]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Clear removes every cached value.
func (c *Cache[T]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]cacheEntry[T])
}
