package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/Property-Management-Dashboard-Backend/internal/apperrors"
)

// entry wraps a cached value with expiry and insertion order tracking.
type entry struct {
	value     []byte
	expiry    time.Time
	insertIdx int64
}

// MemoryCache is an in-process Cache bounded by maxEntries.
// Thread-safe with sync.RWMutex.
type MemoryCache struct {
	mu         sync.RWMutex
	items      map[string]entry
	maxEntries int
	nextIdx    int64
	now        func() time.Time
}

// NewMemoryCache creates a MemoryCache holding at most maxEntries values.
func NewMemoryCache(maxEntries int) *MemoryCache {
	return &MemoryCache{
		items:      make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns a cached value if found and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, apperrors.ErrCacheMiss
	}

	if c.now().After(e.expiry) {
		// Expired: remove lazily
		c.mu.Lock()
		if e2, ok2 := c.items[key]; ok2 && c.now().After(e2.expiry) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, apperrors.ErrCacheMiss
	}

	return e.value, nil
}

// Set stores a value. Evicts the oldest entry if at capacity.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{
		value:     value,
		expiry:    c.now().Add(ttl),
		insertIdx: c.nextIdx,
	}
	c.nextIdx++

	if _, exists := c.items[key]; exists {
		c.items[key] = e
		return nil
	}

	if c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.evictOldest()
	}

	c.items[key] = e
	return nil
}

// Len returns the number of stored entries, including expired ones not yet removed.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Ping always succeeds.
func (c *MemoryCache) Ping(context.Context) error { return nil }

// Purge drops every entry.
func (c *MemoryCache) Purge(context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.items)
	c.items = make(map[string]entry)
	return n, nil
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
	return nil
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
