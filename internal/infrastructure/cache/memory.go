package cache

import (
	"context"
	"sync"
	"time"

	"github.com/macrolens/intake/internal/domain"
)

// defaultMaxEntries bounds the cache; expired entries are pruned first,
// then everything if still over the bound.
const defaultMaxEntries = 4096

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache with TTL support.
// Expired entries are dropped on access; there is no background sweeper.
type MemoryCache struct {
	data       map[string]cacheItem
	mutex      sync.RWMutex
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data:       make(map[string]cacheItem),
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists {
		return nil, domain.ErrCacheMiss
	}

	if c.now().After(item.Expiration) {
		c.mutex.Lock()
		if current, ok := c.data[key]; ok && c.now().After(current.Expiration) {
			delete(c.data, key)
		}
		c.mutex.Unlock()
		return nil, domain.ErrCacheMiss
	}

	return item.Value, nil
}

// Set stores a value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		c.pruneLocked()
	}

	c.data[key] = cacheItem{
		Value:      value,
		Expiration: c.now().Add(ttl),
	}

	return nil
}

func (c *MemoryCache) pruneLocked() {
	now := c.now()
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
		}
	}
	if len(c.data) >= c.maxEntries {
		c.data = make(map[string]cacheItem)
	}
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}

	return !c.now().After(item.Expiration), nil
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
	return nil
}

// Size returns the current number of items in the cache, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}
