package cache

import (
	"context"
	"sync"
	"time"

	"github.com/warrantyhub/backend/internal/domain"
)

// MemoryCache is a thread-safe in-memory implementation of domain.CacheRepository.
// It stores entries indefinitely; freshness is the lookup service's decision, so
// the janitor here is housekeeping only and never affects correctness.
type MemoryCache struct {
	data      map[string]*domain.CacheEntry
	mutex     sync.RWMutex
	retention time.Duration
}

// NewMemoryCache creates a new in-memory cache. Entries older than retention
// are swept periodically; retention <= 0 disables the sweep.
func NewMemoryCache(retention time.Duration) *MemoryCache {
	cache := &MemoryCache{
		data:      make(map[string]*domain.CacheEntry),
		retention: retention,
	}

	if retention > 0 {
		go cache.sweepExpired()
	}

	return cache
}

// Get retrieves the entry for a key, fresh or stale.
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	// Copy so callers cannot mutate the stored entry
	copied := *entry
	return &copied, nil
}

// Set stores an entry, unconditionally overwriting any previous one.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *domain.CacheEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	copied := *entry
	c.data[key] = &copied
	return nil
}

// Delete removes the entry for a key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// sweepExpired removes entries past the retention period every 10 minutes.
func (c *MemoryCache) sweepExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		cutoff := time.Now().Add(-c.retention)
		for key, entry := range c.data {
			if entry.CachedAt.Before(cutoff) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of entries (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all entries from the cache.
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]*domain.CacheEntry)
}
