package feed

import (
	"sync"
	"time"
)

// ItemCache memoizes fetched feed items per source uid for a fixed TTL.
// It is owned by the Fetcher; a concurrent write for the same uid is
// last-write-wins, which is fine for an idempotent cache.
type ItemCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	items     []Item
	expiresAt time.Time
}

func NewItemCache(ttl time.Duration) *ItemCache {
	return &ItemCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *ItemCache) Get(uid string) ([]Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[uid]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.items, true
}

func (c *ItemCache) Set(uid string, items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[uid] = cacheEntry{
		items:     items,
		expiresAt: time.Now().Add(c.ttl),
	}
}
