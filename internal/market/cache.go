package market

import (
	"sync"
	"time"
)

// Cache provides a TTL-based in-memory cache of scanned market records so
// collection passes landing within the TTL reuse the previous scan instead
// of refetching from the API.
type Cache struct {
	mu      sync.RWMutex
	records map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	record    Record
	fetchedAt time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		records: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *Cache) Get(id string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.records[id]
	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		return Record{}, false
	}
	return entry.record, true
}

func (c *Cache) SetAll(records []Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for _, r := range records {
		c.records[r.ID] = cacheEntry{
			record:    r,
			fetchedAt: now,
		}
	}
}

// All returns all non-expired entries.
func (c *Cache) All() []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := time.Now()
	result := make([]Record, 0, len(c.records))
	for _, entry := range c.records {
		if now.Sub(entry.fetchedAt) <= c.ttl {
			result = append(result, entry.record)
		}
	}
	return result
}
