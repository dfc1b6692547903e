package memcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"stayfinder/internal/adapters/observability"
)

// Cache is a process-wide in-memory TTL store used when no redis address is
// configured. Values are stored JSON-encoded so readers never alias a
// writer's slices. Expired entries are evicted lazily on read.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	body      []byte
	expiresAt time.Time
}

func New() *Cache {
	return &Cache{entries: map[string]entry{}, now: time.Now}
}

// NewWithClock is for tests that simulate TTL expiry.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{entries: map[string]entry{}, now: now}
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		ok = false
	}
	if !ok {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	return true, json.Unmarshal(e.body, dst)
}

func (c *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache("memory", "set")
	c.mu.Lock()
	c.entries[key] = entry{body: b, expiresAt: c.now().Add(time.Duration(ttlSec) * time.Second)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	observability.ObserveCache("memory", "del")
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
