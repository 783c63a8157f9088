// Package memcache is the in-process response cache used when Redis is not configured.
package memcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hbnb_web/internal/adapters/observability"
)

type entry struct {
	val     []byte
	expires time.Time
}

// Cache stores JSON-encoded values with a TTL, like the Redis adapter.
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func New() *Cache {
	return &Cache{items: map[string]entry{}, now: time.Now}
}

// NewWithClock is New with an injectable clock.
func NewWithClock(now func() time.Time) *Cache {
	c := New()
	c.now = now
	return c
}

func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expires) {
		if ok {
			c.mu.Lock()
			if cur, still := c.items[key]; still && !c.now().Before(cur.expires) {
				delete(c.items, key)
			}
			c.mu.Unlock()
		}
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	observability.ObserveCache("memory", "hit")
	if err := json.Unmarshal(e.val, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if ttlSec <= 0 {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[key] = entry{val: b, expires: c.now().Add(time.Duration(ttlSec) * time.Second)}
	c.mu.Unlock()
	observability.ObserveCache("memory", "set")
	return nil
}

func (c *Cache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	observability.ObserveCache("memory", "del")
	return nil
}
