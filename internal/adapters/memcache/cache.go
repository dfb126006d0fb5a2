// Package memcache is the in-process cache backend used when Redis is not configured.
package memcache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"reviewlens/internal/adapters/observability"
)

const defaultMaxEntries = 10000

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache keeps JSON encoded values with a TTL. Expired entries are dropped lazily.
type Cache struct {
	mu         sync.RWMutex
	data       map[string]entry
	maxEntries int
	now        func() time.Time
}

func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Cache{data: make(map[string]entry), maxEntries: maxEntries, now: time.Now}
}

// WithClock swaps the clock, for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

func (c *Cache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		observability.ObserveCache("memory", "miss")
		return false, nil
	}
	if err := json.Unmarshal(e.value, dst); err != nil {
		return false, fmt.Errorf("memcache decode %s: %w", key, err)
	}
	observability.ObserveCache("memory", "hit")
	return true, nil
}

func (c *Cache) Set(_ context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("memcache encode %s: %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.data[key]; !exists && len(c.data) >= c.maxEntries {
		c.evictLocked()
	}
	c.data[key] = entry{value: b, expiresAt: c.now().Add(time.Duration(ttlSec) * time.Second)}
	observability.ObserveCache("memory", "set")
	return nil
}

func (c *Cache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	observability.ObserveCache("memory", "del")
	return nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// evictLocked drops expired entries, or the one closest to expiry when none are.
func (c *Cache) evictLocked() {
	now := c.now()
	var oldestKey string
	var oldest time.Time
	for k, e := range c.data {
		if !now.Before(e.expiresAt) {
			delete(c.data, k)
			continue
		}
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
		}
	}
	if len(c.data) >= c.maxEntries && oldestKey != "" {
		delete(c.data, oldestKey)
	}
}
