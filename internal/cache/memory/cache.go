package memory

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache holds values of one type for a fixed TTL. Expired entries are
// invisible to Get and are swept in the background.
type Cache[V any] struct {
	mu       sync.RWMutex
	entries  map[string]entry[V]
	ttl      time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// New starts a cache whose sweeper runs until ctx is done or Stop is called.
func New[V any](ctx context.Context, ttl time.Duration) *Cache[V] {
	c := newCache[V](ttl, time.Now)
	go c.sweepLoop(ctx, cleanupInterval)
	return c
}

func newCache[V any](ttl time.Duration, now func() time.Time) *Cache[V] {
	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     now,
		stop:    make(chan struct{}),
	}
}

// Get and Set take a context only to share a signature with remote caches.
func (c *Cache[V]) Get(_ context.Context, key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Set(_ context.Context, key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// size counts entries that are still stored, expired or not.
func (c *Cache[V]) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) sweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *Cache[V]) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}
