// Package memory backs the server's listing cache with a process-local
// table. One instance serves every request in an embedded deployment,
// so the cached listings never need to leave the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/prn-tf/stockroom/internal/repository"
)

// Cache implements repository.Cache in memory. Entries are copied on
// the way in and out; callers can mutate what they pass and what they
// get back without corrupting the cached bytes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry

	done     chan struct{}
	stopOnce sync.Once
}

// entry is one cached payload. A zero deadline means the entry never
// expires.
type entry struct {
	payload  []byte
	deadline time.Time
}

func (e entry) live(now time.Time) bool {
	return e.deadline.IsZero() || now.Before(e.deadline)
}

// NewCache creates a cache and starts its janitor. Expired entries are
// swept every cleanupInterval; non-positive intervals fall back to a
// minute.
func NewCache(cleanupInterval time.Duration) *Cache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	c := &Cache{
		entries: make(map[string]entry),
		done:    make(chan struct{}),
	}
	go c.janitor(cleanupInterval)

	return c
}

// Get returns a copy of the payload under key, or ErrCacheMiss when
// the key is absent or lapsed.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !e.live(time.Now()) {
		return nil, repository.ErrCacheMiss
	}

	return append([]byte(nil), e.payload...), nil
}

// Set stores a copy of value under key. A positive ttl bounds the
// entry's life; zero or negative keeps it until deleted.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := entry{payload: append([]byte(nil), value...)}
	if ttl > 0 {
		e.deadline = time.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()

	return nil
}

// Delete drops the entry under key. Deleting an absent key is fine.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

// Stop ends the janitor. Safe to call more than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

// janitor sweeps lapsed entries so keys that are never read again do
// not pin their payloads forever.
func (c *Cache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, e := range c.entries {
				if !e.live(now) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Ensure Cache implements repository.Cache.
var _ repository.Cache = (*Cache)(nil)
