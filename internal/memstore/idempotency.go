package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/josh-kwaku/bank-ledger/internal/domain"
)

type IdempotencyCache struct {
	mu      sync.Mutex
	entries map[string]domain.IdempotencyEntry
	now     func() time.Time
}

func NewIdempotencyCache() *IdempotencyCache {
	return &IdempotencyCache{
		entries: make(map[string]domain.IdempotencyEntry),
		now:     time.Now,
	}
}

// Get returns nil, nil when the key is unknown or expired.
func (c *IdempotencyCache) Get(_ context.Context, key string) (*domain.IdempotencyEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.ExpiresAt.After(c.now()) {
		return nil, nil
	}
	return &e, nil
}

// Set keeps the first live entry for a key.
func (c *IdempotencyCache) Set(_ context.Context, entry *domain.IdempotencyEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[entry.Key]; ok && e.ExpiresAt.After(c.now()) {
		return nil
	}
	c.entries[entry.Key] = *entry
	return nil
}

func (c *IdempotencyCache) CleanExpired(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	now := c.now()
	for k, e := range c.entries {
		if !e.ExpiresAt.After(now) {
			delete(c.entries, k)
			n++
		}
	}
	return n, nil
}
