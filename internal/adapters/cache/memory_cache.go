package cache

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/llm-rss-gen/internal/core"
	"go.uber.org/zap"
)

// Clock returns the current time
type Clock func() time.Time

// Option configures a cache
type Option func(*options)

type options struct {
	now Clock
}

// WithClock overrides the time source used to stamp and age entries
func WithClock(now Clock) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// MemoryCache is an in-memory implementation of the FeedCache interface.
// Entries are never removed; an entry older than the TTL is ignored on read
// and replaced on the next store.
type MemoryCache struct {
	entries map[string]*core.CacheEntry
	mu      sync.RWMutex
	logger  *zap.Logger
	ttl     time.Duration
	now     Clock
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache(logger *zap.Logger, ttl time.Duration, opts ...Option) *MemoryCache {
	o := buildOptions(opts)
	return &MemoryCache{
		entries: make(map[string]*core.CacheEntry),
		logger:  logger,
		ttl:     ttl,
		now:     o.now,
	}
}

// Lookup returns the cached feed for a URL if it is younger than the TTL
func (c *MemoryCache) Lookup(ctx context.Context, key string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}

	if age := c.now().Sub(entry.CreatedAt); age >= c.ttl {
		c.logger.Debug("Ignoring stale cache entry", zap.String("url", key), zap.Duration("age", age))
		return "", false
	}

	return entry.Body, true
}

// Store overwrites any entry for the URL
func (c *MemoryCache) Store(ctx context.Context, key string, body string) error {
	entry := &core.CacheEntry{
		Key:       key,
		CreatedAt: c.now(),
		Body:      body,
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()

	return nil
}
