package resolver

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/okian/clubstats/internal/domain/model"
)

// CorpusCache stores entity corpora per type. Misses and backend failures
// both report ok=false; the resolver refetches from its provider.
type CorpusCache interface {
	Get(ctx context.Context, t model.EntityType) (names []string, ok bool)
	Set(ctx context.Context, t model.EntityType, names []string)
	Invalidate(ctx context.Context, t model.EntityType)
	Clear(ctx context.Context)
}

// DefaultCorpusTTL is how long a corpus snapshot is served.
const DefaultCorpusTTL = 5 * time.Minute

type corpusEntry struct {
	names   []string
	expires time.Time
}

// MemoryCache is an in-process CorpusCache with a fixed TTL.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[model.EntityType]corpusEntry
	ttl     time.Duration
	now     func() time.Time
}

// CacheOption configures a MemoryCache.
type CacheOption func(*MemoryCache)

// WithTTL sets the entry lifetime. Non-positive values are ignored.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *MemoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) CacheOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache(opts ...CacheOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[model.EntityType]corpusEntry),
		ttl:     DefaultCorpusTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached names for t if present and not expired.
func (c *MemoryCache) Get(_ context.Context, t model.EntityType) ([]string, bool) {
	c.mu.RLock()
	e, ok := c.entries[t]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		// Expired entries are dropped lazily; a concurrent Set may already
		// have replaced this one, so only delete what we saw.
		c.mu.Lock()
		if cur, ok := c.entries[t]; ok && cur.expires.Equal(e.expires) {
			delete(c.entries, t)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.names, true
}

// Set stores a copy of names for t.
func (c *MemoryCache) Set(_ context.Context, t model.EntityType, names []string) {
	c.mu.Lock()
	c.entries[t] = corpusEntry{names: slices.Clone(names), expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops the entry for t.
func (c *MemoryCache) Invalidate(_ context.Context, t model.EntityType) {
	c.mu.Lock()
	delete(c.entries, t)
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
