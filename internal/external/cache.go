// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package external

import (
	"context"
	"sync"
	"time"

	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

// DefaultTTL is how long a query's records are served from the cache.
const DefaultTTL = time.Hour

// FetchFunc produces the records for a cache miss.
type FetchFunc func(ctx context.Context) ([]types.ExternalRecord, error)

type cacheEntry struct {
	storedAt time.Time
	records  []types.ExternalRecord
}

// ResultCache memoizes external records by query key. Entries older than
// the TTL are replaced on the next access to the same key; nothing is
// evicted in the background, so the key space grows with distinct
// queries for the life of the process.
//
// The lock is never held across a fetch. Concurrent misses on one key
// each fetch, and the last writer's entry stands.
type ResultCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewResultCache returns an empty cache. A non-positive ttl uses
// DefaultTTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// GetOrFetch returns the stored records for key while they are younger
// than the TTL. Otherwise it calls fetch, stores the result, and returns
// it. The bool reports a cache hit. Fetch errors are returned as is and
// nothing is stored.
func (c *ResultCache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) ([]types.ExternalRecord, bool, error) {
	if records, ok := c.lookup(key); ok {
		return records, true, nil
	}

	records, err := fetch(ctx)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{storedAt: c.now(), records: records}
	c.mu.Unlock()
	return records, false, nil
}

// Age returns how long ago key was stored, and whether it is present.
func (c *ResultCache) Age(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.storedAt), true
}

// Len returns the number of stored keys, stale ones included.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) lookup(key string) ([]types.ExternalRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.records, true
}
