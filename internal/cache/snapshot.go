package cache

import (
	"strings"
	"sync"
	"time"
)

// TTL classes for snapshot entries.
const (
	// TTLQuote covers realtime per-symbol quotes.
	TTLQuote = 30 * time.Second
	// TTLAggregate covers fast-changing aggregate data (movers, sector
	// flow, northbound flow).
	TTLAggregate = 60 * time.Second
)

type snapshotEntry struct {
	value     interface{}
	createdAt time.Time
	ttl       time.Duration
}

// SnapshotCache is a volatile in-memory key/value store with per-entry TTL.
// Entries are replaced wholesale on refresh, never mutated in place. Safe
// for concurrent use.
type SnapshotCache struct {
	mu      sync.Mutex
	entries map[string]snapshotEntry
	now     func() time.Time
}

// NewSnapshotCache returns an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[string]snapshotEntry),
		now:     time.Now,
	}
}

// Get returns the value for key, or false when the entry is missing or its
// age exceeds its TTL. Expired entries are dropped, never surfaced.
func (c *SnapshotCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.createdAt) > e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Put stores value under key with the given TTL, replacing any prior entry.
func (c *SnapshotCache) Put(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = snapshotEntry{value: value, createdAt: c.now(), ttl: ttl}
}

// Clear removes a single key, or every entry when key is empty.
func (c *SnapshotCache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if key == "" {
		c.entries = make(map[string]snapshotEntry)
		return
	}
	delete(c.entries, key)
}

// ClearPrefix removes every entry whose key starts with prefix, e.g. all
// entries for one symbol.
func (c *SnapshotCache) ClearPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Len reports the number of stored entries, expired ones included.
func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
