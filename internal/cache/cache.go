// Package cache provides a bounded, concurrency-safe cache of compiled
// patterns, keyed by their source text, so that repeated searches with the
// same pattern string skip the tokenizer and compiler entirely.
package cache

import (
	"sync"

	"github.com/oxhq/pgfast/internal/pattern"
)

// DefaultCapacity is the number of distinct pattern strings kept before the
// cache starts evicting the oldest entries.
const DefaultCapacity = 1000

// evictFraction is the share of the cache dropped once it is full, so a
// burst of unique patterns doesn't cause an eviction on every single insert.
const evictFraction = 0.25

// Cache compiles and remembers patterns. It is safe for concurrent use: the
// common case (cache hit) takes a read lock only, and only a miss that
// needs to insert takes the write lock.
//
// Correctness must never depend on whether the cache is enabled: Get always
// returns exactly what pattern.Compile(src) would have returned, it is only
// faster on repeat lookups. Callers may always bypass this package and call
// pattern.Compile directly with identical results.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string]pattern.Expr
	order    []string // insertion order, oldest first, for prefix-batch eviction
}

// New returns a Cache bounded at capacity entries. A non-positive capacity
// is replaced with DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]pattern.Expr, capacity),
	}
}

// Get returns the compiled form of src, compiling and storing it on first
// use. The returned error is whatever pattern.Compile(src) produced; it is
// never cached (a bad pattern is cheap to re-reject and caching failures
// would only waste a slot).
func (c *Cache) Get(src string) (pattern.Expr, error) {
	c.mu.RLock()
	expr, ok := c.entries[src]
	c.mu.RUnlock()
	if ok {
		return expr, nil
	}

	expr, err := pattern.Compile(src)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[src]; ok {
		return existing, nil // lost the race to another goroutine, use theirs
	}
	if len(c.entries) >= c.capacity {
		c.evictLocked()
	}
	c.entries[src] = expr
	c.order = append(c.order, src)
	return expr, nil
}

// evictLocked drops the oldest quarter of entries. Called with mu held.
func (c *Cache) evictLocked() {
	n := int(float64(len(c.order)) * evictFraction)
	if n < 1 {
		n = 1
	}
	for _, key := range c.order[:n] {
		delete(c.entries, key)
	}
	c.order = c.order[n:]
}

// Len reports the number of patterns currently cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
