// ABOUTME: Process-wide cache for full (unwindowed) index snapshots
// ABOUTME: Correctness-bound: invalidated on every structural change, no TTL
package index

import (
	"log"
	"sync"

	"github.com/pressroom/dedup/internal/models"
)

// Cache holds one serialized full snapshot plus its id ordering per domain.
// Windowed builds never go through it: a cached filtered window is harder to
// reason about than the cost of rebuilding one, and a stale window risks
// false negatives. All access to the underlying entries goes through this
// type; nothing else may touch them.
type Cache struct {
	builder *Builder

	mu      sync.Mutex
	entries map[models.Domain]*cacheEntry
}

type cacheEntry struct {
	data []byte
	ids  []int64
}

// NewCache creates a Cache backed by the given builder
func NewCache(builder *Builder) *Cache {
	return &Cache{
		builder: builder,
		entries: make(map[models.Domain]*cacheEntry),
	}
}

// GetOrBuildFull returns the cached full snapshot for a domain, building and
// caching it on first use. A cached entry that fails the consistency check
// is discarded and rebuilt, never served.
func (c *Cache) GetOrBuildFull(domain models.Domain) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[domain]; ok {
		snapshot, err := Deserialize(entry.data, entry.ids)
		if err == nil {
			return snapshot, nil
		}
		log.Printf("discarding corrupt cached %s index: %v", domain, err)
		delete(c.entries, domain)
	}

	snapshot, err := c.builder.Build(domain, 0)
	if err != nil {
		return nil, err
	}

	c.store(domain, snapshot)
	return snapshot, nil
}

// Extend appends one vector to the cached full snapshot so checks later in
// the same run see it. A cold cache is left alone; the next GetOrBuildFull
// picks the vector up from the store anyway.
func (c *Cache) Extend(domain models.Domain, itemID int64, vector []float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[domain]
	if !ok {
		return nil
	}

	snapshot, err := Deserialize(entry.data, entry.ids)
	if err != nil {
		log.Printf("dropping cached %s index on extend: %v", domain, err)
		delete(c.entries, domain)
		return nil
	}

	// First vector after an empty-corpus build: start a real snapshot
	if snapshot.Dimension() == 0 {
		snapshot = NewSnapshot(len(vector))
	}

	if err := snapshot.Add(itemID, vector); err != nil {
		delete(c.entries, domain)
		return err
	}

	c.store(domain, snapshot)
	return nil
}

// Invalidate clears the cached snapshot for a domain
func (c *Cache) Invalidate(domain models.Domain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, domain)
}

// CachedCount returns the number of vectors in the cached snapshot, or -1
// when the cache is cold for the domain.
func (c *Cache) CachedCount(domain models.Domain) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[domain]
	if !ok {
		return -1
	}
	return len(entry.ids)
}

func (c *Cache) store(domain models.Domain, snapshot *Snapshot) {
	c.entries[domain] = &cacheEntry{
		data: snapshot.Serialize(),
		ids:  append([]int64(nil), snapshot.IDs()...),
	}
}
