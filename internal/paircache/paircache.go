// Package paircache implements the pair cache (spec.md C5): the
// per-(source, destination) rolling latency history the query planner
// ranks against. Locking follows the same mutex-guarded map shape the
// teacher uses for its in-memory channel state.
package paircache

import (
	"sync"

	"github.com/nexaddr/getapr/internal/addrx"
)

// Key identifies a cached pair. Both Address types are already
// comparable, so Key is usable directly as a map key.
type Key struct {
	Source, Dest addrx.Address
}

// Entry is the rolling state kept for one successfully probed
// (source, destination) pair. A pair only exists in the cache while its
// most recent probe succeeded — a failed probe removes the entry
// outright rather than being recorded in it (spec.md §4.6).
type Entry struct {
	LatencyMS int
	Samples   int
}

// Cache holds one Entry per pair with at least one successful probe.
// order tracks Key insertion order so callers that need a stable
// iteration (the query planner's candidate ranking) don't have to rely
// on Go's randomized map order.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]Entry
	order   []Key
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]Entry)}
}

// Upsert records a successful probe of (sa, da) at latencyMS. An
// existing entry's latency is blended into a rolling mean,
// (old + new) / 2 with integer division floored, per spec.md §4.5; a new
// entry is seeded with the observed latency directly.
func (c *Cache) Upsert(sa, da addrx.Address, latencyMS int) {
	key := Key{Source: sa, Dest: da}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if exists {
		e.LatencyMS = (e.LatencyMS + latencyMS) / 2
	} else {
		e.LatencyMS = latencyMS
		c.order = append(c.order, key)
	}
	e.Samples++
	c.entries[key] = e
}

// Remove deletes the cached entry for (sa, da), if any.
func (c *Cache) Remove(sa, da addrx.Address) {
	key := Key{Source: sa, Dest: da}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns a copy of every cached entry, keyed by pair.
func (c *Cache) Snapshot() map[Key]Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[Key]Entry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// SourceEntry pairs a cached entry with the source address it was
// recorded against.
type SourceEntry struct {
	Source addrx.Address
	Entry  Entry
}

// SnapshotForDestination returns every cached entry whose Dest equals da,
// in the order those pairs were first inserted. Used by the query
// planner to rank candidate sources for one destination (spec.md §4.8);
// returning a slice in insertion order keeps ties in the planner's
// stable sort deterministic instead of following Go's randomized map
// iteration.
func (c *Cache) SnapshotForDestination(da addrx.Address) []SourceEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []SourceEntry
	for _, k := range c.order {
		if k.Dest.Equal(da) {
			out = append(out, SourceEntry{Source: k.Source, Entry: c.entries[k]})
		}
	}
	return out
}
