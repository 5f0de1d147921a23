// Package destset implements the destination set (spec.md C4): the
// bounded collection of destination addresses the engine probes sources
// against. The locking shape follows the same RWMutex-guarded
// copy-on-read pattern as internal/inventory, adapted from the teacher's
// internal/service/localaddr.go.
package destset

import (
	"sync"

	"github.com/nexaddr/getapr/internal/addrx"
)

// Set is a bounded, deduplicated collection of destination addresses.
// Some entries are "protected" (anchors and default gateways) and are
// exempt from TrimTo's eviction.
type Set struct {
	mu        sync.RWMutex
	order     []addrx.Address
	protected map[addrx.Address]bool
}

// New returns an empty Set.
func New() *Set {
	return &Set{protected: make(map[addrx.Address]bool)}
}

// Add appends da to the set if not already present. protect marks da as
// exempt from TrimTo eviction (used for anchors and default gateways per
// spec.md §4.4).
func (s *Set) Add(da addrx.Address, protect bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.order {
		if existing.Equal(da) {
			if protect {
				s.protected[da] = true
			}
			return
		}
	}
	s.order = append(s.order, da)
	if protect {
		s.protected[da] = true
	}
}

// Remove deletes da from the set, protected or not.
func (s *Set) Remove(da addrx.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.order {
		if existing.Equal(da) {
			s.order = append(s.order[:i], s.order[i+1:]...)
			delete(s.protected, da)
			return
		}
	}
}

// Contains reports whether da is currently a member of the set.
func (s *Set) Contains(da addrx.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, existing := range s.order {
		if existing.Equal(da) {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current destination list, in insertion
// order, except that a TrimTo that evicted entries has moved every
// protected entry ahead of the unprotected ones.
func (s *Set) Snapshot() []addrx.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]addrx.Address, len(s.order))
	copy(out, s.order)
	return out
}

// TrimTo evicts oldest unprotected entries, in insertion order, until at
// most max entries remain. Protected entries (anchors, default gateways)
// are never evicted, even if that leaves the set above max.
func (s *Set) TrimTo(max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) <= max {
		return
	}

	var protected, unprotected []addrx.Address
	for _, a := range s.order {
		if s.protected[a] {
			protected = append(protected, a)
		} else {
			unprotected = append(unprotected, a)
		}
	}

	budget := max - len(protected)
	if budget < 0 {
		budget = 0
	}
	if len(unprotected) > budget {
		// Oldest-first eviction: unprotected is already in insertion
		// order, so keep its tail.
		unprotected = unprotected[len(unprotected)-budget:]
	}

	s.order = append(append([]addrx.Address{}, protected...), unprotected...)
}

// Len reports the current number of destinations.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
