package engine

import (
	"context"
	"errors"
	"net/netip"
	"sort"

	"github.com/nexaddr/getapr/internal/addrx"
	"github.com/nexaddr/getapr/internal/flags"
	"github.com/nexaddr/getapr/internal/resolver"
)

// Family mirrors the OS socket address family constants; only AF_INET
// and AF_INET6 are ever produced.
type Family int

const (
	FamilyIPv4 Family = 4
	FamilyIPv6 Family = 6
)

// SockAddr is a materialized (address, port, scope) suitable for the OS
// sockets API, per spec.md §4.8 step 4. FlowInfo/ScopeID are only
// meaningful for IPv6.
type SockAddr struct {
	Addr     string
	Port     uint16
	FlowInfo uint32
	ScopeID  uint32
}

// Pair is one ranked (family, source, destination) triple returned by
// GetAddrPairs.
type Pair struct {
	Family      Family
	Source      SockAddr
	Destination SockAddr
}

type candidate struct {
	sa, da    addrx.Address
	latencyMS int
}

// suggestionRule is one row of the suggestion matrix in spec.md §4.8.
// gate reports whether the flag record has confirmed the reachability
// class this row assumes; without it, no destination of da's class has
// ever been shown reachable, so the row stays silent.
type suggestionRule struct {
	match     func(da addrx.Address) bool
	gate      func(f *flags.Flags) bool
	source    func(sa addrx.Address, da addrx.Address) bool
	latencyMS int
}

var suggestionMatrix = []suggestionRule{
	{ // v6 global, GUA_ok -> v6 global sources
		match:     func(da addrx.Address) bool { return da.Version() == 6 && da.IsGlobal() },
		gate:      func(f *flags.Flags) bool { return f.GUAOk() },
		source:    func(sa, _ addrx.Address) bool { return sa.Version() == 6 && sa.IsGlobal() },
		latencyMS: 200,
	},
	{ // v6 ULA -> v6 ULA sources
		match:     func(da addrx.Address) bool { return da.IsULA() },
		gate:      func(f *flags.Flags) bool { return f.ULAOk() },
		source:    func(sa, _ addrx.Address) bool { return sa.IsULA() },
		latencyMS: 199,
	},
	{ // v6 global, NPTv6-translated -> v6 ULA sources
		match:     func(da addrx.Address) bool { return da.Version() == 6 && da.IsGlobal() },
		gate:      func(f *flags.Flags) bool { return f.NPTv6() },
		source:    func(sa, _ addrx.Address) bool { return sa.IsULA() },
		latencyMS: 201,
	},
	{ // v6 LLA, LLA_ok -> v6 LLA sources of matching scope
		match: func(da addrx.Address) bool { return da.Version() == 6 && da.IsLinkLocal() },
		gate:  func(f *flags.Flags) bool { return f.LLAOk() },
		source: func(sa, da addrx.Address) bool {
			return sa.Version() == 6 && sa.IsLinkLocal() && sa.Zone() == da.Zone()
		},
		latencyMS: 1,
	},
	{ // v4 global reached via NAT44 -> v4 private sources
		match:     func(da addrx.Address) bool { return da.Version() == 4 && da.IsGlobal() },
		gate:      func(f *flags.Flags) bool { return f.NAT44() },
		source:    func(sa, _ addrx.Address) bool { return sa.Version() == 4 && sa.IsRFC1918() },
		latencyMS: 250,
	},
	{ // v4 private -> v4 private sources
		match:     func(da addrx.Address) bool { return da.Version() == 4 && da.IsRFC1918() },
		gate:      func(f *flags.Flags) bool { return true },
		source:    func(sa, _ addrx.Address) bool { return sa.Version() == 4 && sa.IsRFC1918() },
		latencyMS: 250,
	},
	{ // v4 global, IPv4_ok -> v4 global sources
		match:     func(da addrx.Address) bool { return da.Version() == 4 && da.IsGlobal() },
		gate:      func(f *flags.Flags) bool { return f.IPv4Ok() },
		source:    func(sa, _ addrx.Address) bool { return sa.Version() == 4 && sa.IsGlobal() },
		latencyMS: 250,
	},
	{ // v4 LLA -> v4 LLA sources; ungated, per getapr.py's unconditional
		// link-local suggestion.
		match:     func(da addrx.Address) bool { return da.Version() == 4 && da.IsLinkLocal() },
		gate:      func(f *flags.Flags) bool { return true },
		source:    func(sa, _ addrx.Address) bool { return sa.Version() == 4 && sa.IsLinkLocal() },
		latencyMS: 2,
	},
}

// GetAddrPairs implements C8: resolve target, synthesize or look up
// candidate pairs per destination, rank, and materialize OS-ready
// triples. An empty, nil-error result means "nothing known yet" or
// NXDOMAIN; any other resolver failure propagates.
func (e *Engine) GetAddrPairs(ctx context.Context, target string, port uint16) ([]Pair, error) {
	das, err := e.resolveTarget(ctx, target)
	if err != nil {
		if errors.Is(err, resolver.ErrNXDOMAIN) {
			return nil, nil
		}
		return nil, err
	}
	if len(das) == 0 {
		return nil, nil
	}

	var candidates []candidate
	for _, da := range das {
		if e.dest.Contains(da) {
			for _, se := range e.cache.SnapshotForDestination(da) {
				candidates = append(candidates, candidate{sa: se.Source, da: da, latencyMS: se.Entry.LatencyMS})
			}
			continue
		}

		suggested := e.suggestCandidates(da)
		candidates = append(candidates, suggested...)
		if len(suggested) > 0 {
			e.dest.Add(da, false)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		vi, vj := candidates[i].da.Version(), candidates[j].da.Version()
		if vi != vj {
			return vi > vj // IPv6 before IPv4
		}
		return candidates[i].latencyMS < candidates[j].latencyMS
	})

	pairs := make([]Pair, 0, len(candidates))
	for _, c := range candidates {
		pairs = append(pairs, materialize(c.sa, c.da, port))
	}
	return pairs, nil
}

// suggestCandidates synthesizes candidate pairs for a destination not
// yet in the destination set, using every known source address and the
// suggestion matrix of spec.md §4.8. Suggested pairs carry a placeholder
// latency so a reply is sortable before any probe has actually measured
// the pair.
func (e *Engine) suggestCandidates(da addrx.Address) []candidate {
	var out []candidate
	sources := e.inv.Snapshot()
	for _, rule := range suggestionMatrix {
		if !rule.match(da) || !rule.gate(e.flags) {
			continue
		}
		for _, sa := range sources {
			if rule.source(sa, da) {
				out = append(out, candidate{sa: sa, da: da, latencyMS: rule.latencyMS})
			}
		}
	}
	return out
}

// materialize builds the OS-ready triple for (sa, da, port); IPv6
// link-local zones are carried as a numeric ScopeID, never a textual
// interface name.
func materialize(sa, da addrx.Address, port uint16) Pair {
	family := FamilyIPv4
	if sa.Version() == 6 {
		family = FamilyIPv6
	}
	return Pair{
		Family: family,
		Source: SockAddr{
			Addr:    sa.Netip().String(),
			ScopeID: uint32(sa.Zone()),
		},
		Destination: SockAddr{
			Addr:    da.Netip().String(),
			Port:    port,
			ScopeID: uint32(da.Zone()),
		},
	}
}

// resolveTarget parses target as a literal address first; only on
// failure does it fall back to the DNS collaborator, coalescing
// concurrent lookups of the same name with singleflight. IPv6 results
// precede IPv4 results (the resolver already orders them that way).
func (e *Engine) resolveTarget(ctx context.Context, target string) ([]addrx.Address, error) {
	if a, err := addrx.Parse(target, nil); err == nil {
		return []addrx.Address{a}, nil
	}

	v, err, _ := e.sg.Do(target, func() (interface{}, error) {
		return e.resolver.Resolve(ctx, target)
	})
	if err != nil {
		return nil, err
	}

	netipAddrs := v.([]netip.Addr)
	out := make([]addrx.Address, len(netipAddrs))
	for i, a := range netipAddrs {
		out[i] = addrx.FromNetIPWithZoneIndex(a, 0)
	}
	return out, nil
}
