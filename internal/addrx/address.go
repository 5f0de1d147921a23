// Package addrx classifies unicast IP addresses for the connectivity
// discovery engine: version, loopback/link-local/private/global/ULA
// predicates, and zone (scope) handling for IPv6 link-locals.
package addrx

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// BadAddress is returned when a textual address is neither a valid IPv4
// nor IPv6 literal.
var BadAddress = errors.New("addrx: not a valid address literal")

// ZoneResolver maps an interface name (or numeric index string) to a
// numeric interface index, the form both POSIX and Windows socket APIs
// want at bind/connect time. net.InterfaceByName backs the default
// resolver; tests supply a fake.
type ZoneResolver func(name string) (int, error)

// DefaultZoneResolver resolves a zone name via the local interface table,
// falling back to treating the zone as an already-numeric index.
func DefaultZoneResolver(name string) (int, error) {
	if idx, err := strconv.Atoi(name); err == nil {
		return idx, nil
	}
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return 0, fmt.Errorf("resolve zone %q: %w", name, err)
	}
	return ifi.Index, nil
}

// Address is a classified unicast address: version, numeric value, and
// — for IPv6 link-locals — a canonicalized numeric zone index.
type Address struct {
	ip   netip.Addr
	zone int // numeric interface index; 0 when not link-local IPv6
}

// Parse classifies a textual address literal. IPv6 link-locals may carry
// a "%zone" suffix using either an interface name or a numeric index; a
// numeric index is used as is, and an interface name is canonicalized
// with resolve. A nil resolve uses DefaultZoneResolver. A zone on any
// other address is dropped.
func Parse(s string, resolve ZoneResolver) (Address, error) {
	if resolve == nil {
		resolve = DefaultZoneResolver
	}
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", BadAddress, s, err)
	}

	var zoneIdx int
	if ip.Is6() && ip.IsLinkLocalUnicast() && ip.Zone() != "" {
		if idx, aerr := strconv.Atoi(ip.Zone()); aerr == nil {
			zoneIdx = idx
		} else if zoneIdx, err = resolve(ip.Zone()); err != nil {
			return Address{}, fmt.Errorf("%w: %q: %v", BadAddress, s, err)
		}
	}
	// Strip the textual zone: the canonical identity of a link-local is
	// (numeric value, numeric zone index), not the spelling the caller used.
	return Address{ip: ip.WithZone(""), zone: zoneIdx}, nil
}

// MustParse is Parse but panics on error; only used in tests and for
// compile-time-known literals such as fallback anchors.
func MustParse(s string) Address {
	a, err := Parse(s, nil)
	if err != nil {
		panic(err)
	}
	return a
}

// FromNetIPWithZoneIndex builds an Address from an already-parsed netip.Addr
// and a pre-resolved numeric zone index. Used by collaborators (interface
// enumerator, DNS resolver) that already hold a net.IP/zone pair.
func FromNetIPWithZoneIndex(ip netip.Addr, zoneIdx int) Address {
	return Address{ip: ip.WithZone(""), zone: zoneIdx}
}

// Version reports 4 or 6.
func (a Address) Version() int {
	if a.ip.Is4() {
		return 4
	}
	return 6
}

// IsLoopback reports whether a is a loopback address.
func (a Address) IsLoopback() bool { return a.ip.IsLoopback() }

// IsLinkLocal reports whether a is a link-local address (IPv4
// 169.254.0.0/16 or IPv6 fe80::/10).
func (a Address) IsLinkLocal() bool { return a.ip.IsLinkLocalUnicast() }

// IsRFC1918 reports whether a is an IPv4 address in 10/8, 172.16/12 or
// 192.168/16. Always false for IPv6.
func (a Address) IsRFC1918() bool {
	return a.ip.Is4() && a.ip.IsPrivate()
}

// IsULA reports whether a is an IPv6 Unique Local Address, fc00::/7
// (RFC 4193). Always false for IPv4.
func (a Address) IsULA() bool {
	return a.ip.Is6() && a.ip.IsPrivate()
}

// IsGlobal reports whether a is routable on the public Internet: not
// loopback, not link-local, and not ULA/RFC1918.
func (a Address) IsGlobal() bool {
	return !a.IsLoopback() && !a.IsLinkLocal() && !a.IsRFC1918() && !a.IsULA()
}

// Zone returns the numeric interface index for an IPv6 link-local
// address, or 0 if a is not an IPv6 link-local.
func (a Address) Zone() int { return a.zone }

// Netip returns the underlying netip.Addr (without a textual zone; use
// Zone() for the numeric scope).
func (a Address) Netip() netip.Addr { return a.ip }

// IsValid reports whether a holds a parsed address at all (the zero
// value is invalid).
func (a Address) IsValid() bool { return a.ip.IsValid() }

// String renders the canonical textual form, with "%<index>" appended
// for IPv6 link-locals. Two addresses that compare Equal render
// identically modulo the case of any hex digits.
func (a Address) String() string {
	if a.ip.Is6() && a.IsLinkLocal() {
		return fmt.Sprintf("%s%%%d", a.ip.String(), a.zone)
	}
	return a.ip.String()
}

// Equal reports whether two addresses have the same version, the same
// numeric value, and — for IPv6 link-locals — the same numeric zone.
func (a Address) Equal(b Address) bool {
	if a.ip != b.ip {
		return false
	}
	if a.IsLinkLocal() && a.ip.Is6() {
		return a.zone == b.zone
	}
	return true
}
