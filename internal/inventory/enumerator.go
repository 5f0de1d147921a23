// Package inventory implements the source inventory (spec.md C3): the set
// of locally usable source addresses and default gateways, refreshed from
// an OS collaborator.
//
// listInterfaces below is adapted from the teacher's
// internal/service/localaddr.go (NewLocalAddrLister/listInterfaces),
// generalized from "IPv4-only dropdown" to full dual-stack classification
// feeding the connectivity engine.
package inventory

import (
	"context"
	"net"
	"net/netip"
	"sort"

	"github.com/jackpal/gateway"

	"github.com/nexaddr/getapr/internal/addrx"
)

// Enumerator is the OS collaborator of spec.md §6: it returns every
// non-loopback unicast address assigned to a local interface, plus any
// default gateways. The core never branches on OS identity; it only
// talks to this interface (spec.md §9, "OS-specific interface
// enumeration").
type Enumerator interface {
	Sources(ctx context.Context) ([]addrx.Address, error)
	DefaultGateways(ctx context.Context) (gw4, gw6 *addrx.Address, err error)
}

// netEnumerator is the default Enumerator: net.Interfaces for source
// addresses (as in the teacher's listInterfaces), jackpal/gateway for the
// IPv4 default route, and a best-effort OS-specific reader for the IPv6
// default route (see gateway6_*.go).
type netEnumerator struct{}

// NewDefault returns the production Enumerator.
func NewDefault() Enumerator { return netEnumerator{} }

func (netEnumerator) Sources(ctx context.Context) ([]addrx.Address, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	// Deterministic order: by interface index, the way the teacher's
	// listInterfaces sorts by name before flattening.
	sort.Slice(ifaces, func(i, j int) bool { return ifaces[i].Index < ifaces[j].Index })

	var out []addrx.Address
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue // unreadable interface; skip, don't fail the whole refresh
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			nip, ok := netip.AddrFromSlice(ipNet.IP)
			if !ok {
				continue
			}
			nip = nip.Unmap()
			if nip.IsLoopback() {
				continue
			}
			zoneIdx := 0
			if nip.Is6() && nip.IsLinkLocalUnicast() {
				zoneIdx = ifc.Index
			}
			out = append(out, addrx.FromNetIPWithZoneIndex(nip, zoneIdx))
		}
	}
	return out, nil
}

func (netEnumerator) DefaultGateways(ctx context.Context) (gw4, gw6 *addrx.Address, err error) {
	if ip, gerr := gateway.DiscoverGateway(); gerr == nil {
		if nip, ok := netip.AddrFromSlice(ip.To4()); ok && nip.Is4() {
			a := addrx.FromNetIPWithZoneIndex(nip, 0)
			gw4 = &a
		}
	}
	if a, ok := discoverIPv6Gateway(); ok {
		gw6 = &a
	}
	return gw4, gw6, nil
}
