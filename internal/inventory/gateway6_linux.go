//go:build linux

package inventory

import (
	"bufio"
	"encoding/hex"
	"net"
	"net/netip"
	"os"
	"strings"

	"github.com/nexaddr/getapr/internal/addrx"
)

// discoverIPv6Gateway is a best-effort reader of /proc/net/ipv6_route,
// looking for the default route (destination ::/0) and returning its
// next-hop. There is no cross-platform library for this in the pack the
// way jackpal/gateway covers IPv4 (see SPEC_FULL.md/DESIGN.md); Linux
// exposes it as a flat text table, so a small stdlib parser is the
// idiomatic answer here rather than reaching for a netlink client to
// read one line of text.
//
// Each line of /proc/net/ipv6_route is whitespace-separated:
//
//	dest destlen src srclen nexthop metric refcnt use flags ifname
func discoverIPv6Gateway() (addrx.Address, bool) {
	f, err := os.Open("/proc/net/ipv6_route")
	if err != nil {
		return addrx.Address{}, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 10 {
			continue
		}
		dest, destLen, nexthop, ifname := fields[0], fields[1], fields[4], fields[9]
		if destLen != "00" || dest != strings.Repeat("0", 32) {
			continue // not the default route
		}
		if nexthop == strings.Repeat("0", 32) {
			continue // on-link default, no real gateway address
		}
		raw, err := hex.DecodeString(nexthop)
		if err != nil || len(raw) != 16 {
			continue
		}
		nip, ok := netip.AddrFromSlice(net.IP(raw))
		if !ok {
			continue
		}
		zoneIdx := 0
		if nip.IsLinkLocalUnicast() {
			if ifi, err := net.InterfaceByName(ifname); err == nil {
				zoneIdx = ifi.Index
			}
		}
		return addrx.FromNetIPWithZoneIndex(nip, zoneIdx), true
	}
	return addrx.Address{}, false
}
