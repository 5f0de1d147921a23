//go:build !linux

package inventory

import "github.com/nexaddr/getapr/internal/addrx"

// discoverIPv6Gateway has no portable implementation outside Linux in
// this repo; non-Linux hosts simply never seed an IPv6 default gateway
// destination (spec.md still functions — it only loses one of the four
// destinations seeded at C9, the anchor targets remain).
func discoverIPv6Gateway() (addrx.Address, bool) {
	return addrx.Address{}, false
}
