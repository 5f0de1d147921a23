// Package resolver is the DNS collaborator of spec.md §6: resolve(name)
// -> addresses, with NXDOMAIN distinguished from any other failure. It is
// grounded on github.com/miekg/dns, adopted from the wider retrieval pack
// (bschaatsbergen-dnsdialer, routedns, sdns) since the teacher repo itself
// never does DNS resolution of its own.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/netip"

	"github.com/miekg/dns"
)

// ErrNXDOMAIN is returned when the name genuinely does not exist. All
// other resolver failures are wrapped and returned as-is so the caller
// can distinguish "no such name" from a transient/config problem per
// spec.md §7.
var ErrNXDOMAIN = errors.New("resolver: no such name")

// fallbackServers is used when /etc/resolv.conf cannot be read, mirroring
// getapr.py's hard-coded fallback behavior rather than failing outright.
var fallbackServers = []string{"1.1.1.1:53", "9.9.9.9:53"}

// Resolver looks up both address families for a name.
type Resolver interface {
	// Resolve returns every address found for name, IPv6 first, or
	// ErrNXDOMAIN (wrapped) if the name does not exist.
	Resolve(ctx context.Context, name string) ([]netip.Addr, error)
}

// DNSResolver queries servers sequentially using a plain *dns.Client.
type DNSResolver struct {
	Client  *dns.Client
	Servers []string
}

// New builds a DNSResolver using /etc/resolv.conf, falling back to
// well-known public resolvers if that file can't be parsed.
func New() *DNSResolver {
	servers := fallbackServers
	if cfg, err := dns.ClientConfigFromFile("/etc/resolv.conf"); err == nil && len(cfg.Servers) > 0 {
		servers = make([]string, len(cfg.Servers))
		for i, s := range cfg.Servers {
			servers[i] = s + ":" + cfg.Port
		}
	}
	return &DNSResolver{Client: new(dns.Client), Servers: servers}
}

// Resolve implements Resolver.
func (r *DNSResolver) Resolve(ctx context.Context, name string) ([]netip.Addr, error) {
	v6, err6 := r.query(ctx, name, dns.TypeAAAA)
	v4, err4 := r.query(ctx, name, dns.TypeA)

	if errors.Is(err6, ErrNXDOMAIN) && errors.Is(err4, ErrNXDOMAIN) {
		return nil, ErrNXDOMAIN
	}
	// A genuine answer on either family beats the other family's
	// NXDOMAIN, since NXDOMAIN is a per-qtype verdict in the wire
	// protocol, not a verdict on the whole name.
	if err6 != nil && !errors.Is(err6, ErrNXDOMAIN) {
		return nil, err6
	}
	if err4 != nil && !errors.Is(err4, ErrNXDOMAIN) {
		return nil, err4
	}

	out := make([]netip.Addr, 0, len(v6)+len(v4))
	out = append(out, v6...)
	out = append(out, v4...)
	if len(out) == 0 {
		return nil, ErrNXDOMAIN
	}
	return out, nil
}

func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) ([]netip.Addr, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.Servers {
		reply, _, err := r.Client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		if reply.Rcode == dns.RcodeNameError {
			return nil, ErrNXDOMAIN
		}
		if reply.Rcode != dns.RcodeSuccess {
			lastErr = fmt.Errorf("resolver: server %s returned rcode %d", server, reply.Rcode)
			continue
		}
		return extractAddrs(reply, qtype), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("resolver: no servers configured")
	}
	return nil, lastErr
}

func extractAddrs(reply *dns.Msg, qtype uint16) []netip.Addr {
	var out []netip.Addr
	for _, rr := range reply.Answer {
		switch qtype {
		case dns.TypeAAAA:
			if aaaa, ok := rr.(*dns.AAAA); ok {
				if a, ok := netip.AddrFromSlice(aaaa.AAAA); ok {
					out = append(out, a.Unmap())
				}
			}
		case dns.TypeA:
			if a4, ok := rr.(*dns.A); ok {
				if a, ok := netip.AddrFromSlice(a4.A.To4()); ok {
					out = append(out, a)
				}
			}
		}
	}
	return out
}
