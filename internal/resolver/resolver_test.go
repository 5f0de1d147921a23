package resolver

import (
	"net/netip"
	"testing"

	"github.com/miekg/dns"
)

func TestExtractAddrsAAAA(t *testing.T) {
	reply := new(dns.Msg)
	rr, err := dns.NewRR("example.com. 300 IN AAAA 2001:db8::1")
	if err != nil {
		t.Fatalf("build fixture RR: %v", err)
	}
	reply.Answer = []dns.RR{rr}

	got := extractAddrs(reply, dns.TypeAAAA)
	want := netip.MustParseAddr("2001:db8::1")
	if len(got) != 1 || got[0] != want {
		t.Fatalf("expected [%v], got %v", want, got)
	}
}

func TestExtractAddrsA(t *testing.T) {
	reply := new(dns.Msg)
	rr, err := dns.NewRR("example.com. 300 IN A 198.51.100.1")
	if err != nil {
		t.Fatalf("build fixture RR: %v", err)
	}
	reply.Answer = []dns.RR{rr}

	got := extractAddrs(reply, dns.TypeA)
	want := netip.MustParseAddr("198.51.100.1")
	if len(got) != 1 || got[0] != want {
		t.Fatalf("expected [%v], got %v", want, got)
	}
}

func TestExtractAddrsIgnoresMismatchedType(t *testing.T) {
	reply := new(dns.Msg)
	rr, err := dns.NewRR("example.com. 300 IN A 198.51.100.1")
	if err != nil {
		t.Fatalf("build fixture RR: %v", err)
	}
	reply.Answer = []dns.RR{rr}

	got := extractAddrs(reply, dns.TypeAAAA)
	if len(got) != 0 {
		t.Fatalf("expected no AAAA results from an A record, got %v", got)
	}
}
