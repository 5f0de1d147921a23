package probe

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/nexaddr/getapr/internal/addrx"
	"github.com/nexaddr/getapr/internal/flags"
)

// fakeConn satisfies net.Conn with a no-op Close.
type fakeConn struct{ net.Conn }

func (fakeConn) Close() error { return nil }

func alwaysSucceed(ctx context.Context, network string, laddr, raddr *net.TCPAddr, timeout time.Duration) (net.Conn, error) {
	return fakeConn{}, nil
}

func alwaysFail(ctx context.Context, network string, laddr, raddr *net.TCPAddr, timeout time.Duration) (net.Conn, error) {
	return nil, errors.New("connection refused")
}

func TestPreFilterVersionMismatch(t *testing.T) {
	f := &flags.Flags{}
	p := &Prober{Flags: f, Dial: alwaysSucceed, Timeout: time.Second, Port: 80}
	sa := addrx.MustParse("192.0.2.1")
	da := addrx.MustParse("2001:db8::1")
	if res := p.Probe(context.Background(), sa, da); res.OK {
		t.Fatal("cross-version pair must be rejected without dialing")
	}
}

func TestPreFilterLinkLocalMismatch(t *testing.T) {
	f := &flags.Flags{}
	p := &Prober{Flags: f, Dial: alwaysSucceed, Timeout: time.Second, Port: 80}
	sa := addrx.MustParse("2001:db8::1")
	da := addrx.FromNetIPWithZoneIndex(addrx.MustParse("fe80::1").Netip(), 2)
	if res := p.Probe(context.Background(), sa, da); res.OK {
		t.Fatal("GUA source to LLA destination must be rejected")
	}
}

func TestPreFilterNPTv6TriedBlocks(t *testing.T) {
	f := &flags.Flags{}
	f.MarkNPTv6Tried() // tried, but NPTv6 never confirmed
	p := &Prober{Flags: f, Dial: alwaysSucceed, Timeout: time.Second, Port: 80}
	sa := addrx.MustParse("fd00::1")
	da := addrx.MustParse("2001:db8::1")
	if res := p.Probe(context.Background(), sa, da); res.OK {
		t.Fatal("ULA->GUA must be rejected once NPTv6 is tried-and-false")
	}
}

func TestSuccessSetsFlagsAndLatencyFloor(t *testing.T) {
	f := &flags.Flags{}
	p := &Prober{Flags: f, Dial: alwaysSucceed, Timeout: time.Second, Port: 80}
	sa := addrx.MustParse("198.51.100.1")
	da := addrx.MustParse("203.0.113.1")

	res := p.Probe(context.Background(), sa, da)
	if !res.OK {
		t.Fatal("expected success")
	}
	if res.LatencyMS < 1 {
		t.Errorf("latency must be floored to at least 1ms, got %d", res.LatencyMS)
	}
	if !f.IPv4Ok() {
		t.Error("GUA<>GUA IPv4 success should set IPv4_ok")
	}
}

func TestNAT44SuccessSetsTriedAndFlag(t *testing.T) {
	f := &flags.Flags{}
	p := &Prober{Flags: f, Dial: alwaysSucceed, Timeout: time.Second, Port: 80}
	sa := addrx.MustParse("10.0.0.7")
	da := addrx.MustParse("198.51.100.7")

	res := p.Probe(context.Background(), sa, da)
	if !res.OK {
		t.Fatal("expected success")
	}
	if !f.NAT44() || !f.NAT44Tried() {
		t.Error("private->global v4 success should set both NAT44 and NAT44_tried")
	}
}

func TestFailureNeverReturnsError(t *testing.T) {
	f := &flags.Flags{}
	p := &Prober{Flags: f, Dial: alwaysFail, Timeout: time.Second, Port: 80}
	sa := addrx.MustParse("10.0.0.7")
	da := addrx.MustParse("198.51.100.7")

	res := p.Probe(context.Background(), sa, da)
	if res.OK {
		t.Fatal("expected failure")
	}
	if !f.NAT44Tried() {
		t.Error("a decisive attempt was made even though it failed; NAT44_tried should latch")
	}
	if f.NAT44() {
		t.Error("NAT44 must stay false on failure")
	}
}

func TestLinkLocalZoneMismatchRejected(t *testing.T) {
	f := &flags.Flags{}
	p := &Prober{Flags: f, Dial: alwaysSucceed, Timeout: time.Second, Port: 80}
	sa := addrx.FromNetIPWithZoneIndex(addrx.MustParse("fe80::1").Netip(), 2)
	da := addrx.FromNetIPWithZoneIndex(addrx.MustParse("fe80::2").Netip(), 3)
	if res := p.Probe(context.Background(), sa, da); res.OK {
		t.Fatal("link-local pair across different zones must be rejected")
	}
}
