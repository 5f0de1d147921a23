// Package probe implements the pair probe (spec.md C2): a single TCP
// connect attempt from a source address to a destination address, used
// purely as a reachability test. Connections are never handed back to
// callers.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/nexaddr/getapr/internal/addrx"
	"github.com/nexaddr/getapr/internal/flags"
)

// DefaultPort is the TCP port probed, per spec.md §6.
const DefaultPort = 80

// DefaultTimeout is the default connect timeout, per spec.md §6.
const DefaultTimeout = 5 * time.Second

// Dial abstracts the socket connect so tests can substitute a fake
// without opening real sockets. network is "tcp4" or "tcp6".
type Dial func(ctx context.Context, network string, laddr, raddr *net.TCPAddr, timeout time.Duration) (net.Conn, error)

// DefaultDial binds to laddr and connects to raddr using the standard
// library's net.Dialer.
func DefaultDial(ctx context.Context, network string, laddr, raddr *net.TCPAddr, timeout time.Duration) (net.Conn, error) {
	d := &net.Dialer{Timeout: timeout, LocalAddr: laddr}
	return d.DialContext(ctx, network, raddr.String())
}

// Result is the outcome of a single probe.
type Result struct {
	OK        bool
	LatencyMS int
}

// Prober runs pair probes against a shared, monotonic Flags record.
type Prober struct {
	Flags   *flags.Flags
	Dial    Dial
	Timeout time.Duration
	Port    int
}

// New builds a Prober with the spec.md defaults.
func New(f *flags.Flags) *Prober {
	return &Prober{Flags: f, Dial: DefaultDial, Timeout: DefaultTimeout, Port: DefaultPort}
}

// Allowed runs the pre-filters of spec.md §4.2 without touching the
// network. A false return means Probe would reject sa/da outright.
func Allowed(sa, da addrx.Address, f *flags.Flags) bool {
	if sa.Version() != da.Version() {
		return false
	}
	if sa.IsLinkLocal() != da.IsLinkLocal() {
		return false
	}
	if sa.Version() == 6 && sa.IsLinkLocal() && sa.Zone() != da.Zone() {
		return false
	}
	if sa.IsULA() && !da.IsULA() && f.NPTv6Tried() && !f.NPTv6() {
		return false
	}
	if sa.IsRFC1918() && da.IsGlobal() && f.NAT44Tried() && !f.NAT44() {
		return false
	}
	return true
}

// Probe attempts a single TCP connect from sa to da. It returns
// Result{OK:false} on any pre-filter rejection, timeout, or connect
// error — probe failures are never surfaced as Go errors (spec.md §7);
// they are recovered locally and reported as a plain failed Result.
func (p *Prober) Probe(ctx context.Context, sa, da addrx.Address) Result {
	if !Allowed(sa, da, p.Flags) {
		return Result{OK: false}
	}

	translatingNPT := sa.Version() == 6 && sa.IsULA() && !da.IsULA()
	translatingNAT := sa.Version() == 4 && sa.IsRFC1918() && da.IsGlobal()

	network := "tcp4"
	if sa.Version() == 6 {
		network = "tcp6"
	}
	laddr := &net.TCPAddr{IP: sa.Netip().AsSlice(), Zone: zoneName(sa), Port: 0}
	raddr := &net.TCPAddr{IP: da.Netip().AsSlice(), Zone: zoneName(da), Port: p.Port}

	t0 := time.Now()
	conn, err := p.Dial(ctx, network, laddr, raddr, p.Timeout)

	// Translation attempts are decisive the moment they are actually
	// dialed, success or failure — the _tried flag gates future
	// pre-filtering, it does not mean the translator itself worked.
	if translatingNPT {
		p.Flags.MarkNPTv6Tried()
	}
	if translatingNAT {
		p.Flags.MarkNAT44Tried()
	}

	if err != nil {
		return Result{OK: false}
	}
	defer conn.Close()

	latency := int(time.Since(t0) / time.Millisecond)
	if latency < 1 {
		latency = 1
	}

	switch {
	case translatingNPT:
		p.Flags.MarkNPTv6()
	case translatingNAT:
		p.Flags.MarkNAT44()
	case sa.Version() == 6 && sa.IsULA() && da.IsULA():
		p.Flags.MarkULAOk()
	case sa.Version() == 6 && sa.IsLinkLocal() && da.IsLinkLocal():
		p.Flags.MarkLLAOk()
	case sa.Version() == 6:
		p.Flags.MarkGUAOk()
	default:
		p.Flags.MarkIPv4Ok()
	}

	return Result{OK: true, LatencyMS: latency}
}

// zoneName renders the numeric zone index as the string net.TCPAddr
// expects; Go's socket layer accepts a numeric string as a zone.
func zoneName(a addrx.Address) string {
	if a.Version() == 6 && a.IsLinkLocal() && a.Zone() != 0 {
		return strconv.Itoa(a.Zone())
	}
	return ""
}
