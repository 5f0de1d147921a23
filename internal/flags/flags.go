// Package flags holds the environment flag lattice described in spec.md
// §3: a small set of booleans, each latched by a single observation, that
// record what kind of connectivity and translation this host's network
// actually has. All fields are set-once for the process lifetime except
// ULAPresent and RFC1918, which track the current source inventory.
package flags

import "sync/atomic"

// Flags is safe for concurrent use. Every field is an atomic.Bool so
// reads never race with the single writer that latches it, without
// needing a dedicated mutex — the flags never participate in an
// invariant spanning more than one of them.
type Flags struct {
	guaOK      atomic.Bool
	ulaOK      atomic.Bool
	llaOK      atomic.Bool
	ipv4OK     atomic.Bool
	ulaPresent atomic.Bool
	rfc1918    atomic.Bool
	nptv6      atomic.Bool
	nat44      atomic.Bool
	nptv6Tried atomic.Bool
	nat44Tried atomic.Bool
}

// Snapshot is the external, read-only view returned by Status().
type Snapshot struct {
	GUAOk      bool
	ULAOk      bool
	LLAOk      bool
	IPv4Ok     bool
	ULAPresent bool
	NPTv6      bool
	RFC1918    bool
	NAT44      bool
	NPTv6Tried bool
	NAT44Tried bool
}

// MarkGUAOk latches GUA_ok. Idempotent, monotonic.
func (f *Flags) MarkGUAOk() { f.guaOK.Store(true) }

// MarkULAOk latches ULA_ok.
func (f *Flags) MarkULAOk() { f.ulaOK.Store(true) }

// MarkLLAOk latches LLA_ok.
func (f *Flags) MarkLLAOk() { f.llaOK.Store(true) }

// MarkIPv4Ok latches IPv4_ok.
func (f *Flags) MarkIPv4Ok() { f.ipv4OK.Store(true) }

// MarkNPTv6 latches NPTv6 (a translator was observed).
func (f *Flags) MarkNPTv6() { f.nptv6.Store(true) }

// MarkNAT44 latches NAT44 (a translator was observed).
func (f *Flags) MarkNAT44() { f.nat44.Store(true) }

// MarkNPTv6Tried latches that a decisive NPTv6 attempt has been made.
func (f *Flags) MarkNPTv6Tried() { f.nptv6Tried.Store(true) }

// MarkNAT44Tried latches that a decisive NAT44 attempt has been made.
func (f *Flags) MarkNAT44Tried() { f.nat44Tried.Store(true) }

// SetULAPresent refreshes ULA_present from the current source inventory.
// Unlike the _ok/_tried flags this is not monotonic.
func (f *Flags) SetULAPresent(v bool) { f.ulaPresent.Store(v) }

// SetRFC1918 refreshes RFC1918 from the current source inventory.
func (f *Flags) SetRFC1918(v bool) { f.rfc1918.Store(v) }

func (f *Flags) GUAOk() bool      { return f.guaOK.Load() }
func (f *Flags) ULAOk() bool      { return f.ulaOK.Load() }
func (f *Flags) LLAOk() bool      { return f.llaOK.Load() }
func (f *Flags) IPv4Ok() bool     { return f.ipv4OK.Load() }
func (f *Flags) ULAPresent() bool { return f.ulaPresent.Load() }
func (f *Flags) RFC1918() bool    { return f.rfc1918.Load() }
func (f *Flags) NPTv6() bool      { return f.nptv6.Load() }
func (f *Flags) NAT44() bool      { return f.nat44.Load() }
func (f *Flags) NPTv6Tried() bool { return f.nptv6Tried.Load() }
func (f *Flags) NAT44Tried() bool { return f.nat44Tried.Load() }

// Snapshot takes a point-in-time copy of every flag for logging or for
// the public Status() façade.
func (f *Flags) Snapshot() Snapshot {
	return Snapshot{
		GUAOk:      f.GUAOk(),
		ULAOk:      f.ULAOk(),
		LLAOk:      f.LLAOk(),
		IPv4Ok:     f.IPv4Ok(),
		ULAPresent: f.ULAPresent(),
		NPTv6:      f.NPTv6(),
		RFC1918:    f.RFC1918(),
		NAT44:      f.NAT44(),
		NPTv6Tried: f.NPTv6Tried(),
		NAT44Tried: f.NAT44Tried(),
	}
}

// AsMap renders the subset of flags exposed by the public status() API
// (spec.md §6).
func (s Snapshot) AsMap() map[string]bool {
	return map[string]bool{
		"GUA_ok":      s.GUAOk,
		"ULA_ok":      s.ULAOk,
		"LLA_ok":      s.LLAOk,
		"IPv4_ok":     s.IPv4Ok,
		"ULA_present": s.ULAPresent,
		"NPTv6":       s.NPTv6,
		"RFC1918":     s.RFC1918,
		"NAT44":       s.NAT44,
	}
}
