package engine

import (
	"context"

	"github.com/nexaddr/getapr/internal/addrx"
)

// runPoller is C6: the single background sweep task. It holds no lock
// across a probe (probe.Probe may block up to the configured timeout);
// snapshots of the source inventory and destination set are taken at the
// start of each loop and only individual container APIs are re-acquired
// for the brief pair-cache/destination-set updates.
func (e *Engine) runPoller() {
	defer e.wg.Done()
	for {
		e.sweep()

		e.pollMu.Lock()
		e.pollCount = (e.pollCount + 1) % 1000
		e.pollMu.Unlock()
		e.firstSweepOnce.Do(func() { close(e.firstDone) })

		if e.sleepOrStop(e.cfg.SweepInterval) {
			return
		}
	}
}

func (e *Engine) sweep() {
	ctx := context.Background()
	sources := e.inv.Snapshot()

	for _, sa := range sources {
		destinations := e.dest.Snapshot()
		var toRemove []addrx.Address

		for _, da := range destinations {
			res := e.prober.Probe(ctx, sa, da)
			if res.OK {
				e.cache.Upsert(sa, da, res.LatencyMS)
				continue
			}
			e.cache.Remove(sa, da)
			if shouldHaveWorked(sa, da, e.flags) {
				toRemove = append(toRemove, da)
			}
		}

		for _, da := range toRemove {
			e.dest.Remove(da)
		}
	}
}

// shouldHaveWorked implements the pruning rules of spec.md §4.6: a
// destination is only dropped from the destination set on probe failure
// if the flag record says this exact reachability class has already been
// confirmed working elsewhere, meaning this particular destination is
// very likely gone rather than merely not-yet-confirmed.
func shouldHaveWorked(sa, da addrx.Address, f interface {
	IPv4Ok() bool
	NAT44() bool
	GUAOk() bool
	ULAOk() bool
	NPTv6() bool
	LLAOk() bool
}) bool {
	if sa.Version() != da.Version() {
		return false
	}

	switch {
	case sa.Version() == 4 && sa.IsGlobal() && da.IsGlobal() && f.IPv4Ok():
		return true
	case sa.Version() == 4 && sa.IsRFC1918() && da.IsGlobal() && f.NAT44():
		return true
	case sa.Version() == 6 && sa.IsGlobal() && da.IsGlobal() && f.GUAOk():
		return true
	case sa.Version() == 6 && sa.IsULA() && da.IsULA() && f.ULAOk():
		return true
	case sa.Version() == 6 && sa.IsULA() && da.IsGlobal() && f.NPTv6():
		return true
	case sa.Version() == 6 && sa.IsLinkLocal() && da.IsLinkLocal() && sa.Zone() == da.Zone() && f.LLAOk():
		return true
	}
	return false
}
