package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/nexaddr/getapr/pkg/dumpx"
)

// runMonitor is C7: the single background observability task. Every
// sweep interval it may dump structured state and, every sixth tick,
// refresh the source inventory and trim the destination set back to its
// configured bound.
func (e *Engine) runMonitor() {
	defer e.wg.Done()
	var tick int
	for {
		tick++
		e.monitorTick(tick)

		if e.sleepOrStop(e.cfg.SweepInterval) {
			return
		}
	}
}

func (e *Engine) monitorTick(tick int) {
	if e.printing.Load() && e.shouldLogTick(tick) {
		e.dumpState()
	}
	if tick%e.cfg.MonitorRefreshEveryNTicks == 0 {
		ctx := context.Background()
		if err := e.inv.Refresh(ctx); err != nil {
			e.log.Warn("inventory refresh failed", zap.Error(err))
		}
		e.dest.TrimTo(e.cfg.MaxDestinations)
	}
}

// shouldLogTick implements the throttle of spec.md §4.7: the first
// MonitorTicksBeforeThrottle ticks always log; thereafter only every
// MonitorLogEveryNTicks-th tick does.
func (e *Engine) shouldLogTick(tick int) bool {
	if tick <= e.cfg.MonitorTicksBeforeThrottle {
		return true
	}
	return tick%e.cfg.MonitorLogEveryNTicks == 0
}

func (e *Engine) dumpState() {
	e.log.Info("connectivity state",
		zap.Any("sources", e.inv.Snapshot()),
		zap.Any("destinations", e.dest.Snapshot()),
		zap.Any("flags", e.flags.Snapshot()),
	)
	if ce := e.log.Check(zap.DebugLevel, "connectivity state (detail)"); ce != nil {
		ce.Write(zap.String("pair_cache", dumpx.Sdump(e.cache.Snapshot())))
	}
}
