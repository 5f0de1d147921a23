package engine

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/nexaddr/getapr/internal/addrx"
)

func TestShouldLogTickFirstThreeAlwaysLog(t *testing.T) {
	e := &Engine{cfg: Config{MonitorTicksBeforeThrottle: 3, MonitorLogEveryNTicks: 10}}
	for tick := 1; tick <= 3; tick++ {
		if !e.shouldLogTick(tick) {
			t.Errorf("expected tick %d to log", tick)
		}
	}
}

func TestShouldLogTickThrottlesAfterwards(t *testing.T) {
	e := &Engine{cfg: Config{MonitorTicksBeforeThrottle: 3, MonitorLogEveryNTicks: 10}}
	if e.shouldLogTick(4) {
		t.Error("tick 4 should not log under the default throttle")
	}
	if !e.shouldLogTick(10) {
		t.Error("tick 10 should log (every tenth)")
	}
	if !e.shouldLogTick(20) {
		t.Error("tick 20 should log (every tenth)")
	}
}

func TestMonitorTickTrimsDestinationSetEverySixthTick(t *testing.T) {
	e := New(zap.NewNop(), fakeResolver{}, fakeCatalog{}, fakeEnum{}, Config{MaxDestinations: 1})
	_ = e.inv.Refresh(context.Background())
	e.dest.Add(addrx.MustParse("198.51.100.1"), false)
	e.dest.Add(addrx.MustParse("198.51.100.2"), false)
	e.dest.Add(addrx.MustParse("198.51.100.3"), false)

	e.monitorTick(e.cfg.MonitorRefreshEveryNTicks)

	if e.dest.Len() != 1 {
		t.Fatalf("expected destination set trimmed to 1 on the refresh tick, got %d", e.dest.Len())
	}
}

func TestMonitorTickLeavesDestinationSetUntouchedOffTick(t *testing.T) {
	e := New(zap.NewNop(), fakeResolver{}, fakeCatalog{}, fakeEnum{}, Config{MaxDestinations: 1})
	_ = e.inv.Refresh(context.Background())
	e.dest.Add(addrx.MustParse("198.51.100.1"), false)
	e.dest.Add(addrx.MustParse("198.51.100.2"), false)

	e.monitorTick(1)

	if e.dest.Len() != 2 {
		t.Fatalf("expected destination set untouched on a non-refresh tick, got %d", e.dest.Len())
	}
}
