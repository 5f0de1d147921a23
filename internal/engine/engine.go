// Package engine wires the containers (source inventory, destination
// set, pair cache), the flag lattice, and the two background workers
// (poller, monitor) into the connectivity discovery engine described by
// spec.md §2-§5 and §4.9.
package engine

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nexaddr/getapr/internal/addrx"
	"github.com/nexaddr/getapr/internal/anchor"
	"github.com/nexaddr/getapr/internal/destset"
	"github.com/nexaddr/getapr/internal/flags"
	"github.com/nexaddr/getapr/internal/inventory"
	"github.com/nexaddr/getapr/internal/paircache"
	"github.com/nexaddr/getapr/internal/probe"
	"github.com/nexaddr/getapr/internal/resolver"
)

// Fallback anchor targets used when nine random catalog lookups per
// family turn up nothing connected, preserved verbatim from the original
// prototype (ipv6/ipv4.lookup.test-ipv6.com).
var (
	FallbackTarget6 = addrx.MustParse("2a00:dd80:3c::b3f")
	FallbackTarget4 = addrx.MustParse("216.218.223.250")
)

// Engine is the process-lifetime connectivity discovery engine.
type Engine struct {
	cfg Config
	log *zap.Logger

	flags *flags.Flags
	inv   *inventory.Inventory
	dest  *destset.Set
	cache *paircache.Cache

	prober   *probe.Prober
	resolver resolver.Resolver
	anchors  anchor.Catalog

	target6, target4 addrx.Address

	pollMu    sync.Mutex
	pollCount int

	printing atomic.Bool

	sg singleflight.Group

	initOnce  sync.Once
	initErr   error
	firstDone chan struct{}

	firstSweepOnce sync.Once

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New constructs an Engine. Call Init before using it.
func New(log *zap.Logger, res resolver.Resolver, cat anchor.Catalog, enum inventory.Enumerator, cfg Config) *Engine {
	cfg.setDefaults()
	log = log.Named("engine")
	f := &flags.Flags{}
	return &Engine{
		cfg:       cfg,
		log:       log,
		flags:     f,
		inv:       inventory.New(enum, f),
		dest:      destset.New(),
		cache:     paircache.New(),
		prober:    &probe.Prober{Flags: f, Dial: probe.DefaultDial, Timeout: cfg.ProbeTimeout, Port: cfg.Port},
		resolver:  res,
		anchors:   cat,
		firstDone: make(chan struct{}),
		stopCh:    make(chan struct{}),
	}
}

// Init performs C9: anchor target selection, an initial inventory
// refresh, destination set seeding, and starts the background poller
// and monitor. It is idempotent and blocks until the first sweep
// completes; it does not wait for a SweepInterval to elapse.
func (e *Engine) Init(ctx context.Context, printing bool) error {
	e.initOnce.Do(func() {
		e.printing.Store(printing)
		e.log.Info("choosing probe targets")
		e.target6 = e.chooseAnchor(ctx, 6)
		e.target4 = e.chooseAnchor(ctx, 4)
		e.log.Info("chose probe targets", zap.Stringer("target6", e.target6), zap.Stringer("target4", e.target4))

		if err := e.inv.Refresh(ctx); err != nil {
			e.initErr = err
			close(e.firstDone)
			return
		}

		e.dest.Add(e.target6, true)
		e.dest.Add(e.target4, true)
		if gw4, gw6 := e.inv.Gateways(); gw4 != nil || gw6 != nil {
			if gw4 != nil {
				e.dest.Add(*gw4, true)
			}
			if gw6 != nil {
				e.dest.Add(*gw6, true)
			}
		}

		e.wg.Add(2)
		go e.runPoller()
		go e.runMonitor()
	})
	select {
	case <-e.firstDone:
		return e.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// chooseAnchor tries up to cfg.AnchorAttempts random catalog ids, in
// isolation per address family, falling back to the hard-coded anchor
// on exhaustion. Errors from individual catalog lookups are swallowed —
// a flaky single probe id must not abort target selection.
func (e *Engine) chooseAnchor(ctx context.Context, family int) addrx.Address {
	span := e.cfg.AnchorIDMax - e.cfg.AnchorIDMin
	for i := 0; i < e.cfg.AnchorAttempts; i++ {
		id := e.cfg.AnchorIDMin + rand.Intn(span)
		info, err := e.anchors.Probe(ctx, id)
		if err != nil || !info.Connected(family) {
			continue
		}
		if family == 6 {
			return addrx.FromNetIPWithZoneIndex(info.AddressV6, 0)
		}
		return addrx.FromNetIPWithZoneIndex(info.AddressV4, 0)
	}
	if family == 6 {
		return FallbackTarget6
	}
	return FallbackTarget4
}

// Status renders the public flag snapshot (spec.md §6).
func (e *Engine) Status() map[string]bool {
	return e.flags.Snapshot().AsMap()
}

// Sources returns a copy of the current source inventory.
func (e *Engine) Sources() []addrx.Address { return e.inv.Snapshot() }

// Destinations returns a copy of the current destination set.
func (e *Engine) Destinations() []addrx.Address { return e.dest.Snapshot() }

// Pairs returns a copy of every cached (source, destination) observation.
func (e *Engine) Pairs() map[paircache.Key]paircache.Entry { return e.cache.Snapshot() }

// Shutdown signals both background workers to stop and waits for them to
// exit, or for ctx to expire first.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.stopOnce.Do(func() { close(e.stopCh) })
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PollCount reports how many sweeps the poller has completed, wrapping
// at 1000.
func (e *Engine) PollCount() int {
	e.pollMu.Lock()
	defer e.pollMu.Unlock()
	return e.pollCount
}

// sleepOrStop blocks for d or until the engine is shut down, reporting
// which happened.
func (e *Engine) sleepOrStop(d time.Duration) (stopped bool) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return false
	case <-e.stopCh:
		return true
	}
}
