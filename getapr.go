// Package getapr resolves a name or address literal to a ranked list of
// (address family, source, destination) pairs instead of just a
// destination address, so a caller can bind and connect with the
// combination most likely to actually work given this host's observed
// connectivity (NAT44, NPTv6, link-local reachability, and so on).
package getapr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nexaddr/getapr/internal/addrx"
	"github.com/nexaddr/getapr/internal/anchor"
	"github.com/nexaddr/getapr/internal/engine"
	"github.com/nexaddr/getapr/internal/inventory"
	"github.com/nexaddr/getapr/internal/resolver"
)

// Error taxonomy per spec.md §7.
var (
	// ErrBadAddress is addrx.BadAddress: a malformed address literal
	// from a caller.
	ErrBadAddress = addrx.BadAddress
	// ErrNotInitialized should never surface externally, since Init()
	// and GetAddrPairs() both auto-initialize; nothing in this package
	// returns it.
	ErrNotInitialized = errors.New("getapr: not initialized")
)

// Family mirrors engine.Family; re-exported so callers never import the
// internal engine package directly.
type Family = engine.Family

const (
	FamilyIPv4 = engine.FamilyIPv4
	FamilyIPv6 = engine.FamilyIPv6
)

// SockAddr and AddrPair re-export the engine's materialized triple
// shape.
type SockAddr = engine.SockAddr
type AddrPair = engine.Pair

var (
	once sync.Once
	eng  *engine.Engine
)

func newLogger() *zap.Logger {
	var cfg zap.Config
	if os.Getenv("ENV") == "dev" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = ""
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.DisableStacktrace = true
	return zap.Must(cfg.Build())
}

func buildEngine() *engine.Engine {
	log := newLogger()
	return engine.New(log, resolver.New(), anchor.NewHTTPCatalog(), inventory.NewDefault(), engine.Config{})
}

func instance() *engine.Engine {
	once.Do(func() {
		eng = buildEngine()
	})
	return eng
}

// Init initializes the engine: selects anchor targets, seeds the
// destination set, and starts the background poller and monitor. It is
// idempotent and blocks until the first sweep completes.
// printing turns on the monitor's periodic human-readable state dump.
func Init(printing bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return instance().Init(ctx, printing)
}

// GetAddrPairs returns the ranked (family, source, destination) triples
// for target:port, per spec.md §4.8. An empty, nil-error result means
// "nothing known yet" or NXDOMAIN; any other resolver failure
// propagates as an error. printing is forwarded to the auto-init call
// when the engine has not started yet; it has no effect once the
// engine is already running, matching getapr.py's get_addr_pairs.
func GetAddrPairs(target string, port uint16, printing bool) ([]AddrPair, error) {
	e := instance()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := e.Init(ctx, printing); err != nil {
		return nil, fmt.Errorf("getapr: auto-init: %w", err)
	}
	return e.GetAddrPairs(ctx, target, port)
}

// Status reports the current environment flag lattice (spec.md §6),
// auto-initializing the engine first so a caller who queries Status
// before GetAddrPairs doesn't just see an all-false map.
func Status() map[string]bool {
	e := instance()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	_ = e.Init(ctx, false)
	return e.Status()
}

// Shutdown signals the background poller and monitor to stop and waits
// for them, or for ctx to expire first.
func Shutdown(ctx context.Context) error {
	return instance().Shutdown(ctx)
}
