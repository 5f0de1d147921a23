// Command getapr-probe runs the connectivity discovery engine as a
// standalone daemon: it initializes, optionally serves the admin HTTP
// surface, resolves a single target on startup for a quick sanity
// check, and then blocks until an interrupt triggers a graceful
// shutdown.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nexaddr/getapr/internal/adminhttp"
	"github.com/nexaddr/getapr/internal/anchor"
	"github.com/nexaddr/getapr/internal/engine"
	"github.com/nexaddr/getapr/internal/inventory"
	"github.com/nexaddr/getapr/internal/resolver"
)

func main() {
	target := flag.String("target", "", "name or address literal to resolve on startup")
	port := flag.Int("port", 80, "destination port to probe")
	printing := flag.Bool("printing", true, "enable the monitor's periodic state dump")
	adminAddr := flag.String("admin-addr", "127.0.0.1:8099", "admin HTTP listen address; empty disables it")
	flag.Parse()

	log := buildLogger()
	defer log.Sync()
	log = log.Named("main")

	eng := engine.New(log, resolver.New(), anchor.NewHTTPCatalog(), inventory.NewDefault(), engine.Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := eng.Init(ctx, *printing); err != nil {
		cancel()
		log.Fatal("initialization failed", zap.Error(err))
	}
	cancel()
	log.Info("engine initialized", zap.Any("status", eng.Status()))

	if *target != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pairs, err := eng.GetAddrPairs(ctx, *target, uint16(*port))
		cancel()
		if err != nil {
			log.Error("resolve failed", zap.String("target", *target), zap.Error(err))
		} else {
			log.Info("resolved", zap.String("target", *target), zap.Int("pairs", len(pairs)))
			for _, p := range pairs {
				log.Info("pair", zap.Any("pair", p))
			}
		}
	}

	var srv *http.Server
	if *adminAddr != "" {
		srv = &http.Server{Addr: *adminAddr, Handler: adminhttp.NewRouter(log, eng)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("admin server error", zap.Error(err))
			}
		}()
		log.Info("admin server listening", zap.String("addr", *adminAddr))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if srv != nil {
		_ = srv.Shutdown(shutdownCtx)
	}
	if err := eng.Shutdown(shutdownCtx); err != nil {
		log.Warn("engine shutdown did not complete cleanly", zap.Error(err))
	}
}

func buildLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.TimeKey = ""
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	return zap.Must(cfg.Build())
}
