// Command getapr-status resolves a single target once and prints the
// ranked address pairs as JSON, then exits. Useful for scripting and
// for eyeballing the environment flag lattice without running the
// daemon.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nexaddr/getapr"
)

func main() {
	target := flag.String("target", "", "name or address literal to resolve")
	port := flag.Int("port", 443, "destination port")
	flag.Parse()

	if *target == "" {
		fmt.Println("Usage: ./getapr-status -target=<host> [-port=443]")
		os.Exit(1)
	}

	log := buildLogger()
	log = log.Named("main")

	if err := getapr.Init(false); err != nil {
		log.Fatal("initialization failed", zap.Error(err))
	}

	pairs, err := getapr.GetAddrPairs(*target, uint16(*port), false)
	if err != nil {
		log.Fatal("resolution failed", zap.String("target", *target), zap.Error(err))
	}

	out := struct {
		Target string            `json:"target"`
		Status map[string]bool   `json:"status"`
		Pairs  []getapr.AddrPair `json:"pairs"`
	}{
		Target: *target,
		Status: getapr.Status(),
		Pairs:  pairs,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal("encode failed", zap.Error(err))
	}
}

func buildLogger() *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	logConfig.Level.SetLevel(zap.DebugLevel)
	return zap.Must(logConfig.Build())
}
