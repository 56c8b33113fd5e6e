package main

import (
	"context"
	"fmt"
	"github.com/spf13/pflag"
	"github.com/thapovan-inc/orion-trace-correlator/bookkeeper"
	"github.com/thapovan-inc/orion-trace-correlator/handler"
	"github.com/thapovan-inc/orion-trace-correlator/subscriber"
	"github.com/thapovan-inc/orion-trace-correlator/util"
	"go.uber.org/zap"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configFile := pflag.String("config", "default.toml", "path of the toml config file")
	workers := pflag.Int("workers", 4, "number of instrumented worker goroutines")
	iterations := pflag.Int("iterations", 100, "blocks executed by each worker, 0 runs until interrupted")
	depth := pflag.Int("depth", 3, "nesting depth of the spans inside each block")
	pflag.Parse()

	fmt.Println(`
   ____       _           
  / __ \_____(_)___  ____ 
 / / / / ___/ / __ \/ __ \
/ /_/ / /  / / /_/ / / / /
\____/_/  /_/\____/_/ /_/ 
	`)
	fmt.Println("Loading config file from", *configFile)
	if err := util.LoadConfigFromFile(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config := util.GetConfig()
	if err := util.SetupLoggerConfig(config.Logger); err != nil {
		fmt.Fprintln(os.Stderr, "Unable to setup logger:", err)
		os.Exit(1)
	}
	logger := util.GetLogger("main", "main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bookKeeper, err := bookkeeper.New(config.BookKeeper)
	if err != nil {
		logger.Fatal("Unable to init book keeper", zap.Error(err))
	}
	traceHandler, err := handler.FromConfig(ctx, config)
	if err != nil {
		logger.Fatal("Unable to init trace handler", zap.Error(err))
	}
	sub := subscriber.New(traceHandler, config.General.Targets, subscriber.WithBookKeeper(bookKeeper))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			logger.Info("Received signal. Exiting now", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	w := &workload{sub: sub, workers: *workers, iterations: *iterations, depth: *depth}
	w.run(ctx)

	stats := sub.Stats()
	logger.Info("Workload finished",
		zap.Uint64("spans_created", stats.SpansCreated),
		zap.Uint64("spans_dispatched", stats.SpansDispatched),
		zap.Uint64("spans_discarded", stats.SpansDiscarded),
		zap.Uint64("spans_rejected", stats.SpansRejected),
		zap.Uint64("standalone_events", stats.StandaloneEvents))
	if err := sub.Close(); err != nil {
		logger.Error("Unable to close subscriber", zap.Error(err))
	}
	_ = logger.Sync()
}
