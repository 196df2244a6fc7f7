package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/icb-irc/bridge/bridge"
	"github.com/icb-irc/bridge/config"
)

func main() {
	configPath := flag.String("c", "", "Path to JSON config file")
	flag.StringVar(configPath, "config", "", "Path to JSON config file")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "icbridged: -c/--config <path> is required")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "icbridged: %s\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := bridge.NewServer(cfg, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)

	<-gctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	if err := g.Wait(); err != nil {
		logger.Error("server initialization failed", "err", err.Error())
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
