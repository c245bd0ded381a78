// Command arenad runs the live snake arena: the tick scheduler, the
// spectator websocket hub, the HTTP registration/admin facade, and the
// persistence and archive background writers.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/brensch/snekarena/archive"
	"github.com/brensch/snekarena/broadcast"
	"github.com/brensch/snekarena/game"
	"github.com/brensch/snekarena/httpapi"
	"github.com/brensch/snekarena/ledger"
	"github.com/brensch/snekarena/logging"
	"github.com/brensch/snekarena/persist"
	"github.com/brensch/snekarena/sandbox"
	"github.com/brensch/snekarena/scheduler"
)

func main() {
	fs := flag.NewFlagSet("arenad", flag.ExitOnError)
	listen := fs.String("listen", ":8080", "HTTP listen address")
	dataDir := fs.String("data-dir", "data", "directory for state.json, the match archive, and the hall-of-fame ledger")
	poolSize := fs.Int("pool-size", 30, "number of isolated AI executors")
	tournament := fs.Bool("tournament", false, "run in tournament mode (no respawn, game ends at <=1 alive)")
	pretty := fs.Bool("pretty-log", false, "pretty-print JSON logs for local development")

	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatalf("flag parse: %v", err)
	}

	logger := logging.New(os.Stdout, slog.LevelInfo, *pretty)
	slog.SetDefault(logger)

	cfg := game.DefaultConfig()
	if *tournament {
		cfg.RespawnOnDeath = false
	}

	statePath := filepath.Join(*dataDir, "state.json")
	archiveDir := filepath.Join(*dataDir, "archive")
	ledgerPath := filepath.Join(*dataDir, "hall_of_fame.db")

	led, err := ledger.Open(ledgerPath)
	if err != nil {
		logger.Error("open ledger", "err", err)
		os.Exit(1)
	}
	defer led.Close()

	archiveWriter, err := archive.NewWriter(archiveDir, logger)
	if err != nil {
		logger.Error("open archive", "err", err)
		os.Exit(1)
	}

	hub := broadcast.NewHub(logger, nil)
	pool := sandbox.NewPool(*poolSize)

	sched := scheduler.New(scheduler.Options{
		Config:  cfg,
		Pool:    pool,
		Hub:     hub,
		Archive: archiveWriter,
		Ledger:  led,
		Log:     logger,
	})

	store := persist.NewStore(statePath, sched.GetState, logger)
	sched.AttachStore(store)

	if blob, err := store.Restore(); err != nil {
		logger.Error("restore state", "err", err)
	} else if blob != nil {
		sched.RestoreFrom(blob)
		logger.Info("restored state", "snakes", len(blob.Snakes), "tick", blob.Tick)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go sched.Run(ctx)
	go store.Run(ctx)

	archiveStop := make(chan struct{})
	go archiveWriter.Run(archiveStop)
	go func() {
		<-ctx.Done()
		close(archiveStop)
	}()

	server := httpapi.New(sched, led, hub, logger)
	srv := &http.Server{
		Addr:              *listen,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("arena listening", "addr", *listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
