// Potion brewing contest agent. Reads turns on stdin, answers on stdout.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rsned/potion-brewing-agent/internal/brewing/engine"
	"github.com/rsned/potion-brewing-agent/internal/brewing/protocol"
	"github.com/rsned/potion-brewing-agent/internal/brewing/tuning"
)

func main() {
	// Stdout carries actions only
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	eng := engine.New(tuning.Default(), logger)
	server := protocol.NewServer(eng, logger)

	if err := server.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("agent stopped", "error", err)
		os.Exit(1)
	}
}
