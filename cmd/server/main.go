package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/CollegeExplorer/internal/config"
	"github.com/JonMunkholm/CollegeExplorer/internal/dataset"
	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
	"github.com/JonMunkholm/CollegeExplorer/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"database", cfg.Database.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics", cfg.Metrics.Enabled,
	)

	ctx := context.Background()

	var db dataset.Querier
	if cfg.Database.Enabled() {
		pool, err := dataset.OpenPool(ctx, cfg.Database)
		if err != nil {
			// the file and URL sources can still serve the data
			slog.Warn("database unavailable, skipping postgres sources", "error", err)
		} else {
			defer pool.Close()
			db = pool
		}
	}

	client := &http.Client{Timeout: cfg.Data.FetchTimeout}
	snap, err := dataset.Load(ctx, dataset.SourcesFromConfig(cfg, db, client))
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(snap, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	// wait for in-flight requests to drain
	<-done
	slog.Info("server stopped")
}
