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

	httpadapter "github.com/couchcryptid/typhoon-dashboard/internal/adapter/http"
	"github.com/couchcryptid/typhoon-dashboard/internal/config"
	"github.com/couchcryptid/typhoon-dashboard/internal/dashboard"
	"github.com/couchcryptid/typhoon-dashboard/internal/dataset"
	"github.com/couchcryptid/typhoon-dashboard/internal/observability"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	source := dataset.NewFileSource(cfg.DataDir)
	cache := dataset.NewCache(source, logger, metrics)
	svc := dashboard.New(cache, logger, metrics)

	srv, err := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.DevMode, logger)
	if err != nil {
		logger.Error("failed to build http server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snap := cache.LoadAll(ctx)
	logger.Info("datasets warmed up", "data_dir", source.Dir(), "available", len(snap.Available()), "expected", len(snap))

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Watch artifacts for changes in dev mode.
	if cfg.DevMode {
		w := dataset.NewWatcher(source, cache, cfg.ReloadInterval, nil, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("dataset watcher error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
