package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/s1natex/task-tracker/internal/config"
	"github.com/s1natex/task-tracker/internal/middleware"
	"github.com/s1natex/task-tracker/internal/server"
	"github.com/s1natex/task-tracker/internal/tasks"
	"github.com/s1natex/task-tracker/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Read()
	if err != nil {
		return err
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.LogLevel, cfg.ServiceName)
	slog.SetDefault(logger) // for third-party packages that use slog

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingConfig{
		Exporter:     cfg.Tracing.Exporter,
		OTLPEndpoint: cfg.Tracing.OTLPEndpoint,
		ServiceName:  cfg.ServiceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	repo, closeRepo, err := openRepository(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeRepo()
	logger.Info("store_ready", slog.String("backend", cfg.Store.Backend))

	r := server.NewRouter(server.Options{
		Logger:         logger,
		Limiter:        middleware.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		RequestTimeout: cfg.HTTP.RequestTimeout,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		Tasks:          tasks.NewService(repo, logger),
	})

	return serve(ctx, logger, &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}, cfg.HTTP.ShutdownTimeout)
}

func openRepository(ctx context.Context, cfg config.StoreConfig) (tasks.Repository, func(), error) {
	switch cfg.Backend {
	case config.StoreSQLite:
		dsn := cfg.SQLiteDSN
		if dsn == "" {
			dsn = tasks.SQLiteMemoryDSN("tasks")
		}
		repo, err := tasks.NewSQLiteRepo(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := repo.ApplyMigrations(ctx); err != nil {
			_ = repo.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		return tasks.NewInMemoryRepo(), func() {}, nil
	}
}

// serve runs srv until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_listen", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server_stopped")
	return nil
}
