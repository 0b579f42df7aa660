// Command skeleton serves only the banner and health endpoints, with the
// same middleware stack as the task service.
package main

import (
	"context"
	"errors"
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
	"github.com/s1natex/task-tracker/internal/telemetry"
)

func main() {
	cfg, err := config.Read()
	if err != nil {
		slog.Error("config_error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := telemetry.NewLogger(os.Stdout, cfg.LogLevel, cfg.ServiceName+"-skeleton")
	slog.SetDefault(logger)

	srv := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: server.NewRouter(server.Options{
			Logger:         logger,
			Limiter:        middleware.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
			RequestTimeout: cfg.HTTP.RequestTimeout,
			CORSOrigins:    cfg.HTTP.CORSOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server_listen", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown_failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server_stopped")
}
