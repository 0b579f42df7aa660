package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/s1natex/task-tracker/internal/middleware"
	"github.com/s1natex/task-tracker/internal/tasks"
)

const Version = "1.0.1"

type Options struct {
	Logger         *slog.Logger
	Limiter        *rate.Limiter // nil disables rate limiting
	RequestTimeout time.Duration
	CORSOrigins    []string

	// Tasks mounts the task routes; nil serves only / and /health.
	Tasks *tasks.Service
}

// NewRouter wires the info endpoints, task routes, and middleware stack
func NewRouter(opts Options) *chi.Mux {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// ---- Middleware stack (order matters a bit) ----
	// RequestID first so downstream can include it (logger, errors, etc.)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)

	// Panic recovery: never crash the server; returns 500 on panics
	r.Use(chimw.Recoverer)

	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.RateLimitMiddleware(opts.Limiter, "/health", "/metrics"))

	// Timeouts: cancel handlers that exceed this duration
	r.Use(chimw.Timeout(opts.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "Traceparent"},
		ExposedHeaders:   []string{"X-Request-ID", "Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	// ---- Routes ----
	r.Get("/", root)
	r.Get("/health", health(opts.Tasks, opts.Logger))
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	if opts.Tasks != nil {
		tasks.RegisterRoutes(r, opts.Tasks)
	}

	return r
}

type banner struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

func root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, banner{
		Message: "Welcome to Task Management API",
		Version: Version,
		Status:  "ok",
	})
}

type healthResponse struct {
	Status     string `json:"status"`
	TasksCount *int   `json:"tasks_count,omitempty"`
}

func health(svc *tasks.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
			return
		}
		n, err := svc.Count(r.Context())
		if err != nil {
			logger.Error("health_check_failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
			return
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", TasksCount: &n})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
