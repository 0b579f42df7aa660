package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" env-default:"task-tracker"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	HTTP      HTTPConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
	Tracing   TracingConfig
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" env-default:":8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSOrigins     []string      `env:"HTTP_CORS_ORIGINS" env-default:"*" env-separator:","`
}

type StoreConfig struct {
	Backend string `env:"STORE_BACKEND" env-default:"memory"`
	// SQLiteDSN defaults to a private in-memory database when empty.
	SQLiteDSN string `env:"SQLITE_DSN"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" env-default:"0"`
	Burst int     `env:"RATE_LIMIT_BURST" env-default:"20"`
}

type TracingConfig struct {
	Exporter     string `env:"TRACE_EXPORTER" env-default:"none"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// Read loads configuration from the environment and validates it.
func Read() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case StoreMemory, StoreSQLite:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreMemory, StoreSQLite, c.Store.Backend))
	}
	switch c.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		errs = append(errs, fmt.Errorf("TRACE_EXPORTER must be none, stdout or otlp, got %q", c.Tracing.Exporter))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be >= 0"))
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, errors.New("HTTP_REQUEST_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}
