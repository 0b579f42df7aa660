package config

import (
	"strings"
	"testing"
	"time"
)

func TestRead_Defaults(t *testing.T) {
	cfg, err := Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr=%q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.RequestTimeout != 15*time.Second || cfg.HTTP.ShutdownTimeout != 10*time.Second {
		t.Errorf("timeouts=%v/%v", cfg.HTTP.RequestTimeout, cfg.HTTP.ShutdownTimeout)
	}
	if cfg.Store.Backend != StoreMemory {
		t.Errorf("backend=%q", cfg.Store.Backend)
	}
	if cfg.RateLimit.RPS != 0 {
		t.Errorf("rate limiting should default to off, rps=%v", cfg.RateLimit.RPS)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "*" {
		t.Errorf("cors=%v", cfg.HTTP.CORSOrigins)
	}
}

func TestRead_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("HTTP_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRACE_EXPORTER", "stdout")

	cfg, err := Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.HTTP.Addr != ":9000" || cfg.Store.Backend != StoreSQLite || cfg.RateLimit.RPS != 2.5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if len(cfg.HTTP.CORSOrigins) != 2 {
		t.Errorf("cors=%v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Tracing.Exporter != "stdout" {
		t.Errorf("exporter=%q", cfg.Tracing.Exporter)
	}
}

func TestRead_InvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("TRACE_EXPORTER", "zipkin")

	_, err := Read()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"STORE_BACKEND", "TRACE_EXPORTER"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}
