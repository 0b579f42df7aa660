package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":         slog.LevelInfo,
		"DEBUG":    slog.LevelDebug,
		" warning": slog.LevelWarn,
		"error":    slog.LevelError,
		"verbose":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_FiltersAndTags(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "task-tracker")
	logger.Info("dropped")
	logger.Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if rec["msg"] != "kept" || rec["service"] != "task-tracker" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestSetupTracing_Stdout(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := SetupTracing(context.Background(), TracingConfig{
		Exporter:    ExporterStdout,
		ServiceName: "task-tracker",
		Stdout:      &buf,
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, span := otel.Tracer("test").Start(context.Background(), "probe")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), `"Name":"probe"`) {
		t.Fatalf("expected exported span, got %s", buf.String())
	}
}

func TestSetupTracing_UnknownExporter(t *testing.T) {
	if _, err := SetupTracing(context.Background(), TracingConfig{Exporter: "zipkin"}); err == nil {
		t.Fatalf("expected error for unknown exporter")
	}
}
