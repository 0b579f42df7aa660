package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/s1natex/task-tracker/internal/config"
	"github.com/s1natex/task-tracker/internal/server"
)

func TestOpenRepository_Backends(t *testing.T) {
	for _, backend := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(backend, func(t *testing.T) {
			repo, closeRepo, err := openRepository(context.Background(), config.StoreConfig{Backend: backend})
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer closeRepo()

			n, err := repo.Count(context.Background())
			if err != nil || n != 0 {
				t.Fatalf("count=%d err=%v, want empty store", n, err)
			}
		})
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	srv := &http.Server{Addr: addr, Handler: server.NewRouter(server.Options{Logger: logger})}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, logger, srv, time.Second) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/health")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	var body map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&body)
	_ = resp.Body.Close()
	if body["status"] != "healthy" {
		t.Fatalf("health body=%v", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
}
