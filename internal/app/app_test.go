package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/meltforce/threehundred/internal/config"
	"github.com/meltforce/threehundred/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:  config.ServerConfig{Port: 8080},
		Storage: config.StorageConfig{Driver: config.DriverSQLite, Path: t.TempDir()},
	}
}

// TestOpenPersistsAcrossRestarts verifies two Opens on the same directory share state.
func TestOpenPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	a, err := Open(ctx, cfg, prometheus.NewRegistry(), "test", log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := models.WorkoutKey{Block: 2, Day: 4}
	if _, err := a.Tracker.SetComplete(ctx, key, true); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := Open(ctx, cfg, prometheus.NewRegistry(), "test", log)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if got := b.Tracker.Progress().Completed; got != 1 {
		t.Errorf("completed after reopen = %d, want 1", got)
	}
	if b.Gateway.Status().RemoteEnabled {
		t.Error("remote should be disabled without an api key")
	}
}

// TestOpenBadCatalog verifies a missing catalog file fails startup.
func TestOpenBadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Path = "/nonexistent/program.json"
	_, err := Open(context.Background(), cfg, prometheus.NewRegistry(), "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("expected error for missing catalog")
	}
}

// TestOpenBoundsRemoteLoad verifies an unresponsive remote delays startup by about one
// request timeout and the tracker falls back to the local store.
func TestOpenBoundsRemoteLoad(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(t)
	cfg.Remote = config.RemoteConfig{URL: srv.URL, APIKey: "key", BinID: "abc", TimeoutSeconds: 1}

	start := time.Now()
	a, err := Open(context.Background(), cfg, prometheus.NewRegistry(), "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()
	if took := time.Since(start); took > 2500*time.Millisecond {
		t.Errorf("Open took %s with an unresponsive remote", took)
	}
	if st := a.Gateway.Status(); st.LoadedFrom == "remote" || st.Online {
		t.Errorf("status = %+v, want local fallback", st)
	}
}
