// Package app wires the tracker and its persistence from a loaded config.
// Every binary starts through Open so they all read and write the same store.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/meltforce/threehundred/internal/catalog"
	"github.com/meltforce/threehundred/internal/config"
	"github.com/meltforce/threehundred/internal/gateway"
	"github.com/meltforce/threehundred/internal/metrics"
	"github.com/meltforce/threehundred/internal/remote"
	"github.com/meltforce/threehundred/internal/storage"
	"github.com/meltforce/threehundred/internal/tracker"
)

// App is a running tracker with its store and gateway.
type App struct {
	Catalog *catalog.Catalog
	Metrics *metrics.Manager
	Store   storage.Store
	Gateway *gateway.Gateway
	Tracker *tracker.Tracker
}

// Open loads the catalog, opens the local store (migrating postgres first), connects the
// remote mirror when configured and loads the last snapshot into a tracker. Metrics are
// registered on reg under subsystem.
func Open(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, subsystem string, log *slog.Logger) (*App, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	log.Info("catalog loaded", "workouts", cat.Len(), "path", cfg.Catalog.Path)

	var dsn string
	if cfg.Storage.Driver == config.DriverPostgres {
		dsn = cfg.Database.DSN()
		if err := storage.RunMigrations(dsn); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	store, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.Path, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Driver, err)
	}
	log.Info("local store opened", "driver", cfg.Storage.Driver)

	if db, ok := store.(*storage.DB); ok {
		reg.MustRegister(pgxpoolprometheus.NewCollector(db.Pool, map[string]string{"db_name": cfg.Database.Name}))
	}
	m := metrics.NewManager(subsystem, reg)

	var rc *remote.Client
	if cfg.Remote.Enabled() {
		rc = remote.NewClient(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.BinName, cfg.Remote.Timeout())
		log.Info("remote sync enabled", "url", cfg.Remote.URL, "bin_id", cfg.Remote.BinID)
	} else {
		log.Info("remote sync disabled")
	}

	gw := gateway.New(store, rc, cfg.Remote.BinID, m, log)

	// A slow remote delays startup by at most one request timeout.
	loadCtx := ctx
	if rc.Enabled() && cfg.Remote.Timeout() > 0 {
		var cancel context.CancelFunc
		loadCtx, cancel = context.WithTimeout(ctx, cfg.Remote.Timeout())
		defer cancel()
	}
	return &App{
		Catalog: cat,
		Metrics: m,
		Store:   store,
		Gateway: gw,
		Tracker: tracker.New(loadCtx, cat, gw, m, log),
	}, nil
}

// Close releases the local store.
func (a *App) Close() error {
	return a.Store.Close()
}
