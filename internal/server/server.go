package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meltforce/threehundred/internal/metrics"
	"github.com/meltforce/threehundred/internal/storage"
	"github.com/meltforce/threehundred/internal/tracker"
)

// SyncHistory exposes the persistence gateway's sync log and storage stats.
type SyncHistory interface {
	SyncLogs(ctx context.Context, limit int) ([]storage.SyncLog, error)
	Stats(ctx context.Context) (*storage.Stats, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker  *tracker.Tracker
	history  SyncHistory
	metrics  *metrics.Manager
	gatherer prometheus.Gatherer
	log      *slog.Logger
	whois    WhoIsClient
	router   chi.Router
}

// New creates a new Server with all routes configured. A nil gatherer disables /metrics.
func New(t *tracker.Tracker, history SyncHistory, m *metrics.Manager, gatherer prometheus.Gatherer, log *slog.Logger) *Server {
	s := &Server{
		tracker:  t,
		history:  history,
		metrics:  m,
		gatherer: gatherer,
		log:      log,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(Metrics(s.metrics))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		r.Get("/catalog", s.handleCatalog)
		r.Route("/workouts/{block}/{day}", func(r chi.Router) {
			r.Get("/", s.handleWorkout)
			r.Put("/complete", s.handleSetComplete(true))
			r.Delete("/complete", s.handleSetComplete(false))
			r.Post("/exercises/{ref}/toggle", s.handleToggleExercise)
			r.Post("/exercises/{ref}/logs", s.handleAppendSetLog)
			r.Delete("/exercises/{ref}/logs/{pos}", s.handleRemoveSetLog)
		})

		r.Get("/progress", s.handleProgress)
		r.Delete("/progress", s.handleClearProgress)

		r.Get("/schedule", s.handleSchedule)
		r.Get("/schedule/next", s.handleNextWorkout)
		r.Put("/schedule/start", s.handleSetStartDate)
		r.Post("/schedule/reset", s.handleResetSchedule)
		r.Post("/schedule/push/{date}", s.handlePushWorkout)
		r.Post("/rest-days/{date}", s.handleAddRestDate)
		r.Delete("/rest-days/{date}", s.handleRemoveRestDate)

		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)

		r.Get("/sync", s.handleSyncStatus)
		r.Post("/sync", s.handleSync)
		r.Get("/sync/logs", s.handleSyncLogs)
		r.Get("/sync/stats", s.handleStats)
	})

	// Whole-snapshot endpoints kept for older clients.
	s.router.Group(func(r chi.Router) {
		r.Use(NoCache)
		r.Get("/api/data", s.handleLegacyGet)
		r.Post("/api/data", s.handleLegacyPost)
	})

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// SetMCP mounts the MCP streamable HTTP handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetTailscale enables tailnet identity lookups for incoming requests.
func (s *Server) SetTailscale(c WhoIsClient) {
	s.whois = c
}

// SetFrontend mounts the SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
