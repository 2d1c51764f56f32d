package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/meltforce/threehundred/internal/remote"
	"github.com/meltforce/threehundred/internal/tracker"
)

// maxSnapshotBytes bounds an uploaded snapshot.
const maxSnapshotBytes = 10 << 20

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.tracker.ExportJSON()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tracker.ExportFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
		return
	}
	synced, err := s.tracker.Import(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: s.tracker.Progress()})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.SyncStatus())
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	synced, err := s.tracker.Sync(r.Context())
	if errors.Is(err, remote.ErrNotConfigured) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: s.tracker.SyncStatus()})
}

func (s *Server) handleSyncLogs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.history.SyncLogs(r.Context(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.history.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleLegacyGet returns the whole snapshot in its wire format.
func (s *Server) handleLegacyGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Export())
}

// handleLegacyPost replaces the whole snapshot.
func (s *Server) handleLegacyPost(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	synced, err := s.tracker.Import(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}
	completed := len(s.tracker.Export().CompletedWorkouts)
	s.log.Info("snapshot replaced", "completed", completed, "synced", synced)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "synced": synced})
}
