package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/meltforce/threehundred/internal/models"
)

type startDateRequest struct {
	StartDate string `json:"start_date"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Schedule())
}

func (s *Server) handleNextWorkout(w http.ResponseWriter, r *http.Request) {
	next, ok := s.tracker.NextWorkout()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleSetStartDate(w http.ResponseWriter, r *http.Request) {
	var req startDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	d, err := models.ParseDate(req.StartDate)
	if err != nil {
		s.writeError(w, err)
		return
	}
	synced, err := s.tracker.SetStartDate(r.Context(), d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: map[string]any{"start_date": d}})
}

func (s *Server) handleResetSchedule(w http.ResponseWriter, r *http.Request) {
	start, synced, err := s.tracker.ResetSchedule(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: map[string]any{"start_date": start}})
}

func (s *Server) handlePushWorkout(w http.ResponseWriter, r *http.Request) {
	s.restDateAction(w, r, s.tracker.PushWorkoutFrom)
}

func (s *Server) handleAddRestDate(w http.ResponseWriter, r *http.Request) {
	s.restDateAction(w, r, s.tracker.AddRestDate)
}

func (s *Server) handleRemoveRestDate(w http.ResponseWriter, r *http.Request) {
	s.restDateAction(w, r, s.tracker.RemoveRestDate)
}

// restDateAction runs a date mutation and answers with the recomputed schedule.
func (s *Server) restDateAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, d models.Date) (bool, error)) {
	d, err := dateParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	synced, err := action(r.Context(), d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: s.tracker.Schedule()})
}
