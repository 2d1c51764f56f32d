package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/threehundred/internal/catalog"
	"github.com/meltforce/threehundred/internal/ledger"
	"github.com/meltforce/threehundred/internal/models"
	"github.com/meltforce/threehundred/internal/tracker"
)

// mutationResponse is the body of every state-changing request.
type mutationResponse struct {
	Synced bool `json:"synced"`
	Data   any  `json:"data,omitempty"`
}

type setLogRequest struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Blocks())
}

func (s *Server) handleWorkout(w http.ResponseWriter, r *http.Request) {
	key, err := workoutKeyParam(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	detail, err := s.tracker.Workout(key)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleSetComplete(done bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := workoutKeyParam(r)
		if err != nil {
			s.writeError(w, err)
			return
		}
		synced, err := s.tracker.SetComplete(r.Context(), key, done)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: map[string]any{
			"key":       key,
			"completed": done,
		}})
	}
}

func (s *Server) handleToggleExercise(w http.ResponseWriter, r *http.Request) {
	key, ref, err := exerciseParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	checked, synced, err := s.tracker.ToggleExercise(r.Context(), key, ref)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: map[string]any{
		"key":     key,
		"ref":     ref,
		"checked": checked,
	}})
}

func (s *Server) handleAppendSetLog(w http.ResponseWriter, r *http.Request) {
	key, ref, err := exerciseParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req setLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	entry, synced, err := s.tracker.AppendSetLog(r.Context(), key, ref, req.Weight, req.Reps)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Synced: synced, Data: entry})
}

func (s *Server) handleRemoveSetLog(w http.ResponseWriter, r *http.Request) {
	key, ref, err := exerciseParams(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pos, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid position"})
		return
	}
	removed, synced, err := s.tracker.RemoveSetLog(r.Context(), key, ref, pos)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: removed})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Progress())
}

func (s *Server) handleClearProgress(w http.ResponseWriter, r *http.Request) {
	synced, err := s.tracker.ClearProgress(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Synced: synced, Data: s.tracker.Progress()})
}

// writeError maps domain errors to status codes: malformed input is 400, a missing
// workout, exercise or set is 404, anything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidKey),
		errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, ledger.ErrEmptySetLog),
		errors.Is(err, ledger.ErrNegativeSetLog),
		errors.Is(err, ledger.ErrMalformedSnapshot):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrUnknownWorkout),
		errors.Is(err, tracker.ErrUnknownExercise),
		errors.Is(err, ledger.ErrOutOfRange):
		status = http.StatusNotFound
	default:
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// workoutKeyParam reads {block} ("3" or "month3") and {day} from the route.
func workoutKeyParam(r *http.Request) (models.WorkoutKey, error) {
	block, err := models.ParseBlockName(chi.URLParam(r, "block"))
	if err != nil {
		return models.WorkoutKey{}, err
	}
	raw := chi.URLParam(r, "day")
	day, err := strconv.Atoi(raw)
	if err != nil || day < 1 {
		return models.WorkoutKey{}, fmt.Errorf("%w: day %q", models.ErrInvalidKey, raw)
	}
	return models.WorkoutKey{Block: block, Day: day}, nil
}

func exerciseParams(r *http.Request) (models.WorkoutKey, models.ExerciseRef, error) {
	key, err := workoutKeyParam(r)
	if err != nil {
		return models.WorkoutKey{}, 0, err
	}
	ref, err := models.ParseExerciseRef(chi.URLParam(r, "ref"))
	if err != nil {
		return models.WorkoutKey{}, 0, err
	}
	return key, ref, nil
}

func dateParam(r *http.Request) (models.Date, error) {
	return models.ParseDate(chi.URLParam(r, "date"))
}
