package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/meltforce/threehundred/internal/models"
	"github.com/meltforce/threehundred/internal/schedule"
)

// ErrMalformedSnapshot is returned when snapshot data is not a JSON object.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

// Snapshot is the persisted form of a ledger. Field names and key encodings match the
// export files of the web app, so workouts are keyed "month<block>-<day>" and log entries
// by the decimal exercise index.
type Snapshot struct {
	CompletedWorkouts map[models.WorkoutKey]bool                                   `json:"completedWorkouts"`
	ExerciseProgress  map[models.WorkoutKey][]models.ExerciseRef                   `json:"exerciseProgress"`
	ExerciseLogs      map[models.WorkoutKey]map[models.ExerciseRef][]models.SetLog `json:"exerciseLogs"`
	SkippedDates      []models.Date                                                `json:"skippedDates"`
	StartDate         *models.Date                                                 `json:"startDate"`
}

// EmptySnapshot has every field present and empty.
func EmptySnapshot() Snapshot {
	return Snapshot{
		CompletedWorkouts: map[models.WorkoutKey]bool{},
		ExerciseProgress:  map[models.WorkoutKey][]models.ExerciseRef{},
		ExerciseLogs:      map[models.WorkoutKey]map[models.ExerciseRef][]models.SetLog{},
		SkippedDates:      []models.Date{},
	}
}

// Export captures the ledger. The result shares no memory with the ledger.
func (l *Ledger) Export() Snapshot {
	s := EmptySnapshot()
	for k := range l.completed {
		s.CompletedWorkouts[k] = true
	}
	for k, set := range l.checks {
		refs := lo.Keys(set)
		slices.Sort(refs)
		s.ExerciseProgress[k] = refs
	}
	for k, byRef := range l.logs {
		s.ExerciseLogs[k] = lo.MapValues(byRef, func(sets []models.SetLog, _ models.ExerciseRef) []models.SetLog {
			return slices.Clone(sets)
		})
	}
	s.SkippedDates = append(s.SkippedDates, l.plan.Rest.Dates()...)
	if l.plan.StartDate != nil {
		d := *l.plan.StartDate
		s.StartDate = &d
	}
	return s
}

// Import replaces the whole ledger with s. Missing fields become empty. Entries that carry
// no state (false completion, empty check lists, empty or all-zero logs) are dropped.
func (l *Ledger) Import(s Snapshot) {
	l.reset()
	for k, done := range s.CompletedWorkouts {
		if done {
			l.completed[k] = struct{}{}
		}
	}
	for k, refs := range s.ExerciseProgress {
		for _, r := range refs {
			if r < 0 {
				continue
			}
			if l.checks[k] == nil {
				l.checks[k] = make(refSet)
			}
			l.checks[k][r] = struct{}{}
		}
	}
	for k, byRef := range s.ExerciseLogs {
		for r, sets := range byRef {
			sets = lo.Filter(sets, func(s models.SetLog, _ int) bool {
				return s.Weight >= 0 && s.Reps >= 0 && (s.Weight != 0 || s.Reps != 0)
			})
			if r < 0 || len(sets) == 0 {
				continue
			}
			if l.logs[k] == nil {
				l.logs[k] = make(map[models.ExerciseRef][]models.SetLog)
			}
			l.logs[k][r] = sets
		}
	}
	l.plan.Rest = *schedule.NewRestCalendar(s.SkippedDates...)
	if s.StartDate != nil {
		l.plan.SetStartDate(*s.StartDate)
	}
}

// EncodeSnapshot returns the JSON form of s.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses snapshot JSON leniently. Each field defaults independently when it
// is missing or has the wrong shape, and individual entries with unparseable keys are
// skipped. Only data that is not a JSON object fails, with ErrMalformedSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, errOrNull(err))
	}

	s := EmptySnapshot()

	var completed map[string]json.RawMessage
	if json.Unmarshal(fields["completedWorkouts"], &completed) == nil {
		for raw, v := range completed {
			var done bool
			key, err := models.ParseWorkoutKey(raw)
			if err != nil || json.Unmarshal(v, &done) != nil || !done {
				continue
			}
			s.CompletedWorkouts[key] = true
		}
	}

	var progress map[string]json.RawMessage
	if json.Unmarshal(fields["exerciseProgress"], &progress) == nil {
		for raw, v := range progress {
			var refs []models.ExerciseRef
			key, err := models.ParseWorkoutKey(raw)
			if err != nil || json.Unmarshal(v, &refs) != nil {
				continue
			}
			s.ExerciseProgress[key] = refs
		}
	}

	var logs map[string]map[string]json.RawMessage
	if json.Unmarshal(fields["exerciseLogs"], &logs) == nil {
		for raw, byRef := range logs {
			key, err := models.ParseWorkoutKey(raw)
			if err != nil {
				continue
			}
			for rawRef, v := range byRef {
				var sets []models.SetLog
				ref, err := models.ParseExerciseRef(rawRef)
				if err != nil || json.Unmarshal(v, &sets) != nil {
					continue
				}
				if s.ExerciseLogs[key] == nil {
					s.ExerciseLogs[key] = make(map[models.ExerciseRef][]models.SetLog)
				}
				s.ExerciseLogs[key][ref] = sets
			}
		}
	}

	var skipped []string
	if json.Unmarshal(fields["skippedDates"], &skipped) == nil {
		for _, raw := range skipped {
			if d, err := models.ParseDate(raw); err == nil {
				s.SkippedDates = append(s.SkippedDates, d)
			}
		}
	}

	var start string
	if json.Unmarshal(fields["startDate"], &start) == nil {
		if d, err := models.ParseDate(start); err == nil {
			s.StartDate = &d
		}
	}
	return s, nil
}

func errOrNull(err error) any {
	if err != nil {
		return err
	}
	return "null"
}
