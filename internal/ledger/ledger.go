// Package ledger holds the user's progress: completed workouts, checked exercises, logged
// sets and the schedule plan. It is a plain in-memory record; callers serialise access and
// persist a Snapshot after each mutation.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/meltforce/threehundred/internal/models"
	"github.com/meltforce/threehundred/internal/schedule"
)

var (
	// ErrOutOfRange is returned by RemoveSetLog when no set exists at the position.
	ErrOutOfRange = errors.New("set log position out of range")
	// ErrEmptySetLog is returned by AppendSetLog for a set with zero weight and zero reps.
	ErrEmptySetLog = errors.New("set log has no weight and no reps")
	// ErrNegativeSetLog is returned by AppendSetLog for a negative weight or rep count.
	ErrNegativeSetLog = errors.New("set log weight and reps must not be negative")
)

type refSet map[models.ExerciseRef]struct{}

// Ledger is the mutable progress record. Use New; the zero value is not usable.
type Ledger struct {
	completed map[models.WorkoutKey]struct{}
	checks    map[models.WorkoutKey]refSet
	logs      map[models.WorkoutKey]map[models.ExerciseRef][]models.SetLog
	plan      schedule.Plan

	now func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the clock used to timestamp set logs.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New returns an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{now: time.Now}
	l.reset()
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Ledger) reset() {
	l.completed = make(map[models.WorkoutKey]struct{})
	l.checks = make(map[models.WorkoutKey]refSet)
	l.logs = make(map[models.WorkoutKey]map[models.ExerciseRef][]models.SetLog)
	l.plan = schedule.Plan{}
}

// Plan returns the schedule configuration owned by the ledger. Mutations through the
// returned pointer are part of the ledger state.
func (l *Ledger) Plan() *schedule.Plan {
	return &l.plan
}

func (l *Ledger) MarkComplete(key models.WorkoutKey) {
	l.completed[key] = struct{}{}
}

func (l *Ledger) MarkIncomplete(key models.WorkoutKey) {
	delete(l.completed, key)
}

func (l *Ledger) IsComplete(key models.WorkoutKey) bool {
	_, ok := l.completed[key]
	return ok
}

// Completed returns the completed workouts ordered by block and day.
func (l *Ledger) Completed() []models.WorkoutKey {
	keys := lo.Keys(l.completed)
	slices.SortFunc(keys, models.WorkoutKey.Compare)
	return keys
}

// ClearAllCompletion empties the completion set. Exercise checks, logs and the plan stay.
func (l *Ledger) ClearAllCompletion() {
	clear(l.completed)
}

// ToggleExerciseCheck flips the check state of an exercise and returns the new state.
func (l *Ledger) ToggleExerciseCheck(key models.WorkoutKey, ref models.ExerciseRef) bool {
	set := l.checks[key]
	if _, ok := set[ref]; ok {
		delete(set, ref)
		if len(set) == 0 {
			delete(l.checks, key)
		}
		return false
	}
	if set == nil {
		set = make(refSet)
		l.checks[key] = set
	}
	set[ref] = struct{}{}
	return true
}

func (l *Ledger) IsChecked(key models.WorkoutKey, ref models.ExerciseRef) bool {
	_, ok := l.checks[key][ref]
	return ok
}

// Checked returns the checked exercises of a workout in ascending order.
func (l *Ledger) Checked(key models.WorkoutKey) []models.ExerciseRef {
	refs := lo.Keys(l.checks[key])
	slices.Sort(refs)
	return refs
}

// AppendSetLog records a set. A set with zero weight and zero reps is rejected with
// ErrEmptySetLog and leaves the ledger unchanged. Timestamps within one exercise strictly
// increase even if the clock does not.
func (l *Ledger) AppendSetLog(key models.WorkoutKey, ref models.ExerciseRef, weight float64, reps int) (models.SetLog, error) {
	if weight < 0 || reps < 0 {
		return models.SetLog{}, fmt.Errorf("%w: weight %v reps %d", ErrNegativeSetLog, weight, reps)
	}
	if weight == 0 && reps == 0 {
		return models.SetLog{}, ErrEmptySetLog
	}

	byRef := l.logs[key]
	if byRef == nil {
		byRef = make(map[models.ExerciseRef][]models.SetLog)
		l.logs[key] = byRef
	}
	entry := models.SetLog{Weight: weight, Reps: reps, Timestamp: l.now().UnixMilli()}
	if prev := byRef[ref]; len(prev) > 0 && entry.Timestamp <= prev[len(prev)-1].Timestamp {
		entry.Timestamp = prev[len(prev)-1].Timestamp + 1
	}
	byRef[ref] = append(byRef[ref], entry)
	return entry, nil
}

// RemoveSetLog deletes the set at a 0-based position and returns it. An out of range
// position returns ErrOutOfRange and changes nothing.
func (l *Ledger) RemoveSetLog(key models.WorkoutKey, ref models.ExerciseRef, pos int) (models.SetLog, error) {
	sets := l.logs[key][ref]
	if pos < 0 || pos >= len(sets) {
		return models.SetLog{}, fmt.Errorf("%w: %s exercise %d position %d of %d", ErrOutOfRange, key, ref, pos, len(sets))
	}
	removed := sets[pos]
	sets = slices.Delete(slices.Clone(sets), pos, pos+1)
	if len(sets) == 0 {
		delete(l.logs[key], ref)
		if len(l.logs[key]) == 0 {
			delete(l.logs, key)
		}
	} else {
		l.logs[key][ref] = sets
	}
	return removed, nil
}

// SetLogs returns a copy of the sets logged for one exercise, in insertion order.
func (l *Ledger) SetLogs(key models.WorkoutKey, ref models.ExerciseRef) []models.SetLog {
	return slices.Clone(l.logs[key][ref])
}

// WorkoutLogs returns a copy of every exercise's sets for a workout.
func (l *Ledger) WorkoutLogs(key models.WorkoutKey) map[models.ExerciseRef][]models.SetLog {
	return lo.MapValues(l.logs[key], func(sets []models.SetLog, _ models.ExerciseRef) []models.SetLog {
		return slices.Clone(sets)
	})
}
