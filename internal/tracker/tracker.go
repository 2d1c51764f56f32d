// Package tracker is the application service. It owns the catalog, the ledger and the
// persistence gateway, and serialises every user action: mutate in memory, snapshot,
// commit locally. The remote mirror follows outside the lock.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/threehundred/internal/catalog"
	"github.com/meltforce/threehundred/internal/classify"
	"github.com/meltforce/threehundred/internal/gateway"
	"github.com/meltforce/threehundred/internal/ledger"
	"github.com/meltforce/threehundred/internal/metrics"
	"github.com/meltforce/threehundred/internal/models"
)

// ExportFilename is the suggested name of an exported snapshot.
const ExportFilename = "300-workout-data.json"

// ErrUnknownExercise is returned for an exercise ref outside a workout's exercise lines.
var ErrUnknownExercise = errors.New("unknown exercise")

// Persister is the persistence gateway as seen by the tracker.
type Persister interface {
	Load(ctx context.Context) (ledger.Snapshot, gateway.Source)
	Commit(ctx context.Context, snap ledger.Snapshot) error
	Mirror(ctx context.Context) bool
	Retry(ctx context.Context) (bool, error)
	Status() gateway.Status
}

// Tracker is safe for concurrent use.
type Tracker struct {
	catalog *catalog.Catalog
	store   Persister
	metrics *metrics.Manager
	log     *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	ledger *ledger.Ledger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock used for "today" and set log timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New loads the persisted snapshot and returns a ready tracker.
func New(ctx context.Context, cat *catalog.Catalog, store Persister, m *metrics.Manager, log *slog.Logger, opts ...Option) *Tracker {
	t := &Tracker{catalog: cat, store: store, metrics: m, log: log, now: time.Now}
	for _, o := range opts {
		o(t)
	}
	t.ledger = ledger.New(ledger.WithClock(t.now))

	snap, src := store.Load(ctx)
	t.ledger.Import(snap)
	log.Info("snapshot loaded", "source", src,
		"completed", len(snap.CompletedWorkouts), "rest_dates", len(snap.SkippedDates))
	return t
}

// Catalog returns the program.
func (t *Tracker) Catalog() *catalog.Catalog {
	return t.catalog
}

// today is the current calendar day in the server's zone.
func (t *Tracker) today() models.Date {
	return models.DateOf(t.now())
}

// mutate applies fn and commits the result locally. If fn fails nothing is saved. If the
// local commit fails the in-memory ledger is restored so it never runs ahead of durable
// state. The remote mirror runs after the lock is released; a remote failure is reported
// only through the returned synced flag.
func (t *Tracker) mutate(ctx context.Context, action string, fn func(l *ledger.Ledger) error) (bool, error) {
	if err := t.commit(ctx, action, fn); err != nil {
		return false, err
	}
	t.metrics.CounterMutations.WithLabelValues(action).Inc()
	return t.store.Mirror(ctx), nil
}

func (t *Tracker) commit(ctx context.Context, action string, fn func(l *ledger.Ledger) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.ledger.Export()
	if err := fn(t.ledger); err != nil {
		return err
	}
	if err := t.store.Commit(ctx, t.ledger.Export()); err != nil {
		t.ledger.Import(before)
		t.log.Error("saving snapshot", "action", action, "error", err)
		return err
	}
	return nil
}

// read runs fn with the ledger locked.
func (t *Tracker) read(fn func(l *ledger.Ledger)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.ledger)
}

func (t *Tracker) exerciseLine(key models.WorkoutKey, ref models.ExerciseRef) error {
	w, err := t.catalog.Workout(key)
	if err != nil {
		return err
	}
	if ref < 0 || int(ref) >= classify.CountExercises(w.Content) {
		return fmt.Errorf("%w: %s exercise %d", ErrUnknownExercise, key, ref)
	}
	return nil
}

// SetComplete marks a workout complete or not complete.
func (t *Tracker) SetComplete(ctx context.Context, key models.WorkoutKey, done bool) (bool, error) {
	if !t.catalog.Contains(key) {
		return false, fmt.Errorf("%w: %s", catalog.ErrUnknownWorkout, key)
	}
	action := "mark_complete"
	if !done {
		action = "mark_incomplete"
	}
	return t.mutate(ctx, action, func(l *ledger.Ledger) error {
		if done {
			l.MarkComplete(key)
		} else {
			l.MarkIncomplete(key)
		}
		return nil
	})
}

// ToggleExercise flips an exercise check and returns the new state.
func (t *Tracker) ToggleExercise(ctx context.Context, key models.WorkoutKey, ref models.ExerciseRef) (checked, synced bool, err error) {
	if err := t.exerciseLine(key, ref); err != nil {
		return false, false, err
	}
	synced, err = t.mutate(ctx, "toggle_exercise", func(l *ledger.Ledger) error {
		checked = l.ToggleExerciseCheck(key, ref)
		return nil
	})
	return checked, synced, err
}

// AppendSetLog records a set for an exercise.
func (t *Tracker) AppendSetLog(ctx context.Context, key models.WorkoutKey, ref models.ExerciseRef, weight float64, reps int) (models.SetLog, bool, error) {
	if err := t.exerciseLine(key, ref); err != nil {
		return models.SetLog{}, false, err
	}
	var entry models.SetLog
	synced, err := t.mutate(ctx, "append_set", func(l *ledger.Ledger) error {
		var err error
		entry, err = l.AppendSetLog(key, ref, weight, reps)
		return err
	})
	return entry, synced, err
}

// RemoveSetLog deletes the set at a 0-based position.
func (t *Tracker) RemoveSetLog(ctx context.Context, key models.WorkoutKey, ref models.ExerciseRef, pos int) (models.SetLog, bool, error) {
	var removed models.SetLog
	synced, err := t.mutate(ctx, "remove_set", func(l *ledger.Ledger) error {
		var err error
		removed, err = l.RemoveSetLog(key, ref, pos)
		return err
	})
	return removed, synced, err
}

// ClearProgress removes every completion mark. Checks, logs and the schedule stay.
func (t *Tracker) ClearProgress(ctx context.Context) (bool, error) {
	return t.mutate(ctx, "clear_progress", func(l *ledger.Ledger) error {
		l.ClearAllCompletion()
		return nil
	})
}

// SetStartDate moves the schedule start.
func (t *Tracker) SetStartDate(ctx context.Context, d models.Date) (bool, error) {
	return t.mutate(ctx, "set_start_date", func(l *ledger.Ledger) error {
		l.Plan().SetStartDate(d)
		return nil
	})
}

// ResetSchedule moves the start date to tomorrow and returns it.
func (t *Tracker) ResetSchedule(ctx context.Context) (models.Date, bool, error) {
	var start models.Date
	synced, err := t.mutate(ctx, "reset_schedule", func(l *ledger.Ledger) error {
		start = l.Plan().ResetStart(t.now())
		return nil
	})
	return start, synced, err
}

// AddRestDate marks d as a rest day.
func (t *Tracker) AddRestDate(ctx context.Context, d models.Date) (bool, error) {
	return t.mutate(ctx, "add_rest_date", func(l *ledger.Ledger) error {
		l.Plan().AddRestDate(d)
		return nil
	})
}

// RemoveRestDate unmarks d as a rest day.
func (t *Tracker) RemoveRestDate(ctx context.Context, d models.Date) (bool, error) {
	return t.mutate(ctx, "remove_rest_date", func(l *ledger.Ledger) error {
		l.Plan().RemoveRestDate(d)
		return nil
	})
}

// PushWorkoutFrom defers the workout on d and every later workout by one slot.
func (t *Tracker) PushWorkoutFrom(ctx context.Context, d models.Date) (bool, error) {
	return t.mutate(ctx, "push_workout", func(l *ledger.Ledger) error {
		l.Plan().PushWorkoutFrom(d)
		return nil
	})
}

// Export returns the current snapshot.
func (t *Tracker) Export() ledger.Snapshot {
	var s ledger.Snapshot
	t.read(func(l *ledger.Ledger) { s = l.Export() })
	return s
}

// ExportJSON returns the snapshot as an indented document for download.
func (t *Tracker) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(t.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return data, nil
}

// Import replaces the whole snapshot with data. Unparseable data returns
// ledger.ErrMalformedSnapshot and leaves the ledger unchanged.
func (t *Tracker) Import(ctx context.Context, data []byte) (bool, error) {
	snap, err := ledger.DecodeSnapshot(data)
	if err != nil {
		return false, err
	}
	return t.mutate(ctx, "import", func(l *ledger.Ledger) error {
		l.Import(snap)
		return nil
	})
}

// SyncStatus reports the remote mirror state.
func (t *Tracker) SyncStatus() gateway.Status {
	return t.store.Status()
}

// Sync pushes the locally committed snapshot to the remote store again.
func (t *Tracker) Sync(ctx context.Context) (bool, error) {
	return t.store.Retry(ctx)
}

// Progress summarises completions against the catalog.
func (t *Tracker) Progress() ledger.Summary {
	var s ledger.Summary
	t.read(func(l *ledger.Ledger) { s = l.Summarize(t.catalog.Blocks()) })
	return s
}
