package mcp

import (
	"context"

	"github.com/meltforce/threehundred/internal/gateway"
	"github.com/meltforce/threehundred/internal/ledger"
	"github.com/meltforce/threehundred/internal/models"
	"github.com/meltforce/threehundred/internal/tracker"
)

// DataSource is the slice of the tracker the MCP tools use.
type DataSource interface {
	Blocks() []tracker.BlockView
	Workout(key models.WorkoutKey) (tracker.WorkoutDetail, error)
	Schedule() []tracker.ScheduleEntry
	NextWorkout() (tracker.ScheduleEntry, bool)
	Progress() ledger.Summary
	SyncStatus() gateway.Status

	SetComplete(ctx context.Context, key models.WorkoutKey, done bool) (bool, error)
	ToggleExercise(ctx context.Context, key models.WorkoutKey, ref models.ExerciseRef) (checked, synced bool, err error)
	AppendSetLog(ctx context.Context, key models.WorkoutKey, ref models.ExerciseRef, weight float64, reps int) (models.SetLog, bool, error)
	PushWorkoutFrom(ctx context.Context, d models.Date) (bool, error)
	AddRestDate(ctx context.Context, d models.Date) (bool, error)
	RemoveRestDate(ctx context.Context, d models.Date) (bool, error)
}

// Compile-time check: *tracker.Tracker satisfies DataSource.
var _ DataSource = (*tracker.Tracker)(nil)
