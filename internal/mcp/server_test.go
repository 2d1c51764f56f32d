package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/threehundred/internal/catalog"
	"github.com/meltforce/threehundred/internal/gateway"
	"github.com/meltforce/threehundred/internal/metrics"
	"github.com/meltforce/threehundred/internal/models"
	"github.com/meltforce/threehundred/internal/storage"
	"github.com/meltforce/threehundred/internal/tracker"
)

var testNow = time.Date(2026, time.January, 5, 9, 30, 0, 0, time.UTC) // Monday

func newTestHandlers(t *testing.T) (*handlers, *tracker.Tracker) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := storage.OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	cat, err := catalog.Load("")
	if err != nil {
		t.Fatal(err)
	}
	m := metrics.NewTestManager()
	tr := tracker.New(context.Background(), cat, gateway.New(store, nil, "", m, log), m, log,
		tracker.WithClock(func() time.Time { return testNow }))
	return &handlers{ds: tr, log: log}, tr
}

func call(t *testing.T, fn func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := fn(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

// TestNewRegistersTools verifies the server builds with a tracker data source.
func TestNewRegistersTools(t *testing.T) {
	h, _ := newTestHandlers(t)
	if s := New(h.ds, "test", h.log); s == nil {
		t.Fatal("New returned nil")
	}
}

// TestMarkComplete verifies the tool marks and unmarks a workout.
func TestMarkComplete(t *testing.T) {
	h, tr := newTestHandlers(t)

	res := call(t, h.markComplete, map[string]any{"workout": "month1-2"})
	if res.IsError {
		t.Fatalf("mark_complete failed: %s", resultText(t, res))
	}
	if got := tr.Progress().Completed; got != 1 {
		t.Errorf("completed = %d, want 1", got)
	}

	call(t, h.markComplete, map[string]any{"workout": "month1-2", "done": false})
	if got := tr.Progress().Completed; got != 0 {
		t.Errorf("completed after undo = %d, want 0", got)
	}
}

// TestMarkCompleteBadKey verifies invalid and unknown workouts come back as tool errors.
func TestMarkCompleteBadKey(t *testing.T) {
	h, _ := newTestHandlers(t)
	for _, key := range []string{"", "week1", "month9-1"} {
		if res := call(t, h.markComplete, map[string]any{"workout": key}); !res.IsError {
			t.Errorf("workout %q: expected tool error", key)
		}
	}
}

// TestLogSet verifies set logging and the empty-set rejection.
func TestLogSet(t *testing.T) {
	h, tr := newTestHandlers(t)
	key := models.WorkoutKey{Block: 1, Day: 1}

	res := call(t, h.logSet, map[string]any{"workout": "month1-1", "exercise": float64(1), "weight": 24.5, "reps": float64(8)})
	if res.IsError {
		t.Fatalf("log_set failed: %s", resultText(t, res))
	}
	detail, err := tr.Workout(key)
	if err != nil {
		t.Fatal(err)
	}
	var logs []tracker.SetLogView
	for _, l := range detail.Lines {
		if len(l.Logs) > 0 {
			logs = l.Logs
		}
	}
	if len(logs) != 1 || logs[0].Weight != 24.5 || logs[0].Reps != 8 || logs[0].Label != "S1" {
		t.Errorf("logs = %+v, want one S1 24.5x8", logs)
	}

	if res := call(t, h.logSet, map[string]any{"workout": "month1-1", "exercise": float64(1)}); !res.IsError {
		t.Error("empty set should be a tool error")
	}
	if res := call(t, h.logSet, map[string]any{"workout": "month1-1", "exercise": float64(-1), "reps": float64(5)}); !res.IsError {
		t.Error("negative exercise should be a tool error")
	}
}

// TestToggleExercise verifies the tool flips the check state.
func TestToggleExercise(t *testing.T) {
	h, _ := newTestHandlers(t)
	args := map[string]any{"workout": "month1-1", "exercise": float64(0)}

	var out struct {
		Checked bool `json:"checked"`
	}
	if err := json.Unmarshal([]byte(resultText(t, call(t, h.toggleExercise, args))), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Checked {
		t.Error("first toggle should check")
	}
	if err := json.Unmarshal([]byte(resultText(t, call(t, h.toggleExercise, args))), &out); err != nil {
		t.Fatal(err)
	}
	if out.Checked {
		t.Error("second toggle should uncheck")
	}
}

// TestScheduleTools verifies the schedule, push and rest-day tools.
func TestScheduleTools(t *testing.T) {
	h, tr := newTestHandlers(t)

	if res := call(t, h.getNextWorkout, nil); res.IsError {
		t.Fatalf("get_next_workout failed: %s", resultText(t, res))
	}
	if _, ok := tr.NextWorkout(); ok {
		t.Fatal("no next workout expected before a start date")
	}

	if _, err := tr.SetStartDate(context.Background(), models.Date{Year: 2026, Month: time.January, Day: 5}); err != nil {
		t.Fatal(err)
	}
	if res := call(t, h.pushWorkout, map[string]any{"date": "2026-01-05"}); res.IsError {
		t.Fatalf("push_workout failed: %s", resultText(t, res))
	}

	var entries []struct {
		Date    string `json:"date"`
		IsRest  bool   `json:"is_rest"`
		Workout string `json:"workout"`
	}
	if err := json.Unmarshal([]byte(resultText(t, call(t, h.getSchedule, map[string]any{"days": float64(3)}))), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if !entries[0].IsRest || entries[1].Workout != "month1-1" {
		t.Errorf("entries = %+v, want rest then month1-1", entries)
	}

	if res := call(t, h.setRestDay, map[string]any{"date": "2026-01-05", "rest": false}); res.IsError {
		t.Fatalf("set_rest_day failed: %s", resultText(t, res))
	}
	next, ok := tr.NextWorkout()
	if !ok || next.Date.String() != "2026-01-05" {
		t.Errorf("next = %+v, want 2026-01-05", next)
	}

	if res := call(t, h.pushWorkout, map[string]any{"date": "tomorrow"}); !res.IsError {
		t.Error("invalid date should be a tool error")
	}
	if res := call(t, h.getSchedule, map[string]any{"from": "yesterday"}); !res.IsError {
		t.Error("invalid from should be a tool error")
	}
}
