package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/samber/lo"

	"github.com/meltforce/threehundred/internal/models"
	"github.com/meltforce/threehundred/internal/tracker"
)

// defaultScheduleDays is how many calendar days get_schedule returns without a limit.
const defaultScheduleDays = 14

// --- Tool definitions ---

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Projected training calendar. Each day is either a workout (with category and preview) or a rest day with its reason (weekday = the weekly Friday off, custom = a user rest day). Empty until a start date is set."),
	mcp.WithString("from", mcp.Description("First date to include (YYYY-MM-DD). Defaults to today.")),
	mcp.WithNumber("days", mcp.Description("Maximum number of days to return. Defaults to 14.")),
)

var toolGetNextWorkout = mcp.NewTool("get_next_workout",
	mcp.WithDescription("The first workout scheduled today or later that is not completed yet."),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Full workout detail: tagged content lines, exercise descriptions, checked exercises, logged sets and completion."),
	mcp.WithString("workout", mcp.Required(), mcp.Description("Workout key, e.g. month1-3")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Completed workouts per block, overall total and percentage."),
)

var toolMarkComplete = mcp.NewTool("mark_complete",
	mcp.WithDescription("Mark a workout complete, or not complete with done=false."),
	mcp.WithString("workout", mcp.Required(), mcp.Description("Workout key, e.g. month1-3")),
	mcp.WithBoolean("done", mcp.Description("Completion state. Defaults to true.")),
)

var toolToggleExercise = mcp.NewTool("toggle_exercise",
	mcp.WithDescription("Flip the done check of one exercise line of a workout."),
	mcp.WithString("workout", mcp.Required(), mcp.Description("Workout key, e.g. month1-3")),
	mcp.WithNumber("exercise", mcp.Required(), mcp.Description("0-based exercise index as listed by get_workout")),
)

var toolLogSet = mcp.NewTool("log_set",
	mcp.WithDescription("Record a set (weight and reps) for an exercise of a workout."),
	mcp.WithString("workout", mcp.Required(), mcp.Description("Workout key, e.g. month1-3")),
	mcp.WithNumber("exercise", mcp.Required(), mcp.Description("0-based exercise index as listed by get_workout")),
	mcp.WithNumber("weight", mcp.Description("Weight lifted. Defaults to 0.")),
	mcp.WithNumber("reps", mcp.Description("Repetitions. Defaults to 0.")),
)

var toolPushWorkout = mcp.NewTool("push_workout",
	mcp.WithDescription("Make a date a rest day so the workout scheduled there and every later workout move one training day later."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date to push from (YYYY-MM-DD)")),
)

var toolSetRestDay = mcp.NewTool("set_rest_day",
	mcp.WithDescription("Add or remove a custom rest day. The schedule is recomputed."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date (YYYY-MM-DD)")),
	mcp.WithBoolean("rest", mcp.Description("true adds the rest day, false removes it. Defaults to true.")),
)

// --- Tool handlers ---

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := h.ds.Schedule()

	if from := req.GetString("from", ""); from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		entries = lo.Filter(entries, func(e tracker.ScheduleEntry, _ int) bool { return !e.Date.Before(d) })
	} else {
		entries = lo.Filter(entries, func(e tracker.ScheduleEntry, _ int) bool { return !e.Past })
	}

	days := req.GetInt("days", defaultScheduleDays)
	if days > 0 && len(entries) > days {
		entries = entries[:days]
	}
	return jsonResult(entries)
}

func (h *handlers) getNextWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	next, ok := h.ds.NextWorkout()
	if !ok {
		return mcp.NewToolResultText("no upcoming workout: the schedule has no start date or everything left is done"), nil
	}
	return jsonResult(next)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errResult := workoutArg(req)
	if errResult != nil {
		return errResult, nil
	}
	detail, err := h.ds.Workout(key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(detail)
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.ds.Progress())
}

func (h *handlers) markComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errResult := workoutArg(req)
	if errResult != nil {
		return errResult, nil
	}
	done := req.GetBool("done", true)
	synced, err := h.ds.SetComplete(ctx, key, done)
	if err != nil {
		h.log.Error("mcp mark_complete", "workout", key, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"workout": key, "completed": done, "synced": synced})
}

func (h *handlers) toggleExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errResult := workoutArg(req)
	if errResult != nil {
		return errResult, nil
	}
	ref, errResult := exerciseArg(req)
	if errResult != nil {
		return errResult, nil
	}
	checked, synced, err := h.ds.ToggleExercise(ctx, key, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"workout": key, "exercise": ref, "checked": checked, "synced": synced})
}

func (h *handlers) logSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errResult := workoutArg(req)
	if errResult != nil {
		return errResult, nil
	}
	ref, errResult := exerciseArg(req)
	if errResult != nil {
		return errResult, nil
	}
	entry, synced, err := h.ds.AppendSetLog(ctx, key, ref, req.GetFloat("weight", 0), req.GetInt("reps", 0))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"workout": key, "exercise": ref, "set": entry, "synced": synced})
}

func (h *handlers) pushWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, errResult := dateArg(req)
	if errResult != nil {
		return errResult, nil
	}
	synced, err := h.ds.PushWorkoutFrom(ctx, d)
	if err != nil {
		h.log.Error("mcp push_workout", "date", d, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"pushed_from": d, "synced": synced})
}

func (h *handlers) setRestDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, errResult := dateArg(req)
	if errResult != nil {
		return errResult, nil
	}
	rest := req.GetBool("rest", true)
	action := h.ds.AddRestDate
	if !rest {
		action = h.ds.RemoveRestDate
	}
	synced, err := action(ctx, d)
	if err != nil {
		h.log.Error("mcp set_rest_day", "date", d, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"date": d, "rest": rest, "synced": synced})
}

// --- Argument helpers ---

func workoutArg(req mcp.CallToolRequest) (models.WorkoutKey, *mcp.CallToolResult) {
	raw, err := req.RequireString("workout")
	if err != nil {
		return models.WorkoutKey{}, mcp.NewToolResultError("workout parameter is required")
	}
	key, err := models.ParseWorkoutKey(raw)
	if err != nil {
		return models.WorkoutKey{}, mcp.NewToolResultError(err.Error())
	}
	return key, nil
}

func exerciseArg(req mcp.CallToolRequest) (models.ExerciseRef, *mcp.CallToolResult) {
	n, err := req.RequireInt("exercise")
	if err != nil {
		return 0, mcp.NewToolResultError("exercise parameter is required")
	}
	if n < 0 {
		return 0, mcp.NewToolResultError("exercise must not be negative")
	}
	return models.ExerciseRef(n), nil
}

func dateArg(req mcp.CallToolRequest) (models.Date, *mcp.CallToolResult) {
	raw, err := req.RequireString("date")
	if err != nil {
		return models.Date{}, mcp.NewToolResultError("date parameter is required")
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, mcp.NewToolResultError("invalid date format: " + err.Error())
	}
	return d, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
