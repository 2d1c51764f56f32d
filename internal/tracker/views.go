package tracker

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/meltforce/threehundred/internal/classify"
	"github.com/meltforce/threehundred/internal/ledger"
	"github.com/meltforce/threehundred/internal/models"
	"github.com/meltforce/threehundred/internal/schedule"
)

// Preview lengths for workout cards and schedule rows.
const (
	cardPreviewLines     = 4
	schedulePreviewLines = 2
)

// WorkoutSummary is a workout card.
type WorkoutSummary struct {
	Key           models.WorkoutKey `json:"key"`
	Block         int               `json:"block"`
	Day           int               `json:"day"`
	Category      classify.Category `json:"category"`
	Preview       []string          `json:"preview"`
	Completed     bool              `json:"completed"`
	ExercisesDone int               `json:"exercises_done"`
	ExerciseCount int               `json:"exercise_count"`
}

// BlockView is one block with its workout cards.
type BlockView struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Completed int              `json:"completed"`
	Workouts  []WorkoutSummary `json:"workouts"`
}

// SetLogView is a logged set with its positional label.
type SetLogView struct {
	Label string `json:"label"`
	models.SetLog
}

// LineView is one content line of the workout detail.
type LineView struct {
	Number      int                `json:"number,omitempty"`
	Text        string             `json:"text"`
	Kind        classify.LineKind  `json:"kind"`
	Ref         models.ExerciseRef `json:"ref"`
	Checked     bool               `json:"checked,omitempty"`
	Description string             `json:"description,omitempty"`
	TrackWeight bool               `json:"track_weight,omitempty"`
	Logs        []SetLogView       `json:"logs,omitempty"`
}

// WorkoutDetail is the detail panel of one workout.
type WorkoutDetail struct {
	Key           models.WorkoutKey `json:"key"`
	Block         int               `json:"block"`
	Day           int               `json:"day"`
	Category      classify.Category `json:"category"`
	Completed     bool              `json:"completed"`
	ExercisesDone int               `json:"exercises_done"`
	ExerciseCount int               `json:"exercise_count"`
	Stats         string            `json:"stats"`
	ScheduledOn   *models.Date      `json:"scheduled_on,omitempty"`
	Lines         []LineView        `json:"lines"`
}

// ScheduleEntry is a projected day with display fields for workouts.
type ScheduleEntry struct {
	schedule.Item
	Category  classify.Category `json:"category,omitempty"`
	Preview   []string          `json:"preview,omitempty"`
	Completed bool              `json:"completed,omitempty"`
	Today     bool              `json:"today,omitempty"`
	Past      bool              `json:"past,omitempty"`
}

// Blocks returns every block with workout cards.
func (t *Tracker) Blocks() []BlockView {
	var out []BlockView
	t.read(func(l *ledger.Ledger) {
		for _, b := range t.catalog.Blocks() {
			bv := BlockView{ID: b.ID, Name: b.Name}
			for _, w := range b.Workouts {
				s := summarize(l, w)
				if s.Completed {
					bv.Completed++
				}
				bv.Workouts = append(bv.Workouts, s)
			}
			out = append(out, bv)
		}
	})
	return out
}

func summarize(l *ledger.Ledger, w models.Workout) WorkoutSummary {
	n := classify.CountExercises(w.Content)
	return WorkoutSummary{
		Key:           w.Key,
		Block:         w.Key.Block,
		Day:           w.Key.Day,
		Category:      classify.Classify(w.Content),
		Preview:       classify.Preview(w.Content, cardPreviewLines),
		Completed:     l.IsComplete(w.Key),
		ExercisesDone: lo.CountBy(l.Checked(w.Key), func(r models.ExerciseRef) bool { return int(r) < n }),
		ExerciseCount: n,
	}
}

// Workout returns the detail view of one workout.
func (t *Tracker) Workout(key models.WorkoutKey) (WorkoutDetail, error) {
	w, err := t.catalog.Workout(key)
	if err != nil {
		return WorkoutDetail{}, err
	}

	var d WorkoutDetail
	t.read(func(l *ledger.Ledger) {
		d = WorkoutDetail{
			Key:       key,
			Block:     key.Block,
			Day:       key.Day,
			Category:  classify.Classify(w.Content),
			Completed: l.IsComplete(key),
		}
		if date, ok := schedule.DateOf(l.Plan().Project(t.catalog.Keys()), key); ok {
			d.ScheduledOn = &date
		}

		logs := l.WorkoutLogs(key)
		for _, line := range classify.Lines(w.Content) {
			if line.Kind == classify.KindBlank {
				continue
			}
			lv := LineView{Text: line.Text, Kind: line.Kind, Ref: line.Ref}
			if line.Ref >= 0 {
				d.ExerciseCount++
				lv.Number = int(line.Ref) + 1
				lv.Checked = l.IsChecked(key, line.Ref)
				if lv.Checked {
					d.ExercisesDone++
				}
			}
			if line.Kind == classify.KindExercise {
				if e, ok := classify.DescribeExercise(line.Text); ok {
					lv.Description = e.Description
				}
				lv.TrackWeight = classify.NeedsWeightTracking(line.Text)
				lv.Logs = lo.Map(logs[line.Ref], func(s models.SetLog, i int) SetLogView {
					return SetLogView{Label: fmt.Sprintf("S%d", i+1), SetLog: s}
				})
			}
			d.Lines = append(d.Lines, lv)
		}
	})
	d.Stats = fmt.Sprintf("%d/%d exercises done", d.ExercisesDone, d.ExerciseCount)
	return d, nil
}

// Schedule projects the catalog from the start date. It is empty before a start date is set.
func (t *Tracker) Schedule() []ScheduleEntry {
	var out []ScheduleEntry
	today := t.today()
	t.read(func(l *ledger.Ledger) {
		items := l.Plan().Project(t.catalog.Keys())
		out = make([]ScheduleEntry, 0, len(items))
		for _, it := range items {
			out = append(out, t.entry(l, it, today))
		}
	})
	return out
}

// NextWorkout returns the first uncompleted workout scheduled today or later.
func (t *Tracker) NextWorkout() (ScheduleEntry, bool) {
	var (
		entry ScheduleEntry
		found bool
	)
	today := t.today()
	t.read(func(l *ledger.Ledger) {
		items := l.Plan().Project(t.catalog.Keys())
		it, ok := schedule.NextWorkout(items, today, l.IsComplete)
		if ok {
			entry, found = t.entry(l, it, today), true
		}
	})
	return entry, found
}

func (t *Tracker) entry(l *ledger.Ledger, it schedule.Item, today models.Date) ScheduleEntry {
	e := ScheduleEntry{Item: it, Today: it.Date == today, Past: it.Date.Before(today)}
	if it.IsRest {
		return e
	}
	if w, err := t.catalog.Workout(*it.Workout); err == nil {
		e.Category = classify.Classify(w.Content)
		e.Preview = classify.Preview(w.Content, schedulePreviewLines)
	}
	e.Completed = l.IsComplete(*it.Workout)
	return e
}
