package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/meltforce/threehundred/internal/models"
)

func testKeys(n int) []models.WorkoutKey {
	keys := make([]models.WorkoutKey, n)
	for i := range keys {
		keys[i] = models.WorkoutKey{Block: i/8 + 1, Day: i%8 + 1}
	}
	return keys
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func workoutDates(items []Item) []models.Date {
	var out []models.Date
	for _, it := range items {
		if !it.IsRest {
			out = append(out, it.Date)
		}
	}
	return out
}

// TestProjectInvariants checks, over many random inputs, that every workout gets exactly one
// date, dates strictly increase, and no workout lands on a skip weekday or a rest date.
func TestProjectInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(300))
	base := mustDate(t, "2025-01-01")

	for i := 0; i < 200; i++ {
		start := base.AddDays(rng.Intn(400))
		n := rng.Intn(40)
		rest := NewRestCalendar()
		for j := rng.Intn(15); j > 0; j-- {
			rest.Add(start.AddDays(rng.Intn(80) - 10))
		}
		skip := time.Weekday(rng.Intn(7))

		keys := testKeys(n)
		items := Project(keys, start, rest, skip)

		var placed []models.WorkoutKey
		for k, it := range items {
			if want := start.AddDays(k); it.Date != want {
				t.Fatalf("case %d: item %d date = %s, want %s", i, k, it.Date, want)
			}
			if it.IsRest {
				if it.Workout != nil {
					t.Fatalf("case %d: rest item %s carries a workout", i, it.Date)
				}
				continue
			}
			if it.Date.Weekday() == skip {
				t.Fatalf("case %d: workout on skip weekday %s", i, it.Date)
			}
			if rest.Contains(it.Date) {
				t.Fatalf("case %d: workout on rest date %s", i, it.Date)
			}
			placed = append(placed, *it.Workout)
		}
		if len(placed) != n {
			t.Fatalf("case %d: placed %d workouts, want %d", i, len(placed), n)
		}
		for k := range placed {
			if placed[k] != keys[k] {
				t.Fatalf("case %d: workout %d = %v, want %v", i, k, placed[k], keys[k])
			}
		}
		dates := workoutDates(items)
		for k := 1; k < len(dates); k++ {
			if !dates[k-1].Before(dates[k]) {
				t.Fatalf("case %d: dates not increasing at %d: %s, %s", i, k, dates[k-1], dates[k])
			}
		}
		if n > 0 && items[len(items)-1].IsRest {
			t.Fatalf("case %d: projection ends on a rest day", i)
		}
	}
}

// TestProjectStartOnSkipWeekday verifies a Friday start contributes no workout.
func TestProjectStartOnSkipWeekday(t *testing.T) {
	start := mustDate(t, "2025-12-19")
	items := Project(testKeys(3), start, nil, SkipWeekday)

	if len(items) != 4 {
		t.Fatalf("items = %d, want 4", len(items))
	}
	if !items[0].IsRest || items[0].Reason != ReasonWeekday || items[0].Date != start {
		t.Errorf("first item = %+v, want weekday rest on %s", items[0], start)
	}
	want := []string{"2025-12-20", "2025-12-21", "2025-12-22"}
	for i, d := range workoutDates(items) {
		if d.String() != want[i] {
			t.Errorf("workout %d on %s, want %s", i, d, want[i])
		}
	}
}

// TestProjectStartOnCustomRest verifies a custom rest start date shifts the first workout.
func TestProjectStartOnCustomRest(t *testing.T) {
	start := mustDate(t, "2025-12-20")
	items := Project(testKeys(2), start, NewRestCalendar(start), SkipWeekday)

	if !items[0].IsRest || items[0].Reason != ReasonCustom {
		t.Errorf("first item = %+v, want custom rest", items[0])
	}
	if got := workoutDates(items)[0].String(); got != "2025-12-21" {
		t.Errorf("first workout on %s, want 2025-12-21", got)
	}
}

// TestProjectFridayBeatsCustomRest verifies a Friday that is also a rest date is reported
// as a weekday rest.
func TestProjectFridayBeatsCustomRest(t *testing.T) {
	fri := mustDate(t, "2025-12-19")
	items := Project(testKeys(1), fri, NewRestCalendar(fri), SkipWeekday)
	if items[0].Reason != ReasonWeekday {
		t.Errorf("reason = %q, want weekday", items[0].Reason)
	}
}

// TestProjectIgnoresRestDatesBeforeStart verifies earlier rest dates are inert.
func TestProjectIgnoresRestDatesBeforeStart(t *testing.T) {
	start := mustDate(t, "2026-03-02")
	keys := testKeys(10)
	plain := Project(keys, start, nil, SkipWeekday)

	past := NewRestCalendar(start.AddDays(-1), start.AddDays(-30), start.AddDays(-365))
	withPast := Project(keys, start, past, SkipWeekday)

	if len(plain) != len(withPast) {
		t.Fatalf("len = %d, want %d", len(withPast), len(plain))
	}
	for i := range plain {
		if plain[i].Date != withPast[i].Date || plain[i].IsRest != withPast[i].IsRest {
			t.Errorf("item %d = %+v, want %+v", i, withPast[i], plain[i])
		}
	}
}

// TestProjectEmptyCatalog verifies no workouts means an empty schedule.
func TestProjectEmptyCatalog(t *testing.T) {
	if items := Project(nil, mustDate(t, "2026-01-01"), nil, SkipWeekday); len(items) != 0 {
		t.Errorf("items = %v, want empty", items)
	}
}

// TestNextWorkout verifies the query skips past and completed workouts.
func TestNextWorkout(t *testing.T) {
	start := mustDate(t, "2026-01-05") // Monday
	keys := testKeys(6)
	items := Project(keys, start, nil, SkipWeekday)
	completed := map[models.WorkoutKey]bool{keys[2]: true}
	done := func(k models.WorkoutKey) bool { return completed[k] }

	tests := []struct {
		name  string
		today string
		want  models.WorkoutKey
		ok    bool
	}{
		{"before start", "2025-12-31", keys[0], true},
		{"on a scheduled day", "2026-01-06", keys[1], true},
		{"completed today", "2026-01-07", keys[3], true},
		{"friday", "2026-01-09", keys[4], true},
		{"after the end", "2026-02-01", models.WorkoutKey{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, ok := NextWorkout(items, mustDate(t, tt.today), done)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && *it.Workout != tt.want {
				t.Errorf("next = %v, want %v", *it.Workout, tt.want)
			}
		})
	}
}

// TestNextWorkoutAllDone verifies nothing is returned once every workout is complete.
func TestNextWorkoutAllDone(t *testing.T) {
	items := Project(testKeys(3), mustDate(t, "2026-01-05"), nil, SkipWeekday)
	all := func(models.WorkoutKey) bool { return true }
	if _, ok := NextWorkout(items, mustDate(t, "2026-01-01"), all); ok {
		t.Error("expected no next workout")
	}
}

// TestDateOfAndWorkoutOn verifies the two lookups agree.
func TestDateOfAndWorkoutOn(t *testing.T) {
	keys := testKeys(9)
	items := Project(keys, mustDate(t, "2026-01-05"), nil, SkipWeekday)
	for _, k := range keys {
		d, ok := DateOf(items, k)
		if !ok {
			t.Fatalf("DateOf(%v) not found", k)
		}
		got, ok := WorkoutOn(items, d)
		if !ok || got != k {
			t.Errorf("WorkoutOn(%s) = %v, %v, want %v", d, got, ok, k)
		}
	}
	if _, ok := WorkoutOn(items, mustDate(t, "2026-01-09")); ok {
		t.Error("WorkoutOn(friday) found a workout")
	}
}
