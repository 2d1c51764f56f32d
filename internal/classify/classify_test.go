package classify

import (
	"reflect"
	"testing"
)

// TestClassifyPrecedence verifies each category and that the first matching rule wins.
func TestClassifyPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		content []string
		want    Category
	}{
		{"short rest", []string{"Rest or light walk"}, CategoryRest},
		{"long content mentioning rest is not a rest day", []string{"Back squat 5x5", "rest 2 min", "Bench 5x5", "Row 5x5"}, CategoryMixed},
		{"row for minutes", []string{"Row 20 minutes"}, CategoryCardio},
		{"row with then is not cardio", []string{"Row 10 minutes", "Then", "Pull-up 5x5"}, CategoryMixed},
		{"run", []string{"Run 5k"}, CategoryCardio},
		{"bike", []string{"Bike 45 minutes"}, CategoryCardio},
		{"swim", []string{"Swim 1000m"}, CategoryCardio},
		{"one rep max", []string{"Deadlift find 1RM"}, CategoryStrength},
		{"heavy", []string{"Back squat heavy single"}, CategoryStrength},
		{"complex", []string{"Dumbbell complex 6 rounds"}, CategoryComplex},
		{"for time", []string{"3 rounds for time:", "10 burpees"}, CategoryMetcon},
		{"amrap", []string{"AMRAP 20 minutes:", "5 pull-up"}, CategoryMetcon},
		{"max rounds", []string{"Max rounds in 15 minutes:", "5 hspu"}, CategoryMetcon},
		{"ladder", []string{"Pull-up ladder to 10"}, CategoryLadder},
		{"mixed", []string{"Ring dip 3x8", "Plank pull 3x10"}, CategoryMixed},
		{"cardio beats strength", []string{"Run 1 mile", "Deadlift 1RM"}, CategoryCardio},
		{"strength beats metcon", []string{"Heavy thrusters for time"}, CategoryStrength},
		{"complex beats ladder", []string{"Complex ladder"}, CategoryComplex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.content); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

// TestClassifyEmpty verifies empty content falls through to Mixed.
func TestClassifyEmpty(t *testing.T) {
	if got := Classify(nil); got != CategoryMixed {
		t.Errorf("Classify(nil) = %q, want Mixed", got)
	}
}

// TestPreview verifies markers and blanks are skipped and the result is capped.
func TestPreview(t *testing.T) {
	content := []string{"Workout:", "", "Back squat 5x5", "Then:", "Bench 5x5", "Row 5x5", "Sit-up 3x20"}
	got := Preview(content, 2)
	want := []string{"Back squat 5x5", "Bench 5x5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Preview = %q, want %q", got, want)
	}
	if got := Preview(content, 10); len(got) != 4 {
		t.Errorf("Preview(10) = %q, want 4 lines", got)
	}
}

// TestNeedsWeightTracking verifies load/rep patterns and dictionary names enable logging.
func TestNeedsWeightTracking(t *testing.T) {
	tests := map[string]bool{
		"Back squat 5x5":        true,
		"10 reps":               true,
		"3 sets of max":         true,
		"Press @ 80%":           true,
		"Sldl #95":              true,
		"Carry 20kg":            true,
		"Kb swing":              true,
		"Stretch":               false,
		"Walk around the block": false,
	}
	for line, want := range tests {
		if got := NeedsWeightTracking(line); got != want {
			t.Errorf("NeedsWeightTracking(%q) = %v, want %v", line, got, want)
		}
	}
}
