package classify

import (
	"reflect"
	"testing"

	"github.com/meltforce/threehundred/internal/models"
)

// TestTag verifies each line kind, including that the rest check runs before the header check.
func TestTag(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"", KindBlank},
		{"   ", KindBlank},
		{"Workout:", KindHeader},
		{"WORKOUT:", KindHeader},
		{"Then:", KindThen},
		{"then", KindThen},
		{"Rest or walk", KindRest},
		{"Rest or mobility:", KindRest},
		{"Warm-up:", KindHeader},
		{`"Kalsu"`, KindHeader},
		{"“Murph”", KindHeader},
		{"Back squat 5x5", KindExercise},
		{"This line is a very long description that ends with a colon:", KindExercise},
	}
	for _, tt := range tests {
		if got := Tag(tt.line); got != tt.want {
			t.Errorf("Tag(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

// TestFilterExerciseLines verifies headers, markers and blanks are excluded and refs are
// assigned by filtered position, not raw line index.
func TestFilterExerciseLines(t *testing.T) {
	content := []string{"Warm-up:", "Shoulder dislocate 2x10", "", "Workout:", "Back squat 5x5", "Then:", "Rest or walk 5 min", "Kb swing 3x15"}
	got := FilterExerciseLines(content)
	want := []ExerciseLine{
		{Ref: 0, Text: "Shoulder dislocate 2x10"},
		{Ref: 1, Text: "Back squat 5x5"},
		{Ref: 2, Text: "Rest or walk 5 min", IsRest: true},
		{Ref: 3, Text: "Kb swing 3x15"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterExerciseLines =\n%+v\nwant\n%+v", got, want)
	}
	if n := CountExercises(content); n != 4 {
		t.Errorf("CountExercises = %d, want 4", n)
	}
}

// TestFilterExerciseLinesDeterministic verifies filtering the same content twice yields
// identical refs.
func TestFilterExerciseLinesDeterministic(t *testing.T) {
	content := []string{"Workout:", "Front squat 5x3", "Then", "Push press 5x3", "", "Hang clean 5x2"}
	a := FilterExerciseLines(content)
	b := FilterExerciseLines(append([]string(nil), content...))
	if !reflect.DeepEqual(a, b) {
		t.Errorf("refs differ between runs: %+v vs %+v", a, b)
	}
	for i, l := range a {
		if l.Ref != models.ExerciseRef(i) {
			t.Errorf("entry %d has ref %d", i, l.Ref)
		}
	}
}

// TestLinesKeepsUnnumberedKinds verifies Lines returns every line and marks unnumbered ones with -1.
func TestLinesKeepsUnnumberedKinds(t *testing.T) {
	lines := Lines([]string{"Workout:", "Run 5k", "Then", "Bike 5k"})
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4", len(lines))
	}
	wantRefs := []models.ExerciseRef{-1, 0, -1, 1}
	for i, l := range lines {
		if l.Ref != wantRefs[i] {
			t.Errorf("line %d ref = %d, want %d", i, l.Ref, wantRefs[i])
		}
	}
}
