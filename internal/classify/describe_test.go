package classify

import (
	"strings"
	"testing"
)

// TestDescribeExerciseFirstMatchWins verifies the scan order: "back squat" is listed before
// the shorter entries it would otherwise collide with.
func TestDescribeExerciseFirstMatchWins(t *testing.T) {
	e, ok := DescribeExercise("Back Squat 5x5 heavy")
	if !ok {
		t.Fatal("expected a description")
	}
	if e.Name != "back squat" {
		t.Errorf("matched %q, want back squat", e.Name)
	}
}

// TestDescribeExerciseSubstringOrder verifies that an earlier short key beats a later longer
// one, since matching is by dictionary order and not by longest name.
func TestDescribeExerciseSubstringOrder(t *testing.T) {
	e, ok := DescribeExercise("Pull-up ladder to 10")
	if !ok {
		t.Fatal("expected a description")
	}
	if e.Name != "pull-up" {
		t.Errorf("matched %q, want pull-up", e.Name)
	}
}

// TestDescribeExerciseMissing verifies unknown lines have no description.
func TestDescribeExerciseMissing(t *testing.T) {
	if _, ok := DescribeExercise("Stretch 10 minutes"); ok {
		t.Error("unexpected description")
	}
}

// TestDictionaryNamesAreLowercase verifies entries can match against a lowercased line.
func TestDictionaryNamesAreLowercase(t *testing.T) {
	for _, e := range Dictionary() {
		if e.Name != strings.ToLower(e.Name) {
			t.Errorf("dictionary name %q is not lowercase", e.Name)
		}
		if e.Description == "" {
			t.Errorf("dictionary entry %q has no description", e.Name)
		}
	}
}
