package models

import (
	"encoding/json"
	"errors"
	"testing"
)

// TestWorkoutKeyRoundTrip verifies the "month<block>-<day>" encoding parses back to the same key.
func TestWorkoutKeyRoundTrip(t *testing.T) {
	k := WorkoutKey{Block: 2, Day: 14}
	if got := k.String(); got != "month2-14" {
		t.Fatalf("String() = %q, want %q", got, "month2-14")
	}
	parsed, err := ParseWorkoutKey(k.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != k {
		t.Errorf("parsed = %+v, want %+v", parsed, k)
	}
}

// TestParseWorkoutKeyInvalid verifies malformed keys are rejected with ErrInvalidKey.
func TestParseWorkoutKeyInvalid(t *testing.T) {
	for _, s := range []string{"", "month1", "month-3", "monthx-2", "month1-0", "month0-4", "week1-2"} {
		if _, err := ParseWorkoutKey(s); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ParseWorkoutKey(%q) error = %v, want ErrInvalidKey", s, err)
		}
	}
}

// TestParseBlockName verifies both "monthN" and bare "N" block names are accepted.
func TestParseBlockName(t *testing.T) {
	tests := map[string]int{"month1": 1, "Month3": 3, "2": 2, " month10 ": 10}
	for in, want := range tests {
		got, err := ParseBlockName(in)
		if err != nil {
			t.Errorf("ParseBlockName(%q) error: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseBlockName(%q) = %d, want %d", in, got, want)
		}
	}
}

// TestWorkoutKeyAsJSONMapKey verifies structured keys encode to the string form inside JSON objects.
func TestWorkoutKeyAsJSONMapKey(t *testing.T) {
	data, err := json.Marshal(map[WorkoutKey]bool{{Block: 1, Day: 3}: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"month1-3":true}` {
		t.Errorf("json = %s", data)
	}

	var back map[WorkoutKey]bool
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back[WorkoutKey{Block: 1, Day: 3}] {
		t.Errorf("decoded map = %v", back)
	}
}

// TestParseExerciseRef verifies negative and non-numeric indices are rejected.
func TestParseExerciseRef(t *testing.T) {
	if ref, err := ParseExerciseRef("4"); err != nil || ref != 4 {
		t.Errorf("ParseExerciseRef(4) = %d, %v", ref, err)
	}
	for _, s := range []string{"-1", "a", ""} {
		if _, err := ParseExerciseRef(s); err == nil {
			t.Errorf("ParseExerciseRef(%q) expected error", s)
		}
	}
}
