// Package classify derives display information from a workout's raw content lines:
// its category, which lines are exercises, and descriptions of known movements.
package classify

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

// Category is the display category of a workout.
type Category string

const (
	CategoryRest     Category = "Rest / Active Recovery"
	CategoryCardio   Category = "Cardio"
	CategoryStrength Category = "Strength"
	CategoryComplex  Category = "Complex"
	CategoryMetcon   Category = "Metcon"
	CategoryLadder   Category = "Ladder"
	CategoryMixed    Category = "Mixed"
)

// maxRestLines is the longest content that can still be a rest day.
const maxRestLines = 3

// Classify returns the category of a workout. Rules are checked in order and the first
// match wins: rest, cardio, strength, complex, metcon, ladder, otherwise mixed.
func Classify(content []string) Category {
	text := strings.ToLower(strings.Join(content, " "))
	has := func(s string) bool { return strings.Contains(text, s) }

	switch {
	case has("rest") && len(content) <= maxRestLines:
		return CategoryRest
	case has("row") && has("minute") && !has("then"):
		return CategoryCardio
	case has("run") || has("bike") || has("swim"):
		return CategoryCardio
	case has("1rm") || has("heavy"):
		return CategoryStrength
	case has("complex"):
		return CategoryComplex
	case has("for time") || has("amrap") || has("max rounds"):
		return CategoryMetcon
	case has("ladder"):
		return CategoryLadder
	default:
		return CategoryMixed
	}
}

// weightTrackingRe matches lines that carry a load or rep prescription.
var weightTrackingRe = regexp.MustCompile(`(?i)\d+x|\d+\s*(rep|set)|@|#|kg|lb|%`)

// NeedsWeightTracking reports whether a set log makes sense for the line: it prescribes
// sets, reps or a load, or it names a known exercise.
func NeedsWeightTracking(line string) bool {
	if weightTrackingRe.MatchString(line) {
		return true
	}
	_, ok := DescribeExercise(line)
	return ok
}

// Preview returns the first maxLines lines of a workout, skipping blanks and the
// "workout:" / "then:" markers.
func Preview(content []string, maxLines int) []string {
	lines := lo.Filter(content, func(line string, _ int) bool {
		lower := strings.ToLower(line)
		return lower != "workout:" && lower != "then:" && strings.TrimSpace(line) != ""
	})
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
