package classify

import (
	"strings"

	"github.com/meltforce/threehundred/internal/models"
)

// LineKind tags a content line.
type LineKind string

const (
	KindBlank    LineKind = "blank"
	KindHeader   LineKind = "header"
	KindThen     LineKind = "then"
	KindRest     LineKind = "rest"
	KindExercise LineKind = "exercise"
)

// maxHeaderLen is the length below which a line ending in ':' is a section header.
const maxHeaderLen = 40

// Line is one tagged content line. Numbered lines (rest and exercise) carry their
// ExerciseRef; other kinds have Ref -1.
type Line struct {
	Text string             `json:"text"`
	Kind LineKind           `json:"kind"`
	Ref  models.ExerciseRef `json:"ref"`
}

// ExerciseLine is one entry of the filtered exercise sequence.
type ExerciseLine struct {
	Ref    models.ExerciseRef `json:"ref"`
	Text   string             `json:"text"`
	IsRest bool               `json:"is_rest"`
}

// Tag classifies a single trimmed line without assigning a position.
func Tag(line string) LineKind {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	switch {
	case trimmed == "":
		return KindBlank
	case lower == "workout:":
		return KindHeader
	case lower == "then:" || lower == "then":
		return KindThen
	case strings.Contains(lower, "rest") && strings.Contains(lower, "or"):
		return KindRest
	case strings.HasSuffix(lower, ":") && len(trimmed) < maxHeaderLen:
		return KindHeader
	case strings.HasPrefix(trimmed, `"`) || strings.HasPrefix(trimmed, "“"):
		return KindHeader
	default:
		return KindExercise
	}
}

// Lines tags every content line and numbers rest and exercise lines from 0 in order.
// The numbering is a pure function of the content.
func Lines(content []string) []Line {
	out := make([]Line, 0, len(content))
	next := models.ExerciseRef(0)
	for _, raw := range content {
		kind := Tag(raw)
		l := Line{Text: strings.TrimSpace(raw), Kind: kind, Ref: -1}
		if kind == KindRest || kind == KindExercise {
			l.Ref = next
			next++
		}
		out = append(out, l)
	}
	return out
}

// FilterExerciseLines returns the numbered lines only. The position of an entry in the
// result equals its Ref.
func FilterExerciseLines(content []string) []ExerciseLine {
	var out []ExerciseLine
	for _, l := range Lines(content) {
		if l.Ref < 0 {
			continue
		}
		out = append(out, ExerciseLine{Ref: l.Ref, Text: l.Text, IsRest: l.Kind == KindRest})
	}
	return out
}

// CountExercises is the number of checkable lines in a workout.
func CountExercises(content []string) int {
	return len(FilterExerciseLines(content))
}
