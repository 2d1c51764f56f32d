package models

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidKey is returned when a workout or block key cannot be parsed.
var ErrInvalidKey = errors.New("invalid key")

// blockPrefix is the catalog's block naming scheme: month1, month2, ...
const blockPrefix = "month"

// WorkoutKey identifies one workout of the program: its block and its 1-based day within the block.
// It encodes as text ("month1-3") both as a JSON value and as a JSON object key.
type WorkoutKey struct {
	Block int
	Day   int
}

// ExerciseRef is the 0-based position of an exercise line within a workout's
// filtered exercise sequence (see classify.FilterExerciseLines).
type ExerciseRef int

// BlockName returns the catalog key of a block, e.g. "month2".
func BlockName(block int) string {
	return blockPrefix + strconv.Itoa(block)
}

// ParseBlockName accepts "month3" or "3" and returns the block number.
func ParseBlockName(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), blockPrefix))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: block %q", ErrInvalidKey, s)
	}
	return n, nil
}

// String encodes the key the way snapshots store it: "month<block>-<day>".
func (k WorkoutKey) String() string {
	return fmt.Sprintf("%s-%d", BlockName(k.Block), k.Day)
}

// ParseWorkoutKey parses "month<block>-<day>".
func ParseWorkoutKey(s string) (WorkoutKey, error) {
	i := strings.LastIndexByte(s, '-')
	if i < 0 {
		return WorkoutKey{}, fmt.Errorf("%w: workout %q", ErrInvalidKey, s)
	}
	block, err := ParseBlockName(s[:i])
	if err != nil {
		return WorkoutKey{}, fmt.Errorf("%w: workout %q", ErrInvalidKey, s)
	}
	day, err := strconv.Atoi(s[i+1:])
	if err != nil || day < 1 {
		return WorkoutKey{}, fmt.Errorf("%w: workout %q", ErrInvalidKey, s)
	}
	return WorkoutKey{Block: block, Day: day}, nil
}

// Compare orders keys by block, then day.
func (k WorkoutKey) Compare(o WorkoutKey) int {
	if k.Block != o.Block {
		return cmp.Compare(k.Block, o.Block)
	}
	return cmp.Compare(k.Day, o.Day)
}

func (k WorkoutKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *WorkoutKey) UnmarshalText(b []byte) error {
	parsed, err := ParseWorkoutKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseExerciseRef parses a decimal exercise index.
func ParseExerciseRef(s string) (ExerciseRef, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: exercise %q", ErrInvalidKey, s)
	}
	return ExerciseRef(n), nil
}
