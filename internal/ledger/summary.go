package ledger

import (
	"github.com/samber/lo"

	"github.com/meltforce/threehundred/internal/models"
)

// BlockProgress counts completed workouts in one block.
type BlockProgress struct {
	Block     int    `json:"block"`
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Summary is the overall progress against a program. Completions for workouts that are
// not in the program are not counted.
type Summary struct {
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
	Percent   int             `json:"percent"`
	Blocks    []BlockProgress `json:"blocks"`
}

// Summarize counts the ledger's completions per block of the program.
func (l *Ledger) Summarize(blocks []models.Block) Summary {
	s := Summary{Blocks: make([]BlockProgress, 0, len(blocks))}
	for _, b := range blocks {
		done := lo.CountBy(b.Workouts, func(w models.Workout) bool { return l.IsComplete(w.Key) })
		s.Blocks = append(s.Blocks, BlockProgress{Block: b.ID, Name: b.Name, Completed: done, Total: len(b.Workouts)})
		s.Completed += done
		s.Total += len(b.Workouts)
	}
	if s.Total > 0 {
		s.Percent = s.Completed * 100 / s.Total
	}
	return s
}
