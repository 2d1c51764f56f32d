// Package catalog loads the static workout program: an ordered list of blocks ("months"),
// each an ordered list of workouts made of raw text lines.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/meltforce/threehundred/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrUnknownWorkout is returned for a workout key the catalog does not contain.
var ErrUnknownWorkout = errors.New("unknown workout")

//go:embed program.json
var defaultProgram []byte

// document is the on-disk catalog format: {"month1": {"days": [{"day": 1, "content": [...]}]}}.
type document map[string]blockDoc

type blockDoc struct {
	Days []dayDoc `json:"days" yaml:"days"`
}

type dayDoc struct {
	Day     int      `json:"day" yaml:"day"`
	Content []string `json:"content" yaml:"content"`
}

// Catalog is the read-only program. It is safe for concurrent use once loaded.
type Catalog struct {
	blocks   []models.Block
	workouts []models.Workout
	index    map[models.WorkoutKey]int
}

// Load reads a catalog file. An empty path loads the embedded sample program.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultProgram)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document. JSON is decoded directly; anything else is read as YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("parsing catalog JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return build(doc)
}

func build(doc document) (*Catalog, error) {
	c := &Catalog{index: make(map[models.WorkoutKey]int)}

	for name, b := range doc {
		id, err := models.ParseBlockName(name)
		if err != nil {
			return nil, err
		}
		block := models.Block{ID: id, Name: models.BlockName(id)}
		for _, d := range b.Days {
			if d.Day < 1 {
				return nil, fmt.Errorf("%s: day %d must be >= 1", name, d.Day)
			}
			block.Workouts = append(block.Workouts, models.Workout{
				Key:     models.WorkoutKey{Block: id, Day: d.Day},
				Content: d.Content,
			})
		}
		c.blocks = append(c.blocks, block)
	}

	sort.Slice(c.blocks, func(i, j int) bool { return c.blocks[i].ID < c.blocks[j].ID })
	for i := 1; i < len(c.blocks); i++ {
		if c.blocks[i].ID == c.blocks[i-1].ID {
			return nil, fmt.Errorf("block %d defined twice", c.blocks[i].ID)
		}
	}

	for _, b := range c.blocks {
		for _, w := range b.Workouts {
			if _, dup := c.index[w.Key]; dup {
				return nil, fmt.Errorf("%s: day %d defined twice", b.Name, w.Key.Day)
			}
			c.index[w.Key] = len(c.workouts)
			c.workouts = append(c.workouts, w)
		}
	}
	return c, nil
}

// Blocks returns the blocks in ascending block order.
func (c *Catalog) Blocks() []models.Block {
	return c.blocks
}

// Workouts returns every workout of every block in catalog order.
func (c *Catalog) Workouts() []models.Workout {
	return c.workouts
}

// Keys returns the workout keys in catalog order.
func (c *Catalog) Keys() []models.WorkoutKey {
	keys := make([]models.WorkoutKey, len(c.workouts))
	for i, w := range c.workouts {
		keys[i] = w.Key
	}
	return keys
}

// Len is the total number of workouts.
func (c *Catalog) Len() int {
	return len(c.workouts)
}

// Workout looks up a workout by key.
func (c *Catalog) Workout(key models.WorkoutKey) (models.Workout, error) {
	i, ok := c.index[key]
	if !ok {
		return models.Workout{}, fmt.Errorf("%w: %s", ErrUnknownWorkout, key)
	}
	return c.workouts[i], nil
}

// Contains reports whether key names a workout in the catalog.
func (c *Catalog) Contains(key models.WorkoutKey) bool {
	_, ok := c.index[key]
	return ok
}
