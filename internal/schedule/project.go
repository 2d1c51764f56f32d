// Package schedule projects the ordered workout list onto calendar dates. Every day from
// the start date is either a fixed weekday rest, a custom rest date, or the next workout.
package schedule

import (
	"time"

	"github.com/meltforce/threehundred/internal/models"
)

// SkipWeekday is the weekly rest day. It is never stored.
const SkipWeekday = time.Friday

// Reason says why a schedule item is a rest day.
type Reason string

const (
	ReasonWeekday Reason = "weekday"
	ReasonCustom  Reason = "custom"
)

// Item is one calendar day of a projection. Workout is set only when IsRest is false.
type Item struct {
	Date    models.Date        `json:"date"`
	IsRest  bool               `json:"is_rest"`
	Reason  Reason             `json:"reason,omitempty"`
	Workout *models.WorkoutKey `json:"workout,omitempty"`
}

// Project assigns each key, in order, to the next date on or after start that is neither
// the skip weekday nor a rest date. The walk ends when every key is placed, so it visits
// len(keys) workout days plus the rest days in between. An empty key list yields nil.
func Project(keys []models.WorkoutKey, start models.Date, rest *RestCalendar, skip time.Weekday) []Item {
	if len(keys) == 0 {
		return nil
	}
	items := make([]Item, 0, len(keys)+len(keys)/6+rest.Len()+1)
	next := 0
	for d := start; next < len(keys); d = d.AddDays(1) {
		switch {
		case d.Weekday() == skip:
			items = append(items, Item{Date: d, IsRest: true, Reason: ReasonWeekday})
		case rest.Contains(d):
			items = append(items, Item{Date: d, IsRest: true, Reason: ReasonCustom})
		default:
			key := keys[next]
			items = append(items, Item{Date: d, Workout: &key})
			next++
		}
	}
	return items
}

// NextWorkout returns the first workout item dated on or after today for which done
// reports false.
func NextWorkout(items []Item, today models.Date, done func(models.WorkoutKey) bool) (Item, bool) {
	for _, it := range items {
		if it.IsRest || it.Date.Before(today) {
			continue
		}
		if done != nil && done(*it.Workout) {
			continue
		}
		return it, true
	}
	return Item{}, false
}

// DateOf returns the date a workout is scheduled on.
func DateOf(items []Item, key models.WorkoutKey) (models.Date, bool) {
	for _, it := range items {
		if !it.IsRest && *it.Workout == key {
			return it.Date, true
		}
	}
	return models.Date{}, false
}

// WorkoutOn returns the workout scheduled on d, if any.
func WorkoutOn(items []Item, d models.Date) (models.WorkoutKey, bool) {
	for _, it := range items {
		if it.Date == d && !it.IsRest {
			return *it.Workout, true
		}
	}
	return models.WorkoutKey{}, false
}
