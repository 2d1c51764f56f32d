package schedule

import (
	"time"

	"github.com/meltforce/threehundred/internal/models"
)

// Plan is the mutable schedule configuration: a start date and the custom rest dates.
// A nil StartDate means scheduling has not started.
type Plan struct {
	StartDate *models.Date
	Rest      RestCalendar
}

// SetStartDate replaces the start date.
func (p *Plan) SetStartDate(d models.Date) {
	p.StartDate = &d
}

// ResetStart moves the start date to the day after now.
func (p *Plan) ResetStart(now time.Time) models.Date {
	d := models.DateOf(now).AddDays(1)
	p.SetStartDate(d)
	return d
}

// AddRestDate marks d as a rest day. It is idempotent and reports whether the plan changed.
func (p *Plan) AddRestDate(d models.Date) bool {
	return p.Rest.Add(d)
}

// RemoveRestDate is the inverse of AddRestDate; removing a non-member is a no-op.
func (p *Plan) RemoveRestDate(d models.Date) bool {
	return p.Rest.Remove(d)
}

// PushWorkoutFrom defers the workout scheduled on d, and every workout after it, by one
// slot. It is the same operation as AddRestDate.
func (p *Plan) PushWorkoutFrom(d models.Date) bool {
	return p.AddRestDate(d)
}

// Project lays keys out from the plan's start date. It returns nil before scheduling has
// started.
func (p *Plan) Project(keys []models.WorkoutKey) []Item {
	if p.StartDate == nil {
		return nil
	}
	return Project(keys, *p.StartDate, &p.Rest, SkipWeekday)
}
