package schedule

import "github.com/meltforce/threehundred/internal/models"

// RestCalendar is the set of user-chosen rest dates. Insertion order is kept so the
// persisted list round-trips unchanged. The zero value is an empty calendar.
type RestCalendar struct {
	dates []models.Date
	index map[models.Date]struct{}
}

// NewRestCalendar builds a calendar from a list, dropping duplicates.
func NewRestCalendar(dates ...models.Date) *RestCalendar {
	rc := &RestCalendar{}
	for _, d := range dates {
		rc.Add(d)
	}
	return rc
}

// Add inserts d and reports whether it was absent.
func (rc *RestCalendar) Add(d models.Date) bool {
	if rc.Contains(d) {
		return false
	}
	if rc.index == nil {
		rc.index = make(map[models.Date]struct{})
	}
	rc.index[d] = struct{}{}
	rc.dates = append(rc.dates, d)
	return true
}

// Remove deletes d and reports whether it was present.
func (rc *RestCalendar) Remove(d models.Date) bool {
	if !rc.Contains(d) {
		return false
	}
	delete(rc.index, d)
	for i, x := range rc.dates {
		if x == d {
			rc.dates = append(rc.dates[:i:i], rc.dates[i+1:]...)
			break
		}
	}
	return true
}

// Contains is safe on a nil calendar.
func (rc *RestCalendar) Contains(d models.Date) bool {
	if rc == nil {
		return false
	}
	_, ok := rc.index[d]
	return ok
}

// Dates returns the rest dates in insertion order.
func (rc *RestCalendar) Dates() []models.Date {
	if rc == nil {
		return nil
	}
	return append([]models.Date(nil), rc.dates...)
}

func (rc *RestCalendar) Len() int {
	if rc == nil {
		return 0
	}
	return len(rc.dates)
}
