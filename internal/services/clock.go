package services

import (
	"fmt"
	"strings"
	"time"

	"canchas_backend/internal/models"
)

// Clock returns the current instant. Services read "now" only through it.
type Clock func() time.Time

// SystemClock reports wall-clock time in loc, the zone that decides what "today" is.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// today returns the calendar date of now together with its time of day.
func (c Clock) today() (time.Time, models.TimeOfDay) {
	now := c()
	return models.DateOf(now), models.TimeOfDayOf(now)
}

var dateLayouts = []string{models.DateLayout, time.RFC3339, "2006-01-02T15:04:05"}

// ParseDate reads a calendar date, dropping any time component.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q, please use YYYY-MM-DD", ErrValidation, s)
}
