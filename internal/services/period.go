package services

import (
	"time"

	"canchas_backend/internal/models"
)

// DayBounds is the single-day window of ref.
func DayBounds(ref time.Time) (time.Time, time.Time) {
	d := models.DateOf(ref)
	return d, d
}

// WeekBounds returns the Monday..Sunday window containing ref, both ends inclusive.
// A Sunday reference closes its week, so the window starts six days earlier.
func WeekBounds(ref time.Time) (time.Time, time.Time) {
	d := models.DateOf(ref)
	var start time.Time
	if d.Weekday() == time.Sunday {
		start = d.AddDate(0, 0, -6)
	} else {
		start = d.AddDate(0, 0, -int(d.Weekday())+1)
	}
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of ref's calendar month.
func MonthBounds(ref time.Time) (time.Time, time.Time) {
	d := models.DateOf(ref)
	start := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// YearBounds returns January 1st and December 31st of year.
func YearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}
