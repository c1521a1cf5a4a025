package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is the time slot of a reservation, stored as the offset from midnight.
// Slots are compared by exact equality; "10:00" and "10:01" are different slots.
type TimeOfDay time.Duration

var timeOfDayLayouts = []string{"15:04", "15:04:05", "15:04:05.999999"}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS" (one-digit hours allowed).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDayOf(t), nil
		}
	}
	return 0, fmt.Errorf("cannot parse %q as a time of day", s)
}

// TimeOfDayOf drops the date part of t, keeping second precision.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second)
}

// NewTimeOfDay builds a slot from hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (t TimeOfDay) parts() (h, m, s int) {
	d := time.Duration(t)
	h = int(d / time.Hour)
	m = int(d % time.Hour / time.Minute)
	s = int(d % time.Minute / time.Second)
	return
}

// String renders HH:MM.
func (t TimeOfDay) String() string {
	h, m, _ := t.parts()
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Clock renders HH:MM:SS, the form stored in the database.
func (t TimeOfDay) Clock() string {
	h, m, s := t.parts()
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Value implements driver.Valuer.
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.Clock(), nil
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	case string:
		parsed, err := ParseTimeOfDay(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case []byte:
		return t.Scan(string(v))
	case nil:
		*t = 0
		return nil
	}
	return fmt.Errorf("cannot scan %T into TimeOfDay", src)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
