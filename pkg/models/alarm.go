package models

import (
	"strings"
	"time"
)

// Alarm represents a recurring alarm definition
type Alarm struct {
	ID      string   `json:"id"`      // Opaque identifier, generated once
	Time    string   `json:"time"`    // 24-hour "HH:MM"
	Days    []string `json:"days"`    // Weekday names, stored lowercase
	Sound   string   `json:"sound"`   // Sound file name
	Enabled bool     `json:"enabled"` // Disabled alarms never fire
	Label   string   `json:"label"`   // Display label
}

// dayIndex maps weekday names (full and three-letter) to an index with Monday=0
var dayIndex = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
	"mon": 0, "tue": 1, "wed": 2, "thu": 3, "fri": 4, "sat": 5, "sun": 6,
}

// DayIndex returns the Monday=0 index for a weekday name.
// Accepts full and three-letter forms, case-insensitive.
func DayIndex(name string) (int, bool) {
	idx, ok := dayIndex[strings.ToLower(name)]
	return idx, ok
}

// WeekdayIndex converts a time's weekday to the Monday=0 index used by Days.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// NormalizeDays lowercases day names and rejects unknown ones.
func NormalizeDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return nil, Errorf(ErrInvalid, "at least one day is required")
	}
	normalized := make([]string, 0, len(days))
	for _, d := range days {
		name := strings.ToLower(strings.TrimSpace(d))
		if _, ok := dayIndex[name]; !ok {
			return nil, Errorf(ErrInvalid, "unknown day name: %q", d)
		}
		normalized = append(normalized, name)
	}
	return normalized, nil
}

// ValidateClock checks that s is a valid 24-hour "HH:MM" string.
// The resolver compares these strings lexicographically, so the
// fixed-width zero-padded form is required.
func ValidateClock(s string) error {
	if len(s) != 5 {
		return Errorf(ErrInvalid, "time must be in HH:MM format, got %q", s)
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return Errorf(ErrInvalid, "time must be in HH:MM format, got %q", s)
	}
	return nil
}

// OnDay reports whether the alarm is configured for the given Monday=0 day index.
func (a *Alarm) OnDay(idx int) bool {
	for _, d := range a.Days {
		if di, ok := DayIndex(d); ok && di == idx {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the alarm
func (a *Alarm) Clone() *Alarm {
	dup := *a
	dup.Days = append([]string(nil), a.Days...)
	return &dup
}

// AlarmUpdate holds the fields of a partial alarm update.
// Nil pointers leave the corresponding field unchanged.
type AlarmUpdate struct {
	Time    *string
	Days    []string
	Sound   *string
	Enabled *bool
	Label   *string
}
