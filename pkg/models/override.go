package models

import "time"

// DateLayout is the wire format for override target dates.
// ISO dates compare lexicographically, which the cleanup and
// resolver logic relies on.
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for alarm and override times.
const ClockLayout = "15:04"

// Override represents a one-time exception to an alarm's occurrence
// on a specific date. It references the alarm without owning it; deleting
// the alarm deletes its overrides.
type Override struct {
	ID            string  `json:"id"`
	AlarmID       string  `json:"alarm_id"`
	TargetDate    string  `json:"target_date"`              // "YYYY-MM-DD"
	OverrideTime  *string `json:"override_time,omitempty"`  // nil = keep alarm time
	OverrideSound *string `json:"override_sound,omitempty"` // nil = keep alarm sound
	Skip          bool    `json:"skip"`                     // Suppress this occurrence entirely
}

// ValidateDate checks that s is a valid "YYYY-MM-DD" date string.
func ValidateDate(s string) error {
	if len(s) != 10 {
		return Errorf(ErrInvalid, "date must be in YYYY-MM-DD format, got %q", s)
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return Errorf(ErrInvalid, "date must be in YYYY-MM-DD format, got %q", s)
	}
	return nil
}

// Clone returns a deep copy of the override
func (o *Override) Clone() *Override {
	dup := *o
	if o.OverrideTime != nil {
		t := *o.OverrideTime
		dup.OverrideTime = &t
	}
	if o.OverrideSound != nil {
		s := *o.OverrideSound
		dup.OverrideSound = &s
	}
	return &dup
}

// OverrideUpdate holds the fields of a partial override update.
// Nil pointers leave the corresponding field unchanged; an empty
// string clears the field back to "use the alarm's value".
type OverrideUpdate struct {
	OverrideTime  *string
	OverrideSound *string
	Skip          *bool
}
