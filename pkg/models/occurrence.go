package models

// Occurrence describes a single resolved alarm instance: the effective
// time and sound for one alarm on one date, after overrides are applied.
type Occurrence struct {
	AlarmID      string `json:"id"`
	Time         string `json:"time"`          // Effective "HH:MM"
	OriginalTime string `json:"original_time"` // The alarm's base time
	Day          string `json:"day"`           // Weekday name as configured on the alarm
	Label        string `json:"label"`
	Sound        string `json:"sound"` // Effective sound
	MinutesUntil int    `json:"minutes_until"`
	TargetDate   string `json:"target_date"` // "YYYY-MM-DD"
	HasOverride  bool   `json:"has_override"`
	OverrideID   string `json:"override_id,omitempty"`
}
