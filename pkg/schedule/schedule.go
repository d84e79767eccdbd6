// Package schedule resolves alarm occurrences: the effective time and
// sound for an alarm on a date once overrides are applied, whether an
// alarm matches the current minute, and the next occurrence across all
// alarms. Everything here is a pure function over snapshots handed in by
// the caller; the trigger engine owns locking and side effects.
package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
)

// OverrideLookup returns the override for an alarm on a date, or nil.
type OverrideLookup func(alarmID, targetDate string) *models.Override

// Effective returns the time, sound, and skip flag that apply to alarm a
// once ov (which may be nil) is taken into account, plus the override id.
// An override field that is nil or empty leaves the alarm's value in
// place; empty-string-means-absent is intentional, matching the persisted
// records of earlier versions.
func Effective(a *models.Alarm, ov *models.Override) (clock, sound string, skip bool, overrideID string) {
	clock, sound = a.Time, a.Sound
	if ov == nil {
		return clock, sound, false, ""
	}
	if ov.OverrideTime != nil && *ov.OverrideTime != "" {
		clock = *ov.OverrideTime
	}
	if ov.OverrideSound != nil && *ov.OverrideSound != "" {
		sound = *ov.OverrideSound
	}
	return clock, sound, ov.Skip, ov.ID
}

// MatchesNow reports whether alarm a should trigger at instant now, given
// today's override ov (which may be nil). The comparison is at minute
// granularity: an alarm matches for exactly one poll window per minute.
func MatchesNow(a *models.Alarm, ov *models.Override, now time.Time) bool {
	if !a.Enabled {
		return false
	}
	if !a.OnDay(models.WeekdayIndex(now)) {
		return false
	}
	clock, _, skip, _ := Effective(a, ov)
	if skip {
		return false
	}
	return clock == now.Format(models.ClockLayout)
}

// Next computes the soonest occurrence across all alarms relative to now.
// Alarms must be passed in ascending id order: ties on minutes-until are
// broken by keeping the first candidate seen, which makes the lowest id
// win deterministically. Returns nil when no enabled alarm has a valid
// occurrence.
func Next(alarms []*models.Alarm, lookup OverrideLookup, now time.Time) *models.Occurrence {
	currentDay := models.WeekdayIndex(now)
	currentClock := now.Format(models.ClockLayout)
	nowMinutes := now.Hour()*60 + now.Minute()

	var best *models.Occurrence
	for _, a := range alarms {
		if !a.Enabled {
			continue
		}
		for _, dayName := range a.Days {
			dayIdx, ok := models.DayIndex(dayName)
			if !ok {
				continue
			}

			daysUntil := (dayIdx - currentDay + 7) % 7
			targetDate := now.AddDate(0, 0, daysUntil).Format(models.DateLayout)
			ov := lookup(a.ID, targetDate)
			clock, sound, skip, overrideID := Effective(a, ov)

			// Today's instance may already be behind us; advance a full
			// week and re-resolve, since a different override can apply
			// to the new date.
			if daysUntil == 0 && clock <= currentClock {
				daysUntil = 7
				targetDate = now.AddDate(0, 0, daysUntil).Format(models.DateLayout)
				ov = lookup(a.ID, targetDate)
				clock, sound, skip, overrideID = Effective(a, ov)
			}

			if skip {
				continue
			}

			hour, minute, err := splitClock(clock)
			if err != nil {
				// A malformed record must not stop the other alarms
				// from being considered.
				continue
			}

			minutesUntil := daysUntil*24*60 + hour*60 + minute - nowMinutes
			if minutesUntil < 0 {
				continue
			}
			if best == nil || minutesUntil < best.MinutesUntil {
				best = &models.Occurrence{
					AlarmID:      a.ID,
					Time:         clock,
					OriginalTime: a.Time,
					Day:          dayName,
					Label:        a.Label,
					Sound:        sound,
					MinutesUntil: minutesUntil,
					TargetDate:   targetDate,
					HasOverride:  ov != nil,
					OverrideID:   overrideID,
				}
			}
		}
	}
	return best
}

func splitClock(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, models.Errorf(models.ErrInvalid, "malformed time %q", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil {
		return 0, 0, models.Errorf(models.ErrInvalid, "malformed time %q", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil {
		return 0, 0, models.Errorf(models.ErrInvalid, "malformed time %q", s)
	}
	return hour, minute, nil
}
