package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/schedule"
)

// 2024-01-01 is a Monday.
var monday = time.Date(2024, 1, 1, 7, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

func noOverrides(alarmID, targetDate string) *models.Override { return nil }

func lookupOf(overrides ...*models.Override) schedule.OverrideLookup {
	return func(alarmID, targetDate string) *models.Override {
		for _, o := range overrides {
			if o.AlarmID == alarmID && o.TargetDate == targetDate {
				return o
			}
		}
		return nil
	}
}

func TestEffective(t *testing.T) {
	a := &models.Alarm{ID: "a1", Time: "07:00", Sound: "chime.wav"}

	t.Run("no override", func(t *testing.T) {
		clock, sound, skip, overrideID := schedule.Effective(a, nil)
		assert.Equal(t, "07:00", clock)
		assert.Equal(t, "chime.wav", sound)
		assert.False(t, skip)
		assert.Empty(t, overrideID)
	})

	t.Run("override time and sound", func(t *testing.T) {
		ov := &models.Override{
			ID:            "o1",
			AlarmID:       "a1",
			OverrideTime:  strptr("07:30"),
			OverrideSound: strptr("gong.wav"),
		}
		clock, sound, skip, overrideID := schedule.Effective(a, ov)
		assert.Equal(t, "07:30", clock)
		assert.Equal(t, "gong.wav", sound)
		assert.False(t, skip)
		assert.Equal(t, "o1", overrideID)
	})

	t.Run("empty override fields treated as absent", func(t *testing.T) {
		ov := &models.Override{ID: "o1", AlarmID: "a1", OverrideTime: strptr(""), OverrideSound: strptr("")}
		clock, sound, _, _ := schedule.Effective(a, ov)
		assert.Equal(t, "07:00", clock)
		assert.Equal(t, "chime.wav", sound)
	})

	t.Run("skip override keeps base time", func(t *testing.T) {
		ov := &models.Override{ID: "o1", AlarmID: "a1", Skip: true}
		clock, _, skip, _ := schedule.Effective(a, ov)
		assert.Equal(t, "07:00", clock)
		assert.True(t, skip)
	})
}

func TestMatchesNow(t *testing.T) {
	a := &models.Alarm{ID: "a1", Time: "07:00", Days: []string{"monday"}, Sound: "chime.wav", Enabled: true}

	tests := []struct {
		name  string
		alarm *models.Alarm
		ov    *models.Override
		now   time.Time
		want  bool
	}{
		{name: "exact minute", alarm: a, now: monday, want: true},
		{name: "within the same minute", alarm: a, now: monday.Add(59 * time.Second), want: true},
		{name: "next minute", alarm: a, now: monday.Add(time.Minute), want: false},
		{name: "wrong day", alarm: a, now: monday.AddDate(0, 0, 1), want: false},
		{
			name:  "disabled alarm never matches",
			alarm: &models.Alarm{ID: "a1", Time: "07:00", Days: []string{"monday"}, Enabled: false},
			now:   monday,
			want:  false,
		},
		{
			name:  "skip override suppresses match",
			alarm: a,
			ov:    &models.Override{ID: "o1", AlarmID: "a1", TargetDate: "2024-01-01", Skip: true},
			now:   monday,
			want:  false,
		},
		{
			name:  "override time moves the match",
			alarm: a,
			ov:    &models.Override{ID: "o1", AlarmID: "a1", TargetDate: "2024-01-01", OverrideTime: strptr("07:30")},
			now:   monday.Add(30 * time.Minute),
			want:  true,
		},
		{
			name:  "override time unmatches the base time",
			alarm: a,
			ov:    &models.Override{ID: "o1", AlarmID: "a1", TargetDate: "2024-01-01", OverrideTime: strptr("07:30")},
			now:   monday,
			want:  false,
		},
		{
			name:  "short day name matches",
			alarm: &models.Alarm{ID: "a1", Time: "07:00", Days: []string{"mon"}, Enabled: true},
			now:   monday,
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.MatchesNow(tt.alarm, tt.ov, tt.now))
		})
	}
}

func TestNextBasic(t *testing.T) {
	a := &models.Alarm{ID: "a1", Time: "08:00", Days: []string{"monday"}, Sound: "chime.wav", Enabled: true, Label: "wake up"}

	next := schedule.Next([]*models.Alarm{a}, noOverrides, monday)
	require.NotNil(t, next)
	assert.Equal(t, "a1", next.AlarmID)
	assert.Equal(t, "08:00", next.Time)
	assert.Equal(t, "2024-01-01", next.TargetDate)
	assert.Equal(t, 60, next.MinutesUntil)
	assert.Equal(t, "wake up", next.Label)
	assert.False(t, next.HasOverride)
}

func TestNextSkipsDisabled(t *testing.T) {
	a := &models.Alarm{ID: "a1", Time: "08:00", Days: []string{"monday"}, Enabled: false}
	assert.Nil(t, schedule.Next([]*models.Alarm{a}, noOverrides, monday))
}

func TestNextAdvancesPastTodayInstance(t *testing.T) {
	// Alarm at 07:00 Mondays; it's Monday 08:00, so today's instance is
	// behind us. Next week's Monday carries an override to 07:30 which
	// must be picked up when the resolver advances.
	a := &models.Alarm{ID: "a1", Time: "07:00", Days: []string{"monday"}, Sound: "chime.wav", Enabled: true}
	ov := &models.Override{
		ID:           "o1",
		AlarmID:      "a1",
		TargetDate:   "2024-01-08",
		OverrideTime: strptr("07:30"),
	}

	now := monday.Add(time.Hour) // Monday 08:00
	next := schedule.Next([]*models.Alarm{a}, lookupOf(ov), now)
	require.NotNil(t, next)
	assert.Equal(t, "07:30", next.Time)
	assert.Equal(t, "07:00", next.OriginalTime)
	assert.Equal(t, "2024-01-08", next.TargetDate)
	assert.True(t, next.HasOverride)
	assert.Equal(t, "o1", next.OverrideID)
	// 6 days 23.5 hours ahead
	assert.Equal(t, 7*24*60-30, next.MinutesUntil)
}

func TestNextSameMinuteCountsAsPassed(t *testing.T) {
	a := &models.Alarm{ID: "a1", Time: "07:00", Days: []string{"monday"}, Enabled: true}
	next := schedule.Next([]*models.Alarm{a}, noOverrides, monday)
	require.NotNil(t, next)
	assert.Equal(t, "2024-01-08", next.TargetDate)
}

func TestNextSkipOverrideExcludesInstance(t *testing.T) {
	a := &models.Alarm{ID: "a1", Time: "08:00", Days: []string{"monday", "tuesday"}, Enabled: true}
	ov := &models.Override{ID: "o1", AlarmID: "a1", TargetDate: "2024-01-01", Skip: true}

	next := schedule.Next([]*models.Alarm{a}, lookupOf(ov), monday)
	require.NotNil(t, next)
	// Monday is skipped, Tuesday is the next candidate.
	assert.Equal(t, "2024-01-02", next.TargetDate)
}

func TestNextTieBreaksOnLowestID(t *testing.T) {
	a1 := &models.Alarm{ID: "a1", Time: "08:00", Days: []string{"monday"}, Enabled: true}
	a2 := &models.Alarm{ID: "a2", Time: "08:00", Days: []string{"monday"}, Enabled: true}

	// Callers pass alarms in ascending id order; the first candidate
	// seen wins the tie.
	next := schedule.Next([]*models.Alarm{a1, a2}, noOverrides, monday)
	require.NotNil(t, next)
	assert.Equal(t, "a1", next.AlarmID)
}

func TestNextIgnoresMalformedAlarm(t *testing.T) {
	bad := &models.Alarm{ID: "a1", Time: "garbage", Days: []string{"monday"}, Enabled: true}
	good := &models.Alarm{ID: "a2", Time: "08:00", Days: []string{"monday"}, Enabled: true}

	next := schedule.Next([]*models.Alarm{bad, good}, noOverrides, monday)
	require.NotNil(t, next)
	assert.Equal(t, "a2", next.AlarmID)
}

func TestNextNoAlarms(t *testing.T) {
	assert.Nil(t, schedule.Next(nil, noOverrides, monday))
}
