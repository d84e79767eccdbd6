package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/store"
)

func newTestStore(t *testing.T) *store.ScheduleStore {
	t.Helper()
	return store.Open(store.NewMemory(), zap.NewNop())
}

func TestAlarmRoundTrip(t *testing.T) {
	s := newTestStore(t)

	a := &models.Alarm{ID: "a1", Time: "07:00", Days: []string{"monday"}, Sound: "chime.wav", Enabled: true}
	require.NoError(t, s.PutAlarm(a))

	got := s.Alarm("a1")
	require.NotNil(t, got)
	assert.Equal(t, "07:00", got.Time)

	got.Time = "08:30"
	require.NoError(t, s.PutAlarm(got))
	assert.Equal(t, "08:30", s.Alarm("a1").Time)

	existed, err := s.DeleteAlarm("a1")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Nil(t, s.Alarm("a1"))

	existed, err = s.DeleteAlarm("a1")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestAlarmsSortedByID(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.PutAlarm(&models.Alarm{ID: id, Time: "07:00", Days: []string{"monday"}}))
	}

	alarms := s.Alarms()
	require.Len(t, alarms, 3)
	assert.Equal(t, "a", alarms[0].ID)
	assert.Equal(t, "b", alarms[1].ID)
	assert.Equal(t, "c", alarms[2].ID)
}

func TestOverrideFor(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutOverride(&models.Override{ID: "o1", AlarmID: "a1", TargetDate: "2024-01-01"}))
	require.NoError(t, s.PutOverride(&models.Override{ID: "o2", AlarmID: "a1", TargetDate: "2024-01-08"}))

	got := s.OverrideFor("a1", "2024-01-08")
	require.NotNil(t, got)
	assert.Equal(t, "o2", got.ID)

	assert.Nil(t, s.OverrideFor("a1", "2024-01-02"))
	assert.Nil(t, s.OverrideFor("a2", "2024-01-01"))
}

func TestDeleteAlarmCascadesOverrides(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutAlarm(&models.Alarm{ID: "a1", Time: "07:00", Days: []string{"monday"}}))
	require.NoError(t, s.PutAlarm(&models.Alarm{ID: "a2", Time: "08:00", Days: []string{"tuesday"}}))
	require.NoError(t, s.PutOverride(&models.Override{ID: "o1", AlarmID: "a1", TargetDate: "2024-01-01"}))
	require.NoError(t, s.PutOverride(&models.Override{ID: "o2", AlarmID: "a1", TargetDate: "2024-01-08"}))
	require.NoError(t, s.PutOverride(&models.Override{ID: "o3", AlarmID: "a2", TargetDate: "2024-01-02"}))

	existed, err := s.DeleteAlarm("a1")
	require.NoError(t, err)
	assert.True(t, existed)

	overrides := s.Overrides()
	require.Len(t, overrides, 1)
	assert.Equal(t, "o3", overrides[0].ID)
}

func TestCleanupExpired(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutOverride(&models.Override{ID: "old", AlarmID: "a1", TargetDate: "2023-12-25"}))
	require.NoError(t, s.PutOverride(&models.Override{ID: "yesterday", AlarmID: "a1", TargetDate: "2023-12-31"}))
	require.NoError(t, s.PutOverride(&models.Override{ID: "today", AlarmID: "a2", TargetDate: "2024-01-01"}))
	require.NoError(t, s.PutOverride(&models.Override{ID: "future", AlarmID: "a3", TargetDate: "2024-01-05"}))

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	deleted := s.CleanupExpired(now)

	assert.Equal(t, 2, deleted)
	assert.Nil(t, s.Override("old"))
	assert.Nil(t, s.Override("yesterday"))
	assert.NotNil(t, s.Override("today"))
	assert.NotNil(t, s.Override("future"))
}

func TestOpenSurvivesRestart(t *testing.T) {
	backend := store.NewMemory()

	s := store.Open(backend, zap.NewNop())
	require.NoError(t, s.PutAlarm(&models.Alarm{ID: "a1", Time: "07:00", Days: []string{"monday"}, Label: "wake"}))
	require.NoError(t, s.PutOverride(&models.Override{ID: "o1", AlarmID: "a1", TargetDate: "2024-01-01", Skip: true}))

	reopened := store.Open(backend, zap.NewNop())
	a := reopened.Alarm("a1")
	require.NotNil(t, a)
	assert.Equal(t, "wake", a.Label)
	o := reopened.Override("o1")
	require.NotNil(t, o)
	assert.True(t, o.Skip)
}
