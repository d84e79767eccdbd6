// Package store owns the alarm and override records and their
// persistence. The ScheduleStore is a write-through cache over a Backend:
// every mutation updates the in-memory maps and immediately saves the
// affected collection.
//
// The ScheduleStore is NOT safe for concurrent use on its own. The
// trigger engine guards every access with its single mutex, so a poll
// tick never observes a half-written record from a concurrent caller.
package store

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
)

// ScheduleStore maps alarm ids to alarm definitions and override ids to
// override records, persisting through a Backend on every write.
type ScheduleStore struct {
	backend Backend
	logger  *zap.Logger

	alarms    map[string]*models.Alarm
	overrides map[string]*models.Override
}

// Open loads all records from the backend. A failed load is logged and
// the store starts empty; the in-memory state stays authoritative from
// then on.
func Open(backend Backend, logger *zap.Logger) *ScheduleStore {
	s := &ScheduleStore{
		backend:   backend,
		logger:    logger,
		alarms:    make(map[string]*models.Alarm),
		overrides: make(map[string]*models.Override),
	}

	if alarms, err := backend.LoadAlarms(); err != nil {
		logger.Error("failed to load alarms, starting empty", zap.Error(err))
	} else if alarms != nil {
		s.alarms = alarms
	}
	logger.Info("loaded alarms", zap.Int("count", len(s.alarms)))

	if overrides, err := backend.LoadOverrides(); err != nil {
		logger.Error("failed to load overrides, starting empty", zap.Error(err))
	} else if overrides != nil {
		s.overrides = overrides
	}
	logger.Info("loaded overrides", zap.Int("count", len(s.overrides)))

	return s
}

// Close closes the backend.
func (s *ScheduleStore) Close() error {
	return s.backend.Close()
}

// Alarms returns all alarms in ascending id order. The trigger engine
// relies on this ordering for its deterministic first-match tie-break.
func (s *ScheduleStore) Alarms() []*models.Alarm {
	alarms := make([]*models.Alarm, 0, len(s.alarms))
	for _, a := range s.alarms {
		alarms = append(alarms, a)
	}
	sort.Slice(alarms, func(i, j int) bool { return alarms[i].ID < alarms[j].ID })
	return alarms
}

// Alarm returns the alarm with the given id, or nil.
func (s *ScheduleStore) Alarm(id string) *models.Alarm {
	return s.alarms[id]
}

// PutAlarm inserts or replaces an alarm and persists the collection.
func (s *ScheduleStore) PutAlarm(a *models.Alarm) error {
	s.alarms[a.ID] = a
	return s.saveAlarms()
}

// DeleteAlarm removes an alarm and cascades to every override that
// references it, so no dangling references remain at rest. Reports
// whether the alarm existed.
func (s *ScheduleStore) DeleteAlarm(id string) (bool, error) {
	if _, ok := s.alarms[id]; !ok {
		return false, nil
	}
	delete(s.alarms, id)
	err := s.saveAlarms()

	if n, cascadeErr := s.CascadeDeleteForAlarm(id); cascadeErr != nil && err == nil {
		err = cascadeErr
	} else if n > 0 {
		s.logger.Info("cascade-deleted overrides",
			zap.String("alarm_id", id),
			zap.Int("count", n),
		)
	}
	return true, err
}

// Overrides returns all overrides in ascending id order.
func (s *ScheduleStore) Overrides() []*models.Override {
	overrides := make([]*models.Override, 0, len(s.overrides))
	for _, o := range s.overrides {
		overrides = append(overrides, o)
	}
	sort.Slice(overrides, func(i, j int) bool { return overrides[i].ID < overrides[j].ID })
	return overrides
}

// Override returns the override with the given id, or nil.
func (s *ScheduleStore) Override(id string) *models.Override {
	return s.overrides[id]
}

// OverrideFor returns the override for an alarm on a date, or nil.
// At most one override exists per (alarm, date) pair.
func (s *ScheduleStore) OverrideFor(alarmID, targetDate string) *models.Override {
	for _, o := range s.overrides {
		if o.AlarmID == alarmID && o.TargetDate == targetDate {
			return o
		}
	}
	return nil
}

// PutOverride inserts or replaces an override and persists the collection.
func (s *ScheduleStore) PutOverride(o *models.Override) error {
	s.overrides[o.ID] = o
	return s.saveOverrides()
}

// DeleteOverride removes an override, reporting whether it existed.
func (s *ScheduleStore) DeleteOverride(id string) (bool, error) {
	if _, ok := s.overrides[id]; !ok {
		return false, nil
	}
	delete(s.overrides, id)
	return true, s.saveOverrides()
}

// CascadeDeleteForAlarm removes every override referencing the alarm and
// returns how many were deleted.
func (s *ScheduleStore) CascadeDeleteForAlarm(alarmID string) (int, error) {
	var deleted int
	for id, o := range s.overrides {
		if o.AlarmID == alarmID {
			delete(s.overrides, id)
			deleted++
		}
	}
	if deleted == 0 {
		return 0, nil
	}
	return deleted, s.saveOverrides()
}

// CleanupExpired purges overrides whose target date is on or before
// yesterday relative to now. Today's overrides are retained; past ones
// were either consumed on dismissal already or are dead weight. Returns
// how many were deleted.
func (s *ScheduleStore) CleanupExpired(now time.Time) int {
	yesterday := now.AddDate(0, 0, -1).Format(models.DateLayout)

	var expired []string
	for id, o := range s.overrides {
		if o.TargetDate <= yesterday {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(s.overrides, id)
		s.logger.Info("cleaned up expired override", zap.String("override_id", id))
	}

	if len(expired) > 0 {
		if err := s.saveOverrides(); err != nil {
			s.logger.Error("failed to save overrides after cleanup", zap.Error(err))
		}
	}
	return len(expired)
}

func (s *ScheduleStore) saveAlarms() error {
	if err := s.backend.SaveAlarms(s.alarms); err != nil {
		return models.Errorf(models.ErrInternal, "persisting alarms: %v", err)
	}
	return nil
}

func (s *ScheduleStore) saveOverrides() error {
	if err := s.backend.SaveOverrides(s.overrides); err != nil {
		return models.Errorf(models.ErrInternal, "persisting overrides: %v", err)
	}
	return nil
}
