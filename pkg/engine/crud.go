package engine

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
)

// CRUD boundary. Records handed out are copies: callers can't mutate the
// store behind the engine's back, and the engine can't race them.
// Validation happens before any store mutation; a persistence failure is
// logged and the in-memory state stays authoritative.

// CreateAlarm validates and stores a new alarm definition.
func (e *Engine) CreateAlarm(clock string, days []string, sound string, enabled bool, label string) (*models.Alarm, error) {
	if err := models.ValidateClock(clock); err != nil {
		return nil, err
	}
	normalized, err := models.NormalizeDays(days)
	if err != nil {
		return nil, err
	}

	a := &models.Alarm{
		ID:      uuid.New().String(),
		Time:    clock,
		Days:    normalized,
		Sound:   sound,
		Enabled: enabled,
		Label:   label,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.persist(e.store.PutAlarm(a))
	e.logger.Info("created alarm",
		zap.String("alarm_id", a.ID),
		zap.String("time", a.Time),
		zap.Strings("days", a.Days),
	)
	return a.Clone(), nil
}

// Alarm returns the alarm with the given id.
func (e *Engine) Alarm(id string) (*models.Alarm, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a := e.store.Alarm(id)
	if a == nil {
		return nil, models.Errorf(models.ErrNotFound, "alarm %s not found", id)
	}
	return a.Clone(), nil
}

// Alarms returns all alarms in ascending id order.
func (e *Engine) Alarms() []*models.Alarm {
	e.mu.Lock()
	defer e.mu.Unlock()
	alarms := e.store.Alarms()
	out := make([]*models.Alarm, len(alarms))
	for i, a := range alarms {
		out[i] = a.Clone()
	}
	return out
}

// UpdateAlarm applies a partial update to an alarm.
func (e *Engine) UpdateAlarm(id string, upd models.AlarmUpdate) (*models.Alarm, error) {
	if upd.Time != nil {
		if err := models.ValidateClock(*upd.Time); err != nil {
			return nil, err
		}
	}
	var normalized []string
	if upd.Days != nil {
		var err error
		if normalized, err = models.NormalizeDays(upd.Days); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	a := e.store.Alarm(id)
	if a == nil {
		return nil, models.Errorf(models.ErrNotFound, "alarm %s not found", id)
	}

	if upd.Time != nil {
		a.Time = *upd.Time
	}
	if normalized != nil {
		a.Days = normalized
	}
	if upd.Sound != nil {
		a.Sound = *upd.Sound
	}
	if upd.Enabled != nil {
		a.Enabled = *upd.Enabled
	}
	if upd.Label != nil {
		a.Label = *upd.Label
	}

	e.persist(e.store.PutAlarm(a))
	e.logger.Info("updated alarm", zap.String("alarm_id", id))
	return a.Clone(), nil
}

// DeleteAlarm removes an alarm and all overrides referencing it.
func (e *Engine) DeleteAlarm(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	existed, err := e.store.DeleteAlarm(id)
	e.persist(err)
	if existed {
		e.logger.Info("deleted alarm", zap.String("alarm_id", id))
	}
	return existed
}

// ToggleAlarm flips an alarm's enabled state.
func (e *Engine) ToggleAlarm(id string) (*models.Alarm, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a := e.store.Alarm(id)
	if a == nil {
		return nil, models.Errorf(models.ErrNotFound, "alarm %s not found", id)
	}
	a.Enabled = !a.Enabled
	e.persist(e.store.PutAlarm(a))
	e.logger.Info("toggled alarm",
		zap.String("alarm_id", id),
		zap.Bool("enabled", a.Enabled),
	)
	return a.Clone(), nil
}

// CreateOverride stores a one-time exception for an alarm on a date.
// Rejected when the alarm doesn't exist or an override for the same
// (alarm, date) pair already does.
func (e *Engine) CreateOverride(alarmID, targetDate string, overrideTime, overrideSound *string, skip bool) (*models.Override, error) {
	if err := models.ValidateDate(targetDate); err != nil {
		return nil, err
	}
	overrideTime = normalizeOptional(overrideTime)
	overrideSound = normalizeOptional(overrideSound)
	if overrideTime != nil {
		if err := models.ValidateClock(*overrideTime); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.store.Alarm(alarmID) == nil {
		return nil, models.Errorf(models.ErrNotFound, "alarm %s not found", alarmID)
	}
	if existing := e.store.OverrideFor(alarmID, targetDate); existing != nil {
		return nil, models.Errorf(models.ErrConflict,
			"override already exists for alarm %s on %s", alarmID, targetDate)
	}

	o := &models.Override{
		ID:            uuid.New().String(),
		AlarmID:       alarmID,
		TargetDate:    targetDate,
		OverrideTime:  overrideTime,
		OverrideSound: overrideSound,
		Skip:          skip,
	}
	e.persist(e.store.PutOverride(o))
	e.logger.Info("created override",
		zap.String("override_id", o.ID),
		zap.String("alarm_id", alarmID),
		zap.String("target_date", targetDate),
		zap.Bool("skip", skip),
	)
	return o.Clone(), nil
}

// Override returns the override with the given id.
func (e *Engine) Override(id string) (*models.Override, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o := e.store.Override(id)
	if o == nil {
		return nil, models.Errorf(models.ErrNotFound, "override %s not found", id)
	}
	return o.Clone(), nil
}

// OverrideFor returns the override for an alarm on a date, or nil.
func (e *Engine) OverrideFor(alarmID, targetDate string) *models.Override {
	e.mu.Lock()
	defer e.mu.Unlock()
	o := e.store.OverrideFor(alarmID, targetDate)
	if o == nil {
		return nil
	}
	return o.Clone()
}

// Overrides returns all overrides in ascending id order.
func (e *Engine) Overrides() []*models.Override {
	e.mu.Lock()
	defer e.mu.Unlock()
	overrides := e.store.Overrides()
	out := make([]*models.Override, len(overrides))
	for i, o := range overrides {
		out[i] = o.Clone()
	}
	return out
}

// UpdateOverride applies a partial update to an override. An empty
// string clears the field back to the alarm's value.
func (e *Engine) UpdateOverride(id string, upd models.OverrideUpdate) (*models.Override, error) {
	if t := normalizeOptional(upd.OverrideTime); t != nil {
		if err := models.ValidateClock(*t); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	o := e.store.Override(id)
	if o == nil {
		return nil, models.Errorf(models.ErrNotFound, "override %s not found", id)
	}

	if upd.OverrideTime != nil {
		o.OverrideTime = normalizeOptional(upd.OverrideTime)
	}
	if upd.OverrideSound != nil {
		o.OverrideSound = normalizeOptional(upd.OverrideSound)
	}
	if upd.Skip != nil {
		o.Skip = *upd.Skip
	}

	e.persist(e.store.PutOverride(o))
	e.logger.Info("updated override", zap.String("override_id", id))
	return o.Clone(), nil
}

// DeleteOverride removes an override, reporting whether it existed.
func (e *Engine) DeleteOverride(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	existed, err := e.store.DeleteOverride(id)
	e.persist(err)
	if existed {
		e.logger.Info("deleted override", zap.String("override_id", id))
	}
	return existed
}

// normalizeOptional maps empty strings to nil: an override field that is
// present but empty means "absent". Intentional compatibility with
// records written by earlier versions.
func normalizeOptional(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

// persist logs a failed store write. The in-memory state remains
// authoritative; the caller's operation still succeeds.
func (e *Engine) persist(err error) {
	if err != nil {
		e.logger.Error("persistence failure, continuing in-memory", zap.Error(err))
	}
}
