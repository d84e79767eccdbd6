package store

import "github.com/timmidee/BarelySmartAlarmClock/pkg/models"

// Backend is the durable side of the ScheduleStore: load-all/save-all of
// both record collections. Implementations are expected to be fast local
// storage (an embedded database or files); a slow backend would stall
// callers, which the core does not attempt to mitigate.
type Backend interface {
	LoadAlarms() (map[string]*models.Alarm, error)
	SaveAlarms(alarms map[string]*models.Alarm) error
	LoadOverrides() (map[string]*models.Override, error)
	SaveOverrides(overrides map[string]*models.Override) error
	Close() error
}

// Memory is a Backend that keeps everything in process memory.
// Used in tests and as the fallback when no data directory is writable.
type Memory struct {
	alarms    map[string]*models.Alarm
	overrides map[string]*models.Override
}

// NewMemory creates an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{
		alarms:    make(map[string]*models.Alarm),
		overrides: make(map[string]*models.Override),
	}
}

func (m *Memory) LoadAlarms() (map[string]*models.Alarm, error) {
	alarms := make(map[string]*models.Alarm, len(m.alarms))
	for id, a := range m.alarms {
		alarms[id] = a.Clone()
	}
	return alarms, nil
}

func (m *Memory) SaveAlarms(alarms map[string]*models.Alarm) error {
	m.alarms = make(map[string]*models.Alarm, len(alarms))
	for id, a := range alarms {
		m.alarms[id] = a.Clone()
	}
	return nil
}

func (m *Memory) LoadOverrides() (map[string]*models.Override, error) {
	overrides := make(map[string]*models.Override, len(m.overrides))
	for id, o := range m.overrides {
		overrides[id] = o.Clone()
	}
	return overrides, nil
}

func (m *Memory) SaveOverrides(overrides map[string]*models.Override) error {
	m.overrides = make(map[string]*models.Override, len(overrides))
	for id, o := range overrides {
		m.overrides[id] = o.Clone()
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
