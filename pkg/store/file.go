package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
)

const (
	alarmsFile    = "alarms.json"
	overridesFile = "overrides.json"
)

// File is a Backend storing each collection as a JSON file in a
// directory, the same on-disk shape earlier versions of the clock used.
type File struct {
	dir string
}

// NewFile creates a file backend rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

func (f *File) LoadAlarms() (map[string]*models.Alarm, error) {
	alarms := make(map[string]*models.Alarm)
	if err := f.load(alarmsFile, &alarms); err != nil {
		return nil, err
	}
	return alarms, nil
}

func (f *File) SaveAlarms(alarms map[string]*models.Alarm) error {
	return f.save(alarmsFile, alarms)
}

func (f *File) LoadOverrides() (map[string]*models.Override, error) {
	overrides := make(map[string]*models.Override)
	if err := f.load(overridesFile, &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (f *File) SaveOverrides(overrides map[string]*models.Override) error {
	return f.save(overridesFile, overrides)
}

func (f *File) Close() error {
	return nil
}

// load decodes the named file into v. A missing file is not an error:
// the collection simply starts empty.
func (f *File) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (f *File) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(f.dir, name), data, 0644)
}
