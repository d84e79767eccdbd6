package audio

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
)

// The oto context consumes raw PCM, so only WAV files are playable.
const soundExt = ".wav"

// EnsureSoundsDir creates the sounds directory if it doesn't exist.
func EnsureSoundsDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// ListSounds returns the names of the available alarm sounds, sorted.
func ListSounds(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var sounds []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), soundExt) {
			sounds = append(sounds, entry.Name())
		}
	}
	sort.Strings(sounds)
	return sounds, nil
}

// FindSound resolves a sound name to a file path. It tries an exact
// match, then the name with the extension appended, then falls back to
// the first available sound so a renamed file doesn't silence an alarm.
func FindSound(dir, name string) (string, error) {
	if name != "" {
		exact := filepath.Join(dir, name)
		if _, err := os.Stat(exact); err == nil {
			return exact, nil
		}
		withExt := filepath.Join(dir, name+soundExt)
		if _, err := os.Stat(withExt); err == nil {
			return withExt, nil
		}
	}

	sounds, err := ListSounds(dir)
	if err != nil || len(sounds) == 0 {
		return "", models.Errorf(models.ErrNotFound, "no sound found for %q in %s", name, dir)
	}
	return filepath.Join(dir, sounds[0]), nil
}
