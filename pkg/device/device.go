// Package device defines the output-device seams of the alarm engine.
// Real implementations (oto audio, LED indicator) and logging mocks share
// the same interfaces, so the engine never branches on mock vs real.
package device

import (
	"sync"

	"go.uber.org/zap"
)

// Sound plays alarm sounds.
type Sound interface {
	// Play starts playback of the named sound, looping until Stop when
	// loop is true. Replaces any playback already in progress.
	Play(name string, loop bool) error

	// Stop halts playback. Safe to call when nothing is playing.
	Stop()
}

// Indicator controls the visual alarm indicator.
type Indicator interface {
	SetIndicator(on bool)
}

// LogSound is a Sound that only logs. Used when no audio device is
// available and as the mock in tests.
type LogSound struct {
	logger *zap.Logger

	mu      sync.Mutex
	playing bool
	current string
}

// NewLogSound creates a logging Sound implementation
func NewLogSound(logger *zap.Logger) *LogSound {
	return &LogSound{logger: logger}
}

func (s *LogSound) Play(name string, loop bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = true
	s.current = name
	s.logger.Info("mock audio: play",
		zap.String("sound", name),
		zap.Bool("loop", loop),
	)
	return nil
}

func (s *LogSound) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		s.logger.Info("mock audio: stop", zap.String("sound", s.current))
	}
	s.playing = false
	s.current = ""
}

// Playing reports whether a sound is currently "playing".
func (s *LogSound) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// LogIndicator is an Indicator that only logs. The LED hardware driver
// lives outside this module and implements the same interface.
type LogIndicator struct {
	logger *zap.Logger

	mu sync.Mutex
	on bool
}

// NewLogIndicator creates a logging Indicator implementation
func NewLogIndicator(logger *zap.Logger) *LogIndicator {
	return &LogIndicator{logger: logger}
}

func (i *LogIndicator) SetIndicator(on bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if on != i.on {
		i.logger.Info("mock indicator", zap.Bool("on", on))
	}
	i.on = on
}

// On reports the current indicator state.
func (i *LogIndicator) On() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.on
}
