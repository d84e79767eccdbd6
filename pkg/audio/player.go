// Package audio plays alarm sounds through the ebitengine/oto context.
// Construction probes the audio device; callers fall back to the logging
// mock when no device is available, so the trigger engine only ever sees
// the device.Sound interface.
package audio

import (
	"bytes"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
)

// oto allows a single context per process
var (
	otoCtx     *oto.Context
	otoCtxOnce sync.Once
	otoCtxErr  error
)

const (
	ctxSampleRate = 44100
	ctxChannels   = 2
)

func initContext() (*oto.Context, error) {
	otoCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   ctxSampleRate,
			ChannelCount: ctxChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			otoCtxErr = err
			return
		}
		// Wait for the hardware audio device to come up.
		<-ready
		otoCtx = ctx
	})
	return otoCtx, otoCtxErr
}

// Player implements device.Sound on the oto audio context.
type Player struct {
	soundsDir string
	logger    *zap.Logger
	ctx       *oto.Context

	mu       sync.Mutex
	stopChan chan struct{}
	current  *oto.Player
}

// NewPlayer probes the audio device and returns a Player bound to the
// sounds directory. An error means no audio device is usable; the caller
// should substitute a mock.
func NewPlayer(soundsDir string, logger *zap.Logger) (*Player, error) {
	if err := EnsureSoundsDir(soundsDir); err != nil {
		return nil, err
	}
	ctx, err := initContext()
	if err != nil {
		return nil, models.Errorf(models.ErrInternal, "audio device unavailable: %v", err)
	}
	logger.Info("audio device initialized", zap.String("sounds_dir", soundsDir))
	return &Player{soundsDir: soundsDir, logger: logger, ctx: ctx}, nil
}

// Play starts playback of the named sound, replacing any playback in
// progress. With loop set, the sound repeats until Stop.
func (p *Player) Play(name string, loop bool) error {
	p.Stop()

	path, err := FindSound(p.soundsDir, name)
	if err != nil {
		return err
	}
	wavData, err := os.ReadFile(path)
	if err != nil {
		return models.Errorf(models.ErrInternal, "reading sound %s: %v", path, err)
	}
	format, pcm, err := parseWAV(wavData)
	if err != nil {
		return models.Errorf(models.ErrInvalid, "parsing sound %s: %v", path, err)
	}
	if format.SampleRate != ctxSampleRate || format.Channels != ctxChannels {
		// The context format is fixed for the process lifetime; a
		// mismatched file still plays, just at the wrong pitch.
		p.logger.Warn("sound format differs from audio context",
			zap.String("sound", name),
			zap.Int("sample_rate", format.SampleRate),
			zap.Int("channels", format.Channels),
		)
	}

	p.mu.Lock()
	stopChan := make(chan struct{})
	p.stopChan = stopChan
	p.mu.Unlock()

	p.logger.Info("playing sound", zap.String("sound", name), zap.Bool("loop", loop))
	go p.playLoop(pcm, loop, stopChan)
	return nil
}

func (p *Player) playLoop(pcm []byte, loop bool, stopChan chan struct{}) {
	for {
		player := p.ctx.NewPlayer(bytes.NewReader(pcm))
		p.mu.Lock()
		p.current = player
		p.mu.Unlock()

		player.Play()
		for player.IsPlaying() {
			select {
			case <-stopChan:
				player.Pause()
				_ = player.Close()
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
		if err := player.Close(); err != nil {
			p.logger.Warn("failed to close audio player", zap.Error(err))
		}

		if !loop {
			return
		}
		select {
		case <-stopChan:
			return
		default:
		}
	}
}

// Stop halts playback. Safe to call when nothing is playing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopChan != nil {
		close(p.stopChan)
		p.stopChan = nil
	}
	if p.current != nil {
		p.current.Pause()
		p.current = nil
	}
}

// Preview plays the named sound once, not looped.
func (p *Player) Preview(name string) error {
	return p.Play(name, false)
}
