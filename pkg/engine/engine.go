// Package engine drives the alarm clock core: a background poll loop
// that evaluates the schedule against the clock and rings, snoozes, and
// times out alarms, plus the CRUD boundary external callers (HTTP
// handlers, buttons) use. One mutex guards the schedule store and the
// ringing state for the duration of every logical operation, so a poll
// tick never races a caller.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/clock"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/device"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/schedule"
	"github.com/timmidee/BarelySmartAlarmClock/pkg/store"
)

// Options configures the engine's domain timers.
type Options struct {
	SnoozeTime    time.Duration // How long a snooze silences a ringing alarm
	RingTimeout   time.Duration // Ringing longer than this is force-dismissed
	CheckInterval time.Duration // Poll cadence
}

const (
	defaultSnoozeTime    = 9 * time.Minute
	defaultRingTimeout   = 5 * time.Minute
	defaultCheckInterval = 30 * time.Second
)

func (o *Options) applyDefaults() {
	if o.SnoozeTime <= 0 {
		o.SnoozeTime = defaultSnoozeTime
	}
	if o.RingTimeout <= 0 {
		o.RingTimeout = defaultRingTimeout
	}
	if o.CheckInterval <= 0 {
		o.CheckInterval = defaultCheckInterval
	}
}

// Engine owns the schedule store, the clock, and the ringing state.
type Engine struct {
	clock     clock.Clock
	sound     device.Sound
	indicator device.Indicator
	logger    *zap.Logger
	opts      Options

	mu    sync.Mutex
	store *store.ScheduleStore

	// Ringing state. Never persisted; every process start begins Idle.
	ringing           bool
	ringingAlarmID    string
	ringingOverrideID string
	ringingSince      time.Time
	snoozeUntil       time.Time

	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates an engine around an already-opened store. Stale overrides
// are purged once here, before the first poll.
func New(st *store.ScheduleStore, clk clock.Clock, sound device.Sound, indicator device.Indicator, logger *zap.Logger, opts Options) *Engine {
	opts.applyDefaults()
	e := &Engine{
		clock:     clk,
		sound:     sound,
		indicator: indicator,
		logger:    logger,
		opts:      opts,
		store:     st,
	}
	st.CleanupExpired(clk.Now())
	return e
}

// Start begins the background poll loop. Calling Start on a running
// engine is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	ctx, e.cancel = context.WithCancel(ctx)
	e.done = make(chan struct{})
	e.running = true
	go e.run(ctx)
}

// Stop halts the poll loop and force-dismisses any ringing alarm so the
// sound and indicator devices are released deterministically.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	cancel()
	<-done
	e.Dismiss()
	e.logger.Info("engine stopped")
}

func (e *Engine) run(ctx context.Context) {
	defer close(e.done)
	e.logger.Info("engine started", zap.Duration("check_interval", e.opts.CheckInterval))

	ticker := time.NewTicker(e.opts.CheckInterval)
	defer ticker.Stop()

	e.safeTick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.safeTick()
		}
	}
}

// safeTick runs one poll cycle, containing any panic so a single bad
// record can't kill the loop. A failed tick is at worst a missed
// trigger; the next interval evaluates again.
func (e *Engine) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("poll cycle panicked", zap.Any("panic", r))
		}
	}()
	e.tick()
}

// tick is one poll cycle of the ringing state machine.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	// Snooze timer elapsed: re-ring the same alarm/override pair that
	// was captured at the original trigger.
	if !e.snoozeUntil.IsZero() {
		if !now.Before(e.snoozeUntil) {
			e.snoozeUntil = time.Time{}
			e.trigger(e.ringingAlarmID, e.ringingOverrideID, now)
		}
		return
	}

	// Ringing too long with no acknowledgement: force dismiss so an
	// unattended alarm doesn't ring forever.
	if e.ringing && !e.ringingSince.IsZero() && now.Sub(e.ringingSince) >= e.opts.RingTimeout {
		e.logger.Info("alarm timed out, auto-dismissing",
			zap.String("alarm_id", e.ringingAlarmID),
			zap.Duration("timeout", e.opts.RingTimeout),
		)
		e.dismissLocked()
		return
	}

	// Already ringing: the minute-granularity match would re-fire
	// within the same minute, so do nothing.
	if e.ringing {
		return
	}

	today := now.Format(models.DateLayout)
	for _, a := range e.store.Alarms() {
		ov := e.store.OverrideFor(a.ID, today)
		if schedule.MatchesNow(a, ov, now) {
			var overrideID string
			if ov != nil {
				overrideID = ov.ID
			}
			// One alarm per tick; ascending id order makes the
			// winner deterministic when several match.
			e.trigger(a.ID, overrideID, now)
			return
		}
	}
}

// trigger transitions to Ringing. Caller holds the lock.
func (e *Engine) trigger(alarmID, overrideID string, now time.Time) {
	a := e.store.Alarm(alarmID)
	if a == nil {
		// Deleted while snoozed; nothing left to ring.
		return
	}
	var ov *models.Override
	if overrideID != "" {
		ov = e.store.Override(overrideID)
	}
	_, sound, _, _ := schedule.Effective(a, ov)

	e.ringing = true
	e.ringingAlarmID = alarmID
	e.ringingOverrideID = overrideID
	e.ringingSince = now

	e.indicator.SetIndicator(true)
	if err := e.sound.Play(sound, true); err != nil {
		e.logger.Error("failed to play alarm sound",
			zap.String("sound", sound),
			zap.Error(err),
		)
	}
	e.logger.Info("alarm triggered",
		zap.String("alarm_id", alarmID),
		zap.String("label", a.Label),
		zap.String("sound", sound),
	)
}

// IsRinging reports whether an alarm is currently ringing.
func (e *Engine) IsRinging() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ringing
}

// Snooze silences the ringing alarm and arms the snooze timer. No-op
// when nothing is ringing. The captured alarm/override ids survive so
// the same instance re-rings when the timer elapses.
func (e *Engine) Snooze() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ringing {
		return
	}
	e.snoozeUntil = e.clock.Now().Add(e.opts.SnoozeTime)
	e.ringing = false
	e.sound.Stop()
	e.indicator.SetIndicator(false)
	e.logger.Info("alarm snoozed",
		zap.String("alarm_id", e.ringingAlarmID),
		zap.Time("until", e.snoozeUntil),
	)
}

// Dismiss stops the ringing alarm and consumes the override it rang
// with, if any. No-op when nothing is ringing.
func (e *Engine) Dismiss() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dismissLocked()
}

// dismissLocked clears all ringing state. Caller holds the lock.
// A one-time override is consumed by being rung and dismissed: deleting
// it here reverts later weeks to the base schedule. Skip overrides never
// ring, so they are never consumed this way.
func (e *Engine) dismissLocked() {
	if !e.ringing {
		return
	}

	if e.ringingOverrideID != "" {
		if _, err := e.store.DeleteOverride(e.ringingOverrideID); err != nil {
			e.logger.Error("failed to delete consumed override",
				zap.String("override_id", e.ringingOverrideID),
				zap.Error(err),
			)
		}
	}

	alarmID := e.ringingAlarmID
	e.ringing = false
	e.ringingAlarmID = ""
	e.ringingOverrideID = ""
	e.ringingSince = time.Time{}
	e.snoozeUntil = time.Time{}
	e.sound.Stop()
	e.indicator.SetIndicator(false)
	e.logger.Info("alarm dismissed", zap.String("alarm_id", alarmID))
}

// NextAlarm returns the next occurrence across all alarms, or nil when
// no enabled alarm has one.
func (e *Engine) NextAlarm() *models.Occurrence {
	e.mu.Lock()
	defer e.mu.Unlock()
	return schedule.Next(e.store.Alarms(), e.store.OverrideFor, e.clock.Now())
}

// Status is the snapshot a transport layer serves to clients.
type Status struct {
	Time           time.Time          `json:"time"`
	Ringing        bool               `json:"ringing"`
	RingingAlarmID string             `json:"ringing_alarm_id,omitempty"`
	NextAlarm      *models.Occurrence `json:"next_alarm,omitempty"`
}

// Status returns the current engine state in one consistent snapshot.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	return Status{
		Time:           now,
		Ringing:        e.ringing,
		RingingAlarmID: e.ringingAlarmID,
		NextAlarm:      schedule.Next(e.store.Alarms(), e.store.OverrideFor, now),
	}
}
