// Package clock abstracts the time source so the trigger engine can run
// against the system clock in production and a manually stepped clock in
// tests. A hardware RTC driver would implement the same interface.
package clock

import (
	"sync"
	"time"

	"github.com/timmidee/BarelySmartAlarmClock/pkg/models"
)

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
	SetTime(t time.Time) error
}

// System reads the operating system clock.
type System struct{}

// NewSystem creates a system-clock instance
func NewSystem() *System {
	return &System{}
}

func (*System) Now() time.Time {
	return time.Now()
}

// SetTime is rejected: adjusting the OS clock needs privileges this
// process doesn't have. An RTC-backed implementation would write the
// hardware registers here instead.
func (*System) SetTime(time.Time) error {
	return models.Errorf(models.ErrInvalid, "system clock cannot be set")
}

// Manual is a settable clock for tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a manual clock starting at t
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

func (c *Manual) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Manual) SetTime(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
	return nil
}

// Advance moves the clock forward by d.
func (c *Manual) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
