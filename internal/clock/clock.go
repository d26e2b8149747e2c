// Package clock holds the time sources of a tour and the PhaseClock that
// times its pausable phases.
package clock

import (
	"sync"
	"time"
)

// Clock is the time source shared by the phase clock, the camera animator and
// the stage drivers. One tour uses exactly one.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock. Used by `geotour play` and tourview.
type RealClock struct{}

func (*RealClock) Now() time.Time {
	return time.Now()
}

// FakeClock only moves when told to. The simulator owns one per run and sets
// it to each timer and frame due time; the loop goroutine of a test may read
// it while another goroutine moves it.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set jumps to t. Moving backwards is allowed so tests can model a wall
// clock step.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Since returns the time elapsed on c since t, or zero when c reads earlier
// than t.
func Since(c Clock, t time.Time) time.Duration {
	d := c.Now().Sub(t)
	if d < 0 {
		return 0
	}
	return d
}
