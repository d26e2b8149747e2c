// Package navigation decides which waypoint comes next and owns the
// pause-aware timers between waypoints.
package navigation

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/scheduler"
)

// Scheduler runs one pending delay at a time (inter-waypoint delay, return
// delay, flight wait) on the shared PhaseClock.
type Scheduler struct {
	clock     *clock.PhaseClock
	scheduler scheduler.Scheduler
	log       zerolog.Logger

	kind    clock.PhaseKind
	total   time.Duration
	fire    func()
	gen     uint64
	handle  scheduler.Handle
	pending bool
	paused  bool
}

func New(pc *clock.PhaseClock, s scheduler.Scheduler, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		clock:     pc,
		scheduler: s,
		log:       log.With().Str("component", "navigation").Logger(),
	}
}

// Clamp returns index when it addresses one of n waypoints and 0 otherwise.
// An out-of-range index is recoverable and only logged.
func (s *Scheduler) Clamp(index, n int) int {
	if index >= 0 && index < n {
		return index
	}
	err := fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, index, n)
	s.log.Warn().Err(err).Int("index", index).Msg("clamping to waypoint 0")
	return 0
}

// Schedule starts timing kind and calls fire after d, replacing any pending delay.
func (s *Scheduler) Schedule(kind clock.PhaseKind, d time.Duration, fire func()) {
	s.Cancel()

	s.kind = kind
	s.total = d
	s.fire = fire
	s.pending = true
	s.clock.Start(kind)
	s.log.Debug().Str("phase", kind.String()).Dur("delay", d).Msg("delay scheduled")
	s.arm(d)
}

// Pause freezes the clock, then cancels the timer. Idempotent.
func (s *Scheduler) Pause() {
	if !s.pending || s.paused {
		return
	}
	s.clock.Pause()
	s.paused = true
	s.disarm()
	s.log.Debug().Str("phase", s.kind.String()).Dur("remaining", s.clock.Remaining(s.total)).Msg("delay paused")
}

// Resume re-arms the paused delay with its remaining time.
func (s *Scheduler) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.clock.Resume()
	remaining := s.clock.Remaining(s.total)
	s.log.Debug().Str("phase", s.kind.String()).Dur("remaining", remaining).Msg("delay resumed")
	s.arm(remaining)
}

// Cancel drops the pending delay without firing it. Safe when idle.
func (s *Scheduler) Cancel() {
	s.disarm()
	s.pending = false
	s.paused = false
	s.fire = nil
}

// Pending reports whether a delay is scheduled, paused or not.
func (s *Scheduler) Pending() bool { return s.pending }

func (s *Scheduler) Paused() bool { return s.paused }

// Kind returns the phase of the pending delay.
func (s *Scheduler) Kind() clock.PhaseKind {
	if !s.pending {
		return clock.PhaseIdle
	}
	return s.kind
}

func (s *Scheduler) arm(d time.Duration) {
	s.gen++
	gen := s.gen
	s.handle = s.scheduler.AfterFunc(d, func() {
		if gen != s.gen {
			s.log.Debug().Str("phase", s.kind.String()).Msg("stale delay dropped")
			return
		}
		fire := s.fire
		s.handle = nil
		s.pending = false
		s.fire = nil
		s.clock.Reset()
		if fire != nil {
			fire()
		}
	})
}

func (s *Scheduler) disarm() {
	s.gen++
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
}
