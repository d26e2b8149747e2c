package scheduler

import (
	"time"

	"github.com/ivlev/geotour/internal/clock"
)

// Simulator drives a Queue in virtual time. Frames land on a fixed grid and
// timers fire at their exact due time, so a tour run is reproducible.
type Simulator struct {
	Clock *clock.FakeClock
	Queue *Queue
	Frame time.Duration

	origin    time.Time
	nextFrame time.Time
}

// NewSimulator starts virtual time at start with the given frame interval.
func NewSimulator(start time.Time, frame time.Duration) *Simulator {
	if frame <= 0 {
		frame = time.Second / 60
	}
	fc := clock.NewFakeClock(start)
	return &Simulator{
		Clock:     fc,
		Queue:     NewQueue(fc),
		Frame:     frame,
		origin:    start,
		nextFrame: start.Add(frame),
	}
}

// Advance moves virtual time forward by d, firing every timer and frame that
// falls inside the window.
func (s *Simulator) Advance(d time.Duration) {
	end := s.Clock.Now().Add(d)
	for {
		next := s.nextFrame
		isFrame := true
		if due, ok := s.Queue.NextDue(); ok && due.Before(next) {
			next = due
			isFrame = false
		}
		if next.After(end) {
			s.Clock.Set(end)
			s.Queue.PumpTimers()
			return
		}

		s.Clock.Set(next)
		if isFrame {
			s.Queue.Pump()
			s.nextFrame = next.Add(s.Frame)
		} else {
			s.Queue.PumpTimers()
		}
	}
}

// AdvanceTo moves virtual time to origin+at. Times in the past are ignored.
func (s *Simulator) AdvanceTo(at time.Duration) {
	if d := at - s.Elapsed(); d > 0 {
		s.Advance(d)
	}
}

// Elapsed returns the virtual time since the simulator started.
func (s *Simulator) Elapsed() time.Duration {
	return clock.Since(s.Clock, s.origin)
}
