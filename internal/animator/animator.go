package animator

import (
	"time"

	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/scheduler"
)

// Rotation is one linear bearing sweep.
type Rotation struct {
	StartBearing float64
	TotalDelta   float64 // Degrees; negative turns counter-clockwise
	Duration     time.Duration
}

// BearingAt returns the bearing at progress p.
func (r Rotation) BearingAt(p float64) float64 {
	return r.StartBearing + r.TotalDelta*Linear(p)
}

// Resume returns the rotation that finishes r from bearing, given that
// progress p of r has already been played and remaining time is left.
func (r Rotation) Resume(bearing, p float64, remaining time.Duration) Rotation {
	return Rotation{
		StartBearing: bearing,
		TotalDelta:   r.TotalDelta * (1 - Clamp01(p)),
		Duration:     remaining,
	}
}

// CameraAnimator drives one bearing rotation at a time, ticking once per
// animation frame. It keeps no state between runs.
type CameraAnimator struct {
	clock     clock.Clock
	scheduler scheduler.Scheduler

	gen     uint64
	handle  scheduler.Handle
	running bool
}

func New(c clock.Clock, s scheduler.Scheduler) *CameraAnimator {
	return &CameraAnimator{clock: c, scheduler: s}
}

// Run starts r, cancelling any rotation in progress. onTick receives the
// bearing for every frame; an error from it stops the rotation and is handed
// to onComplete. onComplete is called exactly once unless the run is
// cancelled first.
func (a *CameraAnimator) Run(r Rotation, onTick func(bearing float64) error, onComplete func(err error)) {
	a.Cancel()

	a.gen++
	gen := a.gen
	startedAt := a.clock.Now()
	a.running = true

	var tick func()
	tick = func() {
		if gen != a.gen {
			return
		}

		p := 1.0
		if r.Duration > 0 {
			p = Clamp01(float64(clock.Since(a.clock, startedAt)) / float64(r.Duration))
		}

		if err := onTick(r.BearingAt(p)); err != nil {
			a.stop()
			onComplete(err)
			return
		}
		if p >= 1 {
			a.stop()
			onComplete(nil)
			return
		}
		a.handle = a.scheduler.RequestFrame(tick)
	}
	a.handle = a.scheduler.RequestFrame(tick)
}

// Cancel stops the current rotation without calling onComplete. Safe when idle.
func (a *CameraAnimator) Cancel() {
	if a.handle != nil {
		a.handle.Cancel()
	}
	a.stop()
}

// Running reports whether a rotation is in progress.
func (a *CameraAnimator) Running() bool {
	return a.running
}

func (a *CameraAnimator) stop() {
	a.gen++
	a.handle = nil
	a.running = false
}
