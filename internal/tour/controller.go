package tour

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/geotour/internal/animator"
	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/config"
	"github.com/ivlev/geotour/internal/navigation"
	"github.com/ivlev/geotour/internal/reveal"
	"github.com/ivlev/geotour/internal/scheduler"
	"github.com/ivlev/geotour/internal/waypoint"
)

// Controller sequences the tour. See the package doc for threading rules.
type Controller struct {
	store    *waypoint.Store
	camera   Camera
	clock    *clock.PhaseClock
	reveal   *reveal.Sequencer
	animator *animator.CameraAnimator
	nav      *navigation.Scheduler

	timing    config.Timing
	proximity float64
	log       zerolog.Logger
	onChange  func(StateChange)

	state     State
	stage     stage
	suspended bool
	started   bool // Play ran parked detection since load or Reset
	preview   bool // the tour-completion return to waypoint 0 is in progress
	next      int  // destination once the navigate delay elapses
	rotation  animator.Rotation
	gen       uint64
	lastErr   error

	announced bool
	last      StateChange
}

// New wires a controller. c supplies wall time for the PhaseClock and the
// animator; s supplies timers and animation frames.
func New(store *waypoint.Store, camera Camera, overlay reveal.Overlay, c clock.Clock, s scheduler.Scheduler, opts Options) *Controller {
	log := opts.Logger.With().Str("component", "tour").Logger()
	pc := clock.NewPhaseClock(c)

	return &Controller{
		store:    store,
		camera:   camera,
		clock:    pc,
		reveal: reveal.New(overlay, pc, s, reveal.Durations{
			FadeIn:  opts.Timing.FadeIn,
			Hold:    opts.Timing.Hold,
			FadeOut: opts.Timing.FadeOut,
		}, opts.Logger),
		animator:  animator.New(c, s),
		nav:       navigation.New(pc, s, opts.Logger),
		timing:    opts.Timing,
		proximity: opts.ProximityDegrees,
		log:       log,
		onChange:  opts.OnStateChanged,
	}
}

// State returns a copy of the tour state.
func (c *Controller) State() State {
	st := c.state
	st.Phase = c.clock.Kind()
	st.Suspended = c.suspended
	return st
}

// Clock exposes the live PhaseClock for diagnostics.
func (c *Controller) Clock() *clock.PhaseClock { return c.clock }

// Err returns the driver failure that last sent the controller back to idle.
func (c *Controller) Err() error { return c.lastErr }

// Store returns the waypoints being toured.
func (c *Controller) Store() *waypoint.Store { return c.store }

// Play starts or resumes autoplay.
//
// The first Play since load or Reset starts at the waypoint the camera is
// parked at, or flies to waypoint 0 first. Later calls continue the suspended
// phase with its remaining time.
func (c *Controller) Play() error {
	if c.state.IsPlaying {
		return nil
	}
	c.state.IsPlaying = true
	c.lastErr = nil
	defer c.emit()

	if !c.started {
		c.started = true
		c.cancelAll()
		if i, ok := c.store.Nearest(c.camera.Center(), c.proximity); ok {
			c.log.Info().Int("index", i).Msg("camera parked at waypoint, starting there")
			c.state.CurrentIndex = i
			c.state.TargetIndex = i
			return c.startReveal(i)
		}
		return c.flyTo(0)
	}

	switch {
	case c.suspended:
		return c.resume()
	case c.stage == stageIdle:
		return c.startReveal(c.state.CurrentIndex)
	}
	// a manual flight or the completion preview is running; it continues
	// into the autoplay cycle when it finishes
	return nil
}

// Pause freezes the live phase. Calling it while paused changes nothing.
func (c *Controller) Pause() error {
	if !c.state.IsPlaying {
		return nil
	}
	c.state.IsPlaying = false
	defer c.emit()

	switch c.stage {
	case stageRevealing:
		if err := c.reveal.Pause(); err != nil {
			return c.fail(err)
		}
	case stageRotating:
		// freeze first so the pinned bearing matches the frozen progress
		c.clock.Pause()
		c.animator.Cancel()
		p := c.clock.Progress(c.rotation.Duration)
		if err := c.camera.SetBearing(c.rotation.BearingAt(p)); err != nil {
			return c.fail(err)
		}
	case stageFlying:
		c.nav.Pause()
		if s, ok := c.camera.(Stopper); ok {
			s.Stop()
		}
	case stageNavigating, stageReturning:
		c.nav.Pause()
	default:
		return nil
	}

	c.suspended = true
	c.log.Info().Str("phase", c.clock.Kind().String()).Dur("elapsed", c.clock.Elapsed()).Msg("paused")
	return nil
}

// Toggle plays when paused and pauses when playing.
func (c *Controller) Toggle() error {
	if c.state.IsPlaying {
		return c.Pause()
	}
	return c.Play()
}

// Next flies straight to the following waypoint and ends autoplay.
func (c *Controller) Next() error {
	return c.navigate(navigation.Step(c.base(), c.store.Len(), navigation.Forward).Next)
}

// Previous flies straight to the preceding waypoint; from waypoint 0 that is
// the last one.
func (c *Controller) Previous() error {
	return c.navigate(navigation.Step(c.base(), c.store.Len(), navigation.Backward).Next)
}

// JumpTo flies straight to waypoint i. Out-of-range indices go to waypoint 0.
func (c *Controller) JumpTo(i int) error {
	return c.navigate(c.nav.Clamp(i, c.store.Len()))
}

// DirectNavigate is JumpTo for commands arriving from an embedding page.
func (c *Controller) DirectNavigate(i int) error {
	return c.JumpTo(i)
}

// Reset cancels everything and returns the tour and the camera to waypoint 0.
func (c *Controller) Reset() error {
	c.cancelAll()
	c.started = false
	c.lastErr = nil
	c.state = State{}
	defer c.emit()

	wp, _ := c.store.At(0)
	if err := c.camera.FlyTo(wp.Pose(), c.timing.Flight, animator.EaseInOutCubic); err != nil {
		err = fmt.Errorf("%w: %w", ErrDriverFailure, err)
		c.log.Error().Err(err).Msg("reset flight failed")
		c.lastErr = err
		return err
	}
	c.log.Info().Msg("tour reset")
	return nil
}

// base is the index manual navigation steps from: the destination while a
// transition is in flight, the current waypoint otherwise.
func (c *Controller) base() int {
	if c.state.IsTransitioning {
		return c.state.TargetIndex
	}
	return c.state.CurrentIndex
}

func (c *Controller) navigate(target int) error {
	c.started = true
	c.cancelAll()
	c.state.IsPlaying = false
	c.lastErr = nil
	defer c.emit()

	c.log.Info().Int("from", c.state.CurrentIndex).Int("target", target).Msg("manual navigation")
	return c.flyTo(target)
}

func (c *Controller) flyTo(index int) error {
	wp, _ := c.store.At(index)
	c.stage = stageFlying
	c.state.TargetIndex = index
	c.state.IsTransitioning = true

	c.log.Debug().Int("target", index).Str("waypoint", wp.ID).Dur("duration", c.timing.Flight).Msg("flying")
	if err := c.camera.FlyTo(wp.Pose(), c.timing.Flight, animator.EaseInOutCubic); err != nil {
		return c.fail(err)
	}
	c.schedule(clock.PhaseFlying, c.timing.Flight, evFlightDone)
	return nil
}

func (c *Controller) arrive() {
	c.state.CurrentIndex = c.state.TargetIndex
	c.state.IsTransitioning = false
	wp, _ := c.store.At(c.state.CurrentIndex)
	c.log.Info().Int("index", c.state.CurrentIndex).Str("waypoint", wp.ID).Str("title", wp.Title).Msg("arrived")

	if c.state.IsPlaying || c.preview {
		c.startReveal(c.state.CurrentIndex)
		return
	}
	c.idle()
}

func (c *Controller) startReveal(index int) error {
	wp, _ := c.store.At(index)
	c.stage = stageRevealing
	if err := c.reveal.Start(wp.Image, c.callback(evRevealDone)); err != nil {
		return c.fail(err)
	}
	return nil
}

func (c *Controller) revealDone() {
	if c.preview {
		c.preview = false
		if !c.state.IsPlaying {
			c.log.Info().Msg("tour complete")
			c.idle()
			return
		}
	}
	c.startRotation()
}

func (c *Controller) startRotation() {
	c.stage = stageRotating
	c.rotation = animator.Rotation{
		StartBearing: c.camera.Bearing(),
		TotalDelta:   c.timing.RotationDelta,
		Duration:     c.timing.Rotation,
	}
	c.clock.Start(clock.PhaseRotating)
	c.animator.Run(c.rotation, c.camera.SetBearing, c.callback(evRotationDone))
}

func (c *Controller) rotationDone() {
	c.clock.Reset()
	d := navigation.AfterRotation(c.state.CurrentIndex, c.store.Len(), c.state.IsPlaying)
	c.log.Debug().Str("rule", d.Rule.String()).Str("outcome", d.Outcome.String()).Int("next", d.Next).Msg("rotation complete")

	if d.Outcome == navigation.Complete {
		c.state.IsPlaying = false
		c.stage = stageReturning
		c.schedule(clock.PhaseReturning, c.timing.ReturnDelay, evReturnElapsed)
		return
	}

	c.next = d.Next
	c.stage = stageNavigating
	c.schedule(clock.PhaseNavigating, c.timing.NavigateDelay, evDelayElapsed)
}

func (c *Controller) schedule(kind clock.PhaseKind, d time.Duration, e event) {
	done := c.callback(e)
	c.nav.Schedule(kind, d, func() { done(nil) })
}

func (c *Controller) idle() {
	c.stage = stageIdle
	c.clock.Reset()
}

// cancelAll tears down every live timer, frame and clock and invalidates
// callbacks already in flight.
func (c *Controller) cancelAll() {
	c.gen++
	c.reveal.Cancel()
	c.animator.Cancel()
	c.nav.Cancel()
	c.clock.Reset()
	c.stage = stageIdle
	c.suspended = false
	c.preview = false
	c.state.IsTransitioning = false
}

// resume continues the suspended phase with its remaining time only.
func (c *Controller) resume() error {
	c.suspended = false
	c.log.Info().Str("phase", c.clock.Kind().String()).Dur("elapsed", c.clock.Elapsed()).Msg("resumed")

	switch c.stage {
	case stageRevealing:
		if err := c.reveal.Resume(); err != nil {
			return c.fail(err)
		}
	case stageRotating:
		p := c.clock.Progress(c.rotation.Duration)
		remaining := c.clock.Remaining(c.rotation.Duration)
		c.clock.Resume()
		r := c.rotation.Resume(c.camera.Bearing(), p, remaining)
		c.animator.Run(r, c.camera.SetBearing, c.callback(evRotationDone))
	case stageFlying:
		wp, _ := c.store.At(c.state.TargetIndex)
		if err := c.camera.FlyTo(wp.Pose(), c.clock.Remaining(c.timing.Flight), animator.EaseOutCubic); err != nil {
			return c.fail(err)
		}
		c.nav.Resume()
	case stageNavigating, stageReturning:
		c.nav.Resume()
	}
	return nil
}

// fail aborts the live phase after a driver error and drops back to idle.
func (c *Controller) fail(err error) error {
	err = fmt.Errorf("%w: %w", ErrDriverFailure, err)
	c.log.Error().Err(err).Str("stage", c.stage.String()).Int("index", c.state.CurrentIndex).Msg("phase aborted")
	c.cancelAll()
	c.state.IsPlaying = false
	c.lastErr = err
	c.emit()
	return err
}

func (c *Controller) emit() {
	sc := StateChange{IsPlaying: c.state.IsPlaying, CurrentIndex: c.state.CurrentIndex}
	if c.announced && sc == c.last {
		return
	}
	c.announced = true
	c.last = sc
	if c.onChange != nil {
		c.onChange(sc)
	}
}
