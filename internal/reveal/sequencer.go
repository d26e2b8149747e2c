package reveal

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/scheduler"
)

// Sequencer drives one waypoint's image through fadeIn -> hold -> fadeOut -> done.
type Sequencer struct {
	overlay   Overlay
	clock     *clock.PhaseClock
	scheduler scheduler.Scheduler
	durations Durations
	log       zerolog.Logger

	state  State
	image  string
	paused bool
	gen    uint64
	handle scheduler.Handle
	onDone func(error)
}

func New(overlay Overlay, pc *clock.PhaseClock, s scheduler.Scheduler, d Durations, log zerolog.Logger) *Sequencer {
	return &Sequencer{
		overlay:   overlay,
		clock:     pc,
		scheduler: s,
		durations: d,
		log:       log.With().Str("component", "reveal").Logger(),
	}
}

// Start shows image and begins the fade-in. A sequence that is running or
// done is discarded and restarted. onDone fires once the overlay is hidden
// after the fade-out, or with the error that aborted the sequence.
func (s *Sequencer) Start(image string, onDone func(error)) error {
	s.stop()
	s.image = image
	s.onDone = onDone

	if err := s.overlay.Show(image); err != nil {
		s.state = StateIdle
		return fmt.Errorf("show %q: %w", image, err)
	}
	return s.enter(StateFadeIn)
}

// Pause freezes the clock, cancels the pending state boundary and pins the
// overlay at its current opacity. Calling it again is a no-op.
func (s *Sequencer) Pause() error {
	if !s.state.Active() || s.paused {
		return nil
	}

	s.clock.Pause()
	s.paused = true
	s.gen++
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}

	opacity := s.Opacity()
	s.log.Debug().Str("state", s.state.String()).Dur("elapsed", s.clock.Elapsed()).Float64("opacity", opacity).Msg("reveal paused")
	return s.overlay.SetOpacity(opacity, 0)
}

// Resume re-enters the paused state with its remaining time.
func (s *Sequencer) Resume() error {
	if !s.state.Active() || !s.paused {
		return nil
	}

	s.paused = false
	s.clock.Resume()
	remaining := s.clock.Remaining(s.durations.of(s.state))
	s.log.Debug().Str("state", s.state.String()).Dur("remaining", remaining).Msg("reveal resumed")

	var err error
	switch s.state {
	case StateFadeIn:
		err = s.overlay.SetOpacity(1, remaining)
	case StateFadeOut:
		err = s.overlay.SetOpacity(0, remaining)
	}
	if err != nil {
		s.stop()
		s.state = StateIdle
		return err
	}
	s.arm(remaining)
	return nil
}

// Cancel abandons the sequence and hides the overlay without a fade-out.
// onDone is not called.
func (s *Sequencer) Cancel() {
	if s.state == StateIdle {
		return
	}
	wasVisible := s.state.Active()
	s.stop()
	s.state = StateIdle
	if wasVisible {
		if err := s.overlay.Hide(); err != nil {
			s.log.Warn().Err(err).Msg("hide on cancel failed")
		}
	}
}

func (s *Sequencer) State() State { return s.state }

func (s *Sequencer) Paused() bool { return s.paused }

func (s *Sequencer) Image() string { return s.image }

// Opacity returns the overlay opacity implied by the current state and clock.
func (s *Sequencer) Opacity() float64 {
	switch s.state {
	case StateFadeIn:
		return s.clock.Progress(s.durations.FadeIn)
	case StateHold:
		return 1
	case StateFadeOut:
		return 1 - s.clock.Progress(s.durations.FadeOut)
	}
	return 0
}

func (s *Sequencer) enter(state State) error {
	s.state = state
	s.clock.Start(state.phase())
	d := s.durations.of(state)
	s.log.Debug().Str("state", state.String()).Str("image", s.image).Dur("duration", d).Msg("reveal state")

	var err error
	switch state {
	case StateFadeIn:
		err = s.overlay.SetOpacity(1, d)
	case StateFadeOut:
		err = s.overlay.SetOpacity(0, d)
	}
	if err != nil {
		s.stop()
		s.state = StateIdle
		return err
	}
	s.arm(d)
	return nil
}

func (s *Sequencer) arm(d time.Duration) {
	s.gen++
	gen := s.gen
	s.handle = s.scheduler.AfterFunc(d, func() { s.elapse(gen) })
}

func (s *Sequencer) elapse(gen uint64) {
	if gen != s.gen {
		s.log.Debug().Str("state", s.state.String()).Msg("stale reveal timer dropped")
		return
	}
	s.handle = nil

	var err error
	switch s.state {
	case StateFadeIn:
		err = s.enter(StateHold)
	case StateHold:
		err = s.enter(StateFadeOut)
	case StateFadeOut:
		s.state = StateDone
		s.clock.Reset()
		err = s.overlay.Hide()
		if err == nil {
			s.finish(nil)
			return
		}
		s.state = StateIdle
	}
	if err != nil {
		s.finish(fmt.Errorf("reveal %q: %w", s.image, err))
	}
}

func (s *Sequencer) finish(err error) {
	done := s.onDone
	s.onDone = nil
	if done != nil {
		done(err)
	}
}

func (s *Sequencer) stop() {
	s.gen++
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.paused = false
}
