// Package reveal runs the per-waypoint image timeline: fade in, hold, fade
// out. Every state is timed on the shared PhaseClock so a pause resumes the
// same state with only its remaining time.
package reveal

import (
	"time"

	"github.com/ivlev/geotour/internal/clock"
)

type State int

const (
	StateIdle State = iota
	StateFadeIn
	StateHold
	StateFadeOut
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFadeIn:
		return "fadeIn"
	case StateHold:
		return "hold"
	case StateFadeOut:
		return "fadeOut"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Active reports whether the state is one of the timed states.
func (s State) Active() bool {
	return s == StateFadeIn || s == StateHold || s == StateFadeOut
}

func (s State) phase() clock.PhaseKind {
	switch s {
	case StateFadeIn:
		return clock.PhaseFadeIn
	case StateHold:
		return clock.PhaseHold
	case StateFadeOut:
		return clock.PhaseFadeOut
	}
	return clock.PhaseIdle
}

// Durations of the three timed states.
type Durations struct {
	FadeIn  time.Duration
	Hold    time.Duration
	FadeOut time.Duration
}

func (d Durations) Total() time.Duration {
	return d.FadeIn + d.Hold + d.FadeOut
}

func (d Durations) of(s State) time.Duration {
	switch s {
	case StateFadeIn:
		return d.FadeIn
	case StateHold:
		return d.Hold
	case StateFadeOut:
		return d.FadeOut
	}
	return 0
}

// Overlay is the image layer drawn over the map. Show makes the image current
// at opacity 0; SetOpacity animates towards opacity over transition.
type Overlay interface {
	Show(image string) error
	SetOpacity(opacity float64, transition time.Duration) error
	Hide() error
}
