// Package tour is the guided-tour state machine. A Controller owns the tour
// state and the single live PhaseClock, and sequences reveal -> rotation ->
// delay -> flight for every waypoint.
//
// A Controller is not safe for concurrent use. Commands and every timer or
// frame callback must run on the goroutine that pumps the scheduler (see
// scheduler.Loop.Post).
package tour

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/geotour/internal/animator"
	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/config"
	"github.com/ivlev/geotour/internal/geo"
	"github.com/ivlev/geotour/internal/waypoint"
)

var (
	ErrDriverFailure  = errors.New("driver failure")
	ErrUnknownCommand = errors.New("unknown command")
)

// Camera is the map view the tour steers.
type Camera interface {
	Bearing() float64
	SetBearing(deg float64) error
	Center() geo.LonLat
	// FlyTo starts an animated move to pose. It returns immediately; the
	// controller treats the flight as finished once duration has passed.
	FlyTo(pose waypoint.Pose, duration time.Duration, ease animator.EaseFunc) error
}

// Stopper is implemented by cameras that can halt a flight in place.
type Stopper interface {
	Stop()
}

// State is a copy of the controller's tour state.
type State struct {
	CurrentIndex    int
	TargetIndex     int
	IsPlaying       bool
	IsTransitioning bool
	Phase           clock.PhaseKind
	Suspended       bool
}

// StateChange is what the UI needs for its play/pause icon and label.
type StateChange struct {
	IsPlaying    bool
	CurrentIndex int
}

type Options struct {
	Timing           config.Timing
	ProximityDegrees float64
	Logger           zerolog.Logger
	OnStateChanged   func(StateChange)
}
