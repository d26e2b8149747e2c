package stage

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/ivlev/geotour/internal/animator"
	"github.com/ivlev/geotour/internal/clock"
	"github.com/ivlev/geotour/internal/geo"
	"github.com/ivlev/geotour/internal/waypoint"
)

type flight struct {
	from, to waypoint.Pose
	start    time.Time
	duration time.Duration
	ease     animator.EaseFunc
}

// Camera is a map camera whose pose moves along eased flights in time.
type Camera struct {
	clock    clock.Clock
	log      zerolog.Logger
	timeline *Timeline

	pose   waypoint.Pose
	flight *flight
}

func NewCamera(c clock.Clock, start waypoint.Pose, timeline *Timeline, log zerolog.Logger) *Camera {
	return &Camera{
		clock:    c,
		log:      log.With().Str("component", "camera").Logger(),
		timeline: timeline,
		pose:     start,
	}
}

// Pose returns the camera pose at the current time.
func (c *Camera) Pose() waypoint.Pose {
	c.settle()
	if c.flight == nil {
		return c.pose
	}

	f := c.flight
	t := 1.0
	if f.duration > 0 {
		t = float64(clock.Since(c.clock, f.start)) / float64(f.duration)
	}
	e := f.ease(t)
	return waypoint.Pose{
		Center: geo.LonLat{
			Lon: animator.Lerp(f.from.Center.Lon, f.to.Center.Lon, e),
			Lat: animator.Lerp(f.from.Center.Lat, f.to.Center.Lat, e),
		},
		Zoom:    animator.Lerp(f.from.Zoom, f.to.Zoom, e),
		Pitch:   animator.Lerp(f.from.Pitch, f.to.Pitch, e),
		Bearing: animator.Lerp(f.from.Bearing, f.to.Bearing, e),
	}
}

// Flying reports whether a flight is in progress.
func (c *Camera) Flying() bool {
	c.settle()
	return c.flight != nil
}

func (c *Camera) Bearing() float64 { return c.Pose().Bearing }

func (c *Camera) Center() geo.LonLat { return c.Pose().Center }

func (c *Camera) SetBearing(deg float64) error {
	c.pose = c.Pose()
	c.flight = nil
	c.pose.Bearing = deg
	c.log.Trace().Float64("bearing", deg).Msg("set bearing")
	return nil
}

func (c *Camera) FlyTo(pose waypoint.Pose, duration time.Duration, ease animator.EaseFunc) error {
	if ease == nil {
		ease = animator.EaseInOutCubic
	}
	from := c.Pose()
	c.flight = &flight{from: from, to: pose, start: c.clock.Now(), duration: duration, ease: ease}

	c.log.Debug().Str("to", pose.Center.String()).Dur("duration", duration).Float64("meters", geo.Meters(from.Center, pose.Center)).Msg("fly to")
	c.timeline.Add("camera", "flyTo", "%s zoom=%.1f bearing=%.0f in %s", pose.Center, pose.Zoom, pose.Bearing, duration)
	return nil
}

// Stop freezes an in-progress flight where it is.
func (c *Camera) Stop() {
	if !c.Flying() {
		return
	}
	c.pose = c.Pose()
	c.flight = nil
	c.log.Debug().Str("at", c.pose.Center.String()).Msg("flight stopped")
	c.timeline.Add("camera", "stop", "%s", c.pose.Center)
}

func (c *Camera) settle() {
	if c.flight == nil {
		return
	}
	if clock.Since(c.clock, c.flight.start) >= c.flight.duration {
		c.pose = c.flight.to
		c.flight = nil
	}
}
