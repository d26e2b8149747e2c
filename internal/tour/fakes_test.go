package tour

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/geotour/internal/animator"
	"github.com/ivlev/geotour/internal/config"
	"github.com/ivlev/geotour/internal/geo"
	"github.com/ivlev/geotour/internal/scheduler"
	"github.com/ivlev/geotour/internal/waypoint"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type flight struct {
	at       time.Duration
	center   geo.LonLat
	duration time.Duration
}

type fakeCamera struct {
	now      func() time.Duration
	center   geo.LonLat
	bearing  float64
	flights  []flight
	setCalls int
	stops    int

	failSetBearing error
	failFlyTo      error
}

func (c *fakeCamera) Bearing() float64   { return c.bearing }
func (c *fakeCamera) Center() geo.LonLat { return c.center }
func (c *fakeCamera) Stop()              { c.stops++ }

func (c *fakeCamera) SetBearing(deg float64) error {
	c.setCalls++
	if c.failSetBearing != nil {
		return c.failSetBearing
	}
	c.bearing = deg
	return nil
}

func (c *fakeCamera) FlyTo(pose waypoint.Pose, d time.Duration, ease animator.EaseFunc) error {
	if c.failFlyTo != nil {
		return c.failFlyTo
	}
	c.flights = append(c.flights, flight{at: c.now(), center: pose.Center, duration: d})
	c.center = pose.Center
	c.bearing = pose.Bearing
	return nil
}

type fakeOverlay struct {
	calls    []string
	failShow error
}

func (o *fakeOverlay) Show(image string) error {
	o.calls = append(o.calls, "show "+image)
	return o.failShow
}

func (o *fakeOverlay) SetOpacity(opacity float64, transition time.Duration) error {
	o.calls = append(o.calls, fmt.Sprintf("opacity %.2f %s", opacity, transition))
	return nil
}

func (o *fakeOverlay) Hide() error {
	o.calls = append(o.calls, "hide")
	return nil
}

type harness struct {
	t       *testing.T
	sim     *scheduler.Simulator
	store   *waypoint.Store
	cam     *fakeCamera
	overlay *fakeOverlay
	ctl     *Controller
	changes []StateChange
}

// newHarness builds a tour of n waypoints spaced 0.01° apart. parkedAt puts
// the camera on that waypoint; -1 leaves it far away.
func newHarness(t *testing.T, n, parkedAt int) *harness {
	t.Helper()

	wps := make([]waypoint.Waypoint, n)
	for i := range wps {
		wps[i] = waypoint.Waypoint{
			ID:      fmt.Sprintf("wp%d", i),
			Center:  geo.LonLat{Lon: 12.40 + 0.01*float64(i), Lat: 41.90},
			Zoom:    16,
			Pitch:   60,
			Bearing: float64(10 * i),
			Title:   fmt.Sprintf("Stop %d", i),
			Image:   fmt.Sprintf("wp%d.png", i),
		}
	}
	store, err := waypoint.NewStore("test", wps)
	require.NoError(t, err)

	h := &harness{
		t:       t,
		sim:     scheduler.NewSimulator(epoch, 10*time.Millisecond),
		store:   store,
		overlay: &fakeOverlay{},
	}
	h.cam = &fakeCamera{now: h.sim.Elapsed, center: geo.LonLat{Lon: -70, Lat: 10}}
	if parkedAt >= 0 {
		h.cam.center = wps[parkedAt].Center
		h.cam.bearing = wps[parkedAt].Bearing
	}

	h.ctl = New(store, h.cam, h.overlay, h.sim.Clock, h.sim.Queue, Options{
		Timing:           config.DefaultTiming(),
		ProximityDegrees: 0.002,
		Logger:           zerolog.Nop(),
		OnStateChanged:   func(sc StateChange) { h.changes = append(h.changes, sc) },
	})
	return h
}

func (h *harness) advance(d time.Duration) { h.sim.Advance(d) }

func (h *harness) at(d time.Duration) { h.sim.AdvanceTo(d) }

// flightsTo returns the indices of every waypoint the camera was sent to.
func (h *harness) flightsTo() []int {
	var idx []int
	for _, f := range h.flights() {
		for i, w := range h.store.All() {
			if w.Center == f.center {
				idx = append(idx, i)
			}
		}
	}
	return idx
}

func (h *harness) flights() []flight { return h.cam.flights }

func (h *harness) lastFlight() flight {
	h.t.Helper()
	require.NotEmpty(h.t, h.cam.flights)
	return h.cam.flights[len(h.cam.flights)-1]
}

func (h *harness) shows() []string {
	var out []string
	for _, c := range h.overlay.calls {
		if len(c) > 5 && c[:5] == "show " {
			out = append(out, c[5:])
		}
	}
	return out
}
