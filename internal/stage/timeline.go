// Package stage provides in-memory camera and overlay drivers that model
// flights and fades over time. They stand in for a map view in the CLI, the
// ebiten viewer and tests.
package stage

import (
	"fmt"
	"io"
	"time"

	"github.com/ivlev/geotour/internal/clock"
)

// Entry is one recorded driver call.
type Entry struct {
	At     time.Duration
	Driver string
	Action string
	Detail string
}

func (e Entry) String() string {
	return fmt.Sprintf("%9.3fs  %-7s %-10s %s", e.At.Seconds(), e.Driver, e.Action, e.Detail)
}

// Timeline records driver calls relative to its creation time.
type Timeline struct {
	clock   clock.Clock
	origin  time.Time
	Entries []Entry
}

func NewTimeline(c clock.Clock) *Timeline {
	return &Timeline{clock: c, origin: c.Now()}
}

func (t *Timeline) Add(driver, action, format string, args ...any) {
	if t == nil {
		return
	}
	t.Entries = append(t.Entries, Entry{
		At:     clock.Since(t.clock, t.origin),
		Driver: driver,
		Action: action,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Actions returns the action names in order, optionally for one driver.
func (t *Timeline) Actions(driver string) []string {
	var out []string
	for _, e := range t.Entries {
		if driver == "" || e.Driver == driver {
			out = append(out, e.Action)
		}
	}
	return out
}

func (t *Timeline) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, e := range t.Entries {
		m, err := fmt.Fprintln(w, e)
		n += int64(m)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
