// Package scheduler provides the single-threaded timer and frame source that
// the tour components suspend on.
//
// Nothing in this package starts goroutines except Loop.Run; callbacks always
// execute on the goroutine that calls Pump.
package scheduler

import (
	"sort"
	"time"

	"github.com/ivlev/geotour/internal/clock"
)

// Handle cancels a pending timer or frame callback.
type Handle interface {
	Cancel()
}

// Scheduler hands out timers and animation frames.
type Scheduler interface {
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Handle
	// RequestFrame runs fn on the next animation frame.
	RequestFrame(fn func()) Handle
}

type entry struct {
	due       time.Time
	seq       uint64
	fn        func()
	cancelled bool
}

func (e *entry) Cancel() {
	e.cancelled = true
}

// Queue is a manually pumped Scheduler. Timers fire in due order (ties in
// scheduling order); frame callbacks fire once per Pump.
type Queue struct {
	clock  clock.Clock
	seq    uint64
	timers []*entry
	frames []*entry
}

// NewQueue creates an empty Queue reading time from c.
func NewQueue(c clock.Clock) *Queue {
	return &Queue{clock: c}
}

func (q *Queue) AfterFunc(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	q.seq++
	e := &entry{due: q.clock.Now().Add(d), seq: q.seq, fn: fn}
	q.timers = append(q.timers, e)
	return e
}

func (q *Queue) RequestFrame(fn func()) Handle {
	q.seq++
	e := &entry{seq: q.seq, fn: fn}
	q.frames = append(q.frames, e)
	return e
}

// Pump fires due timers and then the frame callbacks requested before this
// call. Frames requested by those callbacks wait for the next Pump.
func (q *Queue) Pump() int {
	fired := q.PumpTimers()

	frames := q.frames
	q.frames = nil
	for _, e := range frames {
		if e.cancelled {
			continue
		}
		e.fn()
		fired++
	}
	return fired
}

// PumpTimers fires every timer due at the current time, including timers that
// become due while firing.
func (q *Queue) PumpTimers() int {
	fired := 0
	now := q.clock.Now()
	for {
		e := q.popDue(now)
		if e == nil {
			return fired
		}
		e.fn()
		fired++
	}
}

// NextDue returns the due time of the earliest live timer.
func (q *Queue) NextDue() (time.Time, bool) {
	q.compact()
	if len(q.timers) == 0 {
		return time.Time{}, false
	}
	q.sortTimers()
	return q.timers[0].due, true
}

// Pending returns the number of live timers and frame requests.
func (q *Queue) Pending() int {
	q.compact()
	n := len(q.timers)
	for _, e := range q.frames {
		if !e.cancelled {
			n++
		}
	}
	return n
}

func (q *Queue) popDue(now time.Time) *entry {
	q.compact()
	if len(q.timers) == 0 {
		return nil
	}
	q.sortTimers()
	head := q.timers[0]
	if head.due.After(now) {
		return nil
	}
	q.timers = q.timers[1:]
	return head
}

func (q *Queue) sortTimers() {
	sort.Slice(q.timers, func(i, j int) bool {
		if q.timers[i].due.Equal(q.timers[j].due) {
			return q.timers[i].seq < q.timers[j].seq
		}
		return q.timers[i].due.Before(q.timers[j].due)
	})
}

func (q *Queue) compact() {
	live := q.timers[:0]
	for _, e := range q.timers {
		if !e.cancelled {
			live = append(live, e)
		}
	}
	q.timers = live
}
