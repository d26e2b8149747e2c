package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/geotour/internal/clock"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestQueue_TimersFireInDueOrder(t *testing.T) {
	fc := clock.NewFakeClock(epoch)
	q := NewQueue(fc)

	var order []string
	q.AfterFunc(300*time.Millisecond, func() { order = append(order, "c") })
	q.AfterFunc(100*time.Millisecond, func() { order = append(order, "a") })
	q.AfterFunc(100*time.Millisecond, func() { order = append(order, "b") })

	fc.Advance(99 * time.Millisecond)
	assert.Zero(t, q.PumpTimers())

	fc.Advance(time.Millisecond)
	assert.Equal(t, 2, q.PumpTimers())

	fc.Advance(time.Second)
	q.PumpTimers()
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, q.Pending())
}

func TestQueue_CancelledCallbacksNeverFire(t *testing.T) {
	fc := clock.NewFakeClock(epoch)
	q := NewQueue(fc)

	fired := false
	h := q.AfterFunc(10*time.Millisecond, func() { fired = true })
	f := q.RequestFrame(func() { fired = true })
	h.Cancel()
	f.Cancel()
	h.Cancel()

	fc.Advance(time.Second)
	assert.Zero(t, q.Pump())
	assert.False(t, fired)
}

func TestQueue_FramesRequestedDuringPumpWaitForNextPump(t *testing.T) {
	fc := clock.NewFakeClock(epoch)
	q := NewQueue(fc)

	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		q.RequestFrame(tick)
	}
	q.RequestFrame(tick)

	q.Pump()
	q.Pump()
	q.Pump()
	assert.Equal(t, 3, ticks)
}

func TestQueue_ZeroDelayTimerScheduledWhileFiring(t *testing.T) {
	fc := clock.NewFakeClock(epoch)
	q := NewQueue(fc)

	var order []int
	q.AfterFunc(0, func() {
		order = append(order, 1)
		q.AfterFunc(0, func() { order = append(order, 2) })
	})

	q.PumpTimers()
	assert.Equal(t, []int{1, 2}, order)
}

func TestSimulator_TimersFireAtExactDueTime(t *testing.T) {
	sim := NewSimulator(epoch, 16*time.Millisecond)

	var firedAt time.Duration
	sim.Queue.AfterFunc(1000*time.Millisecond, func() { firedAt = sim.Elapsed() })

	sim.Advance(2 * time.Second)
	assert.Equal(t, 1000*time.Millisecond, firedAt)
	assert.Equal(t, 2*time.Second, sim.Elapsed())
}

func TestSimulator_FramesFollowTheGrid(t *testing.T) {
	sim := NewSimulator(epoch, 10*time.Millisecond)

	var frames []time.Duration
	var tick func()
	tick = func() {
		frames = append(frames, sim.Elapsed())
		if len(frames) < 4 {
			sim.Queue.RequestFrame(tick)
		}
	}
	sim.Queue.RequestFrame(tick)

	sim.AdvanceTo(100 * time.Millisecond)
	require.Len(t, frames, 4)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 30 * time.Millisecond, 40 * time.Millisecond}, frames)

	sim.AdvanceTo(50 * time.Millisecond)
	assert.Equal(t, 100*time.Millisecond, sim.Elapsed())
}

func TestLoop_RunsPostedCommandsUntilCancelled(t *testing.T) {
	loop := NewLoop(&clock.RealClock{}, 120)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	ran := make(chan struct{})
	require.NoError(t, loop.Post(ctx, func() {
		loop.AfterFunc(5*time.Millisecond, func() { close(ran) })
	}))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("timer scheduled from a posted command never fired")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
