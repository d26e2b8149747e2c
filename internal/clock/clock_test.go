package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	c := &RealClock{}

	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", got, before, after)
	}
}

func TestFakeClock(t *testing.T) {
	c := NewFakeClock(epoch)

	if !c.Now().Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", c.Now(), epoch)
	}

	if got := c.Advance(1500 * time.Millisecond); !got.Equal(epoch.Add(1500 * time.Millisecond)) {
		t.Errorf("Advance returned %v", got)
	}
	c.Advance(500 * time.Millisecond)
	if want := epoch.Add(2 * time.Second); !c.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", c.Now(), want)
	}

	c.Set(epoch.Add(-time.Hour))
	if !c.Now().Equal(epoch.Add(-time.Hour)) {
		t.Errorf("Set backwards not applied: %v", c.Now())
	}
}

func TestSince(t *testing.T) {
	c := NewFakeClock(epoch)
	c.Advance(750 * time.Millisecond)

	if got := Since(c, epoch); got != 750*time.Millisecond {
		t.Errorf("Since = %v, want 750ms", got)
	}
	if got := Since(c, epoch.Add(time.Minute)); got != 0 {
		t.Errorf("Since a future instant = %v, want 0", got)
	}
}
