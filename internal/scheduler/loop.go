package scheduler

import (
	"context"
	"time"

	"github.com/ivlev/geotour/internal/clock"
)

// Loop owns the execution context of a real-time tour: a ticker pumps the
// Queue once per frame and commands posted from other goroutines run between
// frames.
type Loop struct {
	*Queue
	frame time.Duration
	posts chan func()
}

// NewLoop creates a Loop that pumps at fps frames per second.
func NewLoop(c clock.Clock, fps int) *Loop {
	if fps <= 0 {
		fps = 60
	}
	return &Loop{
		Queue: NewQueue(c),
		frame: time.Second / time.Duration(fps),
		posts: make(chan func(), 64),
	}
}

// Post hands fn to the loop goroutine. It blocks while the backlog is full and
// gives up when ctx is done.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case l.posts <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes posted commands and frames until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.frame)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.posts:
			fn()
		case <-ticker.C:
			l.Pump()
		}
	}
}
