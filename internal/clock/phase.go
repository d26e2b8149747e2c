package clock

import "time"

// PhaseKind names one segment of a waypoint's animation lifecycle.
type PhaseKind int

const (
	PhaseIdle PhaseKind = iota
	PhaseFlying
	PhaseFadeIn
	PhaseHold
	PhaseFadeOut
	PhaseRotating
	PhaseNavigating
	PhaseReturning
)

var phaseNames = map[PhaseKind]string{
	PhaseIdle:       "idle",
	PhaseFlying:     "flying",
	PhaseFadeIn:     "fadeIn",
	PhaseHold:       "hold",
	PhaseFadeOut:    "fadeOut",
	PhaseRotating:   "rotating",
	PhaseNavigating: "navigating",
	PhaseReturning:  "returning",
}

func (k PhaseKind) String() string {
	if name, ok := phaseNames[k]; ok {
		return name
	}
	return "unknown"
}

// PhaseClock tracks elapsed time of the single live phase across any number
// of pause/resume cycles.
//
// Elapsed time only grows while running and stays constant while paused.
// Accumulated time is zeroed by Start and Reset, never by Pause or Resume.
type PhaseClock struct {
	clock       Clock
	kind        PhaseKind
	startedAt   time.Time // last Start or Resume
	accumulated time.Duration
	running     bool
}

// PhaseSnapshot is a copy of the clock bookkeeping at one instant.
type PhaseSnapshot struct {
	Kind        PhaseKind
	StartedAt   time.Time
	Accumulated time.Duration
	Running     bool
}

// NewPhaseClock creates an idle PhaseClock reading time from c.
func NewPhaseClock(c Clock) *PhaseClock {
	return &PhaseClock{clock: c}
}

// Start begins timing a new phase.
func (p *PhaseClock) Start(kind PhaseKind) {
	p.kind = kind
	p.accumulated = 0
	p.startedAt = p.clock.Now()
	p.running = kind != PhaseIdle
}

// Pause folds the running segment into the accumulated time. Calling it on a
// paused or idle clock has no effect.
func (p *PhaseClock) Pause() {
	if !p.running {
		return
	}
	p.accumulated += p.sinceStart()
	p.running = false
}

// Resume starts a new running segment without touching accumulated time.
func (p *PhaseClock) Resume() {
	if p.running || p.kind == PhaseIdle {
		return
	}
	p.startedAt = p.clock.Now()
	p.running = true
}

// Reset returns the clock to idle.
func (p *PhaseClock) Reset() {
	p.kind = PhaseIdle
	p.accumulated = 0
	p.startedAt = time.Time{}
	p.running = false
}

// Elapsed returns the time spent running in the current phase.
func (p *PhaseClock) Elapsed() time.Duration {
	if !p.running {
		return p.accumulated
	}
	return p.accumulated + p.sinceStart()
}

// Remaining returns max(0, total - Elapsed()).
func (p *PhaseClock) Remaining(total time.Duration) time.Duration {
	rest := total - p.Elapsed()
	if rest < 0 {
		return 0
	}
	return rest
}

// Progress returns Elapsed()/total clamped to [0, 1]. A non-positive total is
// always complete.
func (p *PhaseClock) Progress(total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	f := float64(p.Elapsed()) / float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Kind returns the live phase.
func (p *PhaseClock) Kind() PhaseKind {
	return p.kind
}

// Running reports whether the live phase is accumulating time.
func (p *PhaseClock) Running() bool {
	return p.running
}

// Suspended reports whether a phase is live but paused.
func (p *PhaseClock) Suspended() bool {
	return p.kind != PhaseIdle && !p.running
}

// Snapshot returns the current bookkeeping.
func (p *PhaseClock) Snapshot() PhaseSnapshot {
	return PhaseSnapshot{
		Kind:        p.kind,
		StartedAt:   p.startedAt,
		Accumulated: p.accumulated,
		Running:     p.running,
	}
}

// sinceStart never goes negative, even if the wall clock steps backwards.
func (p *PhaseClock) sinceStart() time.Duration {
	return Since(p.clock, p.startedAt)
}
