package tour

// stage is the controller's position in a waypoint cycle.
type stage int

const (
	stageIdle stage = iota
	stageFlying
	stageRevealing
	stageRotating
	stageNavigating
	stageReturning
)

var stageNames = [...]string{"idle", "flying", "revealing", "rotating", "navigating", "returning"}

func (s stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

type event int

const (
	evFlightDone event = iota
	evRevealDone
	evRotationDone
	evDelayElapsed
	evReturnElapsed
)

var eventNames = [...]string{"flightDone", "revealDone", "rotationDone", "delayElapsed", "returnElapsed"}

func (e event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "unknown"
}

// stage returns the only stage in which e may be handled.
func (e event) stage() stage {
	switch e {
	case evFlightDone:
		return stageFlying
	case evRevealDone:
		return stageRevealing
	case evRotationDone:
		return stageRotating
	case evDelayElapsed:
		return stageNavigating
	case evReturnElapsed:
		return stageReturning
	}
	return stageIdle
}

// callback binds e to the current generation. The returned function is handed
// to timers and components; it self-rejects once cancelAll has run.
func (c *Controller) callback(e event) func(error) {
	gen := c.gen
	return func(err error) {
		c.step(gen, e, err)
	}
}

// step is the single dispatcher: it advances the state machine by exactly one
// transition per event.
func (c *Controller) step(gen uint64, e event, err error) {
	if gen != c.gen || c.stage != e.stage() {
		c.log.Debug().Str("event", e.String()).Str("stage", c.stage.String()).Msg("stale callback dropped")
		return
	}
	if err != nil {
		c.fail(err)
		return
	}

	c.log.Debug().Str("event", e.String()).Int("index", c.state.CurrentIndex).Msg("step")

	switch e {
	case evFlightDone:
		c.arrive()
	case evRevealDone:
		c.revealDone()
	case evRotationDone:
		c.rotationDone()
	case evDelayElapsed:
		c.flyTo(c.next)
	case evReturnElapsed:
		c.preview = true
		c.flyTo(0)
	}
	c.emit()
}
