package navigation

import (
	"errors"
)

var ErrInvalidIndex = errors.New("waypoint index out of range")

type Direction int

const (
	Forward Direction = iota
	Backward
)

// Outcome is what the controller should do once a rotation completes.
type Outcome int

const (
	// Advance waits the navigate delay, then flies to Decision.Next.
	Advance Outcome = iota
	// Complete stops autoplay, waits the return delay, then previews waypoint 0.
	Complete
)

func (o Outcome) String() string {
	if o == Complete {
		return "complete"
	}
	return "advance"
}

// Rule identifies which transition rule produced a Decision.
type Rule int

const (
	RuleCompletion Rule = iota + 1
	RuleForcedStart
	RuleSuccessor
	RuleManual
)

func (r Rule) String() string {
	switch r {
	case RuleCompletion:
		return "completion"
	case RuleForcedStart:
		return "forcedStart"
	case RuleSuccessor:
		return "successor"
	case RuleManual:
		return "manual"
	}
	return "unknown"
}

type Decision struct {
	Outcome Outcome
	Next    int
	Rule    Rule
}

// AfterRotation decides where the tour goes once the rotation at current has
// completed. Rules apply in priority order:
//
//  1. the last waypoint ends the tour (never a silent wrap to 0)
//  2. while playing, waypoint 0 always continues to waypoint 1
//  3. otherwise the natural successor (current+1) mod n
func AfterRotation(current, n int, playing bool) Decision {
	if current == n-1 {
		return Decision{Outcome: Complete, Next: 0, Rule: RuleCompletion}
	}
	if playing && current == 0 {
		return Decision{Outcome: Advance, Next: 1, Rule: RuleForcedStart}
	}
	return Decision{Outcome: Advance, Next: (current + 1) % n, Rule: RuleSuccessor}
}

// Step is the target of a manual next/previous. Previous from waypoint 0
// goes straight to n-1; the forced start edge does not apply.
func Step(current, n int, dir Direction) Decision {
	if n <= 0 {
		return Decision{Outcome: Advance, Next: 0, Rule: RuleManual}
	}
	next := (current + 1) % n
	if dir == Backward {
		next = (current - 1 + n) % n
	}
	return Decision{Outcome: Advance, Next: next, Rule: RuleManual}
}
