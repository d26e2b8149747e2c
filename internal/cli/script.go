package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ivlev/geotour/internal/tour"
)

// scriptStep is one timed command of a simulation script.
type scriptStep struct {
	At  time.Duration
	Cmd tour.Command
}

// parseScript reads "2.5s:pause,4s:play,12s:jump 9". A step may also be a
// bridge JSON message, e.g. `1s:{"type":"directNavigate","index":3}`. Steps
// are returned in time order; steps at the same time keep their written order.
func parseScript(s string) ([]scriptStep, error) {
	var steps []scriptStep
	for _, part := range splitSteps(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		at, text, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("script step %q: want <time>:<command>", part)
		}
		d, err := time.ParseDuration(strings.TrimSpace(at))
		if err != nil {
			return nil, fmt.Errorf("script step %q: %w", part, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("script step %q: negative time", part)
		}
		cmd, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("script step %q: %w", part, err)
		}
		steps = append(steps, scriptStep{At: d, Cmd: cmd})
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })
	return steps, nil
}

// splitSteps splits on commas that are outside JSON objects and strings.
func splitSteps(s string) []string {
	var (
		parts    []string
		depth    int
		inString bool
		escaped  bool
		start    int
	)
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case inString:
			switch r {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
		case r == '"':
			inString = true
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
