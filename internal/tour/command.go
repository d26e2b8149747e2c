package tour

import (
	"fmt"
	"strconv"
	"strings"
)

type CommandKind int

const (
	CmdPlay CommandKind = iota + 1
	CmdPause
	CmdToggle
	CmdNext
	CmdPrevious
	CmdReset
	CmdJumpTo
	CmdDirectNavigate
)

var commandNames = map[CommandKind]string{
	CmdPlay:           "play",
	CmdPause:          "pause",
	CmdToggle:         "toggle",
	CmdNext:           "next",
	CmdPrevious:       "prev",
	CmdReset:          "reset",
	CmdJumpTo:         "jump",
	CmdDirectNavigate: "directNavigate",
}

func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one request from a UI command source. Index is used by
// CmdJumpTo and CmdDirectNavigate only.
type Command struct {
	Kind  CommandKind
	Index int
}

func (c Command) String() string {
	if c.Kind == CmdJumpTo || c.Kind == CmdDirectNavigate {
		return fmt.Sprintf("%s %d", c.Kind, c.Index)
	}
	return c.Kind.String()
}

// ParseCommand reads the text form used by the CLI: "play", "pause",
// "toggle", "next", "prev", "reset", "jump 3" or "directNavigate 3".
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty", ErrUnknownCommand)
	}

	name := strings.ToLower(fields[0])
	var kind CommandKind
	switch name {
	case "play":
		kind = CmdPlay
	case "pause":
		kind = CmdPause
	case "toggle", "space":
		kind = CmdToggle
	case "next":
		kind = CmdNext
	case "prev", "previous":
		kind = CmdPrevious
	case "reset":
		kind = CmdReset
	case "jump", "jumpto", "goto":
		kind = CmdJumpTo
	case "directnavigate":
		kind = CmdDirectNavigate
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}

	wantsIndex := kind == CmdJumpTo || kind == CmdDirectNavigate
	switch {
	case wantsIndex && len(fields) != 2:
		return Command{}, fmt.Errorf("%w: %s needs exactly one waypoint index", ErrUnknownCommand, name)
	case !wantsIndex && len(fields) != 1:
		return Command{}, fmt.Errorf("%w: %s takes no arguments", ErrUnknownCommand, name)
	}

	cmd := Command{Kind: kind}
	if wantsIndex {
		i, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: bad index %q", ErrUnknownCommand, fields[1])
		}
		cmd.Index = i
	}
	return cmd, nil
}

// Apply runs cmd against the controller.
func (c *Controller) Apply(cmd Command) error {
	c.log.Debug().Str("command", cmd.String()).Msg("command")

	switch cmd.Kind {
	case CmdPlay:
		return c.Play()
	case CmdPause:
		return c.Pause()
	case CmdToggle:
		return c.Toggle()
	case CmdNext:
		return c.Next()
	case CmdPrevious:
		return c.Previous()
	case CmdReset:
		return c.Reset()
	case CmdJumpTo:
		return c.JumpTo(cmd.Index)
	case CmdDirectNavigate:
		return c.DirectNavigate(cmd.Index)
	}
	return fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Kind)
}
