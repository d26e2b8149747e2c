// Package bridge translates messages from an embedding page into tour
// commands and tour state back into messages.
package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ivlev/geotour/internal/tour"
)

var ErrBadMessage = errors.New("invalid bridge message")

// DeepLinkParam is the query parameter that selects a waypoint.
const DeepLinkParam = "waypoint"

// Message is the JSON envelope exchanged with the parent page.
type Message struct {
	Type         string `json:"type"`
	Index        *int   `json:"index,omitempty"`
	IsPlaying    *bool  `json:"isPlaying,omitempty"`
	CurrentIndex *int   `json:"currentIndex,omitempty"`
}

var messageKinds = map[string]tour.CommandKind{
	"play":           tour.CmdPlay,
	"pause":          tour.CmdPause,
	"toggle":         tour.CmdToggle,
	"next":           tour.CmdNext,
	"prev":           tour.CmdPrevious,
	"previous":       tour.CmdPrevious,
	"reset":          tour.CmdReset,
	"jumpTo":         tour.CmdJumpTo,
	"directNavigate": tour.CmdDirectNavigate,
}

// Decode parses one JSON message into a command.
func Decode(data []byte) (tour.Command, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return tour.Command{}, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}

	kind, ok := messageKinds[m.Type]
	if !ok {
		return tour.Command{}, fmt.Errorf("%w: unknown type %q", ErrBadMessage, m.Type)
	}

	cmd := tour.Command{Kind: kind}
	if kind == tour.CmdJumpTo || kind == tour.CmdDirectNavigate {
		if m.Index == nil {
			return tour.Command{}, fmt.Errorf("%w: %s without index", ErrBadMessage, m.Type)
		}
		cmd.Index = *m.Index
	}
	return cmd, nil
}

// IsMessage reports whether line looks like a JSON message rather than a
// plain text command.
func IsMessage(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "{")
}

// Encode renders a state change for the parent page.
func Encode(sc tour.StateChange) ([]byte, error) {
	return json.Marshal(Message{
		Type:         "stateChanged",
		IsPlaying:    &sc.IsPlaying,
		CurrentIndex: &sc.CurrentIndex,
	})
}

// ParseDeepLink extracts the waypoint index from a link such as
// "https://example.org/tour?waypoint=3". ok is false when the link carries
// no waypoint.
func ParseDeepLink(link string) (index int, ok bool, err error) {
	u, err := url.Parse(link)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	v := u.Query().Get(DeepLinkParam)
	if v == "" {
		return 0, false, nil
	}
	index, err = strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q", ErrBadMessage, DeepLinkParam, v)
	}
	return index, true, nil
}

// DeepLink builds the link that opens the tour at waypoint index.
func DeepLink(base string, index int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBadMessage, err)
	}
	q := u.Query()
	q.Set(DeepLinkParam, strconv.Itoa(index))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
