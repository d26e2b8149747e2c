package waypoint

import (
	"errors"
	"fmt"

	"github.com/ivlev/geotour/internal/geo"
)

var (
	ErrEmptyTour       = errors.New("tour has no waypoints")
	ErrInvalidWaypoint = errors.New("invalid waypoint")
)

// MaxPitch is the steepest camera pitch a waypoint may request.
const MaxPitch = 85.0

// Store is the immutable, ordered list of waypoints of a loaded tour.
type Store struct {
	title     string
	waypoints []Waypoint
}

// NewStore validates the waypoints and returns a store holding a private copy.
func NewStore(title string, waypoints []Waypoint) (*Store, error) {
	if len(waypoints) == 0 {
		return nil, ErrEmptyTour
	}

	seen := make(map[string]int, len(waypoints))
	for i, w := range waypoints {
		if err := validate(w); err != nil {
			return nil, fmt.Errorf("waypoint %d: %w", i, err)
		}
		if prev, ok := seen[w.ID]; ok {
			return nil, fmt.Errorf("waypoint %d: %w: id %q already used by waypoint %d", i, ErrInvalidWaypoint, w.ID, prev)
		}
		seen[w.ID] = i
	}

	cp := make([]Waypoint, len(waypoints))
	copy(cp, waypoints)
	return &Store{title: title, waypoints: cp}, nil
}

// Load reads a tour file and builds a store from it.
func Load(path string) (*Store, error) {
	t, err := ReadTour(path)
	if err != nil {
		return nil, err
	}
	s, err := NewStore(t.Title, t.Waypoints)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func validate(w Waypoint) error {
	if w.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidWaypoint)
	}
	if err := w.Center.Validate(); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidWaypoint, w.ID, err)
	}
	if w.Zoom < 0 {
		return fmt.Errorf("%w %q: negative zoom %.2f", ErrInvalidWaypoint, w.ID, w.Zoom)
	}
	if w.Pitch < 0 || w.Pitch > MaxPitch {
		return fmt.Errorf("%w %q: pitch %.1f outside 0-%.0f", ErrInvalidWaypoint, w.ID, w.Pitch, MaxPitch)
	}
	return nil
}

func (s *Store) Title() string { return s.title }

func (s *Store) Len() int { return len(s.waypoints) }

// At returns the waypoint at index i. ok is false when i is out of range.
func (s *Store) At(i int) (Waypoint, bool) {
	if i < 0 || i >= len(s.waypoints) {
		return Waypoint{}, false
	}
	return s.waypoints[i], true
}

// All returns a copy of every waypoint in tour order.
func (s *Store) All() []Waypoint {
	cp := make([]Waypoint, len(s.waypoints))
	copy(cp, s.waypoints)
	return cp
}

// IndexOf returns the index of the waypoint with the given id, or -1.
func (s *Store) IndexOf(id string) int {
	for i, w := range s.waypoints {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// Nearest returns the waypoint closest to center among those within
// threshold degrees on both axes.
func (s *Store) Nearest(center geo.LonLat, threshold float64) (int, bool) {
	best, bestMeters := -1, 0.0
	for i, w := range s.waypoints {
		if !geo.Within(w.Center, center, threshold) {
			continue
		}
		if d := geo.Meters(w.Center, center); best < 0 || d < bestMeters {
			best, bestMeters = i, d
		}
	}
	return best, best >= 0
}

// Pair is two waypoints of the same tour.
type Pair struct {
	A, B   int
	Meters float64
}

// CloserThan lists waypoint pairs that sit within threshold degrees of each
// other. A camera parked near such a pair cannot be attributed to one stop.
func (s *Store) CloserThan(threshold float64) []Pair {
	var pairs []Pair
	for i := 0; i < len(s.waypoints); i++ {
		for j := i + 1; j < len(s.waypoints); j++ {
			a, b := s.waypoints[i].Center, s.waypoints[j].Center
			if geo.Within(a, b, threshold) {
				pairs = append(pairs, Pair{A: i, B: j, Meters: geo.Meters(a, b)})
			}
		}
	}
	return pairs
}
