package waypoint

import (
	"github.com/ivlev/geotour/internal/geo"
)

// Tour is the on-disk representation of a guided tour.
type Tour struct {
	Version   string     `yaml:"version"`
	Title     string     `yaml:"title"`
	Waypoints []Waypoint `yaml:"waypoints"`
}

// Waypoint is one stop of the tour: a camera pose plus descriptive content.
type Waypoint struct {
	ID          string     `yaml:"id"`
	Center      geo.LonLat `yaml:"center"`
	Zoom        float64    `yaml:"zoom"`
	Pitch       float64    `yaml:"pitch"`   // Degrees from nadir, 0-85
	Bearing     float64    `yaml:"bearing"` // Degrees clockwise from north
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	Image       string     `yaml:"image,omitempty"` // Media ref, e.g. "brochure.pdf#3"
}

// Pose is the camera state a waypoint asks for.
type Pose struct {
	Center  geo.LonLat
	Zoom    float64
	Pitch   float64
	Bearing float64
}

// Pose returns the camera pose of the waypoint.
func (w Waypoint) Pose() Pose {
	return Pose{
		Center:  w.Center,
		Zoom:    w.Zoom,
		Pitch:   w.Pitch,
		Bearing: w.Bearing,
	}
}
