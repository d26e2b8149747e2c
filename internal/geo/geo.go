package geo

import (
	"errors"
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// ErrInvalidCoordinates is returned when a longitude or latitude is out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// LonLat is a WGS84 position in degrees.
type LonLat struct {
	Lon float64 `yaml:"lon" json:"lon"`
	Lat float64 `yaml:"lat" json:"lat"`
}

func (p LonLat) String() string {
	return fmt.Sprintf("%.5f,%.5f", p.Lon, p.Lat)
}

// Validate checks that the position is a valid point and within WGS84 ranges.
func (p LonLat) Validate() error {
	if _, err := p.Point(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCoordinates, p, err)
	}
	if math.IsNaN(p.Lon) || math.IsNaN(p.Lat) || p.Lon < -180 || p.Lon > 180 || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: %s", ErrInvalidCoordinates, p)
	}
	return nil
}

// XY returns the position as a planar coordinate in degrees.
func (p LonLat) XY() geom.XY {
	return geom.XY{X: p.Lon, Y: p.Lat}
}

// Point returns the position as a 2D simple-features point. Non-finite
// coordinates are rejected.
func (p LonLat) Point() (geom.Point, error) {
	return geom.NewPoint(geom.Coordinates{XY: p.XY(), Type: geom.DimXY})
}

// Within reports whether a and b differ by less than threshold degrees on
// both axes. This is the parked-camera test: 0.002° is roughly 200 m.
func Within(a, b LonLat, threshold float64) bool {
	return math.Abs(a.Lon-b.Lon) < threshold && math.Abs(a.Lat-b.Lat) < threshold
}

// Meters returns the approximate ground distance between a and b, measured in
// Web Mercator and scaled back by the cosine of the mean latitude.
func Meters(a, b LonLat) float64 {
	f := wgs84.EPSG().Transform(4326, 3857)
	ax, ay, _ := f(a.Lon, a.Lat, 0)
	bx, by, _ := f(b.Lon, b.Lat, 0)

	d := geom.XY{X: bx, Y: by}.Sub(geom.XY{X: ax, Y: ay}).Length()
	meanLat := (a.Lat + b.Lat) / 2 * math.Pi / 180
	return d * math.Cos(meanLat)
}
