package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// earthRadius is the mean Earth radius in metres, used by the spherical
// transverse Mercator approximation below. It is precise enough for the
// area/distance tolerances this engine targets (spec budget: <0.5% area
// error) and avoids pulling in a full ellipsoidal projection library that
// nothing else in the corpus provides.
const earthRadius = 6371000.0

// Transformer converts between geographic coordinates (lon, lat in degrees)
// and a planar coordinate system (x, y in metres) suitable for area and
// distance computation. A Transformer is immutable once constructed and
// safe for concurrent use.
type Transformer interface {
	// Project converts a geographic point to the planar CRS.
	Project(lon, lat float64) (x, y float64)

	// Unproject converts a planar point back to geographic coordinates.
	Unproject(x, y float64) (lon, lat float64)

	// ProjectAll bulk-converts a sequence of geographic points, preserving order.
	ProjectAll(points []orb.Point) []orb.Point

	// UnprojectAll bulk-converts a sequence of planar points, preserving order.
	UnprojectAll(points []orb.Point) []orb.Point
}

// transverseMercator implements a spherical transverse Mercator band
// centred on a chosen meridian. It is deterministic and bijective over the
// domain of interest (±80° from the central meridian), matching the
// round-trip contract in spec §8 property 7.
type transverseMercator struct {
	centralMeridian float64 // degrees
	radius          float64
}

// NewTransverseMercator returns a Transformer for a spherical transverse
// Mercator projection centred on centralMeridian (degrees of longitude).
// Pick a meridian near the centroid of the facility/boundary data being
// processed to minimise distortion.
func NewTransverseMercator(centralMeridian float64) Transformer {
	return &transverseMercator{
		centralMeridian: centralMeridian,
		radius:          earthRadius,
	}
}

func (t *transverseMercator) Project(lon, lat float64) (x, y float64) {
	latR := lat * math.Pi / 180
	dLonR := (lon - t.centralMeridian) * math.Pi / 180

	b := math.Cos(latR) * math.Sin(dLonR)
	x = t.radius * 0.5 * math.Log((1+b)/(1-b))
	y = t.radius * math.Atan2(math.Tan(latR), math.Cos(dLonR))
	return x, y
}

func (t *transverseMercator) Unproject(x, y float64) (lon, lat float64) {
	xr := x / t.radius
	yr := y / t.radius

	// Standard inverse spherical transverse Mercator formulas.
	latR := math.Asin(math.Sin(yr) / math.Cosh(xr))
	lonR := t.centralMeridian*math.Pi/180 + math.Atan(math.Sinh(xr)/math.Cos(yr))

	return lonR * 180 / math.Pi, latR * 180 / math.Pi
}

func (t *transverseMercator) ProjectAll(points []orb.Point) []orb.Point {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		x, y := t.Project(p[0], p[1])
		out[i] = orb.Point{x, y}
	}
	return out
}

func (t *transverseMercator) UnprojectAll(points []orb.Point) []orb.Point {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		lon, lat := t.Unproject(p[0], p[1])
		out[i] = orb.Point{lon, lat}
	}
	return out
}
