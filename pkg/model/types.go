// Package model holds the domain types and error taxonomy shared across
// every tessera subsystem (projection, boundary store, Voronoi variants,
// DCEL, population weighting, analytics). It exists as a separate leaf
// package so that pkg/tessera can act as a facade over all subsystems
// without an import cycle.
package model

import "github.com/paulmach/orb"

// Facility is an immutable input generator: a health centre, clinic, or
// other point-like service location. Insertion order of the input
// sequence defines the site index used throughout the engine.
type Facility struct {
	ID   string // stable identity; if empty at load time, index-derived
	Name string
	Type string // optional category, e.g. "phc", "hospital"
	Lon  float64
	Lat  float64
}

// District is a population-bearing administrative polygon consumed by the
// population weigher. The district set is expected to tile the country
// without significant overlap; small overlaps/gaps are tolerated and
// absorbed into the area-ratio attribution.
type District struct {
	State      string
	District   string
	Population int64
	Geometry   orb.MultiPolygon // geographic coordinates
}

// Circle is the shared output shape for MEC/LEC: a centre in geographic
// coordinates and a radius in kilometres.
type Circle struct {
	CenterLon float64
	CenterLat float64
	RadiusKm  float64
	Valid     bool // false when no admissible circle exists (e.g. empty LEC)
}
