package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Bounds is a geographic axis-aligned bounding box, lon/lat in degrees.
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Intersects reports whether two bounds overlap (inclusive of touching edges).
func (b Bounds) Intersects(other Bounds) bool {
	if b.MaxLon < other.MinLon || other.MaxLon < b.MinLon {
		return false
	}
	if b.MaxLat < other.MinLat || other.MaxLat < b.MinLat {
		return false
	}
	return true
}

// Union returns the smallest bounds containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	return Bounds{
		MinLon: math.Min(b.MinLon, other.MinLon),
		MinLat: math.Min(b.MinLat, other.MinLat),
		MaxLon: math.Max(b.MaxLon, other.MaxLon),
		MaxLat: math.Max(b.MaxLat, other.MaxLat),
	}
}

// Contains reports whether the geographic point (lon, lat) falls within b.
func (b Bounds) Contains(lon, lat float64) bool {
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// Pad expands bounds by marginDegrees on every side.
func (b Bounds) Pad(marginDegrees float64) Bounds {
	return Bounds{
		MinLon: b.MinLon - marginDegrees,
		MinLat: b.MinLat - marginDegrees,
		MaxLon: b.MaxLon + marginDegrees,
		MaxLat: b.MaxLat + marginDegrees,
	}
}

// ToRing converts bounds to a closed planar ring (for use as a clip boundary).
func (b Bounds) ToRing() orb.Ring {
	return orb.Ring{
		{b.MinLon, b.MinLat},
		{b.MaxLon, b.MinLat},
		{b.MaxLon, b.MaxLat},
		{b.MinLon, b.MaxLat},
		{b.MinLon, b.MinLat},
	}
}

// BoundsFromRing computes the bounding box of a ring's vertices.
func BoundsFromRing(ring orb.Ring) Bounds {
	if len(ring) == 0 {
		return Bounds{}
	}
	b := Bounds{MinLon: ring[0][0], MaxLon: ring[0][0], MinLat: ring[0][1], MaxLat: ring[0][1]}
	for _, p := range ring[1:] {
		if p[0] < b.MinLon {
			b.MinLon = p[0]
		}
		if p[0] > b.MaxLon {
			b.MaxLon = p[0]
		}
		if p[1] < b.MinLat {
			b.MinLat = p[1]
		}
		if p[1] > b.MaxLat {
			b.MaxLat = p[1]
		}
	}
	return b
}
