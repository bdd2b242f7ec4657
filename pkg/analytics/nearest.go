package analytics

import (
	"math"

	"github.com/paulmach/orb"
)

// NearestFacility returns the index into generators of the planar-nearest
// point to query, and its distance in metres. Returns -1 if generators is
// empty.
func NearestFacility(query orb.Point, generators []orb.Point) (int, float64) {
	best := -1
	bestDist := math.Inf(1)
	for i, g := range generators {
		d := math.Hypot(query[0]-g[0], query[1]-g[1])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, bestDist
}
