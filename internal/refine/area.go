package refine

import (
	"math"

	"github.com/paulmach/orb"
)

// areaSqKm approximates a geographic multi-polygon's area in km² using a
// latitude-scaled degree-to-km factor evaluated at each ring's own
// centroid, the same approximation roadvoronoi uses for its graph-partition
// cells (and the rough "111km per degree" conversion the original service
// used, refined here to account for longitude compression at latitude).
func areaSqKm(mp orb.MultiPolygon) float64 {
	var total float64
	for _, poly := range mp {
		if len(poly) == 0 {
			continue
		}
		total += ringAreaSqKm([]orb.Point(poly[0]))
	}
	return total
}

func ringAreaSqKm(ring []orb.Point) float64 {
	if len(ring) < 4 {
		return 0
	}
	var sumLat, sumLon float64
	n := len(ring) - 1
	for _, p := range ring[:n] {
		sumLon += p[0]
		sumLat += p[1]
	}
	centroidLat := sumLat / float64(n)
	centroidLon := sumLon / float64(n)

	rad := centroidLat * math.Pi / 180
	lonKm := 111.320 * math.Cos(rad)
	latKm := 110.574

	var area float64
	for i := 0; i < n; i++ {
		x1 := (ring[i][0] - centroidLon) * lonKm
		y1 := (ring[i][1] - centroidLat) * latKm
		x2 := (ring[i+1][0] - centroidLon) * lonKm
		y2 := (ring[i+1][1] - centroidLat) * latKm
		area += x1*y2 - x2*y1
	}
	return math.Abs(area) / 2
}
