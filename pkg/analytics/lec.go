package analytics

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/internal/voronoi"
	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// LargestEmptyCircle finds the Voronoi vertex (candidate centre), among
// those falling inside region, whose distance to the nearest generator is
// greatest — the centre of the largest circle that fits in region without
// enclosing any existing generator. All inputs are in the same planar CRS.
// Returns (zero, false) if no candidate vertex falls inside region.
func LargestEmptyCircle(vertices, generators []orb.Point, region orb.MultiPolygon, proj geo.Transformer) (model.Circle, bool) {
	var best orb.Point
	bestDist := -1.0
	found := false

	for _, v := range vertices {
		if len(region) > 0 && !voronoi.PointInMultiPolygon(v, region) {
			continue
		}
		d := nearestDistance(v, generators)
		if d > bestDist {
			bestDist = d
			best = v
			found = true
		}
	}
	if !found {
		return model.Circle{}, false
	}

	lon, lat := proj.Unproject(best[0], best[1])
	return model.Circle{CenterLon: lon, CenterLat: lat, RadiusKm: bestDist / 1000, Valid: true}, true
}

func nearestDistance(p orb.Point, others []orb.Point) float64 {
	best := math.Inf(1)
	for _, o := range others {
		d := math.Hypot(p[0]-o[0], p[1]-o[1])
		if d < best {
			best = d
		}
	}
	return best
}
