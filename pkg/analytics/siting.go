package analytics

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/internal/voronoi"
	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// Alternative is one runner-up siting candidate.
type Alternative struct {
	Lon        float64
	Lat        float64
	Population float64
}

// SitingResult is the outcome of OptimalSiting.
type SitingResult struct {
	Success             bool
	OptimalLon          float64
	OptimalLat          float64
	CatchmentRadiusKm   float64
	EstimatedPopulation float64
	CandidatesEvaluated int
	TopAlternatives     []Alternative
}

const circleSegments = 32

// OptimalSiting scores every Voronoi vertex inside region as a candidate
// new-facility location: its catchment radius is its distance to the
// nearest existing generator, and its estimated population is the
// area-ratio-weighted sum of population from intersecting districts (the
// same attribution rule as the population weigher, applied to a circular
// catchment instead of a Voronoi cell). Candidates are ranked by estimated
// population descending; the caller gets the best plus up to three
// alternatives. All points/geometry are in the same planar CRS; proj is
// used only to unproject the reported coordinates.
func OptimalSiting(vertices, generators []orb.Point, districts []model.District, districtsPlanar []orb.MultiPolygon, region orb.MultiPolygon, proj geo.Transformer) SitingResult {
	type scored struct {
		centre orb.Point
		radius float64
		pop    float64
	}

	var candidates []scored
	for _, v := range vertices {
		if len(region) > 0 && !voronoi.PointInMultiPolygon(v, region) {
			continue
		}
		radius := nearestDistance(v, generators)
		if math.IsInf(radius, 1) || radius <= 0 {
			continue
		}
		disk := circlePolygon(v, radius, circleSegments)
		pop := estimatePopulation(disk, districts, districtsPlanar)
		candidates = append(candidates, scored{centre: v, radius: radius, pop: pop})
	}

	result := SitingResult{CandidatesEvaluated: len(candidates)}
	if len(candidates) == 0 {
		return result
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].pop > candidates[j].pop })

	best := candidates[0]
	lon, lat := proj.Unproject(best.centre[0], best.centre[1])
	result.Success = true
	result.OptimalLon = lon
	result.OptimalLat = lat
	result.CatchmentRadiusKm = best.radius / 1000
	result.EstimatedPopulation = best.pop

	for i := 1; i < len(candidates) && i <= 3; i++ {
		alon, alat := proj.Unproject(candidates[i].centre[0], candidates[i].centre[1])
		result.TopAlternatives = append(result.TopAlternatives, Alternative{Lon: alon, Lat: alat, Population: candidates[i].pop})
	}
	return result
}

func estimatePopulation(disk []orb.Point, districts []model.District, planar []orb.MultiPolygon) float64 {
	var total float64
	for i, d := range districts {
		var districtArea float64
		for _, poly := range planar[i] {
			districtArea += polygonAbsArea(poly)
		}
		if districtArea <= 0 {
			continue
		}
		var overlap float64
		for _, poly := range planar[i] {
			overlap += voronoi.ClipConvexAgainstPolygon(disk, poly)
		}
		if overlap <= 0 {
			continue
		}
		total += float64(d.Population) * (overlap / districtArea)
	}
	return total
}

func polygonAbsArea(poly orb.Polygon) float64 {
	var sum float64
	for _, ring := range poly {
		sum += ringSignedArea(ring)
	}
	return math.Abs(sum)
}

func ringSignedArea(ring orb.Ring) float64 {
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum / 2
}

// circlePolygon approximates a circle as a regular segments-gon, open
// point list (first != last), for reuse with the polygon-clipping
// machinery that expects convex cells.
func circlePolygon(centre orb.Point, radius float64, segments int) []orb.Point {
	pts := make([]orb.Point, segments)
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		pts[i] = orb.Point{centre[0] + radius*math.Cos(theta), centre[1] + radius*math.Sin(theta)}
	}
	return pts
}
