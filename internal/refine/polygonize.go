package refine

import (
	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/internal/voronoi"
)

// labelledPolygon accumulates the clipped triangle pieces that voted for
// one facility, plus how many grid points contributed to that vote.
type labelledPolygon struct {
	facilityID string
	pieces     orb.MultiPolygon
	pointCount int
}

// polygonize triangulates every assigned point, labels each triangle by
// majority vote of its three vertices' assignments, clips the triangle to
// boundary, and groups the surviving pieces by facility — spec §4.9 step 5.
// Ties in the 3-vertex vote are broken by the lexicographically first
// facility id among the tied leaders, keeping the result deterministic.
func polygonize(assignments []assignment, boundary orb.MultiPolygon) []labelledPolygon {
	if len(assignments) < 3 {
		return nil
	}

	points := make([]orb.Point, len(assignments))
	for i, a := range assignments {
		points[i] = a.point
	}
	triangles := voronoi.Triangulate(points)

	pointCounts := make(map[string]int)
	for _, a := range assignments {
		pointCounts[a.facilityID]++
	}

	byLabel := make(map[string]orb.MultiPolygon)
	for _, t := range triangles {
		labels := [3]string{assignments[t[0]].facilityID, assignments[t[1]].facilityID, assignments[t[2]].facilityID}
		label := majorityVote(labels)

		tri := [3]orb.Point{points[t[0]], points[t[1]], points[t[2]]}
		if len(boundary) == 0 {
			ring := voronoi.CloseRing(tri[:])
			byLabel[label] = append(byLabel[label], orb.Polygon{ring})
			continue
		}
		clipped := clipTriangleToBoundary(tri, boundary)
		byLabel[label] = append(byLabel[label], clipped...)
	}

	out := make([]labelledPolygon, 0, len(byLabel))
	for label, pieces := range byLabel {
		if len(pieces) == 0 {
			continue
		}
		out = append(out, labelledPolygon{facilityID: label, pieces: pieces, pointCount: pointCounts[label]})
	}
	return out
}

// clipTriangleToBoundary clips tri against every polygon of boundary,
// returning all surviving pieces as individual single-ring polygons.
func clipTriangleToBoundary(tri [3]orb.Point, boundary orb.MultiPolygon) orb.MultiPolygon {
	var out orb.MultiPolygon
	for _, poly := range boundary {
		for _, piece := range voronoi.ClipTriangleToPolygon(tri, poly) {
			ring := voronoi.CloseRing(piece)
			out = append(out, orb.Polygon{ring})
		}
	}
	return out
}

// majorityVote returns the facility id appearing most often among the
// three labels, breaking ties lexicographically.
func majorityVote(labels [3]string) string {
	counts := make(map[string]int, 3)
	for _, l := range labels {
		counts[l]++
	}
	best := labels[0]
	bestCount := 0
	for _, l := range labels {
		c := counts[l]
		if c > bestCount || (c == bestCount && l < best) {
			bestCount = c
			best = l
		}
	}
	return best
}
