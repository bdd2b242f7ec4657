// Package voronoi computes the Euclidean Voronoi tessellation of a set of
// planar generators, reconstructs unbounded regions by ray extrusion, and
// clips each cell to an arbitrary (possibly non-convex) boundary polygon.
//
// The diagram is built from a Delaunay triangulation (Bowyer-Watson,
// incremental) and taken as the dual: each Voronoi vertex is the
// circumcenter of a Delaunay triangle, and a site's cell is the polygon
// formed by the circumcenters of triangles incident to it, in order
// around the site. This mirrors the triangulate-then-dualize shape used
// for spherical Voronoi diagrams elsewhere in the reference corpus,
// adapted to the planar Euclidean case (see DESIGN.md).
package voronoi

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

const epsilon = 1e-9

// ConvexHull returns the convex hull of points, in counter-clockwise
// order, using Andrew's monotone chain. Used both to order each Voronoi
// cell's corners, including the ray-extruded corners of unbounded regions
// (§4.3 step 3), and to polygonize owned-point
// sets in the weighted and road-graph diagrams (§4.7, §4.8).
func ConvexHull(points []orb.Point) []orb.Point {
	pts := make([]orb.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})
	pts = dedupe(pts)
	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b orb.Point) float64 {
		return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	}

	lower := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]orb.Point, 0, len(pts))
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return hull
}

func dedupe(pts []orb.Point) []orb.Point {
	out := pts[:0:0]
	for i, p := range pts {
		if i == 0 || math.Abs(p[0]-pts[i-1][0]) > epsilon || math.Abs(p[1]-pts[i-1][1]) > epsilon {
			out = append(out, p)
		}
	}
	return out
}

// AngularSort orders points counter-clockwise around centre. This is the
// fallback ordering spec §4.3/§9 calls for when convex-hull ordering fails
// on a degenerate (co-located/near-duplicate generator) cell.
func AngularSort(centre orb.Point, points []orb.Point) []orb.Point {
	out := make([]orb.Point, len(points))
	copy(out, points)
	sort.Slice(out, func(i, j int) bool {
		ai := math.Atan2(out[i][1]-centre[1], out[i][0]-centre[0])
		aj := math.Atan2(out[j][1]-centre[1], out[j][0]-centre[0])
		return ai < aj
	})
	return out
}

// PointInRing reports whether p lies inside ring using the standard
// even-odd ray-casting rule. Boundary points may be classified either way
// (acceptable per spec's tolerance-based invariants).
func PointInRing(p orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi[1] > p[1]) != (pj[1] > p[1]) &&
			p[0] < (pj[0]-pi[0])*(p[1]-pi[1])/(pj[1]-pi[1])+pi[0] {
			inside = !inside
		}
	}
	return inside
}

// PointInPolygon reports whether p lies inside polygon, treating the
// first ring as the outer boundary and any subsequent rings as holes.
func PointInPolygon(p orb.Point, poly orb.Polygon) bool {
	if len(poly) == 0 || !PointInRing(p, poly[0]) {
		return false
	}
	for _, hole := range poly[1:] {
		if PointInRing(p, hole) {
			return false
		}
	}
	return true
}

// PointInMultiPolygon reports whether p lies inside any constituent
// polygon of mp.
func PointInMultiPolygon(p orb.Point, mp orb.MultiPolygon) bool {
	for _, poly := range mp {
		if PointInPolygon(p, poly) {
			return true
		}
	}
	return false
}

// CloseRing ensures a ring's first and last points coincide, per the
// GeoJSON/orb ring convention.
func CloseRing(pts []orb.Point) orb.Ring {
	if len(pts) == 0 {
		return nil
	}
	if pts[0] != pts[len(pts)-1] {
		pts = append(pts, pts[0])
	}
	return orb.Ring(pts)
}

// Extent returns the larger of a bounding box's width/height, used to size
// the far-ray extrusion radius R = max(10*extent, 5e6) per spec §4.3 step 3.
func Extent(points []orb.Point) float64 {
	if len(points) == 0 {
		return 0
	}
	minX, maxX := points[0][0], points[0][0]
	minY, maxY := points[0][1], points[0][1]
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	w, h := maxX-minX, maxY-minY
	if w > h {
		return w
	}
	return h
}
