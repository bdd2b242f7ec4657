package voronoi

import (
	"math"

	"github.com/paulmach/orb"
)

// Cell is one site's Voronoi region before clipping: the generator point and
// its (possibly ray-extruded, not yet boundary-clipped) polygon boundary, in
// counter-clockwise order.
type Cell struct {
	Site    orb.Point
	SiteIdx int
	Polygon []orb.Point
}

// BuildCells triangulates points and returns the dual Voronoi cell for each
// site, with unbounded regions closed off by extruding a ray of length R
// along the outward perpendicular bisector of each hull-adjacent edge, per
// spec §4.3 step 3. Cells are NOT yet clipped to any boundary polygon;
// callers do that with clipToPolygon.
func BuildCells(points []orb.Point, extrusionRadius float64) []Cell {
	if len(points) == 0 {
		return nil
	}
	if len(points) == 1 {
		return []Cell{{Site: points[0], SiteIdx: 0, Polygon: squareAround(points[0], extrusionRadius)}}
	}

	d := newDelaunay(points)
	incident := d.incidentTriangles()
	centroid := centroidOf(points)

	cells := make([]Cell, 0, len(points))
	for i, p := range points {
		tris := incident[i]
		if len(tris) == 0 {
			// Isolated site (coincides exactly with another, triangulation
			// degenerate): fall back to a small square cell, which is then
			// clipped and emitted like any other cell.
			cells = append(cells, Cell{Site: p, SiteIdx: i, Polygon: squareAround(p, extrusionRadius/1000)})
			continue
		}

		var corners []orb.Point
		for _, ti := range tris {
			t := d.triangles[ti]
			corners = append(corners, dualVertex(d, t, i, centroid, extrusionRadius))
		}

		ordered := ConvexHull(corners)
		if len(ordered) < 3 {
			ordered = AngularSort(p, corners)
		}
		cells = append(cells, Cell{Site: p, SiteIdx: i, Polygon: ordered})
	}
	return cells
}

// dualVertex returns the Voronoi vertex (or far ray endpoint) that triangle
// t contributes to site siteIdx's cell.
func dualVertex(d *delaunay, t triangle, siteIdx int, centroid orb.Point, R float64) orb.Point {
	a, b, c := t.a, t.b, t.c
	if a >= 0 && b >= 0 && c >= 0 {
		return circumcenter(d.vertex(a), d.vertex(b), d.vertex(c))
	}

	// Triangle touches a super-vertex: this is a hull-boundary triangle.
	// Find the one other real vertex besides siteIdx; extrude a ray
	// outward from the midpoint of the shared hull edge.
	others := []int{a, b, c}
	var realOther = -1
	for _, v := range others {
		if v >= 0 && v != siteIdx {
			realOther = v
			break
		}
	}
	if realOther < 0 {
		// Both other vertices are synthetic: only a handful of sites in
		// total. Extend directly away from the centroid.
		dir := normalize(orb.Point{d.points[siteIdx][0] - centroid[0], d.points[siteIdx][1] - centroid[1]})
		return orb.Point{d.points[siteIdx][0] + dir[0]*R, d.points[siteIdx][1] + dir[1]*R}
	}

	site := d.points[siteIdx]
	neighbor := d.points[realOther]
	mid := orb.Point{(site[0] + neighbor[0]) / 2, (site[1] + neighbor[1]) / 2}

	// Perpendicular to the site-neighbor edge, pointing away from the
	// overall point centroid (i.e. outward from the triangulation).
	edge := orb.Point{neighbor[0] - site[0], neighbor[1] - site[1]}
	perp := normalize(orb.Point{-edge[1], edge[0]})
	toCentroid := orb.Point{centroid[0] - mid[0], centroid[1] - mid[1]}
	if dot(perp, toCentroid) > 0 {
		perp = orb.Point{-perp[0], -perp[1]}
	}

	return orb.Point{mid[0] + perp[0]*R, mid[1] + perp[1]*R}
}

func normalize(v orb.Point) orb.Point {
	n := math.Hypot(v[0], v[1])
	if n < epsilon {
		return orb.Point{0, 0}
	}
	return orb.Point{v[0] / n, v[1] / n}
}

func dot(a, b orb.Point) float64 {
	return a[0]*b[0] + a[1]*b[1]
}

func squareAround(p orb.Point, half float64) []orb.Point {
	return []orb.Point{
		{p[0] - half, p[1] - half},
		{p[0] + half, p[1] - half},
		{p[0] + half, p[1] + half},
		{p[0] - half, p[1] + half},
	}
}
