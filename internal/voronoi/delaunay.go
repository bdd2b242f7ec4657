package voronoi

import (
	"math"

	"github.com/paulmach/orb"
)

// triangle holds indices into the point slice the triangulation was built
// from. Indices >= 0 refer to real sites; the three synthetic
// super-triangle vertices use indices -1, -2, -3 and are stripped from the
// final triangulation.
type triangle struct {
	a, b, c int
}

const (
	superA = -1
	superB = -2
	superC = -3
)

// delaunay is an incremental Bowyer-Watson triangulation over planar
// points. It is O(n^2) in the number of sites, which is acceptable for the
// facility counts this engine targets (tens to low thousands of
// generators); a faster divide-and-conquer or sweep-line triangulator
// would only pay off at far larger N.
type delaunay struct {
	points    []orb.Point // real sites, index 0..n-1
	super     [3]orb.Point
	triangles []triangle
}

func newDelaunay(points []orb.Point) *delaunay {
	d := &delaunay{points: points}
	d.super = superTriangle(points)
	d.triangles = []triangle{{superA, superB, superC}}
	for i := range points {
		d.addPoint(i)
	}
	return d
}

// vertex resolves a (possibly synthetic) triangle vertex index to a point.
func (d *delaunay) vertex(idx int) orb.Point {
	switch idx {
	case superA:
		return d.super[0]
	case superB:
		return d.super[1]
	case superC:
		return d.super[2]
	default:
		return d.points[idx]
	}
}

func superTriangle(points []orb.Point) [3]orb.Point {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	if math.IsInf(minX, 1) {
		minX, maxX, minY, maxY = -1, 1, -1, 1
	}
	dx, dy := maxX-minX, maxY-minY
	deltaMax := math.Max(dx, dy)
	if deltaMax == 0 {
		deltaMax = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	return [3]orb.Point{
		{midX - 20*deltaMax, midY - deltaMax},
		{midX, midY + 20*deltaMax},
		{midX + 20*deltaMax, midY - deltaMax},
	}
}

func (d *delaunay) addPoint(pointIdx int) {
	p := d.points[pointIdx]

	var bad []int
	for i, t := range d.triangles {
		if d.inCircumcircle(t, p) {
			bad = append(bad, i)
		}
	}

	// Find the boundary of the polygonal hole left by removing bad
	// triangles: edges that appear exactly once across all bad triangles.
	type edge struct{ u, v int }
	edgeCount := make(map[edge]int)
	addEdge := func(u, v int) {
		e := edge{u, v}
		if e.u > e.v {
			e.u, e.v = e.v, e.u
		}
		edgeCount[e]++
	}
	for _, bi := range bad {
		t := d.triangles[bi]
		addEdge(t.a, t.b)
		addEdge(t.b, t.c)
		addEdge(t.c, t.a)
	}

	var boundary []edge
	for e, count := range edgeCount {
		if count == 1 {
			boundary = append(boundary, e)
		}
	}

	// Remove bad triangles, filtering in place against a set of their indices.
	badSet := make(map[int]bool, len(bad))
	for _, bi := range bad {
		badSet[bi] = true
	}
	kept := d.triangles[:0]
	for i, t := range d.triangles {
		if !badSet[i] {
			kept = append(kept, t)
		}
	}
	d.triangles = kept

	for _, e := range boundary {
		d.triangles = append(d.triangles, triangle{e.u, e.v, pointIdx})
	}
}

// inCircumcircle reports whether point p lies strictly inside the
// circumcircle of triangle t, using the standard determinant test.
func (d *delaunay) inCircumcircle(t triangle, p orb.Point) bool {
	a, b, c := d.vertex(t.a), d.vertex(t.b), d.vertex(t.c)

	// Ensure ccw orientation for a consistent sign convention.
	if orientation(a, b, c) < 0 {
		a, b = b, a
	}

	ax, ay := a[0]-p[0], a[1]-p[1]
	bx, by := b[0]-p[0], b[1]-p[1]
	cx, cy := c[0]-p[0], c[1]-p[1]

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	return det > epsilon
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// circumcenter returns the circumcenter of triangle (a, b, c).
func circumcenter(a, b, c orb.Point) orb.Point {
	d := 2 * (a[0]*(b[1]-c[1]) + b[0]*(c[1]-a[1]) + c[0]*(a[1]-b[1]))
	if math.Abs(d) < epsilon {
		// Degenerate (near-colinear) triangle: fall back to centroid.
		return orb.Point{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3}
	}
	ax2ay2 := a[0]*a[0] + a[1]*a[1]
	bx2by2 := b[0]*b[0] + b[1]*b[1]
	cx2cy2 := c[0]*c[0] + c[1]*c[1]

	ux := (ax2ay2*(b[1]-c[1]) + bx2by2*(c[1]-a[1]) + cx2cy2*(a[1]-b[1])) / d
	uy := (ax2ay2*(c[0]-b[0]) + bx2by2*(a[0]-c[0]) + cx2cy2*(b[0]-a[0])) / d
	return orb.Point{ux, uy}
}

// realTriangles returns only triangles with no super-triangle vertex.
func (d *delaunay) realTriangles() []triangle {
	var out []triangle
	for _, t := range d.triangles {
		if t.a >= 0 && t.b >= 0 && t.c >= 0 {
			out = append(out, t)
		}
	}
	return out
}

// Triangulate returns the Delaunay triangulation of points as index
// triples into points, dropping any triangle that still touches the
// synthetic super-triangle. Exposed for callers that need a plain
// triangulation rather than its Voronoi dual — the refinement engine's
// polygonisation step (§4.9) in particular.
func Triangulate(points []orb.Point) [][3]int {
	if len(points) < 3 {
		return nil
	}
	d := newDelaunay(points)
	real := d.realTriangles()
	out := make([][3]int, len(real))
	for i, t := range real {
		out[i] = [3]int{t.a, t.b, t.c}
	}
	return out
}

// incidentTriangles groups triangle indices (into d.triangles) by every
// real site they touch, including hull-adjacent triangles that still
// reference a super-triangle vertex — those are needed to detect which
// sites lie on the convex hull (unbounded regions).
func (d *delaunay) incidentTriangles() map[int][]int {
	out := make(map[int][]int)
	for i, t := range d.triangles {
		for _, v := range []int{t.a, t.b, t.c} {
			if v >= 0 {
				out[v] = append(out[v], i)
			}
		}
	}
	return out
}
