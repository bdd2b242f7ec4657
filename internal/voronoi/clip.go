package voronoi

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// RepairPolygon cleans up float round-trip noise left by projection: in
// each ring it drops a vertex that lies within epsilon of the vertex before
// it, discards rings left with fewer than 3 points, and closes the rest.
// It does not resolve self-intersections and does not remove colinear
// vertices; boundary sources are expected to already be simple polygons.
func RepairPolygon(poly orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(poly))
	for _, ring := range poly {
		cleaned := dedupe([]orb.Point(ring))
		if len(cleaned) < 3 {
			continue
		}
		out = append(out, CloseRing(cleaned))
	}
	return out
}

// clipToTriangle clips a convex polygon subject against a triangle using
// Sutherland-Hodgman, exploiting the fact that every Voronoi cell this
// package produces is convex. subject is given as an open point list
// (first != last).
func clipToTriangle(subject []orb.Point, tri [3]orb.Point) []orb.Point {
	out := subject
	for i := 0; i < 3; i++ {
		a, b := tri[i], tri[(i+1)%3]
		out = clipHalfPlane(out, a, b)
		if len(out) == 0 {
			return nil
		}
	}
	return out
}

// clipHalfPlane clips polygon against the half-plane to the left of the
// directed edge a->b (ccw winding keeps the triangle's interior on the
// left).
func clipHalfPlane(poly []orb.Point, a, b orb.Point) []orb.Point {
	if len(poly) == 0 {
		return nil
	}
	var out []orb.Point
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		prev := poly[(i-1+n)%n]
		curIn := orientation(a, b, cur) >= 0
		prevIn := orientation(a, b, prev) >= 0

		if curIn {
			if !prevIn {
				out = append(out, segmentIntersect(prev, cur, a, b))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, segmentIntersect(prev, cur, a, b))
		}
	}
	return out
}

func segmentIntersect(p1, p2, a, b orb.Point) orb.Point {
	d1 := orientation(a, b, p1)
	d2 := orientation(a, b, p2)
	t := d1 / (d1 - d2)
	return orb.Point{
		p1[0] + t*(p2[0]-p1[0]),
		p1[1] + t*(p2[1]-p1[1]),
	}
}

// earClipTriangles triangulates a simple, possibly non-convex ring using
// the standard O(n^2) ear-clipping algorithm. The ring is taken as open
// (first point not repeated); a clockwise ring is reversed to
// counter-clockwise before clipping ears. Used to decompose
// a non-convex boundary polygon into convex triangles so a (guaranteed
// convex) Voronoi cell can be clipped against it piecewise via
// Sutherland-Hodgman, since orb offers no general polygon-polygon boolean
// intersection.
func earClipTriangles(ring []orb.Point) [][3]orb.Point {
	pts := make([]orb.Point, len(ring))
	copy(pts, ring)
	if orientation2(pts) < 0 {
		reverse(pts)
	}

	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}

	var tris [][3]orb.Point
	guard := 0
	for len(idx) > 3 && guard < len(ring)*len(ring)+8 {
		guard++
		earFound := false
		for i := 0; i < len(idx); i++ {
			i0 := idx[(i-1+len(idx))%len(idx)]
			i1 := idx[i]
			i2 := idx[(i+1)%len(idx)]
			a, b, c := pts[i0], pts[i1], pts[i2]
			if orientation(a, b, c) <= 0 {
				continue // reflex vertex, can't be an ear
			}
			isEar := true
			for _, j := range idx {
				if j == i0 || j == i1 || j == i2 {
					continue
				}
				if pointInTriangle(pts[j], a, b, c) {
					isEar = false
					break
				}
			}
			if !isEar {
				continue
			}
			tris = append(tris, [3]orb.Point{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			break // degenerate polygon; stop rather than loop forever
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]orb.Point{pts[idx[0]], pts[idx[1]], pts[idx[2]]})
	}
	return tris
}

func orientation2(pts []orb.Point) float64 {
	var sum float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		sum += (b[0] - a[0]) * (b[1] + a[1])
	}
	return -sum
}

func reverse(pts []orb.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

func pointInTriangle(p, a, b, c orb.Point) bool {
	d1 := orientation(a, b, p)
	d2 := orientation(b, c, p)
	d3 := orientation(c, a, p)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// clipToPolygon clips a convex Voronoi cell against an arbitrary simple
// boundary polygon by triangulating the polygon's outer ring (ear
// clipping) and Sutherland-Hodgman-clipping the cell against every
// resulting triangle, returning every surviving piece. A cell can straddle
// the diagonal the ear-clipper introduces between two triangles, so the
// true clipped region is in general the union of more than one piece;
// returning all of them (rather than picking a single "largest" winner)
// is what keeps the total clipped area correct. Holes are handled by
// clipping away any piece whose centroid falls inside a hole.
func clipToPolygon(cell []orb.Point, poly orb.Polygon) [][]orb.Point {
	if len(poly) == 0 {
		return nil
	}
	outer := []orb.Point(poly[0])
	if len(outer) > 0 && outer[0] == outer[len(outer)-1] {
		outer = outer[:len(outer)-1]
	}
	tris := earClipTriangles(outer)

	var pieces [][]orb.Point
	for _, tri := range tris {
		piece := clipToTriangle(cell, tri)
		if len(piece) < 3 {
			continue
		}
		if len(poly) > 1 && pieceInHole(piece, poly[1:]) {
			continue
		}
		pieces = append(pieces, piece)
	}
	return pieces
}

// ClipToPolygon is the exported form of clipToPolygon, for callers outside
// this package that polygonize their own convex cells against a boundary —
// the weighted diagram's grid-based cell realization in particular. It
// returns every surviving clipped piece; callers render the cell as a
// multi-piece geometry (one ring per piece) rather than assuming a single
// simple polygon, since the true intersection can be disjoint across an
// ear-clip diagonal.
func ClipToPolygon(cell []orb.Point, poly orb.Polygon) [][]orb.Point {
	return clipToPolygon(cell, poly)
}

// ClipConvexAgainstPolygon returns the total area of the intersection
// between a convex polygon (cell, open point list) and an arbitrary simple
// polygon, by summing clipped-triangle pieces directly rather than returning
// them (unlike clipToPolygon, which returns the pieces themselves for
// callers that need the actual shape, not just its area). Used by the
// population weigher's intersection-area ratio (§4.5), where only the true
// total overlap area is needed.
func ClipConvexAgainstPolygon(cell []orb.Point, poly orb.Polygon) float64 {
	if len(poly) == 0 {
		return 0
	}
	outer := []orb.Point(poly[0])
	if len(outer) > 0 && outer[0] == outer[len(outer)-1] {
		outer = outer[:len(outer)-1]
	}
	tris := earClipTriangles(outer)

	var total float64
	for _, tri := range tris {
		piece := clipToTriangle(cell, tri)
		if len(piece) < 3 {
			continue
		}
		if len(poly) > 1 && pieceInHole(piece, poly[1:]) {
			continue
		}
		total += polygonArea(piece)
	}
	return total
}

// ClipTriangleToPolygon clips a single triangle against an arbitrary
// simple boundary polygon, returning every resulting piece (a triangle may
// straddle a concave boundary edge and split into several). Shares the
// same ear-clip-then-Sutherland-Hodgman machinery as clipToPolygon, but
// applied to a triangle rather than a Voronoi cell, and unlike
// ClipConvexAgainstPolygon it returns the pieces rather than their total area —
// the dominating-set refinement's polygonisation needs the actual clipped
// shapes to dissolve per facility label.
func ClipTriangleToPolygon(tri [3]orb.Point, poly orb.Polygon) [][]orb.Point {
	if len(poly) == 0 {
		return nil
	}
	outer := []orb.Point(poly[0])
	if len(outer) > 0 && outer[0] == outer[len(outer)-1] {
		outer = outer[:len(outer)-1]
	}
	boundaryTris := earClipTriangles(outer)

	var pieces [][]orb.Point
	for _, bt := range boundaryTris {
		piece := clipToTriangle(tri[:], bt)
		if len(piece) < 3 {
			continue
		}
		if len(poly) > 1 && pieceInHole(piece, poly[1:]) {
			continue
		}
		pieces = append(pieces, piece)
	}
	return pieces
}

func pieceInHole(piece []orb.Point, holes []orb.Ring) bool {
	c := centroidOf(piece)
	for _, h := range holes {
		if PointInRing(c, h) {
			return true
		}
	}
	return false
}

func centroidOf(pts []orb.Point) orb.Point {
	var x, y float64
	for _, p := range pts {
		x += p[0]
		y += p[1]
	}
	n := float64(len(pts))
	return orb.Point{x / n, y / n}
}

func polygonArea(pts []orb.Point) float64 {
	ring := CloseRing(pts)
	return math.Abs(planar.Area(orb.Polygon{ring}))
}
