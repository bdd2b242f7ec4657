package voronoi

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestConvexHullSquareWithInteriorPoint(t *testing.T) {
	pts := []orb.Point{
		{0, 0}, {4, 0}, {4, 4}, {0, 4}, {2, 2},
	}
	hull := ConvexHull(pts)
	if len(hull) != 4 {
		t.Fatalf("expected 4 hull points, got %d: %v", len(hull), hull)
	}
	for _, p := range hull {
		if p == (orb.Point{2, 2}) {
			t.Fatalf("interior point leaked into hull: %v", hull)
		}
	}
}

func TestConvexHullCollinear(t *testing.T) {
	pts := []orb.Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	hull := ConvexHull(pts)
	if len(hull) > 2 {
		t.Fatalf("collinear points should collapse to at most 2 hull points, got %v", hull)
	}
}

func TestAngularSortOrdersCounterClockwise(t *testing.T) {
	centre := orb.Point{0, 0}
	pts := []orb.Point{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	sorted := AngularSort(centre, pts)
	want := []orb.Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v (full: %v)", i, sorted[i], want[i], sorted)
		}
	}
}

func TestPointInRingSquare(t *testing.T) {
	ring := orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	if !PointInRing(orb.Point{2, 2}, ring) {
		t.Fatal("expected centre point to be inside")
	}
	if PointInRing(orb.Point{10, 10}, ring) {
		t.Fatal("expected far point to be outside")
	}
}

func TestPointInPolygonWithHole(t *testing.T) {
	outer := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	hole := orb.Ring{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}}
	poly := orb.Polygon{outer, hole}

	if !PointInPolygon(orb.Point{1, 1}, poly) {
		t.Fatal("expected point near outer edge to be inside")
	}
	if PointInPolygon(orb.Point{5, 5}, poly) {
		t.Fatal("expected point inside the hole to be outside the polygon")
	}
}

func TestCloseRingIdempotent(t *testing.T) {
	open := []orb.Point{{0, 0}, {1, 0}, {1, 1}}
	closed := CloseRing(open)
	if closed[0] != closed[len(closed)-1] {
		t.Fatalf("ring not closed: %v", closed)
	}
	reclosed := CloseRing([]orb.Point(closed))
	if len(reclosed) != len(closed) {
		t.Fatalf("re-closing an already-closed ring should be a no-op, got %v", reclosed)
	}
}

func TestExtent(t *testing.T) {
	pts := []orb.Point{{0, 0}, {3, 1}, {1, 5}}
	if got := Extent(pts); got != 5 {
		t.Fatalf("expected extent 5 (height dominates), got %v", got)
	}
}
