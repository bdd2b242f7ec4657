package voronoi

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestDelaunaySquareProducesTwoTriangles(t *testing.T) {
	pts := []orb.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	d := newDelaunay(pts)
	real := d.realTriangles()
	if len(real) != 2 {
		t.Fatalf("expected 2 real triangles for a 4-point square, got %d: %v", len(real), real)
	}
}

func TestDelaunayEveryRealSiteIsIncident(t *testing.T) {
	pts := []orb.Point{{0, 0}, {5, 0}, {2, 4}, {8, 6}, {1, 9}}
	d := newDelaunay(pts)
	incident := d.incidentTriangles()
	for i := range pts {
		if len(incident[i]) == 0 {
			t.Fatalf("site %d has no incident triangles", i)
		}
	}
}

func TestCircumcenterEquidistantFromVertices(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{4, 0}
	c := orb.Point{0, 4}
	cc := circumcenter(a, b, c)

	da := math.Hypot(cc[0]-a[0], cc[1]-a[1])
	db := math.Hypot(cc[0]-b[0], cc[1]-b[1])
	dc := math.Hypot(cc[0]-c[0], cc[1]-c[1])

	const tol = 1e-9
	if math.Abs(da-db) > tol || math.Abs(db-dc) > tol {
		t.Fatalf("circumcenter not equidistant: da=%v db=%v dc=%v", da, db, dc)
	}
}

func TestCircumcenterDegenerateFallsBackToCentroid(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{1, 0}
	c := orb.Point{2, 0}
	cc := circumcenter(a, b, c)
	want := orb.Point{1, 0}
	if math.Abs(cc[0]-want[0]) > 1e-9 || math.Abs(cc[1]-want[1]) > 1e-9 {
		t.Fatalf("expected centroid fallback %v, got %v", want, cc)
	}
}
