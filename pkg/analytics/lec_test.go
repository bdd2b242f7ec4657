package analytics

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestLargestEmptyCirclePicksFarthestVertex(t *testing.T) {
	generators := []orb.Point{{0, 0}, {100, 0}, {0, 100}, {100, 100}}
	vertices := []orb.Point{
		{50, 50}, // far from all corners
		{5, 5},   // close to the origin generator
	}
	region := orb.MultiPolygon{{{{-10, -10}, {110, -10}, {110, 110}, {-10, 110}, {-10, -10}}}}

	c, ok := LargestEmptyCircle(vertices, generators, region, identityTransform{})
	if !ok {
		t.Fatal("expected an admissible circle")
	}
	if math.Abs(c.CenterLon-50) > 1e-6 || math.Abs(c.CenterLat-50) > 1e-6 {
		t.Fatalf("expected centre (50,50), got (%v,%v)", c.CenterLon, c.CenterLat)
	}
}

func TestLargestEmptyCircleRejectsVerticesOutsideRegion(t *testing.T) {
	generators := []orb.Point{{0, 0}}
	vertices := []orb.Point{{1000, 1000}}
	region := orb.MultiPolygon{{{{-10, -10}, {10, -10}, {10, 10}, {-10, 10}, {-10, -10}}}}

	_, ok := LargestEmptyCircle(vertices, generators, region, identityTransform{})
	if ok {
		t.Fatal("expected no admissible circle when the only vertex is outside the region")
	}
}
