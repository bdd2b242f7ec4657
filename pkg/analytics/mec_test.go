package analytics

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

type identityTransform struct{}

func (identityTransform) Project(lon, lat float64) (float64, float64) { return lon, lat }
func (identityTransform) Unproject(x, y float64) (float64, float64)   { return x, y }
func (identityTransform) ProjectAll(pts []orb.Point) []orb.Point      { return pts }
func (identityTransform) UnprojectAll(pts []orb.Point) []orb.Point    { return pts }

func TestMinimumEnclosingCircleSquareCorners(t *testing.T) {
	pts := []orb.Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	c, err := MinimumEnclosingCircle(pts, identityTransform{}, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(c.CenterLon-5) > 1e-6 || math.Abs(c.CenterLat-5) > 1e-6 {
		t.Fatalf("expected centre (5,5), got (%v,%v)", c.CenterLon, c.CenterLat)
	}
	wantRadiusKm := math.Hypot(5, 5) / 1000
	if math.Abs(c.RadiusKm-wantRadiusKm) > 1e-6 {
		t.Fatalf("expected radius %v km, got %v", wantRadiusKm, c.RadiusKm)
	}
}

func TestMinimumEnclosingCircleContainsAllPoints(t *testing.T) {
	pts := []orb.Point{{0, 0}, {3, 7}, {5, 1}, {9, 9}, {-2, 4}, {6, -3}}
	c, err := MinimumEnclosingCircle(pts, identityTransform{}, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range pts {
		d := math.Hypot(p[0]-c.CenterLon, p[1]-c.CenterLat) / 1000
		if d > c.RadiusKm+1e-6 {
			t.Fatalf("point %v lies outside the computed enclosing circle (d=%v, r=%v)", p, d, c.RadiusKm)
		}
	}
}

func TestMinimumEnclosingCircleSinglePoint(t *testing.T) {
	c, err := MinimumEnclosingCircle([]orb.Point{{1, 1}}, identityTransform{}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.RadiusKm != 0 {
		t.Fatalf("expected zero radius for a single point, got %v", c.RadiusKm)
	}
}

func TestMinimumEnclosingCircleEmptyErrors(t *testing.T) {
	if _, err := MinimumEnclosingCircle(nil, identityTransform{}, 1); err == nil {
		t.Fatal("expected error for empty point set")
	}
}
