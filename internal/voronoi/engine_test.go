package voronoi

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

type identityTransform struct{}

func (identityTransform) Project(lon, lat float64) (float64, float64) { return lon, lat }
func (identityTransform) Unproject(x, y float64) (float64, float64)   { return x, y }
func (identityTransform) ProjectAll(pts []orb.Point) []orb.Point      { return pts }
func (identityTransform) UnprojectAll(pts []orb.Point) []orb.Point    { return pts }

var _ geo.Transformer = identityTransform{}

func TestComputeRejectsFewerThanThreeGenerators(t *testing.T) {
	facilities := []model.Facility{
		{ID: "a", Lon: 0, Lat: 0},
		{ID: "b", Lon: 1, Lat: 1},
	}
	_, _, err := Compute(facilities, nil, identityTransform{}, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for fewer than 3 generators")
	}
	if _, ok := err.(*model.InvalidInputError); !ok {
		t.Fatalf("expected *model.InvalidInputError, got %T: %v", err, err)
	}
}

func TestComputeProducesOneFeaturePerFacility(t *testing.T) {
	facilities := []model.Facility{
		{ID: "a", Name: "Alpha", Lon: 0, Lat: 0},
		{ID: "b", Name: "Bravo", Lon: 10, Lat: 0},
		{ID: "c", Name: "Charlie", Lon: 5, Lat: 10},
		{ID: "d", Name: "Delta", Lon: 5, Lat: -10},
	}
	boundary := orb.MultiPolygon{{{{-50, -50}, {50, -50}, {50, 50}, {-50, 50}, {-50, -50}}}}

	fc, diags, err := Compute(facilities, boundary, identityTransform{}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics for well-separated generators, got %v", diags)
	}
	if len(fc.Features) != len(facilities) {
		t.Fatalf("expected %d features, got %d", len(facilities), len(fc.Features))
	}
	for _, feat := range fc.Features {
		area, ok := feat.Properties["area_sq_km"].(float64)
		if !ok || area <= 0 {
			t.Fatalf("expected positive area_sq_km, got %v", feat.Properties["area_sq_km"])
		}
	}
}

func TestComputeClipsToBoundary(t *testing.T) {
	facilities := []model.Facility{
		{ID: "a", Lon: 0, Lat: 0},
		{ID: "b", Lon: 10, Lat: 0},
		{ID: "c", Lon: 5, Lat: 10},
	}
	// A tight boundary much smaller than the unbounded ray-extruded cells.
	boundary := orb.MultiPolygon{{{{-2, -2}, {12, -2}, {12, 12}, {-2, 12}, {-2, -2}}}}

	fc, _, err := Compute(facilities, boundary, identityTransform{}, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, feat := range fc.Features {
		area := feat.Properties["area_sq_km"].(float64)
		// Boundary is 14x14 planar units = 196 m^2 under the identity
		// transform, i.e. 0.000196 "sq km"; no single cell should exceed the
		// whole boundary.
		if area > 196.0/1_000_000 {
			t.Fatalf("cell area %v exceeds clipping boundary area, clip not applied", area)
		}
	}
}
