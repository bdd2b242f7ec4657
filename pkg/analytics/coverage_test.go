package analytics

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mihiraggarwal/tessera/pkg/model"
)

func cellFeature(id string, population, area float64) *geojson.Feature {
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	f := geojson.NewFeature(orb.Polygon{ring})
	f.Properties = geojson.Properties{
		"facility_id": id,
		"population":  population,
		"area_sq_km":  area,
	}
	return f
}

func sampleCells() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(cellFeature("a", 1000, 5))
	fc.Append(cellFeature("b", 5000, 1))
	fc.Append(cellFeature("c", 500, 20))
	return fc
}

func TestOverburdenedOrdersByPopulation(t *testing.T) {
	top := Overburdened(sampleCells())
	if len(top) != 3 || top[0].FacilityID != "b" {
		t.Fatalf("expected 'b' as most populous, got %v", top)
	}
}

func TestUnderservedOrdersByArea(t *testing.T) {
	top := Underserved(sampleCells())
	if len(top) != 3 || top[0].FacilityID != "c" {
		t.Fatalf("expected 'c' as largest area, got %v", top)
	}
}

func TestStatsComputesMeans(t *testing.T) {
	stats := Stats(sampleCells())
	if stats.CellCount != 3 {
		t.Fatalf("expected 3 cells, got %d", stats.CellCount)
	}
	wantMeanPop := (1000.0 + 5000.0 + 500.0) / 3
	if stats.MeanPopulation != wantMeanPop {
		t.Fatalf("expected mean population %v, got %v", wantMeanPop, stats.MeanPopulation)
	}
}

func TestRecommendationsCriticalGap(t *testing.T) {
	recs := Recommendations(sampleCells(), model.Circle{Valid: true, RadiusKm: 15}, DefaultOptions())
	found := false
	for _, r := range recs {
		if r.Tag == "CRITICAL_GAP" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a CRITICAL_GAP recommendation for a 15km LEC radius, got %v", recs)
	}
}

func TestRecommendationsOverburdened(t *testing.T) {
	recs := Recommendations(sampleCells(), model.Circle{Valid: false}, DefaultOptions())
	found := false
	for _, r := range recs {
		if r.Tag == "OVERBURDENED" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an OVERBURDENED recommendation (cell 'b' has 5000 vs mean ~2167), got %v", recs)
	}
}

func TestRecommendationsCapacityCeiling(t *testing.T) {
	recs := Recommendations(sampleCells(), model.Circle{Valid: false}, Options{CapacityCeiling: 100})
	found := false
	for _, r := range recs {
		if r.Tag == "CAPACITY" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a CAPACITY recommendation when mean population exceeds the ceiling, got %v", recs)
	}
}
