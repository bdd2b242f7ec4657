package population

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mihiraggarwal/tessera/pkg/model"
)

type identityTransform struct{}

func (identityTransform) Project(lon, lat float64) (float64, float64) { return lon, lat }
func (identityTransform) Unproject(x, y float64) (float64, float64)   { return x, y }
func (identityTransform) ProjectAll(pts []orb.Point) []orb.Point      { return pts }
func (identityTransform) UnprojectAll(pts []orb.Point) []orb.Point    { return pts }

func square(x0, y0, x1, y1 float64) orb.MultiPolygon {
	ring := orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
	return orb.MultiPolygon{orb.Polygon{ring}}
}

func TestWeighAttributesFullyContainedCell(t *testing.T) {
	districts := []model.District{
		{State: "S", District: "D1", Population: 1000, Geometry: square(0, 0, 10, 10)},
	}
	w := NewWeigher(districts, identityTransform{})

	fc := geojson.NewFeatureCollection()
	cellRing := orb.Ring{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}}
	feat := geojson.NewFeature(orb.Polygon{cellRing})
	feat.Properties = geojson.Properties{"facility_id": "f1"}
	fc.Append(feat)

	result, err := w.Weigh(fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attr, ok := result["f1"]
	if !ok {
		t.Fatal("expected attribution for f1")
	}
	// Cell area 4, district area 100, ratio 0.04, population 1000 -> 40.
	if attr.Population < 39 || attr.Population > 41 {
		t.Fatalf("expected population ~40, got %v", attr.Population)
	}
	if len(attr.Breakdown) != 1 {
		t.Fatalf("expected 1 breakdown entry, got %d", len(attr.Breakdown))
	}
	if attr.Breakdown[0].OverlapPercentage < 3.9 || attr.Breakdown[0].OverlapPercentage > 4.1 {
		t.Fatalf("expected overlap ~4%%, got %v", attr.Breakdown[0].OverlapPercentage)
	}
}

func TestWeighTruncatesBreakdownToFive(t *testing.T) {
	var districts []model.District
	for i := 0; i < 8; i++ {
		off := float64(i) * 10
		districts = append(districts, model.District{
			State: "S", District: "D", Population: int64(100 + i),
			Geometry: square(off, 0, off+12, 10),
		})
	}
	w := NewWeigher(districts, identityTransform{})

	fc := geojson.NewFeatureCollection()
	// A wide cell overlapping all 8 staggered districts.
	cellRing := orb.Ring{{-5, -5}, {80, -5}, {80, 15}, {-5, 15}, {-5, -5}}
	feat := geojson.NewFeature(orb.Polygon{cellRing})
	feat.Properties = geojson.Properties{"facility_id": "wide"}
	fc.Append(feat)

	result, err := w.Weigh(fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result["wide"].Breakdown) > 5 {
		t.Fatalf("expected breakdown truncated to 5, got %d", len(result["wide"].Breakdown))
	}
}

func TestWeighNoOverlapProducesZero(t *testing.T) {
	districts := []model.District{
		{State: "S", District: "D1", Population: 1000, Geometry: square(0, 0, 10, 10)},
	}
	w := NewWeigher(districts, identityTransform{})

	fc := geojson.NewFeatureCollection()
	cellRing := orb.Ring{{100, 100}, {110, 100}, {110, 110}, {100, 110}, {100, 100}}
	feat := geojson.NewFeature(orb.Polygon{cellRing})
	feat.Properties = geojson.Properties{"facility_id": "far"}
	fc.Append(feat)

	result, err := w.Weigh(fc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["far"].Population != 0 {
		t.Fatalf("expected zero population for non-overlapping cell, got %v", result["far"].Population)
	}
}
