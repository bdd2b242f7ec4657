package analytics

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/pkg/model"
)

func TestOptimalSitingPicksDensestCatchment(t *testing.T) {
	generators := []orb.Point{{0, 0}, {200, 0}, {0, 200}, {200, 200}}
	vertices := []orb.Point{
		{100, 100}, // centre, far from all generators -> large catchment
	}
	districts := []model.District{
		{State: "S", District: "Dense", Population: 100000, Geometry: square(50, 50, 150, 150)},
	}
	planar := []orb.MultiPolygon{square(50, 50, 150, 150)}
	region := orb.MultiPolygon{square(-10, -10, 210, 210)}

	result := OptimalSiting(vertices, generators, districts, planar, region, identityTransform{})
	if !result.Success {
		t.Fatal("expected a successful siting result")
	}
	if result.CandidatesEvaluated != 1 {
		t.Fatalf("expected 1 candidate evaluated, got %d", result.CandidatesEvaluated)
	}
	if result.EstimatedPopulation <= 0 {
		t.Fatalf("expected positive estimated population, got %v", result.EstimatedPopulation)
	}
}

func TestOptimalSitingNoCandidatesInRegion(t *testing.T) {
	generators := []orb.Point{{0, 0}}
	vertices := []orb.Point{{1000, 1000}}
	region := orb.MultiPolygon{square(-10, -10, 10, 10)}

	result := OptimalSiting(vertices, generators, nil, nil, region, identityTransform{})
	if result.Success {
		t.Fatal("expected no successful siting result outside the region")
	}
	if result.CandidatesEvaluated != 0 {
		t.Fatalf("expected 0 candidates evaluated, got %d", result.CandidatesEvaluated)
	}
}

func square(x0, y0, x1, y1 float64) orb.MultiPolygon {
	ring := orb.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
	return orb.MultiPolygon{orb.Polygon{ring}}
}
