package weighted

import (
	"context"
	"testing"

	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
	"github.com/mihiraggarwal/tessera/pkg/routing"
)

// identityTransform is a planar-degenerate stand-in so tests can reason
// about plain coordinate arithmetic instead of true map projection.
type identityTransform struct{}

func (identityTransform) Project(lon, lat float64) (float64, float64) { return lon, lat }
func (identityTransform) Unproject(x, y float64) (float64, float64)   { return x, y }
func (identityTransform) ProjectAll(pts []orb.Point) []orb.Point      { return pts }
func (identityTransform) UnprojectAll(pts []orb.Point) []orb.Point    { return pts }

// zeroOracle reports every query as unreachable, forcing every penalty to 0.
type zeroOracle struct{}

func (zeroOracle) Route(ctx context.Context, src, dst orb.Point) (routing.Result, error) {
	return routing.Result{Connected: false}, nil
}

func (zeroOracle) Table(ctx context.Context, src orb.Point, dsts []orb.Point) ([]routing.Result, error) {
	out := make([]routing.Result, len(dsts))
	for i := range dsts {
		out[i] = routing.Result{Connected: false}
	}
	return out, nil
}

func gridFacilities() []model.Facility {
	return []model.Facility{
		{ID: "a", Lon: 0, Lat: 0},
		{ID: "b", Lon: 10, Lat: 0},
		{ID: "c", Lon: 0, Lat: 10},
		{ID: "d", Lon: 10, Lat: 10},
	}
}

func TestPenaltyIsZeroWithoutRoadData(t *testing.T) {
	facilities := gridFacilities()
	penalties, err := Penalty(context.Background(), zeroOracle{}, facilities, identityTransform{}, 2, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, f := range facilities {
		if penalties[f.ID] != 0 {
			t.Fatalf("expected zero penalty for %q with no road data, got %v", f.ID, penalties[f.ID])
		}
	}
}

func TestComputeRejectsFewerThanThreeGenerators(t *testing.T) {
	facilities := []model.Facility{{ID: "a"}, {ID: "b"}}
	_, _, err := Compute(facilities, nil, nil, identityTransform{}, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for fewer than 3 generators")
	}
	if _, ok := err.(*model.InvalidInputError); !ok {
		t.Fatalf("expected *model.InvalidInputError, got %T", err)
	}
}

func TestComputeProducesOneCellPerGeneratorWithZeroPenalty(t *testing.T) {
	facilities := gridFacilities()
	penalties := map[string]float64{"a": 0, "b": 0, "c": 0, "d": 0}

	opts := DefaultOptions()
	opts.GridResolution = 20
	opts.PruneK = 4

	fc, diagnostics, err := Compute(facilities, penalties, nil, identityTransform{}, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.Features) == 0 {
		t.Fatal("expected at least one weighted cell")
	}
	_ = diagnostics
}

var _ geo.Transformer = identityTransform{}
