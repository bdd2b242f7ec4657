package refine

import (
	"context"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"

	"github.com/mihiraggarwal/tessera/internal/dcel"
	"github.com/mihiraggarwal/tessera/pkg/model"
	"github.com/mihiraggarwal/tessera/pkg/routing"
)

func squareFeature(id string, cx, cy, half float64) *geojson.Feature {
	ring := orb.Ring{
		{cx - half, cy - half},
		{cx + half, cy - half},
		{cx + half, cy + half},
		{cx - half, cy + half},
		{cx - half, cy - half},
	}
	f := geojson.NewFeature(orb.Polygon{ring})
	f.ID = id
	f.Properties = geojson.Properties{"facility_id": id, "name": id, "area_sq_km": (2 * half) * (2 * half)}
	return f
}

func threeSquareGrid() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(squareFeature("a", 0, 0, 1))
	fc.Append(squareFeature("b", 2, 0, 1))
	fc.Append(squareFeature("c", 0, 2, 1))
	return fc
}

// euclideanOracle answers every query by plain Euclidean distance, letting
// tests exercise the pipeline without asserting on specific road-distance
// routing behaviour.
type euclideanOracle struct{}

func (euclideanOracle) Route(ctx context.Context, src, dst orb.Point) (routing.Result, error) {
	d := math.Hypot(src[0]-dst[0], src[1]-dst[1])
	return routing.Result{DistanceKm: d, Connected: true}, nil
}

func (euclideanOracle) Table(ctx context.Context, src orb.Point, dsts []orb.Point) ([]routing.Result, error) {
	out := make([]routing.Result, len(dsts))
	for i, d := range dsts {
		dist := math.Hypot(src[0]-d[0], src[1]-d[1])
		out[i] = routing.Result{DistanceKm: dist, Connected: true}
	}
	return out, nil
}

func TestComputeProducesOneCellPerFacility(t *testing.T) {
	fc := threeSquareGrid()
	d, err := dcel.Build(fc)
	require.NoError(t, err)
	boundary := orb.MultiPolygon{{orb.Ring{{-3, -3}, {4, -3}, {4, 4}, {-3, 4}, {-3, -3}}}}

	opts := DefaultOptions()
	opts.GridDensity = 4

	out, result, diagnostics, err := Compute(context.Background(), d, fc, boundary, euclideanOracle{}, opts)
	require.NoError(t, err)
	require.Empty(t, diagnostics)
	require.Len(t, out.Features, 3)
	require.NotZero(t, result.DominatingSetSize)
	require.NotZero(t, result.RoutingQueryCount)

	seen := make(map[string]bool)
	for _, feat := range out.Features {
		id, _ := feat.Properties["facility_id"].(string)
		seen[id] = true
		cellType, _ := feat.Properties["cell_type"].(string)
		require.Contains(t, []string{"road_refined", "euclidean_fallback"}, cellType)
	}
	for _, id := range []string{"a", "b", "c"} {
		require.True(t, seen[id], "expected a cell for facility %q", id)
	}
}

func TestComputeRejectsEmptyEuclideanInput(t *testing.T) {
	fc := threeSquareGrid()
	d, err := dcel.Build(fc)
	require.NoError(t, err)

	_, _, _, err = Compute(context.Background(), d, geojson.NewFeatureCollection(), nil, euclideanOracle{}, DefaultOptions())
	require.Error(t, err)
	require.IsType(t, &model.NoDataError{}, err)
}

func TestGreedyDominatingSetCoversEveryNode(t *testing.T) {
	adjacency := map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
		"c": {"b"},
	}
	set := greedyDominatingSet([]string{"a", "b", "c"}, adjacency)

	covered := make(map[string]bool)
	for _, s := range set {
		covered[s] = true
		for _, n := range adjacency[s] {
			covered[n] = true
		}
	}
	for _, id := range []string{"a", "b", "c"} {
		require.True(t, covered[id], "node %q not covered by dominating set %v", id, set)
	}
}
