package roadvoronoi

import (
	"testing"

	"github.com/katalvlaran/lvlath/core"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/mihiraggarwal/tessera/pkg/model"
)

// gridGraph builds a 3x3 grid of nodes, unit spacing, each edge weight
// 1000 (metres), with a-through-i ids row-major from bottom-left.
func gridGraph(t *testing.T) *Graph {
	t.Helper()
	g := core.NewGraph(core.WithDirected(false), core.WithWeighted())
	ids := [3][3]string{
		{"a", "b", "c"},
		{"d", "e", "f"},
		{"g", "h", "i"},
	}
	positions := make(map[string]orb.Point)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			id := ids[row][col]
			require.NoError(t, g.AddVertex(id))
			positions[id] = orb.Point{float64(col), float64(row)}
		}
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			id := ids[row][col]
			if col+1 < 3 {
				_, err := g.AddEdge(id, ids[row][col+1], 1000)
				require.NoError(t, err)
			}
			if row+1 < 3 {
				_, err := g.AddEdge(id, ids[row+1][col], 1000)
				require.NoError(t, err)
			}
		}
	}
	return &Graph{Core: g, Positions: positions}
}

func TestComputePartitionsGridBetweenTwoFacilities(t *testing.T) {
	g := gridGraph(t)
	facilities := []model.Facility{
		{ID: "southwest", Lon: 0, Lat: 0},
		{ID: "northeast", Lon: 2, Lat: 2},
	}

	fc, diagnostics, err := Compute(g, facilities, DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, diagnostics)
	require.Len(t, fc.Features, 2)
}

func TestComputeRejectsFewerThanTwoSnappableGenerators(t *testing.T) {
	g := gridGraph(t)
	facilities := []model.Facility{{ID: "only", Lon: 0, Lat: 0}}

	_, _, err := Compute(g, facilities, DefaultOptions())
	require.Error(t, err)
	require.IsType(t, &model.InvalidInputError{}, err)
}

func TestComputeDropsSecondFacilitySnappingToSameNode(t *testing.T) {
	g := gridGraph(t)
	facilities := []model.Facility{
		{ID: "first", Lon: 0, Lat: 0},
		{ID: "second", Lon: 0.01, Lat: 0.01},
		{ID: "third", Lon: 2, Lat: 2},
	}

	_, diagnostics, err := Compute(g, facilities, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, diagnostics, 1)
	require.Equal(t, "second", diagnostics[0].FacilityID)
}

func TestLargestComponentDropsIsolatedNodes(t *testing.T) {
	g := core.NewGraph(core.WithDirected(false), core.WithWeighted())
	require.NoError(t, g.AddVertex("a"))
	require.NoError(t, g.AddVertex("b"))
	require.NoError(t, g.AddVertex("isolated"))
	_, err := g.AddEdge("a", "b", 1000)
	require.NoError(t, err)

	full := &Graph{Core: g, Positions: map[string]orb.Point{
		"a": {0, 0}, "b": {1, 0}, "isolated": {10, 10},
	}}

	largest := LargestComponent(full)
	require.Len(t, largest.Positions, 2)
	require.NotContains(t, largest.Positions, "isolated")
}
