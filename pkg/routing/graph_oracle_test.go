package routing

import (
	"context"
	"testing"

	"github.com/katalvlaran/lvlath/core"
	"github.com/paulmach/orb"
)

func lineGraph(t *testing.T) (*core.Graph, map[string]orb.Point) {
	t.Helper()
	g := core.NewGraph(core.WithDirected(false), core.WithWeighted())
	positions := map[string]orb.Point{
		"a": {0, 0},
		"b": {1000, 0},
		"c": {3000, 0},
	}
	for id := range positions {
		if err := g.AddVertex(id); err != nil {
			t.Fatalf("AddVertex: %v", err)
		}
	}
	if _, err := g.AddEdge("a", "b", 1000); err != nil {
		t.Fatalf("AddEdge a-b: %v", err)
	}
	if _, err := g.AddEdge("b", "c", 2000); err != nil {
		t.Fatalf("AddEdge b-c: %v", err)
	}
	return g, positions
}

func TestGraphOracleRouteSumsEdgeWeights(t *testing.T) {
	g, positions := lineGraph(t)
	o := NewGraphOracle(g, positions)

	res, err := o.Route(context.Background(), orb.Point{0, 0}, orb.Point{3000, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Connected {
		t.Fatal("expected a connected route")
	}
	if res.DistanceKm != 3 {
		t.Fatalf("expected 3km route distance, got %v", res.DistanceKm)
	}
}

func TestGraphOracleTableDisconnectedNode(t *testing.T) {
	g := core.NewGraph(core.WithDirected(false), core.WithWeighted())
	_ = g.AddVertex("a")
	_ = g.AddVertex("isolated")
	positions := map[string]orb.Point{"a": {0, 0}, "isolated": {500, 500}}
	o := NewGraphOracle(g, positions)

	results, err := o.Table(context.Background(), orb.Point{0, 0}, []orb.Point{{500, 500}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results[0].Connected {
		t.Fatal("expected disconnected result for an isolated node")
	}
}

func TestGraphOracleSnapsToNearestNode(t *testing.T) {
	g, positions := lineGraph(t)
	o := NewGraphOracle(g, positions)

	// Query point near "a" but not exactly on it.
	res, err := o.Route(context.Background(), orb.Point{10, 10}, orb.Point{2990, 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Connected || res.DistanceKm != 3 {
		t.Fatalf("expected snapped route of 3km, got %+v", res)
	}
}
