package routing

import (
	"context"
	"math"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dijkstra"
	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/pkg/model"
)

// assumedSpeedKmh converts a road-network distance into a duration
// estimate, in the absence of per-edge speed data. Test/demo only — a
// production oracle would return real durations from its backing service.
const assumedSpeedKmh = 40.0

// GraphOracle answers routing queries against an in-memory weighted graph
// (node id -> geographic position, plus weighted edges), running Dijkstra
// per query and snapping arbitrary points to their nearest graph node. It
// is a reference/test implementation, not a production routing engine.
type GraphOracle struct {
	graph     *core.Graph
	positions map[string]orb.Point
}

// NewGraphOracle wraps g (must be weighted, edge weights in metres) with
// node positions for snapping.
func NewGraphOracle(g *core.Graph, positions map[string]orb.Point) *GraphOracle {
	return &GraphOracle{graph: g, positions: positions}
}

// nearestNode returns the graph node id closest to p by planar distance.
func (o *GraphOracle) nearestNode(p orb.Point) (string, bool) {
	best := ""
	bestDist := math.Inf(1)
	found := false
	for id, pos := range o.positions {
		d := math.Hypot(pos[0]-p[0], pos[1]-p[1])
		if d < bestDist {
			bestDist = d
			best = id
			found = true
		}
	}
	return best, found
}

// Route implements Oracle.
func (o *GraphOracle) Route(ctx context.Context, src, dst orb.Point) (Result, error) {
	results, err := o.Table(ctx, src, []orb.Point{dst})
	if err != nil {
		return Result{}, err
	}
	return results[0], nil
}

// Table implements Oracle by running a single Dijkstra pass from src's
// snapped node and reading off each destination's snapped distance.
func (o *GraphOracle) Table(ctx context.Context, src orb.Point, dsts []orb.Point) ([]Result, error) {
	srcID, ok := o.nearestNode(src)
	if !ok {
		return nil, &model.RoutingUnavailableError{Cause: errEmptyGraph{}}
	}

	dist, _, err := dijkstra.Dijkstra(o.graph, dijkstra.Source(srcID))
	if err != nil {
		return nil, &model.RoutingUnavailableError{Cause: err}
	}

	out := make([]Result, len(dsts))
	for i, d := range dsts {
		select {
		case <-ctx.Done():
			return nil, &model.RoutingUnavailableError{Cause: ctx.Err()}
		default:
		}

		dstID, ok := o.nearestNode(d)
		if !ok {
			out[i] = Result{Connected: false}
			continue
		}
		metres, ok := dist[dstID]
		if !ok || metres >= math.MaxInt64/2 {
			out[i] = Result{Connected: false}
			continue
		}
		km := float64(metres) / 1000
		out[i] = Result{
			DistanceKm:  km,
			DurationMin: km / assumedSpeedKmh * 60,
			Connected:   true,
		}
	}
	return out, nil
}

type errEmptyGraph struct{}

func (errEmptyGraph) Error() string { return "graph has no nodes to snap to" }
