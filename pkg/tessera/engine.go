// Package tessera is the top-level facade: it wires projection, the
// boundary store, and a routing oracle together behind one Engine type
// exposing all four diagram flavours plus the process-wide "current
// diagram" slot spec §6 describes (init-on-compute, replace-on-recompute,
// explicit clear, atomic pointer-swap semantics).
package tessera

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/mihiraggarwal/tessera/internal/dcel"
	"github.com/mihiraggarwal/tessera/internal/refine"
	"github.com/mihiraggarwal/tessera/internal/roadvoronoi"
	"github.com/mihiraggarwal/tessera/internal/voronoi"
	"github.com/mihiraggarwal/tessera/internal/weighted"
	"github.com/mihiraggarwal/tessera/pkg/boundary"
	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/routing"
)

// Option structs and their Default constructors, re-exported so callers
// only ever import pkg/tessera.
type (
	VoronoiOptions    = voronoi.Options
	WeightedOptions   = weighted.Options
	RoadOptions       = roadvoronoi.Options
	RefinementOptions = refine.Options
	RoadGraph         = roadvoronoi.Graph
	RefinementResult  = refine.Result
)

func DefaultVoronoiOptions() VoronoiOptions       { return voronoi.DefaultOptions() }
func DefaultWeightedOptions() WeightedOptions     { return weighted.DefaultOptions() }
func DefaultRoadOptions() RoadOptions             { return roadvoronoi.DefaultOptions() }
func DefaultRefinementOptions() RefinementOptions { return refine.DefaultOptions() }

// Diagram is one immutable, published tessellation (spec §3's Lifecycle
// rule: "a diagram is a value... never mutated").
type Diagram struct {
	Kind        string // "euclidean", "weighted", "road_graph", "refined"
	Cells       *geojson.FeatureCollection
	Diagnostics []Diagnostic
}

// Engine wires the boundary store, projection, and routing oracle
// together and holds the process-wide "current diagram" slot. Every
// Compute* method both returns and publishes its result.
type Engine struct {
	Store  *boundary.Store
	Proj   geo.Transformer
	Oracle routing.Oracle
	Log    *logrus.Logger

	current atomicDiagram
}

// NewEngine constructs an Engine. oracle may be nil for callers that only
// ever compute Euclidean diagrams (C3 never consults the routing oracle).
func NewEngine(store *boundary.Store, proj geo.Transformer, oracle routing.Oracle, log *logrus.Logger) *Engine {
	return &Engine{Store: store, Proj: proj, Oracle: oracle, Log: log}
}

// Current returns the currently published diagram, and false if the slot
// has never been initialised or has been explicitly cleared.
func (e *Engine) Current() (Diagram, bool) {
	return e.current.load()
}

// Clear empties the "current diagram" slot.
func (e *Engine) Clear() {
	e.current.clear()
}

// geoBoundaryFor resolves a geographic clip polygon: the named state if
// stateFilter is non-empty, else Store.Dissolve's combination of every
// loaded state's polygons.
func (e *Engine) geoBoundaryFor(stateFilter string) (orb.MultiPolygon, error) {
	if stateFilter != "" {
		return e.Store.State(stateFilter)
	}
	return e.Store.Dissolve()
}

// planarBoundaryFor projects geoBoundaryFor's result into e.Proj's CRS,
// repairing round-trip noise the way Store.CountryPlanar does.
func (e *Engine) planarBoundaryFor(stateFilter string) (orb.MultiPolygon, error) {
	geoBoundary, err := e.geoBoundaryFor(stateFilter)
	if err != nil {
		return nil, err
	}
	planar := make(orb.MultiPolygon, 0, len(geoBoundary))
	for _, poly := range geoBoundary {
		p := make(orb.Polygon, len(poly))
		for i, ring := range poly {
			p[i] = orb.Ring(e.Proj.ProjectAll([]orb.Point(ring)))
		}
		planar = append(planar, voronoi.RepairPolygon(p))
	}
	return planar, nil
}

// ComputeVoronoi runs the Euclidean Voronoi pipeline (C3) and publishes
// the result as the current diagram.
func (e *Engine) ComputeVoronoi(facilities []Facility, stateFilter string, opts VoronoiOptions) (*geojson.FeatureCollection, []Diagnostic, error) {
	planarBoundary, err := e.planarBoundaryFor(stateFilter)
	if err != nil {
		return nil, nil, err
	}
	fc, diagnostics, err := voronoi.Compute(facilities, planarBoundary, e.Proj, opts)
	if err != nil {
		return nil, nil, err
	}
	e.current.store(Diagram{Kind: "euclidean", Cells: fc, Diagnostics: diagnostics})
	return fc, diagnostics, nil
}

// ComputeWeighted runs the additive-weighted pipeline (C7): per-generator
// routing penalties followed by dense grid realization.
func (e *Engine) ComputeWeighted(ctx context.Context, facilities []Facility, stateFilter string, opts WeightedOptions) (*geojson.FeatureCollection, []Diagnostic, error) {
	planarBoundary, err := e.planarBoundaryFor(stateFilter)
	if err != nil {
		return nil, nil, err
	}
	k := opts.K
	if k < 1 {
		k = 5
	}
	penalties, err := weighted.Penalty(ctx, e.Oracle, facilities, e.Proj, k, opts.Scale)
	if err != nil {
		return nil, nil, err
	}
	fc, diagnostics, err := weighted.Compute(facilities, penalties, planarBoundary, e.Proj, opts)
	if err != nil {
		return nil, nil, err
	}
	e.current.store(Diagram{Kind: "weighted", Cells: fc, Diagnostics: diagnostics})
	return fc, diagnostics, nil
}

// ComputeRoad runs the road-network Voronoi pipeline (C8) over graph.
func (e *Engine) ComputeRoad(graph *RoadGraph, facilities []Facility, opts RoadOptions) (*geojson.FeatureCollection, []Diagnostic, error) {
	fc, diagnostics, err := roadvoronoi.Compute(graph, facilities, opts)
	if err != nil {
		return nil, nil, err
	}
	e.current.store(Diagram{Kind: "road_graph", Cells: fc, Diagnostics: diagnostics})
	return fc, diagnostics, nil
}

// ComputeRefined runs the dominating-set refinement pipeline (C9) over the
// currently published Euclidean diagram, computing one first (and
// publishing it too) if none is current.
func (e *Engine) ComputeRefined(ctx context.Context, facilities []Facility, stateFilter string, voronoiOpts VoronoiOptions, refineOpts RefinementOptions) (*geojson.FeatureCollection, RefinementResult, []Diagnostic, error) {
	current, ok := e.Current()
	if !ok || current.Kind != "euclidean" {
		fc, _, err := e.ComputeVoronoi(facilities, stateFilter, voronoiOpts)
		if err != nil {
			return nil, RefinementResult{}, nil, err
		}
		current, _ = e.Current()
		_ = fc
	}

	d, err := dcel.Build(current.Cells)
	if err != nil {
		return nil, RefinementResult{}, nil, err
	}

	geoBoundary, err := e.geoBoundaryFor(stateFilter)
	if err != nil {
		return nil, RefinementResult{}, nil, err
	}

	fc, result, diagnostics, err := refine.Compute(ctx, d, current.Cells, geoBoundary, e.Oracle, refineOpts)
	if err != nil {
		return nil, RefinementResult{}, nil, err
	}
	e.current.store(Diagram{Kind: "refined", Cells: fc, Diagnostics: diagnostics})
	return fc, result, diagnostics, nil
}
