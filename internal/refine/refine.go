// Package refine locally warps a Euclidean Voronoi tessellation using a
// routing oracle, per spec §4.9: a greedy dominating set picks a sparse
// set of "centres", each centre's 1-hop neighbourhood is resampled and
// reassigned by road distance, and the reassigned points are
// re-polygonised by Delaunay triangulation and majority vote. Facilities
// untouched by any neighbourhood keep their original Euclidean cell.
package refine

import (
	"context"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/mihiraggarwal/tessera/internal/dcel"
	"github.com/mihiraggarwal/tessera/pkg/model"
	"github.com/mihiraggarwal/tessera/pkg/routing"
)

// Options configures a single Compute call.
type Options struct {
	// GridDensity is the number of sample points per axis within each
	// local region (spec §4.9 step 4's "sample a planar grid of points").
	GridDensity int
	// BatchSize caps how many grid points are grouped per routing
	// "batch" (spec's ≤100 sources/batch).
	BatchSize int
	// Workers bounds how many batches are processed concurrently.
	Workers int
	Log     *logrus.Logger
}

// DefaultOptions returns a conservative option set: a coarse grid keeps
// routing-query volume bounded for interactive use.
func DefaultOptions() Options {
	return Options{GridDensity: 8, BatchSize: 100, Workers: 4, Log: logrus.New()}
}

// Result carries the refinement run's summary metadata (spec §4.9's
// "number of routing queries is reported in the result metadata").
type Result struct {
	DominatingSetSize int
	RegionCount       int
	RoutingQueryCount int
}

// Compute derives the refined tessellation. euclidean is the C3 output and
// d is the DCEL built from it (via dcel.Build); boundary clips both region
// sampling and the final polygonisation.
func Compute(ctx context.Context, d *dcel.DCEL, euclidean *geojson.FeatureCollection, boundary orb.MultiPolygon, oracle routing.Oracle, opts Options) (*geojson.FeatureCollection, Result, []model.Diagnostic, error) {
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(logDiscard{})
	}
	if euclidean == nil || len(euclidean.Features) == 0 {
		return nil, Result{}, nil, &model.NoDataError{What: "no Euclidean tessellation to refine"}
	}

	ids := d.IDs()
	adjacency := buildAdjacency(ids, d.Adjacent)
	dominatingSet := greedyDominatingSet(ids, adjacency)

	var diagnostics []model.Diagnostic
	var allAssignments []assignment
	totalQueries := 0
	regionCount := 0

	for _, center := range dominatingSet {
		members := neighbourhood(center, adjacency)

		var cellPolygons []orb.Polygon
		var candidateIDs []string
		var candidatePositions []orb.Point
		for _, id := range members {
			poly, ok := d.Polygon(id)
			if !ok {
				continue
			}
			cellPolygons = append(cellPolygons, poly)
			candidateIDs = append(candidateIDs, id)
			lat, lng, ok := d.Centroid(id)
			if !ok {
				continue
			}
			candidatePositions = append(candidatePositions, orb.Point{lng, lat})
		}
		if len(cellPolygons) == 0 || len(candidateIDs) < 2 {
			continue
		}

		gridPoints := sampleRegion(cellPolygons, boundary, opts.GridDensity)
		if len(gridPoints) == 0 {
			continue
		}
		regionCount++

		assignments, queries := reassignByRoad(ctx, oracle, gridPoints, candidateIDs, candidatePositions, opts.BatchSize, opts.Workers)
		totalQueries += queries
		allAssignments = append(allAssignments, assignments...)
	}

	labelled := polygonize(allAssignments, boundary)

	fc := geojson.NewFeatureCollection()
	refined := make(map[string]bool, len(labelled))
	for _, lp := range labelled {
		if len(lp.pieces) == 0 {
			continue
		}
		refined[lp.facilityID] = true
		feat := geojson.NewFeature(lp.pieces)
		feat.ID = lp.facilityID
		feat.Properties = geojson.Properties{
			"facility_id":       lp.facilityID,
			"cell_type":         "road_refined",
			"grid_points_count": lp.pointCount,
			"area_sq_km":        areaSqKm(lp.pieces),
		}
		fc.Append(feat)
	}

	for _, feat := range euclidean.Features {
		id := stringProp(feat.Properties, "facility_id")
		if id != "" && refined[id] {
			continue
		}
		fallback := geojson.NewFeature(feat.Geometry)
		fallback.ID = feat.ID
		props := make(geojson.Properties, len(feat.Properties)+1)
		for k, v := range feat.Properties {
			props[k] = v
		}
		props["cell_type"] = "euclidean_fallback"
		fallback.Properties = props
		fc.Append(fallback)
	}

	result := Result{
		DominatingSetSize: len(dominatingSet),
		RegionCount:       regionCount,
		RoutingQueryCount: totalQueries,
	}
	log.WithFields(logrus.Fields{
		"dominating_set_size": result.DominatingSetSize,
		"regions":             result.RegionCount,
		"routing_queries":     result.RoutingQueryCount,
	}).Info("refinement complete")

	return fc, result, diagnostics, nil
}

func stringProp(p geojson.Properties, key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

type logDiscard struct{}

func (logDiscard) Write(p []byte) (int, error) { return len(p), nil }
