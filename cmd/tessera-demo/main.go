// Command tessera-demo exercises the tessera pipeline end to end: load
// facilities and a boundary, compute one diagram flavour, and print the
// resulting cell count plus coverage stats.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/katalvlaran/lvlath/core"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/mihiraggarwal/tessera/internal/logging"
	"github.com/mihiraggarwal/tessera/internal/roadvoronoi"
	"github.com/mihiraggarwal/tessera/pkg/boundary"
	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
	"github.com/mihiraggarwal/tessera/pkg/routing"
	"github.com/mihiraggarwal/tessera/pkg/tessera"
)

func main() {
	facilitiesPath := flag.String("facilities", "", "path to a JSON array of facilities (required)")
	statesPath := flag.String("states", "", "path to a states GeoJSON FeatureCollection (required)")
	countryPath := flag.String("country", "", "path to a country boundary GeoJSON file (optional)")
	stateFilter := flag.String("state", "", "clip to one named state instead of the dissolved union")
	mode := flag.String("mode", "euclidean", "diagram flavour: euclidean | weighted | road | refined")
	meridian := flag.Float64("meridian", 0, "central meridian (degrees) for the planar projection")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	if *facilitiesPath == "" || *statesPath == "" {
		fmt.Fprintln(os.Stderr, "usage: tessera-demo -facilities FILE -states FILE [-state NAME] [-mode euclidean|weighted|road|refined]")
		os.Exit(2)
	}

	level := logrus.InfoLevel
	if *verbose {
		level = logrus.DebugLevel
	}
	logger := logging.New(level)

	facilities, err := loadFacilities(*facilitiesPath)
	if err != nil {
		logger.WithError(err).Fatal("loading facilities")
	}

	store, err := boundary.NewStore(*countryPath, *statesPath, geo.Bounds{}, logger)
	if err != nil {
		logger.WithError(err).Fatal("loading boundary store")
	}

	proj := geo.NewTransverseMercator(*meridian)
	oracle := demoOracle(facilities)
	engine := tessera.NewEngine(store, proj, oracle, logger)

	var cellCount int
	switch *mode {
	case "euclidean":
		out, diagnostics, err := engine.ComputeVoronoi(facilities, *stateFilter, tessera.DefaultVoronoiOptions())
		if err != nil {
			logger.WithError(err).Fatal("computing euclidean diagram")
		}
		reportDiagnostics(logger, diagnostics)
		cellCount = len(out.Features)
	case "weighted":
		out, diagnostics, err := engine.ComputeWeighted(context.Background(), facilities, *stateFilter, tessera.DefaultWeightedOptions())
		if err != nil {
			logger.WithError(err).Fatal("computing weighted diagram")
		}
		reportDiagnostics(logger, diagnostics)
		cellCount = len(out.Features)
	case "road":
		graph := demoRoadGraph(facilities)
		out, diagnostics, err := engine.ComputeRoad(graph, facilities, tessera.DefaultRoadOptions())
		if err != nil {
			logger.WithError(err).Fatal("computing road diagram")
		}
		reportDiagnostics(logger, diagnostics)
		cellCount = len(out.Features)
	case "refined":
		out, result, diagnostics, err := engine.ComputeRefined(context.Background(), facilities, *stateFilter, tessera.DefaultVoronoiOptions(), tessera.DefaultRefinementOptions())
		if err != nil {
			logger.WithError(err).Fatal("computing refined diagram")
		}
		reportDiagnostics(logger, diagnostics)
		logger.WithField("dominating_set_size", result.DominatingSetSize).
			WithField("routing_queries", result.RoutingQueryCount).
			Info("refinement summary")
		cellCount = len(out.Features)
	default:
		logger.Fatalf("unknown -mode %q", *mode)
	}

	fmt.Printf("computed %d cells\n", cellCount)

	if stats, err := engine.CoverageStats(); err == nil {
		fmt.Printf("cells=%d total_area_sq_km=%.2f mean_area_sq_km=%.2f\n",
			stats.CellCount, stats.TotalAreaSqKm, stats.MeanAreaSqKm)
	}
}

func loadFacilities(path string) ([]model.Facility, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var facilities []model.Facility
	if err := json.Unmarshal(data, &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

func reportDiagnostics(log *logrus.Logger, diagnostics []model.Diagnostic) {
	for _, d := range diagnostics {
		log.WithField("facility_id", d.FacilityID).Warn(d.Err.Error())
	}
}

// ringGraph builds a small in-memory weighted graph connecting facilities
// back-to-back in a ring, with node positions for snapping — enough
// topology for -mode weighted/road/refined to have road-distance data
// without an external routing backend.
func ringGraph(facilities []model.Facility) (*core.Graph, map[string]orb.Point) {
	g := core.NewGraph(core.WithWeighted())
	positions := make(map[string]orb.Point, len(facilities))
	for _, f := range facilities {
		_ = g.AddVertex(f.ID)
		positions[f.ID] = orb.Point{f.Lon, f.Lat}
	}
	for i := range facilities {
		j := (i + 1) % len(facilities)
		if i == j {
			break
		}
		weight := int64(1000 * (1 + i%3))
		_, _ = g.AddEdge(facilities[i].ID, facilities[j].ID, weight)
	}
	return g, positions
}

func demoOracle(facilities []model.Facility) routing.Oracle {
	g, positions := ringGraph(facilities)
	return routing.NewGraphOracle(g, positions)
}

func demoRoadGraph(facilities []model.Facility) *roadvoronoi.Graph {
	g, positions := ringGraph(facilities)
	return &roadvoronoi.Graph{Core: g, Positions: positions}
}
