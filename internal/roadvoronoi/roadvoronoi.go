package roadvoronoi

import (
	"math"

	"github.com/katalvlaran/lvlath/dijkstra"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/mihiraggarwal/tessera/internal/voronoi"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// Options configures a single Compute call.
type Options struct {
	Log *logrus.Logger
}

// DefaultOptions returns the zero-value-safe option set.
func DefaultOptions() Options {
	return Options{Log: logrus.New()}
}

// kmPerDegree returns the (lon, lat) degree-to-km scale factors evaluated
// at latitude lat, per spec §4.8 step 5's "latitude-scaled degree-to-km
// factor".
func kmPerDegree(lat float64) (lonKm, latKm float64) {
	rad := lat * math.Pi / 180
	return 111.320 * math.Cos(rad), 110.574
}

// Compute snaps every facility onto its nearest road-network node,
// partitions the graph by multi-source Dijkstra, and polygonizes each
// partition's convex hull — the C8 pipeline of spec §4.8.
func Compute(g *Graph, facilities []model.Facility, opts Options) (*geojson.FeatureCollection, []model.Diagnostic, error) {
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(logDiscard{})
	}

	component := LargestComponent(g)

	type source struct {
		facility model.Facility
		nodeID   string
	}

	seenNode := make(map[string]bool, len(facilities))
	var sources []source
	var diagnostics []model.Diagnostic

	for _, f := range facilities {
		nodeID, ok := nearestNode(component, orb.Point{f.Lon, f.Lat})
		if !ok {
			diagnostics = append(diagnostics, model.Diagnostic{
				FacilityID: f.ID,
				Err:        &model.DisconnectedGraphError{FacilityID: f.ID},
			})
			log.WithField("facility_id", f.ID).Warn("facility unreachable in road graph")
			continue
		}
		if seenNode[nodeID] {
			// First-wins tie-break: a later facility snapping to an
			// already-claimed node is dropped rather than silently
			// merged into the earlier facility's region.
			diagnostics = append(diagnostics, model.Diagnostic{
				FacilityID: f.ID,
				Err:        &model.DisconnectedGraphError{FacilityID: f.ID},
			})
			log.WithField("facility_id", f.ID).Warn("facility snapped to a node already claimed by another facility")
			continue
		}
		seenNode[nodeID] = true
		sources = append(sources, source{facility: f, nodeID: nodeID})
	}

	if len(sources) < 2 {
		return nil, diagnostics, &model.InvalidInputError{Reason: "at least 2 snappable generators are required to compute a road Voronoi partition"}
	}

	// Multi-source Dijkstra by running one single-source pass per source
	// and keeping, for each node, the source with minimum distance (ties
	// broken by source insertion order, i.e. by scanning sources in the
	// order they were snapped and only overwriting on a strictly smaller
	// distance).
	assignedSource := make(map[string]int, len(component.Positions))
	bestDist := make(map[string]int64, len(component.Positions))

	for i, s := range sources {
		dist, _, err := dijkstra.Dijkstra(component.Core, dijkstra.Source(s.nodeID))
		if err != nil {
			diagnostics = append(diagnostics, model.Diagnostic{
				FacilityID: s.facility.ID,
				Err:        &model.RoutingUnavailableError{FacilityID: s.facility.ID, Cause: err},
			})
			continue
		}
		for nodeID, d := range dist {
			if existing, ok := bestDist[nodeID]; !ok || d < existing {
				bestDist[nodeID] = d
				assignedSource[nodeID] = i
			}
		}
	}

	ownedPoints := make([][]orb.Point, len(sources))
	for nodeID, srcIdx := range assignedSource {
		ownedPoints[srcIdx] = append(ownedPoints[srcIdx], component.Positions[nodeID])
	}

	fc := geojson.NewFeatureCollection()
	for i, s := range sources {
		points := ownedPoints[i]
		if len(points) == 0 {
			points = []orb.Point{component.Positions[s.nodeID]}
		}

		hull := voronoi.ConvexHull(points)
		if len(hull) < 3 {
			diag := model.Diagnostic{
				FacilityID: s.facility.ID,
				Err:        &model.GeometryDegenerateError{FacilityID: s.facility.ID, Reason: "fewer than 3 distinct nodes assigned to this source"},
			}
			diagnostics = append(diagnostics, diag)
			log.WithField("facility_id", s.facility.ID).Warn(diag.Err.Error())
			continue
		}

		ring := voronoi.CloseRing(hull)
		areaSqKm := geographicRingAreaSqKm(ring)

		feat := geojson.NewFeature(orb.Polygon{ring})
		feat.ID = s.facility.ID
		feat.Properties = geojson.Properties{
			"name":         s.facility.Name,
			"facility_id":  s.facility.ID,
			"type":         s.facility.Type,
			"area_sq_km":   areaSqKm,
			"centroid_lng": s.facility.Lon,
			"centroid_lat": s.facility.Lat,
			"cell_type":    "road_graph",
			"node_count":   len(points),
		}
		fc.Append(feat)
	}

	return fc, diagnostics, nil
}

// nearestNode returns the id of g's node closest to p by planar distance
// over its geographic coordinates — an approximation acceptable at
// road-network node density, matching GraphOracle's own snap behaviour.
func nearestNode(g *Graph, p orb.Point) (string, bool) {
	best := ""
	bestDist := math.Inf(1)
	found := false
	for id, pos := range g.Positions {
		d := math.Hypot(pos[0]-p[0], pos[1]-p[1])
		if d < bestDist {
			bestDist = d
			best = id
			found = true
		}
	}
	return best, found
}

// geographicRingAreaSqKm computes a ring's area via the shoelace formula in
// degree space, then rescales by the per-axis km/degree factor evaluated
// at the ring's centroid latitude.
func geographicRingAreaSqKm(ring []orb.Point) float64 {
	if len(ring) < 4 {
		return 0
	}
	var sumLat, sumLon float64
	for _, p := range ring[:len(ring)-1] {
		sumLon += p[0]
		sumLat += p[1]
	}
	n := float64(len(ring) - 1)
	centroidLat := sumLat / n
	centroidLon := sumLon / n

	lonKm, latKm := kmPerDegree(centroidLat)

	var area float64
	for i := 0; i < len(ring)-1; i++ {
		x1 := (ring[i][0] - centroidLon) * lonKm
		y1 := (ring[i][1] - centroidLat) * latKm
		x2 := (ring[i+1][0] - centroidLon) * lonKm
		y2 := (ring[i+1][1] - centroidLat) * latKm
		area += x1*y2 - x2*y1
	}
	return math.Abs(area) / 2
}

type logDiscard struct{}

func (logDiscard) Write(p []byte) (int, error) { return len(p), nil }
