package voronoi

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// Options configures a single Compute call.
type Options struct {
	// Log receives per-facility diagnostics as they occur. If nil, a
	// disabled logger is used and diagnostics are only returned, not
	// logged.
	Log *logrus.Logger
}

// DefaultOptions returns the zero-value-safe option set.
func DefaultOptions() Options {
	return Options{Log: logrus.New()}
}

// Compute projects facilities, builds their Euclidean Voronoi tessellation,
// reconstructs unbounded cells by ray extrusion, clips every cell to
// boundary, and unprojects the result into a WGS84 feature collection — the
// C3 pipeline of spec §4.3.
//
// boundary must already be in the same planar CRS as proj (e.g. from
// boundary.Store.CountryPlanar); it is never reprojected here. If boundary
// has more than one polygon, the largest by area is used as the clip
// region.
func Compute(facilities []model.Facility, boundary orb.MultiPolygon, proj geo.Transformer, opts Options) (*geojson.FeatureCollection, []model.Diagnostic, error) {
	if len(facilities) < 3 {
		return nil, nil, &model.InvalidInputError{Reason: "at least 3 generators are required to compute a Voronoi tessellation"}
	}
	log := opts.Log
	if log == nil {
		log = logrus.New()
		log.SetOutput(logDiscard{})
	}

	geoPoints := make([]orb.Point, len(facilities))
	for i, f := range facilities {
		geoPoints[i] = orb.Point{f.Lon, f.Lat}
	}
	planarPoints := proj.ProjectAll(geoPoints)

	extent := Extent(planarPoints)
	R := math.Max(10*extent, 5e6)

	cells := BuildCells(planarPoints, R)

	var clipPoly orb.Polygon
	if len(boundary) > 0 {
		clipPoly = boundary[0]
		for _, p := range boundary[1:] {
			if polygonArea([]orb.Point(p[0])) > polygonArea([]orb.Point(clipPoly[0])) {
				clipPoly = p
			}
		}
	}

	fc := geojson.NewFeatureCollection()
	var diagnostics []model.Diagnostic

	for _, cell := range cells {
		f := facilities[cell.SiteIdx]

		repaired := RepairPolygon(orb.Polygon{CloseRing(cell.Polygon)})
		if len(repaired) == 0 || len(repaired[0]) < 4 {
			diag := model.Diagnostic{FacilityID: f.ID, Err: &model.GeometryDegenerateError{FacilityID: f.ID, Reason: "reconstructed cell has zero area after repair"}}
			diagnostics = append(diagnostics, diag)
			log.WithField("facility_id", f.ID).Warn(diag.Err.Error())
			continue
		}

		var pieces [][]orb.Point
		if len(clipPoly) == 0 {
			pieces = [][]orb.Point{[]orb.Point(repaired[0])}
		} else {
			pieces = clipToPolygon([]orb.Point(repaired[0]), clipPoly)
		}
		if len(pieces) == 0 {
			diag := model.Diagnostic{FacilityID: f.ID, Err: &model.GeometryDegenerateError{FacilityID: f.ID, Reason: "cell vanished after clipping to boundary"}}
			diagnostics = append(diagnostics, diag)
			log.WithField("facility_id", f.ID).Warn(diag.Err.Error())
			continue
		}

		var areaSqM float64
		geom := make(orb.MultiPolygon, 0, len(pieces))
		for _, piece := range pieces {
			areaSqM += polygonArea(piece)
			geoRing := CloseRing(proj.UnprojectAll(piece))
			geom = append(geom, orb.Polygon{geoRing})
		}
		areaSqKm := areaSqM / 1_000_000

		feat := geojson.NewFeature(geom)
		feat.ID = f.ID
		feat.Properties = geojson.Properties{
			"name":         f.Name,
			"facility_id":  f.ID,
			"type":         f.Type,
			"area_sq_km":   areaSqKm,
			"centroid_lng": f.Lon,
			"centroid_lat": f.Lat,
			"cell_type":    "euclidean",
		}
		fc.Append(feat)
	}

	return fc, diagnostics, nil
}

// logDiscard is a no-op io.Writer, used when a caller supplies no logger so
// Compute never panics on a nil *logrus.Logger while also not printing to
// stderr by default.
type logDiscard struct{}

func (logDiscard) Write(p []byte) (int, error) { return len(p), nil }
