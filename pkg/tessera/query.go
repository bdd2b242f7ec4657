package tessera

import (
	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/internal/dcel"
	"github.com/mihiraggarwal/tessera/pkg/analytics"
	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// CoverageOptions and its Default constructor, re-exported alongside the
// compute option aliases in engine.go.
type CoverageOptions = analytics.Options

func DefaultCoverageOptions() CoverageOptions { return analytics.DefaultOptions() }

// DCELSummary, FaceSummary, and CellSummary are re-exported result types
// from the query/analytics layers.
type (
	DCELSummary    = dcel.Summary
	FaceSummary    = dcel.FaceSummary
	CellSummary    = analytics.CellSummary
	CoverageStats  = analytics.CoverageStats
	Recommendation = analytics.Recommendation
)

// dcelFor builds a DCEL over the currently published diagram. It is not
// cached on the Engine: the diagram is a value, and a caller holding query
// results across a recompute must not see them silently change underfoot —
// every query call rebuilds from whatever Current() returns at that
// instant (spec §6's "all reads must be consistent with the slot at the
// moment of retrieval").
func (e *Engine) dcelFor() (*dcel.DCEL, error) {
	current, ok := e.Current()
	if !ok {
		return nil, &model.NoDataError{What: "no current diagram to query"}
	}
	return dcel.Build(current.Cells)
}

// PointQuery returns the id of the facility whose cell contains (lat,lng).
func (e *Engine) PointQuery(lat, lng float64) (string, bool, error) {
	d, err := e.dcelFor()
	if err != nil {
		return "", false, err
	}
	id, ok := d.PointQuery(lat, lng)
	return id, ok, nil
}

// RangeQuery returns the ids of every cell intersecting bbox.
func (e *Engine) RangeQuery(bbox geo.Bounds) ([]string, error) {
	d, err := e.dcelFor()
	if err != nil {
		return nil, err
	}
	return d.RangeQuery(bbox), nil
}

// Adjacent returns the ids of cells sharing a boundary edge with facilityID.
func (e *Engine) Adjacent(facilityID string) ([]string, error) {
	d, err := e.dcelFor()
	if err != nil {
		return nil, err
	}
	return d.Adjacent(facilityID)
}

// KNearest returns the k cell ids nearest to (lat,lng) by centroid distance.
func (e *Engine) KNearest(lat, lng float64, k int) ([]string, error) {
	d, err := e.dcelFor()
	if err != nil {
		return nil, err
	}
	return d.KNearest(lat, lng, k), nil
}

// TopByPopulation returns up to n cell ids ranked by attributed population
// descending, optionally filtered to one state. Call AttributePopulation
// first, or every cell sorts as unpopulated.
func (e *Engine) TopByPopulation(n int, state string) ([]string, error) {
	d, err := e.dcelFor()
	if err != nil {
		return nil, err
	}
	return d.TopByPopulation(n, state), nil
}

// Summarize returns the compact per-cell listing (id, name, population,
// area) for the currently published diagram.
func (e *Engine) Summarize() (DCELSummary, error) {
	d, err := e.dcelFor()
	if err != nil {
		return DCELSummary{}, err
	}
	return d.ToDict(), nil
}

// CoverageStats returns aggregate population/area totals over the
// currently published diagram's cells.
func (e *Engine) CoverageStats() (CoverageStats, error) {
	current, ok := e.Current()
	if !ok {
		return CoverageStats{}, &model.NoDataError{What: "no current diagram to summarise"}
	}
	return analytics.Stats(current.Cells), nil
}

// Overburdened returns the top-5 cells by attributed population.
func (e *Engine) Overburdened() ([]CellSummary, error) {
	current, ok := e.Current()
	if !ok {
		return nil, &model.NoDataError{What: "no current diagram to rank"}
	}
	return analytics.Overburdened(current.Cells), nil
}

// Underserved returns the top-5 cells by area.
func (e *Engine) Underserved() ([]CellSummary, error) {
	current, ok := e.Current()
	if !ok {
		return nil, &model.NoDataError{What: "no current diagram to rank"}
	}
	return analytics.Underserved(current.Cells), nil
}

// Recommendations returns tagged advisory records (CRITICAL_GAP,
// OVERBURDENED, CAPACITY) for the currently published diagram. lec is the
// largest-empty-circle result, used for the CRITICAL_GAP advisory; pass a
// zero Circle to skip that check.
func (e *Engine) Recommendations(lec model.Circle, opts CoverageOptions) ([]Recommendation, error) {
	current, ok := e.Current()
	if !ok {
		return nil, &model.NoDataError{What: "no current diagram to evaluate"}
	}
	return analytics.Recommendations(current.Cells, lec, opts), nil
}

// MinimumEnclosingCircle computes the smallest circle enclosing every
// generator centroid in the currently published diagram (spec §4.6's MEC,
// applied to the published set of facility sites rather than raw input
// points, so it always reflects what's actually on the current diagram).
func (e *Engine) MinimumEnclosingCircle(seed int64) (model.Circle, error) {
	current, ok := e.Current()
	if !ok {
		return model.Circle{}, &model.NoDataError{What: "no current diagram to enclose"}
	}
	points := make([]orb.Point, 0, len(current.Cells.Features))
	for _, feat := range current.Cells.Features {
		lon, lonOK := feat.Properties["centroid_lng"].(float64)
		lat, latOK := feat.Properties["centroid_lat"].(float64)
		if !lonOK || !latOK {
			continue
		}
		x, y := e.Proj.Project(lon, lat)
		points = append(points, orb.Point{x, y})
	}
	return analytics.MinimumEnclosingCircle(points, e.Proj, seed)
}
