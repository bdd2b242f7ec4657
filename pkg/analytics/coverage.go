package analytics

import (
	"sort"

	"github.com/paulmach/orb/geojson"

	"github.com/mihiraggarwal/tessera/pkg/model"
)

// Options configures the advisory thresholds used by Recommendations. The
// capacity ceiling is caller-supplied rather than a hardcoded constant,
// matching analytics_service.py's per-call ceiling rather than baking one
// constant into the package.
type Options struct {
	CapacityCeiling float64 // mean population per cell above which CAPACITY fires
}

// DefaultOptions returns a zero capacity ceiling, which disables the
// CAPACITY advisory, so callers must opt in to it explicitly.
func DefaultOptions() Options {
	return Options{CapacityCeiling: 0}
}

// CellSummary is the population-enriched view of one cell used by the
// overburdened/underserved/recommendation computations.
type CellSummary struct {
	FacilityID string
	Name       string
	Population float64
	AreaSqKm   float64
}

// CoverageStats holds the aggregate totals/averages behind the
// Recommendations advisories.
type CoverageStats struct {
	CellCount       int
	TotalPopulation float64
	MeanPopulation  float64
	TotalAreaSqKm   float64
	MeanAreaSqKm    float64
}

// Recommendation is one tagged advisory record.
type Recommendation struct {
	Tag     string // CRITICAL_GAP | OVERBURDENED | CAPACITY
	Message string
}

func summarize(cells *geojson.FeatureCollection) []CellSummary {
	out := make([]CellSummary, 0, len(cells.Features))
	for _, f := range cells.Features {
		pop, _ := f.Properties["population"].(float64)
		area, _ := f.Properties["area_sq_km"].(float64)
		name, _ := f.Properties["name"].(string)
		id, _ := f.Properties["facility_id"].(string)
		out = append(out, CellSummary{FacilityID: id, Name: name, Population: pop, AreaSqKm: area})
	}
	return out
}

// Overburdened returns the top 5 cells by population descending.
func Overburdened(cells *geojson.FeatureCollection) []CellSummary {
	s := summarize(cells)
	sort.Slice(s, func(i, j int) bool { return s[i].Population > s[j].Population })
	return topN(s, 5)
}

// Underserved returns the top 5 cells by area descending.
func Underserved(cells *geojson.FeatureCollection) []CellSummary {
	s := summarize(cells)
	sort.Slice(s, func(i, j int) bool { return s[i].AreaSqKm > s[j].AreaSqKm })
	return topN(s, 5)
}

func topN(s []CellSummary, n int) []CellSummary {
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// Stats computes the aggregate totals/averages over the population-
// enriched cell set.
func Stats(cells *geojson.FeatureCollection) CoverageStats {
	s := summarize(cells)
	stats := CoverageStats{CellCount: len(s)}
	for _, c := range s {
		stats.TotalPopulation += c.Population
		stats.TotalAreaSqKm += c.AreaSqKm
	}
	if stats.CellCount > 0 {
		stats.MeanPopulation = stats.TotalPopulation / float64(stats.CellCount)
		stats.MeanAreaSqKm = stats.TotalAreaSqKm / float64(stats.CellCount)
	}
	return stats
}

// Recommendations emits tagged advisories per §4.6: CRITICAL_GAP when lec's
// radius exceeds 10km, OVERBURDENED when any cell exceeds 2x mean
// population, CAPACITY when mean population per cell exceeds the
// configured ceiling.
func Recommendations(cells *geojson.FeatureCollection, lec model.Circle, opts Options) []Recommendation {
	var recs []Recommendation

	if lec.Valid && lec.RadiusKm > 10 {
		recs = append(recs, Recommendation{
			Tag:     "CRITICAL_GAP",
			Message: "largest uncovered area exceeds a 10km radius from any facility",
		})
	}

	stats := Stats(cells)
	if stats.MeanPopulation > 0 {
		s := summarize(cells)
		for _, c := range s {
			if c.Population > 2*stats.MeanPopulation {
				recs = append(recs, Recommendation{
					Tag:     "OVERBURDENED",
					Message: "facility " + c.FacilityID + " serves more than twice the mean cell population",
				})
				break
			}
		}
	}

	if opts.CapacityCeiling > 0 && stats.MeanPopulation > opts.CapacityCeiling {
		recs = append(recs, Recommendation{
			Tag:     "CAPACITY",
			Message: "mean population per cell exceeds the configured capacity ceiling",
		})
	}

	return recs
}
