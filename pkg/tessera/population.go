package tessera

import (
	"github.com/paulmach/orb/geojson"

	"github.com/mihiraggarwal/tessera/internal/population"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// PopulationAttribution is the re-exported per-facility population result.
type PopulationAttribution = population.Attribution

// AttributePopulation attributes district population onto the currently
// published diagram's cells by intersection-area ratio (C5, spec §4.5),
// republishes an enriched diagram carrying a "population" property per
// cell, and returns the per-facility breakdown. The diagram is a value:
// this produces a fresh enriched FeatureCollection rather than mutating
// the one already published.
func (e *Engine) AttributePopulation(districts []District) (*geojson.FeatureCollection, map[string]PopulationAttribution, error) {
	current, ok := e.Current()
	if !ok {
		return nil, nil, &model.NoDataError{What: "no current diagram to attribute population to"}
	}

	weigher := population.NewWeigher(districts, e.Proj)
	attributions, err := weigher.Weigh(current.Cells)
	if err != nil {
		return nil, nil, err
	}

	enriched := geojson.NewFeatureCollection()
	for _, feat := range current.Cells.Features {
		clone := geojson.NewFeature(feat.Geometry)
		clone.ID = feat.ID
		props := make(geojson.Properties, len(feat.Properties)+1)
		for k, v := range feat.Properties {
			props[k] = v
		}
		id, _ := feat.Properties["facility_id"].(string)
		if attr, ok := attributions[id]; ok {
			props["population"] = attr.Population
		}
		clone.Properties = props
		enriched.Append(clone)
	}

	e.current.store(Diagram{Kind: current.Kind, Cells: enriched, Diagnostics: current.Diagnostics})
	return enriched, attributions, nil
}
