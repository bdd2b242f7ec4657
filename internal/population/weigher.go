// Package population attributes district population to Voronoi cells by
// area-ratio overlap: spec §4.5.
package population

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/mihiraggarwal/tessera/internal/voronoi"
	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// Breakdown is one district's contribution to a cell's attributed
// population, per §4.5 step 3 — carries the original_source's
// overlap_percentage field, dropped by the distilled spec but present in
// population_calc.py.
type Breakdown struct {
	State                string
	District              string
	IntersectionAreaSqKm  float64
	OverlapPercentage     float64 // intersection_area / district_area * 100
	ContributedPopulation float64
}

// Attribution is one facility's population result.
type Attribution struct {
	FacilityID string
	Population float64
	Breakdown  []Breakdown // sorted desc by ContributedPopulation, top 5
}

type districtSpatial struct {
	idx    int
	bounds rtreego.Rect
}

func (d districtSpatial) Bounds() rtreego.Rect { return d.bounds }

// Weigher attributes district population to Voronoi cells via
// intersection-area ratio, using an R-tree over district polygons to prune
// candidates per cell (mirroring the DCEL/boundary packages' spatial-index
// shape).
type Weigher struct {
	proj      geo.Transformer
	districts []model.District
	planar    []orb.MultiPolygon // districts projected once, cached
	areas     []float64          // planar area of each district, cached
	tree      *rtreego.Rtree
}

// NewWeigher builds the district R-tree and pre-projects every district
// polygon once, so repeated Weigh calls over different cell sets don't
// re-pay projection cost.
func NewWeigher(districts []model.District, proj geo.Transformer) *Weigher {
	w := &Weigher{
		proj:      proj,
		districts: districts,
		planar:    make([]orb.MultiPolygon, len(districts)),
		areas:     make([]float64, len(districts)),
	}

	tree := rtreego.NewTree(2, 4, 16)
	for i, d := range districts {
		mp := make(orb.MultiPolygon, len(d.Geometry))
		var area float64
		for j, poly := range d.Geometry {
			pp := make(orb.Polygon, len(poly))
			for k, ring := range poly {
				pp[k] = orb.Ring(proj.ProjectAll([]orb.Point(ring)))
			}
			mp[j] = pp
			for _, ring := range pp {
				area += ringArea(ring)
			}
		}
		w.planar[i] = mp
		w.areas[i] = math.Abs(area)

		b := mp.Bound()
		point := rtreego.Point{b.Min[0], b.Min[1]}
		lengths := []float64{math.Max(b.Max[0]-b.Min[0], 1e-6), math.Max(b.Max[1]-b.Min[1], 1e-6)}
		rect, _ := rtreego.NewRect(point, lengths)
		tree.Insert(districtSpatial{idx: i, bounds: rect})
	}
	w.tree = tree
	return w
}

// Weigh attributes district population to each feature in cells, keyed by
// facility id.
func (w *Weigher) Weigh(cells *geojson.FeatureCollection) (map[string]Attribution, error) {
	if cells == nil || len(cells.Features) == 0 {
		return nil, &model.NoDataError{What: "no cells to attribute population to"}
	}

	out := make(map[string]Attribution, len(cells.Features))
	for _, feat := range cells.Features {
		pieces, ok := feat.Geometry.(orb.MultiPolygon)
		if poly, isPoly := feat.Geometry.(orb.Polygon); isPoly {
			pieces, ok = orb.MultiPolygon{poly}, true
		}
		if !ok || len(pieces) == 0 {
			continue
		}
		facilityID := stringProp(feat.Properties, "facility_id")

		planarCell := make(orb.MultiPolygon, 0, len(pieces))
		for _, piece := range pieces {
			if len(piece) > 0 {
				planarCell = append(planarCell, orb.Polygon{orb.Ring(w.proj.ProjectAll([]orb.Point(piece[0])))})
			}
		}

		b := planarCell.Bound()
		point := rtreego.Point{b.Min[0], b.Min[1]}
		lengths := []float64{math.Max(b.Max[0]-b.Min[0], 1e-6), math.Max(b.Max[1]-b.Min[1], 1e-6)}
		rect, _ := rtreego.NewRect(point, lengths)
		candidates := w.tree.SearchIntersect(rect)

		var total float64
		var breakdown []Breakdown
		for _, c := range candidates {
			di := c.(districtSpatial).idx
			district := w.districts[di]
			if w.areas[di] <= 0 {
				continue
			}

			var intersectionArea float64
			for _, dpoly := range w.planar[di] {
				for _, cellPiece := range planarCell {
					intersectionArea += voronoi.ClipConvexAgainstPolygon([]orb.Point(cellPiece[0]), dpoly)
				}
			}
			if intersectionArea <= 0 {
				continue
			}

			ratio := intersectionArea / w.areas[di]
			contributed := float64(district.Population) * ratio
			total += contributed

			breakdown = append(breakdown, Breakdown{
				State:                 district.State,
				District:              district.District,
				IntersectionAreaSqKm:  intersectionArea / 1_000_000,
				OverlapPercentage:     ratio * 100,
				ContributedPopulation: contributed,
			})
		}

		sort.Slice(breakdown, func(i, j int) bool {
			return breakdown[i].ContributedPopulation > breakdown[j].ContributedPopulation
		})
		if len(breakdown) > 5 {
			breakdown = breakdown[:5]
		}

		out[facilityID] = Attribution{FacilityID: facilityID, Population: total, Breakdown: breakdown}
	}

	return out, nil
}

func ringArea(ring orb.Ring) float64 {
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum / 2
}

func stringProp(p geojson.Properties, key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
