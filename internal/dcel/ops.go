package dcel

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/internal/voronoi"
	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// PointQuery returns the id of the unique face containing (lat,lng), and
// false if the point falls outside every cell.
func (d *DCEL) PointQuery(lat, lng float64) (string, bool) {
	p := orb.Point{lng, lat}
	for i := range d.faces {
		if voronoi.PointInPolygon(p, d.faces[i].polygon) {
			return d.faces[i].id, true
		}
	}
	return "", false
}

// RangeQuery returns the ids of every face whose polygon intersects bbox.
func (d *DCEL) RangeQuery(bbox geo.Bounds) []string {
	point := rtreego.Point{bbox.MinLon, bbox.MinLat}
	lengths := []float64{
		math.Max(bbox.MaxLon-bbox.MinLon, 1e-9),
		math.Max(bbox.MaxLat-bbox.MinLat, 1e-9),
	}
	rect, _ := rtreego.NewRect(point, lengths)

	var ids []string
	for _, sp := range d.rtree.SearchIntersect(rect) {
		fs := sp.(faceSpatial)
		ids = append(ids, d.faces[fs.idx].id)
	}
	return ids
}

// Adjacent returns the ids of faces that share a boundary edge with
// facilityID, discovered by walking the half-edges of its outer ring and
// following each one's twin into the neighbouring face.
func (d *DCEL) Adjacent(facilityID string) ([]string, error) {
	idx, ok := d.byID[facilityID]
	if !ok {
		return nil, &model.BoundaryNotFoundError{Name: facilityID}
	}

	seen := make(map[int32]bool)
	var neighbours []string
	start := d.faces[idx].outerEdge
	if start < 0 {
		return nil, nil
	}
	e := start
	for {
		he := d.edges[e]
		if he.twin >= 0 {
			nf := d.edges[he.twin].face
			if nf != idx && !seen[nf] {
				seen[nf] = true
				neighbours = append(neighbours, d.faces[nf].id)
			}
		}
		e = he.next
		if e == start {
			break
		}
	}
	sort.Strings(neighbours)
	return neighbours, nil
}

// KNearest returns the ids of the k faces nearest to (lat,lng) by Euclidean
// distance between the query point and each face's centroid, nearest
// first. k is capped at the total number of faces.
func (d *DCEL) KNearest(lat, lng float64, k int) []string {
	if k > len(d.faces) {
		k = len(d.faces)
	}
	if k <= 0 {
		return nil
	}
	p := orb.Point{lng, lat}

	type ranked struct {
		id   string
		dist float64
	}
	all := make([]ranked, len(d.faces))
	for i, f := range d.faces {
		all[i] = ranked{id: f.id, dist: math.Hypot(f.centroid[0]-p[0], f.centroid[1]-p[1])}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })

	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = all[i].id
	}
	return out
}

// AdaptiveK widens the neighbour count to 2*baseK when the distance ratio
// between the baseK-th and 1st nearest neighbour exceeds distortionRatio —
// a signal that the nearby cells are unevenly sized and a wider net is
// needed to capture genuine neighbours, per §4.4.
func (d *DCEL) AdaptiveK(lat, lng float64, baseK int, distortionRatio float64) (int, []string) {
	if baseK > len(d.faces) {
		baseK = len(d.faces)
	}
	if baseK <= 0 {
		return 0, nil
	}
	p := orb.Point{lng, lat}

	type ranked struct {
		id   string
		dist float64
	}
	all := make([]ranked, len(d.faces))
	for i, f := range d.faces {
		all[i] = ranked{id: f.id, dist: math.Hypot(f.centroid[0]-p[0], f.centroid[1]-p[1])}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })

	k := baseK
	if baseK >= 1 && all[0].dist > 0 {
		ratio := all[baseK-1].dist / all[0].dist
		if ratio > distortionRatio {
			k = 2 * baseK
			if k > len(all) {
				k = len(all)
			}
		}
	}

	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = all[i].id
	}
	return k, out
}

// TopByPopulation returns up to n face ids ordered by attached population
// descending, optionally filtered to a single state. Faces with no
// attached population sort last.
func (d *DCEL) TopByPopulation(n int, state string) []string {
	idxs := make([]int, 0, len(d.faces))
	for i, f := range d.faces {
		if state != "" && f.state != state {
			continue
		}
		idxs = append(idxs, i)
	}
	sort.Slice(idxs, func(i, j int) bool {
		a, b := d.faces[idxs[i]], d.faces[idxs[j]]
		if a.hasPop != b.hasPop {
			return a.hasPop
		}
		return a.population > b.population
	})
	if n > len(idxs) {
		n = len(idxs)
	}
	if n < 0 {
		n = 0
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = d.faces[idxs[i]].id
	}
	return out
}

// Polygon returns facilityID's cell polygon, in the geographic coordinates
// the DCEL was built from.
func (d *DCEL) Polygon(facilityID string) (orb.Polygon, bool) {
	idx, ok := d.byID[facilityID]
	if !ok {
		return nil, false
	}
	return d.faces[idx].polygon, true
}

// IDs returns every facility id known to the DCEL, in build order.
func (d *DCEL) IDs() []string {
	ids := make([]string, len(d.faces))
	for i, f := range d.faces {
		ids[i] = f.id
	}
	return ids
}

// Centroid returns the (lat,lng) of facilityID's cell centroid.
func (d *DCEL) Centroid(facilityID string) (lat, lng float64, ok bool) {
	idx, found := d.byID[facilityID]
	if !found {
		return 0, 0, false
	}
	c := d.faces[idx].centroid
	return c[1], c[0], true
}

// Summary is the compact to_dict() view of §4.4.
type Summary struct {
	FaceCount int
	Faces     []FaceSummary
}

// FaceSummary is one row of Summary.Faces.
type FaceSummary struct {
	ID         string
	Name       string
	Population int64
	HasPop     bool
	AreaSqKm   float64
}

// ToDict returns a compact summary of every face: id, name, population (if
// attached), and area.
func (d *DCEL) ToDict() Summary {
	s := Summary{FaceCount: len(d.faces), Faces: make([]FaceSummary, len(d.faces))}
	for i, f := range d.faces {
		s.Faces[i] = FaceSummary{
			ID:         f.id,
			Name:       f.name,
			Population: f.population,
			HasPop:     f.hasPop,
			AreaSqKm:   f.areaSqKm,
		}
	}
	return s
}
