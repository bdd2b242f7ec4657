// Package dcel builds a doubly-connected edge list over a Voronoi cell
// feature collection and serves the spatial/topological queries a facility
// catchment explorer needs: point lookup, range queries, adjacency, nearest
// neighbours, and population-ranked listings.
//
// References between vertices, half-edges and faces are int32 indices into
// three arenas rather than pointers, mirroring the index-keyed cell/face
// style the teacher uses for chart cells (see DESIGN.md) — convenient here
// too, since it keeps the whole topology trivially serialisable and free of
// the reference-cycle problems a pointer graph would have in a language
// with precise GC but no borrow checker.
package dcel

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/mihiraggarwal/tessera/pkg/model"
)

// halfEdge is one directed edge of a face's outer boundary.
type halfEdge struct {
	origin int32 // index into DCEL.verts
	twin   int32 // index of the opposing half-edge, or -1 if on the outer hull
	next   int32 // next half-edge around the same face
	face   int32 // owning face
}

// face is one Voronoi cell, carrying the facility identity and property bag
// it was built from.
type face struct {
	id         string
	name       string
	properties geojson.Properties
	polygon    orb.Polygon // geographic, as received
	centroid   orb.Point
	areaSqKm   float64
	population int64
	hasPop     bool
	state      string
	outerEdge  int32 // first half-edge of this face's outer ring, or -1
}

// DCEL is the assembled topology plus an R-tree spatial index over face
// polygons.
type DCEL struct {
	verts []orb.Point
	edges []halfEdge
	faces []face

	rtree  *rtreego.Rtree
	byID   map[string]int32
	vertOf map[orb.Point]int32
}

// faceSpatial adapts a face's bounding box to rtreego.Spatial.
type faceSpatial struct {
	idx    int32
	bounds orb.Bound
}

func (f faceSpatial) Bounds() rtreego.Rect {
	point := rtreego.Point{f.bounds.Min[0], f.bounds.Min[1]}
	lengths := []float64{
		math.Max(f.bounds.Max[0]-f.bounds.Min[0], 1e-9),
		math.Max(f.bounds.Max[1]-f.bounds.Min[1], 1e-9),
	}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// Build constructs a DCEL from a Voronoi cell feature collection, per spec
// §4.4: parse each feature's polygon (discarding invalid geometry),
// register one face per valid polygon, build the R-tree, and materialise
// the half-edge rings from each face's outer boundary. A MultiPolygon
// feature is registered as one face built from its largest member polygon
// by area; its other members are not indexed.
func Build(fc *geojson.FeatureCollection) (*DCEL, error) {
	d := &DCEL{
		byID:   make(map[string]int32),
		vertOf: make(map[orb.Point]int32),
	}
	if fc == nil || len(fc.Features) == 0 {
		return nil, &model.NoDataError{What: "feature collection has no features to build a DCEL from"}
	}

	tree := rtreego.NewTree(2, 4, 16)

	for _, feat := range fc.Features {
		poly, ok := feat.Geometry.(orb.Polygon)
		if mp, isMulti := feat.Geometry.(orb.MultiPolygon); isMulti {
			for _, piece := range mp {
				if len(piece) > 0 && (!ok || math.Abs(planar.Area(piece)) > math.Abs(planar.Area(poly))) {
					poly, ok = piece, true
				}
			}
		}
		if !ok || len(poly) == 0 || len(poly[0]) < 4 {
			continue
		}

		fIdx := int32(len(d.faces))
		id := stringProp(feat.Properties, "facility_id")
		if id == "" {
			if s, ok := feat.ID.(string); ok {
				id = s
			}
		}

		f := face{
			id:         id,
			name:       stringProp(feat.Properties, "name"),
			properties: feat.Properties,
			polygon:    poly,
			centroid:   ringCentroid(poly[0]),
			areaSqKm:   floatProp(feat.Properties, "area_sq_km"),
			state:      stringProp(feat.Properties, "state"),
		}
		if pop, ok := feat.Properties["population"]; ok {
			if n, ok := toInt64(pop); ok {
				f.population = n
				f.hasPop = true
			}
		}
		f.outerEdge = d.addRing(poly[0], fIdx)

		d.faces = append(d.faces, f)
		d.byID[id] = fIdx

		bound := poly.Bound()
		tree.Insert(faceSpatial{idx: fIdx, bounds: bound})
	}

	if len(d.faces) == 0 {
		return nil, &model.NoDataError{What: "no feature carried a usable polygon geometry"}
	}

	d.rtree = tree
	d.linkTwins()
	return d, nil
}

// addRing inserts ring's vertices (deduplicated) and the half-edges that
// connect them in order, returning the index of the first half-edge.
func (d *DCEL) addRing(ring orb.Ring, faceIdx int32) int32 {
	pts := []orb.Point(ring)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}

	vertIdx := make([]int32, len(pts))
	for i, p := range pts {
		vertIdx[i] = d.internVertex(p)
	}

	first := int32(len(d.edges))
	for i := range vertIdx {
		d.edges = append(d.edges, halfEdge{
			origin: vertIdx[i],
			twin:   -1,
			face:   faceIdx,
		})
	}
	n := int32(len(vertIdx))
	for i := int32(0); i < n; i++ {
		d.edges[first+i].next = first + (i+1)%n
	}
	return first
}

func (d *DCEL) internVertex(p orb.Point) int32 {
	key := orb.Point{math.Round(p[0]*1e7) / 1e7, math.Round(p[1]*1e7) / 1e7}
	if idx, ok := d.vertOf[key]; ok {
		return idx
	}
	idx := int32(len(d.verts))
	d.verts = append(d.verts, key)
	d.vertOf[key] = idx
	return idx
}

// linkTwins pairs up half-edges that share the same (undirected) vertex
// endpoints — the shared boundary between two adjacent Voronoi cells.
func (d *DCEL) linkTwins() {
	type key struct{ a, b int32 }
	canon := func(u, v int32) key {
		if u > v {
			u, v = v, u
		}
		return key{u, v}
	}

	buckets := make(map[key][]int32)
	for i, e := range d.edges {
		v := d.edges[e.next].origin
		buckets[canon(e.origin, v)] = append(buckets[canon(e.origin, v)], int32(i))
	}
	for _, edges := range buckets {
		if len(edges) == 2 {
			d.edges[edges[0]].twin = edges[1]
			d.edges[edges[1]].twin = edges[0]
		}
	}
}

func ringCentroid(ring orb.Ring) orb.Point {
	c, _ := planar.CentroidArea(orb.Polygon{ring})
	return c
}

func stringProp(p geojson.Properties, key string) string {
	if v, ok := p[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func floatProp(p geojson.Properties, key string) float64 {
	if v, ok := p[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

// faceRing returns a face's outer ring (the first ring of its stored
// polygon), used by ops that need geometric predicates rather than
// topology.
func (d *DCEL) faceRing(idx int32) orb.Ring {
	return d.faces[idx].polygon[0]
}
