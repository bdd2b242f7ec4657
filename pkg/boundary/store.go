// Package boundary loads administrative boundary polygons (country and
// first-level subdivisions) and serves them in both geographic and planar
// form, with a lazily cached planar form of the combined states — the geometry-domain
// equivalent of the teacher's ChartCache, minus LRU eviction (boundary
// sets are small and finite, unlike a chart library).
package boundary

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/mihiraggarwal/tessera/internal/voronoi"
	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

// Store loads a country boundary and a named collection of state-level
// boundaries on construction and serves cached lookups by canonical
// (case-insensitive) name.
//
// A Store is safe for concurrent reads after NewStore returns; the state
// geometries are loaded by NewStore, and CountryPlanar's result is cached
// under a mutex the first time it is requested.
type Store struct {
	log *logrus.Logger

	country    orb.MultiPolygon // geographic
	fallback   geo.Bounds       // used when country boundary file is missing
	hasCountry bool

	mu         sync.Mutex
	states     map[string]orb.MultiPolygon // canonical lowercase name -> geometry
	dissolved  orb.MultiPolygon            // cached planar form of all states (RepairPolygon-cleaned)
	haveUnion  bool
}

// NewStore loads a country boundary file and a states FeatureCollection
// file, both GeoJSON, both normalised to WGS84 on load (callers are
// expected to supply WGS84 source files; no CRS reprojection of inputs is
// performed here — that is out of scope per spec's ingestion non-goal).
//
// If countryPath is empty or cannot be read, the store falls back to
// fallbackBounds (logged, not fatal) per spec §4.2.
func NewStore(countryPath, statesPath string, fallbackBounds geo.Bounds, log *logrus.Logger) (*Store, error) {
	s := &Store{
		log:      log,
		fallback: fallbackBounds,
		states:   make(map[string]orb.MultiPolygon),
	}

	if countryPath != "" {
		mp, err := loadMultiPolygon(countryPath)
		if err != nil {
			log.WithError(err).Warn("country boundary unavailable, falling back to configured bounding box")
		} else {
			s.country = mp
			s.hasCountry = true
		}
	}

	if statesPath != "" {
		fc, err := loadFeatureCollection(statesPath)
		if err != nil {
			return nil, &model.InternalError{Op: "load state boundaries", Cause: err}
		}
		for _, f := range fc.Features {
			name := featureName(f)
			if name == "" {
				continue
			}
			mp, err := geometryToMultiPolygon(f.Geometry)
			if err != nil {
				log.WithField("feature", name).WithError(err).Warn("skipping state feature with unusable geometry")
				continue
			}
			s.states[canonical(name)] = mp
		}
	}

	return s, nil
}

// Country returns the country boundary in geographic coordinates. If the
// boundary file was unavailable, it synthesizes one from the fallback
// bounding box.
func (s *Store) Country() orb.MultiPolygon {
	if s.hasCountry {
		return s.country
	}
	return orb.MultiPolygon{orb.Polygon{s.fallback.ToRing()}}
}

// State returns the named state's boundary in geographic coordinates. The
// match is case-insensitive and exact (no fuzzy/partial matching). Returns
// a BoundaryNotFoundError if the name is unknown.
func (s *Store) State(name string) (orb.MultiPolygon, error) {
	mp, ok := s.states[canonical(name)]
	if !ok {
		return nil, &model.BoundaryNotFoundError{Name: name}
	}
	return mp, nil
}

// Names returns the canonical (lowercased) names of all loaded states.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.states))
	for n := range s.states {
		names = append(names, n)
	}
	return names
}

// CountryPlanar returns Dissolve's combination of all loaded states,
// projected with proj and cleaned with RepairPolygon, cached after the
// first call.
func (s *Store) CountryPlanar(proj geo.Transformer) (orb.MultiPolygon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.haveUnion {
		return s.dissolved, nil
	}

	dissolved, err := s.dissolveLocked()
	if err != nil {
		return nil, err
	}

	planar := make(orb.MultiPolygon, 0, len(dissolved))
	for _, poly := range dissolved {
		planarPoly := make(orb.Polygon, len(poly))
		for i, ring := range poly {
			planarPoly[i] = orb.Ring(proj.ProjectAll([]orb.Point(ring)))
		}
		planar = append(planar, voronoi.RepairPolygon(planarPoly))
	}

	s.dissolved = planar
	s.haveUnion = true
	return planar, nil
}

// Dissolve collects every loaded state's polygons into a single geographic
// multipolygon. The polygons are concatenated as they are: shared borders
// are not merged into a union and no geometry repair is applied. With no
// states loaded it returns the country boundary, or a NoDataError when
// that is missing too. Unlike CountryPlanar, this returns geographic
// (unprojected) geometry and is not cached.
func (s *Store) Dissolve() (orb.MultiPolygon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dissolveLocked()
}

func (s *Store) dissolveLocked() (orb.MultiPolygon, error) {
	if len(s.states) == 0 {
		if s.hasCountry {
			return s.country, nil
		}
		return nil, &model.NoDataError{What: "no state boundaries loaded to dissolve"}
	}

	var all orb.MultiPolygon
	for _, mp := range s.states {
		all = append(all, mp...)
	}
	return all, nil
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func featureName(f *geojson.Feature) string {
	for _, key := range []string{"state", "name", "STATE", "NAME"} {
		if v, ok := f.Properties[key]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

func loadFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

func loadMultiPolygon(path string) (orb.MultiPolygon, error) {
	fc, err := loadFeatureCollection(path)
	if err != nil {
		return nil, err
	}
	var all orb.MultiPolygon
	for _, f := range fc.Features {
		mp, err := geometryToMultiPolygon(f.Geometry)
		if err != nil {
			continue
		}
		all = append(all, mp...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%s: no usable polygon geometry", path)
	}
	return all, nil
}

func geometryToMultiPolygon(g orb.Geometry) (orb.MultiPolygon, error) {
	switch geom := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{geom}, nil
	case orb.MultiPolygon:
		return geom, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}
