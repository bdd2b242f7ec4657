package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestTransverseMercatorRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float64
	}{
		{"origin-ish", 77.2, 28.6},
		{"southern-hemisphere", 151.2, -33.8},
		{"near-meridian", 78.5, 17.4},
		{"far-west", 72.8, 19.1},
	}

	tr := NewTransverseMercator(78.0)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tr.Project(tt.lon, tt.lat)
			lon, lat := tr.Unproject(x, y)

			if math.Abs(lon-tt.lon) > 1e-6 {
				t.Errorf("lon round-trip: got %v, want %v", lon, tt.lon)
			}
			if math.Abs(lat-tt.lat) > 1e-6 {
				t.Errorf("lat round-trip: got %v, want %v", lat, tt.lat)
			}
		})
	}
}

func TestTransverseMercatorBulk(t *testing.T) {
	tr := NewTransverseMercator(0)
	pts := []orb.Point{{10, 10}, {-10, -10}, {0, 0}}

	projected := tr.ProjectAll(pts)
	back := tr.UnprojectAll(projected)

	if len(back) != len(pts) {
		t.Fatalf("expected %d points, got %d", len(pts), len(back))
	}
	for i := range pts {
		if math.Abs(back[i][0]-pts[i][0]) > 1e-6 || math.Abs(back[i][1]-pts[i][1]) > 1e-6 {
			t.Errorf("point %d round-trip mismatch: got %v, want %v", i, back[i], pts[i])
		}
	}
}
