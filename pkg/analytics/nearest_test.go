package analytics

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestNearestFacilityFindsClosest(t *testing.T) {
	generators := []orb.Point{{0, 0}, {10, 0}, {20, 0}}
	idx, dist := NearestFacility(orb.Point{9, 0}, generators)
	if idx != 1 {
		t.Fatalf("expected index 1 nearest to (9,0), got %d (dist=%v)", idx, dist)
	}
}

func TestNearestFacilityEmptySet(t *testing.T) {
	idx, _ := NearestFacility(orb.Point{0, 0}, nil)
	if idx != -1 {
		t.Fatalf("expected -1 for empty generator set, got %d", idx)
	}
}
