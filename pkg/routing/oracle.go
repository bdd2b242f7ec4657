// Package routing defines the routing-oracle contract consumed by the
// weighted and refinement Voronoi variants (C7/C9), plus a small in-memory
// reference implementation for tests and the demo CLI. Production routing
// (OSRM, GraphHopper, a managed directions API) is an external collaborator
// per spec's non-goals; GraphOracle here exists only so the rest of the
// module has something concrete to drive in tests without a network
// dependency.
package routing

import (
	"context"

	"github.com/paulmach/orb"
)

// Result is one route/table entry: the road-network distance/duration
// between two points, or Connected=false if no path exists.
type Result struct {
	DistanceKm  float64
	DurationMin float64
	Connected   bool
}

// Oracle is the routing contract C7/C9 consume. Implementations are never
// required to be exact; callers treat RoutingUnavailable as a recoverable
// condition (fall back to Euclidean distance) rather than a fatal error.
type Oracle interface {
	// Route returns the road-network route from src to dst.
	Route(ctx context.Context, src, dst orb.Point) (Result, error)
	// Table returns one Result per entry in dsts, same order, for a
	// single source — the one-to-many form used by C7's penalty
	// computation and C9's batched refinement queries.
	Table(ctx context.Context, src orb.Point, dsts []orb.Point) ([]Result, error)
}
