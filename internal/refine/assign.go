package refine

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/pkg/routing"
)

// assignment is one grid point's resolved owner.
type assignment struct {
	point      orb.Point
	facilityID string
}

// reassignByRoad assigns every point in gridPoints to the nearest facility
// among candidates (parallel ids/positions) by road distance, batching
// points into groups of at most batchSize and running a small worker pool
// over the batches — spec §4.9 step 4's "batches ≤ 100 sources". Each
// batch issues one Oracle.Table call per point (the Oracle contract is
// one-to-many, not many-to-many), and a point whose Table call errors or
// returns no connected entry falls back to nearest-by-Euclidean-distance.
func reassignByRoad(ctx context.Context, oracle routing.Oracle, gridPoints []orb.Point, candidateIDs []string, candidatePositions []orb.Point, batchSize, workers int) ([]assignment, int) {
	if len(gridPoints) == 0 || len(candidateIDs) == 0 {
		return nil, 0
	}
	if batchSize < 1 {
		batchSize = 100
	}
	if workers < 1 {
		workers = 1
	}

	type batch struct {
		start  int
		points []orb.Point
	}
	var batches []batch
	for i := 0; i < len(gridPoints); i += batchSize {
		end := i + batchSize
		if end > len(gridPoints) {
			end = len(gridPoints)
		}
		batches = append(batches, batch{start: i, points: gridPoints[i:end]})
	}

	results := make([]assignment, len(gridPoints))
	var queryCount int64

	jobs := make(chan batch)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				for i, p := range b.points {
					facilityID := nearestByRoadOrFallback(ctx, oracle, p, candidateIDs, candidatePositions)
					results[b.start+i] = assignment{point: p, facilityID: facilityID}
					atomic.AddInt64(&queryCount, 1)
				}
			}
		}()
	}
	for _, b := range batches {
		jobs <- b
	}
	close(jobs)
	wg.Wait()

	return results, int(queryCount)
}

// nearestByRoadOrFallback resolves a single grid point's owner by issuing
// one Oracle.Table call, falling back to the Euclidean-nearest candidate
// if the call fails or returns no connected entry.
func nearestByRoadOrFallback(ctx context.Context, oracle routing.Oracle, p orb.Point, candidateIDs []string, candidatePositions []orb.Point) string {
	results, err := oracle.Table(ctx, p, candidatePositions)
	if err == nil {
		bestIdx := -1
		bestDist := math.Inf(1)
		for i, r := range results {
			if r.Connected && r.DistanceKm < bestDist {
				bestDist = r.DistanceKm
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			return candidateIDs[bestIdx]
		}
	}
	return nearestEuclidean(p, candidateIDs, candidatePositions)
}

func nearestEuclidean(p orb.Point, ids []string, positions []orb.Point) string {
	bestIdx := 0
	bestDist := math.Inf(1)
	for i, pos := range positions {
		d := math.Hypot(pos[0]-p[0], pos[1]-p[1])
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return ids[bestIdx]
}
