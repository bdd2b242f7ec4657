// Package analytics implements the coverage-quality computations that run
// over an already-built Voronoi diagram: minimum/largest-empty enclosing
// circles, optimal siting, overburdened/underserved rankings, and advisory
// recommendations — spec §4.6.
package analytics

import (
	"math"
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/pkg/geo"
	"github.com/mihiraggarwal/tessera/pkg/model"
)

type planarCircle struct {
	center orb.Point
	radius float64
}

func (c planarCircle) contains(p orb.Point) bool {
	return math.Hypot(p[0]-c.center[0], p[1]-c.center[1]) <= c.radius+1e-7
}

func circleFrom1(a orb.Point) planarCircle {
	return planarCircle{center: a, radius: 0}
}

func circleFrom2(a, b orb.Point) planarCircle {
	mid := orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
	return planarCircle{center: mid, radius: math.Hypot(a[0]-mid[0], a[1]-mid[1])}
}

func circleFrom3(a, b, c orb.Point) planarCircle {
	d := 2 * (a[0]*(b[1]-c[1]) + b[0]*(c[1]-a[1]) + c[0]*(a[1]-b[1]))
	if math.Abs(d) < 1e-9 {
		// Near-colinear: fall back to the widest pairwise circle.
		best := circleFrom2(a, b)
		for _, cand := range []planarCircle{circleFrom2(b, c), circleFrom2(a, c)} {
			if cand.radius > best.radius {
				best = cand
			}
		}
		return best
	}
	ax2ay2 := a[0]*a[0] + a[1]*a[1]
	bx2by2 := b[0]*b[0] + b[1]*b[1]
	cx2cy2 := c[0]*c[0] + c[1]*c[1]
	ux := (ax2ay2*(b[1]-c[1]) + bx2by2*(c[1]-a[1]) + cx2cy2*(a[1]-b[1])) / d
	uy := (ax2ay2*(c[0]-b[0]) + bx2by2*(a[0]-c[0]) + cx2cy2*(b[0]-a[0])) / d
	centre := orb.Point{ux, uy}
	return planarCircle{center: centre, radius: math.Hypot(a[0]-ux, a[1]-uy)}
}

// MinimumEnclosingCircle computes the smallest circle enclosing every point
// in points, via Welzl's algorithm with the recursion unrolled into three
// bounded nested loops (a 2D minimum enclosing circle's boundary case never
// exceeds 3 points), so no call stack depth grows with input size. seed
// fixes the only source of nondeterminism (the initial shuffle).
func MinimumEnclosingCircle(points []orb.Point, proj geo.Transformer, seed int64) (model.Circle, error) {
	if len(points) == 0 {
		return model.Circle{}, &model.NoDataError{What: "no points to enclose"}
	}

	pts := make([]orb.Point, len(points))
	copy(pts, points)
	rand.New(rand.NewSource(seed)).Shuffle(len(pts), func(i, j int) { pts[i], pts[j] = pts[j], pts[i] })

	c := circleFrom1(pts[0])
	for i := 1; i < len(pts); i++ {
		if c.contains(pts[i]) {
			continue
		}
		c = circleFrom1(pts[i])
		for j := 0; j < i; j++ {
			if c.contains(pts[j]) {
				continue
			}
			c = circleFrom2(pts[i], pts[j])
			for k := 0; k < j; k++ {
				if c.contains(pts[k]) {
					continue
				}
				c = circleFrom3(pts[i], pts[j], pts[k])
			}
		}
	}

	lon, lat := proj.Unproject(c.center[0], c.center[1])
	return model.Circle{CenterLon: lon, CenterLat: lat, RadiusKm: c.radius / 1000, Valid: true}, nil
}
