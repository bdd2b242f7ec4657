package refine

import (
	"github.com/paulmach/orb"

	"github.com/mihiraggarwal/tessera/internal/voronoi"
)

// sampleRegion lays a density x density grid over the bounding box of
// cellPolygons and keeps the points that fall inside at least one of those
// cells and inside the overall boundary — i.e. inside R(s) = union(cells(H(s)))
// ∩ boundary, without ever materialising the union as a single polygon.
func sampleRegion(cellPolygons []orb.Polygon, boundary orb.MultiPolygon, density int) []orb.Point {
	if len(cellPolygons) == 0 || density < 1 {
		return nil
	}

	minX, minY := cellPolygons[0][0][0][0], cellPolygons[0][0][0][1]
	maxX, maxY := minX, minY
	for _, poly := range cellPolygons {
		for _, ring := range poly {
			for _, p := range ring {
				if p[0] < minX {
					minX = p[0]
				}
				if p[0] > maxX {
					maxX = p[0]
				}
				if p[1] < minY {
					minY = p[1]
				}
				if p[1] > maxY {
					maxY = p[1]
				}
			}
		}
	}
	if density == 1 {
		density = 2
	}

	stepX := (maxX - minX) / float64(density-1)
	stepY := (maxY - minY) / float64(density-1)

	var points []orb.Point
	for i := 0; i < density; i++ {
		x := minX + stepX*float64(i)
		for j := 0; j < density; j++ {
			y := minY + stepY*float64(j)
			p := orb.Point{x, y}
			if !inAnyCell(p, cellPolygons) {
				continue
			}
			if len(boundary) > 0 && !voronoi.PointInMultiPolygon(p, boundary) {
				continue
			}
			points = append(points, p)
		}
	}
	return points
}

func inAnyCell(p orb.Point, cells []orb.Polygon) bool {
	for _, c := range cells {
		if voronoi.PointInPolygon(p, c) {
			return true
		}
	}
	return false
}
