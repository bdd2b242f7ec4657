// Package roadvoronoi partitions a road network graph into per-facility
// regions by multi-source shortest-path distance (spec §4.8), the graph
// analogue of the planar Voronoi engine.
package roadvoronoi

import (
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/paulmach/orb"
)

// Graph is a weighted, undirected road network: a concrete lvlath graph
// plus the geographic position of every node, edge weights in metres.
type Graph struct {
	Core      *core.Graph
	Positions map[string]orb.Point
}

// LargestComponent returns the induced subgraph over g's largest connected
// component, found by repeated BFS over the adjacency list. Mirrors
// route_voronoi_service.py's explicit connected-component step, carried
// forward as a standalone, tested helper per the supplemented-features
// list rather than inlining it into Compute.
func LargestComponent(g *Graph) *Graph {
	visited := make(map[string]bool, len(g.Positions))
	var best []string

	for _, start := range g.Core.Vertices() {
		if visited[start] {
			continue
		}
		component := bfsComponent(g.Core, start, visited)
		if len(component) > len(best) {
			best = component
		}
	}

	keep := make(map[string]bool, len(best))
	for _, id := range best {
		keep[id] = true
	}

	opts := []core.GraphOption{core.WithDirected(g.Core.Directed())}
	if g.Core.Weighted() {
		opts = append(opts, core.WithWeighted())
	}
	sub := core.NewGraph(opts...)
	for _, id := range best {
		_ = sub.AddVertex(id)
	}
	for _, e := range g.Core.Edges() {
		if keep[e.From] && keep[e.To] {
			_, _ = sub.AddEdge(e.From, e.To, e.Weight)
		}
	}

	positions := make(map[string]orb.Point, len(best))
	for _, id := range best {
		positions[id] = g.Positions[id]
	}
	return &Graph{Core: sub, Positions: positions}
}

// bfsComponent returns every vertex reachable from start, marking each as
// visited in the shared visited set.
func bfsComponent(g *core.Graph, start string, visited map[string]bool) []string {
	queue := []string{start}
	visited[start] = true
	var component []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		component = append(component, id)

		neighbours, err := g.NeighborIDs(id)
		if err != nil {
			continue
		}
		sort.Strings(neighbours) // deterministic traversal order
		for _, n := range neighbours {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return component
}
