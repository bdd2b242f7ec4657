package refine

import "sort"

// buildAdjacency turns the DCEL's pairwise Adjacent() queries into a plain
// adjacency map, one lookup per facility id.
func buildAdjacency(ids []string, neighboursOf func(string) ([]string, error)) map[string][]string {
	adjacency := make(map[string][]string, len(ids))
	for _, id := range ids {
		neighbours, err := neighboursOf(id)
		if err != nil {
			continue
		}
		adjacency[id] = neighbours
	}
	return adjacency
}

// greedyDominatingSet computes a dominating set over the adjacency graph:
// repeatedly pick the uncovered node whose closed neighbourhood ({node} ∪
// neighbours(node)) covers the most still-uncovered nodes, until every
// node is covered. ids is iterated in sorted order at every step so the
// result is deterministic regardless of map iteration order, per spec
// §4.9 step 2's "deterministic up to a stable iteration order".
func greedyDominatingSet(ids []string, adjacency map[string][]string) []string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	uncovered := make(map[string]bool, len(sorted))
	for _, id := range sorted {
		uncovered[id] = true
	}
	inSet := make(map[string]bool)

	var dominating []string
	for len(uncovered) > 0 {
		best := ""
		bestCoverage := -1
		for _, node := range sorted {
			if inSet[node] || !uncovered[node] {
				continue
			}
			coverage := 0
			if uncovered[node] {
				coverage++
			}
			for _, n := range adjacency[node] {
				if uncovered[n] {
					coverage++
				}
			}
			if coverage > bestCoverage {
				bestCoverage = coverage
				best = node
			}
		}
		if best == "" {
			for _, id := range sorted {
				if uncovered[id] {
					best = id
					break
				}
			}
		}

		inSet[best] = true
		dominating = append(dominating, best)
		delete(uncovered, best)
		for _, n := range adjacency[best] {
			delete(uncovered, n)
		}
	}
	return dominating
}

// neighbourhood returns the 1-hop closed neighbourhood H(s) = {s} ∪ N(s),
// sorted for deterministic downstream iteration.
func neighbourhood(center string, adjacency map[string][]string) []string {
	set := map[string]bool{center: true}
	for _, n := range adjacency[center] {
		set[n] = true
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
