package graph

import (
	"strings"

	"github.com/awkspace/runfile/pkg/domain"
)

// TopoOrder returns the graph's targets in a topological order:
// dependencies strictly before dependents, ties broken by discovery order
// for deterministic scheduling. A cycle aborts with a FormatError naming
// the participating targets in cycle order; nothing should execute in that
// case.
func (g *Graph) TopoOrder() ([]*domain.Target, error) {
	// Kahn's algorithm over dependency edges. indegree counts unexecuted
	// dependencies; a node is ready when it reaches zero.
	indegree := make([]int, len(g.nodes))
	dependents := make([][]int, len(g.nodes))
	for from, deps := range g.deps {
		fi := g.index[from]
		indegree[fi] = len(deps)
		for _, dep := range deps {
			di := g.index[dep]
			dependents[di] = append(dependents[di], fi)
		}
	}

	var ready []int
	for i := range g.nodes {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]*domain.Target, 0, len(g.nodes))
	for len(ready) > 0 {
		// Lowest discovery index first keeps scheduling deterministic.
		min := 0
		for i := range ready {
			if ready[i] < ready[min] {
				min = i
			}
		}
		node := ready[min]
		ready = append(ready[:min], ready[min+1:]...)

		order = append(order, g.nodes[node])
		for _, dependent := range dependents[node] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(order) < len(g.nodes) {
		return nil, cycleError(g, indegree)
	}
	return order, nil
}

// cycleError extracts one cycle among the unsorted remainder and reports
// its target names in traversal order.
func cycleError(g *Graph, indegree []int) error {
	remaining := make(map[*domain.Target]bool)
	for i, t := range g.nodes {
		if indegree[i] > 0 {
			remaining[t] = true
		}
	}

	// Walk dependency edges inside the remainder until a node repeats,
	// then emit the loop from its first occurrence.
	var start *domain.Target
	for _, t := range g.nodes {
		if remaining[t] {
			start = t
			break
		}
	}
	var path []*domain.Target
	visited := make(map[*domain.Target]int)
	cur := start
	for {
		if at, ok := visited[cur]; ok {
			path = path[at:]
			break
		}
		visited[cur] = len(path)
		path = append(path, cur)
		for _, dep := range g.deps[cur] {
			if remaining[dep] {
				cur = dep
				break
			}
		}
	}

	names := make([]string, 0, len(path))
	for _, t := range path {
		name := t.UniqueName
		if name == "" {
			name = t.Name
		}
		names = append(names, name)
	}
	return domain.Formatf("target loop detected: %s", strings.Join(names, " -> "))
}
