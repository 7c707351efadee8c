// Package graph expands `requires` expressions into a dependency graph
// over targets and derives a safe execution order.
package graph

import (
	"github.com/awkspace/runfile/internal/document"
	"github.com/awkspace/runfile/pkg/domain"
)

// Graph is a dependency graph over targets: an edge from a dependent to
// each target it requires.
type Graph struct {
	nodes []*domain.Target
	index map[*domain.Target]int
	deps  map[*domain.Target][]*domain.Target
	seen  map[*domain.Target]map[*domain.Target]bool
}

// Build expands the initial target set to its dependency fixed point.
// Expansion is a worklist: each target's `requires` expressions are
// resolved against its own document, an edge is added per resolved target,
// and newly discovered targets join the worklist until no new edges
// appear. Every named target also gets an implicit edge to its document's
// unnamed setup target so document-level setup blocks run first.
func Build(initial []*domain.Target) *Graph {
	g := &Graph{
		index: make(map[*domain.Target]int),
		deps:  make(map[*domain.Target][]*domain.Target),
		seen:  make(map[*domain.Target]map[*domain.Target]bool),
	}

	queue := make([]*domain.Target, 0, len(initial))
	for _, t := range initial {
		queue = append(queue, t)
		g.addNode(t)
	}
	for len(queue) > 0 {
		target := queue[0]
		queue = queue[1:]

		if target.Name != "" {
			if setup := target.Doc.Setup(); setup != nil {
				if g.addNode(setup) {
					queue = append(queue, setup)
				}
				g.addEdge(target, setup)
			}
		}

		for _, expr := range target.Requires() {
			for _, dep := range document.FindTargets(target.Doc, expr) {
				if g.addNode(dep) {
					queue = append(queue, dep)
				}
				g.addEdge(target, dep)
			}
		}
	}
	return g
}

// addNode registers a target, reporting whether it was new.
func (g *Graph) addNode(t *domain.Target) bool {
	if _, ok := g.index[t]; ok {
		return false
	}
	g.index[t] = len(g.nodes)
	g.nodes = append(g.nodes, t)
	return true
}

func (g *Graph) addEdge(from, to *domain.Target) {
	if from == to {
		return
	}
	if g.seen[from] == nil {
		g.seen[from] = make(map[*domain.Target]bool)
	}
	if g.seen[from][to] {
		return
	}
	g.seen[from][to] = true
	g.deps[from] = append(g.deps[from], to)
}

// Targets returns the graph's nodes in discovery order.
func (g *Graph) Targets() []*domain.Target {
	return g.nodes
}

// Dependencies returns the targets t depends on, in edge-insertion order.
func (g *Graph) Dependencies(t *domain.Target) []*domain.Target {
	return g.deps[t]
}
