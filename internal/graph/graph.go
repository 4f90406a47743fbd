// Package graph implements the dependency graph shared by the stage
// pipeline and the plugin registry: nodes tagged with required/provided
// capability flags, "depends on" edges, three-color cycle detection, and a
// deterministic topological sort.
package graph

import "sort"

// Graph is a directed graph of string-identified nodes. Each node carries
// required/provided flags (used by ValidateRequirements) and the graph's
// edges encode "depends on": AddEdge(from, to) means from depends on to.
type Graph struct {
	required map[string]bool
	provided map[string]bool
	order    []string
	outgoing map[string]map[string]struct{}
	incoming map[string]map[string]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		required: make(map[string]bool),
		provided: make(map[string]bool),
		outgoing: make(map[string]map[string]struct{}),
		incoming: make(map[string]map[string]struct{}),
	}
}

// AddNode ensures id exists in the graph. Idempotent: calling it again for
// the same id ORs the required/provided flags into the existing node
// rather than resetting them.
func (g *Graph) AddNode(id string, required, provided bool) {
	if _, exists := g.outgoing[id]; !exists {
		g.outgoing[id] = make(map[string]struct{})
		g.incoming[id] = make(map[string]struct{})
		g.order = append(g.order, id)
	}
	g.required[id] = g.required[id] || required
	g.provided[id] = g.provided[id] || provided
}

// HasNode reports whether id has been added to the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.outgoing[id]
	return ok
}

// AddEdge records that from depends on to. Both nodes must already exist.
func (g *Graph) AddEdge(from, to string) error {
	if !g.HasNode(from) {
		return ErrMissingNode{ID: from}
	}
	if !g.HasNode(to) {
		return ErrMissingNode{ID: to}
	}
	g.outgoing[from][to] = struct{}{}
	g.incoming[to][from] = struct{}{}
	return nil
}

// Nodes returns every node id in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Dependencies returns the sorted set of ids that id directly depends on.
func (g *Graph) Dependencies(id string) []string {
	return sortedKeys(g.outgoing[id])
}

// Dependents returns the sorted set of ids that directly depend on id.
func (g *Graph) Dependents(id string) []string {
	return sortedKeys(g.incoming[id])
}

// DetectCycles runs a three-color DFS (unvisited / on-stack / done) over the
// graph in sorted node order for determinism, returning the first cycle
// found as an ordered id list where the first and last entries coincide.
// Returns nil if the graph is acyclic.
func (g *Graph) DetectCycles() []string {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	color := make(map[string]int, len(g.order))

	var path []string
	var cycle []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		color[node] = onStack
		path = append(path, node)

		for _, dep := range sortedKeys(g.outgoing[node]) {
			switch color[dep] {
			case unvisited:
				if dfs(dep) {
					return true
				}
			case onStack:
				idx := len(path) - 1
				for idx >= 0 && path[idx] != dep {
					idx--
				}
				if idx >= 0 {
					cycle = append(append([]string{}, path[idx:]...), dep)
					return true
				}
			}
		}

		color[node] = done
		path = path[:len(path)-1]
		return false
	}

	nodes := g.sortedNodes()
	for _, node := range nodes {
		if color[node] == unvisited {
			if dfs(node) {
				return cycle
			}
		}
	}
	return nil
}

// ValidateRequirements checks that every node marked required has at least
// one node in the graph marked provided for the same id. Returns the sorted
// list of ids that are required but unsatisfied; empty when all are met.
func (g *Graph) ValidateRequirements() []string {
	var missing []string
	for _, id := range g.sortedNodes() {
		if g.required[id] && !g.provided[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// TopoSort produces an order where every node appears after all nodes it
// depends on, breaking ties by sorted id at each step (Kahn's algorithm).
// Returns ErrCycle if the graph contains a cycle.
func (g *Graph) TopoSort() ([]string, error) {
	return g.TopoSortWithTiebreak(func(ids []string) { sort.Strings(ids) })
}

// TopoSortWithTiebreak runs the same algorithm as TopoSort but lets the
// caller supply the ordering applied to the set of ready (indegree-zero)
// nodes at each step, in place, before the next one is taken. The plugin
// registry uses this to break ties by priority band before id rather than
// by id alone.
func (g *Graph) TopoSortWithTiebreak(order func(ready []string)) ([]string, error) {
	indegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		indegree[id] = len(g.outgoing[id])
	}

	var ready []string
	for id, degree := range indegree {
		if degree == 0 {
			ready = append(ready, id)
		}
	}
	order(ready)

	result := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		order(ready)
		current := ready[0]
		ready = ready[1:]
		result = append(result, current)

		for _, dependent := range g.Dependents(current) {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(result) != len(g.order) {
		if cycle := g.DetectCycles(); cycle != nil {
			return nil, ErrCycle{Path: cycle}
		}
		return nil, ErrCycle{Path: nil}
	}
	return result, nil
}

func (g *Graph) sortedNodes() []string {
	nodes := make([]string, len(g.order))
	copy(nodes, g.order)
	sort.Strings(nodes)
	return nodes
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
