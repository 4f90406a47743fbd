package graph

import "strings"

// ErrMissingNode is returned by AddEdge when either endpoint has not been
// added to the graph via AddNode.
type ErrMissingNode struct {
	ID string
}

func (e ErrMissingNode) Error() string {
	return "dependency graph: unknown node " + e.ID
}

// ErrCycle is returned by TopoSort when the graph contains a cycle. Path is
// the ordered list of ids forming the cycle, with the first and last
// entries coinciding; it is nil if the caller's own cycle detection could
// not isolate the exact path.
type ErrCycle struct {
	Path []string
}

func (e ErrCycle) Error() string {
	if len(e.Path) == 0 {
		return "dependency graph: cycle detected"
	}
	return "dependency graph: cycle detected: " + strings.Join(e.Path, " -> ")
}
