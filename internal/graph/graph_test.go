package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopoSortOrdersDependenciesFirst(t *testing.T) {
	g := New()
	g.AddNode("a", false, false)
	g.AddNode("b", false, false)
	g.AddNode("c", false, false)
	require.NoError(t, g.AddEdge("c", "b"))
	require.NoError(t, g.AddEdge("b", "a"))

	order, err := g.TopoSort()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestTopoSortBreaksTiesByID(t *testing.T) {
	g := New()
	g.AddNode("z", false, false)
	g.AddNode("a", false, false)
	g.AddNode("m", false, false)

	order, err := g.TopoSort()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "m", "z"}, order)
}

func TestTopoSortDetectsCycle(t *testing.T) {
	g := New()
	g.AddNode("a", false, false)
	g.AddNode("b", false, false)
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "a"))

	_, err := g.TopoSort()
	require.Error(t, err)
	var cycleErr ErrCycle
	require.ErrorAs(t, err, &cycleErr)
}

func TestDetectCyclesReturnsPath(t *testing.T) {
	g := New()
	g.AddNode("a", false, false)
	g.AddNode("b", false, false)
	g.AddNode("c", false, false)
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))
	require.NoError(t, g.AddEdge("c", "a"))

	cycle := g.DetectCycles()
	require.NotEmpty(t, cycle)
	require.Equal(t, cycle[0], cycle[len(cycle)-1])
}

func TestAddEdgeRejectsMissingNode(t *testing.T) {
	g := New()
	g.AddNode("a", false, false)

	err := g.AddEdge("a", "ghost")
	require.Error(t, err)
	var missing ErrMissingNode
	require.ErrorAs(t, err, &missing)
}

func TestAddNodeIsIdempotentAndOrsFlags(t *testing.T) {
	g := New()
	g.AddNode("svc", true, false)
	g.AddNode("svc", false, true)

	missing := g.ValidateRequirements()
	require.Empty(t, missing)
}

func TestValidateRequirementsReportsMissingProvider(t *testing.T) {
	g := New()
	g.AddNode("needs-db", true, false)

	missing := g.ValidateRequirements()
	require.Equal(t, []string{"needs-db"}, missing)
}

func TestTopoSortWithTiebreakHonorsCustomOrder(t *testing.T) {
	g := New()
	g.AddNode("low", false, false)
	g.AddNode("high", false, false)

	priority := map[string]int{"high": 0, "low": 1}
	order, err := g.TopoSortWithTiebreak(func(ready []string) {
		// stable sort by custom priority, then lexical
		for i := 1; i < len(ready); i++ {
			for j := i; j > 0 && less(priority, ready[j-1], ready[j]); j-- {
				ready[j-1], ready[j] = ready[j], ready[j-1]
			}
		}
	})
	require.NoError(t, err)
	require.Equal(t, []string{"high", "low"}, order)
}

func less(priority map[string]int, a, b string) bool {
	if priority[a] != priority[b] {
		return priority[a] > priority[b]
	}
	return a > b
}
