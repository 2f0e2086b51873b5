package dag

import "github.com/opsgraph/workflowctl/internal/graph"

// ExecutionPlan returns every workflow that needs to run for the given
// roots (the roots plus all their descendants) as a single
// dependencies-first sequence.
func ExecutionPlan(roots []string, g *graph.Graph) []string {
	return TopoSort(planSet(roots, g), g)
}

// ExecutionPlanLevels returns the same workflow set as ExecutionPlan
// partitioned into parallel-safe execution levels.
func ExecutionPlanLevels(roots []string, g *graph.Graph) [][]string {
	return TopoSortLevels(planSet(roots, g), g)
}

// WorkflowsToCancel returns the blast radius of a restart plan: the merge
// roots plus every descendant of a merge root. Any in-flight run of a
// workflow in this set is superseded by the restart and should be
// cancelled. Note the distinction from the merge roots themselves, which
// are what gets restarted.
func WorkflowsToCancel(mergeRoots []string, g *graph.Graph) Set {
	return planSet(mergeRoots, g)
}

// planSet unions the roots with their descendants, reusing one descendant
// cache across the whole union.
func planSet(roots []string, g *graph.Graph) Set {
	all := make(Set)
	cache := NewCache()
	for _, root := range roots {
		all.Add(root)
		all.AddAll(Descendants(g, root, cache))
	}
	return all
}
