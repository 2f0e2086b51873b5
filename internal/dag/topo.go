package dag

import (
	"slices"
	"sort"

	"github.com/opsgraph/workflowctl/internal/graph"
)

// TopoSort flattens the given workflows into a single dependencies-first
// sequence using Kahn's algorithm restricted to the subset: in-degrees only
// count edges where both endpoints are in workflows.
//
// The ready queue is kept sorted at all times, so independent workflows are
// emitted in lexicographic order and the result is a fully deterministic
// total order. Cyclic input terminates with the acyclic portion of the
// subset.
func TopoSort(workflows Set, g *graph.Graph) []string {
	inDegree := buildInDegrees(workflows, g)

	queue := make([]string, 0, len(workflows))
	for key, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, key)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(workflows))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for key := range workflows {
			if slices.Contains(g.DependsOn(key), current) {
				inDegree[key]--
				if inDegree[key] == 0 {
					queue = insertSorted(queue, key)
				}
			}
		}
	}
	return result
}

// TopoSortLevels partitions the given workflows into execution levels:
// every workflow in a level has all its in-subset dependencies in earlier
// levels, so workflows within one level are mutually parallel-safe.
// Within a level, workflows sort by (display order, key).
//
// If no workflow with zero remaining dependencies exists while workflows
// remain, a cycle is present: the levels accumulated so far are returned
// rather than looping.
func TopoSortLevels(workflows Set, g *graph.Graph) [][]string {
	inDegree := buildInDegrees(workflows, g)
	remaining := make(Set, len(workflows))
	remaining.AddAll(workflows)

	var levels [][]string
	for len(remaining) > 0 {
		var level []string
		for key := range remaining {
			if inDegree[key] == 0 {
				level = append(level, key)
			}
		}
		if len(level) == 0 {
			break
		}

		sort.Slice(level, func(i, j int) bool {
			oi, oj := g.DisplayOrder(level[i]), g.DisplayOrder(level[j])
			if oi != oj {
				return oi < oj
			}
			return level[i] < level[j]
		})
		levels = append(levels, level)

		for _, key := range level {
			delete(remaining, key)
			for other := range remaining {
				if slices.Contains(g.DependsOn(other), key) {
					inDegree[other]--
				}
			}
		}
	}
	return levels
}

// buildInDegrees counts, for each workflow in the subset, how many of its
// declared dependencies are also in the subset.
func buildInDegrees(workflows Set, g *graph.Graph) map[string]int {
	inDegree := make(map[string]int, len(workflows))
	for key := range workflows {
		inDegree[key] = 0
		for _, dep := range g.DependsOn(key) {
			if workflows.Has(dep) {
				inDegree[key]++
			}
		}
	}
	return inDegree
}

// insertSorted inserts key into the sorted ready queue, preserving order.
func insertSorted(queue []string, key string) []string {
	i := sort.SearchStrings(queue, key)
	return slices.Insert(queue, i, key)
}
