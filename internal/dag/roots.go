package dag

import (
	"github.com/opsgraph/workflowctl/internal/graph"
	"github.com/opsgraph/workflowctl/internal/pathmatch"
)

// AffectedWorkflows returns the workflows whose trigger paths match at
// least one of the changed files.
func AffectedWorkflows(changedFiles []string, g *graph.Graph) Set {
	affected := make(Set)
	for _, key := range g.Keys() {
		node := g.Node(key)
		for _, file := range changedFiles {
			if pathmatch.MatchAny(file, node.Paths) {
				affected.Add(key)
				break
			}
		}
	}
	return affected
}

// RootWorkflows computes the minimal set of workflows to trigger directly
// for the given changed files: affected workflows none of whose ancestors
// are themselves affected. Descendants of a root are expected to cascade
// once the root completes, so they are deliberately excluded. The result is
// sorted for deterministic output.
func RootWorkflows(changedFiles []string, g *graph.Graph) []string {
	return rootsOf(AffectedWorkflows(changedFiles, g), g)
}

// MergeRoots computes the minimal root set that covers both the currently
// running workflows and the newly computed roots. It is used when a new
// coordination run starts while workflows from a previous run are still in
// flight: the merge roots are the oldest ancestors that must be (re)started
// to supersede the in-flight work and cover the new changes.
//
// An empty newRoots returns empty: with no new changes the running
// workflows are left to finish untouched. Keys unknown to the graph (stale
// or renamed workflow references) are silently dropped.
func MergeRoots(running, newRoots []string, g *graph.Graph) []string {
	if len(newRoots) == 0 {
		return []string{}
	}

	affected := make(Set)
	for _, key := range running {
		if g.Contains(key) {
			affected.Add(key)
		}
	}
	for _, key := range newRoots {
		if g.Contains(key) {
			affected.Add(key)
		}
	}
	return rootsOf(affected, g)
}

// rootsOf applies the shared "no affected upstream" rule: a key is a root
// iff it is in affected and none of its ancestors are.
func rootsOf(affected Set, g *graph.Graph) []string {
	if len(affected) == 0 {
		return []string{}
	}

	cache := NewCache()
	roots := make(Set)
	for key := range affected {
		if !Ancestors(g, key, cache).Intersects(affected) {
			roots.Add(key)
		}
	}
	return roots.Sorted()
}
