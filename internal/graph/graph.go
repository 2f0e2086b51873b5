// Package graph holds the static workflow dependency graph: which workflows
// exist, which workflows they depend on, and which file paths trigger them.
//
// The graph is loaded once per invocation from a declarative document and is
// read-only afterwards. Edges point from dependent to dependency via
// DependsOn; a prebuilt reverse index answers "who depends on me" without
// rescanning every node.
package graph

import "sort"

// DefaultDisplayOrder is the sentinel for workflows that declare no display
// order. It sorts after every explicitly ordered workflow.
const DefaultDisplayOrder = 999

// Node is a single workflow in the dependency graph.
type Node struct {
	// Key is the unique identifier, which doubles as the name of the
	// pipeline definition file (.github/workflows/<key>.yml).
	Key string

	// Name is the human-readable display name reported by the CI platform
	// for runs of this workflow. May be empty.
	Name string

	// DependsOn lists the keys of workflows this one depends on. Entries
	// may reference keys absent from the graph; traversal treats those as
	// leaves.
	DependsOn []string

	// Paths are the glob-style trigger patterns. A changed file affects
	// this workflow if it matches any of them.
	Paths []string

	// DisplayOrder is the tiebreak used when partitioning workflows into
	// parallel levels. Defaults to DefaultDisplayOrder.
	DisplayOrder int
}

// Graph is an immutable set of workflow nodes keyed by workflow key.
type Graph struct {
	nodes map[string]*Node
	// dependents indexes reverse edges. It is keyed by referenced name, so
	// a dangling depends_on target is queryable even though it has no node.
	dependents map[string][]string
}

// New builds a Graph from the given nodes and indexes reverse edges.
func New(nodes map[string]*Node) *Graph {
	g := &Graph{
		nodes:      make(map[string]*Node, len(nodes)),
		dependents: make(map[string][]string),
	}
	for key, node := range nodes {
		g.nodes[key] = node
	}

	keys := g.Keys()
	for _, key := range keys {
		for _, dep := range g.nodes[key].DependsOn {
			g.dependents[dep] = append(g.dependents[dep], key)
		}
	}
	return g
}

// Node returns the node for key, or nil if the key is not in the graph.
func (g *Graph) Node(key string) *Node {
	return g.nodes[key]
}

// Contains reports whether key is a workflow in the graph.
func (g *Graph) Contains(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

// Len returns the number of workflows in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Keys returns all workflow keys in lexicographic order.
func (g *Graph) Keys() []string {
	keys := make([]string, 0, len(g.nodes))
	for key := range g.nodes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DependsOn returns the declared dependencies of key, or nil for unknown
// keys.
func (g *Graph) DependsOn(key string) []string {
	if node := g.nodes[key]; node != nil {
		return node.DependsOn
	}
	return nil
}

// Dependents returns the keys of workflows that directly depend on key, in
// lexicographic order. The key itself does not have to be in the graph.
func (g *Graph) Dependents(key string) []string {
	deps := g.dependents[key]
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, len(deps))
	copy(out, deps)
	sort.Strings(out)
	return out
}

// DisplayOrder returns the display order for key, or DefaultDisplayOrder
// for unknown keys.
func (g *Graph) DisplayOrder(key string) int {
	if node := g.nodes[key]; node != nil {
		return node.DisplayOrder
	}
	return DefaultDisplayOrder
}

// NameToKeyMap maps workflow display names back to workflow keys. The CI
// platform's run listing reports display names, not keys; this map converts
// them. Workflows with an empty display name are skipped.
func (g *Graph) NameToKeyMap() map[string]string {
	nameToKey := make(map[string]string, len(g.nodes))
	for key, node := range g.nodes {
		if node.Name != "" {
			nameToKey[node.Name] = key
		}
	}
	return nameToKey
}
