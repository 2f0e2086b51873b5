package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsgraph/workflowctl/internal/graph"
)

// infraGraph mirrors a small deployment pipeline: www_redirect and www_site
// both depend on bootstrap.
func infraGraph() *graph.Graph {
	return graph.New(map[string]*graph.Node{
		"bootstrap": {
			Key:          "bootstrap",
			Paths:        []string{"src/bootstrap/**"},
			DisplayOrder: 1,
		},
		"www_redirect": {
			Key:          "www_redirect",
			DependsOn:    []string{"bootstrap"},
			Paths:        []string{"src/www/redirect/**"},
			DisplayOrder: graph.DefaultDisplayOrder,
		},
		"www_site": {
			Key:          "www_site",
			DependsOn:    []string{"bootstrap"},
			Paths:        []string{"src/www/site/**"},
			DisplayOrder: graph.DefaultDisplayOrder,
		},
	})
}

// diamondPathGraph is the diamond with one trigger path per node.
func diamondPathGraph() *graph.Graph {
	nodes := map[string]*graph.Node{
		"root":   {Key: "root", Paths: []string{"root/**"}},
		"left":   {Key: "left", DependsOn: []string{"root"}, Paths: []string{"left/**"}},
		"right":  {Key: "right", DependsOn: []string{"root"}, Paths: []string{"right/**"}},
		"bottom": {Key: "bottom", DependsOn: []string{"left", "right"}, Paths: []string{"bottom/**"}},
	}
	for _, n := range nodes {
		n.DisplayOrder = graph.DefaultDisplayOrder
	}
	return graph.New(nodes)
}

func TestAffectedWorkflows(t *testing.T) {
	g := infraGraph()

	affected := AffectedWorkflows([]string{"src/bootstrap/main.tf", "README.md"}, g)
	assert.Equal(t, []string{"bootstrap"}, affected.Sorted())

	assert.Empty(t, AffectedWorkflows([]string{"README.md"}, g))
	assert.Empty(t, AffectedWorkflows(nil, g))
}

func TestRootWorkflows(t *testing.T) {
	g := infraGraph()

	t.Run("single affected workflow is the root", func(t *testing.T) {
		roots := RootWorkflows([]string{"src/bootstrap/main.tf"}, g)
		assert.Equal(t, []string{"bootstrap"}, roots)
	})

	t.Run("downstream workflows are excluded", func(t *testing.T) {
		roots := RootWorkflows([]string{"src/bootstrap/main.tf", "src/www/redirect/index.tf"}, g)
		assert.Equal(t, []string{"bootstrap"}, roots)
	})

	t.Run("no affected workflows yields empty", func(t *testing.T) {
		assert.Empty(t, RootWorkflows([]string{"docs/readme.md"}, g))
	})

	t.Run("duplicate changed files are idempotent", func(t *testing.T) {
		once := RootWorkflows([]string{"src/www/site/a.tf"}, g)
		twice := RootWorkflows([]string{"src/www/site/a.tf", "src/www/site/a.tf"}, g)
		assert.Equal(t, once, twice)
	})
}

func TestRootWorkflowsDiamond(t *testing.T) {
	g := diamondPathGraph()

	tests := []struct {
		name    string
		changed []string
		want    []string
	}{
		{"both middle branches", []string{"left/a", "right/b"}, []string{"left", "right"}},
		{"branch and its descendant", []string{"left/a", "bottom/c"}, []string{"left"}},
		{"all four", []string{"root/r", "left/a", "right/b", "bottom/c"}, []string{"root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RootWorkflows(tt.changed, g))
		})
	}
}

func TestMergeRoots(t *testing.T) {
	g := infraGraph()

	t.Run("empty new roots leaves running untouched", func(t *testing.T) {
		assert.Empty(t, MergeRoots([]string{"www_redirect"}, nil, g))
		assert.Empty(t, MergeRoots([]string{"www_redirect"}, []string{}, g))
	})

	t.Run("new ancestor supersedes running descendant", func(t *testing.T) {
		got := MergeRoots([]string{"www_redirect"}, []string{"bootstrap"}, g)
		assert.Equal(t, []string{"bootstrap"}, got)
	})

	t.Run("running ancestor wins over new descendant", func(t *testing.T) {
		got := MergeRoots([]string{"bootstrap"}, []string{"www_redirect"}, g)
		assert.Equal(t, []string{"bootstrap"}, got)
	})

	t.Run("disjoint branches keep their own roots", func(t *testing.T) {
		got := MergeRoots([]string{"www_redirect"}, []string{"www_site"}, g)
		assert.Equal(t, []string{"www_redirect", "www_site"}, got)
	})

	t.Run("equal key collapses to itself", func(t *testing.T) {
		got := MergeRoots([]string{"www_site"}, []string{"www_site"}, g)
		assert.Equal(t, []string{"www_site"}, got)
	})

	t.Run("unknown keys are dropped silently", func(t *testing.T) {
		got := MergeRoots([]string{"renamed_workflow"}, []string{"bootstrap", "stale"}, g)
		assert.Equal(t, []string{"bootstrap"}, got)
	})

	t.Run("all unknown yields empty", func(t *testing.T) {
		assert.Empty(t, MergeRoots([]string{"ghost"}, []string{"stale"}, g))
	})
}

func TestMergeRootsCoverage(t *testing.T) {
	g := diamondPathGraph()

	running := []string{"bottom", "right"}
	newRoots := []string{"left"}
	mergeRoots := MergeRoots(running, newRoots, g)

	// The merge roots plus their descendants must cover both inputs.
	covered := WorkflowsToCancel(mergeRoots, g)
	for _, key := range append(running, newRoots...) {
		assert.True(t, covered.Has(key), "%s not covered by %v", key, mergeRoots)
	}
}
