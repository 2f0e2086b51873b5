package dag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestExecutionPlan(t *testing.T) {
	g := diamondGraph()

	t.Run("root expands to all descendants in order", func(t *testing.T) {
		got := ExecutionPlan([]string{"root"}, g)
		assert.Equal(t, []string{"root", "left", "right", "bottom"}, got)
	})

	t.Run("mid-graph root", func(t *testing.T) {
		got := ExecutionPlan([]string{"left"}, g)
		assert.Equal(t, []string{"left", "bottom"}, got)
	})

	t.Run("multiple roots share the descendant union", func(t *testing.T) {
		got := ExecutionPlan([]string{"left", "right"}, g)
		assert.Equal(t, []string{"left", "right", "bottom"}, got)
	})

	t.Run("no roots", func(t *testing.T) {
		assert.Empty(t, ExecutionPlan(nil, g))
	})
}

func TestExecutionPlanLevels(t *testing.T) {
	g := diamondGraph()

	got := ExecutionPlanLevels([]string{"root"}, g)
	want := [][]string{{"root"}, {"left", "right"}, {"bottom"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("plan levels mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkflowsToCancel(t *testing.T) {
	g := diamondGraph()

	t.Run("blast radius includes descendants", func(t *testing.T) {
		toCancel := WorkflowsToCancel([]string{"left"}, g)
		assert.Equal(t, []string{"bottom", "left"}, toCancel.Sorted())
	})

	t.Run("root covers everything", func(t *testing.T) {
		toCancel := WorkflowsToCancel([]string{"root"}, g)
		assert.Equal(t, []string{"bottom", "left", "right", "root"}, toCancel.Sorted())
	})

	t.Run("empty merge roots cancel nothing", func(t *testing.T) {
		assert.Empty(t, WorkflowsToCancel(nil, g))
	})
}
