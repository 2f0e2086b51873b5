// Package cascade decides which downstream workflows may be dispatched
// after one of their dependencies completes.
//
// A workflow with several dependencies (a fan-in) must not be triggered
// until every one of its dependencies has actually succeeded recently; this
// package partitions the direct descendants of a just-completed workflow
// into ready and waiting accordingly.
package cascade

import (
	"context"
	"sort"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/opsgraph/workflowctl/internal/ctxlog"
	"github.com/opsgraph/workflowctl/internal/graph"
)

// RunHistory answers whether a workflow has had a successful run recently.
// The production implementation queries the CI platform; tests inject
// fakes.
type RunHistory interface {
	SucceededSince(ctx context.Context, key string, since time.Time) (bool, error)
}

// Status describes the dependency state of a single descendant workflow.
type Status struct {
	// AllMet reports whether every dependency is satisfied.
	AllMet bool `json:"all_met"`
	// Satisfied lists dependencies with a recent successful run. The
	// just-completed workflow is always first.
	Satisfied []string `json:"satisfied"`
	// Missing lists dependencies without a recent successful run.
	Missing []string `json:"missing"`
}

// Evaluator checks descendant readiness against a run-history collaborator
// using an injectable clock for the lookback window.
type Evaluator struct {
	History  RunHistory
	Clock    clock.Clock
	Lookback time.Duration
}

// NewEvaluator returns an Evaluator on the real clock.
func NewEvaluator(history RunHistory, lookback time.Duration) *Evaluator {
	return &Evaluator{History: history, Clock: clock.New(), Lookback: lookback}
}

// DirectDescendants returns the workflows that directly depend on key, in
// lexicographic order.
func DirectDescendants(g *graph.Graph, key string) []string {
	return g.Dependents(key)
}

// DependencyStatus evaluates one descendant of the just-completed workflow.
// The completed workflow itself is always counted as satisfied (it
// triggered this evaluation); every other direct dependency is checked for
// a successful run within the lookback window. A failed history lookup
// counts the dependency as missing.
func (e *Evaluator) DependencyStatus(ctx context.Context, g *graph.Graph, descendant, completed string) Status {
	logger := ctxlog.FromContext(ctx)

	satisfied := []string{completed}
	missing := []string{}

	var others []string
	for _, dep := range g.DependsOn(descendant) {
		if dep != completed {
			others = append(others, dep)
		}
	}

	if len(others) > 0 {
		since := e.Clock.Now().UTC().Add(-e.Lookback)
		for _, dep := range others {
			ok, err := e.History.SucceededSince(ctx, dep, since)
			if err != nil {
				logger.Warn("dependency run lookup failed, treating as missing",
					"workflow", descendant, "dependency", dep, "error", err)
				ok = false
			}
			if ok {
				satisfied = append(satisfied, dep)
			} else {
				missing = append(missing, dep)
			}
		}
	}

	return Status{
		AllMet:    len(missing) == 0,
		Satisfied: satisfied,
		Missing:   missing,
	}
}

// DescendantsStatus evaluates every direct descendant of the just-completed
// workflow, partitioning them into ready (all dependencies satisfied) and
// waiting (at least one dependency missing).
func (e *Evaluator) DescendantsStatus(ctx context.Context, g *graph.Graph, completed string) (ready []string, waiting map[string]Status) {
	ready = []string{}
	waiting = make(map[string]Status)

	for _, descendant := range DirectDescendants(g, completed) {
		status := e.DependencyStatus(ctx, g, descendant, completed)
		if status.AllMet {
			ready = append(ready, descendant)
		} else {
			waiting[descendant] = status
		}
	}

	sort.Strings(ready)
	return ready, waiting
}
