// Package dispatch triggers root workflows on the CI platform, deriving the
// optional trigger_descendants / invalidate_cloudfront inputs from flags
// and bracketed commit-message directives.
package dispatch

import (
	"context"
	"fmt"
	"regexp"

	"github.com/opsgraph/workflowctl/internal/ctxlog"
	"github.com/opsgraph/workflowctl/internal/ghcli"
)

// Workflow-dispatch input names understood by downstream pipelines.
const (
	InputTriggerDescendants   = "trigger_descendants"
	InputInvalidateCloudFront = "invalidate_cloudfront"
)

var (
	triggerDirective    = regexp.MustCompile(`(?i)\[trigger descendants\]`)
	invalidateDirective = regexp.MustCompile(`(?i)\[invalidate cloudfront\]`)
)

// ShouldTriggerDescendants reports whether descendant workflows should be
// triggered after the roots complete: either the explicit flag was passed
// or the commit message carries a [trigger descendants] directive
// (case-insensitive).
func ShouldTriggerDescendants(flag bool, commitMessage string) bool {
	return flag || triggerDirective.MatchString(commitMessage)
}

// ShouldInvalidateCloudFront reports whether downstream workflows should
// force a CDN cache invalidation, by flag or [invalidate cloudfront]
// directive.
func ShouldInvalidateCloudFront(flag bool, commitMessage string) bool {
	return flag || invalidateDirective.MatchString(commitMessage)
}

// Client is the subset of the gh collaborator the dispatcher needs.
type Client interface {
	Dispatch(ctx context.Context, workflowFile string, inputs map[string]string) error
}

// Dispatcher triggers workflows whose pipeline definitions live under Dir.
type Dispatcher struct {
	Client Client
	// Dir is the repository checkout root containing .github/workflows.
	Dir string
}

// DispatchWorkflow triggers a single workflow, passing only the optional
// inputs the workflow file actually declares. Workflows that don't accept
// an input must not receive it; gh would reject the dispatch outright.
func (d *Dispatcher) DispatchWorkflow(ctx context.Context, key string, triggerDescendants, invalidateCloudFront bool) error {
	if !ghcli.WorkflowFileExists(d.Dir, key) {
		return fmt.Errorf("workflow file not found: %s.yml", key)
	}

	inputs := make(map[string]string)
	if triggerDescendants && ghcli.WorkflowAcceptsInput(d.Dir, key, InputTriggerDescendants) {
		inputs[InputTriggerDescendants] = "true"
	}
	if invalidateCloudFront && ghcli.WorkflowAcceptsInput(d.Dir, key, InputInvalidateCloudFront) {
		inputs[InputInvalidateCloudFront] = "true"
	}

	return d.Client.Dispatch(ctx, ".github/workflows/"+key+".yml", inputs)
}

// DispatchRoots triggers every root workflow, skipping keys whose pipeline
// definition is absent. All roots are attempted regardless of earlier
// failures; an error is returned iff at least one dispatch failed.
func (d *Dispatcher) DispatchRoots(ctx context.Context, roots []string, triggerDescendants, invalidateCloudFront bool) error {
	logger := ctxlog.FromContext(ctx)

	failed := 0
	for _, key := range roots {
		if !ghcli.WorkflowFileExists(d.Dir, key) {
			logger.Debug("skipping root with no workflow file", "workflow", key)
			continue
		}
		if err := d.DispatchWorkflow(ctx, key, triggerDescendants, invalidateCloudFront); err != nil {
			logger.Error("dispatch failed", "workflow", key, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d root dispatches failed", failed, len(roots))
	}
	return nil
}
