package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsgraph/workflowctl/internal/actions"
	"github.com/opsgraph/workflowctl/internal/ctxlog"
	"github.com/opsgraph/workflowctl/internal/dag"
	"github.com/opsgraph/workflowctl/internal/gitdiff"
)

type computeRootsOptions struct {
	changedFiles  string
	startFrom     string
	running       string
	executionPlan bool
	levels        bool
	indexed       bool
	slots         int
}

// newComputeRootsCommand builds `compute-root-workflows`: turn changed
// files into the minimal set of workflows to trigger, optionally expanded
// into a full execution plan or parallel levels.
func newComputeRootsCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &computeRootsOptions{}

	cmd := &cobra.Command{
		Use:   "compute-root-workflows",
		Short: "Compute root workflows to trigger from changed files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComputeRoots(cmd, rootOpts, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.changedFiles, "changed-files", "", "comma-separated list of changed files")
	flags.StringVar(&opts.startFrom, "start-from", "", "workflow to start from, bypassing file detection")
	flags.StringVar(&opts.running, "running", "", "JSON array of currently running workflow keys to merge with")
	flags.BoolVar(&opts.executionPlan, "execution-plan", false, "output the full execution plan (roots + descendants) in topological order")
	flags.BoolVar(&opts.levels, "levels", false, "output the execution plan as parallel levels")
	flags.BoolVar(&opts.indexed, "indexed", false, "output indexed objects for the Actions matrix")
	flags.IntVar(&opts.slots, "slots", 0, "output slot variables key_01..key_NN")
	_ = cmd.MarkFlagRequired("changed-files")

	return cmd
}

func runComputeRoots(cmd *cobra.Command, rootOpts *rootOptions, opts *computeRootsOptions) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)
	out := cmd.OutOrStdout()

	g, err := loadGraph(rootOpts.graphPath)
	if err != nil {
		return err
	}

	var roots []string
	if opts.startFrom != "" {
		if !g.Contains(opts.startFrom) {
			return &ExitError{
				Code: 1,
				Message: "unknown workflow '" + opts.startFrom + "'\navailable workflows: " +
					strings.Join(g.Keys(), ", "),
			}
		}
		roots = []string{opts.startFrom}
	} else {
		changed := gitdiff.ParseChangedFiles(opts.changedFiles)
		roots = dag.RootWorkflows(changed, g)
	}

	running, err := parseRunning(opts.running)
	if err != nil {
		return err
	}
	if len(running) > 0 {
		logger.Debug("merging with running workflows", "running", running, "roots", roots)
		roots = dag.MergeRoots(running, roots, g)
	}

	switch {
	case opts.levels:
		levels := dag.ExecutionPlanLevels(roots, g)
		if opts.indexed {
			return actions.WriteLevelsIndexed(out, levels)
		}
		return actions.WriteLevels(out, levels)
	case opts.slots > 0:
		plan := dag.ExecutionPlan(roots, g)
		return actions.WriteSlots(out, plan, opts.slots)
	case opts.executionPlan:
		plan := dag.ExecutionPlan(roots, g)
		if opts.indexed {
			return actions.WriteWorkflowsIndexed(out, plan)
		}
		return actions.WriteWorkflows(out, plan)
	case opts.indexed:
		return actions.WriteWorkflowsIndexed(out, roots)
	default:
		return actions.WriteWorkflows(out, roots)
	}
}
