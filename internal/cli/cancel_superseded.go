package cli

import (
	"github.com/spf13/cobra"

	"github.com/opsgraph/workflowctl/internal/ctxlog"
	"github.com/opsgraph/workflowctl/internal/dag"
	"github.com/opsgraph/workflowctl/internal/execx"
	"github.com/opsgraph/workflowctl/internal/ghcli"
	"github.com/opsgraph/workflowctl/internal/gitdiff"
)

type cancelOptions struct {
	repo         string
	changedFiles string
	running      string
}

// newCancelSupersededCommand builds `cancel-superseded-workflows`: compute
// the merge roots for the current change, then cancel every live run inside
// their blast radius (the merge roots plus all descendants), because those
// runs are about to be restarted from the roots.
func newCancelSupersededCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &cancelOptions{}

	cmd := &cobra.Command{
		Use:   "cancel-superseded-workflows",
		Short: "Cancel runs superseded by the restart plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCancelSuperseded(cmd, rootOpts, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.repo, "repo", "", "GitHub repository (owner/repo)")
	flags.StringVar(&opts.changedFiles, "changed-files", "", "comma-separated list of changed files")
	flags.StringVar(&opts.running, "running", "[]", "JSON array of currently running workflow keys")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("changed-files")

	return cmd
}

func runCancelSuperseded(cmd *cobra.Command, rootOpts *rootOptions, opts *cancelOptions) error {
	ctx := cmd.Context()
	logger := ctxlog.FromContext(ctx)

	running, err := parseRunning(opts.running)
	if err != nil {
		return err
	}
	if len(running) == 0 {
		// Nothing in flight, nothing to supersede.
		return nil
	}

	g, err := loadGraph(rootOpts.graphPath)
	if err != nil {
		return err
	}

	changed := gitdiff.ParseChangedFiles(opts.changedFiles)
	roots := dag.RootWorkflows(changed, g)
	mergeRoots := dag.MergeRoots(running, roots, g)
	if len(mergeRoots) == 0 {
		return nil
	}

	toCancel := dag.WorkflowsToCancel(mergeRoots, g)
	nameToKey := g.NameToKeyMap()

	client := ghcli.NewClient(opts.repo, execx.NewRunner())
	failed := 0
	for _, run := range client.CancelableRuns(ctx) {
		key, ok := nameToKey[run.Name]
		if !ok || !toCancel.Has(key) {
			continue
		}
		logger.Info("cancelling superseded run", "workflow", key, "run_id", run.ID, "run_number", run.RunNumber)
		if err := client.CancelRun(ctx, run.ID); err != nil {
			logger.Error("cancel failed", "run_id", run.ID, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return &ExitError{Code: 1, Message: "some run cancellations failed"}
	}
	return nil
}
