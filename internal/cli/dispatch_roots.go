package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/opsgraph/workflowctl/internal/dag"
	"github.com/opsgraph/workflowctl/internal/dispatch"
	"github.com/opsgraph/workflowctl/internal/execx"
	"github.com/opsgraph/workflowctl/internal/ghcli"
	"github.com/opsgraph/workflowctl/internal/gitdiff"
)

type dispatchRootsOptions struct {
	repo                 string
	changedFiles         string
	running              string
	commitMessage        string
	triggerDescendants   bool
	invalidateCloudFront bool
}

// newDispatchRootsCommand builds `dispatch-root-workflows`: compute the
// (merge) roots for the current change and trigger each of them, deriving
// the optional workflow inputs from flags and commit-message directives.
func newDispatchRootsCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &dispatchRootsOptions{}

	cmd := &cobra.Command{
		Use:   "dispatch-root-workflows",
		Short: "Dispatch root workflows for the current change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatchRoots(cmd, rootOpts, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.repo, "repo", "", "GitHub repository (owner/repo)")
	flags.StringVar(&opts.changedFiles, "changed-files", "", "comma-separated list of changed files")
	flags.StringVar(&opts.running, "running", "[]", "JSON array of currently running workflow keys")
	flags.StringVar(&opts.commitMessage, "commit-message", os.Getenv("COMMIT_MESSAGE"), "commit message to scan for bracketed directives")
	flags.BoolVar(&opts.triggerDescendants, "trigger-descendants", false, "trigger descendant workflows after the roots complete")
	flags.BoolVar(&opts.invalidateCloudFront, "invalidate-cloudfront", false, "force CDN cache invalidation in descendant workflows")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("changed-files")

	return cmd
}

func runDispatchRoots(cmd *cobra.Command, rootOpts *rootOptions, opts *dispatchRootsOptions) error {
	ctx := cmd.Context()

	g, err := loadGraph(rootOpts.graphPath)
	if err != nil {
		return err
	}

	changed := gitdiff.ParseChangedFiles(opts.changedFiles)
	roots := dag.RootWorkflows(changed, g)

	running, err := parseRunning(opts.running)
	if err != nil {
		return err
	}
	if len(running) > 0 {
		roots = dag.MergeRoots(running, roots, g)
	}
	if len(roots) == 0 {
		return nil
	}

	dispatcher := &dispatch.Dispatcher{
		Client: ghcli.NewClient(opts.repo, execx.NewRunner()),
		Dir:    ".",
	}
	err = dispatcher.DispatchRoots(ctx, roots,
		dispatch.ShouldTriggerDescendants(opts.triggerDescendants, opts.commitMessage),
		dispatch.ShouldInvalidateCloudFront(opts.invalidateCloudFront, opts.commitMessage),
	)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	return nil
}
