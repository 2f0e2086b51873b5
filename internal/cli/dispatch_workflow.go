package cli

import (
	"github.com/spf13/cobra"

	"github.com/opsgraph/workflowctl/internal/dispatch"
	"github.com/opsgraph/workflowctl/internal/execx"
	"github.com/opsgraph/workflowctl/internal/ghcli"
)

// newDispatchWorkflowCommand builds `dispatch-workflow`: trigger a single
// workflow by key, passing the optional inputs it declares.
func newDispatchWorkflowCommand() *cobra.Command {
	var repo, workflow string
	var triggerDescendants, invalidateCloudFront bool

	cmd := &cobra.Command{
		Use:   "dispatch-workflow",
		Short: "Dispatch a single workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			dispatcher := &dispatch.Dispatcher{
				Client: ghcli.NewClient(repo, execx.NewRunner()),
				Dir:    ".",
			}
			err := dispatcher.DispatchWorkflow(cmd.Context(), workflow, triggerDescendants, invalidateCloudFront)
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository (owner/repo)")
	cmd.Flags().StringVar(&workflow, "workflow", "", "workflow key (without .yml extension)")
	cmd.Flags().BoolVar(&triggerDescendants, "trigger-descendants", false, "pass trigger_descendants=true to the workflow")
	cmd.Flags().BoolVar(&invalidateCloudFront, "invalidate-cloudfront", false, "pass invalidate_cloudfront=true to the workflow")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("workflow")
	return cmd
}
