package cli

import (
	"github.com/spf13/cobra"

	"github.com/opsgraph/workflowctl/internal/actions"
	"github.com/opsgraph/workflowctl/internal/execx"
	"github.com/opsgraph/workflowctl/internal/ghcli"
)

// coordinatorKey is the graph key of the coordination workflow itself,
// excluded from running-set queries so it never supersedes anything.
const coordinatorKey = "workflowctl"

// newGetRunningCommand builds `get-running-workflows`: list in-progress and
// queued runs and map their display names back to graph keys.
func newGetRunningCommand(rootOpts *rootOptions) *cobra.Command {
	var repo string
	var includeSelf bool

	cmd := &cobra.Command{
		Use:   "get-running-workflows",
		Short: "List currently running workflows as graph keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(rootOpts.graphPath)
			if err != nil {
				return err
			}

			exclude := coordinatorKey
			if includeSelf {
				exclude = ""
			}

			client := ghcli.NewClient(repo, execx.NewRunner())
			keys := client.RunningWorkflowKeys(cmd.Context(), g.NameToKeyMap(), exclude)
			return actions.WriteWorkflows(cmd.OutOrStdout(), keys)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository (owner/repo)")
	cmd.Flags().BoolVar(&includeSelf, "include-workflowctl", false, "include the coordinator workflow itself in the results")
	_ = cmd.MarkFlagRequired("repo")
	return cmd
}
