package cli

import (
	"github.com/spf13/cobra"

	"github.com/opsgraph/workflowctl/internal/actions"
	"github.com/opsgraph/workflowctl/internal/execx"
	"github.com/opsgraph/workflowctl/internal/gitdiff"
)

// newGetChangedFilesCommand builds `get-changed-files`: list the files
// changed between two commits, excluding files touched only by commits
// whose message carries a skip-CI marker.
func newGetChangedFilesCommand() *cobra.Command {
	var base, head, commits string

	cmd := &cobra.Command{
		Use:   "get-changed-files",
		Short: "List changed files between two commits",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			differ := gitdiff.New(execx.NewRunner())

			files := differ.ChangedFiles(ctx, base, head)
			if commits != "" {
				files = differ.FilterSkipCI(ctx, files, commits)
			}
			return actions.WriteFiles(cmd.OutOrStdout(), files)
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "base commit SHA")
	cmd.Flags().StringVar(&head, "head", "", "head commit SHA")
	cmd.Flags().StringVar(&commits, "commits", "", "JSON array of push-event commits for skip-CI filtering")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("head")
	return cmd
}
