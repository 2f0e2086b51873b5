package cli

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/opsgraph/workflowctl/internal/actions"
	"github.com/opsgraph/workflowctl/internal/cascade"
	"github.com/opsgraph/workflowctl/internal/execx"
	"github.com/opsgraph/workflowctl/internal/ghcli"
)

type computeDescendantsOptions struct {
	repo          string
	workflow      string
	lookbackHours int
}

// descendantsResult is the stdout payload of `compute-descendants`.
type descendantsResult struct {
	CompletedWorkflow string                    `json:"completed_workflow"`
	Ready             []string                  `json:"ready"`
	Waiting           map[string]cascade.Status `json:"waiting"`
}

// newComputeDescendantsCommand builds `compute-descendants`: after a
// workflow completes, decide which of its direct descendants have every
// dependency satisfied and may cascade.
func newComputeDescendantsCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &computeDescendantsOptions{}

	cmd := &cobra.Command{
		Use:   "compute-descendants",
		Short: "Partition a completed workflow's descendants into ready and waiting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComputeDescendants(cmd, rootOpts, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.repo, "repo", "", "GitHub repository (owner/repo)")
	flags.StringVar(&opts.workflow, "workflow", "", "the workflow key that just completed")
	flags.IntVar(&opts.lookbackHours, "lookback-hours", 24, "hours to look back for successful dependency runs")
	_ = cmd.MarkFlagRequired("repo")
	_ = cmd.MarkFlagRequired("workflow")

	return cmd
}

func runComputeDescendants(cmd *cobra.Command, rootOpts *rootOptions, opts *computeDescendantsOptions) error {
	ctx := cmd.Context()

	g, err := loadGraph(rootOpts.graphPath)
	if err != nil {
		return err
	}

	client := ghcli.NewClient(opts.repo, execx.NewRunner())
	evaluator := cascade.NewEvaluator(client, time.Duration(opts.lookbackHours)*time.Hour)
	ready, waiting := evaluator.DescendantsStatus(ctx, g, opts.workflow)

	readyJSON, err := json.Marshal(ready)
	if err != nil {
		return err
	}
	waitingOutput := make(map[string]map[string][]string, len(waiting))
	for key, status := range waiting {
		waitingOutput[key] = map[string][]string{
			"missing":   status.Missing,
			"satisfied": status.Satisfied,
		}
	}
	waitingJSON, err := json.Marshal(waitingOutput)
	if err != nil {
		return err
	}

	if err := actions.AppendOutput("ready", string(readyJSON)); err != nil {
		return err
	}
	if err := actions.AppendOutput("waiting", string(waitingJSON)); err != nil {
		return err
	}
	if err := actions.AppendSummary(actions.DescendantSummary(opts.workflow, ready, waiting)); err != nil {
		return err
	}

	result := descendantsResult{
		CompletedWorkflow: opts.workflow,
		Ready:             ready,
		Waiting:           waiting,
	}
	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(encoded))
	return nil
}
