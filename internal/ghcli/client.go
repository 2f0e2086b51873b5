// Package ghcli wraps the `gh` command-line tool for the handful of GitHub
// Actions operations the coordinator needs: listing runs, cancelling runs,
// dispatching workflows and checking recent successes.
//
// Everything here is a thin I/O collaborator around the pure graph logic in
// internal/dag; the Runner injection point keeps it testable without a real
// gh binary.
package ghcli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"

	"github.com/opsgraph/workflowctl/internal/ctxlog"
	"github.com/opsgraph/workflowctl/internal/execx"
)

// Run statuses the coordinator cares about when looking for supersedable
// work.
const (
	StatusInProgress = "in_progress"
	StatusQueued     = "queued"
)

// Run is one workflow run as reported by the GitHub API.
type Run struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	RunNumber int64  `json:"run_number"`
}

// Client issues gh commands against a single repository.
type Client struct {
	repo   string
	runner execx.Runner

	// maxElapsed bounds the retry window for listing calls.
	maxElapsed time.Duration
}

// NewClient returns a Client for the given "owner/repo" repository.
func NewClient(repo string, runner execx.Runner) *Client {
	return &Client{repo: repo, runner: runner, maxElapsed: 15 * time.Second}
}

// ListRuns returns the workflow runs currently in the given status. A
// failing gh invocation yields an empty list rather than an error: the
// caller treats "could not list" the same as "nothing running". Transient
// failures are retried with exponential backoff first.
func (c *Client) ListRuns(ctx context.Context, status string) []Run {
	logger := ctxlog.FromContext(ctx)

	query := fmt.Sprintf(".workflow_runs | map(select(.status == %q))", status)
	args := []string{
		"api",
		fmt.Sprintf("repos/%s/actions/runs", c.repo),
		"-q", query,
	}

	var stdout string
	operation := func() error {
		result, err := c.runner.Run(ctx, "gh", args...)
		if err != nil {
			return backoff.Permanent(err)
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("gh api exited %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
		}
		stdout = result.Stdout
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		logger.Warn("listing workflow runs failed", "status", status, "error", err)
		return nil
	}

	if strings.TrimSpace(stdout) == "" {
		return nil
	}
	var runs []Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		logger.Warn("unparseable run list from gh", "status", status, "error", err)
		return nil
	}
	return runs
}

// CancelRun cancels a single workflow run. A run that already finished
// ("cannot be cancelled") counts as success.
func (c *Client) CancelRun(ctx context.Context, runID int64) error {
	result, err := c.runner.Run(ctx, "gh", "run", "cancel", fmt.Sprint(runID), "--repo", c.repo)
	if err != nil {
		return fmt.Errorf("cancelling run %d: %w", runID, err)
	}
	if result.ExitCode != 0 {
		if strings.Contains(strings.ToLower(result.Stderr), "cannot be cancelled") {
			return nil
		}
		return fmt.Errorf("cancelling run %d: %s", runID, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Dispatch triggers a workflow_dispatch of the given workflow file,
// passing each input as an -f key=value flag.
func (c *Client) Dispatch(ctx context.Context, workflowFile string, inputs map[string]string) error {
	args := []string{"workflow", "run", workflowFile, "--repo", c.repo}
	for _, name := range sortedKeys(inputs) {
		args = append(args, "-f", fmt.Sprintf("%s=%s", name, inputs[name]))
	}

	result, err := c.runner.Run(ctx, "gh", args...)
	if err != nil {
		return fmt.Errorf("dispatching %s: %w", workflowFile, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("dispatching %s: %s", workflowFile, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// SucceededSince reports whether the workflow has at least one successful
// run created at or after since. It implements cascade.RunHistory.
func (c *Client) SucceededSince(ctx context.Context, key string, since time.Time) (bool, error) {
	created := url.QueryEscape(">=" + since.UTC().Format("2006-01-02T15:04:05Z"))
	path := fmt.Sprintf("repos/%s/actions/workflows/%s.yml/runs?status=success&created=%s", c.repo, key, created)

	result, err := c.runner.Run(ctx, "gh", "api", path, "-q", ".workflow_runs[0].id")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(result.Stdout) != "", nil
}

// WorkflowFileExists reports whether the pipeline definition for key exists
// under dir (the repository checkout root).
func WorkflowFileExists(dir, key string) bool {
	info, err := os.Stat(workflowFilePath(dir, key))
	return err == nil && !info.IsDir()
}

// WorkflowAcceptsInput reports whether the pipeline definition for key
// declares the given workflow_dispatch input.
func WorkflowAcceptsInput(dir, key, input string) bool {
	content, err := os.ReadFile(workflowFilePath(dir, key))
	if err != nil {
		return false
	}
	return strings.Contains(string(content), input+":")
}

func workflowFilePath(dir, key string) string {
	return filepath.Join(dir, ".github", "workflows", key+".yml")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Deterministic flag order keeps dispatch invocations reproducible.
	sort.Strings(keys)
	return keys
}
