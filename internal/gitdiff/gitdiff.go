// Package gitdiff determines which files changed between two commits,
// tolerating the awkward cases a CI checkout produces: force pushes, zero
// SHAs, shallow clones with a missing base commit, and initial commits.
package gitdiff

import (
	"context"
	"strings"

	"github.com/goccy/go-json"

	"github.com/opsgraph/workflowctl/internal/ctxlog"
	"github.com/opsgraph/workflowctl/internal/execx"
)

// ZeroSHA is the all-zeroes SHA a push event reports for a newly created
// branch or after a force push.
const ZeroSHA = "0000000000000000000000000000000000000000"

// skipMarkers are the commit-message directives that exclude a commit's
// files from triggering workflows.
var skipMarkers = []string{"[skip ci]", "[ci skip]", "[no ci]", "[skip actions]"}

// Commit is the subset of a push-event commit object the skip-CI filter
// needs.
type Commit struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Differ runs git queries through an injected Runner.
type Differ struct {
	runner execx.Runner
}

// New returns a Differ using the given command runner.
func New(runner execx.Runner) *Differ {
	return &Differ{runner: runner}
}

// ChangedFiles lists the files changed between base and head.
//
// When base is the zero SHA or does not exist locally (shallow clone), the
// previous commit is used instead. If the diff yields nothing, a `git show`
// of head is the fallback.
func (d *Differ) ChangedFiles(ctx context.Context, base, head string) []string {
	logger := ctxlog.FromContext(ctx)

	effectiveBase := base
	switch {
	case base == ZeroSHA:
		effectiveBase = "HEAD~1"
	case !d.commitExists(ctx, base):
		logger.Debug("base commit not available, falling back", "base", base)
		effectiveBase = "HEAD~1"
	}

	if files := d.diffNames(ctx, effectiveBase, head); len(files) > 0 {
		return files
	}
	return d.showNames(ctx, head)
}

// FilterSkipCI removes files touched only by commits whose message carries
// a skip marker. commitsJSON is the push event's commits array; malformed
// or empty input filters nothing.
func (d *Differ) FilterSkipCI(ctx context.Context, files []string, commitsJSON string) []string {
	excluded := d.excludedFiles(ctx, commitsJSON)
	if len(excluded) == 0 {
		return files
	}

	kept := make([]string, 0, len(files))
	for _, file := range files {
		if _, skip := excluded[file]; !skip {
			kept = append(kept, file)
		}
	}
	return kept
}

// ParseChangedFiles splits a comma-separated changed-files argument,
// trimming whitespace and dropping empties.
func ParseChangedFiles(csv string) []string {
	var files []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			files = append(files, trimmed)
		}
	}
	return files
}

// HasSkipMarker reports whether a commit message contains any skip-CI
// directive, case-insensitively.
func HasSkipMarker(message string) bool {
	lower := strings.ToLower(message)
	for _, marker := range skipMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (d *Differ) excludedFiles(ctx context.Context, commitsJSON string) map[string]struct{} {
	if strings.TrimSpace(commitsJSON) == "" {
		return nil
	}

	var commits []Commit
	if err := json.Unmarshal([]byte(commitsJSON), &commits); err != nil {
		ctxlog.FromContext(ctx).Debug("unparseable commits payload, skipping filter", "error", err)
		return nil
	}

	excluded := make(map[string]struct{})
	for _, commit := range commits {
		if commit.ID == "" || !HasSkipMarker(commit.Message) {
			continue
		}
		for _, file := range d.showNames(ctx, commit.ID) {
			excluded[file] = struct{}{}
		}
	}
	return excluded
}

func (d *Differ) commitExists(ctx context.Context, sha string) bool {
	result, err := d.runner.Run(ctx, "git", "cat-file", "-e", sha)
	return err == nil && result.ExitCode == 0
}

func (d *Differ) diffNames(ctx context.Context, base, head string) []string {
	result, err := d.runner.Run(ctx, "git", "diff", "--name-only", base, head)
	if err != nil || result.ExitCode != 0 {
		return nil
	}
	return splitLines(result.Stdout)
}

func (d *Differ) showNames(ctx context.Context, sha string) []string {
	result, err := d.runner.Run(ctx, "git", "show", "--name-only", "--format=", sha)
	if err != nil || result.ExitCode != 0 {
		return nil
	}
	return splitLines(result.Stdout)
}

func splitLines(out string) []string {
	var files []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			files = append(files, line)
		}
	}
	return files
}
