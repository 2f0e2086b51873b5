package ghcli

import (
	"context"
	"sort"
)

// CancelableRuns returns the in-progress and queued runs, in that order.
// These are the only runs a supersession plan can usefully cancel.
func (c *Client) CancelableRuns(ctx context.Context) []Run {
	runs := c.ListRuns(ctx, StatusInProgress)
	return append(runs, c.ListRuns(ctx, StatusQueued)...)
}

// RunningWorkflowKeys maps the currently cancelable runs back to workflow
// keys via the display-name mapping, dropping runs whose name is unknown to
// the graph and, optionally, the coordinator's own key. The result is
// sorted and de-duplicated.
func (c *Client) RunningWorkflowKeys(ctx context.Context, nameToKey map[string]string, exclude string) []string {
	seen := make(map[string]struct{})
	for _, run := range c.CancelableRuns(ctx) {
		if run.Name == "" {
			continue
		}
		key, ok := nameToKey[run.Name]
		if !ok {
			continue
		}
		if exclude != "" && key == exclude {
			continue
		}
		seen[key] = struct{}{}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
