package cli

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/opsgraph/workflowctl/internal/graph"
)

// parseRunning decodes the --running argument, a JSON array of workflow
// keys. Empty input means no running workflows.
func parseRunning(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var running []string
	if err := json.Unmarshal([]byte(raw), &running); err != nil {
		return nil, usageErr("invalid JSON for --running: %s", raw)
	}
	return running, nil
}

// loadGraph loads the dependency graph, converting failures into exit-code-1
// errors.
func loadGraph(path string) (*graph.Graph, error) {
	g, err := graph.Load(path)
	if err != nil {
		return nil, &ExitError{Code: 1, Message: fmt.Sprint(err)}
	}
	return g, nil
}
