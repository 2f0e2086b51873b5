package graph

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
)

// nodeDoc is the wire form of a single workflow entry in a JSON graph
// document.
type nodeDoc struct {
	Name         string   `json:"name"`
	DependsOn    []string `json:"depends_on"`
	Paths        []string `json:"paths"`
	DisplayOrder *int     `json:"display_order"`
}

// Load reads a workflow dependency graph document from path. The format is
// chosen by extension: ".hcl" documents are parsed as HCL, everything else
// as JSON.
func Load(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("graph file not found: %s", path)
		}
		return nil, fmt.Errorf("reading graph file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return parseHCL(path, raw)
	}
	return parseJSON(path, raw)
}

func parseJSON(path string, raw []byte) (*Graph, error) {
	var doc map[string]nodeDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing graph file %s: %w", path, err)
	}

	nodes := make(map[string]*Node, len(doc))
	for key, entry := range doc {
		order := DefaultDisplayOrder
		if entry.DisplayOrder != nil {
			order = *entry.DisplayOrder
		}
		nodes[key] = &Node{
			Key:          key,
			Name:         entry.Name,
			DependsOn:    entry.DependsOn,
			Paths:        entry.Paths,
			DisplayOrder: order,
		}
	}
	return New(nodes), nil
}
