package graph

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// documentSchema describes the top level of an HCL graph document: a series
// of `workflow "<key>" { ... }` blocks.
var documentSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "workflow", LabelNames: []string{"key"}},
	},
}

var workflowSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
		{Name: "depends_on"},
		{Name: "paths"},
		{Name: "display_order"},
	},
}

// parseHCL decodes an HCL graph document. The HCL form carries the same
// fields as the JSON form, one block per workflow:
//
//	workflow "bootstrap" {
//	  name          = "Bootstrap"
//	  paths         = ["src/bootstrap/**"]
//	  display_order = 1
//	}
func parseHCL(path string, raw []byte) (*Graph, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(raw, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing graph file %s: %w", path, diags)
	}

	content, diags := file.Body.Content(documentSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing graph file %s: %w", path, diags)
	}

	nodes := make(map[string]*Node, len(content.Blocks))
	for _, block := range content.Blocks {
		key := block.Labels[0]
		if _, exists := nodes[key]; exists {
			return nil, fmt.Errorf("parsing graph file %s: duplicate workflow %q at %s", path, key, block.DefRange)
		}

		node, err := decodeWorkflowBlock(key, block)
		if err != nil {
			return nil, fmt.Errorf("parsing graph file %s: %w", path, err)
		}
		nodes[key] = node
	}
	return New(nodes), nil
}

func decodeWorkflowBlock(key string, block *hcl.Block) (*Node, error) {
	content, diags := block.Body.Content(workflowSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	node := &Node{Key: key, DisplayOrder: DefaultDisplayOrder}

	if attr, ok := content.Attributes["name"]; ok {
		if err := decodeAttr(attr, cty.String, &node.Name); err != nil {
			return nil, err
		}
	}
	if attr, ok := content.Attributes["depends_on"]; ok {
		deps, err := decodeStringList(attr)
		if err != nil {
			return nil, err
		}
		node.DependsOn = deps
	}
	if attr, ok := content.Attributes["paths"]; ok {
		paths, err := decodeStringList(attr)
		if err != nil {
			return nil, err
		}
		node.Paths = paths
	}
	if attr, ok := content.Attributes["display_order"]; ok {
		var order int
		if err := decodeAttr(attr, cty.Number, &order); err != nil {
			return nil, err
		}
		node.DisplayOrder = order
	}
	return node, nil
}

// decodeAttr evaluates an attribute expression and converts the resulting
// cty value into the given Go target.
func decodeAttr(attr *hcl.Attribute, want cty.Type, target any) error {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	val, err := convert.Convert(val, want)
	if err != nil {
		return fmt.Errorf("attribute %q at %s: %w", attr.Name, attr.Range, err)
	}
	if val.IsNull() {
		return nil
	}

	switch out := target.(type) {
	case *string:
		*out = val.AsString()
	case *int:
		i, _ := val.AsBigFloat().Int64()
		*out = int(i)
	default:
		return fmt.Errorf("attribute %q: unsupported target type", attr.Name)
	}
	return nil
}

func decodeStringList(attr *hcl.Attribute) ([]string, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	val, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("attribute %q at %s: %w", attr.Name, attr.Range, err)
	}
	if val.IsNull() {
		return nil, nil
	}

	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, elem.AsString())
	}
	return out, nil
}
