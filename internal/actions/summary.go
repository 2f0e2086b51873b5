package actions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opsgraph/workflowctl/internal/cascade"
)

// DescendantSummary renders the markdown step summary for a descendant
// readiness evaluation: a status table plus a per-workflow breakdown of
// what each waiting workflow is still missing.
func DescendantSummary(completed string, ready []string, waiting map[string]cascade.Status) string {
	var b strings.Builder
	b.WriteString("## Descendant Dispatch Summary\n\n")
	fmt.Fprintf(&b, "**Completed:** `%s`\n\n", completed)

	waitingKeys := make([]string, 0, len(waiting))
	for key := range waiting {
		waitingKeys = append(waitingKeys, key)
	}
	sort.Strings(waitingKeys)

	if len(ready) == 0 && len(waitingKeys) == 0 {
		b.WriteString("*No descendants found.*\n")
		return b.String()
	}

	b.WriteString("| Descendant | Status | Details |\n")
	b.WriteString("|------------|--------|---------|\n")
	for _, key := range ready {
		fmt.Fprintf(&b, "| `%s` | Ready | All dependencies satisfied |\n", key)
	}
	for _, key := range waitingKeys {
		missing := make([]string, 0, len(waiting[key].Missing))
		for _, dep := range waiting[key].Missing {
			missing = append(missing, fmt.Sprintf("`%s`", dep))
		}
		fmt.Fprintf(&b, "| `%s` | Waiting | Missing: %s |\n", key, strings.Join(missing, ", "))
	}

	if len(waitingKeys) > 0 {
		b.WriteString("\n### Waiting Workflows\n")
		for _, key := range waitingKeys {
			fmt.Fprintf(&b, "**%s** requires:\n", key)
			for _, dep := range waiting[key].Satisfied {
				fmt.Fprintf(&b, "- `%s` - Satisfied\n", dep)
			}
			for _, dep := range waiting[key].Missing {
				fmt.Fprintf(&b, "- `%s` - Missing (no successful run)\n", dep)
			}
		}
	}
	return b.String()
}
