// Package actions formats coordinator results for GitHub Actions: JSON on
// stdout for downstream jobs, key=value lines in $GITHUB_OUTPUT, and a
// markdown step summary for humans.
package actions

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// IndexedWorkflow is one workflow entry in the indexed output form, used by
// GitHub Actions matrix visualization to keep ordering stable.
type IndexedWorkflow struct {
	Idx   string `json:"idx"`
	Level int    `json:"level,omitempty"`
	Name  string `json:"name"`
}

// WriteWorkflows writes {"workflows": [...]} to w.
func WriteWorkflows(w io.Writer, workflows []string) error {
	if workflows == nil {
		workflows = []string{}
	}
	return writeJSON(w, map[string]any{"workflows": workflows})
}

// WriteWorkflowsIndexed writes the workflows as zero-padded indexed objects.
func WriteWorkflowsIndexed(w io.Writer, workflows []string) error {
	indexed := make([]IndexedWorkflow, 0, len(workflows))
	for i, name := range workflows {
		indexed = append(indexed, IndexedWorkflow{Idx: fmt.Sprintf("%02d", i+1), Name: name})
	}
	return writeJSON(w, map[string]any{"workflows": indexed})
}

// WriteLevels writes {"levels": [[...], ...]} to w.
func WriteLevels(w io.Writer, levels [][]string) error {
	if levels == nil {
		levels = [][]string{}
	}
	return writeJSON(w, map[string]any{"levels": levels})
}

// WriteLevelsIndexed flattens levels into indexed objects that also carry
// their 1-based level number.
func WriteLevelsIndexed(w io.Writer, levels [][]string) error {
	var indexed []IndexedWorkflow
	idx := 1
	for levelNum, level := range levels {
		for _, name := range level {
			indexed = append(indexed, IndexedWorkflow{
				Idx:   fmt.Sprintf("%02d", idx),
				Level: levelNum + 1,
				Name:  name,
			})
			idx++
		}
	}
	if indexed == nil {
		indexed = []IndexedWorkflow{}
	}
	return writeJSON(w, map[string]any{"workflows": indexed})
}

// WriteSlots writes a fixed number of key_NN variables plus a count, for
// workflows wired to a fixed set of dispatch slots.
func WriteSlots(w io.Writer, workflows []string, slots int) error {
	if _, err := fmt.Fprintf(w, "count=%d\n", len(workflows)); err != nil {
		return err
	}
	for i := 1; i <= slots; i++ {
		key := ""
		if i <= len(workflows) {
			key = workflows[i-1]
		}
		if _, err := fmt.Fprintf(w, "key_%02d=%s\n", i, key); err != nil {
			return err
		}
	}
	return nil
}

// WriteFiles writes {"files": [...]} to w.
func WriteFiles(w io.Writer, files []string) error {
	if files == nil {
		files = []string{}
	}
	return writeJSON(w, map[string]any{"files": files})
}

// AppendOutput appends name=value to the file named by the GITHUB_OUTPUT
// environment variable. Outside of Actions (variable unset) it is a no-op.
func AppendOutput(name, value string) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}
	return appendLine(path, fmt.Sprintf("%s=%s\n", name, value))
}

// AppendSummary appends markdown to the file named by the
// GITHUB_STEP_SUMMARY environment variable. Outside of Actions it is a
// no-op.
func AppendSummary(markdown string) error {
	path := os.Getenv("GITHUB_STEP_SUMMARY")
	if path == "" {
		return nil
	}
	return appendLine(path, markdown)
}

func appendLine(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}

func writeJSON(w io.Writer, payload any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
