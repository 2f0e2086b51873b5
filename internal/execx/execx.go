// Package execx abstracts running external commands (git, gh) behind a
// narrow interface so collaborators can be faked in tests.
package execx

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Result captures the outcome of one external command invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs an external command to completion and captures its output. A
// non-zero exit code is reported through Result, not through the error; the
// error is reserved for failures to run the command at all.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// OSRunner is the production Runner backed by os/exec.
type OSRunner struct{}

// NewRunner returns a Runner that executes real processes.
func NewRunner() Runner {
	return OSRunner{}
}

// Run executes the command, capturing stdout and stderr separately.
func (OSRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return result, err
	}
	return result, nil
}
