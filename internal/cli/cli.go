// Package cli wires the workflowctl subcommands: pure graph computations
// from internal/dag surrounded by thin git/gh collaborators. stdout carries
// machine-readable output only; logs go to stderr.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsgraph/workflowctl/internal/ctxlog"
)

// DefaultGraphPath is where the workflow dependency graph document lives
// unless overridden with --graph.
const DefaultGraphPath = "etc/workflow_dependencies.json"

// ExitError is an error with a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// usageErr returns an ExitError with the usage exit code.
func usageErr(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	graphPath string
	logLevel  string
	logFormat string
}

// NewRootCommand builds the workflowctl command tree. Output writers are
// injected for tests; logs always go to errW, results to outW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "workflowctl",
		Short:         "Coordinate CI workflow triggering from a dependency graph",
		Long:          "workflowctl computes which workflows to trigger, supersede or cascade\nfor a set of changed files, from a declarative workflow dependency graph.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.graphPath, "graph", DefaultGraphPath, "path to the workflow dependency graph file (.json or .hcl)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(opts.logLevel, opts.logFormat, errW)
		if err != nil {
			return usageErr("%s", err)
		}
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
		return nil
	}

	root.AddCommand(
		newComputeRootsCommand(opts),
		newGetRunningCommand(opts),
		newCancelSupersededCommand(opts),
		newComputeDescendantsCommand(opts),
		newGetChangedFilesCommand(),
		newDispatchRootsCommand(opts),
		newDispatchWorkflowCommand(),
	)
	return root
}

func newLogger(levelStr, formatStr string, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(formatStr) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log-format: must be 'text' or 'json'")
	}
}
