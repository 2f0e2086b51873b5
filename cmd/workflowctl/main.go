package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/opsgraph/workflowctl/internal/cli"
)

// main is the entrypoint for workflowctl.
func main() {
	// Use a minimal logger until the command wiring configures the real one.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command tree; separated from main for testing and clean
// exit-code handling.
func run(args []string) error {
	root := cli.NewRootCommand(os.Stdout, os.Stderr)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
