package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGraphJSON = `{
	"bootstrap": {
		"name": "Bootstrap",
		"depends_on": [],
		"paths": ["infra/bootstrap/*"],
		"display_order": 1
	},
	"www_redirect": {
		"name": "WWW Redirect",
		"depends_on": ["bootstrap"],
		"paths": ["infra/www_redirect/*"],
		"display_order": 2
	},
	"www_site": {
		"name": "WWW Site",
		"depends_on": ["bootstrap"],
		"paths": ["infra/www_site/*", "site/**"],
		"display_order": 3
	}
}`

// writeGraph drops the shared fixture graph into a temp dir and returns its
// path.
func writeGraph(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow_dependencies.json")
	require.NoError(t, os.WriteFile(path, []byte(testGraphJSON), 0o644))
	return path
}

// execute runs the command tree with the given arguments and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCommand(&out, &errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestComputeRootWorkflows(t *testing.T) {
	graphPath := writeGraph(t)

	t.Run("changed files map to root workflows", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "infra/www_site/main.tf,site/index.html",
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"workflows": ["www_site"]}`, out)
	})

	t.Run("upstream change supersedes downstream", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "infra/bootstrap/providers.tf,infra/www_site/main.tf",
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"workflows": ["bootstrap"]}`, out)
	})

	t.Run("start-from bypasses file detection", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "README.md",
			"--start-from", "www_redirect",
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"workflows": ["www_redirect"]}`, out)
	})

	t.Run("unknown start-from lists available workflows", func(t *testing.T) {
		_, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "README.md",
			"--start-from", "ghost",
		)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Code)
		assert.Contains(t, exitErr.Message, "unknown workflow 'ghost'")
		assert.Contains(t, exitErr.Message, "bootstrap, www_redirect, www_site")
	})

	t.Run("running workflows merge into roots", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "infra/www_site/main.tf",
			"--running", `["bootstrap"]`,
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"workflows": ["bootstrap"]}`, out)
	})

	t.Run("invalid running JSON is a usage error", func(t *testing.T) {
		_, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "README.md",
			"--running", "not-json",
		)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("execution plan expands descendants in order", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "infra/bootstrap/providers.tf",
			"--execution-plan",
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"workflows": ["bootstrap", "www_redirect", "www_site"]}`, out)
	})

	t.Run("levels partition the plan", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "infra/bootstrap/providers.tf",
			"--levels",
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"levels": [["bootstrap"], ["www_redirect", "www_site"]]}`, out)
	})

	t.Run("indexed levels", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "infra/bootstrap/providers.tf",
			"--levels", "--indexed",
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"workflows": [
			{"idx": "01", "level": 1, "name": "bootstrap"},
			{"idx": "02", "level": 2, "name": "www_redirect"},
			{"idx": "03", "level": 2, "name": "www_site"}
		]}`, out)
	})

	t.Run("slots output", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "infra/bootstrap/providers.tf",
			"--slots", "4",
		)
		require.NoError(t, err)
		assert.Equal(t, "count=3\nkey_01=bootstrap\nkey_02=www_redirect\nkey_03=www_site\nkey_04=\n", out)
	})

	t.Run("no matching files yields empty set", func(t *testing.T) {
		out, err := execute(t,
			"compute-root-workflows",
			"--graph", graphPath,
			"--changed-files", "README.md",
		)
		require.NoError(t, err)
		assert.JSONEq(t, `{"workflows": []}`, out)
	})

	t.Run("missing graph file is an exit-code-1 error", func(t *testing.T) {
		_, err := execute(t,
			"compute-root-workflows",
			"--graph", filepath.Join(t.TempDir(), "nope.json"),
			"--changed-files", "README.md",
		)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Code)
		assert.Contains(t, exitErr.Message, "graph file not found")
	})
}

func TestNewLoggerValidation(t *testing.T) {
	var buf bytes.Buffer

	_, err := newLogger("debug", "json", &buf)
	assert.NoError(t, err)

	_, err = newLogger("verbose", "text", &buf)
	assert.Error(t, err)

	_, err = newLogger("info", "xml", &buf)
	assert.Error(t, err)
}

func TestInvalidLogLevelIsUsageError(t *testing.T) {
	graphPath := writeGraph(t)
	_, err := execute(t,
		"compute-root-workflows",
		"--graph", graphPath,
		"--changed-files", "README.md",
		"--log-level", "verbose",
	)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestParseRunning(t *testing.T) {
	running, err := parseRunning("")
	require.NoError(t, err)
	assert.Nil(t, running)

	running, err = parseRunning(`["a", "b"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, running)

	_, err = parseRunning("{broken")
	assert.True(t, errors.As(err, new(*ExitError)))
}
