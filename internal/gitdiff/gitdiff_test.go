package gitdiff

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsgraph/workflowctl/internal/execx"
)

// fakeGit maps a joined command line to a canned result.
type fakeGit struct {
	results map[string]execx.Result
	calls   []string
}

func (f *fakeGit) Run(_ context.Context, name string, args ...string) (execx.Result, error) {
	cmdline := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, cmdline)
	if result, ok := f.results[cmdline]; ok {
		return result, nil
	}
	return execx.Result{ExitCode: 1}, nil
}

func TestChangedFiles(t *testing.T) {
	ctx := context.Background()

	t.Run("normal diff between existing commits", func(t *testing.T) {
		git := &fakeGit{results: map[string]execx.Result{
			"git cat-file -e abc123":           {},
			"git diff --name-only abc123 def4": {Stdout: "src/a.tf\nsrc/b.tf\n"},
		}}
		files := New(git).ChangedFiles(ctx, "abc123", "def4")
		assert.Equal(t, []string{"src/a.tf", "src/b.tf"}, files)
	})

	t.Run("zero SHA uses previous commit", func(t *testing.T) {
		git := &fakeGit{results: map[string]execx.Result{
			"git diff --name-only HEAD~1 def4": {Stdout: "new.txt\n"},
		}}
		files := New(git).ChangedFiles(ctx, ZeroSHA, "def4")
		assert.Equal(t, []string{"new.txt"}, files)
		assert.NotContains(t, git.calls, "git cat-file -e "+ZeroSHA)
	})

	t.Run("missing base falls back to previous commit", func(t *testing.T) {
		git := &fakeGit{results: map[string]execx.Result{
			"git diff --name-only HEAD~1 def4": {Stdout: "x.go\n"},
		}}
		files := New(git).ChangedFiles(ctx, "shallow-gone", "def4")
		assert.Equal(t, []string{"x.go"}, files)
	})

	t.Run("empty diff falls back to git show", func(t *testing.T) {
		git := &fakeGit{results: map[string]execx.Result{
			"git cat-file -e abc123":              {},
			"git diff --name-only abc123 def4":    {Stdout: ""},
			"git show --name-only --format= def4": {Stdout: "only.md\n"},
		}}
		files := New(git).ChangedFiles(ctx, "abc123", "def4")
		assert.Equal(t, []string{"only.md"}, files)
	})

	t.Run("everything failing yields nothing", func(t *testing.T) {
		git := &fakeGit{results: map[string]execx.Result{}}
		assert.Empty(t, New(git).ChangedFiles(ctx, "abc123", "def4"))
	})
}

func TestFilterSkipCI(t *testing.T) {
	ctx := context.Background()
	files := []string{"keep.go", "drop.go"}

	t.Run("files from skip-ci commits are excluded", func(t *testing.T) {
		git := &fakeGit{results: map[string]execx.Result{
			"git show --name-only --format= c1": {Stdout: "drop.go\n"},
		}}
		commits := `[{"id": "c1", "message": "wip [skip ci]"}, {"id": "c2", "message": "fix"}]`
		got := New(git).FilterSkipCI(ctx, files, commits)
		assert.Equal(t, []string{"keep.go"}, got)
	})

	t.Run("malformed commits JSON filters nothing", func(t *testing.T) {
		got := New(&fakeGit{}).FilterSkipCI(ctx, files, `{broken`)
		assert.Equal(t, files, got)
	})

	t.Run("empty commits filters nothing", func(t *testing.T) {
		got := New(&fakeGit{}).FilterSkipCI(ctx, files, "")
		assert.Equal(t, files, got)
	})
}

func TestHasSkipMarker(t *testing.T) {
	assert.True(t, HasSkipMarker("chore [skip ci]"))
	assert.True(t, HasSkipMarker("chore [CI SKIP]"))
	assert.True(t, HasSkipMarker("[no ci] tweak"))
	assert.True(t, HasSkipMarker("docs [skip actions]"))
	assert.False(t, HasSkipMarker("fix: skip the ci checks later"))
}

func TestParseChangedFiles(t *testing.T) {
	assert.Equal(t, []string{"a.go", "b.go"}, ParseChangedFiles("a.go, b.go"))
	assert.Equal(t, []string{"a.go"}, ParseChangedFiles("a.go,,  ,"))
	assert.Empty(t, ParseChangedFiles(""))
}
