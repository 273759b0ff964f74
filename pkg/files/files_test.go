package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/annotation-checker/pkg/ignore"
)

func TestFilter(t *testing.T) {
	input := []string{"file1.py", "file2.txt", "excluded/dir/file3.py", "", "test_file4.py"}

	got, err := Filter(input, `(excluded/|test_)`)
	require.NoError(t, err)
	assert.Equal(t, []string{"file1.py"}, got)
}

func TestFilterNoExclude(t *testing.T) {
	input := []string{"file1.py", "file2.txt", "excluded/dir/file3.py", "", "test_file4.py"}

	got, err := Filter(input, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"file1.py", "excluded/dir/file3.py", "test_file4.py"}, got)
}

func TestFilterSearchSemantics(t *testing.T) {
	got, err := Filter([]string{"no_args.py", "no_return.py", "not_a_function.py"}, `no_.*\.py`)
	require.NoError(t, err)
	assert.Equal(t, []string{"not_a_function.py"}, got)
}

func TestFilterInvalidPattern(t *testing.T) {
	_, err := Filter([]string{"a.py"}, "(")
	require.Error(t, err)
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))
}

func TestExpandDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "b.py"))
	touch(t, filepath.Join(root, "a.py"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "pkg", "mod.py"))
	touch(t, filepath.Join(root, "pkg", "api_pb2.py"))
	touch(t, filepath.Join(root, ".venv", "lib.py"))
	touch(t, filepath.Join(root, "__pycache__", "cached.py"))
	touch(t, filepath.Join(root, "build", "gen.py"))

	single := filepath.Join(t.TempDir(), "single.py")
	touch(t, single)

	matcher := ignore.Parse([]string{"*_pb2.py", "build/"})
	got, err := Expand([]string{single, root, single}, matcher)
	require.NoError(t, err)

	assert.Equal(t, []string{
		single,
		filepath.Join(root, "a.py"),
		filepath.Join(root, "b.py"),
		filepath.Join(root, "pkg", "mod.py"),
	}, got)
}

func TestExpandKeepsMissingPaths(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.py")
	got, err := Expand([]string{missing}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{missing}, got)
}

func TestSkipDir(t *testing.T) {
	cases := map[string]bool{
		".git":        true,
		".venv":       true,
		"__pycache__": true,
		"venv":        true,
		"src":         false,
		".":           false,
		"":            false,
	}
	for name, want := range cases {
		assert.Equal(t, want, SkipDir(name), "SkipDir(%q)", name)
	}
}
