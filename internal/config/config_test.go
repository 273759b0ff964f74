package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/annotation-checker/pkg/exclude"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, exclude.DefaultCommentMarker, cfg.ExclusionComment)
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	content := `strict: true
exclude_self: true
exclude_files: "(excluded/|test_)"
exclude_parameters: "^test"
exclude_by_name: "^_"
exclusion_comment: skip-annotations
log_level: DEBUG
keep_going: true
debounce: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.True(t, cfg.ExcludeSelf)
	assert.Equal(t, "(excluded/|test_)", cfg.ExcludeFiles)
	assert.Equal(t, "^test", cfg.ExcludeParameters)
	assert.Equal(t, "^_", cfg.ExcludeByName)
	assert.Equal(t, "skip-annotations", cfg.ExclusionComment)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.True(t, cfg.KeepGoing)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.Equal(t, ".annotationignore", cfg.IgnoreFile)

	assert.Equal(t, exclude.Config{
		ParameterPattern:      "^test",
		NamePattern:           "^_",
		ExcludeFirstParameter: true,
		CommentMarker:         "skip-annotations",
	}, cfg.Exclusion())
}

func TestLoadBlankCommentFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exclusion_comment: \"\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, exclude.DefaultCommentMarker, cfg.ExclusionComment)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strict: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}
