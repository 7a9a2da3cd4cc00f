package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramcheck/internal/config"
	"paramcheck/internal/logging"
	"paramcheck/internal/models"
)

func touch(t *testing.T, root, rel string, size int) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0644))
}

func TestCollectSourceFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "index.js", 10)
	touch(t, root, "src/app.tsx", 10)
	touch(t, root, "src/app.test.ts", 10)
	touch(t, root, "src/huge.js", 3*1024)
	touch(t, root, "src/readme.md", 10)
	touch(t, root, "node_modules/dep/index.js", 10)
	touch(t, root, "dist/bundle.js", 10)

	cfg := config.DefaultConfig()
	cfg.Files.MaxFileSize = 2
	filter, err := cfg.Files.Compile()
	require.NoError(t, err)

	files, err := collectSourceFiles(root, filter, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "index.js"),
		filepath.Join(root, "src", "app.tsx"),
	}, files)
}

func TestCollectSourceFiles_SingleFile(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "one.ts", 10)
	touch(t, root, "two.txt", 10)

	filter, err := config.DefaultConfig().Files.Compile()
	require.NoError(t, err)

	files, err := collectSourceFiles(filepath.Join(root, "one.ts"), filter, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "one.ts")}, files)

	files, err = collectSourceFiles(filepath.Join(root, "two.txt"), filter, logging.Nop())
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = collectSourceFiles(filepath.Join(root, "missing"), filter, logging.Nop())
	assert.Error(t, err)
}

func TestFailsThreshold(t *testing.T) {
	result := models.NewAnalysisResult()
	result.AddIssue(models.Issue{Severity: models.SeverityLow})

	cfg := config.DefaultConfig()
	assert.False(t, failsThreshold(cfg, result))

	cfg.Analysis.FailOn = "low"
	assert.True(t, failsThreshold(cfg, result))

	cfg.Analysis.FailOn = "none"
	assert.False(t, failsThreshold(cfg, result))
}
