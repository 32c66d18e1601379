package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// SetupTestRepo initializes a Loam repository in a fresh temp dir and returns
// its absolute path with the repository. It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// SetupGrammarDir writes files (name → content) into a fresh temp dir and
// returns its path, ready to be opened with arbor.New.
func SetupGrammarDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		WriteGrammar(t, dir, name, content)
	}
	return dir
}

// WriteGrammar writes one grammar document into dir.
func WriteGrammar(t *testing.T, dir, filename, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644)
	require.NoError(t, err, "Failed to write grammar %s", filename)
}

// GrammarDoc renders a Markdown grammar document: meta as YAML front matter,
// then body as the description.
func GrammarDoc(t *testing.T, meta map[string]any, body string) string {
	t.Helper()
	front, err := yaml.Marshal(meta)
	require.NoError(t, err, "Failed to marshal front matter")
	return "---\n" + string(front) + "---\n" + body
}
