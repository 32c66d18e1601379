package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/arbor/internal/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarDoc_FrontMatter(t *testing.T) {
	doc := GrammarDoc(t, map[string]any{
		"axiom":      "F",
		"rules":      []string{"F -> F[+F]F"},
		"iterations": 2,
	}, "A twig.")

	require.Contains(t, doc, "\n---\nA twig.")

	front := doc[len("---\n") : len(doc)-len("---\nA twig.")]
	g, err := compiler.NewParser().Parse([]byte(front))
	require.NoError(t, err)
	assert.Equal(t, "F", g.Axiom.String())
	assert.Equal(t, 2, g.Iterations)
	require.Len(t, g.Rules, 1)
	assert.Equal(t, "F[+F]F", g.Rules[0].Successor.String())
}

func TestSetupGrammarDir(t *testing.T) {
	dir := SetupGrammarDir(t, map[string]string{"a.md": "---\naxiom: A\n---\n"})

	raw, err := os.ReadFile(filepath.Join(dir, "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "axiom: A")
}
