package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := runCommand(t, "version")
	assert.True(t, strings.HasPrefix(out, "arbor version "))
}

func TestGenerateCommand(t *testing.T) {
	out := runCommand(t, "generate", "algae", "-n", "3", "--format", "sequence")
	assert.Equal(t, "ABAAB\n", out)
}

func TestPresetsCommand(t *testing.T) {
	out := runCommand(t, "presets")
	assert.Contains(t, out, "tree3d")
}

func TestGraphCommand(t *testing.T) {
	out := runCommand(t, "graph", "plant", "-n", "1", "--seed", "4")
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "b1 --> b2")
}
