package cmd

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpeningc/gitassist/internal/ui"
)

func TestRelToRepo(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	file := filepath.Join(root, "src", "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0o644))

	rel, err := relToRepo(root, file)
	require.NoError(t, err)
	assert.Equal(t, "src/main.go", rel)

	rel, err = relToRepo(root, filepath.Join(root, "missing.txt"))
	require.NoError(t, err)
	assert.Equal(t, "missing.txt", rel)

	_, err = relToRepo(filepath.Join(root, "src"), filepath.Join(root, "other.txt"))
	assert.Error(t, err)
}

func TestUnresolvedError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, unresolvedError(0))
	assert.EqualError(t, unresolvedError(2), "2 file(s) could not be resolved")
}

func TestDecisionSource(t *testing.T) {
	p := &prompts{lines: ui.NewConflictPrompter(strings.NewReader(""), io.Discard)}

	source, err := decisionSource("", p)
	require.NoError(t, err)
	assert.Same(t, p.lines, source)

	source, err = decisionSource("both", p)
	require.NoError(t, err)
	assert.NotNil(t, source)

	_, err = decisionSource("sideways", p)
	assert.Error(t, err)
}
