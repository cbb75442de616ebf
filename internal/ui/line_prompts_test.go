package ui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpeningc/gitassist/internal/ui"
)

func TestLinePrompts_Confirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"whatever\n", false},
		{"", false},
	}

	for _, tc := range tests {
		p := ui.NewConflictPrompter(strings.NewReader(tc.input), &bytes.Buffer{})
		got, err := p.Confirm("Continue?")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestLinePrompts_ChooseEntries(t *testing.T) {
	t.Parallel()

	entries := []string{".env", "id_rsa"}

	p := ui.NewConflictPrompter(strings.NewReader("y\n"), &bytes.Buffer{})
	got, err := p.ChooseEntries("Add these?", entries)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	p = ui.NewConflictPrompter(strings.NewReader("n\n"), &bytes.Buffer{})
	got, err = p.ChooseEntries("Add these?", entries)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLinePrompts_ChooseBranch(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := ui.NewConflictPrompter(strings.NewReader("nope\n  feature \n"), &out)

	got, err := p.ChooseBranch("Pick one", []string{"dev", "feature"})
	require.NoError(t, err)
	assert.Equal(t, "feature", got)
	assert.Contains(t, out.String(), `Unknown branch "nope".`)
	assert.Contains(t, out.String(), " - dev\n")

	p = ui.NewConflictPrompter(strings.NewReader(""), &bytes.Buffer{})
	got, err = p.ChooseBranch("Pick one", []string{"dev"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLinePrompts_SharedReader(t *testing.T) {
	t.Parallel()

	p := ui.NewConflictPrompter(strings.NewReader("/tmp/repo\ny\n"), &bytes.Buffer{})

	path, err := p.Ask("Path")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/repo", path)

	ok, err := p.Confirm("Merge?")
	require.NoError(t, err)
	assert.True(t, ok)
}
