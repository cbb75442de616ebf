package resolver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpeningc/gitassist/internal/conflict"
	"github.com/corpeningc/gitassist/internal/resolver"
)

const twoBlocks = "header\n" +
	"<<<<<<< HEAD\n" +
	"one-ours\n" +
	"=======\n" +
	"one-theirs\n" +
	">>>>>>> feature\n" +
	"middle\n" +
	"<<<<<<< HEAD\n" +
	"two-ours\n" +
	"=======\n" +
	"two-theirs\n" +
	">>>>>>> feature\n" +
	"footer\n"

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(got)
}

func TestResolveFile_Scenario(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "x\n<<<<<<< HEAD\nfoo\n=======\nbar\n>>>>>>> feature\ny\n")

	result := resolver.New(resolver.NewScripted(conflict.Ours())).ResolveFile(context.Background(), path)

	require.NoError(t, result.Err)
	assert.Equal(t, resolver.Resolved, result.Outcome)
	assert.Equal(t, 1, result.Blocks)
	assert.Equal(t, "x\nfoo\ny\n", readFile(t, path))
}

func TestResolveFile_NoConflictsDoesNotWrite(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "plain\ncontent\n")
	writes := 0
	r := resolver.New(resolver.NewScripted(), resolver.WithWriter(func(context.Context, string, []byte) error {
		writes++
		return nil
	}))

	result := r.ResolveFile(context.Background(), path)

	assert.Equal(t, resolver.NoConflicts, result.Outcome)
	assert.NoError(t, result.Err)
	assert.Zero(t, writes)
	assert.Equal(t, "plain\ncontent\n", readFile(t, path))
}

func TestResolveFile_BlocksResolvedIndependentlyInOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		decisions []conflict.Resolution
		want      string
	}{
		{
			name:      "ours then theirs",
			decisions: []conflict.Resolution{conflict.Ours(), conflict.Theirs()},
			want:      "header\none-ours\nmiddle\ntwo-theirs\nfooter\n",
		},
		{
			name:      "theirs then ours",
			decisions: []conflict.Resolution{conflict.Theirs(), conflict.Ours()},
			want:      "header\none-theirs\nmiddle\ntwo-ours\nfooter\n",
		},
		{
			name:      "both then custom",
			decisions: []conflict.Resolution{conflict.Both(), conflict.Custom([]string{"mine\n", "yours\n"})},
			want:      "header\none-ours\none-theirs\nmiddle\nmine\nyours\nfooter\n",
		},
		{
			name:      "custom can delete a block",
			decisions: []conflict.Resolution{conflict.Custom(nil), conflict.Ours()},
			want:      "header\nmiddle\ntwo-ours\nfooter\n",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, twoBlocks)
			source := resolver.NewScripted(tc.decisions...)

			result := resolver.New(source).ResolveFile(context.Background(), path)

			require.NoError(t, result.Err)
			assert.Equal(t, resolver.Resolved, result.Outcome)
			assert.Equal(t, 2, result.Blocks)
			assert.Equal(t, tc.want, readFile(t, path))

			requests := source.Requests()
			require.Len(t, requests, 2)
			assert.Equal(t, 0, requests[0].Index)
			assert.Equal(t, 1, requests[1].Index)
			assert.Equal(t, 2, requests[1].Total)
			assert.Equal(t, []string{"one-ours\n"}, requests[0].Block.Ours)
			assert.Equal(t, []string{"two-ours\n"}, requests[1].Block.Ours)
		})
	}
}

func TestResolveFile_AbortLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	path := writeFile(t, twoBlocks)

	result := resolver.New(resolver.NewScripted(conflict.Ours())).ResolveFile(context.Background(), path)

	assert.Equal(t, resolver.PartiallyFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, resolver.ErrAborted)
	assert.Equal(t, twoBlocks, readFile(t, path))
}

func TestResolveFile_MalformedLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	content := "a\n<<<<<<< HEAD\nours\n=======\ntheirs\n"
	path := writeFile(t, content)
	source := resolver.NewScripted(conflict.Ours())

	result := resolver.New(source).ResolveFile(context.Background(), path)

	assert.Equal(t, resolver.PartiallyFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, conflict.ErrMalformedConflict)
	assert.Equal(t, content, readFile(t, path))
	assert.Empty(t, source.Requests(), "no decisions requested for a malformed file")
}

func TestResolveFile_InvalidDecision(t *testing.T) {
	t.Parallel()

	path := writeFile(t, twoBlocks)
	source := resolver.NewScripted(conflict.Ours(), conflict.Resolution{Choice: conflict.ResolutionChoice(9)})

	result := resolver.New(source).ResolveFile(context.Background(), path)

	assert.Equal(t, resolver.PartiallyFailed, result.Outcome)
	assert.Equal(t, twoBlocks, readFile(t, path))
}

func TestResolveFile_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.txt")

	result := resolver.New(resolver.NewScripted()).ResolveFile(context.Background(), path)

	assert.Equal(t, resolver.IOError, result.Outcome)
	assert.ErrorIs(t, result.Err, os.ErrNotExist)
}

func TestResolveFile_WriteFailure(t *testing.T) {
	t.Parallel()

	path := writeFile(t, twoBlocks)
	boom := errors.New("disk full")
	r := resolver.New(resolver.Fixed(conflict.ChooseTheirs), resolver.WithWriter(func(context.Context, string, []byte) error {
		return boom
	}))

	result := r.ResolveFile(context.Background(), path)

	assert.Equal(t, resolver.IOError, result.Outcome)
	assert.ErrorIs(t, result.Err, boom)
	assert.Equal(t, twoBlocks, readFile(t, path))
}

func TestResolveFile_IdenticalSidesRoundTrip(t *testing.T) {
	t.Parallel()

	original := "alpha\nbeta\ngamma\n"
	path := writeFile(t, "alpha\n<<<<<<< HEAD\nbeta\n=======\nbeta\n>>>>>>> other\ngamma\n")

	result := resolver.New(resolver.Fixed(conflict.ChooseOurs)).ResolveFile(context.Background(), path)

	require.Equal(t, resolver.Resolved, result.Outcome)
	assert.Equal(t, original, readFile(t, path))
}

func TestResolveFiles_IsolatesFailures(t *testing.T) {
	t.Parallel()

	good := writeFile(t, "<<<<<<< HEAD\na\n=======\nb\n>>>>>>> x\n")
	bad := writeFile(t, "<<<<<<< HEAD\na\n")
	missing := filepath.Join(t.TempDir(), "gone.txt")
	clean := writeFile(t, "nothing here\n")

	results := resolver.New(resolver.Fixed(conflict.ChooseTheirs)).
		ResolveFiles(context.Background(), []string{bad, missing, good, clean})

	require.Len(t, results, 4)
	assert.Equal(t, resolver.PartiallyFailed, results[0].Outcome)
	assert.Equal(t, resolver.IOError, results[1].Outcome)
	assert.Equal(t, resolver.Resolved, results[2].Outcome)
	assert.Equal(t, resolver.NoConflicts, results[3].Outcome)
	assert.Equal(t, "b\n", readFile(t, good))
}

func TestResolveFiles_CancelledContext(t *testing.T) {
	t.Parallel()

	path := writeFile(t, twoBlocks)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := resolver.New(resolver.Fixed(conflict.ChooseOurs)).ResolveFiles(ctx, []string{path})

	require.Len(t, results, 1)
	assert.Equal(t, resolver.PartiallyFailed, results[0].Outcome)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
	assert.Equal(t, twoBlocks, readFile(t, path))
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "resolved", resolver.Resolved.String())
	assert.Equal(t, "no conflicts", resolver.NoConflicts.String())
	assert.Equal(t, "failed", resolver.PartiallyFailed.String())
	assert.Equal(t, "io error", resolver.IOError.String())
}
