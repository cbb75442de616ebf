package conflict_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpeningc/gitassist/internal/conflict"
)

func TestRender(t *testing.T) {
	t.Parallel()

	block := conflict.Block{
		Ours:   []string{"a\n"},
		Theirs: []string{"b\n"},
		Base:   []string{"base\n"},
	}

	tests := []struct {
		name       string
		resolution conflict.Resolution
		want       []string
	}{
		{"ours", conflict.Ours(), []string{"a\n"}},
		{"theirs", conflict.Theirs(), []string{"b\n"}},
		{"both keeps ours first", conflict.Both(), []string{"a\n", "b\n"}},
		{"custom verbatim", conflict.Custom([]string{"<<<<<<< kept\n", "c\n"}), []string{"<<<<<<< kept\n", "c\n"}},
		{"custom empty", conflict.Custom(nil), nil},
		{"unknown renders nothing", conflict.Resolution{Choice: conflict.ResolutionChoice(42)}, nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, conflict.Render(block, tc.resolution))
		})
	}
}

func TestRender_DoesNotAliasBlock(t *testing.T) {
	t.Parallel()

	block := conflict.Block{Ours: make([]string, 1, 4), Theirs: []string{"b"}}
	block.Ours[0] = "a"

	out := conflict.Render(block, conflict.Both())
	out[0] = "changed"

	assert.Equal(t, "a", block.Ours[0])
	assert.Len(t, block.Ours, 1)
}

func TestResolutionValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, conflict.Ours().Validate())
	require.NoError(t, conflict.Custom([]string{"x"}).Validate())
	assert.Error(t, conflict.Resolution{Choice: -1}.Validate())
}

func TestParseChoice(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]conflict.ResolutionChoice{
		"ours":   conflict.ChooseOurs,
		"theirs": conflict.ChooseTheirs,
		"both":   conflict.ChooseBoth,
	} {
		got, err := conflict.ParseChoice(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
		assert.Equal(t, name, got.String())
	}

	_, err := conflict.ParseChoice("custom")
	assert.Error(t, err)
}
