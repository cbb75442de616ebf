package ignore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpeningc/gitassist/internal/ignore"
	"github.com/corpeningc/gitassist/internal/scan"
)

func newManager(t *testing.T, files map[string]string) *ignore.Manager {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return &ignore.Manager{
		Root:     root,
		Patterns: scan.MustCompile(scan.DefaultPatternSet()),
	}
}

func readIgnore(t *testing.T, m *ignore.Manager) string {
	t.Helper()

	data, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	return string(data)
}

func TestSuggest(t *testing.T) {
	t.Parallel()

	m := newManager(t, map[string]string{
		".gitignore":         "# secrets\nalready.pem\n*.kdbx\n",
		"already.pem":        "",
		"vault.kdbx":         "",
		"config/prod.env":    "",
		"certs/server.crt":   "",
		"src/main.go":        "",
		".git/keys/leak.key": "",
		"deep/a/b/id_rsa":    "",
	})

	got, err := m.Suggest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"certs/server.crt", "config/prod.env", "deep/a/b/id_rsa"}, got)
}

func TestSuggest_NoIgnoreFile(t *testing.T) {
	t.Parallel()

	m := newManager(t, map[string]string{".env": "X=1\n"})

	got, err := m.Suggest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{".env"}, got)
}

func TestSuggest_RootedEntryCountsAsListed(t *testing.T) {
	t.Parallel()

	m := newManager(t, map[string]string{
		".gitignore": "/local.env\n",
		"local.env":  "",
	})

	got, err := m.Suggest(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExisting(t *testing.T) {
	t.Parallel()

	m := newManager(t, map[string]string{".gitignore": "\n# comment\n  build/  \nnode_modules\n"})

	lines, err := m.Existing()
	require.NoError(t, err)
	assert.Equal(t, []string{"build/", "node_modules"}, lines)

	missing := &ignore.Manager{Root: t.TempDir()}
	lines, err = missing.Existing()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAppend(t *testing.T) {
	t.Parallel()

	t.Run("creates file", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, nil)
		written, err := m.Append([]string{".env", "keys/a.pem"})
		require.NoError(t, err)
		assert.Equal(t, []string{".env", "keys/a.pem"}, written)
		assert.Equal(t, ".env\nkeys/a.pem\n", readIgnore(t, m))
	})

	t.Run("keeps existing content and adds separator", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, map[string]string{".gitignore": "bin/\n# keep me\ndist"})
		written, err := m.Append([]string{"dist", ".env", ".env", "  "})
		require.NoError(t, err)
		assert.Equal(t, []string{".env"}, written)
		assert.Equal(t, "bin/\n# keep me\ndist\n.env\n", readIgnore(t, m))
	})

	t.Run("nothing new writes nothing", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, map[string]string{".gitignore": ".env\n"})
		written, err := m.Append([]string{".env"})
		require.NoError(t, err)
		assert.Empty(t, written)
		assert.Equal(t, ".env\n", readIgnore(t, m))
	})

	t.Run("custom file name", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, nil)
		m.File = ".dockerignore"
		_, err := m.Append([]string{"secret.key"})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(m.Root, ".dockerignore"), m.Path())
		assert.Equal(t, "secret.key\n", readIgnore(t, m))
	})
}
