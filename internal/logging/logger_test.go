package logging_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpeningc/gitassist/internal/logging"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug level", "debug", log.DebugLevel},
		{"info level", "info", log.InfoLevel},
		{"warn level", "warn", log.WarnLevel},
		{"warning level", "warning", log.WarnLevel},
		{"error level", "error", log.ErrorLevel},
		{"invalid defaults to info", "invalid", log.InfoLevel},
		{"empty defaults to info", "", log.InfoLevel},
		{"case insensitive DEBUG", "DEBUG", log.DebugLevel},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			logger := logging.New(tc.level)
			assert.NotNil(t, logger)
			assert.Equal(t, tc.expected, logger.GetLevel())
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	_, ok := logging.ParseLevel("warn")
	assert.True(t, ok)

	_, ok = logging.ParseLevel("verbose")
	assert.False(t, ok)
}

func TestSetDefaultAndLevel(t *testing.T) {
	// Not parallel: mutates the package default.
	original := logging.Default()
	defer logging.SetDefault(original)

	logger := logging.New("info")
	logging.SetDefault(logger)
	assert.Same(t, logger, logging.Default())

	logging.SetLevel("error")
	assert.Equal(t, log.ErrorLevel, logging.Default().GetLevel())
}

func TestContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "debug")

	ctx := logging.WithLogger(context.Background(), logger)
	assert.Same(t, logger, logging.FromContext(ctx))

	logging.FromContext(ctx).Debug("resolved", logging.FieldPath, "a.txt")
	assert.Contains(t, buf.String(), "resolved")
	assert.Contains(t, buf.String(), "a.txt")

	assert.NotNil(t, logging.FromContext(context.Background()))
}

func TestFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitassist.log")

	w := logging.FileWriter(path)
	assert.Same(t, w, logging.FileWriter(path), "writers are shared per path")

	logger := logging.NewWithWriter(w, "info")
	logger.Info("written to file", logging.FieldPath, "a.txt")
	require.NoError(t, logging.CloseFiles())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
	assert.Contains(t, string(data), "path=a.txt")
}
