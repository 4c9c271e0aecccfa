package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "skillgap.log")

	logger, err := New(Options{File: path})
	require.NoError(t, err)
	logger.Info("quiz submitted", zap.Int("questions", 9))
	logger.Debug("hidden")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "quiz submitted", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, float64(9), entry["questions"])
	assert.Contains(t, entry, "caller")
}

func TestNew_VerboseConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Verbose: true, Console: &buf})
	require.NoError(t, err)

	logger.Debug("provider resolved", zap.String("provider", "ollama"))
	_ = logger.Sync()

	assert.Contains(t, buf.String(), "provider resolved")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNew_NoSinks(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Info("dropped")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
