package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "warn", Console: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("degenerate document", zap.String("document", "doc:1"))
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "degenerate document")
	assert.Contains(t, out, "doc:1")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segagree.log")
	log, err := New(Options{Level: "debug", File: path, Console: &bytes.Buffer{}})
	require.NoError(t, err)

	log.Debug("computed", zap.Float64("coefficient", 0.5))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"coefficient":0.5`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
