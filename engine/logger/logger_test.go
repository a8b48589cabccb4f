package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerIsSilent(t *testing.T) {
	logger.SetLogger(nil)
	l := logger.Logger()
	assert.NotNil(t, l)
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}

func TestSetLoggerRoutesRecords(t *testing.T) {
	var buf bytes.Buffer
	logger.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { logger.SetLogger(nil) })

	logger.Logger().Debug("lights truncated", "dropped", 2)
	assert.Contains(t, buf.String(), "lights truncated")
	assert.Contains(t, buf.String(), "dropped=2")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
}

func TestNewHandlerWritesJSONToFiles(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "editor.log"))
	require.NoError(t, err)
	defer f.Close()

	l := slog.New(logger.NewHandler(f, slog.LevelWarn))
	l.Info("dropped")
	l.Warn("capture failed", "target", "reflection")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "capture failed", rec["msg"])
	assert.Equal(t, "reflection", rec["target"])
}
