package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-editor/engine/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "editor.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"before\"\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	reloads := make(chan config.EditorConfig, 16)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, path, func(cfg config.EditorConfig) {
			select {
			case reloads <- cfg:
			default:
			}
		})
	}()

	// Keep rewriting until the watcher is registered and reports the new title.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	var got string
	for got != "after" {
		select {
		case cfg := <-reloads:
			got = cfg.Window.Title
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("[window]\ntitle = \"after\"\n"), 0o644))
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestWatchMissingDirectory(t *testing.T) {
	err := config.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "editor.toml"), func(config.EditorConfig) {})
	assert.Error(t, err)
}
