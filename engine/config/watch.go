package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration whenever path changes and passes every valid result to
// onChange. Invalid edits are logged and skipped. The directory is watched so editors that
// replace the file on save are still seen. Watch blocks until ctx is done.
//
// Parameters:
//   - ctx: stops the watcher
//   - path: the configuration file
//   - onChange: called from the watcher goroutine with the reloaded configuration
//
// Returns:
//   - error: error if the watcher could not be started
func Watch(ctx context.Context, path string, onChange func(EditorConfig)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: watch: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.Logger().Warn("config: reload skipped", "path", path, "err", err)
				continue
			}
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Logger().Warn("config: watcher error", "err", err)
		}
	}
}
