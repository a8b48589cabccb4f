// Command oxy-editor opens the scene editor on a starter island: a terrain to sculpt with the
// radial brush and a water plane.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-editor/engine"
	"github.com/Carmen-Shannon/oxy-editor/engine/config"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "~/.config/oxy-editor/editor.toml"

type options struct {
	configPath string
	profile    bool
	watch      bool
	empty      bool
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "oxy-editor",
		Short:         "Edit terrain and water scenes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "editor configuration file")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "log frame and memory stats every second")
	cmd.Flags().BoolVar(&opts.watch, "watch", true, "reload water and camera settings when the config file changes")
	cmd.Flags().BoolVar(&opts.empty, "empty", false, "start with an empty scene")
	return cmd
}

func run(ctx context.Context, opts options) error {
	path, err := homedir.Expand(opts.configPath)
	if err != nil {
		return fmt.Errorf("config path: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger.SetLogger(slog.New(logger.NewHandler(os.Stderr, cfg.LogLevel())))

	editor, err := engine.NewEditor(cfg, engine.WithProfiling(opts.profile))
	if err != nil {
		return err
	}
	defer editor.Dispose()

	if !opts.empty {
		if err := populateStarter(editor.Scene(engine.MainScene), cfg); err != nil {
			return err
		}
	}

	if opts.watch {
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			err := config.Watch(watchCtx, path, func(next config.EditorConfig) {
				logger.SetLogger(slog.New(logger.NewHandler(os.Stderr, next.LogLevel())))
				if err := engine.ApplyConfig(editor, next); err != nil {
					logger.Logger().Warn("config: apply failed", "err", err)
				}
			})
			if err != nil {
				logger.Logger().Warn("config: not watching", "err", err)
			}
		}()
	}

	return editor.Run()
}
