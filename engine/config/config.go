// Package config loads the editor configuration from TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultTitle       = "oxy editor"
	DefaultWidth       = 1280
	DefaultHeight      = 720
	DefaultLogLevel    = "info"
	DefaultPresentMode = "vsync"
)

const (
	DefaultFov  float32 = 67
	DefaultNear float32 = 0.2
	DefaultFar  float32 = 10000
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// EditorConfig is the root of the editor's TOML file.
type EditorConfig struct {
	Window WindowConfig `toml:"window"`
	Camera CameraConfig `toml:"camera"`
	Water  WaterConfig  `toml:"water"`
	Render RenderConfig `toml:"render"`
	Log    LogConfig    `toml:"log"`
}

// WindowConfig is the [window] table.
type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// CameraConfig is the [camera] table. Fov is the vertical field of view in degrees.
type CameraConfig struct {
	Fov  float32 `toml:"fov"`
	Near float32 `toml:"near"`
	Far  float32 `toml:"far"`
}

// WaterConfig is the [water] table. Resolution accepts "1024" or "1024x1024".
type WaterConfig struct {
	Resolution string  `toml:"resolution"`
	Height     float32 `toml:"height"`
}

// RenderConfig is the [render] table.
type RenderConfig struct {
	PresentMode     string `toml:"present_mode"`
	ValidateShaders bool   `toml:"validate_shaders"`
	UpdateWorkers   int    `toml:"update_workers"`
}

// LogConfig is the [log] table.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() EditorConfig {
	var cfg EditorConfig
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates a configuration file. A missing file yields the defaults.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - EditorConfig: the configuration with defaults filled in
//   - error: a read, decode or validation error
func Load(path string) (EditorConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Logger().Info("config: file not found, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return EditorConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Decode(bytes.NewReader(data))
}

// Decode parses TOML from r. Unknown keys are rejected.
//
// Parameters:
//   - r: the TOML source
//
// Returns:
//   - EditorConfig: the configuration with defaults filled in
//   - error: a decode or validation error
func Decode(r io.Reader) (EditorConfig, error) {
	var cfg EditorConfig
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return EditorConfig{}, fmt.Errorf("config: decode: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return EditorConfig{}, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - error: an encode or write error
func (c EditorConfig) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *EditorConfig) applyDefaults() {
	c.Window.Title = common.Coalesce(c.Window.Title, DefaultTitle)
	c.Window.Width = common.Coalesce(c.Window.Width, DefaultWidth)
	c.Window.Height = common.Coalesce(c.Window.Height, DefaultHeight)
	c.Camera.Fov = common.Coalesce(c.Camera.Fov, DefaultFov)
	c.Camera.Near = common.Coalesce(c.Camera.Near, DefaultNear)
	c.Camera.Far = common.Coalesce(c.Camera.Far, DefaultFar)
	c.Water.Resolution = common.Coalesce(c.Water.Resolution, scene.DefaultWaterResolution.String())
	c.Render.PresentMode = common.Coalesce(c.Render.PresentMode, DefaultPresentMode)
	c.Log.Level = common.Coalesce(c.Log.Level, DefaultLogLevel)
}

// Validate checks value ranges.
//
// Returns:
//   - error: an error wrapping ErrInvalidConfig, or nil
func (c EditorConfig) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	case c.Camera.Fov <= 0 || c.Camera.Fov >= 180:
		return fmt.Errorf("%w: camera fov %v", ErrInvalidConfig, c.Camera.Fov)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: camera near %v far %v", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	case c.Render.PresentMode != "vsync" && c.Render.PresentMode != "uncapped":
		return fmt.Errorf("%w: present mode %q", ErrInvalidConfig, c.Render.PresentMode)
	case c.Render.UpdateWorkers < 0:
		return fmt.Errorf("%w: update workers %d", ErrInvalidConfig, c.Render.UpdateWorkers)
	}
	if _, err := scene.ParseWaterResolution(c.Water.Resolution); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// WaterResolution returns the parsed water preset, falling back to the default.
func (c EditorConfig) WaterResolution() scene.WaterResolution {
	res, err := scene.ParseWaterResolution(c.Water.Resolution)
	if err != nil {
		return scene.DefaultWaterResolution
	}
	return res
}

// LogLevel returns the configured slog level.
func (c EditorConfig) LogLevel() slog.Level {
	return logger.ParseLevel(c.Log.Level)
}

// CameraOptions returns the camera options for the configured projection and window size.
func (c EditorConfig) CameraOptions() []camera.CameraBuilderOption {
	return []camera.CameraBuilderOption{
		camera.WithFov(mgl32.DegToRad(c.Camera.Fov)),
		camera.WithNear(c.Camera.Near),
		camera.WithFar(c.Camera.Far),
		camera.WithViewport(c.Window.Width, c.Window.Height),
	}
}

// SceneOptions returns the scene options for the configured water and worker settings.
func (c EditorConfig) SceneOptions() []scene.SceneBuilderOption {
	opts := []scene.SceneBuilderOption{
		scene.WithWaterHeight(c.Water.Height),
		scene.WithWaterResolution(c.WaterResolution()),
	}
	if c.Render.UpdateWorkers > 0 {
		opts = append(opts, scene.WithUpdateWorkers(c.Render.UpdateWorkers))
	}
	return opts
}

// ContextOptions returns the wgpu context options for the [render] table.
func (c EditorConfig) ContextOptions() []renderer.ContextBuilderOption {
	mode := renderer.PresentModeVSync
	if c.Render.PresentMode == "uncapped" {
		mode = renderer.PresentModeUncapped
	}
	return []renderer.ContextBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithShaderValidation(c.Render.ValidateShaders),
	}
}
