package engine

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/config"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/scene"
	"github.com/Carmen-Shannon/oxy-editor/engine/terrain"
	"github.com/Carmen-Shannon/oxy-editor/engine/window"
	"github.com/go-gl/mathgl/mgl32"
)

// MainScene is the key NewEditor registers its scene under.
const MainScene = 0

// NewEditor opens a window and builds a wgpu context, a scene and a brush manager with one radial
// brush from cfg. It must run on the goroutine that later calls Run.
//
// Parameters:
//   - cfg: the editor configuration
//   - options: extra engine options, applied after the configured ones
//
// Returns:
//   - Engine: the editor engine with its scene at MainScene
//   - error: error if the window could not be opened
func NewEditor(cfg config.EditorConfig, options ...EngineBuilderOption) (Engine, error) {
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	ctx := renderer.NewContext(win, cfg.ContextOptions()...)
	cam := camera.NewCamera(append(cfg.CameraOptions(),
		camera.WithPosition(mgl32.Vec3{0, 1, -3}),
		camera.WithLookAt(mgl32.Vec3{0, 1, -1}),
		camera.WithViewport(win.Width(), win.Height()),
	)...)
	s := scene.NewScene(cfg.Window.Title, ctx, append(cfg.SceneOptions(), scene.WithCamera(cam))...)

	brushes := terrain.NewBrushManager(cam, s.Graph().Terrains)
	brushes.AddBrush(terrain.NewRadialBrush(terrain.WithName("radial")))

	opts := []EngineBuilderOption{
		WithWindow(win),
		WithScene(MainScene, s),
		WithBrushManager(brushes),
	}
	return NewEngine(append(opts, options...)...), nil
}

// ApplyConfig pushes the reloadable settings of cfg into every registered scene: the water
// height and resolution and the camera projection. The edit runs through Engine.Apply, so it is
// safe to call from a config watcher goroutine while the engine runs.
//
// Parameters:
//   - e: the engine
//   - cfg: the new configuration
//
// Returns:
//   - error: the joined scene errors
func ApplyConfig(e Engine, cfg config.EditorConfig) error {
	var errs []error
	e.Apply(func() {
		for _, s := range e.Scenes() {
			s.SetWaterHeight(cfg.Water.Height)
			if err := s.SetWaterResolution(cfg.WaterResolution()); err != nil {
				errs = append(errs, fmt.Errorf("engine: scene %q: %w", s.Name(), err))
			}
			if cam := s.Camera(); cam != nil {
				cam.SetFov(mgl32.DegToRad(cfg.Camera.Fov))
				cam.SetNear(cfg.Camera.Near)
				cam.SetFar(cfg.Camera.Far)
			}
		}
	})
	return errors.Join(errs...)
}
