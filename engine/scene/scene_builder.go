package scene

import (
	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects adds initial objects under the graph root.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		s.objects = append(s.objects, objects...)
	}
}

// WithCamera replaces the default camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithEnvironment replaces the default environment.
//
// Parameters:
//   - env: the lighting environment
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEnvironment(env light.Environment) SceneBuilderOption {
	return func(s *scene) {
		s.env = env
	}
}

// WithWaterHeight sets the world-space height of the water surface. Defaults to 0.
//
// Parameters:
//   - h: the height
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWaterHeight(h float32) SceneBuilderOption {
	return func(s *scene) {
		s.waterHeight = h
	}
}

// WithWaterResolution sets the capture buffer preset. Nothing is allocated until the first frame
// that contains water.
//
// Parameters:
//   - res: the preset
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWaterResolution(res WaterResolution) SceneBuilderOption {
	return func(s *scene) {
		s.waterResolution = res
	}
}

// WithSkybox sets the skybox the scene owns.
//
// Parameters:
//   - sky: the skybox
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSkybox(sky Skybox) SceneBuilderOption {
	return func(s *scene) {
		s.skybox = sky
	}
}

// WithClearColor sets the color the main target and both capture buffers are cleared to.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithClearColor(color common.Color) SceneBuilderOption {
	return func(s *scene) {
		s.clearColor = color
	}
}

// WithUpdateWorkers sets the number of worker goroutines used by Update.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUpdateWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.workers = max(n, 1)
	}
}
