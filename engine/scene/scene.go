package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-editor/engine/scene_graph"
)

// ErrSceneDisposed is returned when rendering or reconfiguring a disposed scene.
var ErrSceneDisposed = errors.New("scene: disposed")

// Skybox is an optional background resource owned by the scene.
type Skybox interface {
	Dispose()
}

// Scene is the aggregate root of the editor: it ties the object graph, the lighting environment,
// the camera and the water capture buffers together and renders them in a fixed pass order.
// A scene is rendered from one goroutine at a time.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Environment returns the lights of the scene.
	Environment() light.Environment

	// Graph returns the object graph.
	Graph() scene_graph.SceneGraph

	// Context returns the graphics context the scene renders with.
	Context() renderer.Context

	// Captures returns the reflection and refraction buffer manager.
	Captures() CaptureManager

	// Skybox returns the skybox, or nil.
	Skybox() Skybox

	// SetSkybox replaces the skybox. The previous one is not disposed.
	//
	// Parameters:
	//   - sky: the new skybox, or nil
	SetSkybox(sky Skybox)

	// WaterHeight returns the world-space height of the water surface.
	WaterHeight() float32

	// SetWaterHeight sets the world-space height of the water surface.
	//
	// Parameters:
	//   - h: the height
	SetWaterHeight(h float32)

	// WaterResolution returns the capture buffer preset.
	WaterResolution() WaterResolution

	// SetWaterResolution stores the preset and immediately reallocates both capture buffers.
	//
	// Parameters:
	//   - res: the new preset
	//
	// Returns:
	//   - error: ErrSceneDisposed or the allocation error
	SetWaterResolution(res WaterResolution) error

	// Update advances every active object.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)

	// Render draws one frame into the bound default target. When the graph contains water the
	// reflection and refraction captures run first and the water surfaces are drawn last,
	// sampling both captures.
	//
	// Parameters:
	//   - dt: elapsed seconds
	//
	// Returns:
	//   - error: ErrSceneDisposed, an allocation error or the first pass error
	Render(dt float32) error

	// Dispose releases the skybox, the capture buffers and every component. Later calls are no-ops.
	Dispose()

	// Disposed reports whether Dispose was called.
	Disposed() bool
}

type scene struct {
	mu *sync.Mutex

	// renderMu is held for a whole Render and by every capture buffer replacement.
	renderMu *sync.Mutex

	name     string
	active   bool
	disposed bool

	ctx      renderer.Context
	cam      camera.Camera
	env      light.Environment
	batch    renderer.Batch
	graph    scene_graph.SceneGraph
	captures CaptureManager
	skybox   Skybox

	waterHeight     float32
	waterResolution WaterResolution
	clearColor      common.Color

	objects []game_object.GameObject
	workers int
}

var _ Scene = &scene{}

// NewScene creates a scene drawing through ctx. Without options it gets the default camera and
// the default environment: ambient light at 0.3 and one white directional light pointing down.
//
// Parameters:
//   - name: the scene's identifier
//   - ctx: the graphics context
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, ctx renderer.Context, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:              &sync.Mutex{},
		renderMu:        &sync.Mutex{},
		name:            name,
		active:          true,
		ctx:             ctx,
		waterResolution: DefaultWaterResolution,
		clearColor:      common.ClearColor,
	}
	for _, option := range options {
		option(s)
	}
	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	if s.env == nil {
		s.env = light.NewDefaultEnvironment()
	}

	graphOpts := []scene_graph.SceneGraphBuilderOption{scene_graph.WithObjects(s.objects...)}
	if s.workers > 0 {
		graphOpts = append(graphOpts, scene_graph.WithUpdateWorkers(s.workers))
	}
	s.batch = renderer.NewBatch(ctx)
	s.graph = scene_graph.NewSceneGraph(s.batch, s.env, graphOpts...)
	s.captures = NewCaptureManager(ctx, s.clearColor)
	s.objects = nil
	return s
}

func (s *scene) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Environment() light.Environment {
	return s.env
}

func (s *scene) Graph() scene_graph.SceneGraph {
	return s.graph
}

func (s *scene) Context() renderer.Context {
	return s.ctx
}

func (s *scene) Captures() CaptureManager {
	return s.captures
}

func (s *scene) Skybox() Skybox {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skybox
}

func (s *scene) SetSkybox(sky Skybox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skybox = sky
}

func (s *scene) WaterHeight() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waterHeight
}

func (s *scene) SetWaterHeight(h float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waterHeight = h
}

func (s *scene) WaterResolution() WaterResolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waterResolution
}

func (s *scene) SetWaterResolution(res WaterResolution) error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrSceneDisposed
	}
	s.waterResolution = res
	s.mu.Unlock()
	return s.captures.EnsureReady(res)
}

func (s *scene) Update(dt float32) {
	s.graph.Update(dt)
}

func (s *scene) Render(dt float32) error {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return ErrSceneDisposed
	}
	cam := s.cam
	waterHeight := s.waterHeight
	res := s.waterResolution
	s.mu.Unlock()

	water := s.graph.ContainsWater()
	if water {
		if !s.captures.Ready() {
			if err := s.captures.EnsureReady(res); err != nil {
				return err
			}
		}
		if err := s.captures.CaptureReflection(cam, waterHeight, s.pass(cam, dt)); err != nil {
			return err
		}
		if err := s.captures.CaptureRefraction(cam, waterHeight, s.pass(cam, dt)); err != nil {
			return err
		}
	}

	s.ctx.Clear(s.clearColor)
	if err := s.pass(cam, dt)(shader.Disabled()); err != nil {
		return fmt.Errorf("scene: main pass: %w", err)
	}

	if !water {
		return nil
	}
	if err := s.batch.Begin(cam); err != nil {
		return fmt.Errorf("scene: water pass: %w", err)
	}
	err := s.graph.RenderWater(dt, s.captures.Reflection(), s.captures.Refraction())
	if endErr := s.batch.End(); err == nil {
		err = endErr
	}
	if err != nil {
		return fmt.Errorf("scene: water pass: %w", err)
	}
	return nil
}

// pass returns a PassFunc drawing the graph through cam. The batch is always ended so a failed
// pass does not leave it recording.
func (s *scene) pass(cam camera.Camera, dt float32) PassFunc {
	return func(plane shader.ClippingPlane) error {
		if err := s.batch.Begin(cam); err != nil {
			return err
		}
		err := s.graph.Render(dt, plane.Normal, plane.Offset)
		if endErr := s.batch.End(); err == nil {
			err = endErr
		}
		return err
	}
}

func (s *scene) Dispose() {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	sky := s.skybox
	s.skybox = nil
	s.mu.Unlock()

	if sky != nil {
		sky.Dispose()
	}
	s.captures.Release()
	s.graph.Dispose()
	logger.Logger().Debug("scene: disposed", "name", s.Name())
}

func (s *scene) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

