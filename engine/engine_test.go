package engine_test

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/config"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-editor/engine/scene"
	"github.com/Carmen-Shannon/oxy-editor/engine/terrain"
	"github.com/Carmen-Shannon/oxy-editor/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangleVertices = []float32{
	0, 0, 0, 0, 1, 0, 0, 0,
	1, 0, 0, 0, 1, 0, 1, 0,
	0, 0, 1, 0, 1, 0, 0, 1,
}

func newModelScene(t *testing.T, ctx renderer.Context, name string, opts ...scene.SceneBuilderOption) scene.Scene {
	t.Helper()
	mesh, err := ctx.NewMesh(name, triangleVertices, []uint32{0, 2, 1})
	require.NoError(t, err)
	obj := game_object.NewGameObject(
		game_object.WithName(name),
		game_object.WithRotationSpeed(0, 90, 0),
		game_object.WithComponents(game_object.NewModelComponent(mesh, shader.NewLitShader())),
	)
	return scene.NewScene(name, ctx, append(opts, scene.WithObjects(obj))...)
}

func submittedMeshes(ctx renderer.HeadlessContext) []string {
	var labels []string
	for _, op := range ctx.Ops() {
		if op.Kind != renderer.OpSubmit {
			continue
		}
		for _, call := range op.Calls {
			labels = append(labels, call.Mesh.Label())
		}
	}
	return labels
}

func TestFrameRendersActiveScenesInKeyOrder(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	e := engine.NewEngine(
		engine.WithScene(1, newModelScene(t, ctx, "front")),
		engine.WithScene(0, newModelScene(t, ctx, "back")),
		engine.WithScene(2, newModelScene(t, ctx, "hidden", scene.WithActive(false))),
	)

	require.NoError(t, e.Frame(0.016))

	assert.Equal(t, []string{"back", "front"}, submittedMeshes(ctx))
	assert.Equal(t, 1, ctx.Count(renderer.OpBeginFrame))
	assert.Equal(t, 1, ctx.Count(renderer.OpEndFrame))
}

func TestFrameWithoutScenesIsNoop(t *testing.T) {
	e := engine.NewEngine()
	assert.NoError(t, e.Frame(0.016))
}

func TestFrameSurfacesSceneErrors(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	s := newModelScene(t, ctx, "gone")
	s.Dispose()
	e := engine.NewEngine(engine.WithScene(0, s))

	err := e.Frame(0.016)
	require.ErrorIs(t, err, scene.ErrSceneDisposed)
	assert.Contains(t, err.Error(), `"gone"`)
	assert.Equal(t, 1, ctx.Count(renderer.OpEndFrame))
}

func TestTickUpdatesScenesAndAppliesBrush(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	tc, err := game_object.NewTerrainComponent(ctx, shader.NewLitShader(),
		game_object.WithResolution(11),
		game_object.WithSize(10),
	)
	require.NoError(t, err)
	s := newModelScene(t, ctx, "island", scene.WithObjects(game_object.NewGameObject(game_object.WithComponents(tc))))

	brushes := terrain.NewBrushManager(s.Camera(), s.Graph().Terrains)
	b := terrain.NewRadialBrush(terrain.WithRadius(2), terrain.WithStrength(1))
	b.SetTranslation(mgl32.Vec3{5, 0, 5})
	brushes.AddBrush(b)
	brushes.Activate(b)
	brushes.MouseDown(common.MouseButtonLeft)

	e := engine.NewEngine(engine.WithScene(0, s), engine.WithBrushManager(brushes))
	require.NoError(t, e.Tick(0.5))

	assert.Equal(t, float32(1), tc.Height(5, 5))
	rock := s.Graph().Find("island")
	require.NotNil(t, rock)
	assert.InDelta(t, 45, rock.Rotation().Y(), 1e-4)
}

func TestRunStopsOnRenderError(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	s := newModelScene(t, ctx, "broken")
	s.Dispose()
	e := engine.NewEngine(engine.WithScene(0, s), engine.WithTickRate(1000))

	err := e.Run()
	require.ErrorIs(t, err, scene.ErrSceneDisposed)
	assert.ErrorIs(t, e.Err(), scene.ErrSceneDisposed)
	assert.ErrorIs(t, e.Run(), engine.ErrEngineStopped)
}

func TestRunUntilQuit(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	e := engine.NewEngine(
		engine.WithScene(0, newModelScene(t, ctx, "spin")),
		engine.WithTickRate(1000),
		engine.WithRenderFrameLimit(1000),
	)

	var frames, ticks atomic.Int32
	e.SetTickCallback(func(float32) { ticks.Add(1) })
	e.SetRenderCallback(func(float32) {
		if frames.Add(1) == 5 {
			e.Quit()
		}
	})

	done := make(chan error, 1)
	go func() { done <- e.Run() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		e.Quit()
		t.Fatal("engine did not stop")
	}
	assert.GreaterOrEqual(t, frames.Load(), int32(5))
	assert.NoError(t, e.Err())
}

func TestApplyConfig(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	s := newModelScene(t, ctx, "tuned")
	e := engine.NewEngine(engine.WithScene(engine.MainScene, s))

	cfg, err := config.Decode(strings.NewReader("[water]\nresolution = \"512\"\nheight = 2\n[camera]\nfov = 90\nfar = 300\n"))
	require.NoError(t, err)
	require.NoError(t, engine.ApplyConfig(e, cfg))

	assert.Equal(t, float32(2), s.WaterHeight())
	assert.Equal(t, scene.WaterResolution512, s.WaterResolution())
	assert.Equal(t, 512, s.Captures().Size())
	assert.InDelta(t, mgl32.DegToRad(90), s.Camera().Fov(), 1e-6)
	assert.Equal(t, float32(300), s.Camera().Far())

	s.Dispose()
	assert.ErrorIs(t, engine.ApplyConfig(e, cfg), scene.ErrSceneDisposed)
}

func TestSceneRegistry(t *testing.T) {
	ctx := renderer.NewHeadlessContext(1, 1)
	e := engine.NewEngine()
	s := newModelScene(t, ctx, "a")

	e.AddScene(3, s)
	assert.Same(t, s, e.Scene(3))
	assert.Len(t, e.Scenes(), 1)

	e.RemoveScene(3)
	assert.Nil(t, e.Scene(3))
	assert.False(t, s.Disposed())
}

func TestDisposeDisposesScenesAndBrushes(t *testing.T) {
	ctx := renderer.NewHeadlessContext(1, 1)
	s := newModelScene(t, ctx, "done")
	brushes := terrain.NewBrushManager(s.Camera(), s.Graph().Terrains)
	brushes.AddBrush(terrain.NewRadialBrush())

	e := engine.NewEngine(engine.WithScene(0, s), engine.WithBrushManager(brushes))
	e.Dispose()

	assert.True(t, s.Disposed())
	assert.Empty(t, e.Brushes().Brushes())
}

// inputWindow is a window whose callbacks are fired by the test instead of GLFW.
type inputWindow struct {
	mu *sync.Mutex

	onResize    func(width, height int)
	onScroll    func(delta float32)
	onKeyDown   func(keyCode uint32)
	onMouseDown window.MouseButtonCallback
	onMouseUp   window.MouseButtonCallback
	onMouseMove func(x, y int32)
}

var _ window.Window = &inputWindow{}

func newInputWindow() *inputWindow {
	return &inputWindow{mu: &sync.Mutex{}}
}

func (w *inputWindow) SetUpdateCallback(func()) {}

func (w *inputWindow) SetResizeCallback(cb func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = cb
}

func (w *inputWindow) SetScrollCallback(cb func(delta float32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onScroll = cb
}

func (w *inputWindow) SetKeyDownCallback(cb func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyDown = cb
}

func (w *inputWindow) SetKeyUpCallback(func(keyCode uint32)) {}

func (w *inputWindow) SetMouseDownCallback(cb window.MouseButtonCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMouseDown = cb
}

func (w *inputWindow) SetMouseUpCallback(cb window.MouseButtonCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMouseUp = cb
}

func (w *inputWindow) SetMouseMoveCallback(cb func(x, y int32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMouseMove = cb
}

func (w *inputWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *inputWindow) IsRunning() bool                            { return true }
func (w *inputWindow) Close() error                               { return nil }
func (w *inputWindow) ProcessMessages()                           {}
func (w *inputWindow) Width() int                                 { return 640 }
func (w *inputWindow) Height() int                                { return 480 }

// cameraWatch records input that arrives while a capture pass has the camera mirrored below
// the water.
type cameraWatch struct {
	terrain.BrushManager
	cam      camera.Camera
	moves    atomic.Int32
	mirrored atomic.Int32
}

func (w *cameraWatch) MouseMoved(x, y int32) bool {
	w.moves.Add(1)
	if w.cam.Position().Y() < 0 {
		w.mirrored.Add(1)
	}
	return w.BrushManager.MouseMoved(x, y)
}

func newLakeScene(t *testing.T, ctx renderer.Context) scene.Scene {
	t.Helper()
	water, err := game_object.NewWaterComponent(ctx, shader.NewWaterShader())
	require.NoError(t, err)
	cam := camera.NewCamera(
		camera.WithPosition(mgl32.Vec3{0, 10, 10}),
		camera.WithLookAt(mgl32.Vec3{0, 0, 0}),
		camera.WithViewport(640, 480),
	)
	return scene.NewScene("lake", ctx,
		scene.WithCamera(cam),
		scene.WithObjects(game_object.NewGameObject(game_object.WithName("water"), game_object.WithComponents(water))),
	)
}

// renderFrames renders until stop is closed and reports the first error.
func renderFrames(e engine.Engine, stop <-chan struct{}) <-chan error {
	done := make(chan error, 1)
	go func() {
		for {
			select {
			case <-stop:
				done <- nil
				return
			default:
			}
			if err := e.Frame(0.016); err != nil {
				done <- err
				return
			}
		}
	}()
	return done
}

func TestApplyConfigDuringFrames(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	s := newLakeScene(t, ctx)
	e := engine.NewEngine(engine.WithScene(engine.MainScene, s))

	small, err := config.Decode(strings.NewReader("[water]\nresolution = \"256\"\n"))
	require.NoError(t, err)
	large, err := config.Decode(strings.NewReader("[water]\nresolution = \"512\"\n"))
	require.NoError(t, err)

	stop := make(chan struct{})
	done := renderFrames(e, stop)
	for i := range 100 {
		cfg := small
		if i%2 == 0 {
			cfg = large
		}
		if !assert.NoError(t, engine.ApplyConfig(e, cfg)) {
			break
		}
	}
	close(stop)
	require.NoError(t, <-done)
	assert.Equal(t, 256, s.Captures().Size())
	assert.Equal(t, 2, ctx.LiveFrameBuffers())
}

func TestWindowInputNeverSeesMirroredCamera(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	s := newLakeScene(t, ctx)
	brushes := terrain.NewBrushManager(s.Camera(), s.Graph().Terrains)
	brush := terrain.NewRadialBrush()
	brushes.AddBrush(brush)
	brushes.Activate(brush)
	watch := &cameraWatch{BrushManager: brushes, cam: s.Camera()}

	win := newInputWindow()
	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(engine.MainScene, s),
		engine.WithBrushManager(watch),
	)
	require.NotNil(t, win.onMouseMove)
	require.NotNil(t, win.onResize)

	stop := make(chan struct{})
	done := renderFrames(e, stop)
	for i := range 2000 {
		win.onMouseMove(int32(i%640), 240)
		if i%100 == 0 {
			win.onResize(640, 480)
		}
	}
	close(stop)
	require.NoError(t, <-done)

	assert.Equal(t, int32(2000), watch.moves.Load())
	assert.Equal(t, int32(0), watch.mirrored.Load())
	assert.Equal(t, float32(10), s.Camera().Position().Y())
}

func TestApplyWaitsForFrame(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	s := newLakeScene(t, ctx)
	e := engine.NewEngine(engine.WithScene(engine.MainScene, s))

	stop := make(chan struct{})
	done := renderFrames(e, stop)
	var mirrored int
	for range 500 {
		e.Apply(func() {
			if s.Camera().Position().Y() < 0 {
				mirrored++
			}
		})
	}
	close(stop)
	require.NoError(t, <-done)
	assert.Zero(t, mirrored)
}
