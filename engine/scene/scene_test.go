package scene_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-editor/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangleVertices = []float32{
	0, 0, 0, 0, 1, 0, 0, 0,
	1, 0, 0, 0, 1, 0, 1, 0,
	0, 0, 1, 0, 1, 0, 0, 1,
}

func newFrameContext(t *testing.T) renderer.HeadlessContext {
	t.Helper()
	ctx := renderer.NewHeadlessContext(640, 480)
	require.NoError(t, ctx.BeginFrame())
	return ctx
}

func newModel(t *testing.T, ctx renderer.Context, name string) game_object.GameObject {
	t.Helper()
	mesh, err := ctx.NewMesh(name, triangleVertices, []uint32{0, 2, 1})
	require.NoError(t, err)
	return game_object.NewGameObject(
		game_object.WithName(name),
		game_object.WithComponents(game_object.NewModelComponent(mesh, shader.NewLitShader())),
	)
}

func newWater(t *testing.T, ctx renderer.Context) game_object.GameObject {
	t.Helper()
	w, err := game_object.NewWaterComponent(ctx, shader.NewWaterShader())
	require.NoError(t, err)
	return game_object.NewGameObject(game_object.WithName("water"), game_object.WithComponents(w))
}

func submitTargets(ctx renderer.HeadlessContext) []string {
	var targets []string
	for _, op := range ctx.Ops() {
		if op.Kind == renderer.OpSubmit {
			targets = append(targets, op.Target)
		}
	}
	return targets
}

func TestRenderWithoutWaterTouchesNoCaptureBuffers(t *testing.T) {
	ctx := newFrameContext(t)
	s := scene.NewScene("dry", ctx, scene.WithObjects(newModel(t, ctx, "rock")))

	require.NoError(t, s.Render(0.016))

	assert.Equal(t, 1, ctx.Count(renderer.OpSubmit))
	assert.Equal(t, 0, ctx.Count(renderer.OpAllocate))
	assert.Equal(t, 0, ctx.Count(renderer.OpRelease))
	assert.False(t, s.Captures().Ready())
	assert.Equal(t, []string{""}, submitTargets(ctx))
}

func TestRenderWithWaterPassOrder(t *testing.T) {
	ctx := newFrameContext(t)
	s := scene.NewScene("lake", ctx,
		scene.WithObjects(newModel(t, ctx, "rock"), newWater(t, ctx)),
		scene.WithWaterResolution(scene.WaterResolution512),
	)

	require.NoError(t, s.Render(0.016))

	assert.Equal(t, []string{"reflection", "refraction", "", ""}, submitTargets(ctx))
	assert.Equal(t, 2, ctx.Count(renderer.OpAllocate))
	assert.Equal(t, 512, s.Captures().Size())

	var submits []renderer.Op
	for _, op := range ctx.Ops() {
		if op.Kind == renderer.OpSubmit {
			submits = append(submits, op)
		}
	}
	require.Len(t, submits[2].Calls, 1)
	assert.Equal(t, "rock", submits[2].Calls[0].Mesh.Label())
	require.Len(t, submits[3].Calls, 1)
	assert.Equal(t, "water", submits[3].Calls[0].Mesh.Label())
	assert.Equal(t, s.Captures().Reflection(), submits[3].Calls[0].Textures[0])
	assert.Equal(t, s.Captures().Refraction(), submits[3].Calls[0].Textures[1])
	assert.Nil(t, ctx.Bound())

	require.NoError(t, s.Render(0.016))
	assert.Equal(t, 2, ctx.Count(renderer.OpAllocate))
}

func TestRenderLeavesCameraUnchanged(t *testing.T) {
	ctx := newFrameContext(t)
	cam := camera.NewCamera(camera.WithPosition(mgl32.Vec3{3, 7, -4}), camera.WithLookAt(mgl32.Vec3{0, 0, 0}))
	s := scene.NewScene("lake", ctx, scene.WithCamera(cam), scene.WithWaterHeight(2), scene.WithObjects(newWater(t, ctx)))
	before := cam.Snapshot()

	require.NoError(t, s.Render(0.016))
	assert.Equal(t, before, cam.Snapshot())
}

func TestRenderAllocatesWhenWaterAppears(t *testing.T) {
	ctx := newFrameContext(t)
	s := scene.NewScene("lake", ctx)
	require.NoError(t, s.Render(0))
	assert.Equal(t, 0, ctx.Count(renderer.OpAllocate))

	require.NoError(t, s.Graph().Add(newWater(t, ctx)))
	require.NoError(t, s.Render(0))
	assert.Equal(t, 2, ctx.Count(renderer.OpAllocate))
	assert.Equal(t, scene.DefaultWaterResolution.Size(), s.Captures().Size())
}

func TestRenderPropagatesAllocationFailure(t *testing.T) {
	ctx := newFrameContext(t)
	oom := errors.New("oom")
	ctx.FailAllocation("reflection", oom)
	s := scene.NewScene("lake", ctx, scene.WithObjects(newWater(t, ctx)))

	assert.ErrorIs(t, s.Render(0), oom)
	assert.Equal(t, 0, ctx.Count(renderer.OpSubmit))
}

func TestSetWaterResolutionRoundTrip(t *testing.T) {
	ctx := renderer.NewHeadlessContext(640, 480)
	s := scene.NewScene("lake", ctx)

	require.NoError(t, s.SetWaterResolution(scene.WaterResolution512))
	require.NoError(t, s.SetWaterResolution(scene.WaterResolution2048))
	require.NoError(t, s.SetWaterResolution(scene.WaterResolution512))

	assert.Equal(t, scene.WaterResolution512, s.WaterResolution())
	assert.Equal(t, 512, s.Captures().Size())
	assert.Equal(t, 2, ctx.LiveFrameBuffers())
	assert.Equal(t, 6, ctx.Count(renderer.OpAllocate))
	assert.Equal(t, 4, ctx.Count(renderer.OpRelease))

	ops := ctx.Ops()
	last := ops[len(ops)-1]
	assert.Equal(t, renderer.OpAllocate, last.Kind)
	assert.Equal(t, 512, last.Width)
	assert.Equal(t, 512, last.Height)
}

func TestSetWaterResolutionDuringRender(t *testing.T) {
	ctx := newFrameContext(t)
	s := scene.NewScene("lake", ctx, scene.WithObjects(newWater(t, ctx)))

	resized := make(chan error, 1)
	go func() {
		for i := range 100 {
			res := scene.WaterResolution256
			if i%2 == 0 {
				res = scene.WaterResolution512
			}
			if err := s.SetWaterResolution(res); err != nil {
				resized <- err
				return
			}
		}
		resized <- nil
	}()

	var renderErr error
	for range 100 {
		if renderErr = s.Render(0.016); renderErr != nil {
			break
		}
	}
	require.NoError(t, <-resized)
	require.NoError(t, renderErr)
	assert.Equal(t, 2, ctx.LiveFrameBuffers())
	assert.Equal(t, 256, s.Captures().Size())
}

func TestDisposeWaitsForRender(t *testing.T) {
	ctx := newFrameContext(t)
	s := scene.NewScene("lake", ctx, scene.WithObjects(newWater(t, ctx)))

	rendered := make(chan error, 1)
	go func() {
		for {
			if err := s.Render(0.016); err != nil {
				rendered <- err
				return
			}
		}
	}()
	s.Dispose()
	assert.ErrorIs(t, <-rendered, scene.ErrSceneDisposed)
	assert.Equal(t, 0, ctx.LiveFrameBuffers())
}

type countingSkybox struct {
	disposed int
}

func (c *countingSkybox) Dispose() { c.disposed++ }

func TestDisposeIsIdempotent(t *testing.T) {
	ctx := newFrameContext(t)
	sky := &countingSkybox{}
	s := scene.NewScene("lake", ctx, scene.WithSkybox(sky), scene.WithObjects(newWater(t, ctx)))
	require.NoError(t, s.Render(0))

	s.Dispose()
	s.Dispose()

	assert.True(t, s.Disposed())
	assert.Equal(t, 1, sky.disposed)
	assert.Equal(t, 2, ctx.Count(renderer.OpRelease))
	assert.Equal(t, 0, ctx.LiveFrameBuffers())
	assert.ErrorIs(t, s.Render(0), scene.ErrSceneDisposed)
	assert.ErrorIs(t, s.SetWaterResolution(scene.WaterResolution256), scene.ErrSceneDisposed)
}

func TestSceneDefaults(t *testing.T) {
	s := scene.NewScene("default", renderer.NewHeadlessContext(1, 1))

	assert.Equal(t, "default", s.Name())
	assert.True(t, s.Active())
	assert.Equal(t, float32(0), s.WaterHeight())
	assert.Equal(t, scene.WaterResolution1024, s.WaterResolution())
	assert.NotNil(t, s.Camera())
	assert.Equal(t, 1, s.Environment().Len())
	assert.Nil(t, s.Skybox())
}

func TestParseWaterResolution(t *testing.T) {
	r, err := scene.ParseWaterResolution("2048x2048")
	require.NoError(t, err)
	assert.Equal(t, scene.WaterResolution2048, r)

	r, err = scene.ParseWaterResolution(" 256 ")
	require.NoError(t, err)
	assert.Equal(t, scene.WaterResolution256, r)

	_, err = scene.ParseWaterResolution("300")
	assert.ErrorIs(t, err, scene.ErrUnknownResolution)

	assert.Equal(t, "1024x1024", scene.WaterResolution1024.String())
	assert.Equal(t, 1024, scene.WaterResolution(42).Size())
}
