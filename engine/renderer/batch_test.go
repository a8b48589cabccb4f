package renderer_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quadVertices = []float32{
	0, 0, 0, 0, 1, 0, 0, 0,
	1, 0, 0, 0, 1, 0, 1, 0,
	1, 0, 1, 0, 1, 0, 1, 1,
	0, 0, 1, 0, 1, 0, 0, 1,
}

var quadIndices = []uint32{0, 1, 2, 0, 2, 3}

type testRenderable struct {
	mesh  renderer.Mesh
	model mgl32.Mat4
}

func (r testRenderable) Mesh() renderer.Mesh      { return r.mesh }
func (r testRenderable) ModelMatrix() mgl32.Mat4 { return r.model }
func (r testRenderable) Tint() mgl32.Vec4        { return mgl32.Vec4{1, 1, 1, 1} }

func newFrameContext(t *testing.T) renderer.HeadlessContext {
	t.Helper()
	ctx := renderer.NewHeadlessContext(800, 600)
	require.NoError(t, ctx.BeginFrame())
	return ctx
}

func newQuad(t *testing.T, ctx renderer.Context) testRenderable {
	t.Helper()
	mesh, err := ctx.NewMesh("quad", quadVertices, quadIndices)
	require.NoError(t, err)
	return testRenderable{mesh: mesh, model: mgl32.Ident4()}
}

func TestBatchStateErrors(t *testing.T) {
	ctx := newFrameContext(t)
	b := renderer.NewBatch(ctx)
	cam := camera.NewCamera()

	assert.ErrorIs(t, b.End(), renderer.ErrBatchNotBegun)
	assert.ErrorIs(t, b.Render(newQuad(t, ctx), shader.NewLitShader(), renderer.DrawParams{}), renderer.ErrBatchNotBegun)

	require.NoError(t, b.Begin(cam))
	assert.True(t, b.Recording())
	assert.ErrorIs(t, b.Begin(cam), renderer.ErrBatchAlreadyBegun)
	require.NoError(t, b.End())
	assert.False(t, b.Recording())
}

func TestBatchSubmitsOnePass(t *testing.T) {
	ctx := newFrameContext(t)
	b := renderer.NewBatch(ctx)
	lit := shader.NewLitShader()
	quad := newQuad(t, ctx)

	require.NoError(t, b.Begin(camera.NewCamera()))
	require.NoError(t, b.Render(quad, lit, renderer.DrawParams{Clipping: shader.Disabled()}))
	require.NoError(t, b.Render(quad, lit, renderer.DrawParams{Clipping: shader.Disabled()}))
	require.NoError(t, b.End())

	assert.Equal(t, 1, ctx.Count(renderer.OpSubmit))
	ops := ctx.Ops()
	last := ops[len(ops)-1]
	assert.Equal(t, renderer.OpSubmit, last.Kind)
	assert.Len(t, last.Calls, 2)
	assert.True(t, lit.Initialized())
	assert.False(t, lit.Active())
}

func TestBatchAppliesClippingPlane(t *testing.T) {
	ctx := newFrameContext(t)
	b := renderer.NewBatch(ctx)
	lit := shader.NewLitShader()

	require.NoError(t, b.Begin(camera.NewCamera()))
	require.NoError(t, b.Render(newQuad(t, ctx), lit, renderer.DrawParams{Clipping: shader.ReflectionPlane(2)}))
	require.NoError(t, b.End())

	assert.Equal(t, shader.ReflectionPlane(2), lit.ClippingPlane())
	loc, ok := lit.Program().Lookup("u_clipPlane")
	require.True(t, ok)
	assert.Equal(t, shader.ReflectionPlane(2).Vec4(), lit.Program().Vec4(loc))
}

func TestBatchSnapshotsUniforms(t *testing.T) {
	ctx := newFrameContext(t)
	b := renderer.NewBatch(ctx)
	lit := shader.NewLitShader()
	quad := newQuad(t, ctx)

	require.NoError(t, b.Begin(camera.NewCamera()))
	require.NoError(t, b.Render(quad, lit, renderer.DrawParams{Clipping: shader.ReflectionPlane(0)}))
	require.NoError(t, b.End())
	first := ctx.Ops()[len(ctx.Ops())-1].Calls[0].Uniforms

	require.NoError(t, b.Begin(camera.NewCamera()))
	require.NoError(t, b.Render(quad, lit, renderer.DrawParams{Clipping: shader.RefractionPlane(0)}))
	require.NoError(t, b.End())
	second := ctx.Ops()[len(ctx.Ops())-1].Calls[0].Uniforms

	assert.NotEqual(t, first, second)
}

func TestBatchBindsEnvironmentOncePerShader(t *testing.T) {
	ctx := newFrameContext(t)
	b := renderer.NewBatch(ctx)
	lit := shader.NewLitShader()
	env := light.NewEnvironment()
	for range 3 {
		env.Add(light.NewLight(light.LightTypePoint))
	}

	require.NoError(t, b.Begin(camera.NewCamera()))
	require.NoError(t, b.Render(newQuad(t, ctx), lit, renderer.DrawParams{Environment: env}))
	require.NoError(t, b.End())

	loc, ok := lit.Program().Lookup("gNumPointLights")
	require.True(t, ok)
	assert.Equal(t, int32(3), lit.Program().Int(loc))
}

func TestBatchSetsWaterTextures(t *testing.T) {
	ctx := newFrameContext(t)
	refl, err := ctx.NewFrameBuffer("reflection", 64, 64)
	require.NoError(t, err)
	refr, err := ctx.NewFrameBuffer("refraction", 64, 64)
	require.NoError(t, err)

	b := renderer.NewBatch(ctx)
	water := shader.NewWaterShader()
	require.NoError(t, b.Begin(camera.NewCamera()))
	require.NoError(t, b.Render(newQuad(t, ctx), water, renderer.DrawParams{
		Reflection: refl.ColorTexture(),
		Refraction: refr.ColorTexture(),
	}))
	require.NoError(t, b.End())

	calls := ctx.Ops()[len(ctx.Ops())-1].Calls
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Textures, 2)
	assert.Equal(t, refl.ColorTexture(), calls[0].Textures[0])
	assert.Equal(t, refr.ColorTexture(), calls[0].Textures[1])
}

func TestBatchSkipsRenderablesWithoutMesh(t *testing.T) {
	ctx := newFrameContext(t)
	b := renderer.NewBatch(ctx)
	require.NoError(t, b.Begin(camera.NewCamera()))
	require.NoError(t, b.Render(testRenderable{}, shader.NewLitShader(), renderer.DrawParams{}))
	require.NoError(t, b.End())
	assert.Empty(t, ctx.Ops()[len(ctx.Ops())-1].Calls)
}

func TestModelUniformLayout(t *testing.T) {
	call := renderer.DrawCall{Model: mgl32.Translate3D(1, 2, 3), Color: mgl32.Vec4{0.5, 0.5, 0.5, 1}}
	buf := call.ModelUniform()
	assert.Len(t, buf, 80)
}
