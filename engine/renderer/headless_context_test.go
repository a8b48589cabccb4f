package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameBufferBinding(t *testing.T) {
	ctx := renderer.NewHeadlessContext(800, 600)
	a, err := ctx.NewFrameBuffer("a", 128, 64)
	require.NoError(t, err)
	b, err := ctx.NewFrameBuffer("b", 128, 64)
	require.NoError(t, err)

	assert.Equal(t, "a color", a.ColorTexture().Label())
	assert.Equal(t, 128, a.ColorTexture().Width())
	assert.Equal(t, 64, a.ColorTexture().Height())

	require.NoError(t, a.Begin())
	assert.Equal(t, a, ctx.Bound())
	assert.ErrorIs(t, b.Begin(), renderer.ErrTargetBound)
	assert.ErrorIs(t, b.End(), renderer.ErrTargetNotBound)
	require.NoError(t, a.End())
	assert.Nil(t, ctx.Bound())
	require.NoError(t, b.Begin())
	require.NoError(t, b.End())
}

func TestFrameBufferDisposeIsIdempotent(t *testing.T) {
	ctx := renderer.NewHeadlessContext(800, 600)
	fb, err := ctx.NewFrameBuffer("capture", 32, 32)
	require.NoError(t, err)
	assert.Equal(t, 1, ctx.LiveFrameBuffers())

	fb.Dispose()
	fb.Dispose()
	assert.True(t, fb.Disposed())
	assert.Equal(t, 0, ctx.LiveFrameBuffers())
	assert.Equal(t, 1, ctx.Count(renderer.OpRelease))
	assert.ErrorIs(t, fb.Begin(), renderer.ErrTargetDisposed)
}

func TestDisposeUnbindsTarget(t *testing.T) {
	ctx := renderer.NewHeadlessContext(800, 600)
	fb, err := ctx.NewFrameBuffer("capture", 32, 32)
	require.NoError(t, err)
	require.NoError(t, fb.Begin())
	fb.Dispose()
	assert.Nil(t, ctx.Bound())
}

func TestFrameBufferInvalidSize(t *testing.T) {
	ctx := renderer.NewHeadlessContext(800, 600)
	_, err := ctx.NewFrameBuffer("bad", 0, 64)
	assert.Error(t, err)
	assert.Equal(t, 0, ctx.Count(renderer.OpAllocate))
}

func TestFailAllocation(t *testing.T) {
	ctx := renderer.NewHeadlessContext(800, 600)
	boom := errors.New("out of memory")
	ctx.FailAllocation("refraction", boom)

	_, err := ctx.NewFrameBuffer("refraction", 64, 64)
	assert.ErrorIs(t, err, boom)
	_, err = ctx.NewFrameBuffer("refraction", 64, 64)
	assert.NoError(t, err)
}

func TestSubmitToDefaultTargetNeedsFrame(t *testing.T) {
	ctx := renderer.NewHeadlessContext(800, 600)
	assert.ErrorIs(t, ctx.Submit(nil), renderer.ErrNoFrame)
	assert.ErrorIs(t, ctx.EndFrame(), renderer.ErrNoFrame)

	require.NoError(t, ctx.BeginFrame())
	assert.NoError(t, ctx.Submit(nil))
	assert.NoError(t, ctx.EndFrame())
}

func TestSubmitToFrameBufferOutsideFrame(t *testing.T) {
	ctx := renderer.NewHeadlessContext(800, 600)
	fb, err := ctx.NewFrameBuffer("capture", 32, 32)
	require.NoError(t, err)
	require.NoError(t, fb.Begin())
	ctx.Clear(common.ClearColor)
	require.NoError(t, ctx.Submit(nil))
	require.NoError(t, fb.End())

	ops := ctx.Ops()
	var targets []string
	for _, op := range ops {
		if op.Kind == renderer.OpClear || op.Kind == renderer.OpSubmit {
			targets = append(targets, op.Target)
		}
	}
	assert.Equal(t, []string{"capture", "capture"}, targets)
}

func TestMeshValidation(t *testing.T) {
	ctx := renderer.NewHeadlessContext(800, 600)

	_, err := ctx.NewMesh("short", []float32{1, 2, 3}, []uint32{0, 0, 0})
	assert.Error(t, err)
	_, err = ctx.NewMesh("range", quadVertices, []uint32{0, 1, 9})
	assert.Error(t, err)
	_, err = ctx.NewMesh("empty", quadVertices, nil)
	assert.Error(t, err)

	mesh, err := ctx.NewMesh("quad", quadVertices, quadIndices)
	require.NoError(t, err)
	assert.Equal(t, 4, mesh.VertexCount())
	assert.Equal(t, 6, mesh.IndexCount())

	require.NoError(t, mesh.Update(quadVertices[:3*renderer.VertexStride], []uint32{0, 1, 2}))
	assert.Equal(t, 3, mesh.VertexCount())
	assert.Equal(t, 3, mesh.IndexCount())
}

func TestOpKindString(t *testing.T) {
	assert.Equal(t, "submit", renderer.OpSubmit.String())
	assert.Equal(t, "allocate", renderer.OpAllocate.String())
}
