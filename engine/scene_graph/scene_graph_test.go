package scene_graph_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-editor/engine/scene_graph"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangleVertices = []float32{
	0, 0, 0, 0, 1, 0, 0, 0,
	1, 0, 0, 0, 1, 0, 1, 0,
	0, 0, 1, 0, 1, 0, 0, 1,
}

type fixture struct {
	ctx   renderer.HeadlessContext
	batch renderer.Batch
	graph scene_graph.SceneGraph
	lit   shader.LitShader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := renderer.NewHeadlessContext(320, 240)
	require.NoError(t, ctx.BeginFrame())
	b := renderer.NewBatch(ctx)
	return &fixture{
		ctx:   ctx,
		batch: b,
		graph: scene_graph.NewSceneGraph(b, light.NewDefaultEnvironment(), scene_graph.WithUpdateWorkers(2)),
		lit:   shader.NewLitShader(),
	}
}

func (f *fixture) model(t *testing.T, name string, y float32) game_object.GameObject {
	t.Helper()
	mesh, err := f.ctx.NewMesh(name, triangleVertices, []uint32{0, 2, 1})
	require.NoError(t, err)
	return game_object.NewGameObject(
		game_object.WithName(name),
		game_object.WithPosition(0, y, 0),
		game_object.WithComponents(game_object.NewModelComponent(mesh, f.lit, game_object.WithBoundingRadius(1))),
	)
}

func (f *fixture) water(t *testing.T) (game_object.GameObject, game_object.WaterComponent) {
	t.Helper()
	w, err := game_object.NewWaterComponent(f.ctx, shader.NewWaterShader())
	require.NoError(t, err)
	return game_object.NewGameObject(game_object.WithName("water"), game_object.WithComponents(w)), w
}

func (f *fixture) lastCalls(t *testing.T) []renderer.DrawCall {
	t.Helper()
	ops := f.ctx.Ops()
	require.NotEmpty(t, ops)
	last := ops[len(ops)-1]
	require.Equal(t, renderer.OpSubmit, last.Kind)
	return last.Calls
}

func TestContainsWater(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.graph.Add(f.model(t, "rock", 0)))
	assert.False(t, f.graph.ContainsWater())

	waterObj, _ := f.water(t)
	require.NoError(t, f.graph.Add(waterObj))
	assert.True(t, f.graph.ContainsWater())

	waterObj.SetActive(false)
	assert.False(t, f.graph.ContainsWater())
}

func TestRenderSkipsWaterAndInactiveObjects(t *testing.T) {
	f := newFixture(t)
	hidden := f.model(t, "hidden", 0)
	hidden.SetActive(false)
	waterObj, _ := f.water(t)
	require.NoError(t, f.graph.Add(f.model(t, "rock", 0), hidden, waterObj))

	require.NoError(t, f.batch.Begin(camera.NewCamera()))
	require.NoError(t, f.graph.Render(0.016, mgl32.Vec3{}, 0))
	require.NoError(t, f.batch.End())

	calls := f.lastCalls(t)
	require.Len(t, calls, 1)
	assert.Equal(t, "rock", calls[0].Mesh.Label())
}

func TestRenderCullsClippedObjects(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.graph.Add(f.model(t, "above", 10), f.model(t, "below", -5)))

	plane := shader.RefractionPlane(0)
	require.NoError(t, f.batch.Begin(camera.NewCamera()))
	require.NoError(t, f.graph.Render(0, plane.Normal, plane.Offset))
	require.NoError(t, f.batch.End())

	calls := f.lastCalls(t)
	require.Len(t, calls, 1)
	assert.Equal(t, "below", calls[0].Mesh.Label())
	assert.Equal(t, 1, f.graph.Culled())
	assert.Equal(t, plane, f.lit.ClippingPlane())
}

func TestRenderWaterUsesCaptures(t *testing.T) {
	f := newFixture(t)
	waterObj, w := f.water(t)
	require.NoError(t, f.graph.Add(f.model(t, "rock", 0), waterObj))

	refl, err := f.ctx.NewFrameBuffer("reflection", 32, 32)
	require.NoError(t, err)
	refr, err := f.ctx.NewFrameBuffer("refraction", 32, 32)
	require.NoError(t, err)

	require.NoError(t, f.batch.Begin(camera.NewCamera()))
	require.NoError(t, f.graph.RenderWater(1, refl.ColorTexture(), refr.ColorTexture()))
	require.NoError(t, f.batch.End())

	calls := f.lastCalls(t)
	require.Len(t, calls, 1)
	assert.Equal(t, "water", calls[0].Mesh.Label())
	require.Len(t, calls[0].Textures, 2)
	assert.Equal(t, refl.ColorTexture(), calls[0].Textures[0])
	assert.InDelta(t, game_object.WaveSpeed, w.MoveFactor(), 1e-6)
}

func TestRenderPropagatesBatchErrors(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.graph.Add(f.model(t, "rock", 0)))

	err := f.graph.Render(0, mgl32.Vec3{}, 0)
	assert.True(t, errors.Is(err, renderer.ErrBatchNotBegun))
}

func TestUpdateVisitsEveryActiveObject(t *testing.T) {
	f := newFixture(t)
	var objects []game_object.GameObject
	for range 32 {
		obj := game_object.NewGameObject(game_object.WithRotationSpeed(0, 10, 0))
		objects = append(objects, obj)
		require.NoError(t, f.graph.Add(obj))
	}
	objects[0].SetActive(false)

	f.graph.Update(1)

	assert.Equal(t, float32(0), objects[0].Rotation().Y())
	for _, obj := range objects[1:] {
		assert.InDelta(t, 10, obj.Rotation().Y(), 1e-5)
	}
}

func TestDisposeStopsUpdates(t *testing.T) {
	f := newFixture(t)
	obj := game_object.NewGameObject(game_object.WithRotationSpeed(0, 10, 0))
	require.NoError(t, f.graph.Add(obj))

	f.graph.Dispose()
	f.graph.Dispose()

	done := make(chan struct{})
	go func() {
		f.graph.Update(1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("update blocked on a stopped worker pool")
	}
	assert.Equal(t, float32(0), obj.Rotation().Y())
}

func TestTerrainsAndFind(t *testing.T) {
	f := newFixture(t)
	terrain, err := game_object.NewTerrainComponent(f.ctx, f.lit, game_object.WithResolution(5), game_object.WithSize(4))
	require.NoError(t, err)
	obj := game_object.NewGameObject(game_object.WithName("ground"), game_object.WithComponents(terrain))
	f.graph = scene_graph.NewSceneGraph(f.batch, nil, scene_graph.WithObjects(obj))

	require.Len(t, f.graph.Terrains(), 1)
	assert.Same(t, terrain, f.graph.Terrains()[0])
	assert.Same(t, obj, f.graph.Find("ground"))
	assert.True(t, f.graph.Remove(obj))
	assert.Empty(t, f.graph.Terrains())
}
