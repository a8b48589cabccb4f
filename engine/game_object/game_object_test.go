package game_object_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var triangleVertices = []float32{
	0, 0, 0, 0, 1, 0, 0, 0,
	1, 0, 0, 0, 1, 0, 1, 0,
	0, 0, 1, 0, 1, 0, 0, 1,
}

func newMesh(t *testing.T, ctx renderer.Context) renderer.Mesh {
	t.Helper()
	mesh, err := ctx.NewMesh("triangle", triangleVertices, []uint32{0, 2, 1})
	require.NoError(t, err)
	return mesh
}

func TestNewGameObjectDefaults(t *testing.T) {
	a := game_object.NewGameObject()
	b := game_object.NewGameObject(game_object.WithName("b"), game_object.WithActive(false))

	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Active())
	assert.False(t, b.Active())
	assert.Equal(t, "b", b.Name())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, a.Scale())
	assert.Nil(t, a.Parent())
	assert.Equal(t, uint64(42), game_object.NewGameObject(game_object.WithID(42)).ID())
}

func TestWorldTransformComposesParents(t *testing.T) {
	child := game_object.NewGameObject(game_object.WithPosition(0, 5, 0))
	parent := game_object.NewGameObject(
		game_object.WithPosition(10, 0, 0),
		game_object.WithScale(2, 2, 2),
		game_object.WithChildren(child),
	)

	assert.Same(t, parent, child.Parent())
	assert.True(t, child.WorldPosition().ApproxEqual(mgl32.Vec3{10, 10, 0}))
}

func TestAddChildRejectsCycles(t *testing.T) {
	a := game_object.NewGameObject()
	b := game_object.NewGameObject()
	c := game_object.NewGameObject()
	require.NoError(t, a.AddChild(b))
	require.NoError(t, b.AddChild(c))

	assert.ErrorIs(t, c.AddChild(a), game_object.ErrCycle)
	assert.ErrorIs(t, a.AddChild(a), game_object.ErrCycle)
	assert.Nil(t, a.Parent())
}

func TestAddChildReparents(t *testing.T) {
	p1 := game_object.NewGameObject()
	p2 := game_object.NewGameObject()
	c := game_object.NewGameObject()
	require.NoError(t, p1.AddChild(c))
	require.NoError(t, p2.AddChild(c))

	assert.Empty(t, p1.Children())
	assert.Len(t, p2.Children(), 1)
	assert.Same(t, p2, c.Parent())

	assert.True(t, p2.RemoveChild(c))
	assert.False(t, p2.RemoveChild(c))
	assert.Nil(t, c.Parent())
}

func TestFindAndWalk(t *testing.T) {
	leaf := game_object.NewGameObject(game_object.WithName("leaf"))
	branch := game_object.NewGameObject(game_object.WithName("branch"), game_object.WithChildren(leaf))
	root := game_object.NewGameObject(game_object.WithName("root"), game_object.WithChildren(branch))

	assert.Same(t, leaf, root.Find("leaf"))
	assert.Nil(t, root.Find("missing"))

	var visited []string
	root.Walk(func(obj game_object.GameObject) bool {
		visited = append(visited, obj.Name())
		return obj.Name() != "branch"
	})
	assert.Equal(t, []string{"root", "branch"}, visited)
}

func TestUpdateAppliesRotationSpeed(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithRotationSpeed(0, 90, 0))
	obj.Update(0.5)
	assert.InDelta(t, 45, obj.Rotation().Y(), 1e-5)
}

func TestModelComponent(t *testing.T) {
	ctx := renderer.NewHeadlessContext(64, 64)
	model := game_object.NewModelComponent(newMesh(t, ctx), shader.NewLitShader(),
		game_object.WithTint(1, 0, 0, 1),
		game_object.WithBoundingRadius(1),
	)
	obj := game_object.NewGameObject(
		game_object.WithPosition(3, 0, 0),
		game_object.WithScale(2, 1, 1),
		game_object.WithComponents(model),
	)

	assert.Same(t, obj, model.Owner())
	assert.Same(t, model, obj.FindComponent(game_object.ComponentModel))
	assert.Nil(t, obj.FindComponent(game_object.ComponentWater))
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, model.Tint())

	center, radius := model.Bounds()
	assert.True(t, center.ApproxEqual(mgl32.Vec3{3, 0, 0}))
	assert.InDelta(t, 2, radius, 1e-5)

	obj.Dispose()
	assert.Nil(t, model.Mesh())
	assert.NotPanics(t, obj.Dispose)
}

func TestWaterComponentAdvance(t *testing.T) {
	ctx := renderer.NewHeadlessContext(64, 64)
	sh := shader.NewWaterShader()
	require.NoError(t, sh.Init())

	water, err := game_object.NewWaterComponent(ctx, sh, game_object.WithSize(10))
	require.NoError(t, err)
	assert.Equal(t, game_object.ComponentWater, water.Type())
	assert.Equal(t, float32(10), water.Size())
	assert.Equal(t, 4, water.Mesh().VertexCount())

	water.Advance(10)
	assert.InDelta(t, 0.3, water.MoveFactor(), 1e-5)
	water.Advance(30)
	assert.InDelta(t, 0.2, water.MoveFactor(), 1e-4)

	loc, ok := sh.Program().Lookup("u_moveFactor")
	require.True(t, ok)
	assert.InDelta(t, water.MoveFactor(), sh.Program().Float(loc), 1e-6)
}

func TestComponentTypeString(t *testing.T) {
	assert.Equal(t, "model", game_object.ComponentModel.String())
	assert.Equal(t, "water", game_object.ComponentWater.String())
	assert.Equal(t, "terrain", game_object.ComponentTerrain.String())
	assert.Equal(t, "unknown", game_object.ComponentType(99).String())
}
