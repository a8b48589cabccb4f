package terrain_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-editor/engine/terrain"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTerrain(t *testing.T) game_object.TerrainComponent {
	t.Helper()
	tc, err := game_object.NewTerrainComponent(renderer.NewHeadlessContext(1, 1), shader.NewLitShader(),
		game_object.WithResolution(11),
		game_object.WithSize(10),
	)
	require.NoError(t, err)
	game_object.NewGameObject(game_object.WithComponents(tc))
	return tc
}

func TestRadialBrushFalloff(t *testing.T) {
	tc := newTerrain(t)
	b := terrain.NewRadialBrush(terrain.WithRadius(2), terrain.WithStrength(1))
	b.SetTranslation(mgl32.Vec3{5, 0, 5})

	require.NoError(t, b.Draw([]game_object.TerrainComponent{tc}, true))
	assert.InDelta(t, 1, tc.Height(5, 5), 1e-5)
	assert.InDelta(t, 0.5, tc.Height(6, 5), 1e-5)
	assert.InDelta(t, 0.5, tc.Height(5, 4), 1e-5)
	assert.Equal(t, float32(0), tc.Height(8, 5))

	require.NoError(t, b.Draw([]game_object.TerrainComponent{tc}, false))
	assert.InDelta(t, 0, tc.Height(5, 5), 1e-5)
	assert.InDelta(t, 0, tc.Height(6, 5), 1e-5)
}

func TestRadialBrushSkipsDistantTerrain(t *testing.T) {
	tc := newTerrain(t)
	b := terrain.NewRadialBrush(terrain.WithRadius(1), terrain.WithStrength(1))
	b.SetTranslation(mgl32.Vec3{100, 0, 100})

	require.NoError(t, b.Draw([]game_object.TerrainComponent{tc}, true))
	assert.Equal(t, float32(0), tc.Height(10, 10))
}

func TestBrushScale(t *testing.T) {
	b := terrain.NewRadialBrush(terrain.WithName("soft"))
	assert.Equal(t, "soft", b.Name())
	assert.Equal(t, terrain.DefaultBrushRadius, b.Radius())

	b.Scale(0.5)
	assert.InDelta(t, terrain.DefaultBrushRadius/2, b.Radius(), 1e-5)
	b.Scale(0.0001)
	assert.Equal(t, terrain.MinBrushRadius, b.Radius())
}

func newManager(t *testing.T) (terrain.BrushManager, game_object.TerrainComponent, terrain.Brush) {
	t.Helper()
	tc := newTerrain(t)
	cam := camera.NewCamera(
		camera.WithPosition(mgl32.Vec3{5, 20, 5}),
		camera.WithUp(mgl32.Vec3{0, 0, 1}),
		camera.WithLookAt(mgl32.Vec3{5, 0, 5}),
		camera.WithViewport(100, 100),
	)
	m := terrain.NewBrushManager(cam, func() []game_object.TerrainComponent {
		return []game_object.TerrainComponent{tc}
	})
	b := terrain.NewRadialBrush(terrain.WithRadius(2), terrain.WithStrength(1))
	m.AddBrush(b)
	return m, tc, b
}

func TestBrushManagerButtons(t *testing.T) {
	m, tc, b := newManager(t)
	b.SetTranslation(mgl32.Vec3{5, 0, 5})

	assert.False(t, m.MouseDown(common.MouseButtonLeft))
	require.NoError(t, m.Act())
	assert.Equal(t, float32(0), tc.Height(5, 5))

	m.Activate(b)
	require.NoError(t, m.Act())
	assert.Equal(t, float32(1), tc.Height(5, 5))

	m.MouseUp(common.MouseButtonLeft)
	require.NoError(t, m.Act())
	assert.Equal(t, float32(1), tc.Height(5, 5))

	assert.True(t, m.MouseDown(common.MouseButtonRight))
	require.NoError(t, m.Act())
	assert.Equal(t, float32(0), tc.Height(5, 5))
}

func TestBrushManagerScrollAndEscape(t *testing.T) {
	m, _, b := newManager(t)
	assert.False(t, m.Scrolled(1))

	m.Activate(b)
	assert.True(t, m.Scrolled(-1))
	assert.InDelta(t, 1.8, b.Radius(), 1e-5)
	assert.True(t, m.Scrolled(1))
	assert.InDelta(t, 1.98, b.Radius(), 1e-5)

	m.KeyDown(common.KeyW)
	assert.Same(t, b, m.Active())
	m.KeyDown(common.KeyEsc)
	assert.Nil(t, m.Active())
}

func TestBrushManagerMouseMovedPicksTerrain(t *testing.T) {
	m, _, b := newManager(t)
	m.MouseMoved(50, 50)
	assert.Equal(t, mgl32.Vec3{}, b.Translation())

	m.Activate(b)
	m.MouseMoved(50, 50)
	hit := b.Translation()
	assert.InDelta(t, 5, hit.X(), 1e-2)
	assert.InDelta(t, 0, hit.Y(), 1e-2)
	assert.InDelta(t, 5, hit.Z(), 1e-2)
}

type countingBrush struct {
	terrain.Brush
	disposed int
}

func (c *countingBrush) Dispose() { c.disposed++ }

func TestBrushManagerDispose(t *testing.T) {
	m, _, _ := newManager(t)
	extra := &countingBrush{Brush: terrain.NewRadialBrush()}
	m.AddBrush(extra)
	m.Activate(extra)

	m.Dispose()
	assert.Equal(t, 1, extra.disposed)
	assert.Empty(t, m.Brushes())
	assert.Nil(t, m.Active())
}
