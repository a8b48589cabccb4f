package light_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	dir := light.NewLight(light.LightTypeDirectional)
	assert.Equal(t, mgl32.Vec3{0, -1, 0}, dir.Direction())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, dir.Color())
	assert.Equal(t, float32(1), dir.Intensity())
	assert.True(t, dir.Enabled())

	spot := light.NewLight(light.LightTypeSpot)
	assert.Equal(t, float32(30), spot.Cutoff())
	assert.Equal(t, light.DefaultAttenuation, spot.Attenuation())
}

func TestLightOptions(t *testing.T) {
	l := light.NewLight(light.LightTypeSpot,
		light.WithPosition(1, 2, 3),
		light.WithDirection(0, 0, -5),
		light.WithColor(0.5, 0.25, 1),
		light.WithIntensity(2),
		light.WithAttenuation(1, 0.1, 0.01),
		light.WithCutoff(45),
		light.WithEnabled(false),
	)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, l.Position())
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, l.Direction())
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, l.Color())
	assert.Equal(t, float32(2), l.Intensity())
	assert.Equal(t, light.Attenuation{Constant: 1, Linear: 0.1, Exponential: 0.01}, l.Attenuation())
	assert.Equal(t, float32(45), l.Cutoff())
	assert.False(t, l.Enabled())
}

func TestEnvironmentCategories(t *testing.T) {
	env := light.NewEnvironment()
	assert.Empty(t, env.Lights(light.LightTypePoint))

	p1 := light.NewLight(light.LightTypePoint)
	p2 := light.NewLight(light.LightTypePoint)
	s := light.NewLight(light.LightTypeSpot)
	env.Add(p1)
	env.Add(p2)
	env.Add(p1)
	env.Add(s)

	points := env.Lights(light.LightTypePoint)
	require.Len(t, points, 2)
	assert.Same(t, p1, points[0])
	assert.Same(t, p2, points[1])
	assert.Equal(t, 3, env.Len())

	assert.True(t, env.Remove(p1))
	assert.False(t, env.Remove(p1))
	assert.Len(t, env.Lights(light.LightTypePoint), 1)

	env.Clear(light.LightTypeSpot)
	assert.Empty(t, env.Lights(light.LightTypeSpot))
}

func TestEnvironmentLightsReturnsCopy(t *testing.T) {
	env := light.NewEnvironment(light.WithLights(light.NewLight(light.LightTypePoint)))
	lights := env.Lights(light.LightTypePoint)
	lights[0] = nil
	assert.NotNil(t, env.Lights(light.LightTypePoint)[0])
}

func TestDefaultEnvironment(t *testing.T) {
	env := light.NewDefaultEnvironment()
	assert.Equal(t, light.DefaultAmbient, env.Ambient())
	assert.Len(t, env.Lights(light.LightTypeDirectional), 1)

	env.SetAmbient(mgl32.Vec3{0.2, 0.2, 0.2}, 0.5)
	assert.Equal(t, float32(0.5), env.Ambient().Intensity)
}
