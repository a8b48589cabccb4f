package shader_test

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTexture struct{ w, h int }

func (f fakeTexture) Label() string { return "fake" }
func (f fakeTexture) Width() int    { return f.w }
func (f fakeTexture) Height() int   { return f.h }

func TestLitShaderRegistrationOrder(t *testing.T) {
	s := shader.NewLitShader()
	require.NoError(t, s.Init())
	names := s.Program().Names()
	require.GreaterOrEqual(t, len(names), 4)
	assert.Equal(t, []string{"u_projViewTrans", "u_cameraPosition", "u_clipPlane", "gDirectionalLight.Base.Color"}, names[:4])
	assert.True(t, s.Initialized())
	require.NoError(t, s.Init())
	assert.Len(t, s.Program().Names(), len(names))
}

func TestLitShaderCapabilities(t *testing.T) {
	var s shader.Shader = shader.NewLitShader()
	_, clips := s.(shader.ClippingCapability)
	_, lit := s.(shader.LightingCapability)
	_, water := s.(shader.WaterCapability)
	assert.True(t, clips)
	assert.True(t, lit)
	assert.False(t, water)
	assert.Equal(t, shader.KindLit, s.Kind())
}

func TestLitShaderWritesClippingPlane(t *testing.T) {
	s := shader.NewLitShader()
	require.NoError(t, s.Init())
	s.SetClippingPlane(shader.RefractionPlane(3))

	l, ok := s.Program().Lookup("u_clipPlane")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec4{0, -1, 0, 4}, s.Program().Vec4(l))
	assert.Equal(t, shader.RefractionPlane(3), s.ClippingPlane())
}

func TestBeginWritesCamera(t *testing.T) {
	s := shader.NewLitShader()
	require.NoError(t, s.Init())
	cam := camera.NewCamera()

	s.Begin(cam)
	assert.True(t, s.Active())
	l, _ := s.Program().Lookup("u_projViewTrans")
	assert.Equal(t, cam.ViewProjectionMatrix(), s.Program().Mat4(l))
	l, _ = s.Program().Lookup("u_cameraPosition")
	assert.Equal(t, cam.Position(), s.Program().Vec3(l))
	s.End()
	assert.False(t, s.Active())
}

func TestWaterShaderTextures(t *testing.T) {
	s := shader.NewWaterShader()
	require.NoError(t, s.Init())
	assert.Nil(t, s.Textures())
	assert.Equal(t, 2, s.Pipeline().SampledTextures())
	assert.False(t, s.Pipeline().DepthWriteEnabled())

	refl, refr := fakeTexture{64, 64}, fakeTexture{64, 64}
	s.SetWaterTextures(refl, refr)
	textures := s.Textures()
	require.Len(t, textures, 2)
	assert.Equal(t, refl, textures[0])
	assert.Equal(t, refr, textures[1])
}

func TestWaterShaderParameters(t *testing.T) {
	s := shader.NewWaterShader(shader.WithName("lake"))
	require.NoError(t, s.Init())
	assert.Equal(t, "lake", s.Pipeline().PipelineKey())

	s.SetMoveFactor(0.25)
	s.SetTiling(2)
	l, _ := s.Program().Lookup("u_moveFactor")
	assert.Equal(t, float32(0.25), s.Program().Float(l))
	l, _ = s.Program().Lookup("u_tiling")
	assert.Equal(t, float32(2), s.Program().Float(l))
	l, _ = s.Program().Lookup("u_waveStrength")
	assert.Equal(t, shader.DefaultWaveStrength, s.Program().Float(l))
}

func TestWaterShaderIsLit(t *testing.T) {
	s := shader.NewWaterShader()
	require.NoError(t, s.Init())
	s.SetLights(light.NewDefaultEnvironment())
	assert.Equal(t, 0, s.Lights().Dropped())
	l, _ := s.Program().Lookup("gDirectionalLight.Base.AmbientIntensity")
	assert.InDelta(t, 0.3, s.Program().Float(l), 1e-6)
}

func TestShaderSourcesCompile(t *testing.T) {
	for _, s := range []shader.Shader{shader.NewLitShader(), shader.NewWaterShader()} {
		err := shader.Validate(s.Name(), s.Source())
		if err != nil && (strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported")) {
			t.Skipf("naga feature not yet implemented: %v", err)
		}
		assert.NoError(t, err)
	}
}

func TestValidateReportsErrors(t *testing.T) {
	err := shader.Validate("broken", "fn main( {")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
