package shader

import (
	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/pipeline"
)

const (
	// DefaultWaterTiling is how many times the distortion pattern repeats across the water quad.
	DefaultWaterTiling float32 = 0.04

	// DefaultWaveStrength scales the screen-space distortion of the capture lookups.
	DefaultWaveStrength float32 = 0.01
)

type waterShader struct {
	*baseShader

	moveFactorLoc   Location
	tilingLoc       Location
	waveStrengthLoc Location

	tiling       float32
	waveStrength float32
	reflection   common.Texture
	refraction   common.Texture
}

// WaterShader composites the water surface from the reflection and refraction captures,
// distorting both lookups with an animated wave pattern and mixing them by view angle.
type WaterShader interface {
	Shader
	LightingCapability
	WaterCapability

	// Lights returns the aggregator bound to this shader's program.
	//
	// Returns:
	//   - *LightAggregator: the light aggregator
	Lights() *LightAggregator

	// SetTiling sets how often the distortion pattern repeats across the surface.
	//
	// Parameters:
	//   - tiling: the repeat factor
	SetTiling(tiling float32)

	// SetWaveStrength sets the screen-space distortion amplitude.
	//
	// Parameters:
	//   - strength: the distortion amplitude
	SetWaveStrength(strength float32)
}

var _ WaterShader = &waterShader{}

// NewWaterShader creates the water composite shader. Its pipeline samples two textures and
// blends over the already rendered scene without writing depth.
//
// Parameters:
//   - opts: functional options
//
// Returns:
//   - WaterShader: the new shader
func NewWaterShader(opts ...ShaderBuilderOption) WaterShader {
	s := &waterShader{
		baseShader:      newBaseShader("water", KindWater, waterSource),
		moveFactorLoc:   InvalidLocation,
		tilingLoc:       InvalidLocation,
		waveStrengthLoc: InvalidLocation,
		tiling:          DefaultWaterTiling,
		waveStrength:    DefaultWaveStrength,
	}
	for _, opt := range opts {
		opt(s.baseShader)
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.NewPipeline(s.name,
			pipeline.WithSampledTextures(2),
			pipeline.WithAlphaBlend(),
			pipeline.WithDepthWrite(false),
		)
	}
	return s
}

func (s *waterShader) Init() error {
	return s.init(func(p Program) {
		s.moveFactorLoc = p.Register("u_moveFactor", UniformFloat)
		s.tilingLoc = p.Register("u_tiling", UniformFloat)
		s.waveStrengthLoc = p.Register("u_waveStrength", UniformFloat)
		p.Set1f(s.tilingLoc, s.tiling)
		p.Set1f(s.waveStrengthLoc, s.waveStrength)
	})
}

func (s *waterShader) SetWaterTextures(reflection, refraction common.Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reflection = reflection
	s.refraction = refraction
}

func (s *waterShader) SetMoveFactor(f float32) {
	s.program.Set1f(s.moveFactorLoc, f)
}

func (s *waterShader) SetTiling(tiling float32) {
	s.mu.Lock()
	s.tiling = tiling
	s.mu.Unlock()
	s.program.Set1f(s.tilingLoc, tiling)
}

func (s *waterShader) SetWaveStrength(strength float32) {
	s.mu.Lock()
	s.waveStrength = strength
	s.mu.Unlock()
	s.program.Set1f(s.waveStrengthLoc, strength)
}

func (s *waterShader) Textures() []common.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reflection == nil || s.refraction == nil {
		return nil
	}
	return []common.Texture{s.reflection, s.refraction}
}
