package shader

import (
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

type litShader struct {
	*baseShader

	clipPlane Location
	plane     ClippingPlane
}

// LitShader is the forward shader for opaque scene geometry. It is lit by the environment
// and honors the pass's clipping plane, which lets the water capture passes render only the
// part of the scene above or below the surface.
type LitShader interface {
	Shader
	ClippingCapability
	LightingCapability

	// Lights returns the aggregator bound to this shader's program.
	//
	// Returns:
	//   - *LightAggregator: the light aggregator
	Lights() *LightAggregator

	// ClippingPlane returns the plane last written by SetClippingPlane.
	//
	// Returns:
	//   - ClippingPlane: the current clipping plane
	ClippingPlane() ClippingPlane
}

var _ LitShader = &litShader{}

// NewLitShader creates the lit forward shader. Call Init (or let the batch do it on first
// activation) before drawing with it.
//
// Parameters:
//   - opts: functional options
//
// Returns:
//   - LitShader: the new shader
func NewLitShader(opts ...ShaderBuilderOption) LitShader {
	s := &litShader{
		baseShader: newBaseShader("lit", KindLit, litSource),
		clipPlane:  InvalidLocation,
	}
	for _, opt := range opts {
		opt(s.baseShader)
	}
	if s.pipeline == nil {
		s.pipeline = pipeline.NewPipeline(s.name, pipeline.WithCullMode(wgpu.CullModeBack))
	}
	return s
}

func (s *litShader) Init() error {
	return s.init(func(p Program) {
		s.clipPlane = p.Register("u_clipPlane", UniformVec4)
	})
}

func (s *litShader) SetClippingPlane(plane ClippingPlane) {
	s.mu.Lock()
	s.plane = plane
	s.mu.Unlock()
	s.program.SetVec4(s.clipPlane, plane.Vec4())
}

func (s *litShader) ClippingPlane() ClippingPlane {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plane
}
