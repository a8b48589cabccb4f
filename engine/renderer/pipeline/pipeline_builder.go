package pipeline

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a Pipeline in NewPipeline.
type PipelineBuilderOption func(*pipeline)

// AlphaBlend is straight alpha blending over the existing color target.
var AlphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// WithSampledTextures declares count texture bindings in the pass-resource group, followed by one
// shared sampler.
func WithSampledTextures(count int) PipelineBuilderOption {
	return func(p *pipeline) {
		p.sampledTextures = max(count, 0)
	}
}

// WithDepthWrite toggles depth writes. Depth testing stays on either way.
func WithDepthWrite(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.depthWriteEnabled = enabled
	}
}

// WithAlphaBlend draws with AlphaBlend.
func WithAlphaBlend() PipelineBuilderOption {
	return WithBlend(&AlphaBlend)
}

// WithBlend draws with a custom blend state. A nil state turns blending off.
//
// Parameters:
//   - state: the blend state, copied on apply
//
// Returns:
//   - PipelineBuilderOption: option function to apply
func WithBlend(state *wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		if state == nil {
			p.blendState = nil
			return
		}
		s := *state
		p.blendState = &s
	}
}

// WithCullMode sets which faces are discarded.
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace sets the winding treated as front facing.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}
