package pipeline

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	mu *sync.Mutex

	pipelineKey string

	// sampledTextures is the number of texture bindings in the pass-resource group.
	// Each texture is followed by a shared filtering sampler binding.
	sampledTextures int

	depthWriteEnabled bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState

	// renderPipelines caches the compiled GPU pipeline per color target format, since
	// offscreen capture buffers and the swapchain may use different formats.
	renderPipelines map[wgpu.TextureFormat]*wgpu.RenderPipeline
}

// Pipeline describes the fixed-function render state a shader strategy is drawn with and
// caches the GPU pipeline objects compiled from it. The description is backend-neutral; the
// wgpu context compiles it lazily the first time a draw targets a given color format.
type Pipeline interface {
	// PipelineKey returns the unique cache key of this pipeline.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// SampledTextures returns how many textures the shader samples from its pass-resource group.
	//
	// Returns:
	//   - int: the number of sampled texture bindings
	SampledTextures() int

	// DepthWriteEnabled reports whether fragments write depth.
	//
	// Returns:
	//   - bool: true if depth writes are enabled
	DepthWriteEnabled() bool

	// BlendEnabled reports whether alpha blending is applied to the color target.
	//
	// Returns:
	//   - bool: true if blending is enabled
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state of the color target, or nil when blending is off.
	BlendState() *wgpu.BlendState

	// RenderPipeline returns the compiled GPU pipeline for a color format, or nil if none was compiled yet.
	//
	// Parameters:
	//   - format: the color target format
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the cached pipeline or nil
	RenderPipeline(format wgpu.TextureFormat) *wgpu.RenderPipeline

	// SetRenderPipeline stores the compiled GPU pipeline for a color format.
	//
	// Parameters:
	//   - format: the color target format
	//   - rp: the compiled pipeline
	SetRenderPipeline(format wgpu.TextureFormat, rp *wgpu.RenderPipeline)

	// Release frees every cached GPU pipeline.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates an opaque, depth-writing triangle list pipeline that culls nothing.
//
// Parameters:
//   - pipelineKey: unique cache key, usually the shader name
//   - opts: functional options
//
// Returns:
//   - Pipeline: the new pipeline description
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		mu:                &sync.Mutex{},
		pipelineKey:       pipelineKey,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		renderPipelines:   make(map[wgpu.TextureFormat]*wgpu.RenderPipeline),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) SampledTextures() int {
	return p.sampledTextures
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendState != nil
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) RenderPipeline(format wgpu.TextureFormat) *wgpu.RenderPipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renderPipelines[format]
}

func (p *pipeline) SetRenderPipeline(format wgpu.TextureFormat, rp *wgpu.RenderPipeline) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderPipelines[format] = rp
}

func (p *pipeline) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for format, rp := range p.renderPipelines {
		if rp != nil {
			rp.Release()
		}
		delete(p.renderPipelines, format)
	}
}
