package pipeline_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := pipeline.NewPipeline("lit")
	assert.Equal(t, "lit", p.PipelineKey())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Nil(t, p.BlendState())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, 0, p.SampledTextures())
	assert.Nil(t, p.RenderPipeline(wgpu.TextureFormatRGBA8Unorm))
}

func TestPipelineOptions(t *testing.T) {
	p := pipeline.NewPipeline("water",
		pipeline.WithSampledTextures(2),
		pipeline.WithAlphaBlend(),
		pipeline.WithDepthWrite(false),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
	assert.Equal(t, 2, p.SampledTextures())
	assert.NotNil(t, p.BlendState())
	assert.False(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
}

func TestWithBlendCopiesAndClears(t *testing.T) {
	state := pipeline.AlphaBlend
	p := pipeline.NewPipeline("glass", pipeline.WithBlend(&state))
	state.Color.Operation = wgpu.BlendOperationMax
	assert.Equal(t, wgpu.BlendOperationAdd, p.BlendState().Color.Operation)

	p = pipeline.NewPipeline("glass", pipeline.WithAlphaBlend(), pipeline.WithBlend(nil))
	assert.False(t, p.BlendEnabled())
}
