package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
)

// DrawParams carries the per-pass state a Batch hands to shader capabilities.
type DrawParams struct {
	Environment light.Environment
	Clipping    shader.ClippingPlane
	Reflection  common.Texture
	Refraction  common.Texture
}

type batch struct {
	mu *sync.Mutex

	ctx    Context
	cam    camera.Camera
	begun  bool
	active shader.Shader
	calls  []DrawCall
}

// Batch records the draws of one render pass. A shader is activated once per change: it is
// initialized if needed, receives the camera, and then gets the environment, clipping plane and
// water textures according to the capabilities it implements. End submits everything as a
// single pass into the context's bound target.
type Batch interface {
	// Begin starts recording a pass seen through cam.
	//
	// Parameters:
	//   - cam: the camera of the pass
	//
	// Returns:
	//   - error: ErrBatchAlreadyBegun if a pass is already recording
	Begin(cam camera.Camera) error

	// Render records one draw.
	//
	// Parameters:
	//   - r: the object to draw; objects without a mesh are skipped
	//   - sh: the shader strategy to draw with
	//   - params: the pass state applied through the shader's capabilities
	//
	// Returns:
	//   - error: ErrBatchNotBegun, or a shader initialization error
	Render(r Renderable, sh shader.Shader, params DrawParams) error

	// End submits the recorded pass.
	//
	// Returns:
	//   - error: ErrBatchNotBegun, or the context's submit error
	End() error

	// Recording reports whether the batch is between Begin and End.
	Recording() bool
}

var _ Batch = &batch{}

// NewBatch creates a batch that submits into ctx.
//
// Parameters:
//   - ctx: the graphics context
//
// Returns:
//   - Batch: the new batch
func NewBatch(ctx Context) Batch {
	return &batch{
		mu:  &sync.Mutex{},
		ctx: ctx,
	}
}

func (b *batch) Begin(cam camera.Camera) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.begun {
		return ErrBatchAlreadyBegun
	}
	b.begun = true
	b.cam = cam
	b.active = nil
	b.calls = b.calls[:0]
	return nil
}

func (b *batch) Render(r Renderable, sh shader.Shader, params DrawParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.begun {
		return ErrBatchNotBegun
	}
	if r == nil || sh == nil {
		return nil
	}
	mesh := r.Mesh()
	if mesh == nil {
		return nil
	}

	if sh != b.active {
		if b.active != nil {
			b.active.End()
		}
		if !sh.Initialized() {
			if err := sh.Init(); err != nil {
				return fmt.Errorf("renderer: init shader %q: %w", sh.Name(), err)
			}
		}
		sh.Begin(b.cam)
		if lit, ok := sh.(shader.LightingCapability); ok {
			lit.SetLights(params.Environment)
		}
		b.active = sh
	}
	if water, ok := sh.(shader.WaterCapability); ok && params.Reflection != nil && params.Refraction != nil {
		water.SetWaterTextures(params.Reflection, params.Refraction)
	}
	if clip, ok := sh.(shader.ClippingCapability); ok {
		clip.SetClippingPlane(params.Clipping)
	}

	b.calls = append(b.calls, DrawCall{
		Shader:   sh,
		Uniforms: sh.Program().Bytes(),
		Mesh:     mesh,
		Model:    r.ModelMatrix(),
		Color:    r.Tint(),
		Textures: sh.Textures(),
	})
	return nil
}

func (b *batch) End() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.begun {
		return ErrBatchNotBegun
	}
	if b.active != nil {
		b.active.End()
		b.active = nil
	}
	b.begun = false
	b.cam = nil

	calls := make([]DrawCall, len(b.calls))
	copy(calls, b.calls)
	b.calls = b.calls[:0]
	return b.ctx.Submit(calls)
}

func (b *batch) Recording() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.begun
}
