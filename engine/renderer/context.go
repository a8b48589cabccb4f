package renderer

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is the number of float32 values per vertex: position (3), normal (3), uv (2).
const VertexStride = 8

// modelUniformSize is the per-draw uniform block: model matrix followed by a tint color.
const modelUniformSize = 64 + 16

// initialModelSlots is how many draws of one mesh per pass fit before its model buffer grows.
const initialModelSlots = 4

var (
	// ErrBatchNotBegun is returned when a Batch is used outside of Begin/End.
	ErrBatchNotBegun = errors.New("renderer: batch not begun")

	// ErrBatchAlreadyBegun is returned when Begin is called on a Batch that is already recording.
	ErrBatchAlreadyBegun = errors.New("renderer: batch already begun")

	// ErrTargetBound is returned when a framebuffer is bound while another one is still bound.
	ErrTargetBound = errors.New("renderer: another render target is bound")

	// ErrTargetNotBound is returned when ending a framebuffer that is not the bound target.
	ErrTargetNotBound = errors.New("renderer: render target is not bound")

	// ErrTargetDisposed is returned when binding a framebuffer after Dispose.
	ErrTargetDisposed = errors.New("renderer: render target disposed")

	// ErrNoFrame is returned when drawing to the default target outside of BeginFrame/EndFrame.
	ErrNoFrame = errors.New("renderer: no frame in progress")
)

// Context is the explicit graphics context every render path receives. It owns GPU resource
// creation and tracks which render target is bound; nothing in the engine reaches a global
// device.
type Context interface {
	// NewFrameBuffer allocates an offscreen color + depth render target.
	//
	// Parameters:
	//   - label: debug label of the target
	//   - width: width in pixels
	//   - height: height in pixels
	//
	// Returns:
	//   - FrameBuffer: the new target
	//   - error: an error if the size is invalid or allocation fails
	NewFrameBuffer(label string, width, height int) (FrameBuffer, error)

	// NewMesh uploads interleaved vertex data and indices.
	//
	// Parameters:
	//   - label: debug label of the mesh
	//   - vertices: interleaved vertices, VertexStride floats each
	//   - indices: triangle list indices
	//
	// Returns:
	//   - Mesh: the new mesh
	//   - error: an error if the data is malformed or allocation fails
	NewMesh(label string, vertices []float32, indices []uint32) (Mesh, error)

	// Bind makes target the destination of subsequent Clear and Submit calls. A nil target
	// selects the default (window) target.
	//
	// Parameters:
	//   - target: the framebuffer to bind, or nil
	//
	// Returns:
	//   - error: ErrTargetBound if a different framebuffer is still bound
	Bind(target FrameBuffer) error

	// Bound returns the currently bound framebuffer, or nil for the default target.
	//
	// Returns:
	//   - FrameBuffer: the bound framebuffer or nil
	Bound() FrameBuffer

	// Clear clears color and depth of the bound target before its next pass.
	//
	// Parameters:
	//   - color: the clear color
	Clear(color common.Color)

	// Submit records and submits one render pass into the bound target.
	//
	// Parameters:
	//   - calls: the draws of the pass in order
	//
	// Returns:
	//   - error: an error if resources could not be prepared or the pass failed
	Submit(calls []DrawCall) error

	// BeginFrame acquires the default target for the frame.
	//
	// Returns:
	//   - error: an error if the target could not be acquired
	BeginFrame() error

	// EndFrame flushes pending clears and presents the default target.
	//
	// Returns:
	//   - error: an error if no frame was begun
	EndFrame() error

	// Resize reconfigures the default target.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Release frees every resource the context owns.
	Release()
}

// FrameBuffer is an offscreen render target whose color attachment can be sampled by later passes.
type FrameBuffer interface {
	// Label returns the debug label.
	Label() string

	// Width returns the width in pixels.
	Width() int

	// Height returns the height in pixels.
	Height() int

	// Begin binds the framebuffer on its context.
	//
	// Returns:
	//   - error: ErrTargetDisposed or ErrTargetBound
	Begin() error

	// End restores the default target.
	//
	// Returns:
	//   - error: ErrTargetNotBound if this framebuffer is not bound
	End() error

	// ColorTexture returns the color attachment for sampling.
	//
	// Returns:
	//   - common.Texture: the color texture
	ColorTexture() common.Texture

	// Disposed reports whether Dispose was called.
	Disposed() bool

	// Dispose releases the GPU resources. Calling it again is a no-op.
	Dispose()
}

// Mesh is an uploaded triangle mesh.
type Mesh interface {
	// Label returns the debug label.
	Label() string

	// VertexCount returns the number of vertices.
	VertexCount() int

	// IndexCount returns the number of indices.
	IndexCount() int

	// Update replaces the mesh data.
	//
	// Parameters:
	//   - vertices: interleaved vertices, VertexStride floats each
	//   - indices: triangle list indices
	//
	// Returns:
	//   - error: an error if the data is malformed or the upload fails
	Update(vertices []float32, indices []uint32) error

	// Dispose releases the GPU buffers. Calling it again is a no-op.
	Dispose()
}

// Renderable is anything a Batch can draw.
type Renderable interface {
	// Mesh returns the geometry, or nil when there is nothing to draw.
	Mesh() Mesh

	// ModelMatrix returns the world transform.
	ModelMatrix() mgl32.Mat4

	// Tint returns the base color multiplied into the lit result.
	Tint() mgl32.Vec4
}

// DrawCall is one recorded draw. Uniforms is the shader's program state at record time, so later
// writes to the shader do not affect an already recorded pass.
type DrawCall struct {
	Shader   shader.Shader
	Uniforms []byte
	Mesh     Mesh
	Model    mgl32.Mat4
	Color    mgl32.Vec4
	Textures []common.Texture
}

// ModelUniform returns the per-draw uniform block bytes.
//
// Returns:
//   - []byte: model matrix and color, little-endian
func (d DrawCall) ModelUniform() []byte {
	buf := make([]byte, modelUniformSize)
	common.PutFloat32s(buf, 0, d.Model[:]...)
	common.PutFloat32s(buf, 64, d.Color[:]...)
	return buf
}

func validateFrameBufferSize(label string, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("renderer: framebuffer %q has invalid size %dx%d", label, width, height)
	}
	return nil
}

func validateMesh(label string, vertices []float32, indices []uint32) error {
	if len(vertices) == 0 || len(vertices)%VertexStride != 0 {
		return fmt.Errorf("renderer: mesh %q has %d floats, want a non-zero multiple of %d", label, len(vertices), VertexStride)
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return fmt.Errorf("renderer: mesh %q has %d indices, want a non-zero multiple of 3", label, len(indices))
	}
	count := uint32(len(vertices) / VertexStride)
	for i, idx := range indices {
		if idx >= count {
			return fmt.Errorf("renderer: mesh %q index %d references vertex %d of %d", label, i, idx, count)
		}
	}
	return nil
}

// targetBinding tracks the bound framebuffer for a context.
type targetBinding struct {
	bound FrameBuffer
}

func (t *targetBinding) bind(target FrameBuffer) error {
	if target != nil && t.bound != nil && t.bound != target {
		return ErrTargetBound
	}
	t.bound = target
	return nil
}
