package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformOffsetAlignment is the WebGPU default minUniformBufferOffsetAlignment. Dynamic offsets
// into a slotted buffer are multiples of it.
const UniformOffsetAlignment = 256

// Role is the kind of resource a provider backs.
type Role int

const (
	// RoleUniforms backs the uniform buffer and bind group of one shader strategy.
	RoleUniforms Role = iota

	// RoleTextures backs the sampled-texture bind group of a shader reading capture buffers.
	RoleTextures

	// RoleMesh backs the vertex and index buffers of a mesh plus its slotted model uniforms.
	RoleMesh
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleUniforms:
		return "uniforms"
	case RoleTextures:
		return "textures"
	case RoleMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// BindGroupProvider owns the GPU objects behind one bindable resource of the wgpu context.
//
// A provider created WithSlots splits its binding 0 buffer into fixed-stride slots so one
// resource can be drawn several times in a single pass with different uniforms. Slots are handed
// out by NextSlot and recycled by ResetSlots at the start of every submit.
//
// Texture views and samplers are never owned; capture framebuffers and the context release those.
type BindGroupProvider interface {
	// Label returns the debug label.
	Label() string

	// Role returns what the provider backs.
	Role() Role

	// BindGroup returns the bind group, or nil.
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the owned bind group layout, or nil.
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// VertexBuffer returns the vertex buffer, or nil.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the index buffer, or nil.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices drawn.
	IndexCount() int

	// ReplaceBindGroup stores bg and releases the previous bind group.
	//
	// Parameters:
	//   - bg: the new bind group
	ReplaceBindGroup(bg *wgpu.BindGroup)

	// ReplaceBuffer stores buf at a binding index and releases the buffer it replaces.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the new buffer
	ReplaceBuffer(binding int, buf *wgpu.Buffer)

	// SetGeometry stores the vertex and index buffers and the index count. Buffers that are
	// replaced are released.
	//
	// Parameters:
	//   - vertices: the vertex buffer
	//   - indices: the index buffer
	//   - indexCount: the number of indices
	SetGeometry(vertices, indices *wgpu.Buffer, indexCount int)

	// SlotStride returns the aligned byte distance between slots, or 0 without slots.
	SlotStride() uint64

	// SlotSize returns the bytes a slot binds, or 0 without slots.
	SlotSize() uint64

	// SlotCapacity returns how many slots the current buffer holds.
	SlotCapacity() int

	// SetSlotCapacity records the slot count of a newly created buffer.
	//
	// Parameters:
	//   - n: the number of slots
	SetSlotCapacity(n int)

	// SlotsUsed returns how many slots were handed out since the last reset.
	SlotsUsed() int

	// NextSlot hands out the next free slot.
	//
	// Returns:
	//   - uint64: the byte offset of the slot
	//   - bool: false when the buffer is full
	NextSlot() (uint64, bool)

	// ResetSlots makes every slot free again.
	ResetSlots()

	// Release releases every owned GPU object. Calling it again is a no-op.
	Release()
}

type bindGroupProvider struct {
	label string
	role  Role

	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout
	buffers         map[int]*wgpu.Buffer

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int

	slotSize     uint64
	slotStride   uint64
	slotCapacity int
	slotsUsed    int
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - label: debug label used for the GPU objects
//   - role: what the provider backs
//   - options: functional options
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(label string, role Role, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		role:    role,
		buffers: make(map[int]*wgpu.Buffer),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// AlignUniform rounds size up to UniformOffsetAlignment.
func AlignUniform(size uint64) uint64 {
	return (size + UniformOffsetAlignment - 1) / UniformOffsetAlignment * UniformOffsetAlignment
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Role() Role {
	return p.role
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) ReplaceBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) ReplaceBuffer(binding int, buf *wgpu.Buffer) {
	if old := p.buffers[binding]; old != nil && old != buf {
		old.Release()
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetGeometry(vertices, indices *wgpu.Buffer, indexCount int) {
	if p.vertexBuffer != nil && p.vertexBuffer != vertices {
		p.vertexBuffer.Release()
	}
	if p.indexBuffer != nil && p.indexBuffer != indices {
		p.indexBuffer.Release()
	}
	p.vertexBuffer = vertices
	p.indexBuffer = indices
	p.indexCount = indexCount
}

func (p *bindGroupProvider) SlotStride() uint64 {
	return p.slotStride
}

func (p *bindGroupProvider) SlotSize() uint64 {
	return p.slotSize
}

func (p *bindGroupProvider) SlotCapacity() int {
	return p.slotCapacity
}

func (p *bindGroupProvider) SetSlotCapacity(n int) {
	p.slotCapacity = max(n, 0)
	p.slotsUsed = min(p.slotsUsed, p.slotCapacity)
}

func (p *bindGroupProvider) SlotsUsed() int {
	return p.slotsUsed
}

func (p *bindGroupProvider) NextSlot() (uint64, bool) {
	if p.slotStride == 0 || p.slotsUsed >= p.slotCapacity {
		return 0, false
	}
	offset := uint64(p.slotsUsed) * p.slotStride
	p.slotsUsed++
	return offset, true
}

func (p *bindGroupProvider) ResetSlots() {
	p.slotsUsed = 0
}

func (p *bindGroupProvider) Release() {
	for binding, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, binding)
	}
	p.ReplaceBindGroup(nil)
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	p.SetGeometry(nil, nil, 0)
	p.slotCapacity = 0
	p.slotsUsed = 0
}
