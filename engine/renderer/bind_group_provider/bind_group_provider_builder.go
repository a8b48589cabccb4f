package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option for configuring a provider.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroupLayout hands ownership of a bind group layout to the provider.
//
// Parameters:
//   - bgl: the layout, released with the provider
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithSlots splits binding 0 into slots of size bytes, each starting on an
// UniformOffsetAlignment boundary. The capacity is set once the buffer exists.
//
// Parameters:
//   - size: the bytes bound per slot
//
// Returns:
//   - BindGroupProviderOption: option function to apply
func WithSlots(size uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		if size == 0 {
			return
		}
		p.slotSize = size
		p.slotStride = AlignUniform(size)
	}
}
