package renderer

import "github.com/cogentcore/webgpu/wgpu"

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. This is the default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ContextBuilderOption is a functional option applied to the wgpu context during NewContext.
type ContextBuilderOption func(*wgpuContext)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - ContextBuilderOption: a function that applies the present mode option to a context
func WithPresentMode(mode PresentMode) ContextBuilderOption {
	return func(c *wgpuContext) {
		switch mode {
		case PresentModeUncapped:
			c.presentMode = wgpu.PresentModeImmediate
		default:
			c.presentMode = wgpu.PresentModeFifo
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - ContextBuilderOption: a function that applies the force software renderer option to a context
func WithForceSoftwareRenderer(force bool) ContextBuilderOption {
	return func(c *wgpuContext) {
		c.forceFallbackAdapter = force
	}
}

// WithShaderValidation toggles compiling WGSL through naga before creating the shader module.
// Enabled by default.
//
// Parameters:
//   - validate: true to validate shader sources
//
// Returns:
//   - ContextBuilderOption: a function that applies the validation option to a context
func WithShaderValidation(validate bool) ContextBuilderOption {
	return func(c *wgpuContext) {
		c.validateShaders = validate
	}
}
