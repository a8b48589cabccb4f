package game_object

import "github.com/go-gl/mathgl/mgl32"

type componentConfig struct {
	tint       *mgl32.Vec4
	radius     float32
	size       float32
	resolution int
}

// ComponentBuilderOption is a functional option for configuring a component during construction.
// Options that do not apply to a component kind are ignored by it.
type ComponentBuilderOption func(*componentConfig)

// WithTint sets the base color of a model.
//
// Parameters:
//   - r, g, b, a: color channels in [0, 1]
//
// Returns:
//   - ComponentBuilderOption: functional option to set the tint
func WithTint(r, g, b, a float32) ComponentBuilderOption {
	return func(c *componentConfig) {
		c.tint = &mgl32.Vec4{r, g, b, a}
	}
}

// WithBoundingRadius sets the local-space bounding sphere radius used for clip culling.
// A model without a radius is never culled.
//
// Parameters:
//   - radius: the radius
//
// Returns:
//   - ComponentBuilderOption: functional option to set the radius
func WithBoundingRadius(radius float32) ComponentBuilderOption {
	return func(c *componentConfig) {
		c.radius = radius
	}
}

// WithSize sets the edge length of a water quad or terrain.
//
// Parameters:
//   - size: the edge length in world units
//
// Returns:
//   - ComponentBuilderOption: functional option to set the size
func WithSize(size float32) ComponentBuilderOption {
	return func(c *componentConfig) {
		c.size = size
	}
}

// WithResolution sets the number of vertices along each terrain edge. Values below 2 are clamped.
//
// Parameters:
//   - resolution: vertices per edge
//
// Returns:
//   - ComponentBuilderOption: functional option to set the resolution
func WithResolution(resolution int) ComponentBuilderOption {
	return func(c *componentConfig) {
		c.resolution = max(resolution, 2)
	}
}

func applyComponentOptions(options []ComponentBuilderOption) componentConfig {
	var cfg componentConfig
	for _, option := range options {
		option(&cfg)
	}
	return cfg
}
