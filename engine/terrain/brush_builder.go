package terrain

// BrushBuilderOption is a functional option for configuring a brush.
type BrushBuilderOption func(b *radialBrush)

// WithName sets the display name of the brush.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - BrushBuilderOption: option function to apply
func WithName(name string) BrushBuilderOption {
	return func(b *radialBrush) {
		b.name = name
	}
}

// WithRadius sets the radius of influence.
//
// Parameters:
//   - radius: the radius in world units (minimum MinBrushRadius)
//
// Returns:
//   - BrushBuilderOption: option function to apply
func WithRadius(radius float32) BrushBuilderOption {
	return func(b *radialBrush) {
		b.radius = max(radius, MinBrushRadius)
	}
}

// WithStrength sets the height change at the brush center per Draw.
//
// Parameters:
//   - strength: the height change
//
// Returns:
//   - BrushBuilderOption: option function to apply
func WithStrength(strength float32) BrushBuilderOption {
	return func(b *radialBrush) {
		b.strength = strength
	}
}
