package light

import (
	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a functional option applied to a light during NewLight.
type LightBuilderOption func(*lightImpl)

// WithPosition places a point or spot light in world space.
//
// Parameters:
//   - x, y, z: world coordinates
//
// Returns:
//   - LightBuilderOption: sets the position
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = mgl32.Vec3{x, y, z}
	}
}

// WithDirection is an option builder that sets the light direction.
// The direction is normalized before storage.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: sets the direction
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = common.SafeNormalize(mgl32.Vec3{x, y, z})
	}
}

// WithColor sets the linear RGB color the light emits.
//
// Parameters:
//   - r, g, b: linear channels, usually in [0, 1]
//
// Returns:
//   - LightBuilderOption: sets the color
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity is an option builder that sets the diffuse intensity.
//
// Parameters:
//   - intensity: scale applied to the color
//
// Returns:
//   - LightBuilderOption: sets the intensity
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithAttenuation is an option builder that sets the falloff coefficients of a point or spot light.
//
// Parameters:
//   - constant, linear, exponential: the attenuation coefficients
//
// Returns:
//   - LightBuilderOption: sets the attenuation
func WithAttenuation(constant, linear, exponential float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.attenuation = Attenuation{Constant: constant, Linear: linear, Exponential: exponential}
	}
}

// WithCutoff is an option builder that sets the spot cone half-angle in degrees.
//
// Parameters:
//   - deg: cutoff angle in degrees
//
// Returns:
//   - LightBuilderOption: sets the cutoff
func WithCutoff(deg float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.cutoff = deg
	}
}

// WithEnabled is an option builder that sets whether the light is active.
//
// Parameters:
//   - enabled: false keeps the light out of aggregation
//
// Returns:
//   - LightBuilderOption: sets the enabled
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
