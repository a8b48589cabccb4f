package light

import "github.com/go-gl/mathgl/mgl32"

// EnvironmentBuilderOption is a functional option applied to an environment during NewEnvironment.
type EnvironmentBuilderOption func(*environment)

// WithAmbient sets the ambient term of the environment.
//
// Parameters:
//   - color: ambient RGB color
//   - intensity: ambient intensity
//
// Returns:
//   - EnvironmentBuilderOption: a function that applies the ambient term
func WithAmbient(color mgl32.Vec3, intensity float32) EnvironmentBuilderOption {
	return func(e *environment) {
		e.ambient = Ambient{Color: color, Intensity: intensity}
	}
}

// WithLights adds lights to the environment in the given order.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - EnvironmentBuilderOption: a function that adds the lights
func WithLights(lights ...Light) EnvironmentBuilderOption {
	return func(e *environment) {
		for _, l := range lights {
			if l == nil {
				continue
			}
			e.categories[l.Type()] = append(e.categories[l.Type()], l)
		}
	}
}
