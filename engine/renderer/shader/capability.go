package shader

import (
	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
)

// ClippingCapability is implemented by shaders that discard fragments on one side of a plane.
// The batch forwards the pass's clipping plane before every draw.
type ClippingCapability interface {
	// SetClippingPlane writes the plane the next draws are clipped against.
	//
	// Parameters:
	//   - plane: the clipping plane, or Disabled()
	SetClippingPlane(plane ClippingPlane)
}

// LightingCapability is implemented by shaders that are lit by the scene environment.
// The batch calls SetLights once per shader activation, before the first draw.
type LightingCapability interface {
	// SetLights binds the environment's lights into the shader's fixed light slots.
	//
	// Parameters:
	//   - env: the environment to bind; nil binds no lights
	SetLights(env light.Environment)
}

// WaterCapability is implemented by shaders that composite the water surface from the
// reflection and refraction captures.
type WaterCapability interface {
	// SetWaterTextures sets the two capture textures sampled by the next draws.
	//
	// Parameters:
	//   - reflection: the reflection capture color texture
	//   - refraction: the refraction capture color texture
	SetWaterTextures(reflection, refraction common.Texture)

	// SetMoveFactor sets the animated distortion offset in [0, 1).
	//
	// Parameters:
	//   - f: the move factor
	SetMoveFactor(f float32)
}
