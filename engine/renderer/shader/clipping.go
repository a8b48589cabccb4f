package shader

import (
	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DistortionEdgeCorrection is how far past the water surface the capture passes keep
// geometry, hiding the seam the water distortion would otherwise reveal at the clip edge.
const DistortionEdgeCorrection float32 = 1

// ClippingPlane restricts a render pass to one side of a plane. A fragment at p survives
// when dot(p, Normal) + Offset >= 0. A zero normal disables clipping.
type ClippingPlane struct {
	Normal mgl32.Vec3
	Offset float32
}

// Disabled returns the degenerate plane that keeps every fragment.
func Disabled() ClippingPlane {
	return ClippingPlane{}
}

// ReflectionPlane keeps geometry above the water surface, extended DistortionEdgeCorrection below it.
//
// Parameters:
//   - waterHeight: world-space height of the water surface
//
// Returns:
//   - ClippingPlane: normal (0, 1, 0) with offset -waterHeight + DistortionEdgeCorrection
func ReflectionPlane(waterHeight float32) ClippingPlane {
	return ClippingPlane{Normal: mgl32.Vec3{0, 1, 0}, Offset: -waterHeight + DistortionEdgeCorrection}
}

// RefractionPlane keeps geometry below the water surface, extended DistortionEdgeCorrection above it.
//
// Parameters:
//   - waterHeight: world-space height of the water surface
//
// Returns:
//   - ClippingPlane: normal (0, -1, 0) with offset waterHeight + DistortionEdgeCorrection
func RefractionPlane(waterHeight float32) ClippingPlane {
	return ClippingPlane{Normal: mgl32.Vec3{0, -1, 0}, Offset: waterHeight + DistortionEdgeCorrection}
}

// IsDisabled reports whether the plane keeps everything.
func (c ClippingPlane) IsDisabled() bool {
	return c.Normal == mgl32.Vec3{}
}

// Keeps reports whether a world-space point lies on the rendered side of the plane.
func (c ClippingPlane) Keeps(point mgl32.Vec3) bool {
	if c.IsDisabled() {
		return true
	}
	return c.Normal.Dot(point)+c.Offset >= 0
}

// KeepsSphere reports whether any part of a bounding sphere lies on the rendered side.
func (c ClippingPlane) KeepsSphere(center mgl32.Vec3, radius float32) bool {
	if c.IsDisabled() {
		return true
	}
	return c.Normal.Dot(center)+c.Offset >= -radius
}

// Vec4 packs the plane as (nx, ny, nz, offset) for the shader uniform.
func (c ClippingPlane) Vec4() mgl32.Vec4 {
	return c.Normal.Vec4(c.Offset)
}

// Plane converts the clipping plane into the engine's generic plane type.
func (c ClippingPlane) Plane() common.Plane {
	return common.Plane{Normal: c.Normal, Distance: c.Offset}
}
