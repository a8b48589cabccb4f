package common

import "github.com/go-gl/mathgl/mgl32"

// Ray is a half-line used for picking. Direction is expected to be normalized.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectPlane returns the distance along the ray to the plane, and false when the ray is
// parallel to the plane or the hit lies behind the origin.
func (r Ray) IntersectPlane(p Plane) (float32, bool) {
	denom := p.Normal.Dot(r.Direction)
	if denom == 0 {
		return 0, false
	}
	t := -p.SignedDistance(r.Origin) / denom
	if t < 0 {
		return 0, false
	}
	return t, true
}
