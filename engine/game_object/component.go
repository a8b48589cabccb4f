package game_object

import (
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// ComponentType identifies the kind of a Component.
type ComponentType int

const (
	// ComponentModel is a lit mesh.
	ComponentModel ComponentType = iota
	// ComponentWater is a water surface composited from the capture passes.
	ComponentWater
	// ComponentTerrain is an editable height field.
	ComponentTerrain
)

func (t ComponentType) String() string {
	switch t {
	case ComponentModel:
		return "model"
	case ComponentWater:
		return "water"
	case ComponentTerrain:
		return "terrain"
	default:
		return "unknown"
	}
}

// Component adds behavior to a GameObject.
type Component interface {
	// Type returns the component kind.
	//
	// Returns:
	//   - ComponentType: the kind
	Type() ComponentType

	// Attach makes owner the object this component belongs to. It is called by the owner.
	//
	// Parameters:
	//   - owner: the owning object
	Attach(owner GameObject)

	// Owner returns the owning object, or nil before Attach.
	//
	// Returns:
	//   - GameObject: the owner
	Owner() GameObject

	// Update advances the component.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)

	// Dispose releases the component's GPU resources. Calling it again is a no-op.
	Dispose()
}

// Drawable is a component the scene graph can submit to a batch.
type Drawable interface {
	Component
	renderer.Renderable

	// Shader returns the shader the component is drawn with.
	//
	// Returns:
	//   - shader.Shader: the shader
	Shader() shader.Shader

	// Bounds returns a world-space bounding sphere. A radius <= 0 means the component is never
	// culled.
	//
	// Returns:
	//   - mgl32.Vec3: the center
	//   - float32: the radius
	Bounds() (mgl32.Vec3, float32)
}

// ownerTransform returns the world matrix of owner, or identity when unattached.
func ownerTransform(owner GameObject) mgl32.Mat4 {
	if owner == nil {
		return mgl32.Ident4()
	}
	return owner.WorldTransform()
}

// maxScale returns the largest scale factor along the owner chain's world axes.
func maxScale(m mgl32.Mat4) float32 {
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	return max(sx, sy, sz)
}
