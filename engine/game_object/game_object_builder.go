package game_object

import "github.com/go-gl/mathgl/mgl32"

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID overrides the generated ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the display name of the GameObject.
//
// Parameters:
//   - name: the display name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithActive sets whether the GameObject takes part in update and render.
//
// Parameters:
//   - active: true to update and render the object, false to skip its subtree
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the active state
func WithActive(active bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.active = active
	}
}

// WithPosition sets the initial local position.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.position = mgl32.Vec3{x, y, z}
	}
}

// WithRotation sets the initial local rotation in degrees.
//
// Parameters:
//   - rx, ry, rz: rotation angles
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotation = mgl32.Vec3{rx, ry, rz}
	}
}

// WithRotationSpeed sets the rotation applied per second by Update.
//
// Parameters:
//   - rx, ry, rz: degrees per second
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the rotation speed
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.rotationSpeed = mgl32.Vec3{rx, ry, rz}
	}
}

// WithScale sets the initial local scale.
//
// Parameters:
//   - sx, sy, sz: scale factors
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.scale = mgl32.Vec3{sx, sy, sz}
	}
}

// WithComponents attaches components to the GameObject.
//
// Parameters:
//   - components: the components to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach the components
func WithComponents(components ...Component) GameObjectBuilderOption {
	return func(obj *gameObject) {
		for _, c := range components {
			if c == nil {
				continue
			}
			obj.components = append(obj.components, c)
			c.Attach(obj)
		}
	}
}

// WithChildren attaches children to the GameObject. Children that already have a parent are
// moved.
//
// Parameters:
//   - children: the children to attach
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach the children
func WithChildren(children ...GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		for _, c := range children {
			_ = obj.AddChild(c)
		}
	}
}
