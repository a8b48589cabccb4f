package game_object

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrCycle is returned when adding a child would make an object its own ancestor.
var ErrCycle = errors.New("game_object: child is an ancestor of the parent")

var nextID atomic.Uint64

type gameObject struct {
	mu *sync.RWMutex

	id     uint64
	name   string
	active bool

	position      mgl32.Vec3
	rotation      mgl32.Vec3
	rotationSpeed mgl32.Vec3
	scale         mgl32.Vec3

	parent     *gameObject
	children   []*gameObject
	components []Component
}

// GameObject is a node of the scene tree. It owns a local transform (position, rotation in
// degrees, scale), an ordered list of children and the components that give it behavior.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the display name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName sets the display name.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Active returns whether the object and its subtree take part in update and render.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive sets whether the object takes part in update and render.
	//
	// Parameters:
	//   - active: true to activate
	SetActive(active bool)

	// Position returns the local position.
	//
	// Returns:
	//   - mgl32.Vec3: the position relative to the parent
	Position() mgl32.Vec3

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - p: the position relative to the parent
	SetPosition(p mgl32.Vec3)

	// Rotation returns the local euler rotation in degrees.
	//
	// Returns:
	//   - mgl32.Vec3: rotation around x, y, z
	Rotation() mgl32.Vec3

	// SetRotation sets the local euler rotation in degrees.
	//
	// Parameters:
	//   - r: rotation around x, y, z
	SetRotation(r mgl32.Vec3)

	// RotationSpeed returns the rotation applied per second by Update, in degrees.
	//
	// Returns:
	//   - mgl32.Vec3: degrees per second around x, y, z
	RotationSpeed() mgl32.Vec3

	// SetRotationSpeed sets the rotation applied per second by Update.
	//
	// Parameters:
	//   - s: degrees per second around x, y, z
	SetRotationSpeed(s mgl32.Vec3)

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: scale factors
	Scale() mgl32.Vec3

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: scale factors
	SetScale(s mgl32.Vec3)

	// LocalTransform composes the local transform matrix.
	//
	// Returns:
	//   - mgl32.Mat4: translation * rotation * scale
	LocalTransform() mgl32.Mat4

	// WorldTransform composes the transform of every ancestor with the local transform.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldTransform() mgl32.Mat4

	// WorldPosition returns the origin of the object in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	WorldPosition() mgl32.Vec3

	// Parent returns the parent object, or nil for a root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// Children returns a copy of the child list.
	//
	// Returns:
	//   - []GameObject: the children in order
	Children() []GameObject

	// AddChild reparents child under this object.
	//
	// Parameters:
	//   - child: the object to attach
	//
	// Returns:
	//   - error: ErrCycle if child is this object or one of its ancestors
	AddChild(child GameObject) error

	// RemoveChild detaches a direct child.
	//
	// Parameters:
	//   - child: the object to detach
	//
	// Returns:
	//   - bool: true if child was a direct child
	RemoveChild(child GameObject) bool

	// Components returns a copy of the component list.
	//
	// Returns:
	//   - []Component: the components in order
	Components() []Component

	// AddComponent attaches a component and makes this object its owner.
	//
	// Parameters:
	//   - c: the component to attach
	AddComponent(c Component)

	// FindComponent returns the first component of a type.
	//
	// Parameters:
	//   - t: the component type
	//
	// Returns:
	//   - Component: the component or nil
	FindComponent(t ComponentType) Component

	// Find searches the subtree depth-first, this object included, for a name.
	//
	// Parameters:
	//   - name: the name to look for
	//
	// Returns:
	//   - GameObject: the first match or nil
	Find(name string) GameObject

	// Walk visits the subtree depth-first, this object first. Returning false from fn skips the
	// children of the visited object.
	//
	// Parameters:
	//   - fn: the visitor
	Walk(fn func(obj GameObject) bool)

	// Update advances the rotation by the rotation speed and updates every component.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Update(dt float32)

	// Dispose disposes every component in the subtree.
	Dispose()
}

var _ GameObject = &gameObject{}

// NewGameObject creates an active object with unit scale and a fresh ID.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:     &sync.RWMutex{},
		id:     nextID.Add(1),
		active: true,
		scale:  mgl32.Vec3{1, 1, 1},
	}
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.name
}

func (g *gameObject) SetName(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.name = name
}

func (g *gameObject) Active() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.active
}

func (g *gameObject) SetActive(active bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active = active
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = p
}

func (g *gameObject) Rotation() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotation
}

func (g *gameObject) SetRotation(r mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = r
}

func (g *gameObject) RotationSpeed() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.rotationSpeed
}

func (g *gameObject) SetRotationSpeed(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = s
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = s
}

func (g *gameObject) LocalTransform() mgl32.Mat4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return common.Compose(g.position, g.rotation, g.scale)
}

func (g *gameObject) WorldTransform() mgl32.Mat4 {
	local := g.LocalTransform()
	g.mu.RLock()
	parent := g.parent
	g.mu.RUnlock()
	if parent == nil {
		return local
	}
	return parent.WorldTransform().Mul4(local)
}

func (g *gameObject) WorldPosition() mgl32.Vec3 {
	return g.WorldTransform().Col(3).Vec3()
}

func (g *gameObject) Parent() GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *gameObject) Children() []GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GameObject, len(g.children))
	for i, c := range g.children {
		out[i] = c
	}
	return out
}

func (g *gameObject) AddChild(child GameObject) error {
	c, ok := child.(*gameObject)
	if !ok || c == nil {
		return nil
	}
	for a := g; a != nil; a = a.parentLocked() {
		if a == c {
			return ErrCycle
		}
	}
	if old := c.parentLocked(); old != nil {
		old.RemoveChild(c)
	}

	g.mu.Lock()
	g.children = append(g.children, c)
	g.mu.Unlock()

	c.mu.Lock()
	c.parent = g
	c.mu.Unlock()
	return nil
}

func (g *gameObject) RemoveChild(child GameObject) bool {
	c, ok := child.(*gameObject)
	if !ok || c == nil {
		return false
	}
	g.mu.Lock()
	i := slices.Index(g.children, c)
	if i < 0 {
		g.mu.Unlock()
		return false
	}
	g.children = slices.Delete(g.children, i, i+1)
	g.mu.Unlock()

	c.mu.Lock()
	c.parent = nil
	c.mu.Unlock()
	return true
}

func (g *gameObject) parentLocked() *gameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.parent
}

func (g *gameObject) Components() []Component {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.components)
}

func (g *gameObject) AddComponent(c Component) {
	if c == nil {
		return
	}
	g.mu.Lock()
	g.components = append(g.components, c)
	g.mu.Unlock()
	c.Attach(g)
}

func (g *gameObject) FindComponent(t ComponentType) Component {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.components {
		if c.Type() == t {
			return c
		}
	}
	return nil
}

func (g *gameObject) Find(name string) GameObject {
	var found GameObject
	g.Walk(func(obj GameObject) bool {
		if found != nil {
			return false
		}
		if obj.Name() == name {
			found = obj
			return false
		}
		return true
	})
	return found
}

func (g *gameObject) Walk(fn func(obj GameObject) bool) {
	if !fn(g) {
		return
	}
	for _, c := range g.Children() {
		c.Walk(fn)
	}
}

func (g *gameObject) Update(dt float32) {
	g.mu.Lock()
	if g.rotationSpeed != (mgl32.Vec3{}) {
		g.rotation = g.rotation.Add(g.rotationSpeed.Mul(dt))
	}
	components := slices.Clone(g.components)
	g.mu.Unlock()

	for _, c := range components {
		c.Update(dt)
	}
}

func (g *gameObject) Dispose() {
	g.Walk(func(obj GameObject) bool {
		for _, c := range obj.Components() {
			c.Dispose()
		}
		return true
	})
}
