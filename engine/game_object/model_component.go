package game_object

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

type modelComponent struct {
	mu *sync.RWMutex

	owner    GameObject
	mesh     renderer.Mesh
	shader   shader.Shader
	tint     mgl32.Vec4
	radius   float32
	disposed bool
}

// ModelComponent draws a mesh with a lit shader.
type ModelComponent interface {
	Drawable

	// SetTint sets the base color multiplied into the lit result.
	//
	// Parameters:
	//   - tint: RGBA color
	SetTint(tint mgl32.Vec4)
}

var _ ModelComponent = &modelComponent{}

// NewModelComponent creates a model component over an uploaded mesh.
//
// Parameters:
//   - mesh: the geometry; the component takes ownership and disposes it
//   - sh: the shader to draw with
//   - options: functional options
//
// Returns:
//   - ModelComponent: the new component
func NewModelComponent(mesh renderer.Mesh, sh shader.Shader, options ...ComponentBuilderOption) ModelComponent {
	c := &modelComponent{
		mu:     &sync.RWMutex{},
		mesh:   mesh,
		shader: sh,
		tint:   mgl32.Vec4{1, 1, 1, 1},
	}
	cfg := applyComponentOptions(options)
	if cfg.tint != nil {
		c.tint = *cfg.tint
	}
	c.radius = cfg.radius
	return c
}

func (c *modelComponent) Type() ComponentType {
	return ComponentModel
}

func (c *modelComponent) Attach(owner GameObject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owner = owner
}

func (c *modelComponent) Owner() GameObject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

func (c *modelComponent) Update(dt float32) {}

func (c *modelComponent) Mesh() renderer.Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.disposed {
		return nil
	}
	return c.mesh
}

func (c *modelComponent) ModelMatrix() mgl32.Mat4 {
	return ownerTransform(c.Owner())
}

func (c *modelComponent) Tint() mgl32.Vec4 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tint
}

func (c *modelComponent) SetTint(tint mgl32.Vec4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tint = tint
}

func (c *modelComponent) Shader() shader.Shader {
	return c.shader
}

func (c *modelComponent) Bounds() (mgl32.Vec3, float32) {
	m := c.ModelMatrix()
	c.mu.RLock()
	r := c.radius
	c.mu.RUnlock()
	return m.Col(3).Vec3(), r * maxScale(m)
}

func (c *modelComponent) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	if c.mesh != nil {
		c.mesh.Dispose()
	}
}
