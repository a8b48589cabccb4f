package game_object

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultWaterSize is the edge length of a water quad created without WithSize.
	DefaultWaterSize float32 = 100

	// WaveSpeed is how far the distortion pattern moves per second, in texture repeats.
	WaveSpeed float32 = 0.03
)

type waterComponent struct {
	mu *sync.RWMutex

	owner      GameObject
	mesh       renderer.Mesh
	shader     shader.WaterShader
	size       float32
	moveFactor float32
	disposed   bool
}

// WaterComponent is a flat water surface in the owner's XZ plane. It is drawn after the main pass,
// sampling the reflection and refraction captures.
type WaterComponent interface {
	Drawable

	// WaterShader returns the water shader.
	//
	// Returns:
	//   - shader.WaterShader: the shader
	WaterShader() shader.WaterShader

	// Size returns the edge length of the quad.
	//
	// Returns:
	//   - float32: the size in world units
	Size() float32

	// MoveFactor returns the current distortion offset in [0, 1).
	//
	// Returns:
	//   - float32: the move factor
	MoveFactor() float32

	// Advance moves the distortion pattern by dt seconds and uploads the new offset to the shader.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Advance(dt float32)
}

var _ WaterComponent = &waterComponent{}

// NewWaterComponent creates a water quad centered on the owner.
//
// Parameters:
//   - ctx: the graphics context that uploads the quad
//   - sh: the water shader
//   - options: functional options; WithSize sets the edge length
//
// Returns:
//   - WaterComponent: the new component
//   - error: an error if the quad could not be uploaded
func NewWaterComponent(ctx renderer.Context, sh shader.WaterShader, options ...ComponentBuilderOption) (WaterComponent, error) {
	cfg := applyComponentOptions(options)
	size := cfg.size
	if size <= 0 {
		size = DefaultWaterSize
	}
	vertices, indices := waterQuad(size)
	mesh, err := ctx.NewMesh("water", vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("game_object: create water mesh: %w", err)
	}
	return &waterComponent{
		mu:     &sync.RWMutex{},
		mesh:   mesh,
		shader: sh,
		size:   size,
	}, nil
}

func waterQuad(size float32) ([]float32, []uint32) {
	h := size / 2
	vertices := []float32{
		-h, 0, -h, 0, 1, 0, 0, 0,
		h, 0, -h, 0, 1, 0, 1, 0,
		-h, 0, h, 0, 1, 0, 0, 1,
		h, 0, h, 0, 1, 0, 1, 1,
	}
	return vertices, []uint32{0, 2, 1, 1, 2, 3}
}

func (c *waterComponent) Type() ComponentType {
	return ComponentWater
}

func (c *waterComponent) Attach(owner GameObject) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owner = owner
}

func (c *waterComponent) Owner() GameObject {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.owner
}

// Update is a no-op: the move factor advances in the water pass, so a frame without a water pass
// does not animate.
func (c *waterComponent) Update(dt float32) {}

func (c *waterComponent) Advance(dt float32) {
	c.mu.Lock()
	c.moveFactor = math32.Mod(c.moveFactor+WaveSpeed*dt, 1)
	f := c.moveFactor
	c.mu.Unlock()
	if c.shader != nil {
		c.shader.SetMoveFactor(f)
	}
}

func (c *waterComponent) MoveFactor() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.moveFactor
}

func (c *waterComponent) Size() float32 {
	return c.size
}

func (c *waterComponent) Mesh() renderer.Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.disposed {
		return nil
	}
	return c.mesh
}

func (c *waterComponent) ModelMatrix() mgl32.Mat4 {
	return ownerTransform(c.Owner())
}

func (c *waterComponent) Tint() mgl32.Vec4 {
	return mgl32.Vec4{1, 1, 1, 1}
}

func (c *waterComponent) Shader() shader.Shader {
	return c.shader
}

func (c *waterComponent) WaterShader() shader.WaterShader {
	return c.shader
}

func (c *waterComponent) Bounds() (mgl32.Vec3, float32) {
	return c.ModelMatrix().Col(3).Vec3(), 0
}

func (c *waterComponent) Dispose() {
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
