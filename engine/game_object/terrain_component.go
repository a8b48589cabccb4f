package game_object

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultTerrainResolution is the number of vertices along each terrain edge.
	DefaultTerrainResolution = 65

	// DefaultTerrainSize is the edge length of a terrain in world units.
	DefaultTerrainSize float32 = 100

	refineSteps = 16
)

type terrainComponent struct {
	mu *sync.RWMutex

	owner      GameObject
	mesh       renderer.Mesh
	shader     shader.Shader
	resolution int
	size       float32
	heights    []float32
	tint       mgl32.Vec4
	disposed   bool
}

// TerrainComponent is a square height field spanning [0, size] on the owner's local X and Z axes.
// Heights are edited through SetHeight or Modify and become visible after Rebuild.
type TerrainComponent interface {
	Drawable

	// Resolution returns the number of vertices along each edge.
	//
	// Returns:
	//   - int: vertices per edge
	Resolution() int

	// Size returns the edge length in local units.
	//
	// Returns:
	//   - float32: the size
	Size() float32

	// Height returns the height of a grid vertex. Out-of-range indices are clamped.
	//
	// Parameters:
	//   - ix: column index
	//   - iz: row index
	//
	// Returns:
	//   - float32: the local height
	Height(ix, iz int) float32

	// SetHeight sets the height of a grid vertex. Out-of-range indices are ignored.
	//
	// Parameters:
	//   - ix: column index
	//   - iz: row index
	//   - h: the local height
	SetHeight(ix, iz int, h float32)

	// HeightAt samples the height field at local coordinates with bilinear interpolation.
	//
	// Parameters:
	//   - x: local x
	//   - z: local z
	//
	// Returns:
	//   - float32: the interpolated height
	HeightAt(x, z float32) float32

	// VertexWorldPosition returns the world position of a grid vertex.
	//
	// Parameters:
	//   - ix: column index
	//   - iz: row index
	//
	// Returns:
	//   - mgl32.Vec3: the world position
	VertexWorldPosition(ix, iz int) mgl32.Vec3

	// Modify replaces every height with fn's result and rebuilds the mesh.
	//
	// Parameters:
	//   - fn: receives the vertex world position and current height, returns the new height
	//
	// Returns:
	//   - error: an error if the mesh could not be rebuilt
	Modify(fn func(world mgl32.Vec3, height float32) float32) error

	// Rebuild uploads the current heights to the mesh.
	//
	// Returns:
	//   - error: an error if the upload failed
	Rebuild() error

	// Intersect finds where a world-space ray first hits the height field.
	//
	// Parameters:
	//   - ray: the ray in world space
	//
	// Returns:
	//   - mgl32.Vec3: the world-space hit point
	//   - bool: false when the ray misses
	Intersect(ray common.Ray) (mgl32.Vec3, bool)
}

var _ TerrainComponent = &terrainComponent{}

// NewTerrainComponent creates a flat terrain and uploads its mesh.
//
// Parameters:
//   - ctx: the graphics context that uploads the mesh
//   - sh: the shader to draw with
//   - options: functional options; WithResolution, WithSize and WithTint apply
//
// Returns:
//   - TerrainComponent: the new component
//   - error: an error if the mesh could not be uploaded
func NewTerrainComponent(ctx renderer.Context, sh shader.Shader, options ...ComponentBuilderOption) (TerrainComponent, error) {
	cfg := applyComponentOptions(options)
	t := &terrainComponent{
		mu:         &sync.RWMutex{},
		shader:     sh,
		resolution: common.Coalesce(cfg.resolution, DefaultTerrainResolution),
		size:       common.Coalesce(cfg.size, DefaultTerrainSize),
		tint:       mgl32.Vec4{1, 1, 1, 1},
	}
	if cfg.tint != nil {
		t.tint = *cfg.tint
	}
	t.heights = make([]float32, t.resolution*t.resolution)

	vertices, indices := t.buildMesh()
	mesh, err := ctx.NewMesh("terrain", vertices, indices)
	if err != nil {
		return nil, fmt.Errorf("game_object: create terrain mesh: %w", err)
	}
	t.mesh = mesh
	return t, nil
}

func (t *terrainComponent) Type() ComponentType {
	return ComponentTerrain
}

func (t *terrainComponent) Attach(owner GameObject) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.owner = owner
}

func (t *terrainComponent) Owner() GameObject {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.owner
}

func (t *terrainComponent) Update(dt float32) {}

func (t *terrainComponent) Resolution() int {
	return t.resolution
}

func (t *terrainComponent) Size() float32 {
	return t.size
}

func (t *terrainComponent) step() float32 {
	return t.size / float32(t.resolution-1)
}

func (t *terrainComponent) clampIndex(i int) int {
	return min(max(i, 0), t.resolution-1)
}

func (t *terrainComponent) Height(ix, iz int) float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.heightLocked(ix, iz)
}

func (t *terrainComponent) heightLocked(ix, iz int) float32 {
	return t.heights[t.clampIndex(iz)*t.resolution+t.clampIndex(ix)]
}

func (t *terrainComponent) SetHeight(ix, iz int, h float32) {
	if ix < 0 || iz < 0 || ix >= t.resolution || iz >= t.resolution {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.heights[iz*t.resolution+ix] = h
}

func (t *terrainComponent) HeightAt(x, z float32) float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.heightAtLocked(x, z)
}

func (t *terrainComponent) heightAtLocked(x, z float32) float32 {
	last := float32(t.resolution - 1)
	gx := min(max(x/t.step(), 0), last)
	gz := min(max(z/t.step(), 0), last)
	ix, iz := int(gx), int(gz)
	fx, fz := gx-float32(ix), gz-float32(iz)

	h00 := t.heightLocked(ix, iz)
	h10 := t.heightLocked(ix+1, iz)
	h01 := t.heightLocked(ix, iz+1)
	h11 := t.heightLocked(ix+1, iz+1)
	top := h00 + (h10-h00)*fx
	bottom := h01 + (h11-h01)*fx
	return top + (bottom-top)*fz
}

func (t *terrainComponent) VertexWorldPosition(ix, iz int) mgl32.Vec3 {
	world := t.ModelMatrix()
	local := mgl32.Vec3{float32(t.clampIndex(ix)) * t.step(), t.Height(ix, iz), float32(t.clampIndex(iz)) * t.step()}
	return mgl32.TransformCoordinate(local, world)
}

func (t *terrainComponent) Modify(fn func(world mgl32.Vec3, height float32) float32) error {
	world := t.ModelMatrix()
	step := t.step()
	t.mu.Lock()
	for iz := 0; iz < t.resolution; iz++ {
		for ix := 0; ix < t.resolution; ix++ {
			i := iz*t.resolution + ix
			p := mgl32.TransformCoordinate(mgl32.Vec3{float32(ix) * step, t.heights[i], float32(iz) * step}, world)
			t.heights[i] = fn(p, t.heights[i])
		}
	}
	t.mu.Unlock()
	return t.Rebuild()
}

func (t *terrainComponent) Rebuild() error {
	t.mu.RLock()
	if t.disposed {
		t.mu.RUnlock()
		return nil
	}
	vertices, indices := t.buildMesh()
	mesh := t.mesh
	t.mu.RUnlock()
	if err := mesh.Update(vertices, indices); err != nil {
		return fmt.Errorf("game_object: rebuild terrain: %w", err)
	}
	return nil
}

// buildMesh must be called with t.mu held.
func (t *terrainComponent) buildMesh() ([]float32, []uint32) {
	n := t.resolution
	step := t.step()
	uvStep := 1 / float32(n-1)
	vertices := make([]float32, 0, n*n*renderer.VertexStride)
	for iz := 0; iz < n; iz++ {
		for ix := 0; ix < n; ix++ {
			hl := t.heightLocked(ix-1, iz)
			hr := t.heightLocked(ix+1, iz)
			hd := t.heightLocked(ix, iz-1)
			hu := t.heightLocked(ix, iz+1)
			normal := common.SafeNormalize(mgl32.Vec3{hl - hr, 2 * step, hd - hu})
			vertices = append(vertices,
				float32(ix)*step, t.heightLocked(ix, iz), float32(iz)*step,
				normal[0], normal[1], normal[2],
				float32(ix)*uvStep, float32(iz)*uvStep,
			)
		}
	}

	indices := make([]uint32, 0, (n-1)*(n-1)*6)
	for iz := 0; iz < n-1; iz++ {
		for ix := 0; ix < n-1; ix++ {
			a := uint32(iz*n + ix)
			b := a + 1
			c := a + uint32(n)
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return vertices, indices
}

// heightRange must be called with t.mu held.
func (t *terrainComponent) heightRange() (float32, float32) {
	lo, hi := t.heights[0], t.heights[0]
	for _, h := range t.heights[1:] {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	return lo, hi
}

func (t *terrainComponent) Intersect(ray common.Ray) (mgl32.Vec3, bool) {
	world := t.ModelMatrix()
	inv := world.Inv()
	if inv == (mgl32.Mat4{}) {
		return mgl32.Vec3{}, false
	}
	origin := mgl32.TransformCoordinate(ray.Origin, inv)
	dir := mgl32.TransformNormal(ray.Direction, inv)
	if dir.Len() == 0 {
		return mgl32.Vec3{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	lo, hi := t.heightRange()
	const pad = 1e-3
	tEnter, tExit, ok := slab(origin, dir, mgl32.Vec3{0, lo - pad, 0}, mgl32.Vec3{t.size, hi + pad, t.size})
	if !ok {
		return mgl32.Vec3{}, false
	}
	tEnter = max(tEnter, 0)

	above := func(s float32) bool {
		p := origin.Add(dir.Mul(s))
		return p.Y() > t.heightAtLocked(p.X(), p.Z())
	}
	if !above(tEnter) {
		return mgl32.Vec3{}, false
	}

	dt := (t.step() / 2) / dir.Len()
	prev := tEnter
	for s := tEnter + dt; ; s += dt {
		s = min(s, tExit)
		if !above(s) {
			lower, upper := prev, s
			for range refineSteps {
				mid := (lower + upper) / 2
				if above(mid) {
					lower = mid
				} else {
					upper = mid
				}
			}
			return mgl32.TransformCoordinate(origin.Add(dir.Mul(upper)), world), true
		}
		if s >= tExit {
			return mgl32.Vec3{}, false
		}
		prev = s
	}
}

// slab intersects a ray with an axis-aligned box and returns the entry and exit parameters.
func slab(origin, dir, lo, hi mgl32.Vec3) (float32, float32, bool) {
	tMin, tMax := math32.Inf(-1), math32.Inf(1)
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, 0, false
			}
			continue
		}
		t0 := (lo[i] - origin[i]) / dir[i]
		t1 := (hi[i] - origin[i]) / dir[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = max(tMin, t0)
		tMax = min(tMax, t1)
	}
	if tMax < max(tMin, 0) {
		return 0, 0, false
	}
	return tMin, tMax, true
}

func (t *terrainComponent) Mesh() renderer.Mesh {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.disposed {
		return nil
	}
	return t.mesh
}

func (t *terrainComponent) ModelMatrix() mgl32.Mat4 {
	return ownerTransform(t.Owner())
}

func (t *terrainComponent) Tint() mgl32.Vec4 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tint
}

func (t *terrainComponent) Shader() shader.Shader {
	return t.shader
}

func (t *terrainComponent) Bounds() (mgl32.Vec3, float32) {
	world := t.ModelMatrix()
	t.mu.RLock()
	lo, hi := t.heightRange()
	t.mu.RUnlock()
	half := mgl32.Vec3{t.size / 2, (hi - lo) / 2, t.size / 2}
	center := mgl32.TransformCoordinate(mgl32.Vec3{half.X(), (hi + lo) / 2, half.Z()}, world)
	return center, half.Len() * maxScale(world)
}

func (t *terrainComponent) Dispose() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disposed {
		return
	}
	t.disposed = true
	if t.mesh != nil {
		t.mesh.Dispose()
	}
}
