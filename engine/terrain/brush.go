package terrain

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultBrushRadius is the radius of a new brush in world units.
	DefaultBrushRadius float32 = 10

	// DefaultBrushStrength is the height a brush adds at its center per Draw.
	DefaultBrushStrength float32 = 0.2

	// MinBrushRadius is the smallest radius Scale can shrink a brush to.
	MinBrushRadius float32 = 0.5
)

// Brush edits terrain heights around a world-space position.
type Brush interface {
	// Name returns the display name.
	Name() string

	// Radius returns the radius of influence in world units.
	Radius() float32

	// Strength returns the height change at the center per Draw.
	Strength() float32

	// Scale multiplies the radius, never going below MinBrushRadius.
	//
	// Parameters:
	//   - factor: the scale factor
	Scale(factor float32)

	// Translation returns the world-space center.
	Translation() mgl32.Vec3

	// SetTranslation moves the brush.
	//
	// Parameters:
	//   - v: the world-space center
	SetTranslation(v mgl32.Vec3)

	// Draw raises or lowers every terrain vertex within the radius.
	//
	// Parameters:
	//   - terrains: the terrains to edit
	//   - raise: true to raise, false to lower
	//
	// Returns:
	//   - error: the first mesh rebuild error
	Draw(terrains []game_object.TerrainComponent, raise bool) error

	// Dispose releases the brush.
	Dispose()
}

type radialBrush struct {
	mu *sync.RWMutex

	name        string
	radius      float32
	strength    float32
	translation mgl32.Vec3
}

var _ Brush = &radialBrush{}

// NewRadialBrush creates a brush whose effect falls off linearly from its center to its radius.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - Brush: the new brush
func NewRadialBrush(options ...BrushBuilderOption) Brush {
	b := &radialBrush{
		mu:       &sync.RWMutex{},
		name:     "radial",
		radius:   DefaultBrushRadius,
		strength: DefaultBrushStrength,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

func (b *radialBrush) Name() string {
	return b.name
}

func (b *radialBrush) Radius() float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.radius
}

func (b *radialBrush) Strength() float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.strength
}

func (b *radialBrush) Scale(factor float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.radius = max(b.radius*factor, MinBrushRadius)
}

func (b *radialBrush) Translation() mgl32.Vec3 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.translation
}

func (b *radialBrush) SetTranslation(v mgl32.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.translation = v
}

func (b *radialBrush) Draw(terrains []game_object.TerrainComponent, raise bool) error {
	b.mu.RLock()
	center, radius, strength := b.translation, b.radius, b.strength
	b.mu.RUnlock()
	if !raise {
		strength = -strength
	}

	for _, t := range terrains {
		if c, r := t.Bounds(); xzDistance(c, center) > r+radius {
			continue
		}
		err := t.Modify(func(world mgl32.Vec3, h float32) float32 {
			d := xzDistance(world, center)
			if d >= radius {
				return h
			}
			return h + strength*(1-d/radius)
		})
		if err != nil {
			return fmt.Errorf("terrain: %s brush: %w", b.name, err)
		}
	}
	return nil
}

func (b *radialBrush) Dispose() {}

func xzDistance(a, b mgl32.Vec3) float32 {
	return mgl32.Vec2{a.X() - b.X(), a.Z() - b.Z()}.Len()
}
