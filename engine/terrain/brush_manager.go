package terrain

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/game_object"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	raiseButton = common.MouseButtonLeft
	lowerButton = common.MouseButtonRight

	scrollShrink float32 = 0.9
	scrollGrow   float32 = 1.1
)

// TerrainSource returns the terrains brushes act on.
type TerrainSource func() []game_object.TerrainComponent

// BrushManager routes editor input to the active brush: the left button raises, the right button
// lowers, scrolling scales the brush and moving the mouse places it on the terrain under the
// cursor. Escape deactivates the brush. The input methods return whether the event was consumed.
type BrushManager interface {
	// AddBrush registers a brush.
	//
	// Parameters:
	//   - b: the brush
	AddBrush(b Brush)

	// Brushes returns the registered brushes in order.
	Brushes() []Brush

	// Activate makes b the active brush. It does not need to be registered.
	//
	// Parameters:
	//   - b: the brush
	Activate(b Brush)

	// Deactivate clears the active brush.
	Deactivate()

	// Active returns the active brush, or nil.
	Active() Brush

	// Act applies the active brush once for every held edit button.
	//
	// Returns:
	//   - error: the brush error
	Act() error

	// MouseDown records a pressed button.
	//
	// Parameters:
	//   - button: the button
	//
	// Returns:
	//   - bool: true if the event was consumed
	MouseDown(button common.MouseButton) bool

	// MouseUp records a released button.
	//
	// Parameters:
	//   - button: the button
	//
	// Returns:
	//   - bool: true if the event was consumed
	MouseUp(button common.MouseButton) bool

	// Scrolled scales the active brush down for negative deltas and up otherwise.
	//
	// Parameters:
	//   - delta: the scroll amount
	//
	// Returns:
	//   - bool: true if the event was consumed
	Scrolled(delta float32) bool

	// MouseMoved moves the active brush to the terrain point under the cursor.
	//
	// Parameters:
	//   - x, y: the cursor position in pixels
	//
	// Returns:
	//   - bool: true if the event was consumed
	MouseMoved(x, y int32) bool

	// KeyDown deactivates the brush on Escape.
	//
	// Parameters:
	//   - key: the key code
	//
	// Returns:
	//   - bool: true if the event was consumed
	KeyDown(key uint32) bool

	// Dispose disposes every registered brush.
	Dispose()
}

type brushManager struct {
	mu *sync.Mutex

	cam      camera.Camera
	terrains TerrainSource
	brushes  []Brush
	active   Brush
	pressed  map[common.MouseButton]bool
}

var _ BrushManager = &brushManager{}

// NewBrushManager creates a manager picking through cam on the terrains returned by terrains.
//
// Parameters:
//   - cam: the camera used for pick rays
//   - terrains: the terrain source, usually a scene graph's Terrains
//
// Returns:
//   - BrushManager: the new manager
func NewBrushManager(cam camera.Camera, terrains TerrainSource) BrushManager {
	return &brushManager{
		mu:       &sync.Mutex{},
		cam:      cam,
		terrains: terrains,
		pressed:  make(map[common.MouseButton]bool),
	}
}

func (m *brushManager) AddBrush(b Brush) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.brushes = append(m.brushes, b)
}

func (m *brushManager) Brushes() []Brush {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.brushes)
}

func (m *brushManager) Activate(b Brush) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = b
}

func (m *brushManager) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = nil
}

func (m *brushManager) Active() Brush {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *brushManager) Act() error {
	m.mu.Lock()
	b := m.active
	raise, lower := m.pressed[raiseButton], m.pressed[lowerButton]
	m.mu.Unlock()
	if b == nil || (!raise && !lower) {
		return nil
	}

	terrains := m.terrains()
	if raise {
		if err := b.Draw(terrains, true); err != nil {
			return err
		}
	}
	if lower {
		if err := b.Draw(terrains, false); err != nil {
			return err
		}
	}
	return nil
}

func (m *brushManager) MouseDown(button common.MouseButton) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed[button] = true
	return m.active != nil && (button == raiseButton || button == lowerButton)
}

func (m *brushManager) MouseUp(button common.MouseButton) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pressed, button)
	return false
}

func (m *brushManager) Scrolled(delta float32) bool {
	b := m.Active()
	if b == nil {
		return false
	}
	if delta < 0 {
		b.Scale(scrollShrink)
	} else {
		b.Scale(scrollGrow)
	}
	return true
}

func (m *brushManager) MouseMoved(x, y int32) bool {
	b := m.Active()
	if b == nil {
		return false
	}
	terrains := m.terrains()
	if len(terrains) == 0 {
		return false
	}

	ray := m.cam.PickRay(float32(x), float32(y))
	var (
		best  mgl32.Vec3
		found bool
		dist  float32
	)
	for _, t := range terrains {
		hit, ok := t.Intersect(ray)
		if !ok {
			continue
		}
		if d := hit.Sub(ray.Origin).Len(); !found || d < dist {
			best, dist, found = hit, d, true
		}
	}
	if found {
		b.SetTranslation(best)
	}
	return false
}

func (m *brushManager) KeyDown(key uint32) bool {
	if key != common.KeyEsc {
		return false
	}
	if m.Active() != nil {
		logger.Logger().Debug("terrain: brush deactivated")
	}
	m.Deactivate()
	return false
}

func (m *brushManager) Dispose() {
	m.mu.Lock()
	brushes := m.brushes
	m.brushes = nil
	m.active = nil
	m.mu.Unlock()
	for _, b := range brushes {
		b.Dispose()
	}
}
