package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/shader"
)

// ErrCaptureNotReady is returned when capturing before EnsureReady succeeded.
var ErrCaptureNotReady = errors.New("scene: capture buffers not allocated")

const (
	reflectionLabel = "reflection"
	refractionLabel = "refraction"
)

// PassFunc renders one clipped pass into the bound target.
type PassFunc func(plane shader.ClippingPlane) error

type captureManager struct {
	mu *sync.Mutex

	ctx        renderer.Context
	clear      common.Color
	reflection renderer.FrameBuffer
	refraction renderer.FrameBuffer
	size       int
}

// CaptureManager owns the reflection and refraction render targets of a scene. Both targets exist
// or neither does, and they always share one size.
type CaptureManager interface {
	// EnsureReady allocates both targets at the resolution's size. Existing targets of another size
	// are released first; targets of the same size are kept.
	//
	// Parameters:
	//   - res: the resolution preset
	//
	// Returns:
	//   - error: the allocation error; no target is left allocated on failure
	EnsureReady(res WaterResolution) error

	// Ready reports whether both targets are allocated.
	Ready() bool

	// Size returns the edge length of the targets, or 0 when not ready.
	Size() int

	// Reflection returns the reflection color texture, or nil when not ready.
	Reflection() common.Texture

	// Refraction returns the refraction color texture, or nil when not ready.
	Refraction() common.Texture

	// CaptureReflection mirrors the camera below the water plane, renders the pass above the
	// water into the reflection target and restores the camera, also when render fails.
	//
	// Parameters:
	//   - cam: the scene camera
	//   - waterHeight: world-space height of the water surface
	//   - render: draws the clipped scene
	//
	// Returns:
	//   - error: ErrCaptureNotReady, a binding error or the render error
	CaptureReflection(cam camera.Camera, waterHeight float32, render PassFunc) error

	// CaptureRefraction renders the pass below the water into the refraction target.
	//
	// Parameters:
	//   - cam: the scene camera
	//   - waterHeight: world-space height of the water surface
	//   - render: draws the clipped scene
	//
	// Returns:
	//   - error: ErrCaptureNotReady, a binding error or the render error
	CaptureRefraction(cam camera.Camera, waterHeight float32, render PassFunc) error

	// Release frees both targets. Calling it again is a no-op.
	Release()
}

var _ CaptureManager = &captureManager{}

// NewCaptureManager creates a manager without targets. Nothing is allocated until EnsureReady.
//
// Parameters:
//   - ctx: the graphics context that owns the targets
//   - clear: the color both targets are cleared to before a capture
//
// Returns:
//   - CaptureManager: the new manager
func NewCaptureManager(ctx renderer.Context, clear common.Color) CaptureManager {
	return &captureManager{
		mu:    &sync.Mutex{},
		ctx:   ctx,
		clear: clear,
	}
}

func (m *captureManager) EnsureReady(res WaterResolution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	size := res.Size()
	if m.reflection != nil && m.size == size {
		return nil
	}
	m.releaseLocked()

	reflection, err := m.ctx.NewFrameBuffer(reflectionLabel, size, size)
	if err != nil {
		return fmt.Errorf("scene: allocate %s buffer: %w", reflectionLabel, err)
	}
	refraction, err := m.ctx.NewFrameBuffer(refractionLabel, size, size)
	if err != nil {
		reflection.Dispose()
		return fmt.Errorf("scene: allocate %s buffer: %w", refractionLabel, err)
	}
	m.reflection = reflection
	m.refraction = refraction
	m.size = size
	logger.Logger().Debug("scene: capture buffers allocated", "size", size)
	return nil
}

func (m *captureManager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reflection != nil
}

func (m *captureManager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

func (m *captureManager) Reflection() common.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reflection == nil {
		return nil
	}
	return m.reflection.ColorTexture()
}

func (m *captureManager) Refraction() common.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.refraction == nil {
		return nil
	}
	return m.refraction.ColorTexture()
}

func (m *captureManager) CaptureReflection(cam camera.Camera, waterHeight float32, render PassFunc) error {
	target := m.target(reflectionLabel)
	if target == nil {
		return ErrCaptureNotReady
	}

	saved := cam.Snapshot()
	defer cam.Restore(saved)

	distance := 2 * (saved.Position.Y() - waterHeight)
	dir := saved.Direction
	dir[1] = -dir[1]
	pos := saved.Position
	pos[1] -= distance
	cam.SetDirection(dir)
	cam.SetPosition(pos)
	cam.Update()

	return m.capture(target, shader.ReflectionPlane(waterHeight), render)
}

func (m *captureManager) CaptureRefraction(cam camera.Camera, waterHeight float32, render PassFunc) error {
	target := m.target(refractionLabel)
	if target == nil {
		return ErrCaptureNotReady
	}
	return m.capture(target, shader.RefractionPlane(waterHeight), render)
}

func (m *captureManager) capture(target renderer.FrameBuffer, plane shader.ClippingPlane, render PassFunc) (err error) {
	if err := target.Begin(); err != nil {
		return fmt.Errorf("scene: bind %s buffer: %w", target.Label(), err)
	}
	defer func() {
		if endErr := target.End(); endErr != nil && err == nil {
			err = fmt.Errorf("scene: unbind %s buffer: %w", target.Label(), endErr)
		}
	}()

	m.ctx.Clear(m.clear)
	if err := render(plane); err != nil {
		return fmt.Errorf("scene: %s pass: %w", target.Label(), err)
	}
	return nil
}

func (m *captureManager) target(label string) renderer.FrameBuffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if label == reflectionLabel {
		return m.reflection
	}
	return m.refraction
}

func (m *captureManager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked()
}

func (m *captureManager) releaseLocked() {
	if m.reflection != nil {
		m.reflection.Dispose()
	}
	if m.refraction != nil {
		m.refraction.Dispose()
	}
	m.reflection = nil
	m.refraction = nil
	m.size = 0
}
