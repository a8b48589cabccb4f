package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Ambient is the scene-wide base illumination independent of any light source.
type Ambient struct {
	Color     mgl32.Vec3
	Intensity float32
}

// DefaultAmbient is the ambient term of a freshly created editor scene.
var DefaultAmbient = Ambient{Color: mgl32.Vec3{1, 1, 1}, Intensity: 0.3}

type environment struct {
	mu *sync.RWMutex

	categories map[LightType][]Light
	ambient    Ambient
}

// Environment maps each light category to an ordered collection of lights and holds
// one ambient term. Insertion order is preserved per category; it decides which lights
// win the fixed shader slots when a category holds more lights than the shader supports.
type Environment interface {
	// Add appends a light to the category of its type. Adding the same light twice is a no-op.
	//
	// Parameters:
	//   - l: the light to add
	Add(l Light)

	// Remove deletes a light from its category.
	//
	// Parameters:
	//   - l: the light to remove
	//
	// Returns:
	//   - bool: true if the light was present
	Remove(l Light) bool

	// Lights returns a copy of the lights in a category, in insertion order.
	// An absent category yields an empty slice.
	//
	// Parameters:
	//   - t: the category to read
	//
	// Returns:
	//   - []Light: the lights of that category
	Lights(t LightType) []Light

	// Clear removes every light of a category.
	//
	// Parameters:
	//   - t: the category to clear
	Clear(t LightType)

	// Len returns the total number of lights across all categories.
	//
	// Returns:
	//   - int: the light count
	Len() int

	// Ambient returns the ambient term.
	//
	// Returns:
	//   - Ambient: ambient color and intensity
	Ambient() Ambient

	// SetAmbient replaces the ambient term.
	//
	// Parameters:
	//   - color: ambient RGB color
	//   - intensity: ambient intensity
	SetAmbient(color mgl32.Vec3, intensity float32)
}

var _ Environment = &environment{}

// NewEnvironment creates an empty environment with the default ambient term.
//
// Parameters:
//   - opts: functional options applied after defaults
//
// Returns:
//   - Environment: the new environment
func NewEnvironment(opts ...EnvironmentBuilderOption) Environment {
	e := &environment{
		mu:         &sync.RWMutex{},
		categories: make(map[LightType][]Light),
		ambient:    DefaultAmbient,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewDefaultEnvironment creates the environment a new editor scene starts with:
// the default ambient term and one white directional light pointing straight down.
//
// Returns:
//   - Environment: the default environment
func NewDefaultEnvironment() Environment {
	return NewEnvironment(WithLights(NewLight(LightTypeDirectional)))
}

func (e *environment) Add(l Light) {
	if l == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.categories[l.Type()] {
		if existing == l {
			return
		}
	}
	e.categories[l.Type()] = append(e.categories[l.Type()], l)
}

func (e *environment) Remove(l Light) bool {
	if l == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	lights := e.categories[l.Type()]
	for i, existing := range lights {
		if existing == l {
			e.categories[l.Type()] = append(lights[:i:i], lights[i+1:]...)
			return true
		}
	}
	return false
}

func (e *environment) Lights(t LightType) []Light {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Light, len(e.categories[t]))
	copy(out, e.categories[t])
	return out
}

func (e *environment) Clear(t LightType) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.categories, t)
}

func (e *environment) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	n := 0
	for _, lights := range e.categories {
		n += len(lights)
	}
	return n
}

func (e *environment) Ambient() Ambient {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ambient
}

func (e *environment) SetAmbient(color mgl32.Vec3, intensity float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ambient = Ambient{Color: color, Intensity: intensity}
}
