package light

import (
	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun. Only the first enabled directional
	// light in an environment contributes to shading.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position
	// and falls off with distance according to its attenuation.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// Fragments outside the cutoff angle receive no contribution.
	LightTypeSpot
)

// String returns the category name of the light type.
func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypePoint:
		return "point"
	case LightTypeSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Attenuation holds the falloff coefficients of a point or spot light.
// Intensity at distance d is scaled by 1 / (Constant + Linear*d + Exponential*d*d).
type Attenuation struct {
	Constant    float32
	Linear      float32
	Exponential float32
}

// DefaultAttenuation is a light that does not fall off with distance.
var DefaultAttenuation = Attenuation{Constant: 1}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType   LightType
	position    mgl32.Vec3
	direction   mgl32.Vec3
	color       mgl32.Vec3
	intensity   float32
	attenuation Attenuation
	cutoff      float32 // degrees
	enabled     bool
}

// Light defines the interface for a light source in the scene environment.
//
// All light types share this interface; type-specific properties (position for
// directional lights, cutoff for point lights) are stored but ignored by the shaders
// when not applicable.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - mgl32.Vec3: position as (x, y, z)
	Position() mgl32.Vec3

	// Direction returns the normalized direction of the light.
	// For directional lights this is the light direction. For spot lights this
	// is the cone axis. Meaningless for point lights.
	//
	// Returns:
	//   - mgl32.Vec3: normalized direction as (x, y, z)
	Direction() mgl32.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - mgl32.Vec3: color as (r, g, b)
	Color() mgl32.Vec3

	// Intensity returns the scalar diffuse intensity of the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Attenuation returns the distance falloff coefficients for point and spot lights.
	//
	// Returns:
	//   - Attenuation: constant, linear and exponential coefficients
	Attenuation() Attenuation

	// Cutoff returns the spot cone half-angle in degrees.
	//
	// Returns:
	//   - float32: the cutoff angle in degrees
	Cutoff() float32

	// Enabled returns whether this light takes part in shading.
	// Disabled lights are skipped by the uniform binding and do not occupy a slot.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetPosition sets the world-space position.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the light direction. The vector is normalized before storage.
	//
	// Parameters:
	//   - x, y, z: direction components
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the diffuse intensity.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)

	// SetAttenuation sets the distance falloff coefficients.
	//
	// Parameters:
	//   - a: the new attenuation
	SetAttenuation(a Attenuation)

	// SetCutoff sets the spot cone half-angle in degrees.
	//
	// Parameters:
	//   - deg: the cutoff angle in degrees
	SetCutoff(deg float32)

	// SetEnabled toggles whether the light takes part in shading.
	//
	// Parameters:
	//   - enabled: true to enable the light
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a light of the given type with defaults suited to that type.
// Directional lights point straight down, spot lights get a 30 degree cutoff, and
// every light starts white, enabled, at intensity 1 with no distance falloff.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: functional options applied after defaults
//
// Returns:
//   - Light: the new light
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:   lightType,
		color:       mgl32.Vec3{1, 1, 1},
		intensity:   1,
		attenuation: DefaultAttenuation,
		enabled:     true,
	}
	switch lightType {
	case LightTypeDirectional:
		l.direction = mgl32.Vec3{0, -1, 0}
	case LightTypeSpot:
		l.direction = mgl32.Vec3{0, -1, 0}
		l.cutoff = 30
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	return l.direction
}

func (l *lightImpl) Color() mgl32.Vec3 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Attenuation() Attenuation {
	return l.attenuation
}

func (l *lightImpl) Cutoff() float32 {
	return l.cutoff
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = mgl32.Vec3{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = common.SafeNormalize(mgl32.Vec3{x, y, z})
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = mgl32.Vec3{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetAttenuation(a Attenuation) {
	l.attenuation = a
}

func (l *lightImpl) SetCutoff(deg float32) {
	l.cutoff = deg
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
