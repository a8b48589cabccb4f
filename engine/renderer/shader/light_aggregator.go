package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/Carmen-Shannon/oxy-editor/engine/logger"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxPointLights is the capacity of the point light uniform array.
	MaxPointLights = 8

	// MaxSpotLights is the capacity of the spot light uniform array.
	MaxSpotLights = 8
)

type directionalSlot struct {
	color            Location
	ambientColor     Location
	direction        Location
	diffuseIntensity Location
	ambientIntensity Location
}

type attenuationSlot struct {
	constant Location
	linear   Location
	exp      Location
}

type pointLightSlot struct {
	color            Location
	diffuseIntensity Location
	position         Location
	atten            attenuationSlot
}

type spotLightSlot struct {
	pointLightSlot
	direction Location
	cutoff    Location
}

// LightAggregator binds an environment's lights into a shader program's fixed-capacity
// light slots. Locations are resolved once in Init; SetLights only writes values.
//
// Only the first enabled directional light is bound. Point and spot lights are bound in
// insertion order up to MaxPointLights and MaxSpotLights; the rest are dropped without
// error and counted in Dropped.
type LightAggregator struct {
	program Program

	directional    directionalSlot
	numPointLights Location
	numSpotLights  Location
	points         [MaxPointLights]pointLightSlot
	spots          [MaxSpotLights]spotLightSlot

	dropped int
}

// NewLightAggregator creates an aggregator that is not yet bound to a program.
//
// Returns:
//   - *LightAggregator: the aggregator; call Init before SetLights
func NewLightAggregator() *LightAggregator {
	return &LightAggregator{}
}

// Init registers every light uniform in the program, including one name per array index.
// The registration order is the memory layout the WGSL light block expects.
//
// Parameters:
//   - p: the program to register into
func (a *LightAggregator) Init(p Program) {
	a.program = p

	a.directional = directionalSlot{
		color:            p.Register("gDirectionalLight.Base.Color", UniformVec3),
		ambientColor:     p.Register("gDirectionalLight.Base.AmbientColor", UniformVec3),
		direction:        p.Register("gDirectionalLight.Direction", UniformVec3),
		diffuseIntensity: p.Register("gDirectionalLight.Base.DiffuseIntensity", UniformFloat),
		ambientIntensity: p.Register("gDirectionalLight.Base.AmbientIntensity", UniformFloat),
	}
	a.numPointLights = p.Register("gNumPointLights", UniformInt)
	a.numSpotLights = p.Register("gNumSpotLights", UniformInt)

	for i := range a.points {
		prefix := fmt.Sprintf("gPointLights[%d]", i)
		a.points[i] = registerPointSlot(p, prefix+".Base", prefix)
	}
	for i := range a.spots {
		prefix := fmt.Sprintf("gSpotLights[%d]", i)
		a.spots[i] = spotLightSlot{
			pointLightSlot: registerPointSlot(p, prefix+".Base.Base", prefix+".Base"),
			direction:      p.Register(prefix+".Direction", UniformVec3),
			cutoff:         p.Register(prefix+".Cutoff", UniformFloat),
		}
	}
}

// registerPointSlot registers the point-light portion of a slot. base names the struct that
// holds color and intensity, pos names the struct that holds the position and attenuation.
func registerPointSlot(p Program, base, pos string) pointLightSlot {
	return pointLightSlot{
		color:            p.Register(base+".Color", UniformVec3),
		diffuseIntensity: p.Register(base+".DiffuseIntensity", UniformFloat),
		position:         p.Register(pos+".LocalPos", UniformVec3),
		atten: attenuationSlot{
			constant: p.Register(pos+".Atten.Constant", UniformFloat),
			linear:   p.Register(pos+".Atten.Linear", UniformFloat),
			exp:      p.Register(pos+".Atten.Exp", UniformFloat),
		},
	}
}

// SetLights writes the environment into the program. Categories without lights get a count
// of zero. The directional slot is zeroed when the environment has no enabled directional
// light, while the ambient term is always written. A nil environment zeroes the ambient term too.
//
// Parameters:
//   - env: the environment to bind; nil binds no lights
func (a *LightAggregator) SetLights(env light.Environment) {
	if a.program == nil {
		return
	}
	p := a.program
	a.dropped = 0

	a.clearDirectional()
	if env == nil {
		p.SetVec3(a.directional.ambientColor, mgl32.Vec3{})
		p.Set1f(a.directional.ambientIntensity, 0)
		p.Set1i(a.numPointLights, 0)
		p.Set1i(a.numSpotLights, 0)
		return
	}

	ambient := env.Ambient()
	p.SetVec3(a.directional.ambientColor, ambient.Color)
	p.Set1f(a.directional.ambientIntensity, ambient.Intensity)
	for _, l := range env.Lights(light.LightTypeDirectional) {
		if !l.Enabled() {
			continue
		}
		p.SetVec3(a.directional.color, l.Color())
		p.SetVec3(a.directional.direction, l.Direction())
		p.Set1f(a.directional.diffuseIntensity, l.Intensity())
		break
	}

	n := 0
	for _, l := range env.Lights(light.LightTypePoint) {
		if !l.Enabled() {
			continue
		}
		if n == MaxPointLights {
			a.dropped++
			continue
		}
		a.writePoint(a.points[n], l)
		n++
	}
	p.Set1i(a.numPointLights, int32(n))

	n = 0
	for _, l := range env.Lights(light.LightTypeSpot) {
		if !l.Enabled() {
			continue
		}
		if n == MaxSpotLights {
			a.dropped++
			continue
		}
		slot := a.spots[n]
		a.writePoint(slot.pointLightSlot, l)
		p.SetVec3(slot.direction, l.Direction())
		p.Set1f(slot.cutoff, common.CosDeg(l.Cutoff()))
		n++
	}
	p.Set1i(a.numSpotLights, int32(n))

	if a.dropped > 0 {
		logger.Logger().Debug("shader: lights over capacity ignored", "dropped", a.dropped)
	}
}

// Dropped returns how many enabled lights the last SetLights call could not bind.
//
// Returns:
//   - int: the number of dropped point and spot lights
func (a *LightAggregator) Dropped() int {
	return a.dropped
}

func (a *LightAggregator) clearDirectional() {
	a.program.SetVec3(a.directional.color, mgl32.Vec3{})
	a.program.SetVec3(a.directional.direction, mgl32.Vec3{})
	a.program.Set1f(a.directional.diffuseIntensity, 0)
}

func (a *LightAggregator) writePoint(slot pointLightSlot, l light.Light) {
	p := a.program
	att := l.Attenuation()
	p.SetVec3(slot.color, l.Color())
	p.Set1f(slot.diffuseIntensity, l.Intensity())
	p.SetVec3(slot.position, l.Position())
	p.Set1f(slot.atten.constant, att.Constant)
	p.Set1f(slot.atten.linear, att.Linear)
	p.Set1f(slot.atten.exp, att.Exponential)
}
