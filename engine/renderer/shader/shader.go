package shader

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-editor/common"
	"github.com/Carmen-Shannon/oxy-editor/engine/camera"
	"github.com/Carmen-Shannon/oxy-editor/engine/light"
	"github.com/Carmen-Shannon/oxy-editor/engine/renderer/pipeline"
	"github.com/gogpu/naga"
)

// lightsSource is the light uniform block and shading functions shared by lit shaders.
//
//go:embed assets/lights.wgsl
var lightsSource string

//go:embed assets/lit.wgsl
var litSource string

//go:embed assets/water.wgsl
var waterSource string

// Kind identifies which shader strategy draws a renderable.
type Kind int

const (
	// KindLit is the clipped, lit forward shader used by models and terrain.
	KindLit Kind = iota

	// KindWater is the water composite shader that samples the capture textures.
	KindWater
)

// String returns the name of the shader kind.
func (k Kind) String() string {
	switch k {
	case KindLit:
		return "lit"
	case KindWater:
		return "water"
	default:
		return "unknown"
	}
}

// Shader is a shader strategy: WGSL source, its uniform program and the render state it is
// drawn with. Optional behavior is exposed through the capability interfaces
// (ClippingCapability, LightingCapability, WaterCapability) which the batch discovers with
// type assertions when it activates the shader.
type Shader interface {
	// Name returns the unique name of the shader, also used as its pipeline key.
	//
	// Returns:
	//   - string: the shader name
	Name() string

	// Kind returns the strategy kind.
	//
	// Returns:
	//   - Kind: the shader kind
	Kind() Kind

	// Source returns the complete WGSL source, including the shared light block.
	//
	// Returns:
	//   - string: the WGSL source
	Source() string

	// Program returns the shader's uniform program.
	//
	// Returns:
	//   - Program: the uniform program
	Program() Program

	// Pipeline returns the render state description for this shader.
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline description
	Pipeline() pipeline.Pipeline

	// Init registers every uniform location, including the indexed light array names.
	// When validation is enabled the WGSL source is also compiled with naga. Calling Init
	// again after success is a no-op.
	//
	// Returns:
	//   - error: a validation error, if any
	Init() error

	// Initialized reports whether Init has completed.
	//
	// Returns:
	//   - bool: true after a successful Init
	Initialized() bool

	// Begin activates the shader for a pass and writes the camera uniforms.
	//
	// Parameters:
	//   - cam: the camera the pass renders with
	Begin(cam camera.Camera)

	// End deactivates the shader.
	End()

	// Active reports whether the shader is between Begin and End.
	//
	// Returns:
	//   - bool: true while active
	Active() bool

	// Textures returns the textures sampled by the current activation, in binding order.
	//
	// Returns:
	//   - []common.Texture: the sampled textures, nil for shaders that sample none
	Textures() []common.Texture

	// Release frees the GPU pipelines compiled for this shader.
	Release()
}

// Validate compiles WGSL source with naga and reports the first compile error.
//
// Parameters:
//   - name: the shader name used in the error message
//   - source: the WGSL source
//
// Returns:
//   - error: nil if the source compiles
func Validate(name, source string) error {
	if _, err := naga.Compile(source); err != nil {
		return fmt.Errorf("shader %q failed to compile: %w", name, err)
	}
	return nil
}

// baseShader holds the state every shader strategy shares: camera uniforms, the light
// aggregator and activation tracking.
type baseShader struct {
	mu *sync.Mutex

	name     string
	kind     Kind
	source   string
	program  Program
	pipeline pipeline.Pipeline
	validate bool

	initialized bool
	active      bool

	projView       Location
	cameraPosition Location
	lights         *LightAggregator
}

func newBaseShader(name string, kind Kind, source string) *baseShader {
	return &baseShader{
		mu:             &sync.Mutex{},
		name:           name,
		kind:           kind,
		source:         lightsSource + "\n" + source,
		program:        NewProgram(),
		projView:       InvalidLocation,
		cameraPosition: InvalidLocation,
		lights:         NewLightAggregator(),
	}
}

func (s *baseShader) Name() string {
	return s.name
}

func (s *baseShader) Kind() Kind {
	return s.kind
}

func (s *baseShader) Source() string {
	return s.source
}

func (s *baseShader) Program() Program {
	return s.program
}

func (s *baseShader) Pipeline() pipeline.Pipeline {
	return s.pipeline
}

func (s *baseShader) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *baseShader) Begin(cam camera.Camera) {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
	if cam == nil {
		return
	}
	s.program.SetMat4(s.projView, cam.ViewProjectionMatrix())
	s.program.SetVec3(s.cameraPosition, cam.Position())
}

func (s *baseShader) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

func (s *baseShader) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *baseShader) Textures() []common.Texture {
	return nil
}

func (s *baseShader) Release() {
	if s.pipeline != nil {
		s.pipeline.Release()
	}
}

// Lights returns the aggregator that binds the environment into this shader.
func (s *baseShader) Lights() *LightAggregator {
	return s.lights
}

// SetLights binds the environment through the shader's light aggregator.
func (s *baseShader) SetLights(env light.Environment) {
	s.lights.SetLights(env)
}

// init runs the shared registration steps around the strategy-specific registrations.
// The order is camera uniforms, then register, then the light block; it must match the
// Uniforms struct of the WGSL source.
func (s *baseShader) init(register func(p Program)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	if s.validate {
		if err := Validate(s.name, s.source); err != nil {
			return err
		}
	}
	s.projView = s.program.Register("u_projViewTrans", UniformMat4)
	s.cameraPosition = s.program.Register("u_cameraPosition", UniformVec3)
	if register != nil {
		register(s.program)
	}
	s.lights.Init(s.program)
	s.initialized = true
	return nil
}
