package shader

import "github.com/Carmen-Shannon/oxy-editor/engine/renderer/pipeline"

// ShaderBuilderOption is a functional option applied to a shader strategy during construction.
type ShaderBuilderOption func(*baseShader)

// WithName overrides the shader name, which is also its pipeline key.
//
// Parameters:
//   - name: the unique shader name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the shader name
func WithName(name string) ShaderBuilderOption {
	return func(s *baseShader) {
		s.name = name
	}
}

// WithValidation makes Init compile the WGSL source with naga before registering uniforms.
//
// Parameters:
//   - validate: true to validate during Init
//
// Returns:
//   - ShaderBuilderOption: a function that sets the validation flag
func WithValidation(validate bool) ShaderBuilderOption {
	return func(s *baseShader) {
		s.validate = validate
	}
}

// WithPipeline replaces the default render state of the strategy.
//
// Parameters:
//   - p: the pipeline description to draw with
//
// Returns:
//   - ShaderBuilderOption: a function that sets the pipeline
func WithPipeline(p pipeline.Pipeline) ShaderBuilderOption {
	return func(s *baseShader) {
		s.pipeline = p
	}
}
