// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Texture is the read-only view of a GPU color texture that render passes sample from.
// Offscreen framebuffers expose their color attachment through this interface.
type Texture interface {
	// Label returns the debug label of the texture.
	Label() string

	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int
}

// Color is a linear RGBA color used for clear values.
type Color struct {
	R, G, B, A float32
}

// ClearColor is the color offscreen capture buffers and the main target are cleared to.
var ClearColor = Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0}

// Coalesce picks the first argument that is not the zero value of T. Config defaults use it to
// fill unset fields.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for i := range values {
		if values[i] != zero {
			return values[i]
		}
	}
	return zero
}
