package shader

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Location identifies a registered uniform inside a Program.
type Location int

// InvalidLocation is returned for names that were never registered. Setting a value
// at InvalidLocation is a no-op.
const InvalidLocation Location = -1

// UniformKind is the value type stored at a uniform location.
type UniformKind int

const (
	UniformFloat UniformKind = iota
	UniformInt
	UniformVec3
	UniformVec4
	UniformMat4
)

// slotFloats is the number of 32-bit words in one uniform slot (16 bytes).
const slotFloats = 4

// slots returns how many 16-byte slots a uniform of this kind occupies.
func (k UniformKind) slots() int {
	if k == UniformMat4 {
		return 4
	}
	return 1
}

type uniform struct {
	name string
	kind UniformKind
	slot int
}

type program struct {
	mu *sync.Mutex

	names    map[string]Location
	uniforms []uniform
	words    []uint32
	version  uint64
}

// Program is the uniform state of one shader. Uniforms are registered by name once, in a
// fixed order that mirrors the WGSL uniform struct; after that, values are written and read
// through the returned Location without any name lookup.
//
// Each uniform occupies one 16-byte slot (a mat4 occupies four), so scalars live in the x
// component of a vec4 on the GPU side.
type Program interface {
	// Register adds a named uniform and returns its location. Registering an existing name
	// returns the existing location.
	//
	// Parameters:
	//   - name: the uniform name, e.g. "gPointLights[0].Base.Color"
	//   - kind: the value type
	//
	// Returns:
	//   - Location: the uniform's location
	Register(name string, kind UniformKind) Location

	// Lookup finds the location of a registered uniform.
	//
	// Parameters:
	//   - name: the uniform name
	//
	// Returns:
	//   - Location: the location, or InvalidLocation
	//   - bool: true if the name is registered
	Lookup(name string) (Location, bool)

	// Set1f writes a float uniform.
	Set1f(loc Location, v float32)

	// Set1i writes an int uniform.
	Set1i(loc Location, v int32)

	// SetVec3 writes a vec3 uniform. The fourth component is zeroed.
	SetVec3(loc Location, v mgl32.Vec3)

	// SetVec4 writes a vec4 uniform.
	SetVec4(loc Location, v mgl32.Vec4)

	// SetMat4 writes a column-major mat4 uniform.
	SetMat4(loc Location, m mgl32.Mat4)

	// Float reads a float uniform.
	Float(loc Location) float32

	// Int reads an int uniform.
	Int(loc Location) int32

	// Vec3 reads a vec3 uniform.
	Vec3(loc Location) mgl32.Vec3

	// Vec4 reads a vec4 uniform.
	Vec4(loc Location) mgl32.Vec4

	// Mat4 reads a mat4 uniform.
	Mat4(loc Location) mgl32.Mat4

	// Names returns the registered uniform names in registration order.
	//
	// Returns:
	//   - []string: the uniform names
	Names() []string

	// Size returns the byte size of the packed uniform block.
	//
	// Returns:
	//   - int: size in bytes, always a multiple of 16
	Size() int

	// Bytes returns a little-endian copy of the packed uniform block for GPU upload.
	//
	// Returns:
	//   - []byte: the uniform block
	Bytes() []byte

	// Version returns a counter that increases on every write. GPU backends compare it
	// against the last uploaded version to skip redundant uploads.
	//
	// Returns:
	//   - uint64: the write counter
	Version() uint64
}

var _ Program = &program{}

// NewProgram creates an empty uniform program.
//
// Returns:
//   - Program: the new program
func NewProgram() Program {
	return &program{
		mu:    &sync.Mutex{},
		names: make(map[string]Location),
	}
}

func (p *program) Register(name string, kind UniformKind) Location {
	p.mu.Lock()
	defer p.mu.Unlock()
	if loc, ok := p.names[name]; ok {
		return loc
	}
	slot := len(p.words) / slotFloats
	loc := Location(len(p.uniforms))
	p.uniforms = append(p.uniforms, uniform{name: name, kind: kind, slot: slot})
	p.words = append(p.words, make([]uint32, kind.slots()*slotFloats)...)
	p.names[name] = loc
	return loc
}

func (p *program) Lookup(name string) (Location, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	loc, ok := p.names[name]
	if !ok {
		return InvalidLocation, false
	}
	return loc, true
}

func (p *program) Set1f(loc Location, v float32) {
	p.write(loc, v)
}

func (p *program) Set1i(loc Location, v int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	off, ok := p.offset(loc)
	if !ok {
		return
	}
	p.words[off] = uint32(v)
	p.version++
}

func (p *program) SetVec3(loc Location, v mgl32.Vec3) {
	p.write(loc, v[0], v[1], v[2], 0)
}

func (p *program) SetVec4(loc Location, v mgl32.Vec4) {
	p.write(loc, v[:]...)
}

func (p *program) SetMat4(loc Location, m mgl32.Mat4) {
	p.write(loc, m[:]...)
}

func (p *program) Float(loc Location) float32 {
	return p.read(loc, 1)[0]
}

func (p *program) Int(loc Location) int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	off, ok := p.offset(loc)
	if !ok {
		return 0
	}
	return int32(p.words[off])
}

func (p *program) Vec3(loc Location) mgl32.Vec3 {
	v := p.read(loc, 3)
	return mgl32.Vec3{v[0], v[1], v[2]}
}

func (p *program) Vec4(loc Location) mgl32.Vec4 {
	v := p.read(loc, 4)
	return mgl32.Vec4{v[0], v[1], v[2], v[3]}
}

func (p *program) Mat4(loc Location) mgl32.Mat4 {
	var m mgl32.Mat4
	copy(m[:], p.read(loc, 16))
	return m
}

func (p *program) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.uniforms))
	for i, u := range p.uniforms {
		out[i] = u.name
	}
	return out
}

func (p *program) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.words) * 4
}

func (p *program) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := make([]byte, len(p.words)*4)
	for i, w := range p.words {
		binary.LittleEndian.PutUint32(buf[i*4:], w)
	}
	return buf
}

func (p *program) Version() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.version
}

// offset returns the first word index of a location. Caller must hold the mutex.
func (p *program) offset(loc Location) (int, bool) {
	if loc < 0 || int(loc) >= len(p.uniforms) {
		return 0, false
	}
	return p.uniforms[loc].slot * slotFloats, true
}

// write stores floats starting at the location's first word, bounded by the location's size.
func (p *program) write(loc Location, values ...float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	off, ok := p.offset(loc)
	if !ok {
		return
	}
	limit := p.uniforms[loc].kind.slots() * slotFloats
	for i, v := range values {
		if i >= limit {
			break
		}
		p.words[off+i] = math.Float32bits(v)
	}
	p.version++
}

// read returns n floats starting at the location's first word. Invalid locations read as zero.
func (p *program) read(loc Location, n int) []float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]float32, n)
	off, ok := p.offset(loc)
	if !ok {
		return out
	}
	limit := min(n, p.uniforms[loc].kind.slots()*slotFloats)
	for i := range limit {
		out[i] = math.Float32frombits(p.words[off+i])
	}
	return out
}
