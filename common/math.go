package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(data[0])) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), size)
}

// PutFloat32s writes the values little-endian into dst starting at offset.
// dst must have room for len(values)*4 bytes past offset.
func PutFloat32s(dst []byte, offset int, values ...float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(dst[offset+i*4:], math.Float32bits(v))
	}
}

// Perspective builds a right-handed perspective projection that maps depth to the
// WebGPU clip range [0, 1]. mgl32.Perspective targets the OpenGL [-1, 1] range.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width / height
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / math32.Tan(fovY/2)
	m := mgl32.Mat4{}
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = (near * far) / (near - far)
	return m
}

// Compose builds a model matrix from a translation, Euler rotation in degrees (applied Y, X, Z)
// and a non-uniform scale.
//
// Parameters:
//   - position: world translation
//   - rotation: Euler angles in degrees
//   - scale: per-axis scale
//
// Returns:
//   - mgl32.Mat4: translation * rotation * scale
func Compose(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	rot := mgl32.HomogRotate3DY(mgl32.DegToRad(rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotation.X()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation.Z())))
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// SafeNormalize returns v scaled to unit length, or the zero vector when v has no length.
// mgl32.Vec3.Normalize divides by zero in that case.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	length := math32.Sqrt(v.Dot(v))
	if length == 0 {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / length)
}

// CosDeg returns the cosine of an angle given in degrees.
func CosDeg(deg float32) float32 {
	return math32.Cos(mgl32.DegToRad(deg))
}
