package scene

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownResolution is returned when a water resolution name does not match a preset.
var ErrUnknownResolution = errors.New("scene: unknown water resolution")

// WaterResolution is a square size preset for the reflection and refraction captures.
type WaterResolution int

const (
	WaterResolution256 WaterResolution = iota
	WaterResolution512
	WaterResolution1024
	WaterResolution2048
)

// DefaultWaterResolution is the preset used when none is configured.
const DefaultWaterResolution = WaterResolution1024

var waterResolutionSizes = [...]int{256, 512, 1024, 2048}

// Size returns the edge length in pixels. Unknown values map to the default preset.
func (r WaterResolution) Size() int {
	if r < WaterResolution256 || r > WaterResolution2048 {
		return DefaultWaterResolution.Size()
	}
	return waterResolutionSizes[r]
}

// Dimensions returns the width and height in pixels.
func (r WaterResolution) Dimensions() (int, int) {
	return r.Size(), r.Size()
}

func (r WaterResolution) String() string {
	return fmt.Sprintf("%dx%d", r.Size(), r.Size())
}

// ParseWaterResolution accepts either a preset string ("1024x1024") or a bare edge length ("1024").
//
// Parameters:
//   - name: the preset name
//
// Returns:
//   - WaterResolution: the matching preset
//   - error: ErrUnknownResolution if nothing matches
func ParseWaterResolution(name string) (WaterResolution, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, size := range waterResolutionSizes {
		r := WaterResolution(i)
		if name == r.String() || name == fmt.Sprint(size) {
			return r, nil
		}
	}
	return DefaultWaterResolution, fmt.Errorf("%w: %q", ErrUnknownResolution, name)
}
