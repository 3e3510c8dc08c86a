package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
)

// TextureFormat is the texel format of a GPU-side render target.
type TextureFormat int

const (
	// FormatBGRA8 is the surface color format.
	FormatBGRA8 TextureFormat = iota
	// FormatRGBA8 is the format of sampled material textures.
	FormatRGBA8
	// FormatRGBA16F is a half-float HDR color format.
	FormatRGBA16F
	// FormatDepth24Plus is the main pass depth format.
	FormatDepth24Plus
	// FormatDepth32F is the shadow map depth format.
	FormatDepth32F
)

// BytesPerTexel returns the storage size of one texel. Depth24Plus is counted
// at four bytes, the size implementations actually allocate.
func (f TextureFormat) BytesPerTexel() int {
	switch f {
	case FormatBGRA8, FormatRGBA8, FormatDepth24Plus, FormatDepth32F:
		return 4
	case FormatRGBA16F:
		return 8
	default:
		panic(fmt.Sprintf("renderer: unknown texture format %d", int(f)))
	}
}

func (f TextureFormat) String() string {
	switch f {
	case FormatBGRA8:
		return "bgra8"
	case FormatRGBA8:
		return "rgba8"
	case FormatRGBA16F:
		return "rgba16f"
	case FormatDepth24Plus:
		return "depth24plus"
	case FormatDepth32F:
		return "depth32f"
	default:
		return fmt.Sprintf("TextureFormat(%d)", int(f))
	}
}

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing. Adapter-dependent.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16x multisample anti-aliasing. Adapter-dependent.
	MSAA16x MSAASampleCount = 16
)

// Valid reports whether the count is one of the supported sample counts.
func (c MSAASampleCount) Valid() bool {
	switch c {
	case MSAAOff, MSAA4x, MSAA8x, MSAA16x:
		return true
	}
	return false
}

// CubeFaces is the number of shadow map faces a spherical light renders.
const CubeFaces = 6

// ShadowMapBytes returns the size of one square Depth32F shadow map face.
//
// Parameters:
//   - size: the width and height in texels
//
// Returns:
//   - int64: the size in bytes
//   - error: *common.PreconditionError if size is not a valid shadow map size
func ShadowMapBytes(size int) (int64, error) {
	if !common.InRange(size, light.MinShadowMapSize, light.MaxShadowMapSize) || !common.IsPowerOfTwo(size) {
		return 0, common.Preconditionf("shadow.size", "must be a power of two in [%d,%d], got %d",
			light.MinShadowMapSize, light.MaxShadowMapSize, size)
	}
	return int64(size) * int64(size) * int64(FormatDepth32F.BytesPerTexel()), nil
}

// FramebufferBytes returns the size of a single-sample render target.
//
// Parameters:
//   - width: the width in pixels
//   - height: the height in pixels
//   - format: the texel format
//
// Returns:
//   - int64: the size in bytes
//   - error: *common.PreconditionError if either dimension is not positive
func FramebufferBytes(width, height int, format TextureFormat) (int64, error) {
	if width <= 0 || height <= 0 {
		return 0, common.Preconditionf("framebuffer.size", "must be positive, got %dx%d", width, height)
	}
	return int64(width) * int64(height) * int64(format.BytesPerTexel()), nil
}
