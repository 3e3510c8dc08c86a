package model

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// BytesPerTexel is the size of one RGBA8 texel.
const BytesPerTexel = 4

// Texture is a loaded texture: a TextureDescription paired with decoded RGBA
// pixel data. A Texture is never modified after construction; the pixel slice
// returned by Pixels must be treated as read-only.
type Texture struct {
	description TextureDescription
	width       int
	height      int
	pixels      []byte
}

// NewTexture creates a Texture from decoded RGBA8 pixels.
//
// Parameters:
//   - desc: the description the texture was loaded from
//   - width: the width in texels (must be positive)
//   - height: the height in texels (must be positive)
//   - pixels: row-major RGBA8 data of exactly width*height*4 bytes
//
// Returns:
//   - *Texture: the texture
//   - error: *common.PreconditionError if the dimensions or pixel count are wrong
func NewTexture(desc TextureDescription, width, height int, pixels []byte) (*Texture, error) {
	if desc == (TextureDescription{}) {
		return nil, common.Preconditionf("texture.description", "must be set")
	}
	if width <= 0 || height <= 0 {
		return nil, common.Preconditionf("texture.size", "must be positive, got %dx%d", width, height)
	}
	if len(pixels) != width*height*BytesPerTexel {
		return nil, common.Preconditionf("texture.pixels", "expected %d bytes, got %d", width*height*BytesPerTexel, len(pixels))
	}
	return &Texture{description: desc, width: width, height: height, pixels: pixels}, nil
}

// Description returns the description the texture was loaded from.
func (t *Texture) Description() TextureDescription {
	return t.description
}

// Name returns the name materials use to refer to the texture.
func (t *Texture) Name() string {
	return t.description.name
}

// Width returns the width in texels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the height in texels.
func (t *Texture) Height() int {
	return t.height
}

// Pixels returns the RGBA8 texel data. Callers must not modify it.
func (t *Texture) Pixels() []byte {
	return t.pixels
}

// Bytes returns the size of the pixel data in bytes.
func (t *Texture) Bytes() int {
	return len(t.pixels)
}
