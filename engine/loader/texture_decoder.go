package loader

import (
	"fmt"
	"image"
	"os"

	// decoders registered with image.Decode
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// decodeTexture reads an image file and converts it to an RGBA8 Texture.
// Supported formats are PNG, JPEG, BMP, TIFF and WebP. Images larger than
// maxSize on either axis are downscaled to fit, keeping the aspect ratio; a
// maxSize of 0 disables scaling.
//
// Parameters:
//   - desc: the description the texture is registered under
//   - path: the resolved file path
//   - maxSize: the largest allowed width or height in texels
//
// Returns:
//   - *model.Texture: the decoded texture
//   - error: error if the file cannot be opened or decoded
func decodeTexture(desc model.TextureDescription, path string, maxSize int) (*model.Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}

	src := img.Bounds()
	dst := image.Rect(0, 0, src.Dx(), src.Dy())
	if maxSize > 0 && (src.Dx() > maxSize || src.Dy() > maxSize) {
		dst = fitWithin(src.Dx(), src.Dy(), maxSize)
	}
	if dst.Empty() {
		return nil, fmt.Errorf("texture file %s (%s) has no pixels", path, format)
	}

	rgba := image.NewRGBA(dst)
	if dst.Size() == src.Size() {
		draw.Draw(rgba, dst, img, src.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(rgba, dst, img, src, draw.Src, nil)
	}
	return model.NewTexture(desc, dst.Dx(), dst.Dy(), rgba.Pix)
}

// fitWithin returns the largest rectangle with the aspect ratio of w x h whose
// sides do not exceed limit. Neither side is smaller than one texel.
func fitWithin(w, h, limit int) image.Rectangle {
	if w >= h {
		return image.Rect(0, 0, limit, max(1, h*limit/w))
	}
	return image.Rect(0, 0, max(1, w*limit/h), limit)
}
