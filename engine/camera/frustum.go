package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Frustum describes a symmetric perspective projection by its horizontal field
// of view. It is used by the scene camera and by projective lights.
type Frustum struct {
	near          float32
	far           float32
	horizontalFOV float32
	aspect        float32
}

// DefaultFrustum is a 90 degree, 16:9 frustum from 0.1 to 100 units.
var DefaultFrustum = Frustum{
	near:          0.1,
	far:           100,
	horizontalFOV: math.Pi / 2,
	aspect:        16.0 / 9.0,
}

// NewFrustum creates a Frustum.
//
// Parameters:
//   - near: near plane distance (must be > 0)
//   - far: far plane distance (must be > near)
//   - horizontalFOV: horizontal field of view in radians, in (0, π)
//   - aspect: width / height (must be > 0)
//
// Returns:
//   - Frustum: the frustum
//   - error: *common.PreconditionError for any out-of-range value
func NewFrustum(near, far, horizontalFOV, aspect float32) (Frustum, error) {
	switch {
	case !(near > 0):
		return Frustum{}, common.Preconditionf("frustum.near", "must be positive, got %v", near)
	case !(far > near):
		return Frustum{}, common.Preconditionf("frustum.far", "must exceed near (%v), got %v", near, far)
	case !(horizontalFOV > 0 && horizontalFOV < math.Pi):
		return Frustum{}, common.Preconditionf("frustum.horizontal_fov", "must be in (0, π), got %v", horizontalFOV)
	case !(aspect > 0):
		return Frustum{}, common.Preconditionf("frustum.aspect", "must be positive, got %v", aspect)
	}
	return Frustum{near: near, far: far, horizontalFOV: horizontalFOV, aspect: aspect}, nil
}

func (f Frustum) Near() float32 {
	return f.near
}

func (f Frustum) Far() float32 {
	return f.far
}

func (f Frustum) HorizontalFOV() float32 {
	return f.horizontalFOV
}

func (f Frustum) Aspect() float32 {
	return f.aspect
}

// VerticalFOV derives the vertical field of view from the horizontal one.
//
// Returns:
//   - float32: the vertical field of view in radians
func (f Frustum) VerticalFOV() float32 {
	halfH := math.Tan(float64(f.horizontalFOV) / 2)
	return float32(2 * math.Atan(halfH/float64(f.aspect)))
}

// Projection returns the perspective projection matrix for the frustum.
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func (f Frustum) Projection() mgl32.Mat4 {
	return mgl32.Perspective(f.VerticalFOV(), f.aspect, f.near, f.far)
}
