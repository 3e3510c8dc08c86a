package instance

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DescriptionBuilderOption is a functional option for configuring a Description during construction.
type DescriptionBuilderOption func(*Description)

// WithPosition sets the world position of the instance.
//
// Parameters:
//   - position: the world-space position
//
// Returns:
//   - DescriptionBuilderOption: functional option to set the position
func WithPosition(position mgl32.Vec3) DescriptionBuilderOption {
	return func(d *Description) {
		d.position = position
	}
}

// WithScale sets the per-axis scale of the instance.
//
// Parameters:
//   - scale: the scale factors; none may be zero
//
// Returns:
//   - DescriptionBuilderOption: functional option to set the scale
func WithScale(scale mgl32.Vec3) DescriptionBuilderOption {
	return func(d *Description) {
		d.scale = scale
	}
}

// WithOrientation sets the orientation of the instance. The quaternion is
// normalized during construction.
//
// Parameters:
//   - orientation: the rotation from model space to world space
//
// Returns:
//   - DescriptionBuilderOption: functional option to set the orientation
func WithOrientation(orientation mgl32.Quat) DescriptionBuilderOption {
	return func(d *Description) {
		d.orientation = orientation
	}
}

// WithRotation sets the orientation from Euler angles in radians, applied in
// X, Y, Z order.
//
// Parameters:
//   - rx, ry, rz: rotation angles around each axis
//
// Returns:
//   - DescriptionBuilderOption: functional option to set the orientation
func WithRotation(rx, ry, rz float32) DescriptionBuilderOption {
	return func(d *Description) {
		d.orientation = mgl32.AnglesToQuat(rx, ry, rz, mgl32.XYZ)
	}
}

// WithUVMatrix sets the 2D homogeneous transform applied to texture coordinates.
//
// Parameters:
//   - m: the UV transform
//
// Returns:
//   - DescriptionBuilderOption: functional option to set the UV transform
func WithUVMatrix(m mgl32.Mat3) DescriptionBuilderOption {
	return func(d *Description) {
		d.uvMatrix = m
	}
}

// WithLit sets whether the instance is affected by scene lights.
//
// Parameters:
//   - lit: false to render the instance unlit
//
// Returns:
//   - DescriptionBuilderOption: functional option to set the lit flag
func WithLit(lit bool) DescriptionBuilderOption {
	return func(d *Description) {
		d.lit = lit
	}
}
