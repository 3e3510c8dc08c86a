package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraBuilderOption is a functional option applied by NewCamera.
type CameraBuilderOption func(*Camera)

// WithPosition sets the eye position.
//
// Parameters:
//   - position: the eye position in world space
//
// Returns:
//   - CameraBuilderOption: a function that sets the eye position
func WithPosition(position mgl32.Vec3) CameraBuilderOption {
	return func(c *Camera) {
		c.position = position
	}
}

// WithTarget sets the point the camera looks at.
//
// Parameters:
//   - target: the look-at point in world space
//
// Returns:
//   - CameraBuilderOption: a function that sets the target
func WithTarget(target mgl32.Vec3) CameraBuilderOption {
	return func(c *Camera) {
		c.target = target
	}
}

// WithUp sets the up vector. It is normalized by NewCamera.
//
// Parameters:
//   - up: the up direction
//
// Returns:
//   - CameraBuilderOption: a function that sets the up vector
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *Camera) {
		c.up = up
	}
}

// WithOrbit places the eye on a sphere around target using spherical
// coordinates, the way the editor's orbit view positions its camera.
//
// Parameters:
//   - target: the orbit centre, also used as the look-at point
//   - radius: distance from the target
//   - azimuth: rotation around +Y in radians, 0 looks down -Z
//   - elevation: angle above the XZ plane in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets position and target
func WithOrbit(target mgl32.Vec3, radius, azimuth, elevation float32) CameraBuilderOption {
	return func(c *Camera) {
		cosElev := float32(math.Cos(float64(elevation)))
		sinElev := float32(math.Sin(float64(elevation)))
		cosAzim := float32(math.Cos(float64(azimuth)))
		sinAzim := float32(math.Sin(float64(azimuth)))

		c.target = target
		c.position = mgl32.Vec3{
			target[0] + radius*cosElev*sinAzim,
			target[1] + radius*sinElev,
			target[2] + radius*cosElev*cosAzim,
		}
	}
}
