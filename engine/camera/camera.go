// Package camera describes the viewpoint a scene is rendered from.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Camera is an immutable viewpoint: an eye position looking at a target through
// a Frustum. Cameras are not part of a scene snapshot; the renderer boundary
// receives one alongside the snapshot when a scene is flattened.
type Camera struct {
	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3
	frustum  Frustum
}

// NewCamera creates a Camera looking from (0, 0, 5) at the origin with +Y up,
// then applies the given options.
//
// Parameters:
//   - frustum: the projection frustum
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the camera
//   - error: *common.PreconditionError if the eye coincides with the target or up is zero
func NewCamera(frustum Frustum, options ...CameraBuilderOption) (Camera, error) {
	c := Camera{
		position: mgl32.Vec3{0, 0, 5},
		target:   mgl32.Vec3{0, 0, 0},
		up:       mgl32.Vec3{0, 1, 0},
		frustum:  frustum,
	}
	for _, option := range options {
		option(&c)
	}

	if c.frustum == (Frustum{}) {
		return Camera{}, common.Preconditionf("camera.frustum", "must be set")
	}
	if c.position.Sub(c.target).Len() == 0 {
		return Camera{}, common.Preconditionf("camera.target", "must differ from the eye position")
	}
	if c.up.Len() == 0 {
		return Camera{}, common.Preconditionf("camera.up", "must not be the zero vector")
	}
	c.up = common.Unit(c.up)
	return c, nil
}

func (c Camera) Position() mgl32.Vec3 {
	return c.position
}

func (c Camera) Target() mgl32.Vec3 {
	return c.target
}

func (c Camera) Up() mgl32.Vec3 {
	return c.up
}

func (c Camera) Frustum() Frustum {
	return c.frustum
}

// View returns the world-to-view matrix.
func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.target, c.up)
}

// Projection returns the view-to-clip matrix.
func (c Camera) Projection() mgl32.Mat4 {
	return c.frustum.Projection()
}

// ViewProjection returns Projection * View.
func (c Camera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
