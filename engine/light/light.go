// Package light describes scene lights as an immutable sum type.
//
// A Light is exactly one of Directional, Spherical or Projective. Code that
// needs per-variant behaviour switches on the concrete type; the unexported
// marker method keeps the set of variants closed.
package light

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
)

// LightType identifies the variant of a Light.
type LightType int

const (
	// LightTypeDirectional is a light with no position, only direction, such
	// as the sun. It has no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypeSpherical emits in all directions from a position and
	// attenuates to zero at its radius.
	LightTypeSpherical

	// LightTypeProjective projects an image through a frustum from a
	// position, like a slide projector or flashlight.
	LightTypeProjective
)

func (t LightType) String() string {
	switch t {
	case LightTypeDirectional:
		return "directional"
	case LightTypeSpherical:
		return "spherical"
	case LightTypeProjective:
		return "projective"
	default:
		return fmt.Sprintf("LightType(%d)", int(t))
	}
}

// Light is the closed set of light descriptors. Light values are comparable
// with ==.
type Light interface {
	// ID returns the light's identifier within the light namespace.
	ID() ident.ID

	// Type returns the variant tag.
	Type() LightType

	// Color returns the linear RGB colour.
	Color() mgl32.Vec3

	// Intensity returns the scalar intensity multiplier.
	Intensity() float32

	// Enabled reports whether the light contributes to rendering.
	Enabled() bool

	// Shadow returns the shadow descriptor, if the light casts shadows.
	//
	// Returns:
	//   - Shadow: the shadow descriptor
	//   - bool: false if the light does not cast shadows
	Shadow() (Shadow, bool)

	// WithID returns a copy of the light carrying a different identifier.
	WithID(id ident.ID) Light

	isLight()
}

// base holds the parameters every light variant carries.
type base struct {
	id        ident.ID
	color     mgl32.Vec3
	intensity float32
	falloff   float32
	enabled   bool
	shadow    Shadow
	hasShadow bool
}

func (b base) ID() ident.ID {
	return b.id
}

func (b base) Color() mgl32.Vec3 {
	return b.color
}

func (b base) Intensity() float32 {
	return b.intensity
}

func (b base) Enabled() bool {
	return b.enabled
}

func (b base) Shadow() (Shadow, bool) {
	return b.shadow, b.hasShadow
}

// Directional is a light infinitely far away shining along a direction.
type Directional struct {
	base
	direction mgl32.Vec3
}

// Spherical is a point light with a finite radius of influence.
type Spherical struct {
	base
	position mgl32.Vec3
	radius   float32
}

// Projective projects an image texture through a frustum.
type Projective struct {
	base
	position    mgl32.Vec3
	orientation mgl32.Quat
	frustum     camera.Frustum
	image       string
}

var (
	_ Light = Directional{}
	_ Light = Spherical{}
	_ Light = Projective{}
)

func (Directional) Type() LightType {
	return LightTypeDirectional
}

func (Spherical) Type() LightType {
	return LightTypeSpherical
}

func (Projective) Type() LightType {
	return LightTypeProjective
}

func (Directional) isLight() {}
func (Spherical) isLight()   {}
func (Projective) isLight()  {}

func (l Directional) WithID(id ident.ID) Light {
	l.id = id
	return l
}

func (l Spherical) WithID(id ident.ID) Light {
	l.id = id
	return l
}

func (l Projective) WithID(id ident.ID) Light {
	l.id = id
	return l
}

// Direction returns the normalized direction the light travels in.
func (l Directional) Direction() mgl32.Vec3 {
	return l.direction
}

func (l Spherical) Position() mgl32.Vec3 {
	return l.position
}

// Radius returns the distance at which the light's contribution reaches zero.
func (l Spherical) Radius() float32 {
	return l.radius
}

// Falloff returns the attenuation exponent; 1 is linear.
func (l Spherical) Falloff() float32 {
	return l.falloff
}

func (l Projective) Position() mgl32.Vec3 {
	return l.position
}

func (l Projective) Orientation() mgl32.Quat {
	return l.orientation
}

func (l Projective) Frustum() camera.Frustum {
	return l.frustum
}

// Image returns the name of the texture the light projects.
func (l Projective) Image() string {
	return l.image
}

// Falloff returns the attenuation exponent over the frustum depth; 1 is linear.
func (l Projective) Falloff() float32 {
	return l.falloff
}

// Direction returns the axis the projector points along (-Z rotated by the
// orientation).
func (l Projective) Direction() mgl32.Vec3 {
	return l.orientation.Rotate(mgl32.Vec3{0, 0, -1})
}

// View returns the world-to-light matrix of the projector.
func (l Projective) View() mgl32.Mat4 {
	return l.orientation.Inverse().Mat4().Mul4(mgl32.Translate3D(-l.position[0], -l.position[1], -l.position[2]))
}

// Position returns the world position of a light, or false for a directional
// light, which has none.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - mgl32.Vec3: the position
//   - bool: false if the light has no position
func Position(l Light) (mgl32.Vec3, bool) {
	switch v := l.(type) {
	case Directional:
		return mgl32.Vec3{}, false
	case Spherical:
		return v.position, true
	case Projective:
		return v.position, true
	default:
		panic(fmt.Sprintf("light: unknown variant %T", l))
	}
}

// TextureNames returns the texture names a light references.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - []string: the referenced texture names, possibly empty
func TextureNames(l Light) []string {
	switch v := l.(type) {
	case Directional, Spherical:
		return nil
	case Projective:
		return []string{v.image}
	default:
		panic(fmt.Sprintf("light: unknown variant %T", l))
	}
}
