package light

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
)

// LightBuilderOption configures the parameters shared by every light variant.
type LightBuilderOption func(*base)

// WithColor sets the linear RGB colour of the light. Components must be
// non-negative.
//
// Parameters:
//   - r, g, b: colour components
//
// Returns:
//   - LightBuilderOption: a function that applies the colour option
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *base) {
		l.color = mgl32.Vec3{r, g, b}
	}
}

// WithIntensity sets the scalar intensity multiplier. Must be non-negative.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *base) {
		l.intensity = intensity
	}
}

// WithFalloff sets the attenuation exponent for spherical and projective
// lights. Ignored by directional lights.
//
// Parameters:
//   - falloff: the exponent, must be positive
//
// Returns:
//   - LightBuilderOption: a function that applies the falloff option
func WithFalloff(falloff float32) LightBuilderOption {
	return func(l *base) {
		l.falloff = falloff
	}
}

// WithEnabled sets whether the light contributes to rendering.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *base) {
		l.enabled = enabled
	}
}

// WithShadow makes the light cast shadows described by s.
//
// Parameters:
//   - s: a shadow descriptor built by NewShadow
//
// Returns:
//   - LightBuilderOption: a function that applies the shadow option
func WithShadow(s Shadow) LightBuilderOption {
	return func(l *base) {
		l.shadow = s
		l.hasShadow = true
	}
}

// newBase applies options over the defaults shared by every variant and
// validates the result.
func newBase(id ident.ID, opts []LightBuilderOption) (base, error) {
	b := base{
		id:        id,
		color:     mgl32.Vec3{1, 1, 1},
		intensity: 1,
		falloff:   1,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(&b)
	}

	if !id.Valid() {
		return base{}, common.Preconditionf("light.id", "must be at most %s, got %s", ident.Max, id)
	}
	for i, c := range b.color {
		if !(c >= 0) {
			return base{}, common.Preconditionf("light.color", "component %d must be non-negative, got %v", i, c)
		}
	}
	if !(b.intensity >= 0) {
		return base{}, common.Preconditionf("light.intensity", "must be non-negative, got %v", b.intensity)
	}
	if !(b.falloff > 0) {
		return base{}, common.Preconditionf("light.falloff", "must be positive, got %v", b.falloff)
	}
	if b.hasShadow && b.shadow == (Shadow{}) {
		return base{}, common.Preconditionf("light.shadow", "must be built with NewShadow")
	}
	return b, nil
}

// NewDirectional creates a directional light.
//
// Parameters:
//   - id: the light identifier
//   - direction: the direction light travels in (normalized; must not be zero)
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - Directional: the light
//   - error: *common.PreconditionError for invalid parameters
func NewDirectional(id ident.ID, direction mgl32.Vec3, opts ...LightBuilderOption) (Directional, error) {
	b, err := newBase(id, opts)
	if err != nil {
		return Directional{}, err
	}
	if !(direction.Len() > 0) {
		return Directional{}, common.Preconditionf("light.direction", "must not be the zero vector")
	}
	return Directional{base: b, direction: common.Unit(direction)}, nil
}

// NewSpherical creates a spherical light.
//
// Parameters:
//   - id: the light identifier
//   - position: world-space position
//   - radius: distance at which the light reaches zero (must be positive)
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - Spherical: the light
//   - error: *common.PreconditionError for invalid parameters
func NewSpherical(id ident.ID, position mgl32.Vec3, radius float32, opts ...LightBuilderOption) (Spherical, error) {
	b, err := newBase(id, opts)
	if err != nil {
		return Spherical{}, err
	}
	if !(radius > 0) {
		return Spherical{}, common.Preconditionf("light.radius", "must be positive, got %v", radius)
	}
	return Spherical{base: b, position: position, radius: radius}, nil
}

// NewProjective creates a projective light.
//
// Parameters:
//   - id: the light identifier
//   - position: world-space position of the projector
//   - orientation: rotation of the projector; normalized, must not be zero
//   - frustum: the projection frustum
//   - image: name of the texture to project (must not be empty)
//   - opts: variadic list of LightBuilderOption functions
//
// Returns:
//   - Projective: the light
//   - error: *common.PreconditionError for invalid parameters
func NewProjective(id ident.ID, position mgl32.Vec3, orientation mgl32.Quat, frustum camera.Frustum, image string, opts ...LightBuilderOption) (Projective, error) {
	b, err := newBase(id, opts)
	if err != nil {
		return Projective{}, err
	}
	if !(orientation.Len() > 0) {
		return Projective{}, common.Preconditionf("light.orientation", "must not be the zero quaternion")
	}
	if frustum == (camera.Frustum{}) {
		return Projective{}, common.Preconditionf("light.frustum", "must be set")
	}
	if strings.TrimSpace(image) == "" {
		return Projective{}, common.Preconditionf("light.image", "must not be empty")
	}
	return Projective{
		base:        b,
		position:    position,
		orientation: common.UnitQuat(orientation),
		frustum:     frustum,
		image:       image,
	}, nil
}
