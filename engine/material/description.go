package material

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Albedo is the base surface colour, optionally mixed with a texture.
type Albedo struct {
	color   mgl32.Vec4
	texture string
	mix     float32
}

// NewAlbedo creates an Albedo sub-description.
//
// Parameters:
//   - color: RGBA base colour, every component in [0, 1]
//   - texture: name of the albedo texture, or "" for none
//   - mix: how much of the texture replaces the colour, in [0, 1]
//
// Returns:
//   - Albedo: the sub-description
//   - error: *common.PreconditionError for out-of-range values
func NewAlbedo(color mgl32.Vec4, texture string, mix float32) (Albedo, error) {
	for i, c := range color {
		if !common.InRange(c, 0, 1) {
			return Albedo{}, common.Preconditionf("albedo.color", "component %d must be in [0, 1], got %v", i, c)
		}
	}
	if !common.InRange(mix, 0, 1) {
		return Albedo{}, common.Preconditionf("albedo.mix", "must be in [0, 1], got %v", mix)
	}
	return Albedo{color: color, texture: texture, mix: mix}, nil
}

// Color returns the base RGBA colour.
func (a Albedo) Color() mgl32.Vec4 {
	return a.color
}

// Texture returns the albedo map name, or "".
func (a Albedo) Texture() string {
	return a.texture
}

// Mix returns how much of the map replaces the base colour.
func (a Albedo) Mix() float32 {
	return a.mix
}

// Alpha controls the opacity of the surface.
type Alpha struct {
	opacity float32
	texture string
}

// NewAlpha creates an Alpha sub-description.
//
// Parameters:
//   - opacity: the opacity in [0, 1]
//   - texture: name of an opacity map, or "" for none
//
// Returns:
//   - Alpha: the sub-description
//   - error: *common.PreconditionError for an out-of-range opacity
func NewAlpha(opacity float32, texture string) (Alpha, error) {
	if !common.InRange(opacity, 0, 1) {
		return Alpha{}, common.Preconditionf("alpha.opacity", "must be in [0, 1], got %v", opacity)
	}
	return Alpha{opacity: opacity, texture: texture}, nil
}

// Opacity returns the opacity in [0, 1].
func (a Alpha) Opacity() float32 {
	return a.opacity
}

// Texture returns the opacity map name, or "".
func (a Alpha) Texture() string {
	return a.texture
}

// Opaque reports whether the surface is fully opaque.
func (a Alpha) Opaque() bool {
	return a.opacity == 1 && a.texture == ""
}

// Specular describes the highlight colour and sharpness.
type Specular struct {
	color    mgl32.Vec3
	exponent float32
	texture  string
}

// NewSpecular creates a Specular sub-description.
//
// Parameters:
//   - color: specular RGB colour, components in [0, 1]
//   - exponent: the specular exponent, must be >= 0
//   - texture: name of a specular map, or "" for none
//
// Returns:
//   - Specular: the sub-description
//   - error: *common.PreconditionError for out-of-range values
func NewSpecular(color mgl32.Vec3, exponent float32, texture string) (Specular, error) {
	for i, c := range color {
		if !common.InRange(c, 0, 1) {
			return Specular{}, common.Preconditionf("specular.color", "component %d must be in [0, 1], got %v", i, c)
		}
	}
	if !(exponent >= 0) {
		return Specular{}, common.Preconditionf("specular.exponent", "must be non-negative, got %v", exponent)
	}
	return Specular{color: color, exponent: exponent, texture: texture}, nil
}

// Color returns the specular RGB colour.
func (s Specular) Color() mgl32.Vec3 {
	return s.color
}

// Exponent returns the specular exponent.
func (s Specular) Exponent() float32 {
	return s.exponent
}

// Texture returns the specular map name, or "".
func (s Specular) Texture() string {
	return s.texture
}

// Emissive is light the surface gives off by itself.
type Emissive struct {
	amount  float32
	texture string
}

// NewEmissive creates an Emissive sub-description.
//
// Parameters:
//   - amount: emission strength, must be >= 0
//   - texture: name of an emission map, or "" for none
//
// Returns:
//   - Emissive: the sub-description
//   - error: *common.PreconditionError for a negative amount
func NewEmissive(amount float32, texture string) (Emissive, error) {
	if !(amount >= 0) {
		return Emissive{}, common.Preconditionf("emissive.amount", "must be non-negative, got %v", amount)
	}
	return Emissive{amount: amount, texture: texture}, nil
}

// Amount returns the emission strength.
func (e Emissive) Amount() float32 {
	return e.amount
}

// Texture returns the emission map name, or "".
func (e Emissive) Texture() string {
	return e.texture
}

// Environment mixes in a reflected environment map.
type Environment struct {
	mix     float32
	texture string
}

// NewEnvironment creates an Environment sub-description.
//
// Parameters:
//   - mix: reflection amount in [0, 1]
//   - texture: name of the environment map, or "" for none
//
// Returns:
//   - Environment: the sub-description
//   - error: *common.PreconditionError for an out-of-range mix or a mix without a map
func NewEnvironment(mix float32, texture string) (Environment, error) {
	if !common.InRange(mix, 0, 1) {
		return Environment{}, common.Preconditionf("environment.mix", "must be in [0, 1], got %v", mix)
	}
	if mix > 0 && texture == "" {
		return Environment{}, common.Preconditionf("environment.texture", "required when mix is %v", mix)
	}
	return Environment{mix: mix, texture: texture}, nil
}

// Mix returns the reflection amount.
func (e Environment) Mix() float32 {
	return e.mix
}

// Texture returns the environment map name, or "".
func (e Environment) Texture() string {
	return e.texture
}

// Normal names the normal map that perturbs surface normals. The zero Normal
// uses the mesh normals unchanged.
type Normal struct {
	texture string
}

// NewNormal creates a Normal sub-description.
//
// Parameters:
//   - texture: name of the normal map, or "" for none
//
// Returns:
//   - Normal: the sub-description
func NewNormal(texture string) Normal {
	return Normal{texture: texture}
}

// Texture returns the normal map name, or "".
func (n Normal) Texture() string {
	return n.texture
}
