package material

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DescriptionBuilderOption is a functional option for configuring a Description via NewDescription.
type DescriptionBuilderOption func(*Description)

// WithAlbedo sets the albedo sub-description.
//
// Parameters:
//   - albedo: the albedo sub-description
//
// Returns:
//   - DescriptionBuilderOption: a function that applies the albedo option
func WithAlbedo(albedo Albedo) DescriptionBuilderOption {
	return func(d *Description) {
		d.albedo = albedo
	}
}

// WithAlpha sets the alpha sub-description.
//
// Parameters:
//   - alpha: the alpha sub-description
//
// Returns:
//   - DescriptionBuilderOption: a function that applies the alpha option
func WithAlpha(alpha Alpha) DescriptionBuilderOption {
	return func(d *Description) {
		d.alpha = alpha
	}
}

// WithSpecular sets the specular sub-description.
//
// Parameters:
//   - specular: the specular sub-description
//
// Returns:
//   - DescriptionBuilderOption: a function that applies the specular option
func WithSpecular(specular Specular) DescriptionBuilderOption {
	return func(d *Description) {
		d.specular = specular
	}
}

// WithEmissive sets the emissive sub-description.
//
// Parameters:
//   - emissive: the emissive sub-description
//
// Returns:
//   - DescriptionBuilderOption: a function that applies the emissive option
func WithEmissive(emissive Emissive) DescriptionBuilderOption {
	return func(d *Description) {
		d.emissive = emissive
	}
}

// WithEnvironment sets the environment sub-description.
//
// Parameters:
//   - environment: the environment sub-description
//
// Returns:
//   - DescriptionBuilderOption: a function that applies the environment option
func WithEnvironment(environment Environment) DescriptionBuilderOption {
	return func(d *Description) {
		d.environment = environment
	}
}

// WithNormal sets the normal-map sub-description.
//
// Parameters:
//   - normal: the normal sub-description
//
// Returns:
//   - DescriptionBuilderOption: a function that applies the normal option
func WithNormal(normal Normal) DescriptionBuilderOption {
	return func(d *Description) {
		d.normal = normal
	}
}

// defaultDescription is an opaque, white, untextured surface.
func defaultDescription() Description {
	return Description{
		albedo:   Albedo{color: mgl32.Vec4{1, 1, 1, 1}},
		alpha:    Alpha{opacity: 1},
		specular: Specular{color: mgl32.Vec3{1, 1, 1}, exponent: 64},
	}
}
