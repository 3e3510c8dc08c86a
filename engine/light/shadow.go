package light

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// DefaultShadowMapSize is the default width and height in texels of a shadow map.
const DefaultShadowMapSize = 2048

// MinShadowMapSize and MaxShadowMapSize bound the shadow map size. Sizes must
// also be powers of two.
const (
	MinShadowMapSize = 64
	MaxShadowMapSize = 8192
)

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map
// texel world-size to compute the normal-offset bias. Typical values are 2.0–4.0.
const DefaultShadowNormalBiasScale float32 = 3.0

// DefaultShadowFactorMinimum is the darkest a fully shadowed fragment gets.
const DefaultShadowFactorMinimum float32 = 0.0

// Shadow describes how a light's shadow map is produced and sampled.
type Shadow struct {
	mapSize         int
	bias            float32
	normalBiasScale float32
	factorMinimum   float32
}

// ShadowBuilderOption configures a Shadow during NewShadow.
type ShadowBuilderOption func(*Shadow)

// WithMapSize sets the shadow map width and height in texels.
//
// Parameters:
//   - size: a power of two in [MinShadowMapSize, MaxShadowMapSize]
//
// Returns:
//   - ShadowBuilderOption: option function to apply
func WithMapSize(size int) ShadowBuilderOption {
	return func(s *Shadow) {
		s.mapSize = size
	}
}

// WithBias sets the constant depth comparison bias.
//
// Parameters:
//   - bias: the depth bias, must be >= 0
//
// Returns:
//   - ShadowBuilderOption: option function to apply
func WithBias(bias float32) ShadowBuilderOption {
	return func(s *Shadow) {
		s.bias = bias
	}
}

// WithNormalBiasScale sets the normal-offset bias multiplier.
//
// Parameters:
//   - scale: multiplier on per-texel world size, must be >= 0
//
// Returns:
//   - ShadowBuilderOption: option function to apply
func WithNormalBiasScale(scale float32) ShadowBuilderOption {
	return func(s *Shadow) {
		s.normalBiasScale = scale
	}
}

// WithFactorMinimum sets the minimum light factor inside a shadow.
//
// Parameters:
//   - factor: a value in [0, 1]
//
// Returns:
//   - ShadowBuilderOption: option function to apply
func WithFactorMinimum(factor float32) ShadowBuilderOption {
	return func(s *Shadow) {
		s.factorMinimum = factor
	}
}

// NewShadow creates a validated Shadow descriptor.
//
// Parameters:
//   - options: functional options applied over the defaults
//
// Returns:
//   - Shadow: the shadow descriptor
//   - error: *common.PreconditionError for an out-of-range value
func NewShadow(options ...ShadowBuilderOption) (Shadow, error) {
	s := Shadow{
		mapSize:         DefaultShadowMapSize,
		bias:            DefaultShadowBias,
		normalBiasScale: DefaultShadowNormalBiasScale,
		factorMinimum:   DefaultShadowFactorMinimum,
	}
	for _, opt := range options {
		opt(&s)
	}

	if !common.IsPowerOfTwo(s.mapSize) || !common.InRange(s.mapSize, MinShadowMapSize, MaxShadowMapSize) {
		return Shadow{}, common.Preconditionf("shadow.map_size",
			"must be a power of two in [%d, %d], got %d", MinShadowMapSize, MaxShadowMapSize, s.mapSize)
	}
	if !(s.bias >= 0) {
		return Shadow{}, common.Preconditionf("shadow.bias", "must be non-negative, got %v", s.bias)
	}
	if !(s.normalBiasScale >= 0) {
		return Shadow{}, common.Preconditionf("shadow.normal_bias_scale", "must be non-negative, got %v", s.normalBiasScale)
	}
	if !common.InRange(s.factorMinimum, 0, 1) {
		return Shadow{}, common.Preconditionf("shadow.factor_minimum", "must be in [0, 1], got %v", s.factorMinimum)
	}
	return s, nil
}

func (s Shadow) MapSize() int {
	return s.mapSize
}

func (s Shadow) Bias() float32 {
	return s.bias
}

func (s Shadow) NormalBiasScale() float32 {
	return s.normalBiasScale
}

func (s Shadow) FactorMinimum() float32 {
	return s.factorMinimum
}
