package renderer

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithMSAA sets the multisample anti-aliasing sample count used to size the
// multisampled framebuffers. When not specified, the default is MSAA4x.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff, MSAA4x, MSAA8x, or MSAA16x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithSize registers the framebuffers for an initial surface size.
//
// Parameters:
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = width, height
	}
}

// WithCache makes the renderer report into an existing cache.
//
// Parameters:
//   - c: the cache
//
// Returns:
//   - RendererBuilderOption: a function that applies the cache option to a renderer
func WithCache(c Cache) RendererBuilderOption {
	return func(r *renderer) {
		r.cache = c
	}
}

// WithLogger sets the logger the renderer reports to.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func errInvalidMSAA(c MSAASampleCount) error {
	return common.Preconditionf("renderer.msaa", "unsupported sample count %d", int(c))
}
