// Package renderer is the boundary between the scene state and a GPU renderer.
//
// It flattens a Snapshot into a RenderScene and keeps the bookkeeping of the
// GPU-side resources a renderer would hold (shaders, shadow maps and
// framebuffers) so their counts and sizes can be reported. No GPU work
// happens here.
package renderer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// Framebuffer cache keys registered by Resize.
const (
	FramebufferSurface = "surface"
	FramebufferMSAA    = "msaa-color"
	FramebufferDepth   = "depth"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	cache  Cache
	msaa   MSAASampleCount
	width  int
	height int

	logger *slog.Logger
}

// Renderer prepares snapshots for drawing and tracks the GPU-side resources
// that drawing them requires.
type Renderer interface {
	// Prepare flattens snapshot for cam and updates the shadow map entries of
	// the cache for the lights it contains.
	//
	// Parameters:
	//   - snapshot: the scene state; nil is treated as empty
	//   - cam: the viewing camera
	//
	// Returns:
	//   - *RenderScene: the flattened scene
	//   - error: error if a light's shadow descriptor cannot be planned
	Prepare(snapshot *scene.Snapshot, cam camera.Camera) (*RenderScene, error)

	// Resize records the surface, multisample and depth framebuffers for a
	// new surface size, replacing the previous ones.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: *common.PreconditionError if either dimension is not positive
	Resize(width, height int) error

	// RegisterShader records a compiled shader module under key.
	//
	// Parameters:
	//   - key: the unique identifier for the shader
	//   - source: the shader source text
	//
	// Returns:
	//   - error: error if the cache rejects the entry
	RegisterShader(key, source string) error

	// ReleaseShader forgets a shader module.
	//
	// Returns:
	//   - bool: false if no shader was registered under key
	ReleaseShader(key string) bool

	// Size returns the current surface size.
	Size() (int, int)

	// Cache returns the resource cache the renderer reports into.
	Cache() Cache

	// Statistics returns a point-in-time read of the resource cache.
	Statistics() CacheStatistics
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer.
//
// Parameters:
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the renderer
//   - error: *common.PreconditionError if the configured sample count is not supported
func NewRenderer(options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:     &sync.Mutex{},
		msaa:   MSAA4x,
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(r)
	}
	if r.cache == nil {
		r.cache = NewCache()
	}
	r.logger = r.logger.With("component", "renderer")
	if !r.msaa.Valid() {
		return nil, fmt.Errorf("invalid renderer options: %w", errInvalidMSAA(r.msaa))
	}
	if r.width > 0 || r.height > 0 {
		if err := r.Resize(r.width, r.height); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *renderer) Prepare(snapshot *scene.Snapshot, cam camera.Camera) (*RenderScene, error) {
	rs := Flatten(snapshot, cam)
	if err := PlanShadowMaps(rs, r.cache); err != nil {
		return nil, fmt.Errorf("failed to plan shadow maps: %w", err)
	}
	r.logger.Debug("prepared scene",
		"batches", len(rs.Batches),
		"instances", rs.InstanceCount(),
		"lights", len(rs.Lights),
		"skipped", rs.Skipped,
		"culled", rs.Culled)
	return rs, nil
}

func (r *renderer) Resize(width, height int) error {
	surface, err := FramebufferBytes(width, height, FormatBGRA8)
	if err != nil {
		return err
	}
	depth, _ := FramebufferBytes(width, height, FormatDepth24Plus)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = width, height

	samples := int64(r.msaa)
	if err := r.cache.Put(KindFramebuffer, FramebufferSurface, surface); err != nil {
		return err
	}
	// the depth buffer is multisampled along with the color attachment
	if err := r.cache.Put(KindFramebuffer, FramebufferDepth, depth*samples); err != nil {
		return err
	}
	if r.msaa > MSAAOff {
		if err := r.cache.Put(KindFramebuffer, FramebufferMSAA, surface*samples); err != nil {
			return err
		}
	} else {
		r.cache.Evict(KindFramebuffer, FramebufferMSAA)
	}
	r.logger.Debug("resized", "width", width, "height", height, "msaa", int(r.msaa))
	return nil
}

func (r *renderer) RegisterShader(key, source string) error {
	return r.cache.Put(KindShader, key, int64(len(source)))
}

func (r *renderer) ReleaseShader(key string) bool {
	return r.cache.Evict(KindShader, key)
}

func (r *renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

func (r *renderer) Cache() Cache {
	return r.cache
}

func (r *renderer) Statistics() CacheStatistics {
	return r.cache.Statistics()
}
