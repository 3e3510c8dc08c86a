// Package loader loads meshes and textures from disk in the background.
//
// Loads run on a worker pool and hand back a Future. Results are cached by
// resource name and absolute path, and concurrent requests for the same
// resource share one in-flight Future. A failed load is not cached, so asking
// again retries it.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// ErrClosed resolves every load requested after, or pending at, Close.
var ErrClosed = errors.New("loader: closed")

// Defaults used when no option overrides them.
const (
	DefaultQueueSize   = 256
	DefaultIdleTimeout = time.Second
)

// cacheKey identifies a cached load.
type cacheKey struct {
	name string
	path string // absolute
}

// loader is the implementation of the Loader interface.
type loader struct {
	// submitMu is held shared while a load submits to the pool and
	// exclusively while Close marks the loader closed, so nothing is
	// submitted to a stopped pool.
	submitMu sync.RWMutex

	mu       sync.Mutex
	meshes   map[cacheKey]*Future[*model.Mesh]
	textures map[cacheKey]*Future[*model.Texture]
	inflight map[int]func() // fails a submitted load that has not finished, by task ID
	closed   bool
	nextTask int

	pool           worker.DynamicWorkerPool
	workers        int
	queueSize      int
	idleTimeout    time.Duration
	root           string
	maxTextureSize int

	logger *slog.Logger
}

// Loader loads and caches scene resources asynchronously.
type Loader interface {
	// LoadMesh loads the mesh file named by desc. The backend is selected by
	// file extension: .obj, .gltf or .glb.
	//
	// Parameters:
	//   - desc: the mesh description
	//
	// Returns:
	//   - *Future[*model.Mesh]: resolves to the mesh or the load error
	LoadMesh(desc model.MeshDescription) *Future[*model.Mesh]

	// LoadTexture loads and decodes the image file named by desc.
	//
	// Parameters:
	//   - desc: the texture description
	//
	// Returns:
	//   - *Future[*model.Texture]: resolves to the texture or the load error
	LoadTexture(desc model.TextureDescription) *Future[*model.Texture]

	// LoadModel loads the mesh of desc and binds it to the model name.
	//
	// Parameters:
	//   - desc: the model description
	//
	// Returns:
	//   - *Future[*model.Model]: resolves to the model or the load error
	LoadModel(desc model.ModelDescription) *Future[*model.Model]

	// Invalidate drops every cached result loaded from path so the next
	// request reads the file again.
	//
	// Parameters:
	//   - path: the file path, absolute or relative to the loader root
	//
	// Returns:
	//   - int: the number of cache entries dropped
	Invalidate(path string) int

	// Abs returns the absolute path the loader reads path from.
	//
	// Parameters:
	//   - path: the file path, absolute or relative to the loader root
	//
	// Returns:
	//   - string: the absolute path
	//   - error: an error if the working directory cannot be determined
	Abs(path string) (string, error)

	// Cached returns the number of cached mesh and texture entries, including
	// in-flight loads.
	//
	// Returns:
	//   - int: cached meshes
	//   - int: cached textures
	Cached() (int, int)

	// Close stops the worker pool. Pending and future loads resolve with ErrClosed.
	Close()
}

var _ Loader = &loader{}

// NewLoader creates a Loader and starts its worker pool.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		meshes:      make(map[cacheKey]*Future[*model.Mesh]),
		textures:    make(map[cacheKey]*Future[*model.Texture]),
		inflight:    make(map[int]func()),
		workers:     max(runtime.NumCPU()-1, 1),
		queueSize:   DefaultQueueSize,
		idleTimeout: DefaultIdleTimeout,
		logger:      slog.Default(),
	}
	for _, option := range options {
		option(l)
	}
	l.logger = l.logger.With("component", "loader")

	// Initialize the pool after options so WithWorkers can override the default.
	l.pool = worker.NewDynamicWorkerPool(l.workers, l.queueSize, l.idleTimeout)
	return l
}

func (l *loader) LoadMesh(desc model.MeshDescription) *Future[*model.Mesh] {
	return load(l, meshCache, desc.Name(), desc.Path(), func(path string) (*model.Mesh, error) {
		backend, err := l.resolveBackend(path)
		if err != nil {
			return nil, err
		}
		vertices, indices, err := backend.Load(path)
		if err != nil {
			return nil, err
		}
		return model.NewMesh(desc, vertices, indices)
	})
}

func (l *loader) LoadTexture(desc model.TextureDescription) *Future[*model.Texture] {
	return load(l, textureCache, desc.Name(), desc.Path(), func(path string) (*model.Texture, error) {
		return decodeTexture(desc, path, l.maxTextureSize)
	})
}

func (l *loader) LoadModel(desc model.ModelDescription) *Future[*model.Model] {
	meshFuture := l.LoadMesh(desc.Mesh())
	f := newFuture[*model.Model]()
	// waiting on a pool worker could starve the mesh load it waits for
	go func() {
		<-meshFuture.Done()
		mesh, err := meshFuture.Result()
		if err != nil {
			f.resolve(nil, fmt.Errorf("model %q: %w", desc.Name(), err))
			return
		}
		f.resolve(model.NewModel(desc, mesh))
	}()
	return f
}

func (l *loader) Invalidate(path string) int {
	abs, err := l.absPath(path)
	if err != nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return dropPath(l.meshes, abs) + dropPath(l.textures, abs)
}

func (l *loader) Cached() (int, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.meshes), len(l.textures)
}

func (l *loader) Close() {
	l.submitMu.Lock()
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.submitMu.Unlock()
		return
	}
	l.closed = true
	inflight := l.inflight
	l.inflight = nil
	l.meshes = make(map[cacheKey]*Future[*model.Mesh])
	l.textures = make(map[cacheKey]*Future[*model.Texture])
	l.mu.Unlock()
	l.submitMu.Unlock()

	l.pool.ClearTaskQueue()
	l.pool.Stop()
	// Loads dropped from the queue, or evicted from the cache by Invalidate
	// while queued, would otherwise never resolve.
	for _, fail := range inflight {
		fail()
	}
}

func (l *loader) Abs(path string) (string, error) {
	return l.absPath(path)
}

// absPath resolves path against the loader root.
func (l *loader) absPath(path string) (string, error) {
	if !filepath.IsAbs(path) && l.root != "" {
		path = filepath.Join(l.root, path)
	}
	return filepath.Abs(path)
}

func meshCache(l *loader) map[cacheKey]*Future[*model.Mesh] { return l.meshes }

func textureCache(l *loader) map[cacheKey]*Future[*model.Texture] { return l.textures }

// load returns the cached future for (name, path) or starts a new load on the
// worker pool. cacheOf is read under l.mu.
func load[T any](l *loader, cacheOf func(*loader) map[cacheKey]*Future[T], name, path string, read func(abs string) (T, error)) *Future[T] {
	var zero T
	abs, err := l.absPath(path)
	if err != nil {
		return Resolved(zero, fmt.Errorf("resolve %q: %w", path, err))
	}
	key := cacheKey{name: name, path: abs}

	l.submitMu.RLock()
	defer l.submitMu.RUnlock()

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return Resolved(zero, ErrClosed)
	}
	cache := cacheOf(l)
	if f, ok := cache[key]; ok {
		l.mu.Unlock()
		return f
	}
	f := newFuture[T]()
	cache[key] = f
	id := l.nextTask
	l.nextTask++
	l.inflight[id] = func() { f.resolve(zero, ErrClosed) }
	l.mu.Unlock()

	l.pool.SubmitTask(worker.Task{
		ID:      id,
		Payload: abs,
		Do: func() (any, error) {
			start := time.Now()
			value, err := safeRead(read, abs)
			if err != nil {
				err = fmt.Errorf("failed to load %s: %w", abs, err)
				l.logger.Warn("load failed", "name", name, "path", abs, "error", err)
			} else {
				l.logger.Debug("loaded", "name", name, "path", abs, "elapsed", time.Since(start))
			}
			l.forget(func() {
				delete(l.inflight, id)
				if err != nil {
					evict(cache, key, f)
				}
			})
			f.resolve(value, err)
			return nil, err
		},
	})
	return f
}

// safeRead runs read, converting a panic in a decoder into an error so it
// cannot take down a pool worker.
func safeRead[T any](read func(string) (T, error), path string) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoder panicked: %v", r)
		}
	}()
	return read(path)
}

// forget runs drop under the cache lock.
func (l *loader) forget(drop func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	drop()
}

// evict removes key from cache if it still maps to f.
func evict[T any](cache map[cacheKey]*Future[T], key cacheKey, f *Future[T]) {
	if cache[key] == f {
		delete(cache, key)
	}
}

// dropPath removes every entry of cache loaded from abs.
func dropPath[T any](cache map[cacheKey]*Future[T], abs string) int {
	n := 0
	for key := range cache {
		if key.path == abs {
			delete(cache, key)
			n++
		}
	}
	return n
}
