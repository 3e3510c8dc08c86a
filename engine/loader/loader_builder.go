package loader

import (
	"log/slog"
	"time"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the maximum number of files decoded concurrently.
//
// Parameters:
//   - n: the worker count; values below 1 are raised to 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the workers option to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = max(n, 1)
	}
}

// WithQueueSize sets how many loads may wait for a worker before LoadMesh and
// LoadTexture block.
//
// Parameters:
//   - n: the queue capacity
//
// Returns:
//   - LoaderBuilderOption: a function that applies the queue option to a loader
func WithQueueSize(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.queueSize = max(n, 0)
	}
}

// WithIdleTimeout sets the idle timeout handed to the worker pool.
//
// Parameters:
//   - d: the idle timeout
//
// Returns:
//   - LoaderBuilderOption: a function that applies the timeout option to a loader
func WithIdleTimeout(d time.Duration) LoaderBuilderOption {
	return func(l *loader) {
		l.idleTimeout = d
	}
}

// WithRoot sets the directory relative resource paths are resolved against.
// By default they are resolved against the working directory.
//
// Parameters:
//   - dir: the root directory
//
// Returns:
//   - LoaderBuilderOption: a function that applies the root option to a loader
func WithRoot(dir string) LoaderBuilderOption {
	return func(l *loader) {
		l.root = dir
	}
}

// WithMaxTextureSize downscales textures whose width or height exceeds size.
//
// Parameters:
//   - size: the largest allowed side in texels; 0 disables scaling
//
// Returns:
//   - LoaderBuilderOption: a function that applies the texture size option to a loader
func WithMaxTextureSize(size int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxTextureSize = max(size, 0)
	}
}

// WithLogger sets the logger load failures are reported to.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
