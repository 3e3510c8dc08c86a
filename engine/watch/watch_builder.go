package watch

import (
	"log/slog"
	"time"
)

// WatcherBuilderOption is a functional option for configuring a Watcher via NewWatcher.
type WatcherBuilderOption func(*watcher)

// WithDebounce sets how long a file must stay quiet before it is reloaded.
//
// Parameters:
//   - d: the quiet period; negative values are treated as 0
//
// Returns:
//   - WatcherBuilderOption: a function that applies the debounce option to a watcher
func WithDebounce(d time.Duration) WatcherBuilderOption {
	return func(w *watcher) {
		w.debounce = max(d, 0)
	}
}

// WithTimeout bounds how long a single reload may take.
//
// Parameters:
//   - d: the timeout
//
// Returns:
//   - WatcherBuilderOption: a function that applies the timeout option to a watcher
func WithTimeout(d time.Duration) WatcherBuilderOption {
	return func(w *watcher) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithOnReload registers a callback invoked after every reload attempt. It
// runs on the reload goroutine and must not block.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - WatcherBuilderOption: a function that applies the callback option to a watcher
func WithOnReload(fn func(Reload)) WatcherBuilderOption {
	return func(w *watcher) {
		w.onReload = fn
	}
}

// WithLogger sets the logger reloads are reported to.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - WatcherBuilderOption: a function that applies the logger option to a watcher
func WithLogger(logger *slog.Logger) WatcherBuilderOption {
	return func(w *watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}
