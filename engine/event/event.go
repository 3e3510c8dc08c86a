// Package event delivers scene change notifications to listeners.
package event

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// Category says which part of a scene a change touched.
type Category int

const (
	CategoryInstance Category = iota
	CategoryLight
	CategoryModel
	CategoryTexture
	// CategoryScene covers changes that replace the whole snapshot, such as
	// opening a file or undo/redo.
	CategoryScene
)

func (c Category) String() string {
	switch c {
	case CategoryInstance:
		return "instance"
	case CategoryLight:
		return "light"
	case CategoryModel:
		return "model"
	case CategoryTexture:
		return "texture"
	case CategoryScene:
		return "scene"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Change is a committed scene change. Snapshot is the state after the change
// and Previous the state it replaced.
type Change struct {
	Category Category
	Snapshot *scene.Snapshot
	Previous *scene.Snapshot
}

// Listener is notified of committed changes. A returned error is logged and
// does not stop delivery to other listeners.
type Listener func(Change) error

// Handle identifies a registered listener.
type Handle uint64

// listenerEntry pairs a listener with the handle it was registered under.
type listenerEntry struct {
	handle   Handle
	listener Listener
}

// bus is the implementation of the Bus interface.
type bus struct {
	mu        sync.RWMutex
	listeners []listenerEntry
	next      Handle
	logger    *slog.Logger
}

// Bus fans committed changes out to listeners. Listeners are invoked
// synchronously on the publishing goroutine in registration order. A listener
// that fails or panics is logged and skipped; the remaining listeners still run.
type Bus interface {
	// AddListener registers l.
	//
	// Parameters:
	//   - l: the listener (must not be nil)
	//
	// Returns:
	//   - Handle: the handle to pass to RemoveListener
	AddListener(l Listener) Handle

	// RemoveListener unregisters the listener registered under h.
	//
	// Parameters:
	//   - h: the handle returned by AddListener
	//
	// Returns:
	//   - bool: false if no listener is registered under h
	RemoveListener(h Handle) bool

	// Publish delivers c to every listener registered when Publish is called.
	//
	// Parameters:
	//   - c: the change to deliver
	Publish(c Change)

	// Len returns the number of registered listeners.
	Len() int
}

var _ Bus = &bus{}

// NewBus creates a new Bus with no listeners.
//
// Parameters:
//   - options: variadic list of BusBuilderOption functions
//
// Returns:
//   - Bus: the bus
func NewBus(options ...BusBuilderOption) Bus {
	b := &bus{
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(b)
	}
	b.logger = b.logger.With("component", "bus")
	return b
}

func (b *bus) AddListener(l Listener) Handle {
	if l == nil {
		panic("event: AddListener with nil listener")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.next
	b.next++
	b.listeners = append(b.listeners, listenerEntry{handle: h, listener: l})
	return h
}

func (b *bus) RemoveListener(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.listeners {
		if e.handle == h {
			// copy so a concurrent Publish keeps iterating its own slice
			next := make([]listenerEntry, 0, len(b.listeners)-1)
			next = append(next, b.listeners[:i]...)
			b.listeners = append(next, b.listeners[i+1:]...)
			return true
		}
	}
	return false
}

func (b *bus) Publish(c Change) {
	b.mu.RLock()
	listeners := b.listeners
	b.mu.RUnlock()

	for _, e := range listeners {
		if err := b.deliver(e, c); err != nil {
			b.logger.Warn("listener failed",
				"handle", uint64(e.handle),
				"category", c.Category.String(),
				"error", err)
		}
	}
}

func (b *bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// deliver invokes one listener, converting a panic into an error.
func (b *bus) deliver(e listenerEntry, c Change) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return e.listener(c)
}
