package controller

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/event"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// DefaultHistoryDepth is the number of undo steps kept when no depth is configured.
const DefaultHistoryDepth = 64

// ControllerBuilderOption is a functional option for configuring a Controller during construction.
type ControllerBuilderOption func(*controller)

// WithHistoryDepth sets how many prior snapshots Undo can step back through.
//
// Parameters:
//   - depth: the number of snapshots to keep; 0 disables undo
//
// Returns:
//   - ControllerBuilderOption: a function that applies the history option
func WithHistoryDepth(depth int) ControllerBuilderOption {
	return func(c *controller) {
		c.historyDepth = max(depth, 0)
	}
}

// WithBus sets the bus changes are published on. Share a bus to let several
// components observe one controller through a single registration point.
//
// Parameters:
//   - bus: the bus
//
// Returns:
//   - ControllerBuilderOption: a function that applies the bus option
func WithBus(bus event.Bus) ControllerBuilderOption {
	return func(c *controller) {
		c.bus = bus
	}
}

// WithInitialSnapshot sets the snapshot the controller starts from.
//
// Parameters:
//   - s: the initial snapshot (nil keeps the empty scene)
//
// Returns:
//   - ControllerBuilderOption: a function that applies the snapshot option
func WithInitialSnapshot(s *scene.Snapshot) ControllerBuilderOption {
	return func(c *controller) {
		if s != nil {
			c.current.Store(s)
		}
	}
}

// WithLogger sets the logger commits are reported to.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - ControllerBuilderOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}
