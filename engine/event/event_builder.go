package event

import "log/slog"

// BusBuilderOption is a functional option for configuring a Bus during construction.
type BusBuilderOption func(*bus)

// WithLogger sets the logger listener failures are reported to.
//
// Parameters:
//   - logger: the logger; nil keeps slog.Default()
//
// Returns:
//   - BusBuilderOption: a function that applies the logger option
func WithLogger(logger *slog.Logger) BusBuilderOption {
	return func(b *bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}
