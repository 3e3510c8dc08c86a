package loader

import (
	"context"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/controller"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// Resource is a loaded value that can be stored in a controller.
type Resource interface {
	*model.Texture | *model.Model
}

// ResolveInto waits for f and stores the loaded resource in ctrl under its
// own name. If the load fails, ctx ends first, or the controller rejects the
// value, the controller is left unchanged and the error is returned.
//
// Parameters:
//   - ctx: bounds the wait
//   - ctrl: the controller receiving the resource
//   - f: the pending load
//
// Returns:
//   - error: the load, context or controller error
func ResolveInto[T Resource](ctx context.Context, ctrl controller.Controller, f *Future[T]) error {
	value, err := f.Wait(ctx)
	if err != nil {
		return err
	}
	switch v := any(value).(type) {
	case *model.Texture:
		err = ctrl.PutTexture(v)
	case *model.Model:
		err = ctrl.PutModel(v)
	}
	if err != nil {
		return fmt.Errorf("store resource: %w", err)
	}
	return nil
}
