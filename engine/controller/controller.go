// Package controller owns the current scene state of an editing session.
//
// The controller is the only mutable cell in the scene core. It holds a
// pointer to the current immutable Snapshot; readers load it once and work on
// a consistent state for as long as they like, writers serialise through a
// single lock, derive the next Snapshot from the current one and publish it
// with one atomic store.
package controller

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/event"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/instance"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// controller is the implementation of the Controller interface.
type controller struct {
	current atomic.Pointer[scene.Snapshot]

	// writeMu serialises writers; undo and redo are guarded by it.
	writeMu      sync.Mutex
	undo         []*scene.Snapshot
	redo         []*scene.Snapshot
	historyDepth int

	// pending holds committed changes not yet delivered, in commit order.
	// delivering is set while one goroutine drains it. Both are guarded by
	// writeMu.
	pending    []event.Change
	delivering bool

	instanceIDs *ident.Pool
	lightIDs    *ident.Pool

	bus    event.Bus
	logger *slog.Logger
}

// Controller holds the current scene Snapshot and serialises all changes to it.
// Reads are a single atomic load and never block. Every successful change is
// published on the controller's bus after the new snapshot is visible, and
// listeners see changes in commit order. When writers race, the change of a
// later writer may be delivered by the goroutine already delivering, after the
// later writer has returned.
type Controller interface {
	// Snapshot returns the current snapshot.
	//
	// Returns:
	//   - *scene.Snapshot: the current state; never nil
	Snapshot() *scene.Snapshot

	// PutInstance adds i to the scene, replacing any instance with the same ID.
	//
	// Parameters:
	//   - i: the instance, built with instance.New
	//
	// Returns:
	//   - error: *common.PreconditionError if i is the zero Instance
	PutInstance(i instance.Instance) error

	// InstanceExists reports whether an instance with id is present.
	InstanceExists(id ident.ID) bool

	// InstanceGet returns the instance registered under id.
	//
	// Parameters:
	//   - id: the instance identifier
	//
	// Returns:
	//   - instance.Instance: the instance
	//   - bool: false if id is not present
	InstanceGet(id ident.ID) (instance.Instance, bool)

	// InstancesGetAll returns every instance in ascending ID order.
	InstancesGetAll() []instance.Instance

	// InstanceRemove removes the instance registered under id. Removing an
	// unknown ID is a no-op that publishes nothing.
	//
	// Parameters:
	//   - id: the instance identifier
	//
	// Returns:
	//   - bool: true if an instance was removed
	InstanceRemove(id ident.ID) bool

	// FreshInstanceID returns an instance ID that has never been issued.
	FreshInstanceID() ident.ID

	// PutLight adds l to the scene, replacing any light with the same ID.
	//
	// Parameters:
	//   - l: the light
	//
	// Returns:
	//   - error: *common.PreconditionError if l is nil
	PutLight(l light.Light) error

	// LightGet returns the light registered under id.
	LightGet(id ident.ID) (light.Light, bool)

	// LightsGetAll returns every light in ascending ID order.
	LightsGetAll() []light.Light

	// LightRemove removes the light registered under id; unknown IDs are a no-op.
	LightRemove(id ident.ID) bool

	// FreshLightID returns a light ID that has never been issued.
	FreshLightID() ident.ID

	// PutTexture registers t under its name, replacing any texture of that
	// name. Instances whose material names t are rebound to it.
	//
	// Parameters:
	//   - t: the loaded texture
	//
	// Returns:
	//   - error: *common.PreconditionError if t is nil
	PutTexture(t *model.Texture) error

	// TextureGet returns the texture registered under name.
	TextureGet(name string) (*model.Texture, bool)

	// TextureRemove removes the named texture; unknown names are a no-op.
	TextureRemove(name string) bool

	// PutModel registers m under its name, replacing any model of that name.
	//
	// Parameters:
	//   - m: the loaded model
	//
	// Returns:
	//   - error: *common.PreconditionError if m is nil
	PutModel(m *model.Model) error

	// ModelGet returns the model registered under name.
	ModelGet(name string) (*model.Model, bool)

	// ModelRemove removes the named model; unknown names are a no-op.
	ModelRemove(name string) bool

	// Replace swaps in a whole new snapshot, e.g. one built from a scene file.
	// The ID pools are advanced past every ID in s.
	//
	// Parameters:
	//   - s: the new snapshot
	//
	// Returns:
	//   - error: *common.PreconditionError if s is nil
	Replace(s *scene.Snapshot) error

	// Undo restores the snapshot before the most recent change.
	//
	// Returns:
	//   - bool: false if there is nothing to undo
	Undo() bool

	// Redo reapplies the most recently undone change.
	//
	// Returns:
	//   - bool: false if there is nothing to redo
	Redo() bool

	// AddListener registers l on the controller's bus.
	//
	// Parameters:
	//   - l: the listener
	//
	// Returns:
	//   - event.Handle: the handle to pass to RemoveListener
	AddListener(l event.Listener) event.Handle

	// RemoveListener unregisters a listener added with AddListener.
	RemoveListener(h event.Handle) bool
}

var _ Controller = &controller{}

// NewController creates a Controller holding an empty scene.
//
// Parameters:
//   - options: variadic list of ControllerBuilderOption functions
//
// Returns:
//   - Controller: the controller
func NewController(options ...ControllerBuilderOption) Controller {
	c := &controller{
		historyDepth: DefaultHistoryDepth,
		instanceIDs:  ident.NewPool(),
		lightIDs:     ident.NewPool(),
		logger:       slog.Default(),
	}
	c.current.Store(scene.Empty())
	for _, opt := range options {
		opt(c)
	}
	c.logger = c.logger.With("component", "controller")
	if c.bus == nil {
		c.bus = event.NewBus(event.WithLogger(c.logger))
	}
	if err := c.reserve(c.current.Load()); err != nil {
		panic("controller: initial snapshot: " + err.Error())
	}
	return c
}

func (c *controller) Snapshot() *scene.Snapshot {
	return c.current.Load()
}

func (c *controller) PutInstance(i instance.Instance) error {
	if i.Description() == (instance.Description{}) {
		return common.Preconditionf("instance", "must not be the zero Instance")
	}
	if !i.ID().Valid() {
		return common.Preconditionf("instance.id", "must be at most %s, got %s", ident.Max, i.ID())
	}
	c.instanceIDs.Reserve(i.ID())
	c.commit(event.CategoryInstance, func(s *scene.Snapshot) *scene.Snapshot {
		return s.AddInstance(i)
	})
	return nil
}

func (c *controller) InstanceExists(id ident.ID) bool {
	return c.current.Load().HasInstance(id)
}

func (c *controller) InstanceGet(id ident.ID) (instance.Instance, bool) {
	return c.current.Load().Instance(id)
}

func (c *controller) InstancesGetAll() []instance.Instance {
	return c.current.Load().Instances()
}

func (c *controller) InstanceRemove(id ident.ID) bool {
	return c.commit(event.CategoryInstance, func(s *scene.Snapshot) *scene.Snapshot {
		return s.RemoveInstance(id)
	})
}

func (c *controller) FreshInstanceID() ident.ID {
	return c.instanceIDs.Fresh()
}

func (c *controller) PutLight(l light.Light) error {
	if l == nil {
		return common.Preconditionf("light", "must not be nil")
	}
	if !l.ID().Valid() {
		return common.Preconditionf("light.id", "must be at most %s, got %s", ident.Max, l.ID())
	}
	c.lightIDs.Reserve(l.ID())
	c.commit(event.CategoryLight, func(s *scene.Snapshot) *scene.Snapshot {
		return s.AddLight(l)
	})
	return nil
}

func (c *controller) LightGet(id ident.ID) (light.Light, bool) {
	return c.current.Load().Light(id)
}

func (c *controller) LightsGetAll() []light.Light {
	return c.current.Load().Lights()
}

func (c *controller) LightRemove(id ident.ID) bool {
	return c.commit(event.CategoryLight, func(s *scene.Snapshot) *scene.Snapshot {
		return s.RemoveLight(id)
	})
}

func (c *controller) FreshLightID() ident.ID {
	return c.lightIDs.Fresh()
}

func (c *controller) PutTexture(t *model.Texture) error {
	if t == nil {
		return common.Preconditionf("texture", "must not be nil")
	}
	c.commit(event.CategoryTexture, func(s *scene.Snapshot) *scene.Snapshot {
		return s.RebindTexture(t)
	})
	return nil
}

func (c *controller) TextureGet(name string) (*model.Texture, bool) {
	return c.current.Load().Texture(name)
}

func (c *controller) TextureRemove(name string) bool {
	return c.commit(event.CategoryTexture, func(s *scene.Snapshot) *scene.Snapshot {
		return s.RemoveTexture(name)
	})
}

func (c *controller) PutModel(m *model.Model) error {
	if m == nil {
		return common.Preconditionf("model", "must not be nil")
	}
	c.commit(event.CategoryModel, func(s *scene.Snapshot) *scene.Snapshot {
		return s.AddModel(m)
	})
	return nil
}

func (c *controller) ModelGet(name string) (*model.Model, bool) {
	return c.current.Load().Model(name)
}

func (c *controller) ModelRemove(name string) bool {
	return c.commit(event.CategoryModel, func(s *scene.Snapshot) *scene.Snapshot {
		return s.RemoveModel(name)
	})
}

func (c *controller) Replace(s *scene.Snapshot) error {
	if s == nil {
		return common.Preconditionf("snapshot", "must not be nil")
	}
	if err := c.reserve(s); err != nil {
		return err
	}
	c.commit(event.CategoryScene, func(*scene.Snapshot) *scene.Snapshot {
		return s
	})
	return nil
}

func (c *controller) Undo() bool {
	return c.step(&c.undo, &c.redo, "undo")
}

func (c *controller) Redo() bool {
	return c.step(&c.redo, &c.undo, "redo")
}

func (c *controller) AddListener(l event.Listener) event.Handle {
	return c.bus.AddListener(l)
}

func (c *controller) RemoveListener(h event.Handle) bool {
	return c.bus.RemoveListener(h)
}

// commit derives the next snapshot from the current one under the write lock
// and queues it for delivery. If update returns its argument nothing is recorded or
// published.
//
// Parameters:
//   - category: the category reported to listeners
//   - update: computes the next snapshot from the current one
//
// Returns:
//   - bool: true if a new snapshot was committed
func (c *controller) commit(category event.Category, update func(*scene.Snapshot) *scene.Snapshot) bool {
	c.writeMu.Lock()
	prev := c.current.Load()
	next := update(prev)
	if next == prev {
		c.writeMu.Unlock()
		return false
	}
	c.current.Store(next)
	c.pushHistory(prev)
	c.redo = nil
	c.logger.Debug("commit", "category", category.String(),
		"instances", next.InstanceCount(), "lights", next.LightCount())
	c.enqueue(event.Change{Category: category, Snapshot: next, Previous: prev})
	return true
}

// step pops a snapshot from one history stack, pushes the current one onto the
// other and makes the popped snapshot current.
func (c *controller) step(from, to *[]*scene.Snapshot, action string) bool {
	c.writeMu.Lock()
	if len(*from) == 0 {
		c.writeMu.Unlock()
		return false
	}
	last := len(*from) - 1
	next := (*from)[last]
	(*from)[last] = nil
	*from = (*from)[:last]

	prev := c.current.Load()
	*to = append(*to, prev)
	c.current.Store(next)
	c.logger.Debug(action, "instances", next.InstanceCount(), "lights", next.LightCount())
	c.enqueue(event.Change{Category: event.CategoryScene, Snapshot: next, Previous: prev})
	return true
}

// enqueue queues ch behind every change committed before it and releases
// writeMu. If no other goroutine is delivering, the caller drains the queue.
// Listeners run without writeMu held, so they may write to the controller;
// such writes are delivered after the current listener round.
//
// Callers must hold writeMu.
func (c *controller) enqueue(ch event.Change) {
	c.pending = append(c.pending, ch)
	if c.delivering {
		c.writeMu.Unlock()
		return
	}
	c.delivering = true
	for {
		next := c.pending[0]
		c.pending[0] = event.Change{}
		c.pending = c.pending[1:]
		c.writeMu.Unlock()

		c.bus.Publish(next)

		c.writeMu.Lock()
		if len(c.pending) == 0 {
			c.pending = nil
			c.delivering = false
			c.writeMu.Unlock()
			return
		}
	}
}

// pushHistory records s as an undo step, dropping the oldest step beyond the
// configured depth. Callers must hold writeMu.
func (c *controller) pushHistory(s *scene.Snapshot) {
	if c.historyDepth == 0 {
		return
	}
	if len(c.undo) == c.historyDepth {
		copy(c.undo, c.undo[1:])
		c.undo[len(c.undo)-1] = nil
		c.undo = c.undo[:len(c.undo)-1]
	}
	c.undo = append(c.undo, s)
}

// reserve advances the ID pools past every identifier in s so that fresh IDs
// never collide with loaded ones. Nothing is reserved if any identifier in s
// is above ident.Max.
func (c *controller) reserve(s *scene.Snapshot) error {
	instanceID, hasInstances := s.MaxInstanceID()
	if hasInstances && !instanceID.Valid() {
		return common.Preconditionf("snapshot.instance.id", "must be at most %s, got %s", ident.Max, instanceID)
	}
	lightID, hasLights := s.MaxLightID()
	if hasLights && !lightID.Valid() {
		return common.Preconditionf("snapshot.light.id", "must be at most %s, got %s", ident.Max, lightID)
	}
	if hasInstances {
		c.instanceIDs.Reserve(instanceID)
	}
	if hasLights {
		c.lightIDs.Reserve(lightID)
	}
	return nil
}
