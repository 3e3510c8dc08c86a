// Package scene holds the immutable state of a scene.
//
// A Snapshot is a value composed of four persistent maps: textures and models
// keyed by name, lights and instances keyed by identifier. Every "add" or
// "remove" returns a new Snapshot that shares all untouched structure with the
// receiver, so holding on to an old Snapshot is cheap and it never changes
// underneath its reader.
package scene

import (
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/instance"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/pmap"
)

// Snapshot is an immutable scene state. The zero value is an empty scene.
// A *Snapshot is never modified once returned, so it may be shared freely
// between goroutines.
type Snapshot struct {
	textures  pmap.Map[string, *model.Texture]
	models    pmap.Map[string, *model.Model]
	lights    pmap.Map[ident.ID, light.Light]
	instances pmap.Map[ident.ID, instance.Instance]
}

// Empty returns a snapshot with no entries.
//
// Returns:
//   - *Snapshot: the empty snapshot
func Empty() *Snapshot {
	return &Snapshot{}
}

// clone returns a shallow copy of s. Copying a Snapshot copies four map roots.
func (s *Snapshot) clone() *Snapshot {
	c := *s
	return &c
}

// AddTexture returns a snapshot in which t is registered under its name,
// replacing any texture of the same name.
//
// Parameters:
//   - t: the loaded texture (must not be nil)
//
// Returns:
//   - *Snapshot: the new snapshot
func (s *Snapshot) AddTexture(t *model.Texture) *Snapshot {
	if t == nil {
		panic("scene: AddTexture with nil texture")
	}
	c := s.clone()
	c.textures = s.textures.With(t.Name(), t)
	return c
}

// RebindTexture returns a snapshot in which t is registered under its name
// and every instance whose material names t is bound to it. Use it when a
// texture is reloaded so instances stop rendering the stale one.
//
// Parameters:
//   - t: the loaded texture (must not be nil)
//
// Returns:
//   - *Snapshot: the new snapshot
func (s *Snapshot) RebindTexture(t *model.Texture) *Snapshot {
	c := s.AddTexture(t)
	for id, i := range s.instances.All() {
		if mat, changed := i.Material().Rebind(t); changed {
			c.instances = c.instances.With(id, i.WithMaterial(mat))
		}
	}
	return c
}

// AddModel returns a snapshot in which m is registered under its name,
// replacing any model of the same name.
//
// Parameters:
//   - m: the loaded model (must not be nil)
//
// Returns:
//   - *Snapshot: the new snapshot
func (s *Snapshot) AddModel(m *model.Model) *Snapshot {
	if m == nil {
		panic("scene: AddModel with nil model")
	}
	c := s.clone()
	c.models = s.models.With(m.Name(), m)
	return c
}

// AddLight returns a snapshot in which l is registered under its identifier,
// replacing any light with the same identifier.
//
// Parameters:
//   - l: the light (must not be nil)
//
// Returns:
//   - *Snapshot: the new snapshot
func (s *Snapshot) AddLight(l light.Light) *Snapshot {
	if l == nil {
		panic("scene: AddLight with nil light")
	}
	c := s.clone()
	c.lights = s.lights.With(l.ID(), l)
	return c
}

// AddInstance returns a snapshot in which i is registered under its
// identifier, replacing any instance with the same identifier.
//
// Parameters:
//   - i: the instance
//
// Returns:
//   - *Snapshot: the new snapshot
func (s *Snapshot) AddInstance(i instance.Instance) *Snapshot {
	c := s.clone()
	c.instances = s.instances.With(i.ID(), i)
	return c
}

// RemoveTexture returns a snapshot without the named texture. Instances that
// still reference it are left in place. If the name is not present s itself is
// returned.
func (s *Snapshot) RemoveTexture(name string) *Snapshot {
	m := s.textures.Without(name)
	if m == s.textures {
		return s
	}
	c := s.clone()
	c.textures = m
	return c
}

// RemoveModel returns a snapshot without the named model, or s itself if the
// name is not present.
func (s *Snapshot) RemoveModel(name string) *Snapshot {
	m := s.models.Without(name)
	if m == s.models {
		return s
	}
	c := s.clone()
	c.models = m
	return c
}

// RemoveLight returns a snapshot without the light, or s itself if the
// identifier is not present.
func (s *Snapshot) RemoveLight(id ident.ID) *Snapshot {
	m := s.lights.Without(id)
	if m == s.lights {
		return s
	}
	c := s.clone()
	c.lights = m
	return c
}

// RemoveInstance returns a snapshot without the instance, or s itself if the
// identifier is not present.
func (s *Snapshot) RemoveInstance(id ident.ID) *Snapshot {
	m := s.instances.Without(id)
	if m == s.instances {
		return s
	}
	c := s.clone()
	c.instances = m
	return c
}

// Texture looks up a texture by name.
//
// Parameters:
//   - name: the texture name
//
// Returns:
//   - *model.Texture: the texture, or nil
//   - bool: false if no texture has that name
func (s *Snapshot) Texture(name string) (*model.Texture, bool) {
	return s.textures.Get(name)
}

// Model looks up a model by name.
//
// Parameters:
//   - name: the model name
//
// Returns:
//   - *model.Model: the model, or nil
//   - bool: false if no model has that name
func (s *Snapshot) Model(name string) (*model.Model, bool) {
	return s.models.Get(name)
}

// Light looks up a light by identifier.
//
// Parameters:
//   - id: the light identifier
//
// Returns:
//   - light.Light: the light, or nil
//   - bool: false if the identifier is not present
func (s *Snapshot) Light(id ident.ID) (light.Light, bool) {
	return s.lights.Get(id)
}

// Instance looks up an instance by identifier.
//
// Parameters:
//   - id: the instance identifier
//
// Returns:
//   - instance.Instance: the instance, or the zero Instance
//   - bool: false if the identifier is not present
func (s *Snapshot) Instance(id ident.ID) (instance.Instance, bool) {
	return s.instances.Get(id)
}

// HasInstance reports whether an instance with the identifier is present.
func (s *Snapshot) HasInstance(id ident.ID) bool {
	return s.instances.Has(id)
}

// Textures returns every texture in ascending name order.
func (s *Snapshot) Textures() []*model.Texture {
	return s.textures.Values()
}

// Models returns every model in ascending name order.
func (s *Snapshot) Models() []*model.Model {
	return s.models.Values()
}

// Lights returns every light in ascending identifier order.
func (s *Snapshot) Lights() []light.Light {
	return s.lights.Values()
}

// Instances returns every instance in ascending identifier order.
func (s *Snapshot) Instances() []instance.Instance {
	return s.instances.Values()
}

// TextureCount returns the number of textures in the snapshot.
func (s *Snapshot) TextureCount() int {
	return s.textures.Len()
}

// ModelCount returns the number of models in the snapshot.
func (s *Snapshot) ModelCount() int {
	return s.models.Len()
}

// LightCount returns the number of lights in the snapshot.
func (s *Snapshot) LightCount() int {
	return s.lights.Len()
}

// InstanceCount returns the number of instances in the snapshot.
func (s *Snapshot) InstanceCount() int {
	return s.instances.Len()
}

// MaxLightID returns the greatest light identifier present.
//
// Returns:
//   - ident.ID: the greatest identifier
//   - bool: false if there are no lights
func (s *Snapshot) MaxLightID() (ident.ID, bool) {
	id, _, ok := s.lights.Last()
	return id, ok
}

// MaxInstanceID returns the greatest instance identifier present.
//
// Returns:
//   - ident.ID: the greatest identifier
//   - bool: false if there are no instances
func (s *Snapshot) MaxInstanceID() (ident.ID, bool) {
	id, _, ok := s.instances.Last()
	return id, ok
}

// Equal reports whether s and other hold the same entries. Textures and models
// compare by identity; lights and instances compare by value.
//
// Parameters:
//   - other: the snapshot to compare with
//
// Returns:
//   - bool: true if both snapshots have the same content
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.textures.Equal(other.textures, func(a, b *model.Texture) bool { return a == b }) &&
		s.models.Equal(other.models, func(a, b *model.Model) bool { return a == b }) &&
		s.lights.Equal(other.lights, func(a, b light.Light) bool { return a == b }) &&
		s.instances.Equal(other.instances, func(a, b instance.Instance) bool { return a == b })
}
