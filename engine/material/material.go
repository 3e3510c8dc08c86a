// Package material describes surfaces. A Description is the serialisable
// configuration of a surface; a Material pairs a Description with the textures
// it names once they are loaded.
package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// Slot identifies a texture binding point of a material.
type Slot int

const (
	SlotAlbedo Slot = iota
	SlotAlpha
	SlotSpecular
	SlotEmissive
	SlotEnvironment
	SlotNormal

	slotCount
)

// Slots lists every slot in binding order.
var Slots = [slotCount]Slot{SlotAlbedo, SlotAlpha, SlotSpecular, SlotEmissive, SlotEnvironment, SlotNormal}

func (s Slot) String() string {
	switch s {
	case SlotAlbedo:
		return "albedo"
	case SlotAlpha:
		return "alpha"
	case SlotSpecular:
		return "specular"
	case SlotEmissive:
		return "emissive"
	case SlotEnvironment:
		return "environment"
	case SlotNormal:
		return "normal"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// Description is the full surface configuration. Descriptions are immutable
// and comparable with ==.
type Description struct {
	albedo      Albedo
	alpha       Alpha
	specular    Specular
	emissive    Emissive
	environment Environment
	normal      Normal
}

// NewDescription creates a Description from the defaults (opaque white,
// untextured) with the given sub-descriptions applied.
//
// Parameters:
//   - options: variadic list of DescriptionBuilderOption functions
//
// Returns:
//   - Description: the description
func NewDescription(options ...DescriptionBuilderOption) Description {
	d := defaultDescription()
	for _, opt := range options {
		opt(&d)
	}
	return d
}

// Albedo returns the albedo sub-description.
func (d Description) Albedo() Albedo {
	return d.albedo
}

// Alpha returns the alpha sub-description.
func (d Description) Alpha() Alpha {
	return d.alpha
}

// Specular returns the specular sub-description.
func (d Description) Specular() Specular {
	return d.specular
}

// Emissive returns the emissive sub-description.
func (d Description) Emissive() Emissive {
	return d.emissive
}

// Environment returns the environment sub-description.
func (d Description) Environment() Environment {
	return d.environment
}

// Normal returns the normal-map sub-description.
func (d Description) Normal() Normal {
	return d.normal
}

// TextureName returns the texture name bound to slot, or "".
//
// Parameters:
//   - slot: the slot to read
//
// Returns:
//   - string: the texture name
func (d Description) TextureName(slot Slot) string {
	switch slot {
	case SlotAlbedo:
		return d.albedo.texture
	case SlotAlpha:
		return d.alpha.texture
	case SlotSpecular:
		return d.specular.texture
	case SlotEmissive:
		return d.emissive.texture
	case SlotEnvironment:
		return d.environment.texture
	case SlotNormal:
		return d.normal.texture
	default:
		return ""
	}
}

// TextureNames returns the distinct texture names the description references,
// in slot order.
func (d Description) TextureNames() []string {
	var names []string
	seen := map[string]bool{}
	for _, s := range Slots {
		if n := d.TextureName(s); n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	return names
}

// Material is a Description with its textures resolved. An Instance owns its
// Material exclusively; the textures themselves are shared with the scene.
// Materials are comparable with ==; textures compare by identity.
type Material struct {
	description Description
	textures    [slotCount]*model.Texture
}

// TextureLookup resolves a texture by name.
type TextureLookup func(name string) (*model.Texture, bool)

// Resolve binds every texture the description names using lookup.
//
// Parameters:
//   - desc: the material description
//   - lookup: resolves texture names, typically Snapshot.Texture
//
// Returns:
//   - Material: the resolved material
//   - error: *common.PreconditionError naming the first texture that cannot be resolved
func Resolve(desc Description, lookup TextureLookup) (Material, error) {
	m := Material{description: desc}
	for _, s := range Slots {
		name := desc.TextureName(s)
		if name == "" {
			continue
		}
		tex, ok := lookup(name)
		if !ok || tex == nil {
			return Material{}, common.Preconditionf(s.String()+".texture", "texture %q is not loaded", name)
		}
		m.textures[s] = tex
	}
	return m, nil
}

// Untextured builds a Material from a description that references no textures.
//
// Parameters:
//   - desc: the material description
//
// Returns:
//   - Material: the material
//   - error: *common.PreconditionError if desc names any texture
func Untextured(desc Description) (Material, error) {
	return Resolve(desc, func(string) (*model.Texture, bool) { return nil, false })
}

// Description returns the description the material was resolved from.
func (m Material) Description() Description {
	return m.description
}

// Texture returns the texture bound to slot, or nil.
func (m Material) Texture(slot Slot) *model.Texture {
	if slot < 0 || slot >= slotCount {
		return nil
	}
	return m.textures[slot]
}

// Rebind returns a copy of m with every slot that names t bound to t.
//
// Parameters:
//   - t: the replacement texture
//
// Returns:
//   - Material: the rebound material
//   - bool: true if any slot changed
func (m Material) Rebind(t *model.Texture) (Material, bool) {
	changed := false
	for _, s := range Slots {
		if m.description.TextureName(s) == t.Name() && m.textures[s] != t {
			m.textures[s] = t
			changed = true
		}
	}
	return m, changed
}
