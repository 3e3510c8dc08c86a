// Package instance describes placed copies of a model in a scene.
package instance

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/material"
)

// Description is the placement of a model: where it is, how it is oriented and
// scaled, how its texture coordinates are transformed and whether it is lit.
// Descriptions are immutable and comparable with ==.
type Description struct {
	position    mgl32.Vec3
	scale       mgl32.Vec3
	orientation mgl32.Quat
	uvMatrix    mgl32.Mat3
	model       string
	lit         bool
}

// NewDescription creates a Description of an instance of the named model.
// Unless overridden the instance sits at the origin with unit scale, identity
// orientation and UV transform, and is lit.
//
// Parameters:
//   - model: the name of the model to render (must not be empty)
//   - options: variadic list of DescriptionBuilderOption functions
//
// Returns:
//   - Description: the description
//   - error: *common.PreconditionError for an empty model name, a zero scale
//     component or a zero orientation
func NewDescription(model string, options ...DescriptionBuilderOption) (Description, error) {
	d := Description{
		scale:       mgl32.Vec3{1, 1, 1},
		orientation: mgl32.QuatIdent(),
		uvMatrix:    mgl32.Ident3(),
		model:       model,
		lit:         true,
	}
	for _, opt := range options {
		opt(&d)
	}

	if strings.TrimSpace(d.model) == "" {
		return Description{}, common.Preconditionf("instance.model", "must not be empty")
	}
	for i, s := range d.scale {
		if s == 0 || math.IsNaN(float64(s)) {
			return Description{}, common.Preconditionf("instance.scale", "component %d must be non-zero, got %v", i, s)
		}
	}
	if l := d.orientation.Len(); l == 0 || math.IsNaN(float64(l)) {
		return Description{}, common.Preconditionf("instance.orientation", "must be a non-zero quaternion")
	}
	d.orientation = common.UnitQuat(d.orientation)
	return d, nil
}

// Position returns the world-space translation.
func (d Description) Position() mgl32.Vec3 {
	return d.position
}

// Scale returns the per-axis scale; no component is zero.
func (d Description) Scale() mgl32.Vec3 {
	return d.scale
}

// Orientation returns the unit rotation quaternion.
func (d Description) Orientation() mgl32.Quat {
	return d.orientation
}

// UVMatrix returns the transform applied to texture coordinates.
func (d Description) UVMatrix() mgl32.Mat3 {
	return d.uvMatrix
}

// Model returns the name of the model the instance renders.
func (d Description) Model() string {
	return d.model
}

// Lit reports whether lights affect the instance.
func (d Description) Lit() bool {
	return d.lit
}

// Transform returns the model matrix T * R * S.
//
// Returns:
//   - mgl32.Mat4: the model-to-world transform
func (d Description) Transform() mgl32.Mat4 {
	t := mgl32.Translate3D(d.position[0], d.position[1], d.position[2])
	s := mgl32.Scale3D(d.scale[0], d.scale[1], d.scale[2])
	return t.Mul4(d.orientation.Mat4()).Mul4(s)
}

// Instance is a Description and the Material it is rendered with, registered
// under an identifier. An Instance owns its Material. Instances are comparable
// with ==.
type Instance struct {
	id          ident.ID
	description Description
	material    material.Material
}

// New creates an Instance.
//
// Parameters:
//   - id: the identifier within the instance namespace
//   - desc: the placement description (must be built with NewDescription)
//   - mat: the resolved material
//
// Returns:
//   - Instance: the instance
//   - error: *common.PreconditionError if id is above ident.Max or desc is the zero Description
func New(id ident.ID, desc Description, mat material.Material) (Instance, error) {
	if !id.Valid() {
		return Instance{}, common.Preconditionf("instance.id", "must be at most %s, got %s", ident.Max, id)
	}
	if desc == (Description{}) {
		return Instance{}, common.Preconditionf("instance.description", "must be set")
	}
	return Instance{id: id, description: desc, material: mat}, nil
}

// ID returns the identifier within the instance namespace.
func (i Instance) ID() ident.ID {
	return i.id
}

// Description returns the placement description.
func (i Instance) Description() Description {
	return i.description
}

// Material returns the resolved material.
func (i Instance) Material() material.Material {
	return i.material
}

// Transform returns the model matrix of the instance.
func (i Instance) Transform() mgl32.Mat4 {
	return i.description.Transform()
}

// WithID returns a copy of the instance registered under a different identifier.
func (i Instance) WithID(id ident.ID) Instance {
	i.id = id
	return i
}

// WithMaterial returns a copy of the instance rendered with a different material.
func (i Instance) WithMaterial(mat material.Material) Instance {
	i.material = mat
	return i
}
