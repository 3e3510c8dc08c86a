// Package model holds the resource types of a scene: textures, meshes and the
// named models instances render, together with their serialisable descriptions.
package model

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Model is a resolved ModelDescription: a name bound to a loaded Mesh.
type Model struct {
	description ModelDescription
	mesh        *Mesh
}

// NewModel pairs a description with its loaded mesh.
//
// Parameters:
//   - desc: the model description
//   - mesh: the loaded mesh (must not be nil)
//
// Returns:
//   - *Model: the model
//   - error: *common.PreconditionError if mesh is nil or was loaded from a different path
func NewModel(desc ModelDescription, mesh *Mesh) (*Model, error) {
	if desc == (ModelDescription{}) {
		return nil, common.Preconditionf("model.description", "must be set")
	}
	if mesh == nil {
		return nil, common.Preconditionf("model.mesh", "must not be nil")
	}
	if mesh.description.path != desc.mesh.path {
		return nil, common.Preconditionf("model.mesh", "mesh %q was loaded from %q, description expects %q",
			mesh.description.name, mesh.description.path, desc.mesh.path)
	}
	return &Model{description: desc, mesh: mesh}, nil
}

// Description returns the description the model was built from.
func (m *Model) Description() ModelDescription {
	return m.description
}

// Name returns the model name instances refer to.
func (m *Model) Name() string {
	return m.description.name
}

// Mesh returns the mesh that provides the geometry.
func (m *Model) Mesh() *Mesh {
	return m.mesh
}
