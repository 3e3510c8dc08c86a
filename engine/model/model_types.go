package model

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// MeshDescription names a mesh file. It is the serialisable half of a Mesh:
// the loader turns a MeshDescription into a Mesh.
type MeshDescription struct {
	name string
	path string
}

// NewMeshDescription creates a MeshDescription.
//
// Parameters:
//   - name: the name the mesh is registered under (must not be empty)
//   - path: the file the mesh is loaded from (must not be empty)
//
// Returns:
//   - MeshDescription: the description
//   - error: *common.PreconditionError if name or path is empty
func NewMeshDescription(name, path string) (MeshDescription, error) {
	if strings.TrimSpace(name) == "" {
		return MeshDescription{}, common.Preconditionf("mesh.name", "must not be empty")
	}
	if strings.TrimSpace(path) == "" {
		return MeshDescription{}, common.Preconditionf("mesh.path", "must not be empty")
	}
	return MeshDescription{name: name, path: path}, nil
}

// Name returns the mesh name.
func (d MeshDescription) Name() string {
	return d.name
}

// Path returns the mesh file path as written.
func (d MeshDescription) Path() string {
	return d.path
}

// ModelDescription binds a model name to the mesh that provides its geometry.
// Instances refer to models by name.
type ModelDescription struct {
	name string
	mesh MeshDescription
}

// NewModelDescription creates a ModelDescription.
//
// Parameters:
//   - name: the model name (must not be empty)
//   - mesh: the mesh the model renders
//
// Returns:
//   - ModelDescription: the description
//   - error: *common.PreconditionError if name is empty or mesh is the zero description
func NewModelDescription(name string, mesh MeshDescription) (ModelDescription, error) {
	if strings.TrimSpace(name) == "" {
		return ModelDescription{}, common.Preconditionf("model.name", "must not be empty")
	}
	if mesh == (MeshDescription{}) {
		return ModelDescription{}, common.Preconditionf("model.mesh", "must be set")
	}
	return ModelDescription{name: name, mesh: mesh}, nil
}

// Name returns the model name.
func (d ModelDescription) Name() string {
	return d.name
}

// Mesh returns the mesh the model renders.
func (d ModelDescription) Mesh() MeshDescription {
	return d.mesh
}

// TextureDescription names an image file used as a texture.
type TextureDescription struct {
	name string
	path string
}

// NewTextureDescription creates a TextureDescription.
//
// Parameters:
//   - name: the name materials use to refer to the texture (must not be empty)
//   - path: the image file (must not be empty)
//
// Returns:
//   - TextureDescription: the description
//   - error: *common.PreconditionError if name or path is empty
func NewTextureDescription(name, path string) (TextureDescription, error) {
	if strings.TrimSpace(name) == "" {
		return TextureDescription{}, common.Preconditionf("texture.name", "must not be empty")
	}
	if strings.TrimSpace(path) == "" {
		return TextureDescription{}, common.Preconditionf("texture.path", "must not be empty")
	}
	return TextureDescription{name: name, path: path}, nil
}

// Name returns the texture name.
func (d TextureDescription) Name() string {
	return d.name
}

// Path returns the image file path as written.
func (d TextureDescription) Path() string {
	return d.path
}
