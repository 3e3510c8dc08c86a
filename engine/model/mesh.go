package model

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Vertex is a single interleaved mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// VertexStride is the size in bytes of one interleaved Vertex.
const VertexStride = int(unsafe.Sizeof(Vertex{}))

// Mesh is loaded triangle geometry paired with the MeshDescription it was
// loaded from. The vertex and index slices are read-only once the Mesh is built.
type Mesh struct {
	description MeshDescription
	vertices    []Vertex
	indices     []uint32
	boundsMin   mgl32.Vec3
	boundsMax   mgl32.Vec3
}

// NewMesh creates a Mesh and computes its axis-aligned bounds.
//
// Parameters:
//   - desc: the description the mesh was loaded from
//   - vertices: the vertex list (must not be empty)
//   - indices: triangle list indices; the count must be a multiple of 3 and
//     every index must address a vertex
//
// Returns:
//   - *Mesh: the mesh
//   - error: *common.PreconditionError describing the first violated constraint
func NewMesh(desc MeshDescription, vertices []Vertex, indices []uint32) (*Mesh, error) {
	if desc == (MeshDescription{}) {
		return nil, common.Preconditionf("mesh.description", "must be set")
	}
	if len(vertices) == 0 {
		return nil, common.Preconditionf("mesh.vertices", "must not be empty")
	}
	if len(indices)%3 != 0 {
		return nil, common.Preconditionf("mesh.indices", "count %d is not a multiple of 3", len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, common.Preconditionf("mesh.indices", "index %d at %d out of range [0,%d)", idx, i, len(vertices))
		}
	}

	m := &Mesh{description: desc, vertices: vertices, indices: indices}
	m.boundsMin, m.boundsMax = vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		for k := 0; k < 3; k++ {
			m.boundsMin[k] = min(m.boundsMin[k], v.Position[k])
			m.boundsMax[k] = max(m.boundsMax[k], v.Position[k])
		}
	}
	return m, nil
}

// Description returns the description the mesh was loaded from.
func (m *Mesh) Description() MeshDescription {
	return m.description
}

// Name returns the mesh name.
func (m *Mesh) Name() string {
	return m.description.name
}

// Vertices returns the vertex list. Callers must not modify it.
func (m *Mesh) Vertices() []Vertex {
	return m.vertices
}

// Indices returns the triangle index list. Callers must not modify it.
func (m *Mesh) Indices() []uint32 {
	return m.indices
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.indices) / 3
}

// Bounds returns the model-space axis-aligned bounding box.
//
// Returns:
//   - mgl32.Vec3: the minimum corner
//   - mgl32.Vec3: the maximum corner
func (m *Mesh) Bounds() (mgl32.Vec3, mgl32.Vec3) {
	return m.boundsMin, m.boundsMax
}

// Bytes returns the size of the vertex and index buffers the mesh occupies once
// uploaded.
func (m *Mesh) Bytes() int {
	return len(m.vertices)*VertexStride + len(m.indices)*4
}
