package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// meshBackend reads triangle geometry from one mesh file format.
type meshBackend interface {
	// Load reads the file at path into an interleaved vertex list and a
	// triangle index list. Every primitive in the file is merged into one list.
	//
	// Parameters:
	//   - path: the file to read
	//
	// Returns:
	//   - []model.Vertex: the vertices
	//   - []uint32: triangle indices into the vertices
	//   - error: error if the file cannot be read or parsed
	Load(path string) ([]model.Vertex, []uint32, error)
}

// resolveBackend selects a mesh backend by file extension.
func (l *loader) resolveBackend(path string) (meshBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return objLoaderBackend{}, nil
	case ".gltf", ".glb":
		return gltfLoaderBackend{}, nil
	default:
		return nil, fmt.Errorf("unsupported mesh format: %q", ext)
	}
}

// generateNormals computes smooth per-vertex normals by accumulating the
// area-weighted face normal of every triangle into its three vertices and
// normalizing. Vertices that belong to no non-degenerate triangle get +Y.
//
// Parameters:
//   - vertices: the vertex slice to write normal data into
//   - indices: the triangle index buffer
func generateNormals(vertices []model.Vertex, indices []uint32) {
	n := len(vertices)
	accum := make([]mgl32.Vec3, n)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= n || int(i1) >= n || int(i2) >= n {
			continue
		}
		p0, p1, p2 := vertices[i0].Position, vertices[i1].Position, vertices[i2].Position
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		accum[i0] = accum[i0].Add(face)
		accum[i1] = accum[i1].Add(face)
		accum[i2] = accum[i2].Add(face)
	}

	for i := range vertices {
		if accum[i].Len() < 1e-6 {
			vertices[i].Normal = mgl32.Vec3{0, 1, 0}
			continue
		}
		vertices[i].Normal = accum[i].Normalize()
	}
}
