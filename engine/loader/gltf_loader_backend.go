package loader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// gltfLoaderBackend reads the geometry of glTF 2.0 and GLB files. Materials,
// skins and animations are ignored; every triangle primitive of every mesh is
// merged into one vertex and index list.
type gltfLoaderBackend struct{}

var _ meshBackend = gltfLoaderBackend{}

func (gltfLoaderBackend) Load(path string) ([]model.Vertex, []uint32, error) {
	p, err := parseGLTFFile(path)
	if err != nil {
		return nil, nil, err
	}

	var vertices []model.Vertex
	var indices []uint32
	for mi := range p.document.Meshes {
		mesh := &p.document.Meshes[mi]
		for pi := range mesh.Primitives {
			v, idx, err := p.extractPrimitive(&mesh.Primitives[pi])
			if err != nil {
				return nil, nil, fmt.Errorf("mesh %d (%q) primitive %d: %w", mi, mesh.Name, pi, err)
			}
			// offset each index by the vertex count of the primitives before it
			offset := uint32(len(vertices))
			for _, i := range idx {
				indices = append(indices, i+offset)
			}
			vertices = append(vertices, v...)
		}
	}
	if len(vertices) == 0 {
		return nil, nil, fmt.Errorf("no triangle geometry in %s", path)
	}
	return vertices, indices, nil
}

// extractPrimitive reads one TRIANGLES primitive. Normals are generated when
// the primitive has none.
func (p *gltfParser) extractPrimitive(prim *gltfPrimitive) ([]model.Vertex, []uint32, error) {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return nil, nil, fmt.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}

	posAccessor, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, nil, fmt.Errorf("primitive has no POSITION attribute")
	}
	positions, err := p.readFloats(posAccessor, gltfAccessorTypeVec3)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read positions: %w", err)
	}

	count := len(positions) / 3
	vertices := make([]model.Vertex, count)
	for i := range vertices {
		vertices[i].Position = mgl32.Vec3{positions[i*3], positions[i*3+1], positions[i*3+2]}
	}

	hasNormals := false
	if acc, ok := prim.Attributes["NORMAL"]; ok {
		normals, err := p.readFloats(acc, gltfAccessorTypeVec3)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read normals: %w", err)
		}
		for i := 0; i < count && i*3+2 < len(normals); i++ {
			vertices[i].Normal = mgl32.Vec3{normals[i*3], normals[i*3+1], normals[i*3+2]}
		}
		hasNormals = true
	}

	if acc, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err := p.readFloats(acc, gltfAccessorTypeVec2)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read texcoords: %w", err)
		}
		for i := 0; i < count && i*2+1 < len(uvs); i++ {
			vertices[i].UV = mgl32.Vec2{uvs[i*2], uvs[i*2+1]}
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = p.readIndices(*prim.Indices)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read indices: %w", err)
		}
	} else {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	if len(indices)%3 != 0 {
		return nil, nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}

	if !hasNormals {
		generateNormals(vertices, indices)
	}
	return vertices, indices, nil
}
