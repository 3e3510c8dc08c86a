package loader

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTriangleGLTF writes a glTF file holding one non-indexed triangle in an
// embedded base64 buffer.
func writeTriangleGLTF(t *testing.T, dir string) string {
	t.Helper()
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	buf := make([]byte, 4*len(positions))
	for i, f := range positions {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": "data:application/octet-stream;base64,%s"}],
  "bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": %d}],
  "accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}],
  "meshes": [{"name": "tri", "primitives": [{"attributes": {"POSITION": 0}}]}]
}`, len(buf), base64.StdEncoding.EncodeToString(buf), len(buf))

	path := filepath.Join(dir, "tri.gltf")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestGLTFBackendLoadsTriangle(t *testing.T) {
	path := writeTriangleGLTF(t, t.TempDir())

	vertices, indices, err := gltfLoaderBackend{}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, indices)
	require.Len(t, vertices, 3)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, vertices[1].Position)
	assert.True(t, vertices[0].Normal.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5))
}

func TestGLTFBackendRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.gltf")
	require.NoError(t, os.WriteFile(path, []byte(`{"asset": {"version": "1.0"}}`), 0o644))

	_, _, err := gltfLoaderBackend{}.Load(path)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestGLTFBackendRejectsRequiredExtensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext.gltf")
	doc := `{"asset": {"version": "2.0"}, "extensionsRequired": ["KHR_draco_mesh_compression"]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, _, err := gltfLoaderBackend{}.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KHR_draco_mesh_compression")
}
