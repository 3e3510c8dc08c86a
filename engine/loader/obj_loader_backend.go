package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// objLoaderBackend reads the geometry subset of the Wavefront OBJ format:
// v, vt, vn and f records. Polygons are triangulated as fans. Groups, objects,
// smoothing groups and material references are accepted and ignored.
// Format reference: https://en.wikipedia.org/wiki/Wavefront_.obj_file
type objLoaderBackend struct{}

var _ meshBackend = objLoaderBackend{}

func (objLoaderBackend) Load(path string) ([]model.Vertex, []uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return parseOBJ(f)
}

// objCorner is one face corner: 0-based position, uv and normal indices; -1
// when the corner has no uv or normal.
type objCorner struct {
	v, vt, vn int
}

// objDecoder accumulates OBJ records and builds the indexed vertex list.
type objDecoder struct {
	line      int
	positions []mgl32.Vec3
	uvs       []mgl32.Vec2
	normals   []mgl32.Vec3

	vertices   []model.Vertex
	indices    []uint32
	corners    map[objCorner]uint32
	hasNormals bool
	allNormals bool
}

// parseOBJ decodes an OBJ stream.
//
// Parameters:
//   - r: the OBJ text
//
// Returns:
//   - []model.Vertex: one vertex per distinct (v, vt, vn) corner
//   - []uint32: triangle indices
//   - error: error naming the offending line
func parseOBJ(r io.Reader) ([]model.Vertex, []uint32, error) {
	dec := &objDecoder{corners: make(map[objCorner]uint32), allNormals: true}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		dec.line++
		if err := dec.parseLine(sc.Text()); err != nil {
			return nil, nil, fmt.Errorf("obj line %d: %w", dec.line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read obj: %w", err)
	}
	if len(dec.indices) == 0 {
		return nil, nil, errors.New("obj contains no faces")
	}

	// explicit normals are kept only if every corner has one
	if !dec.allNormals || !dec.hasNormals {
		generateNormals(dec.vertices, dec.indices)
	}
	return dec.vertices, dec.indices, nil
}

func (dec *objDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "v":
		v, err := dec.parseFloats(fields[1:], 3, "v")
		if err != nil {
			return err
		}
		dec.positions = append(dec.positions, mgl32.Vec3{v[0], v[1], v[2]})
	case "vt":
		v, err := dec.parseFloats(fields[1:], 2, "vt")
		if err != nil {
			return err
		}
		dec.uvs = append(dec.uvs, mgl32.Vec2{v[0], v[1]})
	case "vn":
		v, err := dec.parseFloats(fields[1:], 3, "vn")
		if err != nil {
			return err
		}
		dec.normals = append(dec.normals, mgl32.Vec3{v[0], v[1], v[2]})
	case "f":
		return dec.parseFace(fields[1:])
	case "o", "g", "s", "usemtl", "mtllib", "l", "p":
	default:
		return fmt.Errorf("unsupported record %q", fields[0])
	}
	return nil
}

// parseFloats parses at least n leading float fields; extra fields (such as a
// w component) are ignored.
func (dec *objDecoder) parseFloats(fields []string, n int, record string) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("%s record needs %d values, got %d", record, n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := common.ParseFloat32(record, fields[i])
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// parseFace parses an f record and emits its fan triangulation.
func (dec *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("face needs at least 3 corners, got %d", len(fields))
	}
	ids := make([]uint32, len(fields))
	for i, f := range fields {
		c, err := dec.parseCorner(f)
		if err != nil {
			return err
		}
		ids[i] = dec.vertex(c)
	}
	for i := 1; i+1 < len(ids); i++ {
		dec.indices = append(dec.indices, ids[0], ids[i], ids[i+1])
	}
	return nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn".
func (dec *objDecoder) parseCorner(field string) (objCorner, error) {
	parts := strings.Split(field, "/")
	if len(parts) > 3 {
		return objCorner{}, fmt.Errorf("malformed face corner %q", field)
	}
	c := objCorner{vt: -1, vn: -1}
	var err error
	if c.v, err = resolveOBJIndex(parts[0], len(dec.positions), "f.v"); err != nil {
		return objCorner{}, err
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.vt, err = resolveOBJIndex(parts[1], len(dec.uvs), "f.vt"); err != nil {
			return objCorner{}, err
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.vn, err = resolveOBJIndex(parts[2], len(dec.normals), "f.vn"); err != nil {
			return objCorner{}, err
		}
	}
	return c, nil
}

// resolveOBJIndex converts a 1-based or negative (relative to the end) OBJ
// index into a 0-based index into a list of length n.
func resolveOBJIndex(text string, n int, field string) (int, error) {
	i, err := common.ParseInt(field, text)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0 && i <= n:
		return i - 1, nil
	case i < 0 && -i <= n:
		return n + i, nil
	default:
		return 0, fmt.Errorf("%s index %d out of range for %d entries", field, i, n)
	}
}

// vertex returns the index of the vertex for corner c, adding it on first use.
func (dec *objDecoder) vertex(c objCorner) uint32 {
	if id, ok := dec.corners[c]; ok {
		return id
	}
	v := model.Vertex{Position: dec.positions[c.v]}
	if c.vt >= 0 {
		v.UV = dec.uvs[c.vt]
	}
	if c.vn >= 0 {
		v.Normal = dec.normals[c.vn]
		dec.hasNormals = true
	} else {
		dec.allNormals = false
	}
	id := uint32(len(dec.vertices))
	dec.vertices = append(dec.vertices, v)
	dec.corners[c] = id
	return id
}
