package renderer

import (
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/material"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// DrawInstance is one visible instance, ready to be drawn.
type DrawInstance struct {
	ID        ident.ID
	Transform mgl32.Mat4
	UVMatrix  mgl32.Mat3
	Material  material.Material
	Lit       bool
}

// Batch is every visible instance of one model.
type Batch struct {
	Model     *model.Model
	Instances []DrawInstance
}

// RenderScene is a render-ready view of one Snapshot: the camera matrices, the
// enabled lights, and the visible instances batched by model.
type RenderScene struct {
	Camera         camera.Camera
	View           mgl32.Mat4
	Projection     mgl32.Mat4
	ViewProjection mgl32.Mat4

	// Lights holds the enabled lights in ascending identifier order.
	Lights []light.Light

	// Batches is sorted by model name; instances within a batch by identifier.
	Batches []Batch

	// Skipped counts instances whose model is not in the snapshot.
	Skipped int
	// Culled counts instances entirely outside the camera view volume.
	Culled int
}

// InstanceCount returns the number of visible instances across all batches.
func (rs *RenderScene) InstanceCount() int {
	n := 0
	for _, b := range rs.Batches {
		n += len(b.Instances)
	}
	return n
}

// ShadowCasters returns the enabled lights that carry a shadow descriptor.
func (rs *RenderScene) ShadowCasters() []light.Light {
	var out []light.Light
	for _, l := range rs.Lights {
		if _, ok := l.Shadow(); ok {
			out = append(out, l)
		}
	}
	return out
}

// Flatten builds the render-ready scene for snapshot as seen from cam.
//
// Instances referencing a model the snapshot does not hold are skipped; this
// happens while a model is still loading. Instances whose world-space bounds
// lie entirely outside the camera view volume are culled. The snapshot is not
// modified.
//
// Parameters:
//   - snapshot: the scene state; nil is treated as empty
//   - cam: the viewing camera
//
// Returns:
//   - *RenderScene: the flattened scene
func Flatten(snapshot *scene.Snapshot, cam camera.Camera) *RenderScene {
	if snapshot == nil {
		snapshot = scene.Empty()
	}
	rs := &RenderScene{
		Camera:     cam,
		View:       cam.View(),
		Projection: cam.Projection(),
	}
	rs.ViewProjection = rs.Projection.Mul4(rs.View)
	volume := common.ExtractViewVolume(rs.ViewProjection)

	for _, l := range snapshot.Lights() {
		if l.Enabled() {
			rs.Lights = append(rs.Lights, l)
		}
	}

	batches := make(map[string]int)
	for _, inst := range snapshot.Instances() {
		name := inst.Description().Model()
		m, ok := snapshot.Model(name)
		if !ok {
			rs.Skipped++
			continue
		}

		transform := inst.Transform()
		lo, hi := m.Mesh().Bounds()
		if !volume.IntersectsBox(common.TransformBox(transform, lo, hi)) {
			rs.Culled++
			continue
		}

		idx, ok := batches[name]
		if !ok {
			idx = len(rs.Batches)
			batches[name] = idx
			rs.Batches = append(rs.Batches, Batch{Model: m})
		}
		rs.Batches[idx].Instances = append(rs.Batches[idx].Instances, DrawInstance{
			ID:        inst.ID(),
			Transform: transform,
			UVMatrix:  inst.Description().UVMatrix(),
			Material:  inst.Material(),
			Lit:       inst.Description().Lit(),
		})
	}
	sortBatches(rs.Batches)
	return rs
}

func sortBatches(batches []Batch) {
	slices.SortFunc(batches, func(a, b Batch) int {
		return strings.Compare(a.Model.Name(), b.Model.Name())
	})
}
