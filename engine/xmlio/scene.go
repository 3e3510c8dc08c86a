package xmlio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/controller"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/instance"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/material"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/scene"
)

// SceneDescription is everything needed to rebuild a scene: descriptions
// only, no loaded data. Resources are referenced by path and loaded by Open.
type SceneDescription struct {
	// Camera is the saved viewpoint; nil if the scene was saved without one.
	Camera    *camera.Camera
	Textures  []model.TextureDescription
	Models    []model.ModelDescription
	Lights    []light.Light
	Instances []InstanceDescription
}

// Describe captures the descriptions of a live snapshot.
//
// Parameters:
//   - s: the snapshot to describe; nil is treated as empty
//   - cam: the viewpoint to save alongside it, or nil
//
// Returns:
//   - SceneDescription: the description
func Describe(s *scene.Snapshot, cam *camera.Camera) SceneDescription {
	if s == nil {
		s = scene.Empty()
	}
	d := SceneDescription{Camera: cam, Lights: s.Lights()}
	for _, t := range s.Textures() {
		d.Textures = append(d.Textures, t.Description())
	}
	for _, m := range s.Models() {
		d.Models = append(d.Models, m.Description())
	}
	for _, i := range s.Instances() {
		d.Instances = append(d.Instances, InstanceDescription{
			ID:          i.ID(),
			Description: i.Description(),
			Material:    i.Material().Description(),
		})
	}
	return d
}

// WriteScene writes d as an s:scene document.
//
// Parameters:
//   - w: the destination
//   - d: the scene description
//
// Returns:
//   - error: error if writing fails
func WriteScene(w io.Writer, d SceneDescription) error {
	root := newElement(elemScene)
	if d.Camera != nil {
		root.add(cameraElement(*d.Camera))
	}
	for _, t := range d.Textures {
		root.add(textureElement(t))
	}
	for _, m := range d.Models {
		root.add(modelElement(m))
	}
	for _, l := range d.Lights {
		root.add(lightElement(l))
	}
	for _, i := range d.Instances {
		root.add(instanceElement(i))
	}
	return writeDocument(w, root)
}

// ReadScene reads an s:scene document. Child elements are accepted in any
// order; elements outside the scene namespace are ignored.
//
// Parameters:
//   - r: the source
//
// Returns:
//   - SceneDescription: the description
//   - error: ErrInvalidDocument, *common.InputError or *common.PreconditionError
//     describing the first problem found
func ReadScene(r io.Reader) (SceneDescription, error) {
	return decode(r, elemScene, sceneFrom)
}

func sceneFrom(root *element) (SceneDescription, error) {
	var d SceneDescription
	for _, e := range root.Children {
		if e.XMLName.Space != Namespace {
			continue
		}
		switch e.local() {
		case elemCamera:
			c, err := cameraFrom(e)
			if err != nil {
				return SceneDescription{}, err
			}
			d.Camera = &c
		case elemTexture:
			t, err := textureFrom(e)
			if err != nil {
				return SceneDescription{}, err
			}
			d.Textures = append(d.Textures, t)
		case elemModel:
			m, err := modelFrom(e)
			if err != nil {
				return SceneDescription{}, err
			}
			d.Models = append(d.Models, m)
		case elemLightDirectional, elemLightSpherical, elemLightProjective:
			l, err := lightFrom(e)
			if err != nil {
				return SceneDescription{}, err
			}
			d.Lights = append(d.Lights, l)
		case elemInstance:
			i, err := instanceFrom(e)
			if err != nil {
				return SceneDescription{}, err
			}
			d.Instances = append(d.Instances, i)
		default:
			return SceneDescription{}, fmt.Errorf("%w: unexpected element <%s> in <%s>", ErrInvalidDocument, e.local(), elemScene)
		}
	}
	return d, nil
}

// ReadFile reads a scene document from disk.
func ReadFile(path string) (SceneDescription, error) {
	f, err := os.Open(path)
	if err != nil {
		return SceneDescription{}, fmt.Errorf("failed to open scene %s: %w", path, err)
	}
	defer f.Close()
	d, err := ReadScene(f)
	if err != nil {
		return SceneDescription{}, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	return d, nil
}

// WriteFile writes a scene document to disk. The document is written to a
// temporary file in the same directory and renamed into place, so a failed
// write never leaves a truncated scene behind.
func WriteFile(path string, d SceneDescription) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".scene-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create scene file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteScene(tmp, d); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write scene %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write scene %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write scene %s: %w", path, err)
	}
	return nil
}

// Open loads every resource d references and replaces the controller's
// snapshot with the resulting scene in a single step. If any resource fails to
// load or any material or projective light references a texture the scene
// does not define, the controller is left unchanged and every failure is
// returned.
//
// Parameters:
//   - ctx: bounds the wait for resource loads
//   - d: the scene description
//   - l: the loader to read resources with
//   - ctrl: the controller to replace the scene of
//
// Returns:
//   - *scene.Snapshot: the snapshot now held by ctrl
//   - error: the joined load and binding errors
func Open(ctx context.Context, d SceneDescription, l loader.Loader, ctrl controller.Controller) (*scene.Snapshot, error) {
	textureFutures := make([]*loader.Future[*model.Texture], len(d.Textures))
	for i, t := range d.Textures {
		textureFutures[i] = l.LoadTexture(t)
	}
	modelFutures := make([]*loader.Future[*model.Model], len(d.Models))
	for i, m := range d.Models {
		modelFutures[i] = l.LoadModel(m)
	}

	var errs []error
	s := scene.Empty()
	for _, f := range textureFutures {
		t, err := f.Wait(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s = s.AddTexture(t)
	}
	for _, f := range modelFutures {
		m, err := f.Wait(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s = s.AddModel(m)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load scene resources: %w", errors.Join(errs...))
	}

	for _, lt := range d.Lights {
		for _, name := range light.TextureNames(lt) {
			if _, ok := s.Texture(name); !ok {
				errs = append(errs, fmt.Errorf("light %s: %w", lt.ID(),
					common.Preconditionf("light.image", "texture %q is not defined", name)))
			}
		}
		s = s.AddLight(lt)
	}
	for _, desc := range d.Instances {
		mat, err := material.Resolve(desc.Material, s.Texture)
		if err != nil {
			errs = append(errs, fmt.Errorf("instance %s: %w", desc.ID, err))
			continue
		}
		inst, err := instance.New(desc.ID, desc.Description, mat)
		if err != nil {
			errs = append(errs, fmt.Errorf("instance %s: %w", desc.ID, err))
			continue
		}
		s = s.AddInstance(inst)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to bind scene: %w", errors.Join(errs...))
	}

	if err := ctrl.Replace(s); err != nil {
		return nil, err
	}
	return s, nil
}
