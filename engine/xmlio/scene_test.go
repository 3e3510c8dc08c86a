package xmlio

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/controller"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/instance"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/loader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/material"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

const triangleOBJ = "v 0 0 0\nv 1 0 0\nv 0 1 0\nvt 0 0\nvt 1 0\nvt 0 1\nf 1/1 2/2 3/3\n"

// writeResources creates checker.png and tri.obj in dir.
func writeResources(t *testing.T, dir string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, "checker.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(triangleOBJ), 0o644))
}

func testSceneDescription(t *testing.T, texturePath string) SceneDescription {
	t.Helper()
	tex, err := model.NewTextureDescription("checker", texturePath)
	require.NoError(t, err)
	mesh, err := model.NewMeshDescription("tri-mesh", "tri.obj")
	require.NoError(t, err)
	mdl, err := model.NewModelDescription("tri", mesh)
	require.NoError(t, err)

	albedo, err := material.NewAlbedo(mgl32.Vec4{1, 1, 1, 1}, "checker", 1)
	require.NoError(t, err)
	desc, err := instance.NewDescription("tri", instance.WithPosition(mgl32.Vec3{0, third, 0}))
	require.NoError(t, err)

	cam, err := camera.NewCamera(testFrustum(t))
	require.NoError(t, err)

	return SceneDescription{
		Camera:   &cam,
		Textures: []model.TextureDescription{tex},
		Models:   []model.ModelDescription{mdl},
		Lights:   testLights(t)[:2],
		Instances: []InstanceDescription{
			{ID: 7, Description: desc, Material: material.NewDescription(material.WithAlbedo(albedo))},
		},
	}
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSceneRoundTrip(t *testing.T) {
	d := testSceneDescription(t, "checker.png")
	d.Lights = testLights(t)
	d.Instances = append(d.Instances, testInstance(t))

	var buf bytes.Buffer
	require.NoError(t, WriteScene(&buf, d))
	got, err := ReadScene(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestReadSceneRejectsUnknownElement(t *testing.T) {
	doc := `<s:scene xmlns:s="urn:oxy:sandbox:scene:1"><s:teapot/></s:scene>`
	_, err := ReadScene(bytes.NewBufferString(doc))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestReadSceneIgnoresForeignElements(t *testing.T) {
	doc := `<s:scene xmlns:s="urn:oxy:sandbox:scene:1" xmlns:x="urn:editor"><x:selection id="3"/></s:scene>`
	d, err := ReadScene(bytes.NewBufferString(doc))
	require.NoError(t, err)
	assert.Nil(t, d.Camera)
	assert.Empty(t, d.Instances)
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.xml")
	d := testSceneDescription(t, "checker.png")
	require.NoError(t, WriteFile(path, d))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, d, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be removed")
}

func TestOpenReplacesSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeResources(t, dir)
	l := loader.NewLoader(loader.WithRoot(dir), loader.WithWorkers(2))
	t.Cleanup(l.Close)
	ctrl := controller.NewController()

	d := testSceneDescription(t, "checker.png")
	s, err := Open(testContext(t), d, l, ctrl)
	require.NoError(t, err)
	assert.Same(t, s, ctrl.Snapshot())

	assert.Equal(t, 1, s.TextureCount())
	assert.Equal(t, 1, s.ModelCount())
	assert.Equal(t, 2, s.LightCount())
	inst, ok := s.Instance(7)
	require.True(t, ok)
	tex, _ := s.Texture("checker")
	assert.Same(t, tex, inst.Material().Texture(material.SlotAlbedo))

	described := Describe(s, d.Camera)
	assert.Equal(t, d, described)

	// Fresh identifiers never collide with the opened ones.
	assert.Greater(t, ctrl.FreshInstanceID(), inst.ID())
}

func TestOpenFailureLeavesControllerUnchanged(t *testing.T) {
	dir := t.TempDir()
	writeResources(t, dir)
	l := loader.NewLoader(loader.WithRoot(dir), loader.WithWorkers(2))
	t.Cleanup(l.Close)
	ctrl := controller.NewController()
	before := ctrl.Snapshot()

	_, err := Open(testContext(t), testSceneDescription(t, "missing.png"), l, ctrl)
	require.Error(t, err)
	assert.Same(t, before, ctrl.Snapshot())

	dangling := testSceneDescription(t, "checker.png")
	dangling.Textures = nil
	_, err = Open(testContext(t), dangling, l, ctrl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instance 7")
	assert.Same(t, before, ctrl.Snapshot())
}

func TestOpenRejectsUndefinedLightImage(t *testing.T) {
	dir := t.TempDir()
	writeResources(t, dir)
	l := loader.NewLoader(loader.WithRoot(dir), loader.WithWorkers(2))
	t.Cleanup(l.Close)
	ctrl := controller.NewController()
	before := ctrl.Snapshot()

	// The projector shows "slide", which the document never defines.
	d := testSceneDescription(t, "checker.png")
	d.Lights = testLights(t)
	_, err := Open(testContext(t), d, l, ctrl)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPrecondition)
	assert.Contains(t, err.Error(), "light 3")
	assert.Contains(t, err.Error(), `"slide"`)
	assert.Same(t, before, ctrl.Snapshot())

	slide, err := model.NewTextureDescription("slide", "checker.png")
	require.NoError(t, err)
	d.Textures = append(d.Textures, slide)
	s, err := Open(testContext(t), d, l, ctrl)
	require.NoError(t, err)
	assert.Equal(t, 3, s.LightCount())
}

func TestDescribeNilSnapshot(t *testing.T) {
	d := Describe(nil, nil)
	assert.Nil(t, d.Camera)
	assert.Empty(t, d.Textures)
	assert.Empty(t, d.Instances)
}
