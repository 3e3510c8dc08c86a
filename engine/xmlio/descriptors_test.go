package xmlio

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/instance"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/material"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// third is not exactly representable, so it exercises canonical formatting.
const third = float32(1) / 3

func testFrustum(t *testing.T) camera.Frustum {
	t.Helper()
	f, err := camera.NewFrustum(0.1, 250.5, math.Pi/3, 16.0/9)
	require.NoError(t, err)
	return f
}

func roundTrip[T any](t *testing.T, v T, enc func(*bytes.Buffer, T) error, dec func(*bytes.Buffer) (T, error)) T {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, v))
	got, err := dec(&buf)
	require.NoError(t, err)
	return got
}

func TestFrustumRoundTrip(t *testing.T) {
	f := testFrustum(t)
	got := roundTrip(t, f,
		func(b *bytes.Buffer, v camera.Frustum) error { return EncodeFrustum(b, v) },
		func(b *bytes.Buffer) (camera.Frustum, error) { return DecodeFrustum(b) })
	assert.Equal(t, f, got)
	assert.Equal(t, math.Float32bits(f.Aspect()), math.Float32bits(got.Aspect()))
}

func TestNormalRoundTrip(t *testing.T) {
	for _, n := range []material.Normal{material.NewNormal(""), material.NewNormal("bumps")} {
		got := roundTrip(t, n,
			func(b *bytes.Buffer, v material.Normal) error { return EncodeNormal(b, v) },
			func(b *bytes.Buffer) (material.Normal, error) { return DecodeNormal(b) })
		assert.Equal(t, n, got)
	}
}

func TestMeshAndModelRoundTrip(t *testing.T) {
	mesh, err := model.NewMeshDescription("fox-mesh", "meshes/fox.glb")
	require.NoError(t, err)
	gotMesh := roundTrip(t, mesh,
		func(b *bytes.Buffer, v model.MeshDescription) error { return EncodeMesh(b, v) },
		func(b *bytes.Buffer) (model.MeshDescription, error) { return DecodeMesh(b) })
	assert.Equal(t, mesh, gotMesh)

	m, err := model.NewModelDescription("fox", mesh)
	require.NoError(t, err)
	gotModel := roundTrip(t, m,
		func(b *bytes.Buffer, v model.ModelDescription) error { return EncodeModel(b, v) },
		func(b *bytes.Buffer) (model.ModelDescription, error) { return DecodeModel(b) })
	assert.Equal(t, m, gotModel)
}

func TestTextureRoundTrip(t *testing.T) {
	d, err := model.NewTextureDescription("grass & dirt", "textures/<grass>.png")
	require.NoError(t, err)
	got := roundTrip(t, d,
		func(b *bytes.Buffer, v model.TextureDescription) error { return EncodeTexture(b, v) },
		func(b *bytes.Buffer) (model.TextureDescription, error) { return DecodeTexture(b) })
	assert.Equal(t, d, got)
}

func testMaterial(t *testing.T) material.Description {
	t.Helper()
	albedo, err := material.NewAlbedo(mgl32.Vec4{0.1, third, 0.7, 1}, "bricks", 0.5)
	require.NoError(t, err)
	alpha, err := material.NewAlpha(0.25, "")
	require.NoError(t, err)
	specular, err := material.NewSpecular(mgl32.Vec3{third, third, third}, 12.5, "shine")
	require.NoError(t, err)
	emissive, err := material.NewEmissive(0.125, "")
	require.NoError(t, err)
	environment, err := material.NewEnvironment(third, "sky")
	require.NoError(t, err)
	return material.NewDescription(
		material.WithAlbedo(albedo),
		material.WithAlpha(alpha),
		material.WithSpecular(specular),
		material.WithEmissive(emissive),
		material.WithEnvironment(environment),
		material.WithNormal(material.NewNormal("bumps")))
}

func TestMaterialRoundTrip(t *testing.T) {
	d := testMaterial(t)
	got := roundTrip(t, d,
		func(b *bytes.Buffer, v material.Description) error { return EncodeMaterial(b, v) },
		func(b *bytes.Buffer) (material.Description, error) { return DecodeMaterial(b) })
	assert.Equal(t, d, got)
}

func TestMaterialMissingPartsKeepDefaults(t *testing.T) {
	doc := `<s:material xmlns:s="urn:oxy:sandbox:scene:1"><s:alpha opacity="0.5"/></s:material>`
	got, err := DecodeMaterial(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, material.NewDescription().Albedo(), got.Albedo())
	assert.Equal(t, float32(0.5), got.Alpha().Opacity())
}

func testInstance(t *testing.T) InstanceDescription {
	t.Helper()
	desc, err := instance.NewDescription("fox",
		instance.WithPosition(mgl32.Vec3{1, -2.5, third}),
		instance.WithScale(mgl32.Vec3{2, 2, 2}),
		instance.WithRotation(0.3, 1.1, -0.7),
		instance.WithUVMatrix(mgl32.Mat3{2, 0, 0, 0, 2, 0, 0.5, 0.5, 1}),
		instance.WithLit(false))
	require.NoError(t, err)
	return InstanceDescription{ID: 42, Description: desc, Material: testMaterial(t)}
}

func TestInstanceRoundTrip(t *testing.T) {
	d := testInstance(t)
	got := roundTrip(t, d,
		func(b *bytes.Buffer, v InstanceDescription) error { return EncodeInstance(b, v) },
		func(b *bytes.Buffer) (InstanceDescription, error) { return DecodeInstance(b) })
	assert.Equal(t, d, got)
}

func testLights(t *testing.T) []light.Light {
	t.Helper()
	shadow, err := light.NewShadow(light.WithMapSize(512), light.WithBias(0.0025), light.WithFactorMinimum(third))
	require.NoError(t, err)
	sun, err := light.NewDirectional(1, mgl32.Vec3{0.3, -1, 0.2}, light.WithColor(1, 0.9, 0.8), light.WithShadow(shadow))
	require.NoError(t, err)
	bulb, err := light.NewSpherical(2, mgl32.Vec3{0, 3, 0}, 12.5, light.WithFalloff(2), light.WithEnabled(false))
	require.NoError(t, err)
	projector, err := light.NewProjective(3, mgl32.Vec3{4, 4, 4}, mgl32.AnglesToQuat(0.1, 0.2, 0.3, mgl32.XYZ),
		testFrustum(t), "slide", light.WithIntensity(third))
	require.NoError(t, err)
	return []light.Light{sun, bulb, projector}
}

func TestLightRoundTrip(t *testing.T) {
	for _, l := range testLights(t) {
		t.Run(l.Type().String(), func(t *testing.T) {
			got := roundTrip(t, l,
				func(b *bytes.Buffer, v light.Light) error { return EncodeLight(b, v) },
				func(b *bytes.Buffer) (light.Light, error) { return DecodeLight(b) })
			assert.Equal(t, l, got)
		})
	}
}

func TestCameraRoundTrip(t *testing.T) {
	c, err := camera.NewCamera(testFrustum(t),
		camera.WithPosition(mgl32.Vec3{1.5, 2, third}),
		camera.WithTarget(mgl32.Vec3{0, 0.5, 0}),
		camera.WithUp(mgl32.Vec3{0, 2, 0}))
	require.NoError(t, err)
	got := roundTrip(t, c,
		func(b *bytes.Buffer, v camera.Camera) error { return EncodeCamera(b, v) },
		func(b *bytes.Buffer) (camera.Camera, error) { return DecodeCamera(b) })
	assert.Equal(t, c, got)
}

func TestEncodedDocumentUsesPrefix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeFrustum(&buf, testFrustum(t)))
	out := buf.String()
	assert.Contains(t, out, `<s:frustum xmlns:s="urn:oxy:sandbox:scene:1"`)
	assert.Contains(t, out, `near="0.1"`)
}

func TestDecodeAcceptsDefaultNamespace(t *testing.T) {
	doc := `<frustum xmlns="urn:oxy:sandbox:scene:1" near="1" far="10" fov="1" aspect="2"/>`
	f, err := DecodeFrustum(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, float32(10), f.Far())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		target error
	}{
		{"wrong namespace", `<s:frustum xmlns:s="urn:other" near="1" far="10" fov="1" aspect="2"/>`, ErrInvalidDocument},
		{"no namespace", `<frustum near="1" far="10" fov="1" aspect="2"/>`, ErrInvalidDocument},
		{"wrong element", `<s:mesh xmlns:s="urn:oxy:sandbox:scene:1" name="a" path="b"/>`, ErrInvalidDocument},
		{"missing attribute", `<s:frustum xmlns:s="urn:oxy:sandbox:scene:1" near="1" far="10" fov="1"/>`, ErrInvalidDocument},
		{"malformed number", `<s:frustum xmlns:s="urn:oxy:sandbox:scene:1" near="1" far="ten" fov="1" aspect="2"/>`, common.ErrInput},
		{"invalid value", `<s:frustum xmlns:s="urn:oxy:sandbox:scene:1" near="5" far="1" fov="1" aspect="2"/>`, common.ErrPrecondition},
		{"truncated", `<s:frustum xmlns:s="urn:oxy:sandbox:scene:1"`, ErrInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrustum(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestDecodeLightRejectsOtherElements(t *testing.T) {
	_, err := DecodeLight(strings.NewReader(`<s:mesh xmlns:s="urn:oxy:sandbox:scene:1" name="a" path="b"/>`))
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestMalformedVectorReportsField(t *testing.T) {
	doc := `<s:light-spherical xmlns:s="urn:oxy:sandbox:scene:1" id="1" color="1 1" intensity="1" position="0 0 0" radius="1"/>`
	_, err := DecodeLight(strings.NewReader(doc))
	var inputErr *common.InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Equal(t, "light-spherical.color", inputErr.Field)
}
