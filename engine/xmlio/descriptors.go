package xmlio

import (
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/instance"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/light"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/material"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/model"
)

// InstanceDescription is the serialisable form of an instance: its identifier,
// its description, and the description of its material. Textures are
// referenced by name and bound when the scene is opened.
type InstanceDescription struct {
	ID          ident.ID
	Description instance.Description
	Material    material.Description
}

// decode reads a document whose root is local and converts it with from.
func decode[T any](r io.Reader, local string, from func(*element) (T, error)) (T, error) {
	root, err := readDocument(r, local)
	if err != nil {
		var zero T
		return zero, err
	}
	return from(root)
}

// EncodeFrustum writes f as an s:frustum document.
func EncodeFrustum(w io.Writer, f camera.Frustum) error {
	return writeDocument(w, frustumElement(f))
}

// DecodeFrustum reads an s:frustum document.
func DecodeFrustum(r io.Reader) (camera.Frustum, error) {
	return decode(r, elemFrustum, frustumFrom)
}

// EncodeCamera writes c as an s:camera document.
func EncodeCamera(w io.Writer, c camera.Camera) error {
	return writeDocument(w, cameraElement(c))
}

// DecodeCamera reads an s:camera document.
func DecodeCamera(r io.Reader) (camera.Camera, error) {
	return decode(r, elemCamera, cameraFrom)
}

// EncodeNormal writes n as an s:normal document.
func EncodeNormal(w io.Writer, n material.Normal) error {
	return writeDocument(w, normalElement(n))
}

// DecodeNormal reads an s:normal document.
func DecodeNormal(r io.Reader) (material.Normal, error) {
	return decode(r, elemNormal, normalFrom)
}

// EncodeTexture writes d as an s:texture document.
func EncodeTexture(w io.Writer, d model.TextureDescription) error {
	return writeDocument(w, textureElement(d))
}

// DecodeTexture reads an s:texture document.
func DecodeTexture(r io.Reader) (model.TextureDescription, error) {
	return decode(r, elemTexture, textureFrom)
}

// EncodeMesh writes d as an s:mesh document.
func EncodeMesh(w io.Writer, d model.MeshDescription) error {
	return writeDocument(w, meshElement(d))
}

// DecodeMesh reads an s:mesh document.
func DecodeMesh(r io.Reader) (model.MeshDescription, error) {
	return decode(r, elemMesh, meshFrom)
}

// EncodeModel writes d as an s:model document.
func EncodeModel(w io.Writer, d model.ModelDescription) error {
	return writeDocument(w, modelElement(d))
}

// DecodeModel reads an s:model document.
func DecodeModel(r io.Reader) (model.ModelDescription, error) {
	return decode(r, elemModel, modelFrom)
}

// EncodeMaterial writes d as an s:material document.
func EncodeMaterial(w io.Writer, d material.Description) error {
	return writeDocument(w, materialElement(d))
}

// DecodeMaterial reads an s:material document.
func DecodeMaterial(r io.Reader) (material.Description, error) {
	return decode(r, elemMaterial, materialFrom)
}

// EncodeInstance writes d as an s:instance document.
func EncodeInstance(w io.Writer, d InstanceDescription) error {
	return writeDocument(w, instanceElement(d))
}

// DecodeInstance reads an s:instance document.
func DecodeInstance(r io.Reader) (InstanceDescription, error) {
	return decode(r, elemInstance, instanceFrom)
}

// EncodeLight writes l as an s:light-directional, s:light-spherical or
// s:light-projective document.
func EncodeLight(w io.Writer, l light.Light) error {
	return writeDocument(w, lightElement(l))
}

// DecodeLight reads any of the light documents.
func DecodeLight(r io.Reader) (light.Light, error) {
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}
	return lightFrom(root)
}

func frustumElement(f camera.Frustum) *element {
	return newElement(elemFrustum).
		setFloat("near", f.Near()).
		setFloat("far", f.Far()).
		setFloat("fov", f.HorizontalFOV()).
		setFloat("aspect", f.Aspect())
}

func frustumFrom(e *element) (camera.Frustum, error) {
	if err := e.expect(elemFrustum); err != nil {
		return camera.Frustum{}, err
	}
	near, err := e.float("near")
	if err != nil {
		return camera.Frustum{}, err
	}
	far, err := e.float("far")
	if err != nil {
		return camera.Frustum{}, err
	}
	fov, err := e.float("fov")
	if err != nil {
		return camera.Frustum{}, err
	}
	aspect, err := e.float("aspect")
	if err != nil {
		return camera.Frustum{}, err
	}
	return camera.NewFrustum(near, far, fov, aspect)
}

func cameraElement(c camera.Camera) *element {
	p, t, u := c.Position(), c.Target(), c.Up()
	return newElement(elemCamera).
		setFloats("position", p[:]...).
		setFloats("target", t[:]...).
		setFloats("up", u[:]...).
		add(frustumElement(c.Frustum()))
}

func cameraFrom(e *element) (camera.Camera, error) {
	if err := e.expect(elemCamera); err != nil {
		return camera.Camera{}, err
	}
	position, err := e.vec3("position")
	if err != nil {
		return camera.Camera{}, err
	}
	target, err := e.vec3("target")
	if err != nil {
		return camera.Camera{}, err
	}
	up, err := e.vec3("up")
	if err != nil {
		return camera.Camera{}, err
	}
	fe, err := e.requiredChild(elemFrustum)
	if err != nil {
		return camera.Camera{}, err
	}
	frustum, err := frustumFrom(fe)
	if err != nil {
		return camera.Camera{}, err
	}
	return camera.NewCamera(frustum, camera.WithPosition(position), camera.WithTarget(target), camera.WithUp(up))
}

func textureElement(d model.TextureDescription) *element {
	return newElement(elemTexture).set("name", d.Name()).set("path", d.Path())
}

func textureFrom(e *element) (model.TextureDescription, error) {
	name, path, err := namePath(e, elemTexture)
	if err != nil {
		return model.TextureDescription{}, err
	}
	return model.NewTextureDescription(name, path)
}

func meshElement(d model.MeshDescription) *element {
	return newElement(elemMesh).set("name", d.Name()).set("path", d.Path())
}

func meshFrom(e *element) (model.MeshDescription, error) {
	name, path, err := namePath(e, elemMesh)
	if err != nil {
		return model.MeshDescription{}, err
	}
	return model.NewMeshDescription(name, path)
}

func namePath(e *element, local string) (string, string, error) {
	if err := e.expect(local); err != nil {
		return "", "", err
	}
	name, err := e.required("name")
	if err != nil {
		return "", "", err
	}
	path, err := e.required("path")
	if err != nil {
		return "", "", err
	}
	return name, path, nil
}

func modelElement(d model.ModelDescription) *element {
	return newElement(elemModel).set("name", d.Name()).add(meshElement(d.Mesh()))
}

func modelFrom(e *element) (model.ModelDescription, error) {
	if err := e.expect(elemModel); err != nil {
		return model.ModelDescription{}, err
	}
	name, err := e.required("name")
	if err != nil {
		return model.ModelDescription{}, err
	}
	me, err := e.requiredChild(elemMesh)
	if err != nil {
		return model.ModelDescription{}, err
	}
	mesh, err := meshFrom(me)
	if err != nil {
		return model.ModelDescription{}, err
	}
	return model.NewModelDescription(name, mesh)
}

func normalElement(n material.Normal) *element {
	return newElement(elemNormal).setOptional("texture", n.Texture())
}

func normalFrom(e *element) (material.Normal, error) {
	if err := e.expect(elemNormal); err != nil {
		return material.Normal{}, err
	}
	texture, _ := e.attr("texture")
	return material.NewNormal(texture), nil
}

func materialElement(d material.Description) *element {
	albedo := d.Albedo()
	c := albedo.Color()
	spec := d.Specular()
	sc := spec.Color()
	return newElement(elemMaterial).add(
		newElement(elemAlbedo).
			setFloats("color", c[:]...).
			setFloat("mix", albedo.Mix()).
			setOptional("texture", albedo.Texture()),
		newElement(elemAlpha).
			setFloat("opacity", d.Alpha().Opacity()).
			setOptional("texture", d.Alpha().Texture()),
		newElement(elemSpecular).
			setFloats("color", sc[:]...).
			setFloat("exponent", spec.Exponent()).
			setOptional("texture", spec.Texture()),
		newElement(elemEmissive).
			setFloat("amount", d.Emissive().Amount()).
			setOptional("texture", d.Emissive().Texture()),
		newElement(elemEnvironment).
			setFloat("mix", d.Environment().Mix()).
			setOptional("texture", d.Environment().Texture()),
		normalElement(d.Normal()),
	)
}

// materialFrom decodes an s:material element. Missing sub-elements keep the
// defaults of material.NewDescription.
func materialFrom(e *element) (material.Description, error) {
	if err := e.expect(elemMaterial); err != nil {
		return material.Description{}, err
	}
	var opts []material.DescriptionBuilderOption

	if c, ok := e.child(elemAlbedo); ok {
		color, err := c.vec4("color")
		if err != nil {
			return material.Description{}, err
		}
		mix, err := c.floatOr("mix", 0)
		if err != nil {
			return material.Description{}, err
		}
		texture, _ := c.attr("texture")
		albedo, err := material.NewAlbedo(color, texture, mix)
		if err != nil {
			return material.Description{}, err
		}
		opts = append(opts, material.WithAlbedo(albedo))
	}
	if c, ok := e.child(elemAlpha); ok {
		opacity, err := c.float("opacity")
		if err != nil {
			return material.Description{}, err
		}
		texture, _ := c.attr("texture")
		alpha, err := material.NewAlpha(opacity, texture)
		if err != nil {
			return material.Description{}, err
		}
		opts = append(opts, material.WithAlpha(alpha))
	}
	if c, ok := e.child(elemSpecular); ok {
		color, err := c.vec3("color")
		if err != nil {
			return material.Description{}, err
		}
		exponent, err := c.float("exponent")
		if err != nil {
			return material.Description{}, err
		}
		texture, _ := c.attr("texture")
		specular, err := material.NewSpecular(color, exponent, texture)
		if err != nil {
			return material.Description{}, err
		}
		opts = append(opts, material.WithSpecular(specular))
	}
	if c, ok := e.child(elemEmissive); ok {
		amount, err := c.float("amount")
		if err != nil {
			return material.Description{}, err
		}
		texture, _ := c.attr("texture")
		emissive, err := material.NewEmissive(amount, texture)
		if err != nil {
			return material.Description{}, err
		}
		opts = append(opts, material.WithEmissive(emissive))
	}
	if c, ok := e.child(elemEnvironment); ok {
		mix, err := c.float("mix")
		if err != nil {
			return material.Description{}, err
		}
		texture, _ := c.attr("texture")
		environment, err := material.NewEnvironment(mix, texture)
		if err != nil {
			return material.Description{}, err
		}
		opts = append(opts, material.WithEnvironment(environment))
	}
	if c, ok := e.child(elemNormal); ok {
		normal, err := normalFrom(c)
		if err != nil {
			return material.Description{}, err
		}
		opts = append(opts, material.WithNormal(normal))
	}
	return material.NewDescription(opts...), nil
}

func instanceElement(d InstanceDescription) *element {
	desc := d.Description
	p, s, q, uv := desc.Position(), desc.Scale(), desc.Orientation(), desc.UVMatrix()
	return newElement(elemInstance).
		set("id", d.ID.String()).
		set("model", desc.Model()).
		set("lit", fmt.Sprint(desc.Lit())).
		setFloats("position", p[:]...).
		setFloats("scale", s[:]...).
		setFloats("orientation", q.W, q.V[0], q.V[1], q.V[2]).
		setFloats("uv", uv[:]...).
		add(materialElement(d.Material))
}

func instanceFrom(e *element) (InstanceDescription, error) {
	if err := e.expect(elemInstance); err != nil {
		return InstanceDescription{}, err
	}
	id, err := e.id("id")
	if err != nil {
		return InstanceDescription{}, err
	}
	modelName, err := e.required("model")
	if err != nil {
		return InstanceDescription{}, err
	}
	lit, err := e.boolOr("lit", true)
	if err != nil {
		return InstanceDescription{}, err
	}
	position, err := e.vec3("position")
	if err != nil {
		return InstanceDescription{}, err
	}
	scale, err := e.vec3("scale")
	if err != nil {
		return InstanceDescription{}, err
	}
	orientation, err := e.quat("orientation")
	if err != nil {
		return InstanceDescription{}, err
	}
	uv, err := e.mat3("uv")
	if err != nil {
		return InstanceDescription{}, err
	}
	desc, err := instance.NewDescription(modelName,
		instance.WithPosition(position),
		instance.WithScale(scale),
		instance.WithOrientation(orientation),
		instance.WithUVMatrix(uv),
		instance.WithLit(lit))
	if err != nil {
		return InstanceDescription{}, err
	}

	mat := material.NewDescription()
	if me, ok := e.child(elemMaterial); ok {
		if mat, err = materialFrom(me); err != nil {
			return InstanceDescription{}, err
		}
	}
	return InstanceDescription{ID: id, Description: desc, Material: mat}, nil
}

func shadowElement(s light.Shadow) *element {
	return newElement(elemShadow).
		set("size", fmt.Sprint(s.MapSize())).
		setFloat("bias", s.Bias()).
		setFloat("normal-bias", s.NormalBiasScale()).
		setFloat("factor-min", s.FactorMinimum())
}

func shadowFrom(e *element) (light.Shadow, error) {
	if err := e.expect(elemShadow); err != nil {
		return light.Shadow{}, err
	}
	size, err := e.integer("size")
	if err != nil {
		return light.Shadow{}, err
	}
	bias, err := e.float("bias")
	if err != nil {
		return light.Shadow{}, err
	}
	normalBias, err := e.float("normal-bias")
	if err != nil {
		return light.Shadow{}, err
	}
	factorMin, err := e.float("factor-min")
	if err != nil {
		return light.Shadow{}, err
	}
	return light.NewShadow(
		light.WithMapSize(size),
		light.WithBias(bias),
		light.WithNormalBiasScale(normalBias),
		light.WithFactorMinimum(factorMin))
}

func lightElement(l light.Light) *element {
	var e *element
	switch v := l.(type) {
	case light.Directional:
		d := v.Direction()
		e = newElement(elemLightDirectional).setFloats("direction", d[:]...)
	case light.Spherical:
		p := v.Position()
		e = newElement(elemLightSpherical).
			setFloats("position", p[:]...).
			setFloat("radius", v.Radius()).
			setFloat("falloff", v.Falloff())
	case light.Projective:
		p, q := v.Position(), v.Orientation()
		e = newElement(elemLightProjective).
			setFloats("position", p[:]...).
			setFloats("orientation", q.W, q.V[0], q.V[1], q.V[2]).
			set("image", v.Image()).
			setFloat("falloff", v.Falloff()).
			add(frustumElement(v.Frustum()))
	default:
		panic(fmt.Sprintf("xmlio: unknown light variant %T", l))
	}

	c := l.Color()
	e.set("id", l.ID().String()).
		setFloats("color", c[:]...).
		setFloat("intensity", l.Intensity()).
		set("enabled", fmt.Sprint(l.Enabled()))
	if s, ok := l.Shadow(); ok {
		e.add(shadowElement(s))
	}
	return e
}

// lightOptions decodes the attributes shared by every light element.
func lightOptions(e *element) (ident.ID, []light.LightBuilderOption, error) {
	id, err := e.id("id")
	if err != nil {
		return 0, nil, err
	}
	color, err := e.vec3("color")
	if err != nil {
		return 0, nil, err
	}
	intensity, err := e.float("intensity")
	if err != nil {
		return 0, nil, err
	}
	enabled, err := e.boolOr("enabled", true)
	if err != nil {
		return 0, nil, err
	}
	opts := []light.LightBuilderOption{
		light.WithColor(color[0], color[1], color[2]),
		light.WithIntensity(intensity),
		light.WithEnabled(enabled),
	}
	if se, ok := e.child(elemShadow); ok {
		shadow, err := shadowFrom(se)
		if err != nil {
			return 0, nil, err
		}
		opts = append(opts, light.WithShadow(shadow))
	}
	return id, opts, nil
}

func lightFrom(e *element) (light.Light, error) {
	switch {
	case e.XMLName.Space != Namespace:
		return nil, fmt.Errorf("%w: element <%s> has namespace %q, want %q", ErrInvalidDocument, e.local(), e.XMLName.Space, Namespace)
	case e.local() != elemLightDirectional && e.local() != elemLightSpherical && e.local() != elemLightProjective:
		return nil, fmt.Errorf("%w: <%s> is not a light", ErrInvalidDocument, e.local())
	}

	id, opts, err := lightOptions(e)
	if err != nil {
		return nil, err
	}
	switch e.local() {
	case elemLightDirectional:
		direction, err := e.vec3("direction")
		if err != nil {
			return nil, err
		}
		l, err := light.NewDirectional(id, direction, opts...)
		if err != nil {
			return nil, err
		}
		return l, nil
	case elemLightSpherical:
		position, err := e.vec3("position")
		if err != nil {
			return nil, err
		}
		radius, err := e.float("radius")
		if err != nil {
			return nil, err
		}
		falloff, err := e.floatOr("falloff", 1)
		if err != nil {
			return nil, err
		}
		l, err := light.NewSpherical(id, position, radius, append(opts, light.WithFalloff(falloff))...)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		position, err := e.vec3("position")
		if err != nil {
			return nil, err
		}
		orientation, err := e.quat("orientation")
		if err != nil {
			return nil, err
		}
		image, err := e.required("image")
		if err != nil {
			return nil, err
		}
		falloff, err := e.floatOr("falloff", 1)
		if err != nil {
			return nil, err
		}
		fe, err := e.requiredChild(elemFrustum)
		if err != nil {
			return nil, err
		}
		frustum, err := frustumFrom(fe)
		if err != nil {
			return nil, err
		}
		l, err := light.NewProjective(id, position, orientation, frustum, image, append(opts, light.WithFalloff(falloff))...)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}
