// Package xmlio reads and writes scene descriptions as XML.
//
// Every element lives in the Namespace URI and is written with the Prefix
// prefix. Floats are written in their shortest form that parses back to the
// same float32, so decoding an encoded descriptor reproduces it exactly.
package xmlio

import "errors"

// Namespace is the XML namespace of scene documents.
const Namespace = "urn:oxy:sandbox:scene:1"

// Prefix is the namespace prefix used when writing.
const Prefix = "s"

// ErrInvalidDocument is matched by every structural decoding error: malformed
// XML, a wrong namespace or element, or a missing attribute. Malformed numbers
// are reported as *common.InputError instead.
var ErrInvalidDocument = errors.New("invalid scene document")

// Element names.
const (
	elemScene            = "scene"
	elemCamera           = "camera"
	elemFrustum          = "frustum"
	elemTexture          = "texture"
	elemMesh             = "mesh"
	elemModel            = "model"
	elemMaterial         = "material"
	elemAlbedo           = "albedo"
	elemAlpha            = "alpha"
	elemSpecular         = "specular"
	elemEmissive         = "emissive"
	elemEnvironment      = "environment"
	elemNormal           = "normal"
	elemInstance         = "instance"
	elemLightDirectional = "light-directional"
	elemLightSpherical   = "light-spherical"
	elemLightProjective  = "light-projective"
	elemShadow           = "shadow"
)
