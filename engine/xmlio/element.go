package xmlio

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/ident"
)

// element is a generic XML element. Documents are decoded into an element
// tree first, so the descriptor decoders never deal with tokens.
//
// On decode XMLName.Space holds the resolved namespace URI. On encode the
// prefix is written into XMLName.Local directly and the root carries the
// xmlns:s declaration.
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*element `xml:",any"`
}

// newElement creates an element in the scene namespace.
func newElement(local string) *element {
	return &element{XMLName: xml.Name{Local: Prefix + ":" + local}}
}

func (e *element) set(name, value string) *element {
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	return e
}

// setOptional sets the attribute only when value is not empty.
func (e *element) setOptional(name, value string) *element {
	if value == "" {
		return e
	}
	return e.set(name, value)
}

func (e *element) setFloat(name string, f float32) *element {
	return e.set(name, common.FormatFloat32(f))
}

func (e *element) setFloats(name string, fs ...float32) *element {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = common.FormatFloat32(f)
	}
	return e.set(name, strings.Join(parts, " "))
}

func (e *element) add(children ...*element) *element {
	e.Children = append(e.Children, children...)
	return e
}

// local returns the element name without its prefix.
func (e *element) local() string {
	return e.XMLName.Local
}

// expect checks that e is the named element in the scene namespace.
func (e *element) expect(local string) error {
	if e.XMLName.Space != Namespace {
		return fmt.Errorf("%w: element <%s> has namespace %q, want %q", ErrInvalidDocument, e.XMLName.Local, e.XMLName.Space, Namespace)
	}
	if e.XMLName.Local != local {
		return fmt.Errorf("%w: got element <%s>, want <%s>", ErrInvalidDocument, e.XMLName.Local, local)
	}
	return nil
}

// attr returns an unprefixed attribute.
func (e *element) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) field(name string) string {
	return e.local() + "." + name
}

func (e *element) required(name string) (string, error) {
	v, ok := e.attr(name)
	if !ok {
		return "", fmt.Errorf("%w: <%s> is missing attribute %q", ErrInvalidDocument, e.local(), name)
	}
	return v, nil
}

func (e *element) float(name string) (float32, error) {
	v, err := e.required(name)
	if err != nil {
		return 0, err
	}
	return common.ParseFloat32(e.field(name), v)
}

// floatOr parses an optional float attribute.
func (e *element) floatOr(name string, fallback float32) (float32, error) {
	v, ok := e.attr(name)
	if !ok {
		return fallback, nil
	}
	return common.ParseFloat32(e.field(name), v)
}

func (e *element) floats(name string, n int) ([]float32, error) {
	v, err := e.required(name)
	if err != nil {
		return nil, err
	}
	parts := strings.Fields(v)
	if len(parts) != n {
		return nil, &common.InputError{Field: e.field(name), Text: v, Err: fmt.Errorf("want %d values, got %d", n, len(parts))}
	}
	out := make([]float32, n)
	for i, p := range parts {
		if out[i], err = common.ParseFloat32(e.field(name), p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e *element) vec3(name string) (mgl32.Vec3, error) {
	f, err := e.floats(name, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{f[0], f[1], f[2]}, nil
}

func (e *element) vec4(name string) (mgl32.Vec4, error) {
	f, err := e.floats(name, 4)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	return mgl32.Vec4{f[0], f[1], f[2], f[3]}, nil
}

// quat reads a quaternion written as "w x y z".
func (e *element) quat(name string) (mgl32.Quat, error) {
	f, err := e.floats(name, 4)
	if err != nil {
		return mgl32.Quat{}, err
	}
	return mgl32.Quat{W: f[0], V: mgl32.Vec3{f[1], f[2], f[3]}}, nil
}

// mat3 reads a column-major 3x3 matrix.
func (e *element) mat3(name string) (mgl32.Mat3, error) {
	f, err := e.floats(name, 9)
	if err != nil {
		return mgl32.Mat3{}, err
	}
	var m mgl32.Mat3
	copy(m[:], f)
	return m, nil
}

func (e *element) boolean(name string) (bool, error) {
	v, err := e.required(name)
	if err != nil {
		return false, err
	}
	return common.ParseBool(e.field(name), v)
}

func (e *element) boolOr(name string, fallback bool) (bool, error) {
	v, ok := e.attr(name)
	if !ok {
		return fallback, nil
	}
	return common.ParseBool(e.field(name), v)
}

func (e *element) integer(name string) (int, error) {
	v, err := e.required(name)
	if err != nil {
		return 0, err
	}
	return common.ParseInt(e.field(name), v)
}

func (e *element) id(name string) (ident.ID, error) {
	v, err := e.required(name)
	if err != nil {
		return 0, err
	}
	n, err := common.ParseUint64(e.field(name), v)
	return ident.ID(n), err
}

// child returns the single child with the given local name.
func (e *element) child(local string) (*element, bool) {
	for _, c := range e.Children {
		if c.XMLName.Space == Namespace && c.XMLName.Local == local {
			return c, true
		}
	}
	return nil, false
}

func (e *element) requiredChild(local string) (*element, error) {
	c, ok := e.child(local)
	if !ok {
		return nil, fmt.Errorf("%w: <%s> is missing child <%s>", ErrInvalidDocument, e.local(), local)
	}
	return c, nil
}

// writeDocument writes root as a standalone document.
func writeDocument(w io.Writer, root *element) error {
	root.Attrs = append([]xml.Attr{{Name: xml.Name{Local: "xmlns:" + Prefix}, Value: Namespace}}, root.Attrs...)
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to encode %s: %w", root.XMLName.Local, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// readRoot decodes a document into an element tree.
func readRoot(r io.Reader) (*element, error) {
	var root element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &root, nil
}

// readDocument decodes a document and checks the root element.
func readDocument(r io.Reader, local string) (*element, error) {
	root, err := readRoot(r)
	if err != nil {
		return nil, err
	}
	if err := root.expect(local); err != nil {
		return nil, err
	}
	return root, nil
}
