package expr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Document Serialization API
// =============================================================================

// Document is the serialized form of one or more named expression trees,
// one per graph output node. The format is self-describing JSON with a
// variant tag per node, stable field order, and stable indentation, so
// documents diff cleanly under revision control and a no-op patch leaves
// the bytes identical.
type Document struct {
	Outputs map[string]Expr
}

// MarshalDocument converts a document to indented JSON bytes.
// Output names are sorted for deterministic output.
func MarshalDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument decodes a document from JSON bytes.
// An unknown variant tag anywhere fails the whole document.
func UnmarshalDocument(data []byte) (*Document, error) {
	return ReadDocument(bytes.NewReader(data))
}

// WriteDocument writes a document as JSON to an io.Writer.
func WriteDocument(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadDocument decodes a JSON document from an io.Reader.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// WriteDocumentFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteDocumentFile(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(doc, f)
}

// ReadDocumentFile reads a JSON file and returns the decoded document.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := ReadDocument(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// Marshal converts a single expression tree to indented JSON bytes.
func Marshal(e Expr) ([]byte, error) {
	raw, err := marshalExpr(e)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Unmarshal decodes a single expression tree from JSON bytes.
func Unmarshal(data []byte) (Expr, error) {
	return unmarshalExpr(data)
}

// Clone returns a deep structural copy of an expression tree. Fan-out in the
// node graph is represented by duplication, never aliasing, so the adapter
// clones memoized subtrees before handing them to a second consumer.
func Clone(e Expr) (Expr, error) {
	if e == nil {
		return nil, nil
	}
	raw, err := marshalExpr(e)
	if err != nil {
		return nil, err
	}
	return unmarshalExpr(raw)
}

// =============================================================================
// Internal Implementation
// =============================================================================

// envelope is the on-disk shape of one expression node: the variant tag plus
// the variant's own fields.
type envelope struct {
	Kind Kind            `json:"kind"`
	Expr json.RawMessage `json:"expr,omitempty"`
}

func marshalExpr(e Expr) (json.RawMessage, error) {
	if e == nil {
		return json.RawMessage("null"), nil
	}
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: e.Kind(), Expr: body})
}

func unmarshalExpr(data []byte) (Expr, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	if env.Kind == "" {
		return nil, fmt.Errorf("decode expression: missing variant tag")
	}
	e, ok := newForKind(env.Kind)
	if !ok {
		return nil, &UnknownVariantError{Tag: string(env.Kind)}
	}
	if len(env.Expr) > 0 {
		if err := json.Unmarshal(env.Expr, e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Kind, err)
		}
	}
	return e, nil
}

// newForKind allocates the concrete variant for a tag. This and the compile
// switch are the two places a new variant must be registered.
func newForKind(k Kind) (Expr, bool) {
	switch k {
	case KindPerlin:
		return &Perlin{}, true
	case KindPerlinSurflet:
		return &PerlinSurflet{}, true
	case KindSimplex:
		return &Simplex{}, true
	case KindOpenSimplex:
		return &OpenSimplex{}, true
	case KindSuperSimplex:
		return &SuperSimplex{}, true
	case KindValue:
		return &ValueNoise{}, true
	case KindWorley:
		return &Worley{}, true
	case KindCheckerboard:
		return &Checkerboard{}, true
	case KindCylinders:
		return &Cylinders{}, true
	case KindConstant:
		return &Constant{}, true
	case KindBasicMulti:
		return &BasicMulti{}, true
	case KindBillow:
		return &Billow{}, true
	case KindFbm:
		return &Fbm{}, true
	case KindHybridMulti:
		return &HybridMulti{}, true
	case KindRidgedMulti:
		return &RidgedMulti{}, true
	case KindAdd:
		return &Add{}, true
	case KindMultiply:
		return &Multiply{}, true
	case KindMin:
		return &Min{}, true
	case KindMax:
		return &Max{}, true
	case KindPower:
		return &Power{}, true
	case KindAbs:
		return &Abs{}, true
	case KindNegate:
		return &Negate{}, true
	case KindBlend:
		return &Blend{}, true
	case KindSelect:
		return &Select{}, true
	case KindClamp:
		return &Clamp{}, true
	case KindExponent:
		return &Exponent{}, true
	case KindScaleBias:
		return &ScaleBias{}, true
	case KindCurve:
		return &Curve{}, true
	case KindTerrace:
		return &Terrace{}, true
	case KindScalePoint:
		return &ScalePoint{}, true
	case KindTranslatePoint:
		return &TranslatePoint{}, true
	case KindRotatePoint:
		return &RotatePoint{}, true
	case KindTurbulence:
		return &Turbulence{}, true
	case KindDisplace:
		return &Displace{}, true
	default:
		return nil, false
	}
}

// MarshalJSON encodes the slot as the child's envelope, or null when unset.
func (c Child) MarshalJSON() ([]byte, error) {
	return marshalExpr(c.Expr)
}

// UnmarshalJSON decodes an envelope into the slot; null leaves it unset.
func (c *Child) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		c.Expr = nil
		return nil
	}
	e, err := unmarshalExpr(data)
	if err != nil {
		return err
	}
	c.Expr = e
	return nil
}

// MarshalJSON encodes the output map with each tree in envelope form.
func (d *Document) MarshalJSON() ([]byte, error) {
	outputs := make(map[string]Child, len(d.Outputs))
	for name, e := range d.Outputs {
		outputs[name] = Child{Expr: e}
	}
	return json.Marshal(struct {
		Outputs map[string]Child `json:"outputs"`
	}{Outputs: outputs})
}

// UnmarshalJSON decodes the output map, failing the whole document on the
// first malformed or unknown-variant tree.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Outputs map[string]Child `json:"outputs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Outputs = make(map[string]Expr, len(raw.Outputs))
	for name, c := range raw.Outputs {
		d.Outputs[name] = c.Expr
	}
	return nil
}
