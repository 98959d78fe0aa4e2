package expr

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// PatchFloat overwrites every float parameter named name anywhere in the
// tree, regardless of depth or variant, and reports how many were updated.
// Name collisions across unrelated variants are matched on purpose: names
// are labels, not identifiers. A count of zero is a no-op, not an error.
//
// Patching mutates the tree in place and therefore requires exclusive
// access; all other operations on a tree are read-only.
//
// The empty string never matches: anonymous parameters have no name and
// cannot be patched.
func PatchFloat(e Expr, name string, value float64) int {
	if e == nil || name == "" {
		return 0
	}
	return e.patchFloat(name, value)
}

// PatchInt is PatchFloat for unsigned-integer parameters (seeds, octaves,
// sizes, roughness).
func PatchInt(e Expr, name string, value uint32) int {
	if e == nil || name == "" {
		return 0
	}
	return e.patchInt(name, value)
}

// PatchSet is a table of named scalar overrides applied after
// deserialization and before compilation. It is transient caller state,
// typically parsed from a TOML file:
//
//	[floats]
//	frequency = 2.5
//
//	[ints]
//	seed = 42
type PatchSet struct {
	Floats map[string]float64 `toml:"floats"`
	Ints   map[string]uint32  `toml:"ints"`
}

// Apply patches every entry of the set into the tree and reports the total
// number of parameters updated.
func (ps *PatchSet) Apply(e Expr) int {
	if ps == nil {
		return 0
	}
	n := 0
	for name, value := range ps.Floats {
		n += PatchFloat(e, name, value)
	}
	for name, value := range ps.Ints {
		n += PatchInt(e, name, value)
	}
	return n
}

// ApplyAll patches every output tree of a document and reports the total
// number of parameters updated.
func (ps *PatchSet) ApplyAll(doc *Document) int {
	if ps == nil || doc == nil {
		return 0
	}
	n := 0
	for _, e := range doc.Outputs {
		n += ps.Apply(e)
	}
	return n
}

// ParsePatchSet decodes a TOML patch table from an io.Reader.
func ParsePatchSet(r io.Reader) (*PatchSet, error) {
	var ps PatchSet
	if _, err := toml.NewDecoder(r).Decode(&ps); err != nil {
		return nil, fmt.Errorf("decode patch set: %w", err)
	}
	return &ps, nil
}

// ParsePatchFile reads a TOML patch table from a file.
func ParsePatchFile(path string) (*PatchSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	ps, err := ParsePatchSet(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ps, nil
}
