package expr

import (
	"errors"
	"fmt"
)

// DimensionMismatchError reports a compile request whose dimensionality
// conflicts with what a variant declares or what the primitive library
// supports. Declared is 0 when the variant accepts any dimensionality but
// the library has no form for the requested one.
type DimensionMismatchError struct {
	Kind      Kind
	Declared  int
	Requested int
}

func (e *DimensionMismatchError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("unsupported dimensionality %d", e.Requested)
	}
	if e.Declared == 0 {
		return fmt.Sprintf("%s cannot be compiled for %d dimensions", e.Kind, e.Requested)
	}
	return fmt.Sprintf("%s targets %d dimensions, cannot compile for %d", e.Kind, e.Declared, e.Requested)
}

// MissingChildError reports a required child slot left unset on an otherwise
// well-formed (incomplete) expression.
type MissingChildError struct {
	Kind Kind
	Slot string
}

func (e *MissingChildError) Error() string {
	return fmt.Sprintf("%s has no expression wired to %q", e.Kind, e.Slot)
}

// UnknownVariantError reports a document carrying a variant tag this version
// does not know. Deserialization aborts for the whole document; there is no
// forward-compatible default noise function.
type UnknownVariantError struct {
	Tag string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown expression variant %q", e.Tag)
}

// IsCompileError reports whether err (anywhere in its chain) is one of the
// structured errors Compile produces for an uncompilable tree: a
// dimensionality conflict, an unset child slot, or an unrecognized source
// type on a fractal or turbulence variant.
func IsCompileError(err error) bool {
	var (
		dims    *DimensionMismatchError
		missing *MissingChildError
		variant *UnknownVariantError
	)
	return errors.As(err, &dims) || errors.As(err, &missing) || errors.As(err, &variant)
}
