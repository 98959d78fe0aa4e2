// Package noise implements the noise-primitive boundary: scalar fields
// sampled at fixed-dimension coordinates.
//
// Every constructor returns an opaque [Function] mapping a coordinate to a
// value roughly in [-1, 1]. Functions are immutable after construction and
// safe for concurrent calls to Eval. Callers choose the dimensionality (2, 3,
// or 4) at construction time; constructors return
// [UnsupportedDimensionError] when a generator cannot be evaluated at the
// requested dimensionality (e.g. Perlin has no 4-D form).
//
// Lattice generators are backed by third-party implementations:
//   - Perlin family: github.com/aquilax/go-perlin
//   - Simplex family: github.com/ojrac/opensimplex-go
//
// Value and Worley noise, fractal cascades, combinators, and domain
// transforms are implemented here as composition over [Function].
package noise

import "fmt"

// Dimension bounds supported by the package.
const (
	MinDimensions = 2
	MaxDimensions = 4
)

// Function is an opaque scalar field. Eval must be safe for concurrent use;
// the coordinate slice is read-only and must have the dimensionality the
// function was constructed with.
type Function interface {
	Eval(p []float64) float64
}

// Func adapts a plain closure to the Function interface.
type Func func(p []float64) float64

// Eval calls f.
func (f Func) Eval(p []float64) float64 { return f(p) }

// UnsupportedDimensionError reports a generator asked to evaluate at a
// dimensionality it has no form for.
type UnsupportedDimensionError struct {
	Kind       string // generator name, e.g. "perlin"
	Dimensions int    // requested dimensionality
}

func (e *UnsupportedDimensionError) Error() string {
	return fmt.Sprintf("%s noise cannot be evaluated in %d dimensions", e.Kind, e.Dimensions)
}

// checkDimensions validates the package-wide dimensionality bounds.
func checkDimensions(kind string, dims int) error {
	if dims < MinDimensions || dims > MaxDimensions {
		return &UnsupportedDimensionError{Kind: kind, Dimensions: dims}
	}
	return nil
}

// SourceFactory builds one lattice generator for a seed. Fractal cascades and
// turbulence use a factory to construct independently-seeded octaves.
type SourceFactory func(seed uint32, dims int) (Function, error)
