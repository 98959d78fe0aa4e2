// Package expr defines the expression IR for composed noise functions: a
// closed set of variant node types, each owning named scalar parameters and
// zero or more child expression slots.
//
// An expression tree is built by the graph adapter (pkg/graph) or decoded
// from a document, optionally patched by parameter name, and compiled into a
// callable noise.Function. Trees are plain values: all operations are pure
// and synchronous, and the only mutating operation is patching, which
// requires exclusive access to the tree. Compiled functions are safe for
// concurrent evaluation as long as the backing noise primitives are, which
// pkg/noise guarantees.
package expr

// Expr is one node of an expression tree. The set of implementations is
// closed: compilation and serialization switch exhaustively over it, so a
// new variant means a new Kind constant, a decode registry entry, and a
// compile arm.
type Expr interface {
	// Kind reports the variant tag written to documents.
	Kind() Kind

	patchFloat(name string, value float64) int
	patchInt(name string, value uint32) int
}

// Child is an optional child-expression slot. A nil child is a well-formed
// incomplete expression during interactive editing; compiling it yields a
// MissingChildError rather than a fault.
type Child struct {
	Expr Expr
}

func (c *Child) patchFloat(name string, value float64) int {
	if c.Expr == nil {
		return 0
	}
	return c.Expr.patchFloat(name, value)
}

func (c *Child) patchInt(name string, value uint32) int {
	if c.Expr == nil {
		return 0
	}
	return c.Expr.patchInt(name, value)
}

// =============================================================================
// Generators
// =============================================================================

// Source is the shared payload of the plain lattice generators: a seed and
// the dimensionality the generator targets (0 means any).
type Source struct {
	Seed       IntVar `json:"seed"`
	Dimensions int    `json:"dimensions,omitempty"`
}

func (s *Source) patchFloat(string, float64) int { return 0 }
func (s *Source) patchInt(name string, value uint32) int {
	return s.Seed.setNamed(name, value)
}

// Perlin is classic Perlin gradient noise.
type Perlin struct{ Source }

// PerlinSurflet is the surflet variant of Perlin noise.
type PerlinSurflet struct{ Source }

// Simplex is simplex gradient noise.
type Simplex struct{ Source }

// OpenSimplex is OpenSimplex gradient noise.
type OpenSimplex struct{ Source }

// SuperSimplex is the smoother super-simplex variant.
type SuperSimplex struct{ Source }

// ValueNoise is interpolated lattice value noise.
type ValueNoise struct{ Source }

func (*Perlin) Kind() Kind        { return KindPerlin }
func (*PerlinSurflet) Kind() Kind { return KindPerlinSurflet }
func (*Simplex) Kind() Kind       { return KindSimplex }
func (*OpenSimplex) Kind() Kind   { return KindOpenSimplex }
func (*SuperSimplex) Kind() Kind  { return KindSuperSimplex }
func (*ValueNoise) Kind() Kind    { return KindValue }

// Worley is cellular noise parameterized by a distance metric and return kind.
type Worley struct {
	Seed       IntVar           `json:"seed"`
	Frequency  FloatVar         `json:"frequency"`
	Distance   DistanceFunction `json:"distance"`
	Return     WorleyReturn     `json:"return"`
	Dimensions int              `json:"dimensions,omitempty"`
}

func (*Worley) Kind() Kind { return KindWorley }

func (w *Worley) patchFloat(name string, value float64) int {
	return w.Frequency.setNamed(name, value)
}

func (w *Worley) patchInt(name string, value uint32) int {
	return w.Seed.setNamed(name, value)
}

// Checkerboard alternates between -1 and 1 on cells of width 2^size.
type Checkerboard struct {
	Size IntVar `json:"size"`
}

func (*Checkerboard) Kind() Kind { return KindCheckerboard }

func (c *Checkerboard) patchFloat(string, float64) int { return 0 }
func (c *Checkerboard) patchInt(name string, value uint32) int {
	return c.Size.setNamed(name, value)
}

// Cylinders is concentric cylinders of the given frequency.
type Cylinders struct {
	Frequency FloatVar `json:"frequency"`
}

func (*Cylinders) Kind() Kind { return KindCylinders }

func (c *Cylinders) patchFloat(name string, value float64) int {
	return c.Frequency.setNamed(name, value)
}
func (c *Cylinders) patchInt(string, uint32) int { return 0 }

// Constant evaluates to a fixed value everywhere.
type Constant struct {
	Value FloatVar `json:"value"`
}

func (*Constant) Kind() Kind { return KindConstant }

func (c *Constant) patchFloat(name string, value float64) int {
	return c.Value.setNamed(name, value)
}
func (c *Constant) patchInt(string, uint32) int { return 0 }

// =============================================================================
// Fractals
// =============================================================================

// Fractal is the shared payload of the fractal cascades.
type Fractal struct {
	Source      SourceType `json:"source"`
	Seed        IntVar     `json:"seed"`
	Octaves     IntVar     `json:"octaves"`
	Frequency   FloatVar   `json:"frequency"`
	Lacunarity  FloatVar   `json:"lacunarity"`
	Persistence FloatVar   `json:"persistence"`
	Dimensions  int        `json:"dimensions,omitempty"`
}

func (f *Fractal) patchFloat(name string, value float64) int {
	return f.Frequency.setNamed(name, value) +
		f.Lacunarity.setNamed(name, value) +
		f.Persistence.setNamed(name, value)
}

func (f *Fractal) patchInt(name string, value uint32) int {
	return f.Seed.setNamed(name, value) + f.Octaves.setNamed(name, value)
}

// BasicMulti is a multifractal cascade.
type BasicMulti struct{ Fractal }

// Billow is billowy fractal noise.
type Billow struct{ Fractal }

// Fbm is fractal Brownian motion.
type Fbm struct{ Fractal }

// HybridMulti is a hybrid multifractal cascade.
type HybridMulti struct{ Fractal }

func (*BasicMulti) Kind() Kind  { return KindBasicMulti }
func (*Billow) Kind() Kind      { return KindBillow }
func (*Fbm) Kind() Kind         { return KindFbm }
func (*HybridMulti) Kind() Kind { return KindHybridMulti }

// RidgedMulti is ridged multifractal noise with per-octave weight attenuation.
type RidgedMulti struct {
	Fractal
	Attenuation FloatVar `json:"attenuation"`
}

func (*RidgedMulti) Kind() Kind { return KindRidgedMulti }

func (r *RidgedMulti) patchFloat(name string, value float64) int {
	return r.Fractal.patchFloat(name, value) + r.Attenuation.setNamed(name, value)
}

// =============================================================================
// Combinators
// =============================================================================

// Binary is the shared payload of the two-input combinators.
type Binary struct {
	Lhs Child `json:"lhs"`
	Rhs Child `json:"rhs"`
}

func (b *Binary) patchFloat(name string, value float64) int {
	return b.Lhs.patchFloat(name, value) + b.Rhs.patchFloat(name, value)
}

func (b *Binary) patchInt(name string, value uint32) int {
	return b.Lhs.patchInt(name, value) + b.Rhs.patchInt(name, value)
}

// Add sums two sources.
type Add struct{ Binary }

// Multiply multiplies two sources.
type Multiply struct{ Binary }

// Min takes the pointwise minimum of two sources.
type Min struct{ Binary }

// Max takes the pointwise maximum of two sources.
type Max struct{ Binary }

// Power raises the first source to the power of the second.
type Power struct{ Binary }

func (*Add) Kind() Kind      { return KindAdd }
func (*Multiply) Kind() Kind { return KindMultiply }
func (*Min) Kind() Kind      { return KindMin }
func (*Max) Kind() Kind      { return KindMax }
func (*Power) Kind() Kind    { return KindPower }

// Unary is the shared payload of the single-input modifiers.
type Unary struct {
	Source Child `json:"source"`
}

func (u *Unary) patchFloat(name string, value float64) int {
	return u.Source.patchFloat(name, value)
}

func (u *Unary) patchInt(name string, value uint32) int {
	return u.Source.patchInt(name, value)
}

// Abs takes the absolute value of its source.
type Abs struct{ Unary }

// Negate negates its source.
type Negate struct{ Unary }

func (*Abs) Kind() Kind    { return KindAbs }
func (*Negate) Kind() Kind { return KindNegate }

// Blend interpolates between two sources driven by a control function.
type Blend struct {
	A       Child `json:"a"`
	B       Child `json:"b"`
	Control Child `json:"control"`
}

func (*Blend) Kind() Kind { return KindBlend }

func (b *Blend) patchFloat(name string, value float64) int {
	return b.A.patchFloat(name, value) + b.B.patchFloat(name, value) + b.Control.patchFloat(name, value)
}

func (b *Blend) patchInt(name string, value uint32) int {
	return b.A.patchInt(name, value) + b.B.patchInt(name, value) + b.Control.patchInt(name, value)
}

// Select switches between two sources where a control value falls inside
// [LowerBound, UpperBound], blending across edges of width Falloff.
type Select struct {
	A          Child    `json:"a"`
	B          Child    `json:"b"`
	Control    Child    `json:"control"`
	LowerBound FloatVar `json:"lower_bound"`
	UpperBound FloatVar `json:"upper_bound"`
	Falloff    FloatVar `json:"falloff"`
}

func (*Select) Kind() Kind { return KindSelect }

func (s *Select) patchFloat(name string, value float64) int {
	return s.A.patchFloat(name, value) + s.B.patchFloat(name, value) + s.Control.patchFloat(name, value) +
		s.LowerBound.setNamed(name, value) + s.UpperBound.setNamed(name, value) + s.Falloff.setNamed(name, value)
}

func (s *Select) patchInt(name string, value uint32) int {
	return s.A.patchInt(name, value) + s.B.patchInt(name, value) + s.Control.patchInt(name, value)
}

// Clamp limits its source to [LowerBound, UpperBound].
type Clamp struct {
	Source     Child    `json:"source"`
	LowerBound FloatVar `json:"lower_bound"`
	UpperBound FloatVar `json:"upper_bound"`
}

func (*Clamp) Kind() Kind { return KindClamp }

func (c *Clamp) patchFloat(name string, value float64) int {
	return c.Source.patchFloat(name, value) +
		c.LowerBound.setNamed(name, value) + c.UpperBound.setNamed(name, value)
}

func (c *Clamp) patchInt(name string, value uint32) int {
	return c.Source.patchInt(name, value)
}

// Exponent remaps its source through a power curve.
type Exponent struct {
	Source   Child    `json:"source"`
	Exponent FloatVar `json:"exponent"`
}

func (*Exponent) Kind() Kind { return KindExponent }

func (e *Exponent) patchFloat(name string, value float64) int {
	return e.Source.patchFloat(name, value) + e.Exponent.setNamed(name, value)
}

func (e *Exponent) patchInt(name string, value uint32) int {
	return e.Source.patchInt(name, value)
}

// ScaleBias applies source*scale + bias.
type ScaleBias struct {
	Source Child    `json:"source"`
	Scale  FloatVar `json:"scale"`
	Bias   FloatVar `json:"bias"`
}

func (*ScaleBias) Kind() Kind { return KindScaleBias }

func (s *ScaleBias) patchFloat(name string, value float64) int {
	return s.Source.patchFloat(name, value) +
		s.Scale.setNamed(name, value) + s.Bias.setNamed(name, value)
}

func (s *ScaleBias) patchInt(name string, value uint32) int {
	return s.Source.patchInt(name, value)
}

// MinCurvePoints is the smallest control-point list a Curve compiles with.
// Fewer points (or fewer than four distinct inputs) compile to a constant
// zero function instead of faulting.
const MinCurvePoints = 4

// CurvePoint maps one source value to an output value.
type CurvePoint struct {
	Input  FloatVar `json:"input"`
	Output FloatVar `json:"output"`
}

// Curve maps source values through a spline over its control points.
type Curve struct {
	Source        Child        `json:"source"`
	ControlPoints []CurvePoint `json:"control_points"`
}

func (*Curve) Kind() Kind { return KindCurve }

func (c *Curve) patchFloat(name string, value float64) int {
	n := c.Source.patchFloat(name, value)
	for i := range c.ControlPoints {
		n += c.ControlPoints[i].Input.setNamed(name, value)
		n += c.ControlPoints[i].Output.setNamed(name, value)
	}
	return n
}

func (c *Curve) patchInt(name string, value uint32) int {
	return c.Source.patchInt(name, value)
}

// MinTerracePoints is the smallest control-point list a Terrace compiles
// with. Fewer (or all-equal) points compile to a constant zero function.
const MinTerracePoints = 2

// Terrace maps source values onto terraced steps between control points.
type Terrace struct {
	Source        Child      `json:"source"`
	Inverted      bool       `json:"inverted,omitempty"`
	ControlPoints []FloatVar `json:"control_points"`
}

func (*Terrace) Kind() Kind { return KindTerrace }

func (t *Terrace) patchFloat(name string, value float64) int {
	n := t.Source.patchFloat(name, value)
	for i := range t.ControlPoints {
		n += t.ControlPoints[i].setNamed(name, value)
	}
	return n
}

func (t *Terrace) patchInt(name string, value uint32) int {
	return t.Source.patchInt(name, value)
}

// =============================================================================
// Transforms
// =============================================================================

// Transform is the shared payload of the domain transforms: a source and one
// scalar parameter per axis.
type Transform struct {
	Source Child       `json:"source"`
	Axes   [4]FloatVar `json:"axes"`
}

func (t *Transform) patchFloat(name string, value float64) int {
	n := t.Source.patchFloat(name, value)
	for i := range t.Axes {
		n += t.Axes[i].setNamed(name, value)
	}
	return n
}

func (t *Transform) patchInt(name string, value uint32) int {
	return t.Source.patchInt(name, value)
}

// ScalePoint scales the input coordinate per axis.
type ScalePoint struct{ Transform }

// TranslatePoint translates the input coordinate per axis.
type TranslatePoint struct{ Transform }

// RotatePoint rotates the input coordinate; axes hold angles in degrees.
type RotatePoint struct{ Transform }

func (*ScalePoint) Kind() Kind     { return KindScalePoint }
func (*TranslatePoint) Kind() Kind { return KindTranslatePoint }
func (*RotatePoint) Kind() Kind    { return KindRotatePoint }

// Turbulence perturbs the input coordinate with fractal distortion fields
// before sampling its source.
type Turbulence struct {
	Source    Child      `json:"source"`
	Noise     SourceType `json:"noise"`
	Seed      IntVar     `json:"seed"`
	Frequency FloatVar   `json:"frequency"`
	Power     FloatVar   `json:"power"`
	Roughness IntVar     `json:"roughness"`
}

func (*Turbulence) Kind() Kind { return KindTurbulence }

func (t *Turbulence) patchFloat(name string, value float64) int {
	return t.Source.patchFloat(name, value) +
		t.Frequency.setNamed(name, value) + t.Power.setNamed(name, value)
}

func (t *Turbulence) patchInt(name string, value uint32) int {
	return t.Source.patchInt(name, value) +
		t.Seed.setNamed(name, value) + t.Roughness.setNamed(name, value)
}

// Displace offsets each axis of the input coordinate by the value of a child
// expression before sampling its source.
type Displace struct {
	Source Child    `json:"source"`
	Axes   [4]Child `json:"axes"`
}

func (*Displace) Kind() Kind { return KindDisplace }

func (d *Displace) patchFloat(name string, value float64) int {
	n := d.Source.patchFloat(name, value)
	for i := range d.Axes {
		n += d.Axes[i].patchFloat(name, value)
	}
	return n
}

func (d *Displace) patchInt(name string, value uint32) int {
	n := d.Source.patchInt(name, value)
	for i := range d.Axes {
		n += d.Axes[i].patchInt(name, value)
	}
	return n
}
