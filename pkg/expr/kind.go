package expr

// Kind is the variant tag of an expression node, as written to documents.
type Kind string

// Generator variants.
const (
	KindPerlin        Kind = "Perlin"
	KindPerlinSurflet Kind = "PerlinSurflet"
	KindSimplex       Kind = "Simplex"
	KindOpenSimplex   Kind = "OpenSimplex"
	KindSuperSimplex  Kind = "SuperSimplex"
	KindValue         Kind = "Value"
	KindWorley        Kind = "Worley"
	KindCheckerboard  Kind = "Checkerboard"
	KindCylinders     Kind = "Cylinders"
	KindConstant      Kind = "Constant"
)

// Fractal variants.
const (
	KindBasicMulti  Kind = "BasicMulti"
	KindBillow      Kind = "Billow"
	KindFbm         Kind = "Fbm"
	KindHybridMulti Kind = "HybridMulti"
	KindRidgedMulti Kind = "RidgedMulti"
)

// Combinator variants.
const (
	KindAdd       Kind = "Add"
	KindMultiply  Kind = "Multiply"
	KindMin       Kind = "Min"
	KindMax       Kind = "Max"
	KindPower     Kind = "Power"
	KindAbs       Kind = "Abs"
	KindNegate    Kind = "Negate"
	KindBlend     Kind = "Blend"
	KindSelect    Kind = "Select"
	KindClamp     Kind = "Clamp"
	KindExponent  Kind = "Exponent"
	KindScaleBias Kind = "ScaleBias"
	KindCurve     Kind = "Curve"
	KindTerrace   Kind = "Terrace"
)

// Transform variants.
const (
	KindScalePoint     Kind = "ScalePoint"
	KindTranslatePoint Kind = "TranslatePoint"
	KindRotatePoint    Kind = "RotatePoint"
	KindTurbulence     Kind = "Turbulence"
	KindDisplace       Kind = "Displace"
)

// SourceType selects the lattice generator a fractal or turbulence variant
// is built from.
type SourceType string

// Fractal source generators.
const (
	SourceOpenSimplex   SourceType = "OpenSimplex"
	SourcePerlin        SourceType = "Perlin"
	SourcePerlinSurflet SourceType = "PerlinSurflet"
	SourceSimplex       SourceType = "Simplex"
	SourceSuperSimplex  SourceType = "SuperSimplex"
	SourceValue         SourceType = "Value"
	SourceWorley        SourceType = "Worley"
)

// DistanceFunction names the distance metric of a Worley variant.
type DistanceFunction string

// Worley distance metrics.
const (
	DistanceChebyshev        DistanceFunction = "chebyshev"
	DistanceEuclidean        DistanceFunction = "euclidean"
	DistanceEuclideanSquared DistanceFunction = "euclidean_squared"
	DistanceManhattan        DistanceFunction = "manhattan"
)

// WorleyReturn names what a Worley variant reports per sample.
type WorleyReturn string

// Worley return kinds.
const (
	ReturnDistance WorleyReturn = "distance"
	ReturnValue    WorleyReturn = "value"
)
