package expr

import (
	"errors"

	"github.com/noisegraph/noisegraph/pkg/noise"
)

// Compile lowers an expression tree into a callable noise function of the
// requested dimensionality (2, 3, or 4). Children compile depth-first, so a
// structural error anywhere discards the whole compilation. Compiling is
// pure: the tree is not modified and equal trees compile to behaviorally
// identical functions.
func Compile(e Expr, dims int) (noise.Function, error) {
	if dims < noise.MinDimensions || dims > noise.MaxDimensions {
		return nil, &DimensionMismatchError{Requested: dims}
	}
	if e == nil {
		return nil, &MissingChildError{Slot: "root"}
	}
	return compile(e, dims)
}

func compile(e Expr, dims int) (noise.Function, error) {
	switch v := e.(type) {
	case *Perlin:
		return compileSource(v, noise.NewPerlin, &v.Source, dims)
	case *PerlinSurflet:
		return compileSource(v, noise.NewPerlinSurflet, &v.Source, dims)
	case *Simplex:
		return compileSource(v, noise.NewSimplex, &v.Source, dims)
	case *OpenSimplex:
		return compileSource(v, noise.NewOpenSimplex, &v.Source, dims)
	case *SuperSimplex:
		return compileSource(v, noise.NewSuperSimplex, &v.Source, dims)
	case *ValueNoise:
		return compileSource(v, noise.NewValue, &v.Source, dims)

	case *Worley:
		if err := checkDims(v, v.Dimensions, dims); err != nil {
			return nil, err
		}
		fn, err := noise.NewWorley(v.Seed.Eval(), v.Frequency.Eval(), distanceFunc(v.Distance), returnKind(v.Return), dims)
		return fn, wrapDimension(v, dims, err)

	case *Checkerboard:
		return noise.NewCheckerboard(v.Size.Eval()), nil
	case *Cylinders:
		return noise.NewCylinders(v.Frequency.Eval()), nil
	case *Constant:
		return noise.NewConstant(v.Value.Eval()), nil

	case *BasicMulti:
		return compileFractal(v, noise.NewBasicMulti, &v.Fractal, dims)
	case *Billow:
		return compileFractal(v, noise.NewBillow, &v.Fractal, dims)
	case *Fbm:
		return compileFractal(v, noise.NewFbm, &v.Fractal, dims)
	case *HybridMulti:
		return compileFractal(v, noise.NewHybridMulti, &v.Fractal, dims)
	case *RidgedMulti:
		if err := checkDims(v, v.Dimensions, dims); err != nil {
			return nil, err
		}
		factory, err := sourceFactory(v.Source)
		if err != nil {
			return nil, err
		}
		fn, err := noise.NewRidgedMulti(factory, noise.RidgedParams{
			FractalParams: fractalParams(&v.Fractal),
			Attenuation:   v.Attenuation.Eval(),
		}, dims)
		return fn, wrapDimension(v, dims, err)

	case *Add:
		return compileBinary(v, noise.NewAdd, &v.Binary, dims)
	case *Multiply:
		return compileBinary(v, noise.NewMultiply, &v.Binary, dims)
	case *Min:
		return compileBinary(v, noise.NewMin, &v.Binary, dims)
	case *Max:
		return compileBinary(v, noise.NewMax, &v.Binary, dims)
	case *Power:
		return compileBinary(v, noise.NewPower, &v.Binary, dims)

	case *Abs:
		src, err := compileChild(v, "source", v.Source, dims)
		if err != nil {
			return nil, err
		}
		return noise.NewAbs(src), nil
	case *Negate:
		src, err := compileChild(v, "source", v.Source, dims)
		if err != nil {
			return nil, err
		}
		return noise.NewNegate(src), nil

	case *Blend:
		a, b, control, err := compileSelector(v, v.A, v.B, v.Control, dims)
		if err != nil {
			return nil, err
		}
		return noise.NewBlend(a, b, control), nil
	case *Select:
		a, b, control, err := compileSelector(v, v.A, v.B, v.Control, dims)
		if err != nil {
			return nil, err
		}
		return noise.NewSelect(a, b, control, v.LowerBound.Eval(), v.UpperBound.Eval(), v.Falloff.Eval()), nil

	case *Clamp:
		src, err := compileChild(v, "source", v.Source, dims)
		if err != nil {
			return nil, err
		}
		return noise.NewClamp(src, v.LowerBound.Eval(), v.UpperBound.Eval()), nil
	case *Exponent:
		src, err := compileChild(v, "source", v.Source, dims)
		if err != nil {
			return nil, err
		}
		return noise.NewExponent(src, v.Exponent.Eval()), nil
	case *ScaleBias:
		src, err := compileChild(v, "source", v.Source, dims)
		if err != nil {
			return nil, err
		}
		return noise.NewScaleBias(src, v.Scale.Eval(), v.Bias.Eval()), nil

	case *Curve:
		return compileCurve(v, dims)
	case *Terrace:
		return compileTerrace(v, dims)

	case *ScalePoint:
		return compileTransform(v, noise.NewScalePoint, &v.Transform, dims)
	case *TranslatePoint:
		return compileTransform(v, noise.NewTranslatePoint, &v.Transform, dims)
	case *RotatePoint:
		return compileTransform(v, noise.NewRotatePoint, &v.Transform, dims)

	case *Turbulence:
		src, err := compileChild(v, "source", v.Source, dims)
		if err != nil {
			return nil, err
		}
		factory, err := sourceFactory(v.Noise)
		if err != nil {
			return nil, err
		}
		fn, err := noise.NewTurbulence(src, factory, v.Seed.Eval(), v.Frequency.Eval(), v.Power.Eval(), v.Roughness.Eval(), dims)
		return fn, wrapDimension(v, dims, err)

	case *Displace:
		src, err := compileChild(v, "source", v.Source, dims)
		if err != nil {
			return nil, err
		}
		var axes [4]noise.Function
		slots := [4]string{"axis_x", "axis_y", "axis_z", "axis_w"}
		for i := range axes {
			axes[i], err = compileChild(v, slots[i], v.Axes[i], dims)
			if err != nil {
				return nil, err
			}
		}
		return noise.NewDisplace(src, axes, dims), nil

	default:
		// Unreachable for expressions built through this package.
		return nil, &UnknownVariantError{Tag: string(e.Kind())}
	}
}

type sourceConstructor func(seed uint32, dims int) (noise.Function, error)

func compileSource(e Expr, construct sourceConstructor, s *Source, dims int) (noise.Function, error) {
	if err := checkDims(e, s.Dimensions, dims); err != nil {
		return nil, err
	}
	fn, err := construct(s.Seed.Eval(), dims)
	return fn, wrapDimension(e, dims, err)
}

type fractalConstructor func(factory noise.SourceFactory, p noise.FractalParams, dims int) (noise.Function, error)

func compileFractal(e Expr, construct fractalConstructor, f *Fractal, dims int) (noise.Function, error) {
	if err := checkDims(e, f.Dimensions, dims); err != nil {
		return nil, err
	}
	factory, err := sourceFactory(f.Source)
	if err != nil {
		return nil, err
	}
	fn, err := construct(factory, fractalParams(f), dims)
	return fn, wrapDimension(e, dims, err)
}

func fractalParams(f *Fractal) noise.FractalParams {
	return noise.FractalParams{
		Seed:        f.Seed.Eval(),
		Octaves:     f.Octaves.Eval(),
		Frequency:   f.Frequency.Eval(),
		Lacunarity:  f.Lacunarity.Eval(),
		Persistence: f.Persistence.Eval(),
	}
}

type binaryConstructor func(a, b noise.Function) noise.Function

func compileBinary(e Expr, construct binaryConstructor, b *Binary, dims int) (noise.Function, error) {
	lhs, err := compileChild(e, "lhs", b.Lhs, dims)
	if err != nil {
		return nil, err
	}
	rhs, err := compileChild(e, "rhs", b.Rhs, dims)
	if err != nil {
		return nil, err
	}
	return construct(lhs, rhs), nil
}

func compileSelector(e Expr, a, b, control Child, dims int) (noise.Function, noise.Function, noise.Function, error) {
	fa, err := compileChild(e, "a", a, dims)
	if err != nil {
		return nil, nil, nil, err
	}
	fb, err := compileChild(e, "b", b, dims)
	if err != nil {
		return nil, nil, nil, err
	}
	fc, err := compileChild(e, "control", control, dims)
	if err != nil {
		return nil, nil, nil, err
	}
	return fa, fb, fc, nil
}

type transformConstructor func(source noise.Function, axes [4]float64, dims int) noise.Function

func compileTransform(e Expr, construct transformConstructor, t *Transform, dims int) (noise.Function, error) {
	src, err := compileChild(e, "source", t.Source, dims)
	if err != nil {
		return nil, err
	}
	var axes [4]float64
	for i := range axes {
		axes[i] = t.Axes[i].Eval()
	}
	return construct(src, axes, dims), nil
}

// compileCurve validates the control-point list before delegating: the
// primitive spline needs at least four points with four distinct inputs, and
// an under-specified curve degrades to a constant zero function.
func compileCurve(c *Curve, dims int) (noise.Function, error) {
	src, err := compileChild(c, "source", c.Source, dims)
	if err != nil {
		return nil, err
	}
	points := make([]noise.ControlPoint, len(c.ControlPoints))
	distinct := make(map[float64]struct{}, len(points))
	for i, cp := range c.ControlPoints {
		points[i] = noise.ControlPoint{Input: cp.Input.Eval(), Output: cp.Output.Eval()}
		distinct[points[i].Input] = struct{}{}
	}
	if len(points) < MinCurvePoints || len(distinct) < MinCurvePoints {
		return noise.NewConstant(0), nil
	}
	return noise.NewCurve(src, points), nil
}

// compileTerrace degrades to a constant zero function when fewer than two
// distinct control points are present.
func compileTerrace(t *Terrace, dims int) (noise.Function, error) {
	src, err := compileChild(t, "source", t.Source, dims)
	if err != nil {
		return nil, err
	}
	levels := make([]float64, len(t.ControlPoints))
	distinct := make(map[float64]struct{}, len(levels))
	for i := range t.ControlPoints {
		levels[i] = t.ControlPoints[i].Eval()
		distinct[levels[i]] = struct{}{}
	}
	if len(levels) < MinTerracePoints || len(distinct) < MinTerracePoints {
		return noise.NewConstant(0), nil
	}
	return noise.NewTerrace(src, levels, t.Inverted), nil
}

func compileChild(parent Expr, slot string, c Child, dims int) (noise.Function, error) {
	if c.Expr == nil {
		return nil, &MissingChildError{Kind: parent.Kind(), Slot: slot}
	}
	return compile(c.Expr, dims)
}

// checkDims rejects compilation when the variant declares a dimensionality
// other than the requested one. Declared 0 means the variant adapts to any
// supported dimensionality.
func checkDims(e Expr, declared, requested int) error {
	if declared != 0 && declared != requested {
		return &DimensionMismatchError{Kind: e.Kind(), Declared: declared, Requested: requested}
	}
	return nil
}

// wrapDimension converts the primitive library's unsupported-dimension error
// into the IR's structured form; other errors pass through.
func wrapDimension(e Expr, dims int, err error) error {
	var ude *noise.UnsupportedDimensionError
	if errors.As(err, &ude) {
		return &DimensionMismatchError{Kind: e.Kind(), Requested: dims}
	}
	return err
}

func sourceFactory(st SourceType) (noise.SourceFactory, error) {
	switch st {
	case SourceOpenSimplex:
		return noise.NewOpenSimplex, nil
	case SourcePerlin, "":
		return noise.NewPerlin, nil
	case SourcePerlinSurflet:
		return noise.NewPerlinSurflet, nil
	case SourceSimplex:
		return noise.NewSimplex, nil
	case SourceSuperSimplex:
		return noise.NewSuperSimplex, nil
	case SourceValue:
		return noise.NewValue, nil
	case SourceWorley:
		return func(seed uint32, dims int) (noise.Function, error) {
			return noise.NewWorley(seed, 1, noise.Euclidean, noise.WorleyDistance, dims)
		}, nil
	default:
		return nil, &UnknownVariantError{Tag: string(st)}
	}
}

func distanceFunc(d DistanceFunction) noise.DistanceFunction {
	switch d {
	case DistanceChebyshev:
		return noise.Chebyshev
	case DistanceEuclideanSquared:
		return noise.EuclideanSquared
	case DistanceManhattan:
		return noise.Manhattan
	default:
		return noise.Euclidean
	}
}

func returnKind(r WorleyReturn) noise.WorleyReturn {
	if r == ReturnValue {
		return noise.WorleyValue
	}
	return noise.WorleyDistance
}
