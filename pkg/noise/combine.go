package noise

import (
	"math"
	"sort"
)

// NewAdd returns the pointwise sum of two functions.
func NewAdd(a, b Function) Function {
	return Func(func(p []float64) float64 { return a.Eval(p) + b.Eval(p) })
}

// NewMultiply returns the pointwise product of two functions.
func NewMultiply(a, b Function) Function {
	return Func(func(p []float64) float64 { return a.Eval(p) * b.Eval(p) })
}

// NewMin returns the pointwise minimum of two functions.
func NewMin(a, b Function) Function {
	return Func(func(p []float64) float64 { return math.Min(a.Eval(p), b.Eval(p)) })
}

// NewMax returns the pointwise maximum of two functions.
func NewMax(a, b Function) Function {
	return Func(func(p []float64) float64 { return math.Max(a.Eval(p), b.Eval(p)) })
}

// NewPower raises the first function to the power of the second, preserving
// the sign of the base.
func NewPower(a, b Function) Function {
	return Func(func(p []float64) float64 {
		base := a.Eval(p)
		return math.Copysign(math.Pow(math.Abs(base), b.Eval(p)), base)
	})
}

// NewAbs returns the absolute value of the source.
func NewAbs(source Function) Function {
	return Func(func(p []float64) float64 { return math.Abs(source.Eval(p)) })
}

// NewNegate returns the negation of the source.
func NewNegate(source Function) Function {
	return Func(func(p []float64) float64 { return -source.Eval(p) })
}

// NewBlend linearly interpolates between two sources using a control
// function: control -1 selects the first source, +1 the second.
func NewBlend(a, b, control Function) Function {
	return Func(func(p []float64) float64 {
		t := (control.Eval(p) + 1) / 2
		return lerp(a.Eval(p), b.Eval(p), t)
	})
}

// NewSelect chooses the second source where the control value falls inside
// [lower, upper] and the first elsewhere, blending across edges of width
// falloff with an s-curve.
func NewSelect(a, b, control Function, lower, upper, falloff float64) Function {
	if lower > upper {
		lower, upper = upper, lower
	}
	return Func(func(p []float64) float64 {
		cv := control.Eval(p)
		av := a.Eval(p)
		bv := b.Eval(p)
		if falloff <= 0 {
			if cv >= lower && cv <= upper {
				return bv
			}
			return av
		}
		switch {
		case cv < lower-falloff || cv > upper+falloff:
			return av
		case cv < lower+falloff:
			t := scurve((cv - (lower - falloff)) / (2 * falloff))
			return lerp(av, bv, t)
		case cv > upper-falloff:
			t := scurve((cv - (upper - falloff)) / (2 * falloff))
			return lerp(bv, av, t)
		default:
			return bv
		}
	})
}

// NewClamp limits the source to [lower, upper]. Reversed bounds are swapped.
func NewClamp(source Function, lower, upper float64) Function {
	if lower > upper {
		lower, upper = upper, lower
	}
	return Func(func(p []float64) float64 {
		return math.Max(lower, math.Min(upper, source.Eval(p)))
	})
}

// NewExponent remaps the source onto [0, 1], raises it to the exponent, and
// maps back to [-1, 1].
func NewExponent(source Function, exponent float64) Function {
	return Func(func(p []float64) float64 {
		v := (source.Eval(p) + 1) / 2
		return math.Pow(math.Abs(v), exponent)*2 - 1
	})
}

// NewScaleBias returns source*scale + bias.
func NewScaleBias(source Function, scale, bias float64) Function {
	return Func(func(p []float64) float64 { return source.Eval(p)*scale + bias })
}

// ControlPoint maps one source value to an output value for curve mapping.
type ControlPoint struct {
	Input  float64
	Output float64
}

// NewCurve maps source values through a cubic spline defined by control
// points. At least four control points with distinct inputs are required;
// the caller validates that before construction.
func NewCurve(source Function, points []ControlPoint) Function {
	sorted := make([]ControlPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Input < sorted[j].Input })
	return Func(func(p []float64) float64 {
		v := source.Eval(p)

		// Index of the first control point past the source value.
		idx := sort.Search(len(sorted), func(i int) bool { return sorted[i].Input > v })

		// Four neighboring points for cubic interpolation, clamped to ends.
		i1 := clampIndex(idx-1, len(sorted))
		i0 := clampIndex(i1-1, len(sorted))
		i2 := clampIndex(idx, len(sorted))
		i3 := clampIndex(idx+1, len(sorted))
		if i1 == i2 {
			return sorted[i1].Output
		}

		t := (v - sorted[i1].Input) / (sorted[i2].Input - sorted[i1].Input)
		return cubic(sorted[i0].Output, sorted[i1].Output, sorted[i2].Output, sorted[i3].Output, t)
	})
}

// NewTerrace maps source values onto terraced steps between control levels.
// At least two distinct levels are required; the caller validates that.
// When inverted, the curvature of each step is flipped.
func NewTerrace(source Function, levels []float64, inverted bool) Function {
	sorted := make([]float64, len(levels))
	copy(sorted, levels)
	sort.Float64s(sorted)
	return Func(func(p []float64) float64 {
		v := source.Eval(p)
		idx := sort.SearchFloat64s(sorted, v)
		i1 := clampIndex(idx-1, len(sorted))
		i2 := clampIndex(idx, len(sorted))
		if i1 == i2 {
			return sorted[i1]
		}
		lo, hi := sorted[i1], sorted[i2]
		t := (v - lo) / (hi - lo)
		if inverted {
			t = 1 - t
			lo, hi = hi, lo
		}
		t *= t
		return lerp(lo, hi, t)
	})
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func scurve(t float64) float64 { return t * t * (3 - 2*t) }

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// cubic interpolates between b and c with a Catmull-Rom style cubic using a
// and d as outer tangent points.
func cubic(a, b, c, d, t float64) float64 {
	p := (d - c) - (a - b)
	q := (a - b) - p
	r := c - a
	return p*t*t*t + q*t*t + r*t + b
}
