package noise

import (
	"errors"
	"math"
	"testing"
)

// samplePoints gives a small spread of coordinates per dimensionality.
func samplePoints(dims int) [][]float64 {
	base := [][]float64{
		{0.1, 0.2, 0.3, 0.4},
		{-1.7, 2.3, -0.5, 1.1},
		{12.25, -7.75, 3.5, -2.25},
		{0, 0, 0, 0},
	}
	out := make([][]float64, len(base))
	for i, p := range base {
		out[i] = p[:dims]
	}
	return out
}

func TestGeneratorsDeterministic(t *testing.T) {
	type factory struct {
		name string
		make SourceFactory
	}
	factories := []factory{
		{"Perlin", NewPerlin},
		{"PerlinSurflet", NewPerlinSurflet},
		{"Simplex", NewSimplex},
		{"OpenSimplex", NewOpenSimplex},
		{"SuperSimplex", NewSuperSimplex},
		{"Value", NewValue},
	}

	for _, f := range factories {
		t.Run(f.name, func(t *testing.T) {
			for _, dims := range []int{2, 3} {
				a, err := f.make(42, dims)
				if err != nil {
					t.Fatalf("dims=%d: %v", dims, err)
				}
				b, err := f.make(42, dims)
				if err != nil {
					t.Fatalf("dims=%d: %v", dims, err)
				}
				for _, p := range samplePoints(dims) {
					va, vb := a.Eval(p), b.Eval(p)
					if va != vb {
						t.Errorf("dims=%d p=%v: %v != %v", dims, p, va, vb)
					}
					if math.IsNaN(va) || math.IsInf(va, 0) {
						t.Errorf("dims=%d p=%v: sample = %v, want finite", dims, p, va)
					}
				}
			}
		})
	}
}

func TestGeneratorsSeedVaries(t *testing.T) {
	a, err := NewValue(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewValue(2, 2)
	if err != nil {
		t.Fatal(err)
	}

	same := true
	for _, p := range samplePoints(2) {
		if a.Eval(p) != b.Eval(p) {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical fields")
	}
}

func TestPerlinRejectsFourDimensions(t *testing.T) {
	_, err := NewPerlin(1, 4)
	var ude *UnsupportedDimensionError
	if !errors.As(err, &ude) {
		t.Fatalf("err = %v, want UnsupportedDimensionError", err)
	}
	if ude.Dimensions != 4 {
		t.Errorf("dimensions = %d, want 4", ude.Dimensions)
	}
}

func TestDimensionBounds(t *testing.T) {
	for _, dims := range []int{0, 1, 5} {
		if _, err := NewOpenSimplex(1, dims); err == nil {
			t.Errorf("dims=%d: expected error", dims)
		}
	}
	if _, err := NewOpenSimplex(1, 4); err != nil {
		t.Errorf("dims=4: %v", err)
	}
}

func TestValueNoiseRange(t *testing.T) {
	fn, err := NewValue(7, 3)
	if err != nil {
		t.Fatal(err)
	}
	for x := -3.0; x <= 3.0; x += 0.25 {
		v := fn.Eval([]float64{x, x * 0.5, -x})
		if v < -1.0 || v > 1.0 {
			t.Errorf("eval at %v = %v, want within [-1, 1]", x, v)
		}
	}
}

func TestCheckerboard(t *testing.T) {
	fn := NewCheckerboard(0)

	if got := fn.Eval([]float64{0.5, 0.5}); got != -1 {
		t.Errorf("cell (0,0) = %v, want -1", got)
	}
	if got := fn.Eval([]float64{1.5, 0.5}); got != 1 {
		t.Errorf("cell (1,0) = %v, want 1", got)
	}
	if got := fn.Eval([]float64{1.5, 1.5}); got != -1 {
		t.Errorf("cell (1,1) = %v, want -1", got)
	}

	// size scales the cells by powers of two.
	wide := NewCheckerboard(2)
	if got := wide.Eval([]float64{3.9, 0.1}); got != -1 {
		t.Errorf("wide cell (0,0) = %v, want -1", got)
	}
}

func TestConstant(t *testing.T) {
	fn := NewConstant(0.75)
	for _, p := range samplePoints(4) {
		if got := fn.Eval(p); got != 0.75 {
			t.Errorf("eval(%v) = %v, want 0.75", p, got)
		}
	}
}

func TestWorley(t *testing.T) {
	for _, ret := range []WorleyReturn{WorleyDistance, WorleyValue} {
		fn, err := NewWorley(11, 1, Euclidean, ret, 2)
		if err != nil {
			t.Fatalf("return=%v: %v", ret, err)
		}
		for _, p := range samplePoints(2) {
			v := fn.Eval(p)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("return=%v p=%v: sample = %v", ret, p, v)
			}
		}
	}
}

func TestWorleyDistanceMetricsDiffer(t *testing.T) {
	euclid, err := NewWorley(5, 1, Euclidean, WorleyDistance, 2)
	if err != nil {
		t.Fatal(err)
	}
	manhattan, err := NewWorley(5, 1, Manhattan, WorleyDistance, 2)
	if err != nil {
		t.Fatal(err)
	}

	differs := false
	for _, p := range samplePoints(2) {
		if euclid.Eval(p) != manhattan.Eval(p) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("distance metrics produced identical fields")
	}
}

func TestFractalOctaveClamp(t *testing.T) {
	p := FractalParams{Seed: 1, Octaves: 0, Frequency: 1, Lacunarity: 2, Persistence: 0.5}
	if got := p.octaves(); got != 1 {
		t.Errorf("octaves(0) = %d, want 1", got)
	}
	p.Octaves = 99
	if got := p.octaves(); got != MaxOctaves {
		t.Errorf("octaves(99) = %d, want %d", got, MaxOctaves)
	}
}

func TestFractals(t *testing.T) {
	params := FractalParams{Seed: 3, Octaves: 4, Frequency: 1.2, Lacunarity: 2, Persistence: 0.5}

	builders := map[string]func() (Function, error){
		"Fbm":         func() (Function, error) { return NewFbm(NewValue, params, 3) },
		"Billow":      func() (Function, error) { return NewBillow(NewValue, params, 3) },
		"BasicMulti":  func() (Function, error) { return NewBasicMulti(NewValue, params, 3) },
		"HybridMulti": func() (Function, error) { return NewHybridMulti(NewValue, params, 3) },
		"RidgedMulti": func() (Function, error) {
			return NewRidgedMulti(NewValue, RidgedParams{FractalParams: params, Attenuation: 2}, 3)
		},
	}

	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			fn, err := build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			for _, p := range samplePoints(3) {
				v := fn.Eval(p)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("p=%v: sample = %v, want finite", p, v)
				}
			}
		})
	}
}

func TestCombinators(t *testing.T) {
	a := NewConstant(0.5)
	b := NewConstant(-0.25)
	p := []float64{1, 2}

	tests := []struct {
		name string
		fn   Function
		want float64
	}{
		{"Add", NewAdd(a, b), 0.25},
		{"Multiply", NewMultiply(a, b), -0.125},
		{"Min", NewMin(a, b), -0.25},
		{"Max", NewMax(a, b), 0.5},
		{"Abs", NewAbs(b), 0.25},
		{"Negate", NewNegate(a), -0.5},
		{"ScaleBias", NewScaleBias(a, 2, 0.1), 1.1},
		{"ClampHigh", NewClamp(NewConstant(2), -1, 1), 1},
		{"ClampLow", NewClamp(NewConstant(-2), -1, 1), -1},
		{"ClampPass", NewClamp(a, -1, 1), 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn.Eval(p); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("eval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPowerPreservesSign(t *testing.T) {
	fn := NewPower(NewConstant(-0.5), NewConstant(0.5))
	got := fn.Eval([]float64{0, 0})
	if math.IsNaN(got) {
		t.Fatal("negative base produced NaN")
	}
	if got >= 0 {
		t.Errorf("eval = %v, want negative", got)
	}
}

func TestSelect(t *testing.T) {
	a := NewConstant(1)
	b := NewConstant(-1)
	p := []float64{0, 0}

	inside := NewSelect(a, b, NewConstant(0), -0.5, 0.5, 0)
	if got := inside.Eval(p); got != -1 {
		t.Errorf("control inside bounds = %v, want -1", got)
	}

	outside := NewSelect(a, b, NewConstant(0.9), -0.5, 0.5, 0)
	if got := outside.Eval(p); got != 1 {
		t.Errorf("control outside bounds = %v, want 1", got)
	}

	// Falloff blends across the edge instead of switching hard.
	edge := NewSelect(a, b, NewConstant(0.5), -0.5, 0.5, 0.25)
	got := edge.Eval(p)
	if got <= -1 || got >= 1 {
		t.Errorf("edge sample = %v, want strictly between -1 and 1", got)
	}
}

func TestBlend(t *testing.T) {
	a := NewConstant(-1)
	b := NewConstant(1)
	p := []float64{0, 0}

	// Control at the midpoint mixes both halves equally.
	mid := NewBlend(a, b, NewConstant(0))
	if got := mid.Eval(p); math.Abs(got) > 1e-12 {
		t.Errorf("mid blend = %v, want 0", got)
	}
}

func TestCurvePassesThroughControlPoints(t *testing.T) {
	points := []ControlPoint{
		{Input: -1, Output: -1},
		{Input: -0.5, Output: 0.1},
		{Input: 0.5, Output: 0.2},
		{Input: 1, Output: 1},
	}
	fn := NewCurve(NewConstant(-0.5), points)
	if got := fn.Eval([]float64{0, 0}); math.Abs(got-0.1) > 1e-12 {
		t.Errorf("curve at interior control point = %v, want 0.1", got)
	}
}

func TestTerraceSnapsBetweenLevels(t *testing.T) {
	fn := NewTerrace(NewConstant(0.25), []float64{0, 1}, false)
	got := fn.Eval([]float64{0, 0})
	if got < 0 || got > 1 {
		t.Errorf("terrace = %v, want within [0, 1]", got)
	}
	// The quadratic ramp pulls values toward the lower level.
	if got >= 0.25 {
		t.Errorf("terrace = %v, want below the raw value 0.25", got)
	}
}

func TestTranslatePoint(t *testing.T) {
	fn, err := NewValue(13, 2)
	if err != nil {
		t.Fatal(err)
	}
	shifted := NewTranslatePoint(fn, [4]float64{1.5, -2.5, 0, 0}, 2)

	want := fn.Eval([]float64{2.0, -1.5})
	if got := shifted.Eval([]float64{0.5, 1.0}); got != want {
		t.Errorf("translated sample = %v, want %v", got, want)
	}
}

func TestScalePoint(t *testing.T) {
	fn, err := NewValue(13, 2)
	if err != nil {
		t.Fatal(err)
	}
	scaled := NewScalePoint(fn, [4]float64{2, 2, 1, 1}, 2)

	want := fn.Eval([]float64{1.0, 3.0})
	if got := scaled.Eval([]float64{0.5, 1.5}); got != want {
		t.Errorf("scaled sample = %v, want %v", got, want)
	}
}

func TestRotatePointFullTurn(t *testing.T) {
	fn, err := NewValue(13, 2)
	if err != nil {
		t.Fatal(err)
	}
	turned := NewRotatePoint(fn, [4]float64{360, 0, 0, 0}, 2)

	p := []float64{0.7, -0.3}
	if got, want := turned.Eval(p), fn.Eval(p); math.Abs(got-want) > 1e-9 {
		t.Errorf("full turn sample = %v, want %v", got, want)
	}
}

func TestTurbulence(t *testing.T) {
	src, err := NewValue(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	fn, err := NewTurbulence(src, NewPerlin, 2, 1, 0.5, 3, 2)
	if err != nil {
		t.Fatalf("NewTurbulence: %v", err)
	}
	for _, p := range samplePoints(2) {
		if v := fn.Eval(p); math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("p=%v: sample = %v", p, v)
		}
	}
}

func TestDisplace(t *testing.T) {
	src, err := NewValue(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	axes := [4]Function{NewConstant(1.5), NewConstant(-2.5), NewConstant(0), NewConstant(0)}
	fn := NewDisplace(src, axes, 2)

	want := src.Eval([]float64{2.0, -1.5})
	if got := fn.Eval([]float64{0.5, 1.0}); got != want {
		t.Errorf("displaced sample = %v, want %v", got, want)
	}
}
