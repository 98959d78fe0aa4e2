package expr

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func perlin() *Perlin { return &Perlin{Source: Source{Seed: Anon(uint32(1))}} }

func fbm() *Fbm {
	return &Fbm{Fractal: Fractal{
		Seed:        Anon(uint32(1)),
		Octaves:     Anon(uint32(4)),
		Frequency:   Anon(1.0),
		Lacunarity:  Anon(2.0),
		Persistence: Anon(0.5),
	}}
}

func TestCompileVariants(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
	}{
		{"Perlin", perlin()},
		{"PerlinSurflet", &PerlinSurflet{Source: Source{Seed: Anon(uint32(2))}}},
		{"Simplex", &Simplex{Source: Source{Seed: Anon(uint32(3))}}},
		{"OpenSimplex", &OpenSimplex{Source: Source{Seed: Anon(uint32(4))}}},
		{"SuperSimplex", &SuperSimplex{Source: Source{Seed: Anon(uint32(5))}}},
		{"Value", &ValueNoise{Source: Source{Seed: Anon(uint32(6))}}},
		{"Worley", &Worley{Seed: Anon(uint32(7)), Frequency: Anon(1.0)}},
		{"Checkerboard", &Checkerboard{Size: Anon(uint32(1))}},
		{"Cylinders", &Cylinders{Frequency: Anon(2.0)}},
		{"Constant", &Constant{Value: Anon(0.5)}},
		{"BasicMulti", &BasicMulti{Fractal: fbm().Fractal}},
		{"Billow", &Billow{Fractal: fbm().Fractal}},
		{"Fbm", fbm()},
		{"HybridMulti", &HybridMulti{Fractal: fbm().Fractal}},
		{"RidgedMulti", &RidgedMulti{Fractal: fbm().Fractal, Attenuation: Anon(2.0)}},
		{"Add", &Add{Binary: Binary{Lhs: Child{Expr: perlin()}, Rhs: Child{Expr: fbm()}}}},
		{"Multiply", &Multiply{Binary: Binary{Lhs: Child{Expr: perlin()}, Rhs: Child{Expr: fbm()}}}},
		{"Min", &Min{Binary: Binary{Lhs: Child{Expr: perlin()}, Rhs: Child{Expr: fbm()}}}},
		{"Max", &Max{Binary: Binary{Lhs: Child{Expr: perlin()}, Rhs: Child{Expr: fbm()}}}},
		{"Power", &Power{Binary: Binary{Lhs: Child{Expr: perlin()}, Rhs: Child{Expr: fbm()}}}},
		{"Abs", &Abs{Unary: Unary{Source: Child{Expr: perlin()}}}},
		{"Negate", &Negate{Unary: Unary{Source: Child{Expr: perlin()}}}},
		{"Blend", &Blend{A: Child{Expr: perlin()}, B: Child{Expr: fbm()}, Control: Child{Expr: &Constant{Value: Anon(0.5)}}}},
		{"Select", &Select{
			A: Child{Expr: perlin()}, B: Child{Expr: fbm()}, Control: Child{Expr: perlin()},
			LowerBound: Anon(-0.5), UpperBound: Anon(0.5), Falloff: Anon(0.1),
		}},
		{"Clamp", &Clamp{Source: Child{Expr: perlin()}, LowerBound: Anon(-0.5), UpperBound: Anon(0.5)}},
		{"Exponent", &Exponent{Source: Child{Expr: perlin()}, Exponent: Anon(2.0)}},
		{"ScaleBias", &ScaleBias{Source: Child{Expr: perlin()}, Scale: Anon(0.5), Bias: Anon(0.25)}},
		{"Curve", &Curve{Source: Child{Expr: perlin()}, ControlPoints: []CurvePoint{
			{Input: Anon(-1.0), Output: Anon(-1.0)},
			{Input: Anon(-0.5), Output: Anon(0.0)},
			{Input: Anon(0.5), Output: Anon(0.25)},
			{Input: Anon(1.0), Output: Anon(1.0)},
		}}},
		{"Terrace", &Terrace{Source: Child{Expr: perlin()}, ControlPoints: []FloatVar{Anon(-1.0), Anon(0.0), Anon(1.0)}}},
		{"ScalePoint", &ScalePoint{Transform: Transform{Source: Child{Expr: perlin()}, Axes: [4]FloatVar{Anon(2.0), Anon(2.0), Anon(1.0), Anon(1.0)}}}},
		{"TranslatePoint", &TranslatePoint{Transform: Transform{Source: Child{Expr: perlin()}, Axes: [4]FloatVar{Anon(1.0), Anon(-1.0), Anon(0.0), Anon(0.0)}}}},
		{"RotatePoint", &RotatePoint{Transform: Transform{Source: Child{Expr: perlin()}, Axes: [4]FloatVar{Anon(45.0), Anon(0.0), Anon(0.0), Anon(0.0)}}}},
		{"Turbulence", &Turbulence{
			Source: Child{Expr: perlin()},
			Seed:   Anon(uint32(8)), Frequency: Anon(1.0), Power: Anon(1.0), Roughness: Anon(uint32(3)),
		}},
		{"Displace", &Displace{
			Source: Child{Expr: perlin()},
			Axes: [4]Child{
				{Expr: &Constant{Value: Anon(0.1)}},
				{Expr: &Constant{Value: Anon(0.2)}},
				{Expr: &Constant{Value: Anon(0.0)}},
				{Expr: &Constant{Value: Anon(0.0)}},
			},
		}},
	}

	points := map[int][]float64{
		2: {0.3, 0.7},
		3: {0.3, 0.7, -0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for dims, p := range points {
				fn, err := Compile(tt.expr, dims)
				if err != nil {
					t.Fatalf("Compile dims=%d: %v", dims, err)
				}
				v := fn.Eval(p)
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("dims=%d: sample = %v, want finite", dims, v)
				}
			}
		})
	}
}

func TestCompileDeterministic(t *testing.T) {
	e := terrainTree()
	p := []float64{12.5, -3.25}

	first, err := Compile(e, 2)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, err := Compile(e, 2)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if a, b := first.Eval(p), second.Eval(p); a != b {
		t.Errorf("samples differ: %v vs %v", a, b)
	}
}

func TestCompileDoesNotMutate(t *testing.T) {
	e := terrainTree()
	before, err := Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if _, err := Compile(e, 3); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	after, err := Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("compiling mutated the tree")
	}
}

func TestCompileRequestedDimsOutOfRange(t *testing.T) {
	for _, dims := range []int{0, 1, 5} {
		_, err := Compile(perlin(), dims)
		var mismatch *DimensionMismatchError
		if !errors.As(err, &mismatch) {
			t.Errorf("dims=%d: err = %v, want DimensionMismatchError", dims, err)
		}
	}
}

func TestCompileDeclaredDimsMismatch(t *testing.T) {
	e := &Perlin{Source: Source{Seed: Anon(uint32(1)), Dimensions: 3}}

	_, err := Compile(e, 2)
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want DimensionMismatchError", err)
	}
	if mismatch.Declared != 3 || mismatch.Requested != 2 {
		t.Errorf("got declared=%d requested=%d, want 3 and 2", mismatch.Declared, mismatch.Requested)
	}

	// Matching declaration compiles fine.
	if _, err := Compile(e, 3); err != nil {
		t.Errorf("Compile dims=3: %v", err)
	}
}

func TestCompileUnsupportedPrimitiveDims(t *testing.T) {
	// The Perlin primitive has no 4-D form.
	_, err := Compile(perlin(), 4)
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want DimensionMismatchError", err)
	}

	// OpenSimplex does.
	if _, err := Compile(&OpenSimplex{}, 4); err != nil {
		t.Errorf("Compile OpenSimplex dims=4: %v", err)
	}
}

func TestCompileMissingChild(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		wantSlot string
	}{
		{"NilRoot", nil, "root"},
		{"AbsNoSource", &Abs{}, "source"},
		{"AddNoRhs", &Add{Binary: Binary{Lhs: Child{Expr: perlin()}}}, "rhs"},
		{"BlendNoControl", &Blend{A: Child{Expr: perlin()}, B: Child{Expr: perlin()}}, "control"},
		{"DisplaceNoAxis", &Displace{
			Source: Child{Expr: perlin()},
			Axes: [4]Child{
				{Expr: &Constant{}},
				{Expr: &Constant{}},
				{Expr: &Constant{}},
				{},
			},
		}, "axis_w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr, 2)
			var missing *MissingChildError
			if !errors.As(err, &missing) {
				t.Fatalf("err = %v, want MissingChildError", err)
			}
			if missing.Slot != tt.wantSlot {
				t.Errorf("slot = %q, want %q", missing.Slot, tt.wantSlot)
			}
		})
	}
}

func TestCompileUnknownSourceType(t *testing.T) {
	e := fbm()
	e.Source = SourceType("Quantum")

	_, err := Compile(e, 2)
	var unknown *UnknownVariantError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownVariantError", err)
	}
	if unknown.Tag != "Quantum" {
		t.Errorf("tag = %q, want Quantum", unknown.Tag)
	}
	if !IsCompileError(err) {
		t.Error("IsCompileError = false, want true")
	}
}

func TestCurveDegradesToZero(t *testing.T) {
	tests := []struct {
		name   string
		points []CurvePoint
	}{
		{
			name: "TooFew",
			points: []CurvePoint{
				{Input: Anon(-1.0), Output: Anon(-1.0)},
				{Input: Anon(0.0), Output: Anon(0.0)},
				{Input: Anon(1.0), Output: Anon(1.0)},
			},
		},
		{
			name: "DuplicateInputs",
			points: []CurvePoint{
				{Input: Anon(-1.0), Output: Anon(-1.0)},
				{Input: Anon(0.0), Output: Anon(0.0)},
				{Input: Anon(0.0), Output: Anon(0.5)},
				{Input: Anon(1.0), Output: Anon(1.0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Curve{Source: Child{Expr: perlin()}, ControlPoints: tt.points}
			fn, err := Compile(c, 2)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			for _, p := range [][]float64{{0, 0}, {1.3, -2.7}, {100, 100}} {
				if got := fn.Eval(p); got != 0 {
					t.Errorf("eval(%v) = %v, want 0", p, got)
				}
			}
		})
	}
}

func TestTerraceDegradesToZero(t *testing.T) {
	// Two levels with the same value count as one distinct point.
	tr := &Terrace{Source: Child{Expr: perlin()}, ControlPoints: []FloatVar{Anon(0.5), Anon(0.5)}}
	fn, err := Compile(tr, 2)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := fn.Eval([]float64{0.3, 0.7}); got != 0 {
		t.Errorf("eval = %v, want 0", got)
	}
}

func TestCompileWorleyDistanceFunctions(t *testing.T) {
	for _, d := range []DistanceFunction{DistanceEuclidean, DistanceEuclideanSquared, DistanceManhattan, DistanceChebyshev} {
		w := &Worley{Seed: Anon(uint32(1)), Frequency: Anon(1.0), Distance: d, Return: ReturnValue}
		fn, err := Compile(w, 3)
		if err != nil {
			t.Fatalf("Compile %s: %v", d, err)
		}
		if v := fn.Eval([]float64{0.1, 0.2, 0.3}); math.IsNaN(v) {
			t.Errorf("%s: sample is NaN", d)
		}
	}
}
