package expr

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPatchFloatBreadth(t *testing.T) {
	// Three distinct nodes each expose a parameter named "frequency"; one
	// patch call updates all of them.
	e := terrainTree()

	if got := PatchFloat(e, "frequency", 4.0); got != 3 {
		t.Fatalf("patched = %d, want 3", got)
	}

	scale := e.(*ScalePoint)
	sel := scale.Source.Expr.(*Curve).Source.Expr.(*Select)
	if got := sel.A.Expr.(*Fbm).Frequency.Value; got != 4.0 {
		t.Errorf("fbm frequency = %v, want 4.0", got)
	}
	if got := sel.B.Expr.(*RidgedMulti).Frequency.Value; got != 4.0 {
		t.Errorf("ridged frequency = %v, want 4.0", got)
	}
	if got := sel.Control.Expr.(*Worley).Frequency.Value; got != 4.0 {
		t.Errorf("worley frequency = %v, want 4.0", got)
	}
}

func TestPatchIntBreadth(t *testing.T) {
	e := terrainTree()

	if got := PatchInt(e, "world_seed", 777); got != 2 {
		t.Fatalf("patched = %d, want 2", got)
	}
	if got := PatchInt(e, "no_such_seed", 1); got != 0 {
		t.Errorf("patched = %d, want 0", got)
	}
}

func TestPatchNoMatch(t *testing.T) {
	e := terrainTree()
	before, err := Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if got := PatchFloat(e, "does_not_exist", 1.0); got != 0 {
		t.Fatalf("patched = %d, want 0", got)
	}

	after, err := Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("no-op patch changed the serialized bytes")
	}
}

func TestPatchSameValueKeepsBytes(t *testing.T) {
	e := terrainTree()
	before, err := Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	// Patching a parameter to its current value must not disturb the
	// serialized form.
	current := e.(*ScalePoint).Source.Expr.(*Curve).Source.Expr.(*Select).A.Expr.(*Fbm).Frequency.Value
	if got := PatchFloat(e, "frequency", current); got != 3 {
		t.Fatalf("patched = %d, want 3", got)
	}

	after, err := Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Error("same-value patch changed the serialized bytes")
	}
}

func TestPatchNil(t *testing.T) {
	if got := PatchFloat(nil, "frequency", 1.0); got != 0 {
		t.Errorf("patched = %d, want 0", got)
	}
	if got := PatchInt(nil, "seed", 1); got != 0 {
		t.Errorf("patched = %d, want 0", got)
	}
}

func TestPatchAnonymousUntouched(t *testing.T) {
	// Anonymous parameters carry no name and are not matched by name.
	e := &Cylinders{Frequency: Anon(2.0)}
	PatchFloat(e, "frequency", 9.0)
	if e.Frequency.Value != 2.0 {
		t.Errorf("frequency = %v, want 2.0 untouched", e.Frequency.Value)
	}
}

func TestPatchEmptyNameMatchesNothing(t *testing.T) {
	// Anonymous parameters are stored with an empty name; patching "" must
	// not sweep them all up.
	e := &Fbm{Fractal: Fractal{
		Seed:        Anon(uint32(7)),
		Octaves:     Anon(uint32(3)),
		Frequency:   Anon(2.0),
		Lacunarity:  Anon(2.0),
		Persistence: Anon(0.5),
	}}

	if got := PatchFloat(e, "", 9.0); got != 0 {
		t.Fatalf("PatchFloat patched = %d, want 0", got)
	}
	if e.Frequency.Value != 2.0 {
		t.Errorf("frequency = %v, want 2.0 untouched", e.Frequency.Value)
	}

	if got := PatchInt(e, "", 99); got != 0 {
		t.Fatalf("PatchInt patched = %d, want 0", got)
	}
	if e.Seed.Value != 7 {
		t.Errorf("seed = %d, want 7 untouched", e.Seed.Value)
	}
}

func TestPatchReachesDerivedOperands(t *testing.T) {
	e := &Cylinders{Frequency: FloatVar{Op: &Op[float64]{
		Kind: OpMultiply,
		Lhs:  Named("base", 2.0),
		Rhs:  Named("base", 3.0),
	}}}

	if got := PatchFloat(e, "base", 5.0); got != 2 {
		t.Fatalf("patched = %d, want 2", got)
	}
	if got := e.Frequency.Eval(); got != 25.0 {
		t.Errorf("eval = %v, want 25.0", got)
	}
}

func TestVarEval(t *testing.T) {
	floatOp := func(kind OpKind, lhs, rhs float64) FloatVar {
		return FloatVar{Op: &Op[float64]{Kind: kind, Lhs: Anon(lhs), Rhs: Anon(rhs)}}
	}
	intOp := func(kind OpKind, lhs, rhs uint32) IntVar {
		return IntVar{Op: &Op[uint32]{Kind: kind, Lhs: Anon(lhs), Rhs: Anon(rhs)}}
	}

	floatTests := []struct {
		name string
		v    FloatVar
		want float64
	}{
		{"Plain", Anon(1.5), 1.5},
		{"Add", floatOp(OpAdd, 2, 3), 5},
		{"Subtract", floatOp(OpSubtract, 2, 3), -1},
		{"Multiply", floatOp(OpMultiply, 2, 3), 6},
		{"Divide", floatOp(OpDivide, 3, 2), 1.5},
		{"DivideByZero", floatOp(OpDivide, 3, 0), 0},
	}
	for _, tt := range floatTests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Eval(); got != tt.want {
				t.Errorf("eval = %v, want %v", got, tt.want)
			}
		})
	}

	intTests := []struct {
		name string
		v    IntVar
		want uint32
	}{
		{"Subtract", intOp(OpSubtract, 5, 3), 2},
		{"SubtractUnderflow", intOp(OpSubtract, 3, 5), 0},
		{"DivideByZero", intOp(OpDivide, 3, 0), 0},
	}
	for _, tt := range intTests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Eval(); got != tt.want {
				t.Errorf("eval = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePatchSet(t *testing.T) {
	input := `
[floats]
frequency = 2.5
"sea level" = -0.2

[ints]
world_seed = 99
`
	ps, err := ParsePatchSet(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParsePatchSet: %v", err)
	}

	if got := ps.Floats["frequency"]; got != 2.5 {
		t.Errorf("frequency = %v, want 2.5", got)
	}
	if got := ps.Floats["sea level"]; got != -0.2 {
		t.Errorf("sea level = %v, want -0.2", got)
	}
	if got := ps.Ints["world_seed"]; got != 99 {
		t.Errorf("world_seed = %d, want 99", got)
	}

	e := terrainTree()
	if got := ps.Apply(e); got != 5 { // 3 frequency + 2 world_seed
		t.Errorf("applied = %d, want 5", got)
	}
}

func TestParsePatchSetInvalid(t *testing.T) {
	_, err := ParsePatchSet(strings.NewReader(`floats = "not a table"`))
	if err == nil {
		t.Error("expected error for malformed patch set")
	}
}

func TestParsePatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch.toml")
	content := "[floats]\nfrequency = 3.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ps, err := ParsePatchFile(path)
	if err != nil {
		t.Fatalf("ParsePatchFile: %v", err)
	}
	if got := ps.Floats["frequency"]; got != 3.0 {
		t.Errorf("frequency = %v, want 3.0", got)
	}
}

func TestPatchSetApplyAll(t *testing.T) {
	doc := &Document{Outputs: map[string]Expr{
		"height":   terrainTree(),
		"moisture": &Cylinders{Frequency: Named("frequency", 1.0)},
	}}
	ps := &PatchSet{Floats: map[string]float64{"frequency": 7.0}}

	if got := ps.ApplyAll(doc); got != 4 { // 3 in height + 1 in moisture
		t.Errorf("applied = %d, want 4", got)
	}
}
