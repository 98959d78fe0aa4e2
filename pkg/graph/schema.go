package graph

import "github.com/noisegraph/noisegraph/pkg/expr"

// slotKind is the value kind a pin accepts.
type slotKind int

const (
	slotExpr slotKind = iota
	slotFloat
	slotInt
)

// floatSlot declares one float-valued pin and its default when neither a
// wire nor an inline field supplies it.
type floatSlot struct {
	name string
	def  float64
}

// intSlot declares one unsigned-integer pin and its default.
type intSlot struct {
	name string
	def  uint32
}

// kindSpec declares the typed pins of one node kind: which slots exist and
// what value kind each accepts. All expression slots are required.
type kindSpec struct {
	exprSlots  []string
	floatSlots []floatSlot
	intSlots   []intSlot
}

func (s kindSpec) slot(name string) (slotKind, bool) {
	for _, es := range s.exprSlots {
		if es == name {
			return slotExpr, true
		}
	}
	for _, fs := range s.floatSlots {
		if fs.name == name {
			return slotFloat, true
		}
	}
	for _, is := range s.intSlots {
		if is.name == name {
			return slotInt, true
		}
	}
	return 0, false
}

// Shared slot declarations.
var (
	seedSlot    = []intSlot{{name: "seed"}}
	fractalInts = []intSlot{{name: "seed"}, {name: "octaves", def: 6}}
	fractalFloats = []floatSlot{
		{name: "frequency", def: 1},
		{name: "lacunarity", def: 2},
		{name: "persistence", def: 0.5},
	}
	binarySlots   = []string{"lhs", "rhs"}
	selectorSlots = []string{"a", "b", "control"}
	axisSlots     = func(def float64) []floatSlot {
		return []floatSlot{
			{name: "axis_x", def: def},
			{name: "axis_y", def: def},
			{name: "axis_z", def: def},
			{name: "axis_w", def: def},
		}
	}
)

// kindSpecs is the pin registry: the single source of truth for which pins
// each node kind exposes. Node kinds absent here (Float, Int, Output) are
// handled structurally by the builder.
var kindSpecs = map[string]kindSpec{
	string(expr.KindPerlin):        {intSlots: seedSlot},
	string(expr.KindPerlinSurflet): {intSlots: seedSlot},
	string(expr.KindSimplex):       {intSlots: seedSlot},
	string(expr.KindOpenSimplex):   {intSlots: seedSlot},
	string(expr.KindSuperSimplex):  {intSlots: seedSlot},
	string(expr.KindValue):         {intSlots: seedSlot},

	string(expr.KindWorley): {
		intSlots:   seedSlot,
		floatSlots: []floatSlot{{name: "frequency", def: 1}},
	},
	string(expr.KindCheckerboard): {intSlots: []intSlot{{name: "size"}}},
	string(expr.KindCylinders):    {floatSlots: []floatSlot{{name: "frequency", def: 1}}},
	string(expr.KindConstant):     {floatSlots: []floatSlot{{name: "value"}}},

	string(expr.KindBasicMulti):  {intSlots: fractalInts, floatSlots: fractalFloats},
	string(expr.KindBillow):      {intSlots: fractalInts, floatSlots: fractalFloats},
	string(expr.KindFbm):         {intSlots: fractalInts, floatSlots: fractalFloats},
	string(expr.KindHybridMulti): {intSlots: fractalInts, floatSlots: fractalFloats},
	string(expr.KindRidgedMulti): {
		intSlots:   fractalInts,
		floatSlots: append(append([]floatSlot{}, fractalFloats...), floatSlot{name: "attenuation", def: 2}),
	},

	string(expr.KindAdd):      {exprSlots: binarySlots},
	string(expr.KindMultiply): {exprSlots: binarySlots},
	string(expr.KindMin):      {exprSlots: binarySlots},
	string(expr.KindMax):      {exprSlots: binarySlots},
	string(expr.KindPower):    {exprSlots: binarySlots},

	string(expr.KindAbs):    {exprSlots: []string{"source"}},
	string(expr.KindNegate): {exprSlots: []string{"source"}},

	string(expr.KindBlend): {exprSlots: selectorSlots},
	string(expr.KindSelect): {
		exprSlots: selectorSlots,
		floatSlots: []floatSlot{
			{name: "lower_bound", def: -1},
			{name: "upper_bound", def: 1},
			{name: "falloff"},
		},
	},
	string(expr.KindClamp): {
		exprSlots: []string{"source"},
		floatSlots: []floatSlot{
			{name: "lower_bound", def: -1},
			{name: "upper_bound", def: 1},
		},
	},
	string(expr.KindExponent): {
		exprSlots:  []string{"source"},
		floatSlots: []floatSlot{{name: "exponent", def: 1}},
	},
	string(expr.KindScaleBias): {
		exprSlots: []string{"source"},
		floatSlots: []floatSlot{
			{name: "scale", def: 1},
			{name: "bias"},
		},
	},
	string(expr.KindCurve):   {exprSlots: []string{"source"}},
	string(expr.KindTerrace): {exprSlots: []string{"source"}},

	string(expr.KindScalePoint):     {exprSlots: []string{"source"}, floatSlots: axisSlots(1)},
	string(expr.KindTranslatePoint): {exprSlots: []string{"source"}, floatSlots: axisSlots(0)},
	string(expr.KindRotatePoint):    {exprSlots: []string{"source"}, floatSlots: axisSlots(0)},

	string(expr.KindTurbulence): {
		exprSlots: []string{"source"},
		intSlots:  []intSlot{{name: "seed"}, {name: "roughness", def: 3}},
		floatSlots: []floatSlot{
			{name: "frequency", def: 1},
			{name: "power", def: 1},
		},
	},
	string(expr.KindDisplace): {
		exprSlots: []string{"source", "axis_x", "axis_y", "axis_z", "axis_w"},
	},
}
