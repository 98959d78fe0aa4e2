package graph

import (
	"fmt"

	"github.com/noisegraph/noisegraph/pkg/expr"
)

// Build lowers a node graph into one expression tree per output node, keyed
// by the output's name (its ID when unnamed). The walk is topological from
// the sinks: every producer is built before its consumers, each node is
// built exactly once, and a producer fanning out to several consumers is
// duplicated by value into each of them - built subtrees are never aliased.
//
// Any structural error aborts the whole build; no partial result is
// returned. The graph itself is never mutated.
func Build(g *Graph) (map[string]expr.Expr, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := checkWires(g); err != nil {
		return nil, err
	}

	b := &builder{
		g:        g,
		inputs:   indexWires(g),
		visiting: make(map[string]struct{}),
		memo:     make(map[string]expr.Expr),
	}

	results := make(map[string]expr.Expr)
	for _, out := range g.Outputs() {
		from, ok := b.inputs[out.ID]["source"]
		if !ok {
			return nil, &MissingInputError{NodeID: out.ID, Slot: "source"}
		}
		if k := g.Node(from).Kind; k == KindFloat || k == KindInt {
			return nil, &TypeMismatchError{NodeID: out.ID, Slot: "source"}
		}
		tree, err := b.build(from)
		if err != nil {
			return nil, err
		}
		name := out.Name
		if name == "" {
			name = out.ID
		}
		if _, dup := results[name]; dup {
			return nil, fmt.Errorf("duplicate output name %q", name)
		}
		results[name] = tree
	}
	return results, nil
}

// checkWires verifies every wire lands on a declared input pin of its
// destination, including wires into nodes no output ever references. Silent
// no-op wires would hide editor mistakes.
func checkWires(g *Graph) error {
	for _, w := range g.Wires {
		dest := g.Node(w.To)
		switch dest.Kind {
		case KindFloat, KindInt:
			// Constants have no input pins.
			return &TypeMismatchError{NodeID: w.To, Slot: w.Input}
		case KindOutput:
			if w.Input != "source" {
				return &TypeMismatchError{NodeID: w.To, Slot: w.Input}
			}
		default:
			spec, ok := kindSpecs[dest.Kind]
			if !ok {
				return &UnknownKindError{NodeID: w.To, Kind: dest.Kind}
			}
			if _, ok := spec.slot(w.Input); !ok {
				return &TypeMismatchError{NodeID: w.To, Slot: w.Input}
			}
		}
	}
	return nil
}

// indexWires groups wires by consumer and slot. When several wires target
// the same slot the last one wins, matching editor behavior where a new
// connection replaces the old.
func indexWires(g *Graph) map[string]map[string]string {
	inputs := make(map[string]map[string]string)
	for _, w := range g.Wires {
		m := inputs[w.To]
		if m == nil {
			m = make(map[string]string)
			inputs[w.To] = m
		}
		m[w.Input] = w.From
	}
	return inputs
}

// builder carries the transient state of one Build call: the wire index, the
// in-progress set for cycle detection, and a memo of finished subtrees.
type builder struct {
	g        *Graph
	inputs   map[string]map[string]string
	visiting map[string]struct{}
	memo     map[string]expr.Expr
}

func (b *builder) build(id string) (expr.Expr, error) {
	if done, ok := b.memo[id]; ok {
		// Fan-out: hand each additional consumer its own copy.
		return expr.Clone(done)
	}
	if _, open := b.visiting[id]; open {
		return nil, &CycleError{NodeID: id}
	}

	n := b.g.Node(id)
	spec, ok := kindSpecs[n.Kind]
	if !ok {
		return nil, &UnknownKindError{NodeID: id, Kind: n.Kind}
	}

	b.visiting[id] = struct{}{}
	defer delete(b.visiting, id)

	// Wire destinations were already validated by checkWires.
	children, err := b.buildChildren(id, spec)
	if err != nil {
		return nil, err
	}
	floats, err := b.resolveFloats(n, spec)
	if err != nil {
		return nil, err
	}
	ints, err := b.resolveInts(n, spec)
	if err != nil {
		return nil, err
	}

	tree, err := assemble(n, children, floats, ints)
	if err != nil {
		return nil, err
	}
	b.memo[id] = tree
	return tree, nil
}

func (b *builder) buildChildren(id string, spec kindSpec) (map[string]expr.Child, error) {
	children := make(map[string]expr.Child, len(spec.exprSlots))
	for _, slot := range spec.exprSlots {
		from, ok := b.inputs[id][slot]
		if !ok {
			return nil, &MissingInputError{NodeID: id, Slot: slot}
		}
		switch b.g.Node(from).Kind {
		case KindFloat, KindInt, KindOutput:
			return nil, &TypeMismatchError{NodeID: id, Slot: slot}
		}
		child, err := b.build(from)
		if err != nil {
			return nil, err
		}
		children[slot] = expr.Child{Expr: child}
	}
	return children, nil
}

// resolveFloats fills each float pin from, in order of preference: a wire
// from a Float constant node (yielding a named parameter), an inline
// anonymous field, or the pin's default.
func (b *builder) resolveFloats(n *Node, spec kindSpec) (map[string]expr.FloatVar, error) {
	floats := make(map[string]expr.FloatVar, len(spec.floatSlots))
	for _, fs := range spec.floatSlots {
		if from, ok := b.inputs[n.ID][fs.name]; ok {
			src := b.g.Node(from)
			if src.Kind != KindFloat {
				return nil, &TypeMismatchError{NodeID: n.ID, Slot: fs.name}
			}
			floats[fs.name] = expr.Named(src.Name, src.Value)
		} else if v, ok := n.Floats[fs.name]; ok {
			floats[fs.name] = expr.Anon(v)
		} else {
			floats[fs.name] = expr.Anon(fs.def)
		}
	}
	return floats, nil
}

func (b *builder) resolveInts(n *Node, spec kindSpec) (map[string]expr.IntVar, error) {
	ints := make(map[string]expr.IntVar, len(spec.intSlots))
	for _, is := range spec.intSlots {
		if from, ok := b.inputs[n.ID][is.name]; ok {
			src := b.g.Node(from)
			if src.Kind != KindInt {
				return nil, &TypeMismatchError{NodeID: n.ID, Slot: is.name}
			}
			ints[is.name] = expr.Named(src.Name, src.IntValue)
		} else if v, ok := n.Ints[is.name]; ok {
			ints[is.name] = expr.Anon(v)
		} else {
			ints[is.name] = expr.Anon(is.def)
		}
	}
	return ints, nil
}

// assemble constructs the IR variant for one node from its resolved pins.
func assemble(n *Node, children map[string]expr.Child, floats map[string]expr.FloatVar, ints map[string]expr.IntVar) (expr.Expr, error) {
	source := expr.Source{Seed: ints["seed"], Dimensions: n.Dimensions}

	switch expr.Kind(n.Kind) {
	case expr.KindPerlin:
		return &expr.Perlin{Source: source}, nil
	case expr.KindPerlinSurflet:
		return &expr.PerlinSurflet{Source: source}, nil
	case expr.KindSimplex:
		return &expr.Simplex{Source: source}, nil
	case expr.KindOpenSimplex:
		return &expr.OpenSimplex{Source: source}, nil
	case expr.KindSuperSimplex:
		return &expr.SuperSimplex{Source: source}, nil
	case expr.KindValue:
		return &expr.ValueNoise{Source: source}, nil

	case expr.KindWorley:
		dist, err := distanceOption(n)
		if err != nil {
			return nil, err
		}
		ret, err := returnOption(n)
		if err != nil {
			return nil, err
		}
		return &expr.Worley{
			Seed:       ints["seed"],
			Frequency:  floats["frequency"],
			Distance:   dist,
			Return:     ret,
			Dimensions: n.Dimensions,
		}, nil
	case expr.KindCheckerboard:
		return &expr.Checkerboard{Size: ints["size"]}, nil
	case expr.KindCylinders:
		return &expr.Cylinders{Frequency: floats["frequency"]}, nil
	case expr.KindConstant:
		return &expr.Constant{Value: floats["value"]}, nil

	case expr.KindBasicMulti, expr.KindBillow, expr.KindFbm,
		expr.KindHybridMulti, expr.KindRidgedMulti:
		src, err := sourceOption(n, "source")
		if err != nil {
			return nil, err
		}
		fractal := expr.Fractal{
			Source:      src,
			Seed:        ints["seed"],
			Octaves:     ints["octaves"],
			Frequency:   floats["frequency"],
			Lacunarity:  floats["lacunarity"],
			Persistence: floats["persistence"],
			Dimensions:  n.Dimensions,
		}
		switch expr.Kind(n.Kind) {
		case expr.KindBasicMulti:
			return &expr.BasicMulti{Fractal: fractal}, nil
		case expr.KindBillow:
			return &expr.Billow{Fractal: fractal}, nil
		case expr.KindFbm:
			return &expr.Fbm{Fractal: fractal}, nil
		case expr.KindHybridMulti:
			return &expr.HybridMulti{Fractal: fractal}, nil
		default:
			return &expr.RidgedMulti{Fractal: fractal, Attenuation: floats["attenuation"]}, nil
		}

	case expr.KindAdd:
		return &expr.Add{Binary: binary(children)}, nil
	case expr.KindMultiply:
		return &expr.Multiply{Binary: binary(children)}, nil
	case expr.KindMin:
		return &expr.Min{Binary: binary(children)}, nil
	case expr.KindMax:
		return &expr.Max{Binary: binary(children)}, nil
	case expr.KindPower:
		return &expr.Power{Binary: binary(children)}, nil

	case expr.KindAbs:
		return &expr.Abs{Unary: expr.Unary{Source: children["source"]}}, nil
	case expr.KindNegate:
		return &expr.Negate{Unary: expr.Unary{Source: children["source"]}}, nil

	case expr.KindBlend:
		return &expr.Blend{A: children["a"], B: children["b"], Control: children["control"]}, nil
	case expr.KindSelect:
		return &expr.Select{
			A:          children["a"],
			B:          children["b"],
			Control:    children["control"],
			LowerBound: floats["lower_bound"],
			UpperBound: floats["upper_bound"],
			Falloff:    floats["falloff"],
		}, nil
	case expr.KindClamp:
		return &expr.Clamp{
			Source:     children["source"],
			LowerBound: floats["lower_bound"],
			UpperBound: floats["upper_bound"],
		}, nil
	case expr.KindExponent:
		return &expr.Exponent{Source: children["source"], Exponent: floats["exponent"]}, nil
	case expr.KindScaleBias:
		return &expr.ScaleBias{Source: children["source"], Scale: floats["scale"], Bias: floats["bias"]}, nil

	case expr.KindCurve:
		if len(n.Points) < expr.MinCurvePoints {
			return nil, &InsufficientControlPointsError{
				NodeID:   n.ID,
				Required: expr.MinCurvePoints,
				Found:    len(n.Points),
			}
		}
		points := make([]expr.CurvePoint, len(n.Points))
		for i, p := range n.Points {
			points[i] = expr.CurvePoint{Input: expr.Anon(p[0]), Output: expr.Anon(p[1])}
		}
		return &expr.Curve{Source: children["source"], ControlPoints: points}, nil

	case expr.KindTerrace:
		if len(n.Levels) < expr.MinTerracePoints {
			return nil, &InsufficientControlPointsError{
				NodeID:   n.ID,
				Required: expr.MinTerracePoints,
				Found:    len(n.Levels),
			}
		}
		levels := make([]expr.FloatVar, len(n.Levels))
		for i, v := range n.Levels {
			levels[i] = expr.Anon(v)
		}
		return &expr.Terrace{Source: children["source"], Inverted: n.Inverted, ControlPoints: levels}, nil

	case expr.KindScalePoint:
		return &expr.ScalePoint{Transform: transform(children, floats)}, nil
	case expr.KindTranslatePoint:
		return &expr.TranslatePoint{Transform: transform(children, floats)}, nil
	case expr.KindRotatePoint:
		return &expr.RotatePoint{Transform: transform(children, floats)}, nil

	case expr.KindTurbulence:
		noiseType, err := sourceOption(n, "noise")
		if err != nil {
			return nil, err
		}
		return &expr.Turbulence{
			Source:    children["source"],
			Noise:     noiseType,
			Seed:      ints["seed"],
			Frequency: floats["frequency"],
			Power:     floats["power"],
			Roughness: ints["roughness"],
		}, nil
	case expr.KindDisplace:
		return &expr.Displace{
			Source: children["source"],
			Axes: [4]expr.Child{
				children["axis_x"],
				children["axis_y"],
				children["axis_z"],
				children["axis_w"],
			},
		}, nil

	default:
		return nil, &UnknownKindError{NodeID: n.ID, Kind: n.Kind}
	}
}

func binary(children map[string]expr.Child) expr.Binary {
	return expr.Binary{Lhs: children["lhs"], Rhs: children["rhs"]}
}

func transform(children map[string]expr.Child, floats map[string]expr.FloatVar) expr.Transform {
	return expr.Transform{
		Source: children["source"],
		Axes: [4]expr.FloatVar{
			floats["axis_x"],
			floats["axis_y"],
			floats["axis_z"],
			floats["axis_w"],
		},
	}
}

// sourceOption reads an enum field naming a lattice generator, defaulting to
// Perlin when the field is absent.
func sourceOption(n *Node, field string) (expr.SourceType, error) {
	raw, ok := n.Options[field]
	if !ok {
		return expr.SourcePerlin, nil
	}
	switch st := expr.SourceType(raw); st {
	case expr.SourceOpenSimplex, expr.SourcePerlin, expr.SourcePerlinSurflet,
		expr.SourceSimplex, expr.SourceSuperSimplex, expr.SourceValue,
		expr.SourceWorley:
		return st, nil
	}
	return "", &InvalidOptionError{NodeID: n.ID, Option: field, Value: raw}
}

func distanceOption(n *Node) (expr.DistanceFunction, error) {
	raw, ok := n.Options["distance"]
	if !ok {
		return expr.DistanceEuclidean, nil
	}
	switch d := expr.DistanceFunction(raw); d {
	case expr.DistanceChebyshev, expr.DistanceEuclidean,
		expr.DistanceEuclideanSquared, expr.DistanceManhattan:
		return d, nil
	}
	return "", &InvalidOptionError{NodeID: n.ID, Option: "distance", Value: raw}
}

func returnOption(n *Node) (expr.WorleyReturn, error) {
	raw, ok := n.Options["return"]
	if !ok {
		return expr.ReturnDistance, nil
	}
	switch r := expr.WorleyReturn(raw); r {
	case expr.ReturnDistance, expr.ReturnValue:
		return r, nil
	}
	return "", &InvalidOptionError{NodeID: n.ID, Option: "return", Value: raw}
}
