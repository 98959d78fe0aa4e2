package expr

// Scalar is the set of value types a named parameter can hold.
type Scalar interface {
	~float64 | ~uint32
}

// OpKind is the operator of a derived parameter value.
type OpKind string

// Parameter operators.
const (
	OpAdd      OpKind = "add"
	OpSubtract OpKind = "subtract"
	OpMultiply OpKind = "multiply"
	OpDivide   OpKind = "divide"
)

// Var is a scalar parameter slot. An anonymous var holds just a value; a
// named var additionally carries a user-visible label that patch operations
// match on (names are labels, not identifiers - several vars may share one).
// A var with Op set derives its value from two sub-vars instead of Value.
type Var[T Scalar] struct {
	Name  string `json:"name,omitempty"`
	Value T      `json:"value"`
	Op    *Op[T] `json:"op,omitempty"`
}

// Op derives a parameter value by combining two sub-vars.
type Op[T Scalar] struct {
	Kind OpKind `json:"kind"`
	Lhs  Var[T] `json:"lhs"`
	Rhs  Var[T] `json:"rhs"`
}

// FloatVar and IntVar are the two parameter types the IR uses.
type (
	FloatVar = Var[float64]
	IntVar   = Var[uint32]
)

// Anon returns an anonymous parameter holding value.
func Anon[T Scalar](value T) Var[T] {
	return Var[T]{Value: value}
}

// Named returns a parameter labeled name holding value.
func Named[T Scalar](name string, value T) Var[T] {
	return Var[T]{Name: name, Value: value}
}

// Eval resolves the parameter's current value. Division by zero and unsigned
// underflow both yield zero rather than faulting.
func (v Var[T]) Eval() T {
	if v.Op == nil {
		return v.Value
	}
	lhs, rhs := v.Op.Lhs.Eval(), v.Op.Rhs.Eval()
	var zero T
	switch v.Op.Kind {
	case OpAdd:
		return lhs + rhs
	case OpSubtract:
		if isUnsigned[T]() && rhs > lhs {
			return zero
		}
		return lhs - rhs
	case OpMultiply:
		return lhs * rhs
	case OpDivide:
		if rhs == zero {
			return zero
		}
		return lhs / rhs
	default:
		return zero
	}
}

// setNamed overwrites the value of every var in this slot labeled name and
// reports how many were updated. Derived vars recurse into their operands.
func (v *Var[T]) setNamed(name string, value T) int {
	if v.Op != nil {
		return v.Op.Lhs.setNamed(name, value) + v.Op.Rhs.setNamed(name, value)
	}
	if v.Name != name {
		return 0
	}
	v.Value = value
	return 1
}

func isUnsigned[T Scalar]() bool {
	var t T
	switch any(t).(type) {
	case uint32:
		return true
	default:
		return false
	}
}
