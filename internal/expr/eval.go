package expr

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// maxRangeCardinality bounds for-comprehension ranges so a malformed model
// cannot make the evaluator allocate without limit.
const maxRangeCardinality = 10000

// binaryImpls maps each binary operator to its cty stdlib implementation,
// the same functions hclsyntax uses for its operators. Using the stdlib
// keeps number semantics (arbitrary precision, automatic conversion) in one
// place.
var binaryImpls = map[BinaryOp]function.Function{
	OpAdd:                stdlib.AddFunc,
	OpSubtract:           stdlib.SubtractFunc,
	OpMultiply:           stdlib.MultiplyFunc,
	OpDivide:             stdlib.DivideFunc,
	OpPower:              stdlib.PowFunc,
	OpEqual:              stdlib.EqualFunc,
	OpNotEqual:           stdlib.NotEqualFunc,
	OpLessThan:           stdlib.LessThanFunc,
	OpLessThanOrEqual:    stdlib.LessThanOrEqualToFunc,
	OpGreaterThan:        stdlib.GreaterThanFunc,
	OpGreaterThanOrEqual: stdlib.GreaterThanOrEqualToFunc,
	OpAnd:                stdlib.AndFunc,
	OpOr:                 stdlib.OrFunc,
}

var unaryImpls = map[UnaryOp]function.Function{
	OpNegate: stdlib.NegateFunc,
	OpNot:    stdlib.NotFunc,
}

// Eval folds an expression tree into a single value. Every Ref leaf (except
// for-comprehension index references, which are bound locally) must already
// be present in leaves, keyed by RefKey; the binding resolver is responsible
// for populating it. Eval is pure and total over the supported node kinds.
func Eval(n Node, leaves map[string]cty.Value) (cty.Value, error) {
	return eval(n, leaves, nil)
}

// indexBinding binds one for-comprehension index name to its current value.
type indexBinding struct {
	name string
	val  cty.Value
}

func eval(n Node, leaves map[string]cty.Value, indices []indexBinding) (cty.Value, error) {
	switch e := n.(type) {
	case Literal:
		return e.Val, nil

	case Ref:
		if len(e.Path.Segments) == 1 && e.Kind == RefPlain {
			name := e.Path.Segments[0].Name
			for i := len(indices) - 1; i >= 0; i-- {
				if indices[i].name == name {
					return indices[i].val, nil
				}
			}
		}
		key := RefKey(e)
		val, ok := leaves[key]
		if !ok {
			return cty.NilVal, fmt.Errorf("reference %q reached the evaluator unresolved", key)
		}
		return val, nil

	case Unary:
		x, err := eval(e.X, leaves, indices)
		if err != nil {
			return cty.NilVal, err
		}
		impl, ok := unaryImpls[e.Op]
		if !ok {
			return cty.NilVal, &UnsupportedError{Construct: fmt.Sprintf("unary operator %d", e.Op)}
		}
		out, err := impl.Call([]cty.Value{x})
		if err != nil {
			return cty.NilVal, fmt.Errorf("unary operation failed: %w", err)
		}
		return out, nil

	case Binary:
		l, err := eval(e.L, leaves, indices)
		if err != nil {
			return cty.NilVal, err
		}
		r, err := eval(e.R, leaves, indices)
		if err != nil {
			return cty.NilVal, err
		}
		impl, ok := binaryImpls[e.Op]
		if !ok {
			return cty.NilVal, &UnsupportedError{Construct: fmt.Sprintf("binary operator %d", e.Op)}
		}
		out, err := impl.Call([]cty.Value{l, r})
		if err != nil {
			return cty.NilVal, fmt.Errorf("binary operation failed: %w", err)
		}
		return out, nil

	case Conditional:
		for _, br := range e.Branches {
			cond, err := eval(br.Cond, leaves, indices)
			if err != nil {
				return cty.NilVal, err
			}
			if cond.Type() != cty.Bool {
				return cty.NilVal, fmt.Errorf("conditional branch condition is %s, not bool", cond.Type().FriendlyName())
			}
			if cond.True() {
				return eval(br.Result, leaves, indices)
			}
		}
		if e.Else == nil {
			return cty.NilVal, &UnsupportedError{Construct: "conditional without else branch"}
		}
		return eval(e.Else, leaves, indices)

	case Array:
		if len(e.Elems) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(e.Elems))
		for i, el := range e.Elems {
			v, err := eval(el, leaves, indices)
			if err != nil {
				return cty.NilVal, err
			}
			elems[i] = v
		}
		return cty.TupleVal(elems), nil

	case For:
		from, err := evalRangeBound(e.From, leaves, indices)
		if err != nil {
			return cty.NilVal, err
		}
		to, err := evalRangeBound(e.To, leaves, indices)
		if err != nil {
			return cty.NilVal, err
		}
		if to-from+1 > maxRangeCardinality {
			return cty.NilVal, &UnsupportedError{
				Construct: "for comprehension",
				Detail:    fmt.Sprintf("range %d:%d exceeds the %d element limit", from, to, maxRangeCardinality),
			}
		}
		var elems []cty.Value
		for i := from; i <= to; i++ {
			v, err := eval(e.Body, leaves, append(indices, indexBinding{name: e.Index, val: cty.NumberIntVal(i)}))
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, v)
		}
		if len(elems) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(elems), nil

	case Call:
		impl, ok := callImpls[e.Name]
		if !ok {
			return cty.NilVal, &UnsupportedError{Construct: "function call", Detail: fmt.Sprintf("unknown function %q", e.Name)}
		}
		args := make([]cty.Value, len(e.Args))
		for i, arg := range e.Args {
			v, err := eval(arg, leaves, indices)
			if err != nil {
				return cty.NilVal, err
			}
			args[i] = v
		}
		out, err := impl(args)
		if err != nil {
			return cty.NilVal, fmt.Errorf("call to %q failed: %w", e.Name, err)
		}
		return out, nil

	default:
		return cty.NilVal, &UnsupportedError{Construct: fmt.Sprintf("%T", n)}
	}
}

// evalRangeBound folds a for-comprehension range bound and requires it to be
// an exact integer.
func evalRangeBound(n Node, leaves map[string]cty.Value, indices []indexBinding) (int64, error) {
	v, err := eval(n, leaves, indices)
	if err != nil {
		return 0, err
	}
	if v.Type() != cty.Number {
		return 0, fmt.Errorf("range bound is %s, not a number", v.Type().FriendlyName())
	}
	i, acc := v.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("range bound %s is not an integer", v.AsBigFloat().Text('g', 10))
	}
	return i, nil
}
