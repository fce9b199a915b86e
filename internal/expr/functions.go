package expr

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// callImpls is the fixed table of supported functions: the Modelica builtin
// subset that folds cleanly to a literal, backed by the cty stdlib. Anything
// not listed here is an UnsupportedError at evaluation time.
var callImpls = map[string]func(args []cty.Value) (cty.Value, error){
	"abs": func(args []cty.Value) (cty.Value, error) {
		return stdlib.AbsoluteFunc.Call(args)
	},
	"min": func(args []cty.Value) (cty.Value, error) {
		return stdlib.MinFunc.Call(args)
	},
	"max": func(args []cty.Value) (cty.Value, error) {
		return stdlib.MaxFunc.Call(args)
	},
	"mod": func(args []cty.Value) (cty.Value, error) {
		return stdlib.ModuloFunc.Call(args)
	},
	"ceil": func(args []cty.Value) (cty.Value, error) {
		return stdlib.CeilFunc.Call(args)
	},
	"floor": func(args []cty.Value) (cty.Value, error) {
		return stdlib.FloorFunc.Call(args)
	},
	// integer() truncates toward negative infinity, same as floor on reals.
	"integer": func(args []cty.Value) (cty.Value, error) {
		return stdlib.FloorFunc.Call(args)
	},
	"sign": func(args []cty.Value) (cty.Value, error) {
		return stdlib.SignumFunc.Call(args)
	},
	"sqrt": func(args []cty.Value) (cty.Value, error) {
		if len(args) != 1 {
			return cty.NilVal, fmt.Errorf("sqrt takes exactly 1 argument, got %d", len(args))
		}
		return stdlib.PowFunc.Call([]cty.Value{args[0], cty.NumberFloatVal(0.5)})
	},
	// div(a, b) is integer division truncated toward zero.
	"div": func(args []cty.Value) (cty.Value, error) {
		if len(args) != 2 {
			return cty.NilVal, fmt.Errorf("div takes exactly 2 arguments, got %d", len(args))
		}
		q, err := stdlib.DivideFunc.Call(args)
		if err != nil {
			return cty.NilVal, err
		}
		return stdlib.IntFunc.Call([]cty.Value{q})
	},
}
