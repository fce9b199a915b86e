package assemble

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/specialistvlad/cdlex/internal/resolve"
	"github.com/zclconf/go-cty/cty"
)

// FormatValue renders a resolved value as a canonical, deterministic string.
// The same value always renders identically, which parameter-set signatures
// and the idempotence guarantee both rely on.
func FormatValue(v cty.Value) string {
	switch {
	case v == cty.NilVal:
		return "<nil>"
	case v.Type() == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case v.Type() == cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case v.Type().IsTupleType() || v.Type().IsListType():
		var sb strings.Builder
		sb.WriteString("{")
		for i, el := range v.AsValueSlice() {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(FormatValue(el))
		}
		sb.WriteString("}")
		return sb.String()
	default:
		return v.GoString()
	}
}

// formatResult renders a Result: a literal value or a symbolic record
// reference.
func formatResult(r resolve.Result) string {
	if r.IsRecordRef() {
		return "ref(" + r.Record.String() + ")"
	}
	return FormatValue(r.Value)
}

// signature computes the content key of a parameter set. Identical resolved
// sets produce identical signatures regardless of which instance they came
// from.
func signature(params []ResolvedParameter) string {
	h := fnv.New64a()
	for _, p := range params {
		fmt.Fprintf(h, "%s=%s;", p.Name, formatResult(p.Value))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
