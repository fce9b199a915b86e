package resolve

import (
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/zclconf/go-cty/cty"
)

// RecordRef is a symbolic, intentionally unevaluated pointer to a field of a
// separately exported data record. Field is empty when the reference denotes
// the record instance as a whole.
type RecordRef struct {
	Record instpath.Path
	Field  string
}

// String renders the reference in its source form, e.g. `ctl.dat.TSupSet_max`.
func (r RecordRef) String() string {
	if r.Field == "" {
		return r.Record.String()
	}
	return r.Record.String() + "." + r.Field
}

// Result is the outcome of resolving one binding: either a literal value or
// a record-field reference, never both.
type Result struct {
	Value  cty.Value
	Record *RecordRef
}

// IsRecordRef reports whether the result is a symbolic record reference.
func (r Result) IsRecordRef() bool {
	return r.Record != nil
}

// literal wraps a value in a Result.
func literal(v cty.Value) Result {
	return Result{Value: v}
}
