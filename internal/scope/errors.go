package scope

import (
	"fmt"

	"github.com/specialistvlad/cdlex/internal/expr"
	"github.com/specialistvlad/cdlex/internal/instpath"
)

// UnboundError reports a reference for which no declaration exists at any
// enclosing scope of the origin instance.
type UnboundError struct {
	Ref    expr.Ref
	Origin instpath.Path
}

// Error implements the error interface for UnboundError.
func (e *UnboundError) Error() string {
	return fmt.Sprintf("unbound reference %q from scope %q", expr.RefKey(e.Ref), e.Origin.String())
}

// RecordFieldError reports a reference that resolves to a record instance
// whose fields do not include the named one.
type RecordFieldError struct {
	Record instpath.Path
	Field  string
}

// Error implements the error interface for RecordFieldError.
func (e *RecordFieldError) Error() string {
	return fmt.Sprintf("record %q has no field %q", e.Record.String(), e.Field)
}
