package resolve

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/cdlex/internal/instpath"
)

// CycleError reports a reference chain that revisits a binding already being
// resolved. Chain holds the full chain in visiting order, ending with the
// revisited binding.
type CycleError struct {
	Chain []string
}

// Error implements the error interface for CycleError.
func (e *CycleError) Error() string {
	return fmt.Sprintf("parameter resolution cycle: %s", strings.Join(e.Chain, " -> "))
}

// NonLiteralError reports a binding that cannot be folded to a literal or a
// record-field reference. For a qualified instance this violates the export
// contract and is fatal for the whole run.
type NonLiteralError struct {
	Instance  instpath.Path
	Parameter string
	Reason    string
}

// Error implements the error interface for NonLiteralError.
func (e *NonLiteralError) Error() string {
	return fmt.Sprintf("parameter %s.%s cannot be folded to a literal: %s",
		e.Instance.String(), e.Parameter, e.Reason)
}
