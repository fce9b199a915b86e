package expr

import "fmt"

// UnsupportedError reports an expression construct outside the supported
// subset: an unknown node kind, an unknown function, or a function call
// whose arguments do not all fold to literals.
type UnsupportedError struct {
	Construct string
	Detail    string
}

// Error implements the error interface for UnsupportedError.
func (e *UnsupportedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("unsupported expression construct: %s", e.Construct)
	}
	return fmt.Sprintf("unsupported expression construct: %s (%s)", e.Construct, e.Detail)
}
