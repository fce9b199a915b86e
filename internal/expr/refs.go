package expr

import (
	"sort"
)

// RefKey generates a stable, canonical string representation for a Ref,
// suitable for use as a map key when handing resolved leaves to Eval.
func RefKey(r Ref) string {
	switch r.Kind {
	case RefInner:
		return "inner " + r.Path.String()
	case RefOuter:
		return "outer " + r.Path.String()
	default:
		return r.Path.String()
	}
}

// CollectRefs walks an expression tree and returns every variable reference
// that must be resolved from outside the expression, in a deterministic
// order. References to enclosing for-comprehension indices are bound locally
// and therefore excluded.
func CollectRefs(n Node) []Ref {
	found := make(map[string]Ref)
	collectRefs(n, nil, found)

	keys := make([]string, 0, len(found))
	for k := range found {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Sort keys for deterministic output

	refs := make([]Ref, 0, len(found))
	for _, k := range keys {
		refs = append(refs, found[k])
	}
	return refs
}

// CallArgRefKeys returns the RefKeys of every reference appearing inside a
// function call's arguments, anywhere in the tree. Calls evaluate only over
// literal arguments, so these leaves carry a stricter contract than the rest
// of the expression.
func CallArgRefKeys(n Node) map[string]bool {
	out := make(map[string]bool)
	collectCallArgRefs(n, nil, false, out)
	return out
}

func collectCallArgRefs(n Node, bound []string, inCall bool, out map[string]bool) {
	switch e := n.(type) {
	case Literal:
		// No references.
	case Ref:
		if !inCall {
			return
		}
		if len(e.Path.Segments) == 1 && e.Kind == RefPlain {
			name := e.Path.Segments[0].Name
			for _, b := range bound {
				if b == name {
					return
				}
			}
		}
		out[RefKey(e)] = true
	case Unary:
		collectCallArgRefs(e.X, bound, inCall, out)
	case Binary:
		collectCallArgRefs(e.L, bound, inCall, out)
		collectCallArgRefs(e.R, bound, inCall, out)
	case Conditional:
		for _, br := range e.Branches {
			collectCallArgRefs(br.Cond, bound, inCall, out)
			collectCallArgRefs(br.Result, bound, inCall, out)
		}
		collectCallArgRefs(e.Else, bound, inCall, out)
	case Array:
		for _, el := range e.Elems {
			collectCallArgRefs(el, bound, inCall, out)
		}
	case For:
		collectCallArgRefs(e.From, bound, inCall, out)
		collectCallArgRefs(e.To, bound, inCall, out)
		collectCallArgRefs(e.Body, append(bound, e.Index), inCall, out)
	case Call:
		for _, arg := range e.Args {
			collectCallArgRefs(arg, bound, true, out)
		}
	}
}

func collectRefs(n Node, bound []string, found map[string]Ref) {
	switch e := n.(type) {
	case Literal:
		// No references.
	case Ref:
		if len(e.Path.Segments) == 1 && e.Kind == RefPlain {
			name := e.Path.Segments[0].Name
			for _, b := range bound {
				if b == name {
					return
				}
			}
		}
		found[RefKey(e)] = e
	case Unary:
		collectRefs(e.X, bound, found)
	case Binary:
		collectRefs(e.L, bound, found)
		collectRefs(e.R, bound, found)
	case Conditional:
		for _, br := range e.Branches {
			collectRefs(br.Cond, bound, found)
			collectRefs(br.Result, bound, found)
		}
		collectRefs(e.Else, bound, found)
	case Array:
		for _, el := range e.Elems {
			collectRefs(el, bound, found)
		}
	case For:
		collectRefs(e.From, bound, found)
		collectRefs(e.To, bound, found)
		collectRefs(e.Body, append(bound, e.Index), found)
	case Call:
		for _, arg := range e.Args {
			collectRefs(arg, bound, found)
		}
	}
}
