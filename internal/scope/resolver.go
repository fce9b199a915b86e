package scope

import (
	"github.com/specialistvlad/cdlex/internal/expr"
	"github.com/specialistvlad/cdlex/internal/model"
)

// Target is the declaration a reference resolves to: the owning instance
// and, when the reference names a parameter (or record field), its binding.
// Binding is nil when the reference denotes the instance itself.
type Target struct {
	Instance *model.Instance
	Binding  *model.ParameterBinding
}

// Resolver performs reference lookup over one immutable tree.
type Resolver struct {
	tree *model.Tree
}

// New creates a Resolver for the given tree.
func New(tree *model.Tree) *Resolver {
	return &Resolver{tree: tree}
}

// Resolve locates the declaration a reference denotes, starting from the
// instance owning the binding the reference appears in.
//
// The first path segment selects the scope: it is matched against the
// origin's parameters and direct children, then against each enclosing
// ancestor in turn. Once the first segment has matched, the rest of the
// path must resolve within the selected subtree; a miss there is terminal
// and never retried at an outer scope, mirroring the source language's
// lookup rule.
func (r *Resolver) Resolve(ref expr.Ref, origin *model.Instance) (Target, error) {
	if len(ref.Path.Segments) == 0 {
		return Target{}, &UnboundError{Ref: ref, Origin: origin.Path}
	}

	switch ref.Kind {
	case expr.RefOuter:
		return r.resolveOuter(ref, origin)
	case expr.RefInner:
		// Inner references bind locally and shadow any outer declaration
		// of the same name, so no ancestor walk.
		return r.resolveAt(ref, origin)
	default:
		return r.resolveLexical(ref, origin)
	}
}

// resolveLexical walks the ancestor chain until the first segment matches.
func (r *Resolver) resolveLexical(ref expr.Ref, origin *model.Instance) (Target, error) {
	for scope := origin; scope != nil; {
		if r.declaresFirstSegment(scope, ref) {
			return r.resolveAt(ref, scope)
		}
		parent, ok := r.tree.ParentOf(scope)
		if !ok {
			break
		}
		scope = parent
	}
	return Target{}, &UnboundError{Ref: ref, Origin: origin.Path}
}

// resolveOuter redirects to the nearest enclosing scope that declares an
// inner counterpart of the reference's first segment.
func (r *Resolver) resolveOuter(ref expr.Ref, origin *model.Instance) (Target, error) {
	name := ref.Path.Segments[0].Name
	for scope := origin; scope != nil; {
		if child, ok := scope.Child(name); ok && child.Prefix == model.PrefixInner {
			return r.resolveAt(ref, scope)
		}
		parent, ok := r.tree.ParentOf(scope)
		if !ok {
			break
		}
		scope = parent
	}
	return Target{}, &UnboundError{Ref: ref, Origin: origin.Path}
}

// declaresFirstSegment reports whether the scope declares the reference's
// first path segment, either as a parameter (single-segment references
// only) or as a direct child instance.
func (r *Resolver) declaresFirstSegment(scope *model.Instance, ref expr.Ref) bool {
	name := ref.Path.Segments[0].Name
	if len(ref.Path.Segments) == 1 {
		if _, ok := scope.Parameter(name); ok {
			return true
		}
	}
	_, ok := scope.Child(name)
	return ok
}

// resolveAt resolves the full reference path within one selected scope.
func (r *Resolver) resolveAt(ref expr.Ref, scope *model.Instance) (Target, error) {
	segments := ref.Path.Segments

	// Single-segment references may name a parameter of the scope itself.
	if len(segments) == 1 {
		if binding, ok := scope.Parameter(segments[0].Name); ok {
			return Target{Instance: scope, Binding: binding}, nil
		}
	}

	// Descend through child instances for all but the final segment.
	cur := scope
	for i := 0; i < len(segments)-1; i++ {
		child, ok := cur.Child(segments[i].Name)
		if !ok {
			return Target{}, &UnboundError{Ref: ref, Origin: scope.Path}
		}
		if child.Prefix == model.PrefixOuter {
			redirected, err := r.redirectOuter(child)
			if err != nil {
				return Target{}, &UnboundError{Ref: ref, Origin: scope.Path}
			}
			child = redirected
		}
		cur = child
	}

	final := segments[len(segments)-1].Name
	if binding, ok := cur.Parameter(final); ok {
		return Target{Instance: cur, Binding: binding}, nil
	}
	if child, ok := cur.Child(final); ok {
		if child.Prefix == model.PrefixOuter {
			if redirected, err := r.redirectOuter(child); err == nil {
				child = redirected
			}
		}
		return Target{Instance: child}, nil
	}
	if cur.Kind == model.KindRecord {
		return Target{}, &RecordFieldError{Record: cur.Path, Field: final}
	}
	return Target{}, &UnboundError{Ref: ref, Origin: scope.Path}
}

// redirectOuter finds the inner declaration an outer stand-in rebinds to:
// the nearest strictly-enclosing scope with an inner child of the same name.
func (r *Resolver) redirectOuter(outer *model.Instance) (*model.Instance, error) {
	name := outer.Name()
	scope, ok := r.tree.ParentOf(outer)
	if !ok {
		return nil, &UnboundError{Origin: outer.Path}
	}
	// Start above the declaring scope so the stand-in never finds itself.
	for {
		parent, ok := r.tree.ParentOf(scope)
		if !ok {
			return nil, &UnboundError{Origin: outer.Path}
		}
		scope = parent
		if child, ok := scope.Child(name); ok && child.Prefix == model.PrefixInner {
			return child, nil
		}
	}
}
