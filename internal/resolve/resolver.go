package resolve

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/cdlex/internal/ctxlog"
	"github.com/specialistvlad/cdlex/internal/expr"
	"github.com/specialistvlad/cdlex/internal/model"
	"github.com/specialistvlad/cdlex/internal/scope"
	"github.com/zclconf/go-cty/cty"
)

// Resolver resolves parameter bindings over one immutable tree. It is safe
// for concurrent use: the memo table is the only shared mutable state, and
// resolution of any key is a pure function of the tree, so concurrent
// duplicate computation is wasteful but harmless.
type Resolver struct {
	tree   *model.Tree
	scopes *scope.Resolver

	mu   sync.RWMutex
	memo map[string]memoEntry
}

type memoEntry struct {
	result Result
	err    error
}

// New creates a Resolver with an empty memo table. A Resolver is scoped to
// one export run; build a fresh one per run.
func New(tree *model.Tree) *Resolver {
	return &Resolver{
		tree:   tree,
		scopes: scope.New(tree),
		memo:   make(map[string]memoEntry),
	}
}

// Binding resolves one parameter of one instance to a literal value or a
// record-field reference. Idempotent: repeated calls return the memoized
// outcome, including errors.
func (r *Resolver) Binding(ctx context.Context, in *model.Instance, parameter string) (Result, error) {
	return r.resolve(ctx, in, parameter, nil)
}

// bindingKey identifies one (instance, parameter) pair in the memo table
// and in cycle chains.
func bindingKey(in *model.Instance, parameter string) string {
	if in.Path.IsEmpty() {
		return parameter
	}
	return in.Path.String() + "." + parameter
}

func (r *Resolver) resolve(ctx context.Context, in *model.Instance, parameter string, chain []string) (Result, error) {
	key := bindingKey(in, parameter)

	// Cycle check comes before the memo: a key revisited within one chain
	// must fail even though its first visit has not completed.
	for _, visited := range chain {
		if visited == key {
			return Result{}, &CycleError{Chain: append(append([]string{}, chain...), key)}
		}
	}

	r.mu.RLock()
	entry, ok := r.memo[key]
	r.mu.RUnlock()
	if ok {
		return entry.result, entry.err
	}

	result, err := r.compute(ctx, in, parameter, append(chain, key))

	r.mu.Lock()
	// First writer wins; a concurrent duplicate computed the same outcome.
	if prior, ok := r.memo[key]; ok {
		result, err = prior.result, prior.err
	} else {
		r.memo[key] = memoEntry{result: result, err: err}
	}
	r.mu.Unlock()

	return result, err
}

func (r *Resolver) compute(ctx context.Context, in *model.Instance, parameter string, chain []string) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving binding.", "instance", in.Path.String(), "parameter", parameter)

	binding, ok := in.Parameter(parameter)
	if !ok {
		return Result{}, fmt.Errorf("instance %q declares no parameter %q", in.Path.String(), parameter)
	}

	// Case 1: a literal passes through untouched.
	if lit, ok := binding.Expr.(expr.Literal); ok {
		return literal(lit.Val), nil
	}

	// References resolve in the owning instance's own scope; the lexical
	// ancestor walk in the scope resolver covers everything declared above.
	origin := in

	// Case 2: a bare reference into a record stays symbolic; the record is
	// exported separately and its values are never read here.
	if ref, ok := binding.Expr.(expr.Ref); ok {
		return r.resolveRef(ctx, ref, origin, chain)
	}

	// Case 3: a general expression. Resolve every reference leaf, then fold.
	leaves, err := r.resolveLeaves(ctx, binding.Expr, in, parameter, origin, chain)
	if err != nil {
		return Result{}, err
	}

	val, err := expr.Eval(binding.Expr, leaves)
	if err != nil {
		return Result{}, fmt.Errorf("folding %s: %w", bindingKey(in, parameter), err)
	}
	logger.Debug("Binding folded to literal.", "binding", bindingKey(in, parameter))
	return literal(val), nil
}

// resolveRef handles a binding that is a single variable reference.
func (r *Resolver) resolveRef(ctx context.Context, ref expr.Ref, origin *model.Instance, chain []string) (Result, error) {
	target, err := r.scopes.Resolve(ref, origin)
	if err != nil {
		return Result{}, err
	}

	if target.Binding == nil {
		// The reference denotes an instance. Whole records are passed
		// around symbolically; anything else has no literal rendition.
		if target.Instance.Kind == model.KindRecord {
			return Result{Record: &RecordRef{Record: target.Instance.Path}}, nil
		}
		return Result{}, &NonLiteralError{
			Instance:  origin.Path,
			Parameter: expr.RefKey(ref),
			Reason:    fmt.Sprintf("reference denotes component instance %q, not a parameter", target.Instance.Path.String()),
		}
	}

	if target.Instance.Kind == model.KindRecord {
		return Result{Record: &RecordRef{Record: target.Instance.Path, Field: target.Binding.Name}}, nil
	}

	// An ordinary parameter: chase its own binding.
	return r.resolve(ctx, target.Instance, target.Binding.Name, chain)
}

// resolveLeaves resolves every reference leaf of a general expression to a
// literal value. A leaf that resolves to a record reference cannot
// participate in folding and fails the whole binding; inside a function
// call's arguments it is an unsupported construct, since calls evaluate
// over literals only.
func (r *Resolver) resolveLeaves(ctx context.Context, node expr.Node, in *model.Instance, parameter string, origin *model.Instance, chain []string) (map[string]cty.Value, error) {
	refs := expr.CollectRefs(node)
	if len(refs) == 0 {
		return nil, nil
	}
	callArgs := expr.CallArgRefKeys(node)

	leaves := make(map[string]cty.Value, len(refs))
	for _, ref := range refs {
		leafResult, err := r.resolveRef(ctx, ref, origin, chain)
		if err != nil {
			return nil, err
		}
		if leafResult.IsRecordRef() {
			key := expr.RefKey(ref)
			if callArgs[key] {
				return nil, &expr.UnsupportedError{
					Construct: "function call",
					Detail: fmt.Sprintf("argument %q is a record reference (%s), not a literal",
						key, leafResult.Record.String()),
				}
			}
			return nil, &NonLiteralError{
				Instance:  in.Path,
				Parameter: parameter,
				Reason: fmt.Sprintf("leaf %q is a record reference (%s) inside a general expression",
					key, leafResult.Record.String()),
			}
		}
		leaves[expr.RefKey(ref)] = leafResult.Value
	}
	return leaves, nil
}
