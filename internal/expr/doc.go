// Package expr defines the expression AST attached to parameter bindings and
// the evaluator that folds an AST into a single cty.Value once every variable
// reference has been replaced by a resolved value.
//
// The evaluator is deliberately ignorant of instances and scoping: callers
// (the binding resolver) locate and resolve every Ref leaf first and hand the
// results in as a flat map. Arithmetic, comparison, and the supported
// function calls are delegated to the go-cty function stdlib, so numbers
// carry arbitrary-precision semantics end to end.
package expr
