// Package resolve orchestrates the resolution of parameter bindings: it
// classifies each binding as a literal, a record-field reference, or a
// general expression, recursively resolves referenced bindings across scope
// boundaries, and folds general expressions to a single value.
//
// Results are memoized per (instance path, parameter) for the lifetime of
// one resolver, and an explicit per-chain in-progress list turns reference
// cycles into precise errors instead of stack exhaustion.
//
// For a detailed architectural overview, see the README.md file in this directory.
package resolve
