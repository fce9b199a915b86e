// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of a flattened
// equipment-template instance tree, the input to every later stage of the
// export pipeline.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - Instance: one node of the flattened tree. It carries its identity
//     (a dotted path), the class it was instantiated from, its annotations,
//     its ordered parameter bindings, and the connections declared inside it.
//
//   - ParameterBinding: the declared right-hand side of one parameter,
//     kept as an unevaluated expression AST. Resolution state lives in the
//     resolver, never on the binding, so the tree stays immutable.
//
//   - Connection: a point-to-point link between two ports, with the flags
//     the pruner needs (graphical annotation presence, expandable-connector
//     endpoints).
//
//   - Tree: the root instance plus the indexes built once at load time:
//     path -> instance and child -> parent. The scope resolver walks parents
//     through the Tree rather than through any global table.
//
// Why a separate model package?
//
// The front-end (parsing, inheritance flattening) is an external
// collaborator; this package defines the contract it must deliver. Once a
// Tree is constructed it is immutable for the duration of a resolution run,
// which is what makes the fork-join resolution in internal/export safe
// without locking the tree itself.
package model
