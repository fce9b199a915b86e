// Package scope maps variable references in binding expressions to the
// concrete instance and parameter they denote.
//
// There is no global symbol table: every lookup starts from an explicit
// origin instance and walks the tree's ancestor chain, which reproduces the
// source language's nested lexical scoping (including inner/outer
// redirection) without ambient state.
package scope
