// Package loader is the JSON front-end adapter: it decodes one or more
// flattened template files into the in-memory instance tree the pipeline
// operates on.
//
// A file carries a flat list of instances keyed by dotted path, so the
// upstream flattener never has to emit nesting; the loader rebuilds the tree
// from path prefixes. Expressions arrive as tagged AST objects, already
// shaped by the front-end, and are decoded without any precedence logic.
// Numbers are parsed with arbitrary precision so 0.1 survives round-tripping.
package loader
