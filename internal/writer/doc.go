// Package writer serializes the assembled export model to JSON. Output is
// deterministic: struct field order is fixed, slices keep assembly order, and
// numbers are emitted from their canonical arbitrary-precision rendering, so
// two runs over the same tree produce byte-identical documents.
package writer
