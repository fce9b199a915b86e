// Package prune filters the declared connection set down to the links that
// are expressible in the exported control sequence, and documents every
// dropped control-to-equipment link as a boundary port.
//
// Open-ended (expandable) connectors cannot be exported either; a one-time
// pre-pass enumerates their signals into a static index before pruning so
// nothing downstream has to probe a dynamically-extensible structure.
package prune
