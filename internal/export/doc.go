// Package export is the orchestration layer of the pipeline: it classifies
// the tree, fans resolution out over independent control sequences, prunes
// the connection set, and hands everything to the assembler.
//
// One Engine.Run call is one export transaction over one immutable tree. Any
// resolution error reached from a qualified instance aborts the whole run;
// a partially resolved document is never produced.
package export
