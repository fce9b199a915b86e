// Package classify decides which instances of the flattened tree belong to
// the exportable control sequence. Classification is purely local: it looks
// only at an instance's own class path and annotations, never at ancestors
// or descendants.
package classify
