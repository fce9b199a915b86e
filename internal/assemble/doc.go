// Package assemble composes the final in-memory export model from the
// classified subtree, the resolved parameter values, and the pruned
// connection set. It is pure composition: by the time it runs, every
// qualified binding has either resolved or aborted the run, so assembly
// never produces a partially resolved document.
package assemble
