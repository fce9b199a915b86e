// Package instpath provides the structured representation of dotted instance
// paths, the identifiers used throughout the export pipeline to name
// instances, parameters, and connection endpoints.
//
// For a detailed architectural overview, see the README.md file in this directory.
package instpath
