// Package app wires the export pipeline together: configuration, logging,
// the template loader, the engine, and the document writer. One App instance
// owns one isolated logger and one loaded tree; nothing here touches global
// state, so tests can run many instances in parallel.
package app
