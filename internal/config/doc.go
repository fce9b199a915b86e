// Package config loads the optional exporter policy file. The policy
// controls classification (namespace prefixes, annotation marker) and
// assembly (grouping mode, record class handling) without recompiling; CLI
// flags override individual fields on top of it.
package config
