// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Connection, the point-to-point link between two ports
// of the instance tree.
package model

import (
	"github.com/specialistvlad/cdlex/internal/instpath"
)

// Endpoint is one end of a connection: a port on an instance. Expandable
// marks ports that resolve under an open-ended (expandable) connector, the
// bus construct that cannot itself be exported.
type Endpoint struct {
	Instance   instpath.Path
	Port       string
	Expandable bool
}

// String renders the endpoint as `instance.path.port`.
func (e Endpoint) String() string {
	if e.Instance.IsEmpty() {
		return e.Port
	}
	return e.Instance.String() + "." + e.Port
}

// Connection is a declared point-to-point link. Annotated records whether
// the declaration carried a graphical annotation, which the pruner treats
// as explicit authorial intent to keep the link across the export boundary.
type Connection struct {
	From      Endpoint
	To        Endpoint
	Annotated bool
}
