// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Instance, the node type of the flattened tree, and the
// ParameterBinding attached to it.
package model

import (
	"strings"

	"github.com/specialistvlad/cdlex/internal/expr"
	"github.com/specialistvlad/cdlex/internal/instpath"
)

// Kind distinguishes ordinary component instances from record instances.
// Records are parameter-data containers that are exported separately;
// references into them are preserved symbolically instead of being read.
type Kind int

const (
	KindComponent Kind = iota
	KindRecord
)

// Prefix is the inner/outer declaration prefix of an instance. Outer
// declarations are stand-ins that rebind to the nearest enclosing inner
// declaration of the same name.
type Prefix int

const (
	PrefixNone Prefix = iota
	PrefixInner
	PrefixOuter
)

// ParameterBinding is the declared, unevaluated right-hand side of one
// parameter of an instance.
type ParameterBinding struct {
	Name string
	Expr expr.Node
}

// Instance is one node of the flattened instance tree. Instances are
// constructed once by the front-end adapter and never mutated afterwards.
type Instance struct {
	Path        instpath.Path
	ClassPath   string
	Kind        Kind
	Prefix      Prefix
	Annotations []string
	Parameters  []*ParameterBinding
	Connections []*Connection
	Children    []*Instance
}

// Name returns the instance's declared name, the final path segment.
func (in *Instance) Name() string {
	return in.Path.Leaf()
}

// Parameter returns the named parameter binding, if the instance declares one.
func (in *Instance) Parameter(name string) (*ParameterBinding, bool) {
	for _, p := range in.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// Child returns the direct sub-instance with the given declared name.
func (in *Instance) Child(name string) (*Instance, bool) {
	for _, c := range in.Children {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// HasAnnotationPrefix reports whether any annotation on the instance starts
// with the given prefix.
func (in *Instance) HasAnnotationPrefix(prefix string) bool {
	if prefix == "" {
		return false
	}
	for _, a := range in.Annotations {
		if strings.HasPrefix(a, prefix) {
			return true
		}
	}
	return false
}
