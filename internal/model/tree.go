// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Tree, the immutable index over a flattened instance
// tree that the whole pipeline shares.
package model

import (
	"fmt"

	"github.com/specialistvlad/cdlex/internal/instpath"
)

// Tree is a flattened instance tree plus the lookup indexes built once at
// construction time. All fields are read-only after NewTree returns, so a
// Tree may be shared freely across resolution goroutines.
type Tree struct {
	root    *Instance
	byPath  map[string]*Instance
	parents map[*Instance]*Instance
}

// NewTree validates the instance tree rooted at root and builds its indexes.
// It rejects duplicate paths, children whose path does not extend their
// parent's path by exactly one segment, and connection endpoints naming
// instances that are not in the tree, all of which indicate a front-end bug
// rather than a user error.
func NewTree(root *Instance) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("instance tree root cannot be nil")
	}

	t := &Tree{
		root:    root,
		byPath:  make(map[string]*Instance),
		parents: make(map[*Instance]*Instance),
	}

	var index func(in *Instance) error
	index = func(in *Instance) error {
		key := in.Path.String()
		if _, exists := t.byPath[key]; exists {
			return fmt.Errorf("duplicate instance path %q", key)
		}
		t.byPath[key] = in

		for _, child := range in.Children {
			if !child.Path.Parent().Equal(in.Path) {
				return fmt.Errorf("instance %q is a child of %q but its path does not extend it",
					child.Path.String(), in.Path.String())
			}
			t.parents[child] = in
			if err := index(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := index(root); err != nil {
		return nil, err
	}

	// Endpoint check runs after indexing so connections may point anywhere
	// in the tree, not just downward.
	var connErr error
	t.Walk(func(in *Instance) bool {
		for _, conn := range in.Connections {
			for _, e := range []Endpoint{conn.From, conn.To} {
				if _, ok := t.byPath[e.Instance.String()]; !ok {
					connErr = fmt.Errorf("connection endpoint %q on instance %q references an unknown instance",
						e.String(), in.Path.String())
					return false
				}
			}
		}
		return true
	})
	if connErr != nil {
		return nil, connErr
	}
	return t, nil
}

// Root returns the tree's root instance.
func (t *Tree) Root() *Instance {
	return t.root
}

// Lookup returns the instance with the given path, if present.
func (t *Tree) Lookup(path instpath.Path) (*Instance, bool) {
	in, ok := t.byPath[path.String()]
	return in, ok
}

// ParentOf returns the parent of an instance. The root has no parent.
func (t *Tree) ParentOf(in *Instance) (*Instance, bool) {
	p, ok := t.parents[in]
	return p, ok
}

// Walk visits every instance in deterministic pre-order (declared child
// order). The visitor returns false to stop the walk early.
func (t *Tree) Walk(visit func(*Instance) bool) {
	var walk func(in *Instance) bool
	walk = func(in *Instance) bool {
		if !visit(in) {
			return false
		}
		for _, child := range in.Children {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	walk(t.root)
}

// Connections returns every connection declared anywhere in the tree, in
// deterministic pre-order of the declaring instance.
func (t *Tree) Connections() []*Connection {
	var out []*Connection
	t.Walk(func(in *Instance) bool {
		out = append(out, in.Connections...)
		return true
	})
	return out
}

// Len returns the number of instances in the tree.
func (t *Tree) Len() int {
	return len(t.byPath)
}
