package instpath

import (
	"fmt"
	"reflect"
	"strings"
)

// String serializes the Path into its canonical dotted string representation.
func (p Path) String() string {
	var sb strings.Builder
	for i, segment := range p.Segments {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Name)
		if segment.Index != -1 {
			sb.WriteString(fmt.Sprintf("[%d]", segment.Index))
		}
	}
	return sb.String()
}

// Equal checks for deep equality between two paths.
func (p Path) Equal(other Path) bool {
	return reflect.DeepEqual(p.Segments, other.Segments)
}

// IsEmpty reports whether the path has no segments. The empty path denotes
// the tree root.
func (p Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Leaf returns the final segment's name, or the empty string for the root.
func (p Path) Leaf() string {
	if len(p.Segments) == 0 {
		return ""
	}
	return p.Segments[len(p.Segments)-1].Name
}

// Parent returns the path with its final segment removed. The parent of the
// root is the root itself.
func (p Path) Parent() Path {
	if len(p.Segments) == 0 {
		return p
	}
	return Path{Segments: append([]Segment(nil), p.Segments[:len(p.Segments)-1]...)}
}

// Child returns a new path extended by one unindexed segment.
func (p Path) Child(name string) Path {
	segments := make([]Segment, 0, len(p.Segments)+1)
	segments = append(segments, p.Segments...)
	segments = append(segments, NewSegment(name))
	return Path{Segments: segments}
}

// Join returns a new path with all of other's segments appended.
func (p Path) Join(other Path) Path {
	segments := make([]Segment, 0, len(p.Segments)+len(other.Segments))
	segments = append(segments, p.Segments...)
	segments = append(segments, other.Segments...)
	return Path{Segments: segments}
}

// HasPrefix reports whether prefix is an ancestor-or-self of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.Segments) > len(p.Segments) {
		return false
	}
	return reflect.DeepEqual(p.Segments[:len(prefix.Segments)], prefix.Segments)
}
