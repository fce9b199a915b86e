package classify

import (
	"strings"
	"sync"

	"github.com/specialistvlad/cdlex/internal/model"
)

// DefaultNamespacePrefix is the canonical namespace of the standard
// control-sequence block library.
const DefaultNamespacePrefix = "Buildings.Controls.OBC.CDL"

// DefaultMarkerPrefix is the annotation prefix that force-qualifies an
// instance regardless of its class path.
const DefaultMarkerPrefix = "__cdl"

// Classifier decides whether an instance is qualified for export. An
// instance qualifies when its class path sits under one of the configured
// namespace prefixes, or when it carries an annotation starting with the
// marker prefix.
//
// Class-path matches are memoized per distinct class path, since templates
// instantiate the same block classes many times over.
type Classifier struct {
	prefixes []string
	marker   string

	mu        sync.RWMutex
	classMemo map[string]bool
}

// New creates a Classifier. Empty arguments fall back to the defaults.
func New(prefixes []string, marker string) *Classifier {
	if len(prefixes) == 0 {
		prefixes = []string{DefaultNamespacePrefix}
	}
	if marker == "" {
		marker = DefaultMarkerPrefix
	}
	return &Classifier{
		prefixes:  prefixes,
		marker:    marker,
		classMemo: make(map[string]bool),
	}
}

// Qualified reports whether the instance belongs to the exportable control
// sequence. It has no side effects beyond the memo and never fails: an
// instance that matches nothing is simply not qualified.
func (c *Classifier) Qualified(in *model.Instance) bool {
	if c.classQualified(in.ClassPath) {
		return true
	}
	return in.HasAnnotationPrefix(c.marker)
}

func (c *Classifier) classQualified(classPath string) bool {
	c.mu.RLock()
	cached, ok := c.classMemo[classPath]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	matched := false
	for _, prefix := range c.prefixes {
		if classPath == prefix || strings.HasPrefix(classPath, prefix+".") {
			matched = true
			break
		}
	}

	c.mu.Lock()
	c.classMemo[classPath] = matched
	c.mu.Unlock()
	return matched
}
