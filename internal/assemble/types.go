package assemble

import (
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/specialistvlad/cdlex/internal/prune"
	"github.com/specialistvlad/cdlex/internal/resolve"
)

// GroupingMode selects how sequences are grouped into documents.
type GroupingMode int

const (
	// GroupBySequence produces one document per control sequence, with
	// parameter sets kept as a separate shared section. The default.
	GroupBySequence GroupingMode = iota
	// GroupBySequenceAndParameterSet merges sequences of the same class
	// that resolved to identical parameter sets into one document.
	GroupBySequenceAndParameterSet
)

// RecordClassPolicy selects the class name exported for referenced records:
// the original declaring class, or a project-specific rewrite. The rewrite
// itself happens in the downstream writer; the policy travels in the model.
type RecordClassPolicy int

const (
	RecordClassDeclared RecordClassPolicy = iota
	RecordClassProject
)

// ResolvedParameter pairs a parameter name with its resolution outcome.
type ResolvedParameter struct {
	Name  string
	Value resolve.Result
}

// ExportInstance is one qualified instance in a document: identity, class,
// and fully resolved parameters in declaration order.
type ExportInstance struct {
	Path       instpath.Path
	ClassPath  string
	Parameters []ResolvedParameter
}

// ParameterSet is one distinct resolved parameter combination, keyed by a
// content signature so identical sets are shared between sequences and
// either grouping mode works without re-resolution.
type ParameterSet struct {
	ID         string
	Parameters []ResolvedParameter
}

// Document is one exportable control-sequence document. Sequences holds the
// instance paths sharing it; under GroupBySequence it always has length one.
type Document struct {
	ClassPath      string
	Sequences      []instpath.Path
	Instances      []*ExportInstance
	ParameterSetID string
}

// ExportModel is the single in-memory output handed to the serialization
// collaborator. The shape is lossless: paths, classes, resolved values,
// retained links, boundary ports, and bus signals all survive round-tripping
// through a document writer.
type ExportModel struct {
	GroupBy       GroupingMode
	RecordClasses RecordClassPolicy

	Documents     []*Document
	ParameterSets []*ParameterSet
	Connections   []Link
	Boundary      []prune.BoundaryPort
	BusSignals    []string
}

// Link is a retained connection in export form.
type Link struct {
	From      string
	To        string
	Annotated bool
}
