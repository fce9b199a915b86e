package assemble

import (
	"context"
	"fmt"
	"sort"

	"github.com/specialistvlad/cdlex/internal/classify"
	"github.com/specialistvlad/cdlex/internal/ctxlog"
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/specialistvlad/cdlex/internal/model"
	"github.com/specialistvlad/cdlex/internal/prune"
)

// Options carries the policy decisions the assembler applies.
type Options struct {
	GroupBy       GroupingMode
	RecordClasses RecordClassPolicy
}

// Assemble composes the export model. params maps instance path strings to
// that instance's resolved parameters; every qualified instance must have an
// entry, since resolution errors abort the run before assembly. A missing
// entry is therefore reported as an error rather than papered over.
func Assemble(ctx context.Context, tree *model.Tree, classifier *classify.Classifier,
	params map[string][]ResolvedParameter, pruned prune.Result, buses prune.BusIndex,
	opts Options) (*ExportModel, error) {

	logger := ctxlog.FromContext(ctx)

	roots := SequenceRoots(tree, classifier)
	logger.Debug("Assembling export model.", "sequences", len(roots), "group_by", opts.GroupBy)

	out := &ExportModel{
		GroupBy:       opts.GroupBy,
		RecordClasses: opts.RecordClasses,
		Boundary:      pruned.Boundary,
		BusSignals:    buses.Signals(),
	}

	setByID := make(map[string]*ParameterSet)

	for _, root := range roots {
		instances, err := collectQualified(root, classifier, params)
		if err != nil {
			return nil, err
		}

		set := parameterSet(root, instances)
		if _, ok := setByID[set.ID]; !ok {
			setByID[set.ID] = set
			out.ParameterSets = append(out.ParameterSets, set)
		}

		out.Documents = append(out.Documents, &Document{
			ClassPath:      root.ClassPath,
			Sequences:      []instpath.Path{root.Path},
			Instances:      instances,
			ParameterSetID: set.ID,
		})
	}

	if opts.GroupBy == GroupBySequenceAndParameterSet {
		out.Documents = mergeByParameterSet(out.Documents)
	}

	sort.Slice(out.ParameterSets, func(i, j int) bool {
		return out.ParameterSets[i].ID < out.ParameterSets[j].ID
	})

	for _, conn := range pruned.Retained {
		out.Connections = append(out.Connections, Link{
			From:      conn.From.String(),
			To:        conn.To.String(),
			Annotated: conn.Annotated,
		})
	}

	logger.Debug("Export model assembled.",
		"documents", len(out.Documents), "parameter_sets", len(out.ParameterSets),
		"connections", len(out.Connections), "boundary_ports", len(out.Boundary))
	return out, nil
}

// SequenceRoots returns every qualified instance whose parent is not
// qualified, in deterministic pre-order; each is the root of one exported
// control sequence. Classification is purely local, so a qualified instance
// sitting below an unqualified intermediate is not part of the enclosing
// sequence and starts a sequence of its own. The whole tree is walked: an
// unqualified node never hides qualified descendants.
func SequenceRoots(tree *model.Tree, classifier *classify.Classifier) []*model.Instance {
	var roots []*model.Instance
	var walk func(in *model.Instance, parentQualified bool)
	walk = func(in *model.Instance, parentQualified bool) {
		qualified := classifier.Qualified(in)
		if qualified && !parentQualified {
			roots = append(roots, in)
		}
		for _, child := range in.Children {
			walk(child, qualified)
		}
	}
	walk(tree.Root(), false)
	return roots
}

// collectQualified gathers the qualified subtree of one sequence root in
// pre-order, pairing each instance with its resolved parameters. Descent
// stops at the first unqualified node.
func collectQualified(root *model.Instance, classifier *classify.Classifier,
	params map[string][]ResolvedParameter) ([]*ExportInstance, error) {

	var out []*ExportInstance
	var walk func(in *model.Instance) error
	walk = func(in *model.Instance) error {
		resolved, ok := params[in.Path.String()]
		if !ok && len(in.Parameters) > 0 {
			return fmt.Errorf("qualified instance %q has no resolved parameters; refusing to assemble a partial document", in.Path.String())
		}
		out = append(out, &ExportInstance{
			Path:       in.Path,
			ClassPath:  in.ClassPath,
			Parameters: resolved,
		})
		for _, child := range in.Children {
			if !classifier.Qualified(child) {
				continue
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, err
	}
	return out, nil
}

// parameterSet flattens a sequence's resolved parameters into one set keyed
// by sequence-relative names, so identical sequences hash identically no
// matter where they sit in the tree.
func parameterSet(root *model.Instance, instances []*ExportInstance) *ParameterSet {
	var flat []ResolvedParameter
	for _, inst := range instances {
		prefix := relativeName(root, inst)
		for _, p := range inst.Parameters {
			name := p.Name
			if prefix != "" {
				name = prefix + "." + p.Name
			}
			flat = append(flat, ResolvedParameter{Name: name, Value: p.Value})
		}
	}
	return &ParameterSet{ID: signature(flat), Parameters: flat}
}

// relativeName renders inst's path relative to the sequence root; the root
// itself maps to the empty prefix.
func relativeName(root *model.Instance, inst *ExportInstance) string {
	rootLen := len(root.Path.Segments)
	if len(inst.Path.Segments) <= rootLen {
		return ""
	}
	rel := instpath.Path{Segments: inst.Path.Segments[rootLen:]}
	return rel.String()
}

// mergeByParameterSet collapses documents of the same class with identical
// parameter sets, keeping the first document's instance detail and listing
// every sequence path that shares it.
func mergeByParameterSet(docs []*Document) []*Document {
	type key struct {
		class string
		set   string
	}
	byKey := make(map[key]*Document)
	var merged []*Document
	for _, doc := range docs {
		k := key{class: doc.ClassPath, set: doc.ParameterSetID}
		if existing, ok := byKey[k]; ok {
			existing.Sequences = append(existing.Sequences, doc.Sequences...)
			continue
		}
		byKey[k] = doc
		merged = append(merged, doc)
	}
	return merged
}
