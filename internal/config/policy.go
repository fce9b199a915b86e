package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/cdlex/internal/assemble"
	"github.com/specialistvlad/cdlex/internal/classify"
)

// Policy is the decoded exporter policy file. Every field is optional; the
// zero value of a field means "use the built-in default".
type Policy struct {
	NamespacePrefixes []string `hcl:"namespace_prefixes,optional"`
	MarkerPrefix      string   `hcl:"marker_prefix,optional"`
	GroupBy           string   `hcl:"group_by,optional"`
	RecordClasses     string   `hcl:"record_classes,optional"`
	Workers           int      `hcl:"workers,optional"`
}

var groupingModes = map[string]assemble.GroupingMode{
	"":              assemble.GroupBySequence,
	"sequence":      assemble.GroupBySequence,
	"parameter-set": assemble.GroupBySequenceAndParameterSet,
}

var recordClassPolicies = map[string]assemble.RecordClassPolicy{
	"":         assemble.RecordClassDeclared,
	"declared": assemble.RecordClassDeclared,
	"project":  assemble.RecordClassProject,
}

// Default returns the policy used when no file is given.
func Default() *Policy {
	return &Policy{}
}

// Load parses and validates one HCL policy file.
func Load(path string) (*Policy, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing policy file %q: %w", path, diags)
	}

	var policy Policy
	if diags := gohcl.DecodeBody(file.Body, nil, &policy); diags.HasErrors() {
		return nil, fmt.Errorf("decoding policy file %q: %w", path, diags)
	}

	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("policy file %q: %w", path, err)
	}
	return &policy, nil
}

// Validate rejects unknown enum values early, before any pipeline work.
func (p *Policy) Validate() error {
	if _, ok := groupingModes[p.GroupBy]; !ok {
		return fmt.Errorf("invalid group_by %q: must be 'sequence' or 'parameter-set'", p.GroupBy)
	}
	if _, ok := recordClassPolicies[p.RecordClasses]; !ok {
		return fmt.Errorf("invalid record_classes %q: must be 'declared' or 'project'", p.RecordClasses)
	}
	if p.Workers < 0 {
		return fmt.Errorf("invalid workers %d: must not be negative", p.Workers)
	}
	return nil
}

// Classifier builds the instance classifier the policy describes. Empty
// fields fall back to the standard CDL namespace and marker.
func (p *Policy) Classifier() *classify.Classifier {
	return classify.New(p.NamespacePrefixes, p.MarkerPrefix)
}

// Options builds the assembler options the policy describes. Validate must
// have accepted the policy first.
func (p *Policy) Options() assemble.Options {
	return assemble.Options{
		GroupBy:       groupingModes[p.GroupBy],
		RecordClasses: recordClassPolicies[p.RecordClasses],
	}
}
