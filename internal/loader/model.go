package loader

import (
	json "github.com/goccy/go-json"
)

// fileModel is the top level of one template file.
type fileModel struct {
	Instances []*instanceModel `json:"instances"`
}

// instanceModel is the wire form of one flattened instance. Path is empty for
// the tree root and dotted for everything else.
type instanceModel struct {
	Path        string             `json:"path"`
	Class       string             `json:"class"`
	Kind        string             `json:"kind,omitempty"`
	Prefix      string             `json:"prefix,omitempty"`
	Annotations []string           `json:"annotations,omitempty"`
	Parameters  []*parameterModel  `json:"parameters,omitempty"`
	Connections []*connectionModel `json:"connections,omitempty"`
}

type parameterModel struct {
	Name string          `json:"name"`
	Expr json.RawMessage `json:"expr"`
}

type connectionModel struct {
	From      endpointModel `json:"from"`
	To        endpointModel `json:"to"`
	Annotated bool          `json:"annotated,omitempty"`
}

type endpointModel struct {
	Instance   string `json:"instance"`
	Port       string `json:"port"`
	Expandable bool   `json:"expandable,omitempty"`
}

// exprModel is the tagged union for expression AST nodes. Exactly one tag
// group must be populated per object; decodeExpr picks the first match and
// rejects empty objects.
type exprModel struct {
	Lit   json.RawMessage `json:"lit,omitempty"`
	Ref   string          `json:"ref,omitempty"`
	Scope string          `json:"scope,omitempty"`

	Unary string          `json:"unary,omitempty"`
	X     json.RawMessage `json:"x,omitempty"`

	Binary string          `json:"binary,omitempty"`
	Left   json.RawMessage `json:"left,omitempty"`
	Right  json.RawMessage `json:"right,omitempty"`

	If   []branchModel   `json:"if,omitempty"`
	Else json.RawMessage `json:"else,omitempty"`

	Array []json.RawMessage `json:"array,omitempty"`

	For *forModel `json:"for,omitempty"`

	Call string            `json:"call,omitempty"`
	Args []json.RawMessage `json:"args,omitempty"`
}

type branchModel struct {
	Cond json.RawMessage `json:"cond"`
	Then json.RawMessage `json:"then"`
}

type forModel struct {
	Index string          `json:"index"`
	From  json.RawMessage `json:"from"`
	To    json.RawMessage `json:"to"`
	Body  json.RawMessage `json:"body"`
}
