package expr

import (
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/zclconf/go-cty/cty"
)

// Node is one node of a parameter-binding expression tree. The concrete
// types below form a closed set; the evaluator rejects anything else.
type Node interface {
	node()
}

// RefKind distinguishes how a variable reference participates in scope
// lookup. Inner references shadow enclosing declarations within their own
// subtree; outer references redirect to the nearest enclosing inner
// declaration of the same name.
type RefKind int

const (
	RefPlain RefKind = iota
	RefInner
	RefOuter
)

// UnaryOp enumerates the supported unary operators.
type UnaryOp int

const (
	OpNegate UnaryOp = iota
	OpNot
)

// BinaryOp enumerates the supported binary operators. Operator precedence is
// not a concern here: the front-end already encoded it in the tree shape.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpPower
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessThanOrEqual
	OpGreaterThan
	OpGreaterThanOrEqual
	OpAnd
	OpOr
)

// Literal is a self-contained value: booleans, numbers, strings, enumeration
// tags (fully qualified tag name as a string), or arrays of literals.
type Literal struct {
	Val cty.Value
}

// Ref is a possibly-qualified variable reference, resolved against the
// instance that declared the binding it appears in.
type Ref struct {
	Path instpath.Path
	Kind RefKind
}

// Unary applies a unary operator to its operand.
type Unary struct {
	Op UnaryOp
	X  Node
}

// Binary applies a binary operator to two operands.
type Binary struct {
	Op BinaryOp
	L  Node
	R  Node
}

// Branch is one (condition, result) arm of a Conditional.
type Branch struct {
	Cond   Node
	Result Node
}

// Conditional is an if/elseif/else chain. Branches are evaluated in declared
// order and the first true condition wins. Else is mandatory.
type Conditional struct {
	Branches []Branch
	Else     Node
}

// Array constructs an array value from its element expressions.
type Array struct {
	Elems []Node
}

// For is a bounded array comprehension over an inclusive integer range,
// `{ body for index in from:to }`. The body is re-evaluated with the index
// bound to each successive range value.
type For struct {
	Index string
	From  Node
	To    Node
	Body  Node
}

// Call invokes a named function. Calls are evaluated only when every
// argument folds to a literal; anything else is unsupported.
type Call struct {
	Name string
	Args []Node
}

func (Literal) node()     {}
func (Ref) node()         {}
func (Unary) node()       {}
func (Binary) node()      {}
func (Conditional) node() {}
func (Array) node()       {}
func (For) node()         {}
func (Call) node()        {}
