package loader

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/specialistvlad/cdlex/internal/expr"
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/zclconf/go-cty/cty"
)

var unaryOps = map[string]expr.UnaryOp{
	"neg": expr.OpNegate,
	"not": expr.OpNot,
}

var binaryOps = map[string]expr.BinaryOp{
	"add": expr.OpAdd,
	"sub": expr.OpSubtract,
	"mul": expr.OpMultiply,
	"div": expr.OpDivide,
	"pow": expr.OpPower,
	"eq":  expr.OpEqual,
	"neq": expr.OpNotEqual,
	"lt":  expr.OpLessThan,
	"lte": expr.OpLessThanOrEqual,
	"gt":  expr.OpGreaterThan,
	"gte": expr.OpGreaterThanOrEqual,
	"and": expr.OpAnd,
	"or":  expr.OpOr,
}

var refScopes = map[string]expr.RefKind{
	"":      expr.RefPlain,
	"inner": expr.RefInner,
	"outer": expr.RefOuter,
}

// decodeExpr turns one tagged AST object into an expression node.
func decodeExpr(raw json.RawMessage) (expr.Node, error) {
	var m exprModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decoding expression object: %w", err)
	}

	switch {
	case m.Lit != nil:
		return decodeLiteral(m.Lit)

	case m.Ref != "":
		kind, ok := refScopes[m.Scope]
		if !ok {
			return nil, fmt.Errorf("unknown reference scope %q", m.Scope)
		}
		path, err := instpath.Parse(m.Ref)
		if err != nil {
			return nil, fmt.Errorf("reference %q: %w", m.Ref, err)
		}
		return expr.Ref{Path: path, Kind: kind}, nil

	case m.Unary != "":
		op, ok := unaryOps[m.Unary]
		if !ok {
			return nil, fmt.Errorf("unknown unary operator %q", m.Unary)
		}
		x, err := decodeExpr(m.X)
		if err != nil {
			return nil, err
		}
		return expr.Unary{Op: op, X: x}, nil

	case m.Binary != "":
		op, ok := binaryOps[m.Binary]
		if !ok {
			return nil, fmt.Errorf("unknown binary operator %q", m.Binary)
		}
		l, err := decodeExpr(m.Left)
		if err != nil {
			return nil, err
		}
		r, err := decodeExpr(m.Right)
		if err != nil {
			return nil, err
		}
		return expr.Binary{Op: op, L: l, R: r}, nil

	case len(m.If) > 0:
		if m.Else == nil {
			return nil, fmt.Errorf("conditional without an else arm")
		}
		branches := make([]expr.Branch, 0, len(m.If))
		for _, b := range m.If {
			cond, err := decodeExpr(b.Cond)
			if err != nil {
				return nil, err
			}
			then, err := decodeExpr(b.Then)
			if err != nil {
				return nil, err
			}
			branches = append(branches, expr.Branch{Cond: cond, Result: then})
		}
		els, err := decodeExpr(m.Else)
		if err != nil {
			return nil, err
		}
		return expr.Conditional{Branches: branches, Else: els}, nil

	case m.Array != nil:
		elems := make([]expr.Node, 0, len(m.Array))
		for _, el := range m.Array {
			node, err := decodeExpr(el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, node)
		}
		return expr.Array{Elems: elems}, nil

	case m.For != nil:
		if m.For.Index == "" {
			return nil, fmt.Errorf("for comprehension without an index name")
		}
		from, err := decodeExpr(m.For.From)
		if err != nil {
			return nil, err
		}
		to, err := decodeExpr(m.For.To)
		if err != nil {
			return nil, err
		}
		body, err := decodeExpr(m.For.Body)
		if err != nil {
			return nil, err
		}
		return expr.For{Index: m.For.Index, From: from, To: to, Body: body}, nil

	case m.Call != "":
		args := make([]expr.Node, 0, len(m.Args))
		for _, arg := range m.Args {
			node, err := decodeExpr(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, node)
		}
		return expr.Call{Name: m.Call, Args: args}, nil

	default:
		return nil, fmt.Errorf("unrecognized expression object: %s", string(raw))
	}
}

// decodeLiteral maps a JSON scalar or array onto a literal node. Numbers go
// through arbitrary-precision parsing rather than float64.
func decodeLiteral(raw json.RawMessage) (expr.Node, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}
	return expr.Literal{Val: v}, nil
}

func decodeValue(raw json.RawMessage) (cty.Value, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return cty.NilVal, fmt.Errorf("empty literal")
	}

	switch trimmed[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return cty.NilVal, fmt.Errorf("decoding boolean literal: %w", err)
		}
		return cty.BoolVal(b), nil

	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return cty.NilVal, fmt.Errorf("decoding string literal: %w", err)
		}
		return cty.StringVal(s), nil

	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return cty.NilVal, fmt.Errorf("decoding array literal: %w", err)
		}
		if len(elems) == 0 {
			return cty.EmptyTupleVal, nil
		}
		vals := make([]cty.Value, 0, len(elems))
		for _, el := range elems {
			v, err := decodeValue(el)
			if err != nil {
				return cty.NilVal, err
			}
			vals = append(vals, v)
		}
		return cty.TupleVal(vals), nil

	default:
		v, err := cty.ParseNumberVal(string(trimmed))
		if err != nil {
			return cty.NilVal, fmt.Errorf("decoding numeric literal %q: %w", string(trimmed), err)
		}
		return v, nil
	}
}
