// Package optree turns expression subtrees of the syntax tree into
// canonical operator trees with left-associative binary chains.
package optree

import (
	"strings"
)

// Kind identifies the operator of a Node.
type Kind int

// Operator kinds.
const (
	Unknown Kind = iota
	Identifier
	Literal
	Assignment
	Add
	Sub
	Mul
	Div
	Mod
	And
	Or
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Plus
	Minus
	Not
	Call
	ArrayIndex
)

var kindNames = map[Kind]string{
	Unknown:    "UNKNOWN",
	Identifier: "IDENTIFIER",
	Literal:    "LITERAL",
	Assignment: "ASSIGN",
	Add:        "ADD",
	Sub:        "SUBTRACTION",
	Mul:        "MULTIPLICATION",
	Div:        "DIVISION",
	Mod:        "MODULO",
	And:        "LOGICAL_AND",
	Or:         "LOGICAL_OR",
	Eq:         "EQUAL",
	Ne:         "NOT_EQUAL",
	Lt:         "LESS_THAN",
	Le:         "LESS_THAN_OR_EQUAL",
	Gt:         "GREATER_THAN",
	Ge:         "GREATER_THAN_OR_EQUAL",
	Plus:       "UNARY_PLUS",
	Minus:      "UNARY_MINUS",
	Not:        "LOGICAL_NOT",
	Call:       "CALL",
	ArrayIndex: "ARRAY_INDEX",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return "UNKNOWN"
}

// IsBinary reports whether k is one of the binary operators.
func (k Kind) IsBinary() bool {
	return k >= Add && k <= Ge
}

// IsUnary reports whether k is one of the unary operators.
func (k Kind) IsUnary() bool {
	return k == Plus || k == Minus || k == Not
}

type assocClass int

const (
	classNone assocClass = iota
	classAdditive
	classMultiplicative
	classAnd
	classOr
	classEquality
	classRelational
)

func (k Kind) class() assocClass {
	switch k {
	case Add, Sub:
		return classAdditive
	case Mul, Div, Mod:
		return classMultiplicative
	case And:
		return classAnd
	case Or:
		return classOr
	case Eq, Ne:
		return classEquality
	case Lt, Le, Gt, Ge:
		return classRelational
	default:
		return classNone
	}
}

// SameClass reports whether a and b associate together.
func SameClass(a, b Kind) bool {
	ca := a.class()
	return ca != classNone && ca == b.class()
}

// Node is one operator tree node.
//
// Text holds the identifier name, the literal text, the callee name, the
// unary operator token or the unrecognized label, depending on Kind.
// Operands may contain nil entries where a subtree normalized to nothing.
type Node struct {
	Kind     Kind
	Text     string
	Operands []*Node
}

// NewNode creates a node.
func NewNode(kind Kind, text string, operands ...*Node) *Node {
	return &Node{Kind: kind, Text: text, Operands: operands}
}

// Operand returns the i-th operand or nil.
func (n *Node) Operand(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Operands) {
		return nil
	}

	return n.Operands[i]
}

// Leaves returns the in-order sequence of leaf texts below n.
func (n *Node) Leaves() []string {
	var out []string
	n.collectLeaves(&out)

	return out
}

func (n *Node) collectLeaves(out *[]string) {
	if n == nil {
		return
	}

	if len(n.Operands) == 0 {
		*out = append(*out, n.Text)
		return
	}

	for _, op := range n.Operands {
		op.collectLeaves(out)
	}
}

// String renders the tree as KIND:text(op, op).
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	var sb strings.Builder
	n.write(&sb)

	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}

	sb.WriteString(n.Kind.String())
	if n.Text != "" {
		sb.WriteString(":")
		sb.WriteString(n.Text)
	}

	if len(n.Operands) == 0 {
		return
	}

	sb.WriteString("(")
	for i, op := range n.Operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		op.write(sb)
	}
	sb.WriteString(")")
}
