package optree

import (
	"github.com/iREALLYhateGit/MyCompiler/syntax"
)

var wrapperLabels = map[string]bool{
	syntax.LabelExpression: true,
	syntax.LabelCondition:  true,
	syntax.LabelUntil:      true,
	syntax.LabelInBraces:   true,
	syntax.LabelValue:      true,
	syntax.LabelArrayIndex: true,
}

var binaryLabels = map[string]Kind{
	syntax.LabelAdd:          Add,
	syntax.LabelSubtract:     Sub,
	syntax.LabelMultiply:     Mul,
	syntax.LabelDivision:     Div,
	syntax.LabelResidue:      Mod,
	syntax.LabelAnd:          And,
	syntax.LabelOr:           Or,
	syntax.LabelEquals:       Eq,
	syntax.LabelNotEquals:    Ne,
	syntax.LabelLess:         Lt,
	syntax.LabelLessEqual:    Le,
	syntax.LabelGreater:      Gt,
	syntax.LabelGreaterEqual: Ge,
}

var unaryTokens = map[string]Kind{
	"+": Plus,
	"-": Minus,
	"!": Not,
}

// Normalize converts an expression subtree into an operator tree. It never
// fails: shapes it does not understand become Unknown nodes. A nil input,
// or a wrapper without children, yields nil.
func Normalize(n *syntax.Node) *Node {
	if n == nil {
		return nil
	}

	if wrapperLabels[n.Label] {
		return Normalize(n.Child(0))
	}

	switch n.Label {
	case syntax.LabelID, syntax.LabelArrayID:
		return NewNode(Identifier, IdentifierName(n))
	case syntax.LabelAssign:
		return NewNode(Assignment, "", normalizeAll(n.Children)...)
	case syntax.LabelUnary:
		return normalizeUnary(n)
	case syntax.LabelCall:
		return normalizeCall(n)
	case syntax.LabelArrayElement:
		return NewNode(ArrayIndex, "", normalizeAll(n.Children)...)
	}

	if kind, ok := binaryLabels[n.Label]; ok {
		if len(n.Children) < 2 {
			return NewNode(Unknown, n.Label, normalizeAll(n.Children)...)
		}

		return leftAssociate(NewNode(kind, "", normalizeAll(n.Children)...))
	}

	if n.IsLeaf() {
		return NewNode(Literal, n.Label)
	}

	return NewNode(Unknown, n.Label, normalizeAll(n.Children)...)
}

// IdentifierName resolves the name an ID-like node stands for: the text of
// its first child if it has one, its own label otherwise.
func IdentifierName(n *syntax.Node) string {
	if n == nil {
		return ""
	}

	if c := n.Child(0); c != nil {
		return c.Label
	}

	return n.Label
}

func normalizeAll(children []*syntax.Node) []*Node {
	out := make([]*Node, 0, len(children))
	for _, c := range children {
		out = append(out, Normalize(c))
	}

	return out
}

func normalizeUnary(n *syntax.Node) *Node {
	if len(n.Children) < 2 {
		return NewNode(Unknown, n.Label, normalizeAll(n.Children)...)
	}

	token := n.Children[0].Label
	operand := Normalize(n.Children[1])

	kind, ok := unaryTokens[token]
	if !ok {
		return NewNode(Unknown, token, operand)
	}

	return NewNode(kind, token, operand)
}

func normalizeCall(n *syntax.Node) *Node {
	call := NewNode(Call, IdentifierName(n.Child(0)))

	args := n.Child(1)
	switch {
	case args == nil:
	case args.Label == syntax.LabelArguments:
		call.Operands = normalizeAll(args.Children)
	default:
		call.Operands = []*Node{Normalize(args)}
	}

	return call
}

// leftAssociate rotates a right-leaning chain of same-class binary
// operators into a left-nested one. The node pushed down is re-associated
// too, since the subtree it inherits may itself lean right.
func leftAssociate(n *Node) *Node {
	for {
		last := len(n.Operands) - 1
		right := n.Operands[last]
		if !rotatable(n, right) {
			return n
		}

		n.Operands[last] = right.Operands[0]
		right.Operands[0] = leftAssociate(n)
		n = right
	}
}

func rotatable(n, right *Node) bool {
	return right != nil &&
		right.Kind.IsBinary() &&
		len(right.Operands) >= 2 &&
		SameClass(n.Kind, right.Kind)
}
