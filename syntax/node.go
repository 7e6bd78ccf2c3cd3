// Package syntax holds the labeled tree a parser produces for one
// subprogram, plus a YAML codec used for fixtures and sample programs.
package syntax

import "strings"

// Labels recognized by the back-end. Anything else degrades gracefully.
const (
	LabelBlock          = "BLOCK"
	LabelAssign         = "ASSIGN"
	LabelExpression     = "EXPRESSION"
	LabelIf             = "IF"
	LabelThen           = "THEN"
	LabelElse           = "ELSE"
	LabelWhile          = "WHILE"
	LabelDo             = "DO"
	LabelRepeat         = "REPEAT"
	LabelRepeatablePart = "REPEATABLE_PART"
	LabelUntil          = "UNTIL"
	LabelBreak          = "BREAK"
	LabelCondition      = "CONDITION"

	LabelID           = "ID"
	LabelArrayID      = "ARRAY_ID"
	LabelInBraces     = "IN_BRACES"
	LabelValue        = "VALUE"
	LabelArrayElement = "ARRAY_ELEMENT"
	LabelArrayIndex   = "ARRAY_ELEMENT_INDEX"
	LabelCall         = "CALL"
	LabelArguments    = "ARGUMENTS"
	LabelUnary        = "UNARY_OPERATION"

	LabelAdd          = "ADD"
	LabelSubtract     = "SUBTRACT"
	LabelMultiply     = "MULTIPLY"
	LabelDivision     = "DIVISION"
	LabelResidue      = "RESIDUE"
	LabelAnd          = "AND"
	LabelOr           = "OR"
	LabelEquals       = "EQUALS"
	LabelNotEquals    = "NOT_EQUALS"
	LabelLess         = "LESS_THAN"
	LabelLessEqual    = "LESS_THAN_OR_EQUALS"
	LabelGreater      = "MORE_THAN"
	LabelGreaterEqual = "MORE_THAN_OR_EQUALS"
)

// Node is one labeled tree node. Leaves carry token text in Label.
type Node struct {
	Label    string
	Children []*Node
}

// NewNode creates a node with the given children.
func NewNode(label string, children ...*Node) *Node {
	return &Node{Label: label, Children: children}
}

// Leaf creates a childless node.
func Leaf(text string) *Node {
	return &Node{Label: text}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}

	return n.Children[i]
}

// FindFirst returns the first node in pre-order whose label is label.
func (n *Node) FindFirst(label string) *Node {
	if n == nil {
		return nil
	}

	if n.Label == label {
		return n
	}

	for _, c := range n.Children {
		if found := c.FindFirst(label); found != nil {
			return found
		}
	}

	return nil
}

// Text joins the labels of all leaves below n with single spaces.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}

	if n.IsLeaf() {
		return n.Label
	}

	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if t := c.Text(); t != "" {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, " ")
}

// String renders n in the same compact form the YAML codec reads.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}

	if n.IsLeaf() {
		return n.Label
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(n.Label)
	for _, c := range n.Children {
		sb.WriteString(", ")
		sb.WriteString(c.String())
	}
	sb.WriteString("]")

	return sb.String()
}
