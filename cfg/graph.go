// Package cfg builds the control-flow graph of one subprogram body.
//
// Nodes live in an arena (Graph.Nodes) in creation order, and the two
// outgoing edge slots of a node refer to other nodes by their position in
// that arena. Code generation walks the arena in order, so the order is
// part of the contract.
package cfg

import (
	"fmt"
	"strings"

	"github.com/iREALLYhateGit/MyCompiler/optree"
)

// NoNode marks an unset edge slot.
const NoNode = -1

// NodeKind is the role a node plays in the graph.
type NodeKind int

// Node kinds.
const (
	Entry NodeKind = iota
	Exit
	BasicBlock
	If
	While
	RepeatCondition
	Break
	Return
)

var nodeKindNames = map[NodeKind]string{
	Entry:           "ENTRY_POINT",
	Exit:            "EXIT_POINT",
	BasicBlock:      "BASIC_BLOCK",
	If:              "IF",
	While:           "WHILE",
	RepeatCondition: "REPEAT_CONDITION",
	Break:           "BREAK",
	Return:          "RETURN",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// IsDecision reports whether nodes of kind k end in a two-way branch.
func (k NodeKind) IsDecision() bool {
	return k == If || k == While || k == RepeatCondition
}

// EdgeKind tags an edge for display and decides which slot it lands in.
type EdgeKind int

// Edge kinds.
const (
	Classic EdgeKind = iota
	True
	False
	BreakEdge
	Continue
)

var edgeKindNames = map[EdgeKind]string{
	Classic:   "",
	True:      "true",
	False:     "false",
	BreakEdge: "break",
	Continue:  "continue",
}

func (k EdgeKind) String() string {
	return edgeKindNames[k]
}

// Node is one graph node.
type Node struct {
	ID    int
	Kind  NodeKind
	Stmts []*optree.Node

	// Default and Conditional are positions in Graph.Nodes, or NoNode.
	Default     int
	Conditional int
}

// HasDefault reports whether the default slot is set.
func (n *Node) HasDefault() bool {
	return n.Default != NoNode
}

// HasConditional reports whether the conditional slot is set.
func (n *Node) HasConditional() bool {
	return n.Conditional != NoNode
}

// Edge is a recorded connection. The list only serves inspection; the
// edge slots on the nodes are authoritative.
type Edge struct {
	From int
	To   int
	Kind EdgeKind
}

// Graph is the control-flow graph of one subprogram.
type Graph struct {
	Nodes []*Node
	Edges []Edge
	Entry int
	Exit  int
}

// Node returns the node at position pos, or nil if pos is out of range.
func (g *Graph) Node(pos int) *Node {
	if pos < 0 || pos >= len(g.Nodes) {
		return nil
	}

	return g.Nodes[pos]
}

// Position returns the arena position of the node with the given id.
func (g *Graph) Position(id int) int {
	for i, n := range g.Nodes {
		if n.ID == id {
			return i
		}
	}

	return NoNode
}

// Successors lists the positions reachable in one step from pos.
func (g *Graph) Successors(pos int) []int {
	n := g.Node(pos)
	if n == nil {
		return nil
	}

	var out []int
	if n.HasDefault() {
		out = append(out, n.Default)
	}
	if n.HasConditional() && n.Conditional != n.Default {
		out = append(out, n.Conditional)
	}

	return out
}

// Dump renders the graph one node per line.
func (g *Graph) Dump() string {
	var sb strings.Builder
	for pos, n := range g.Nodes {
		fmt.Fprintf(&sb, "%d #%d %s", pos, n.ID, n.Kind)
		if n.HasDefault() {
			fmt.Fprintf(&sb, " default=%d", n.Default)
		}
		if n.HasConditional() {
			fmt.Fprintf(&sb, " conditional=%d", n.Conditional)
		}
		sb.WriteString("\n")

		for _, s := range n.Stmts {
			fmt.Fprintf(&sb, "    %s\n", s)
		}
	}

	return sb.String()
}
