package cfg

import (
	"log/slog"

	"github.com/iREALLYhateGit/MyCompiler/optree"
	"github.com/iREALLYhateGit/MyCompiler/syntax"
)

// pending is an outgoing edge whose target is not known yet.
type pending struct {
	from int
	kind EdgeKind
}

// frontier is the ordered set of pending edges flowing out of a statement.
type frontier []pending

// Builder constructs graphs. Node ids come from a counter owned by the
// Builder: they start at 0 and stay unique across every graph built by the
// same Builder. Use one Builder per goroutine.
type Builder struct {
	nextID int
	graph  *Graph
}

// NewBuilder creates a Builder whose first node gets id 0.
func NewBuilder() *Builder {
	return &Builder{}
}

// NextID returns the id the next created node will get.
func (b *Builder) NextID() int {
	return b.nextID
}

// Build constructs the graph for a subprogram body. The first BLOCK found
// in pre-order is the statement list; without one Entry links straight to
// Exit.
func (b *Builder) Build(body *syntax.Node) *Graph {
	b.graph = &Graph{}
	defer func() { b.graph = nil }()

	entry := b.newNode(Entry)
	b.graph.Entry = entry

	out := frontier{{from: entry, kind: Classic}}
	if block := body.FindFirst(syntax.LabelBlock); block != nil {
		out = b.statement(block, out)
	}

	exit := b.newNode(Exit)
	b.graph.Exit = exit
	b.resolve(out, exit)

	return b.graph
}

func (b *Builder) statement(n *syntax.Node, in frontier) frontier {
	switch n.Label {
	case syntax.LabelAssign, syntax.LabelExpression:
		return b.straightLine(n, in)
	case syntax.LabelIf:
		return b.ifStatement(n, in)
	case syntax.LabelWhile:
		return b.whileStatement(n, in)
	case syntax.LabelRepeat:
		return b.repeatStatement(n, in)
	case syntax.LabelBreak:
		return breakStatement(in)
	case syntax.LabelBlock, syntax.LabelThen, syntax.LabelElse,
		syntax.LabelDo, syntax.LabelRepeatablePart:
		return b.sequence(n.Children, in)
	default:
		slog.Debug("CFGSkip", "Label", n.Label)
		return in
	}
}

func (b *Builder) sequence(stmts []*syntax.Node, in frontier) frontier {
	out := in
	for _, s := range stmts {
		out = b.statement(s, out)
	}

	return out
}

func (b *Builder) straightLine(n *syntax.Node, in frontier) frontier {
	if len(in) == 1 && in[0].kind == Classic &&
		b.graph.Nodes[in[0].from].Kind == BasicBlock {
		b.attach(in[0].from, n)
		return in
	}

	pos := b.newNode(BasicBlock)
	b.resolve(in, pos)
	b.attach(pos, n)

	return frontier{{from: pos, kind: Classic}}
}

func (b *Builder) ifStatement(n *syntax.Node, in frontier) frontier {
	pos := b.newNode(If)
	b.resolve(in, pos)

	thenOut := frontier{{from: pos, kind: True}}
	elseOut := frontier{{from: pos, kind: False}}

	for _, c := range n.Children {
		switch c.Label {
		case syntax.LabelCondition:
			b.attach(pos, c)
		case syntax.LabelThen:
			thenOut = b.statement(c, frontier{{from: pos, kind: True}})
		case syntax.LabelElse:
			elseOut = b.statement(c, frontier{{from: pos, kind: False}})
		}
	}

	out := make(frontier, 0, len(thenOut)+len(elseOut))
	out = append(out, thenOut...)

	return append(out, elseOut...)
}

func (b *Builder) whileStatement(n *syntax.Node, in frontier) frontier {
	pos := b.newNode(While)
	b.resolve(in, pos)

	bodyOut := frontier{{from: pos, kind: True}}
	for _, c := range n.Children {
		switch c.Label {
		case syntax.LabelCondition:
			b.attach(pos, c)
		case syntax.LabelDo:
			bodyOut = b.statement(c, frontier{{from: pos, kind: True}})
		}
	}

	b.resolve(bodyOut, pos)

	return frontier{{from: pos, kind: False}}
}

// repeatStatement loops back while the UNTIL condition holds and leaves
// the loop once it is false.
func (b *Builder) repeatStatement(n *syntax.Node, in frontier) frontier {
	body := b.newNode(BasicBlock)
	b.resolve(in, body)

	out := frontier{{from: body, kind: Classic}}
	var until *syntax.Node
	for _, c := range n.Children {
		switch c.Label {
		case syntax.LabelRepeatablePart:
			out = b.statement(c, out)
		case syntax.LabelUntil:
			until = c
		}
	}

	cond := b.newNode(RepeatCondition)
	b.resolve(out, cond)
	if until != nil {
		b.attach(cond, until)
	}
	b.link(cond, body, True)

	return frontier{{from: cond, kind: False}}
}

// breakStatement only relabels; the edges still flow into whatever comes
// next.
func breakStatement(in frontier) frontier {
	out := make(frontier, len(in))
	for i, p := range in {
		out[i] = pending{from: p.from, kind: BreakEdge}
	}

	return out
}

func (b *Builder) attach(pos int, n *syntax.Node) {
	stmt := optree.Normalize(n)
	if stmt == nil {
		return
	}

	node := b.graph.Nodes[pos]
	node.Stmts = append(node.Stmts, stmt)
}

func (b *Builder) newNode(kind NodeKind) int {
	n := &Node{
		ID:          b.nextID,
		Kind:        kind,
		Default:     NoNode,
		Conditional: NoNode,
	}
	b.nextID++

	b.graph.Nodes = append(b.graph.Nodes, n)
	slog.Debug("CFGNode", "ID", n.ID, "Kind", kind.String())

	return len(b.graph.Nodes) - 1
}

func (b *Builder) resolve(in frontier, target int) {
	for _, p := range in {
		b.link(p.from, target, p.kind)
	}
}

func (b *Builder) link(from, to int, kind EdgeKind) {
	n := b.graph.Nodes[from]
	if kind == True {
		n.Conditional = to
	} else {
		n.Default = to
	}

	b.graph.Edges = append(b.graph.Edges, Edge{From: from, To: to, Kind: kind})
	slog.Debug("CFGEdge", "From", from, "To", to, "Kind", kind.String())
}
