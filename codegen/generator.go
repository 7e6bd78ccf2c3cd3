package codegen

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/iREALLYhateGit/MyCompiler/cfg"
	"github.com/iREALLYhateGit/MyCompiler/optree"
	"github.com/iREALLYhateGit/MyCompiler/program"
)

var (
	// ErrNoGraph is returned for a subprogram without a graph.
	ErrNoGraph = errors.New("subprogram has no control-flow graph")
	// ErrUnresolvedTarget is returned when a jump points at a node that was
	// never emitted. The jump is patched to 0.
	ErrUnresolvedTarget = errors.New("jump target has no start index")
)

var binaryMnemonics = map[optree.Kind]string{
	optree.Add: program.Add,
	optree.Sub: program.Sub,
	optree.Mul: program.Mul,
	optree.Div: program.Div,
	optree.Mod: program.Mod,
	optree.And: program.And,
	optree.Or:  program.Or,
	optree.Eq:  program.Eq,
	optree.Ne:  program.Ne,
	optree.Lt:  program.Lt,
	optree.Le:  program.Le,
	optree.Gt:  program.Gt,
	optree.Ge:  program.Ge,
}

// Intrinsic call names.
const (
	IntrinsicOut     = "out"
	IntrinsicIn      = "in"
	IntrinsicSetPort = "setport"
)

// GeneratorBuilder can create generators.
type GeneratorBuilder struct {
	typeSizes map[string]int
}

// NewGeneratorBuilder creates a builder with the built-in type table.
func NewGeneratorBuilder() GeneratorBuilder {
	return GeneratorBuilder{}
}

// WithTypeSizes overrides slot widths per type name.
func (b GeneratorBuilder) WithTypeSizes(sizes map[string]int) GeneratorBuilder {
	b.typeSizes = sizes
	return b
}

// Build creates a generator.
func (b GeneratorBuilder) Build() *Generator {
	sizes := make(map[string]int, len(b.typeSizes))
	for k, v := range b.typeSizes {
		sizes[k] = v
	}

	return &Generator{typeSizes: sizes}
}

// Generator lowers graphs into images. It keeps no state between calls and
// may be shared.
type Generator struct {
	typeSizes map[string]int
}

// Generate emits the code of one subprogram in two passes: the first walks
// the nodes in graph order and records where each starts, the second
// patches every jump with the start index of its target.
//
// A returned ErrUnresolvedTarget comes with a complete image.
func (g *Generator) Generate(sub Subprogram) (*Image, error) {
	if sub.Graph == nil {
		return nil, fmt.Errorf("%s: %w", sub.Name, ErrNoGraph)
	}

	e := &emitter{
		img:    &Image{Name: sub.Name},
		slots:  make(map[string]int),
		starts: make([]int, len(sub.Graph.Nodes)),
	}

	for i, v := range sub.Variables() {
		e.img.Data = append(e.img.Data, DataItem{Size: TypeSize(v.Type, g.typeSizes)})
		if _, dup := e.slots[v.Name]; !dup {
			e.slots[v.Name] = i
		}
	}

	for pos, n := range sub.Graph.Nodes {
		e.starts[pos] = len(e.img.Instructions)
		e.node(n)

		slog.Debug("CodegenNode",
			"Subprogram", sub.Name,
			"Pos", pos,
			"Kind", n.Kind.String(),
			"Start", e.starts[pos],
		)
	}

	if err := e.resolve(); err != nil {
		return e.img, fmt.Errorf("%s: %w", sub.Name, err)
	}

	return e.img, nil
}

type patch struct {
	inst   int
	target int
}

type emitter struct {
	img     *Image
	slots   map[string]int
	starts  []int
	patches []patch
}

func (e *emitter) emit(mnemonic string, operands ...string) {
	e.img.Instructions = append(e.img.Instructions,
		Instruction{Mnemonic: mnemonic, Operands: operands})
}

func (e *emitter) jump(mnemonic string, target int) {
	e.patches = append(e.patches, patch{inst: len(e.img.Instructions), target: target})
	e.emit(mnemonic, Placeholder)
}

func (e *emitter) resolve() error {
	var errs []error

	for _, p := range e.patches {
		start := 0
		if p.target >= 0 && p.target < len(e.starts) {
			start = e.starts[p.target]
		} else {
			errs = append(errs, fmt.Errorf("%w: instruction %d targets node %d",
				ErrUnresolvedTarget, p.inst, p.target))
		}

		e.img.Instructions[p.inst].Operands[0] = strconv.Itoa(start)
	}

	return errors.Join(errs...)
}

func (e *emitter) node(n *cfg.Node) {
	switch {
	case n.Kind == cfg.Exit:
		e.emit(program.Halt)
	case n.Kind.IsDecision():
		e.decision(n)
	default:
		e.block(n)
	}
}

// decision emits the condition followed by jz/jmp, jnz or a lone jmp,
// depending on which edge slots are set. A missing condition emits no
// code; the stack checks in verify report any imbalance that leaves.
func (e *emitter) decision(n *cfg.Node) {
	for i, s := range n.Stmts {
		if e.expr(s) && i < len(n.Stmts)-1 {
			e.emit(program.Pop)
		}
	}

	switch {
	case n.HasDefault() && n.HasConditional():
		e.jump(program.Jz, n.Default)
		e.jump(program.Jmp, n.Conditional)
	case n.HasConditional():
		e.jump(program.Jnz, n.Conditional)
	case n.HasDefault():
		e.jump(program.Jmp, n.Default)
	}
}

func (e *emitter) block(n *cfg.Node) {
	for _, s := range n.Stmts {
		if e.expr(s) {
			e.emit(program.Pop)
		}
	}

	switch {
	case n.HasDefault():
		e.jump(program.Jmp, n.Default)
	case n.HasConditional():
		e.jump(program.Jmp, n.Conditional)
	}
}

// value emits n and guarantees exactly one value is left on the stack.
func (e *emitter) value(n *optree.Node) {
	if !e.expr(n) {
		e.emit(program.PushI, "0")
	}
}

// expr emits n and reports whether it left a value on the stack.
func (e *emitter) expr(n *optree.Node) bool {
	if n == nil {
		return false
	}

	if m, ok := binaryMnemonics[n.Kind]; ok {
		e.value(n.Operand(0))
		for i := 1; i < len(n.Operands); i++ {
			e.value(n.Operands[i])
			e.emit(m)
		}
		return true
	}

	switch n.Kind {
	case optree.Literal:
		e.literal(n.Text)
		return true
	case optree.Identifier:
		if slot, ok := e.slots[n.Text]; ok {
			e.emit(program.Ldg, strconv.Itoa(slot))
		} else {
			e.emit(program.PushI, "0")
		}
		return true
	case optree.Assignment:
		e.assignment(n)
		return false
	case optree.Plus:
		e.value(n.Operand(0))
		return true
	case optree.Minus:
		e.emit(program.PushI, "0")
		e.value(n.Operand(0))
		e.emit(program.Sub)
		return true
	case optree.Not:
		e.value(n.Operand(0))
		e.emit(program.PushI, "0")
		e.emit(program.Eq)
		return true
	case optree.Call:
		return e.call(n)
	default:
		return e.sequence(n.Operands)
	}
}

func (e *emitter) literal(text string) {
	v, isBool, ok := literalValue(text)
	if isBool {
		e.emit(program.PushB, strconv.Itoa(int(v)))
		return
	}
	if !ok {
		v = 0
	}

	e.emit(program.PushI, strconv.Itoa(int(v)))
}

func (e *emitter) assignment(n *optree.Node) {
	if len(n.Operands) < 2 {
		e.discard(n.Operands)
		return
	}

	e.value(n.Operands[1])

	target := n.Operands[0]
	if target != nil && target.Kind == optree.Identifier {
		if slot, ok := e.slots[target.Text]; ok {
			e.emit(program.Stg, strconv.Itoa(slot))
			return
		}
	}

	e.emit(program.Pop)
}

func (e *emitter) call(n *optree.Node) bool {
	switch n.Text {
	case IntrinsicOut:
		if len(n.Operands) == 0 {
			e.emit(program.Out)
		}
		for _, op := range n.Operands {
			e.value(op)
			e.emit(program.Out)
		}
		return false
	case IntrinsicIn:
		e.emit(program.In)
		return true
	case IntrinsicSetPort:
		arg := n.Operand(0)
		if arg != nil && arg.Kind == optree.Literal {
			if v, _, ok := literalValue(arg.Text); ok {
				e.emit(program.SetPort, strconv.Itoa(int(v)))
				return false
			}
		}
		e.value(arg)
		e.emit(program.SetPort)
		return false
	default:
		e.discard(n.Operands)
		return false
	}
}

// sequence evaluates every node, keeping only the last residue. An empty
// sequence still produces a zero.
func (e *emitter) sequence(nodes []*optree.Node) bool {
	if len(nodes) == 0 {
		e.emit(program.PushI, "0")
		return true
	}

	has := false
	for i, op := range nodes {
		if i > 0 && has {
			e.emit(program.Pop)
		}
		has = e.expr(op)
	}

	return has
}

func (e *emitter) discard(nodes []*optree.Node) {
	for _, op := range nodes {
		if e.expr(op) {
			e.emit(program.Pop)
		}
	}
}
