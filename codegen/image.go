// Package codegen lowers a control-flow graph into stack-machine code and
// prints the result as an assembly listing.
package codegen

import (
	"strings"

	"github.com/iREALLYhateGit/MyCompiler/cfg"
	"github.com/iREALLYhateGit/MyCompiler/syntax"
)

// Placeholder is the operand a jump carries until its target is patched.
const Placeholder = "?"

// Instruction is one emitted instruction.
type Instruction struct {
	Mnemonic string
	Operands []string
}

// Operand returns the i-th operand or "".
func (i Instruction) Operand(n int) string {
	if n < 0 || n >= len(i.Operands) {
		return ""
	}

	return i.Operands[n]
}

func (i Instruction) String() string {
	if len(i.Operands) == 0 {
		return i.Mnemonic
	}

	return i.Mnemonic + " " + strings.Join(i.Operands, " ")
}

// DataItem is the storage of one variable slot.
type DataItem struct {
	Size int
}

// Image is the generated code of one subprogram.
type Image struct {
	Name         string
	Data         []DataItem
	Instructions []Instruction
}

// Subprogram is everything the generator needs to know about one
// subprogram. Variables are numbered params first, then locals.
type Subprogram struct {
	Name   string
	Params []syntax.Variable
	Locals []syntax.Variable
	Graph  *cfg.Graph
}

// Variables returns params followed by locals.
func (s Subprogram) Variables() []syntax.Variable {
	vars := make([]syntax.Variable, 0, len(s.Params)+len(s.Locals))
	vars = append(vars, s.Params...)

	return append(vars, s.Locals...)
}
