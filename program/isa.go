// Package program describes the stack-machine instruction set: mnemonic
// names, stack effects, jump flags and the arithmetic behavior of the
// value-producing instructions.
package program

// Mnemonics.
const (
	PushI   = "pushi"
	PushB   = "pushb"
	Ldg     = "ldg"
	Stg     = "stg"
	Add     = "add"
	Sub     = "sub"
	Mul     = "mul"
	Div     = "div"
	Mod     = "mod"
	And     = "and"
	Or      = "or"
	Eq      = "eq"
	Ne      = "ne"
	Lt      = "lt"
	Le      = "le"
	Gt      = "gt"
	Ge      = "ge"
	Pop     = "pop"
	In      = "in"
	Out     = "out"
	SetPort = "setport"
	Jmp     = "jmp"
	Jz      = "jz"
	Jnz     = "jnz"
	Halt    = "halt"
)

// Op describes one instruction.
type Op struct {
	Name string

	// Pops and Pushes give the stack effect when the instruction carries
	// MinOperands operands.
	Pops   int
	Pushes int

	MinOperands int
	MaxOperands int

	// Jump is set when the single operand is an instruction index.
	Jump bool
	// Conditional jumps may fall through.
	Conditional bool
	// Stops marks instructions that never fall through to the next one.
	Stops bool

	// FoldsOperand is set when an immediate operand replaces one popped
	// value.
	FoldsOperand bool
}

// StackEffect returns how many values the instruction pops and pushes when
// it carries n operands.
func (o Op) StackEffect(n int) (pops, pushes int) {
	pops = o.Pops
	if o.FoldsOperand && n > 0 && pops > 0 {
		pops--
	}

	return pops, o.Pushes
}

// BinaryBehavior computes the result of a two-operand instruction.
type BinaryBehavior func(src1, src2 int32) int32

// ISA is a struct that represents an Instruction Set Architecture.
type ISA struct {
	// name of the ISA.
	isaName string
	// map from instruction name to its description.
	nameToOp map[string]Op
	// map from instruction name to the behavior of the instruction.
	nameToBehavior map[string]interface{}
}

// NewISA creates an empty ISA.
func NewISA(name string) *ISA {
	return &ISA{
		isaName:        name,
		nameToOp:       make(map[string]Op),
		nameToBehavior: make(map[string]interface{}),
	}
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

// Register a new instruction to the ISA. behavior may be nil for
// instructions the machine implements itself.
func (isa *ISA) registerNewInst(op Op, behavior interface{}) {
	isa.nameToOp[op.Name] = op
	if behavior != nil {
		isa.nameToBehavior[op.Name] = behavior
	}
}

// Lookup returns the description of an instruction.
func (isa *ISA) Lookup(name string) (Op, bool) {
	op, ok := isa.nameToOp[name]
	return op, ok
}

// Binary returns the behavior of a two-operand instruction.
func (isa *ISA) Binary(name string) (BinaryBehavior, bool) {
	b, ok := isa.nameToBehavior[name].(func(int32, int32) int32)
	if !ok {
		return nil, false
	}

	return b, true
}

// Names lists every registered mnemonic.
func (isa *ISA) Names() []string {
	names := make([]string, 0, len(isa.nameToOp))
	for name := range isa.nameToOp {
		names = append(names, name)
	}

	return names
}

var defaultISA = NewISA("Stack Machine ISA")

func init() {
	defaultISAinit()
}

// Default returns the instruction set the code generator targets.
func Default() *ISA {
	return defaultISA
}

// IsJump reports whether name takes an instruction index operand.
func IsJump(name string) bool {
	op, ok := defaultISA.Lookup(name)
	return ok && op.Jump
}

func binaryOp(name string) Op {
	return Op{Name: name, Pops: 2, Pushes: 1}
}

func defaultISAinit() {
	defaultISA.registerNewInst(Op{Name: PushI, Pushes: 1, MinOperands: 1, MaxOperands: 1}, nil)
	defaultISA.registerNewInst(Op{Name: PushB, Pushes: 1, MinOperands: 1, MaxOperands: 1}, nil)
	defaultISA.registerNewInst(Op{Name: Ldg, Pushes: 1, MinOperands: 1, MaxOperands: 1}, nil)
	defaultISA.registerNewInst(Op{Name: Stg, Pops: 1, MinOperands: 1, MaxOperands: 1}, nil)
	defaultISA.registerNewInst(Op{Name: Pop, Pops: 1}, nil)
	defaultISA.registerNewInst(Op{Name: In, Pushes: 1}, nil)
	defaultISA.registerNewInst(Op{Name: Out, Pops: 1}, nil)
	defaultISA.registerNewInst(Op{Name: SetPort, Pops: 1, MaxOperands: 1, FoldsOperand: true}, nil)
	defaultISA.registerNewInst(Op{Name: Jmp, MinOperands: 1, MaxOperands: 1, Jump: true, Stops: true}, nil)
	defaultISA.registerNewInst(Op{Name: Jz, Pops: 1, MinOperands: 1, MaxOperands: 1, Jump: true, Conditional: true}, nil)
	defaultISA.registerNewInst(Op{Name: Jnz, Pops: 1, MinOperands: 1, MaxOperands: 1, Jump: true, Conditional: true}, nil)
	defaultISA.registerNewInst(Op{Name: Halt, Stops: true}, nil)

	defaultISA.registerNewInst(binaryOp(Add), instADD)
	defaultISA.registerNewInst(binaryOp(Sub), instSUB)
	defaultISA.registerNewInst(binaryOp(Mul), instMUL)
	defaultISA.registerNewInst(binaryOp(Div), instDIV)
	defaultISA.registerNewInst(binaryOp(Mod), instMOD)
	defaultISA.registerNewInst(binaryOp(And), instAND)
	defaultISA.registerNewInst(binaryOp(Or), instOR)
	defaultISA.registerNewInst(binaryOp(Eq), instEQ)
	defaultISA.registerNewInst(binaryOp(Ne), instNE)
	defaultISA.registerNewInst(binaryOp(Lt), instLT)
	defaultISA.registerNewInst(binaryOp(Le), instLE)
	defaultISA.registerNewInst(binaryOp(Gt), instGT)
	defaultISA.registerNewInst(binaryOp(Ge), instGE)
}
