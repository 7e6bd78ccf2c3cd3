package core

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/iREALLYhateGit/MyCompiler/codegen"
	"github.com/iREALLYhateGit/MyCompiler/program"
)

// Faults the machine can stop with.
var (
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrDivideByZero     = errors.New("division by zero")
	ErrBadOperand       = errors.New("bad operand")
	ErrUnknownInst      = errors.New("unknown instruction")
	ErrPCOutOfRange     = errors.New("pc out of range")
	ErrInstructionLimit = errors.New("instruction limit reached")
	ErrNoDevice         = errors.New("no I/O device attached")
)

type coreState struct {
	PC      int
	Stack   []int32
	Slots   []int32
	Port    int32
	Code    []codegen.Instruction
	Retired uint64
	Halted  bool

	IO IODevice
}

func (s *coreState) push(v int32) {
	s.Stack = append(s.Stack, v)
}

func (s *coreState) pop() (int32, error) {
	if len(s.Stack) == 0 {
		return 0, ErrStackUnderflow
	}

	v := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]

	return v, nil
}

type instFunc func(inst codegen.Instruction, state *coreState) error

type instEmulator struct {
	isa   *program.ISA
	funcs map[string]instFunc
}

func newInstEmulator(isa *program.ISA) instEmulator {
	i := instEmulator{isa: isa}
	i.funcs = map[string]instFunc{
		program.PushI:   i.runPush,
		program.PushB:   i.runPush,
		program.Ldg:     i.runLoad,
		program.Stg:     i.runStore,
		program.Pop:     i.runPop,
		program.In:      i.runIn,
		program.Out:     i.runOut,
		program.SetPort: i.runSetPort,
		program.Jmp:     i.runJmp,
		program.Jz:      i.runCondJump,
		program.Jnz:     i.runCondJump,
		program.Halt:    func(_ codegen.Instruction, s *coreState) error { s.Halted = true; return nil },
	}

	return i
}

// RunInst executes one instruction and moves the PC.
func (i instEmulator) RunInst(inst codegen.Instruction, state *coreState) error {
	if f, ok := i.funcs[inst.Mnemonic]; ok {
		return f(inst, state)
	}

	if b, ok := i.isa.Binary(inst.Mnemonic); ok {
		return i.runBinary(inst, b, state)
	}

	return fmt.Errorf("%w %q", ErrUnknownInst, inst.Mnemonic)
}

func immediate(inst codegen.Instruction) (int32, error) {
	v, err := strconv.ParseInt(inst.Operand(0), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q for %s", ErrBadOperand, inst.Operand(0), inst.Mnemonic)
	}

	return int32(v), nil
}

func slot(inst codegen.Instruction, state *coreState) (int, error) {
	v, err := immediate(inst)
	if err != nil {
		return 0, err
	}
	if v < 0 || int(v) >= len(state.Slots) {
		return 0, fmt.Errorf("%w: slot %d of %d", ErrBadOperand, v, len(state.Slots))
	}

	return int(v), nil
}

func (i instEmulator) runPush(inst codegen.Instruction, state *coreState) error {
	v, err := immediate(inst)
	if err != nil {
		return err
	}

	state.push(v)
	state.PC++

	return nil
}

func (i instEmulator) runLoad(inst codegen.Instruction, state *coreState) error {
	s, err := slot(inst, state)
	if err != nil {
		return err
	}

	state.push(state.Slots[s])
	state.PC++

	return nil
}

func (i instEmulator) runStore(inst codegen.Instruction, state *coreState) error {
	s, err := slot(inst, state)
	if err != nil {
		return err
	}

	v, err := state.pop()
	if err != nil {
		return err
	}

	state.Slots[s] = v
	state.PC++

	return nil
}

func (i instEmulator) runPop(_ codegen.Instruction, state *coreState) error {
	if _, err := state.pop(); err != nil {
		return err
	}

	state.PC++

	return nil
}

func (i instEmulator) runBinary(
	inst codegen.Instruction,
	behavior program.BinaryBehavior,
	state *coreState,
) error {
	src2, err := state.pop()
	if err != nil {
		return err
	}
	src1, err := state.pop()
	if err != nil {
		return err
	}

	if src2 == 0 && (inst.Mnemonic == program.Div || inst.Mnemonic == program.Mod) {
		return ErrDivideByZero
	}

	state.push(behavior(src1, src2))
	state.PC++

	return nil
}

func (i instEmulator) runIn(_ codegen.Instruction, state *coreState) error {
	if state.IO == nil {
		return ErrNoDevice
	}

	v, err := state.IO.Read(state.Port)
	if err != nil {
		return err
	}

	state.push(v)
	state.PC++

	return nil
}

func (i instEmulator) runOut(_ codegen.Instruction, state *coreState) error {
	if state.IO == nil {
		return ErrNoDevice
	}

	v, err := state.pop()
	if err != nil {
		return err
	}

	if err := state.IO.Write(state.Port, v); err != nil {
		return err
	}

	state.PC++

	return nil
}

func (i instEmulator) runSetPort(inst codegen.Instruction, state *coreState) error {
	var (
		port int32
		err  error
	)

	if len(inst.Operands) > 0 {
		port, err = immediate(inst)
	} else {
		port, err = state.pop()
	}
	if err != nil {
		return err
	}

	state.Port = port
	state.PC++

	return nil
}

func (i instEmulator) runJmp(inst codegen.Instruction, state *coreState) error {
	target, err := immediate(inst)
	if err != nil {
		return err
	}

	state.PC = int(target)

	return nil
}

func (i instEmulator) runCondJump(inst codegen.Instruction, state *coreState) error {
	target, err := immediate(inst)
	if err != nil {
		return err
	}

	v, err := state.pop()
	if err != nil {
		return err
	}

	taken := v == 0
	if inst.Mnemonic == program.Jnz {
		taken = !taken
	}

	if taken {
		state.PC = int(target)
	} else {
		state.PC++
	}

	return nil
}
