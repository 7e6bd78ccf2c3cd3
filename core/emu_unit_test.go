package core

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/iREALLYhateGit/MyCompiler/codegen"
	"github.com/iREALLYhateGit/MyCompiler/program"
)

func in(m string, ops ...string) codegen.Instruction {
	return codegen.Instruction{Mnemonic: m, Operands: ops}
}

var _ = Describe("InstEmulator", func() {
	var (
		ie instEmulator
		s  coreState
	)

	BeforeEach(func() {
		ie = newInstEmulator(program.Default())
		s = coreState{
			Slots: make([]int32, 4),
		}
	})

	Context("Stack Instructions", func() {
		It("should push immediates", func() {
			Expect(ie.RunInst(in("pushi", "-5"), &s)).To(Succeed())
			Expect(ie.RunInst(in("pushb", "1"), &s)).To(Succeed())
			Expect(s.Stack).To(Equal([]int32{-5, 1}))
			Expect(s.PC).To(Equal(2))
		})

		It("should load and store slots", func() {
			s.Slots[2] = 9
			Expect(ie.RunInst(in("ldg", "2"), &s)).To(Succeed())
			Expect(ie.RunInst(in("stg", "0"), &s)).To(Succeed())
			Expect(s.Slots[0]).To(Equal(int32(9)))
			Expect(s.Stack).To(BeEmpty())
		})

		It("should reject slots out of range", func() {
			err := ie.RunInst(in("ldg", "4"), &s)
			Expect(err).To(MatchError(ErrBadOperand))
		})

		It("should reject a non-numeric operand", func() {
			err := ie.RunInst(in("pushi", "?"), &s)
			Expect(err).To(MatchError(ErrBadOperand))
		})

		It("should fail to pop an empty stack", func() {
			Expect(ie.RunInst(in("pop"), &s)).To(MatchError(ErrStackUnderflow))
			Expect(ie.RunInst(in("stg", "0"), &s)).To(MatchError(ErrStackUnderflow))
		})
	})

	Context("Arithmetic Instructions", func() {
		It("should subtract in operand order", func() {
			s.Stack = []int32{10, 3}
			Expect(ie.RunInst(in("sub"), &s)).To(Succeed())
			Expect(s.Stack).To(Equal([]int32{7}))
			Expect(s.PC).To(Equal(1))
		})

		It("should compare", func() {
			s.Stack = []int32{2, 3}
			Expect(ie.RunInst(in("lt"), &s)).To(Succeed())
			Expect(s.Stack).To(Equal([]int32{1}))
		})

		It("should fault on division by zero", func() {
			s.Stack = []int32{1, 0}
			Expect(ie.RunInst(in("div"), &s)).To(MatchError(ErrDivideByZero))
			s.Stack = []int32{1, 0}
			Expect(ie.RunInst(in("mod"), &s)).To(MatchError(ErrDivideByZero))
		})

		It("should need two operands", func() {
			s.Stack = []int32{1}
			Expect(ie.RunInst(in("add"), &s)).To(MatchError(ErrStackUnderflow))
		})

		It("should refuse unknown mnemonics", func() {
			Expect(ie.RunInst(in("xor"), &s)).To(MatchError(ErrUnknownInst))
		})
	})

	Context("Control Instructions", func() {
		It("should jump", func() {
			Expect(ie.RunInst(in("jmp", "7"), &s)).To(Succeed())
			Expect(s.PC).To(Equal(7))
		})

		It("should take jz on zero only", func() {
			s.Stack = []int32{0}
			Expect(ie.RunInst(in("jz", "5"), &s)).To(Succeed())
			Expect(s.PC).To(Equal(5))

			s.Stack = []int32{3}
			Expect(ie.RunInst(in("jz", "1"), &s)).To(Succeed())
			Expect(s.PC).To(Equal(6))
		})

		It("should take jnz on non-zero only", func() {
			s.Stack = []int32{2}
			Expect(ie.RunInst(in("jnz", "4"), &s)).To(Succeed())
			Expect(s.PC).To(Equal(4))

			s.Stack = []int32{0}
			Expect(ie.RunInst(in("jnz", "0"), &s)).To(Succeed())
			Expect(s.PC).To(Equal(5))
		})

		It("should halt without moving", func() {
			s.PC = 3
			Expect(ie.RunInst(in("halt"), &s)).To(Succeed())
			Expect(s.Halted).To(BeTrue())
			Expect(s.PC).To(Equal(3))
		})
	})

	Context("I/O Instructions", func() {
		var bank *PortBank

		BeforeEach(func() {
			bank = NewPortBank()
			s.IO = bank
		})

		It("should select a port from an immediate or the stack", func() {
			Expect(ie.RunInst(in("setport", "3"), &s)).To(Succeed())
			Expect(s.Port).To(Equal(int32(3)))

			s.Stack = []int32{8}
			Expect(ie.RunInst(in("setport"), &s)).To(Succeed())
			Expect(s.Port).To(Equal(int32(8)))
			Expect(s.Stack).To(BeEmpty())
		})

		It("should read and write the current port", func() {
			bank.Feed(2, 11)
			s.Port = 2

			Expect(ie.RunInst(in("in"), &s)).To(Succeed())
			Expect(ie.RunInst(in("out"), &s)).To(Succeed())
			Expect(bank.Output(2)).To(Equal([]int32{11}))
		})

		It("should fail when a port runs dry", func() {
			Expect(ie.RunInst(in("in"), &s)).To(MatchError(ErrNoInput))
		})

		It("should fail without a device", func() {
			s.IO = nil
			s.Stack = []int32{1}
			Expect(ie.RunInst(in("out"), &s)).To(MatchError(ErrNoDevice))
		})
	})
})
