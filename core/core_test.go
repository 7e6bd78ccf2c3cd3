package core_test

import (
	"bytes"
	"errors"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/iREALLYhateGit/MyCompiler/codegen"
	"github.com/iREALLYhateGit/MyCompiler/core"
)

func image(data int, insts ...string) *codegen.Image {
	img := &codegen.Image{Name: "test", Data: make([]codegen.DataItem, data)}
	for _, s := range insts {
		var m string
		var ops []string
		for i, f := range bytes.Fields([]byte(s)) {
			if i == 0 {
				m = string(f)
			} else {
				ops = append(ops, string(f))
			}
		}
		img.Instructions = append(img.Instructions, codegen.Instruction{Mnemonic: m, Operands: ops})
	}
	return img
}

var _ = Describe("Core", func() {
	var (
		mockCtrl *gomock.Controller
		engine   sim.Engine
		dev      *MockIODevice
		c        *core.Core
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = sim.NewSerialEngine()
		dev = NewMockIODevice(mockCtrl)
		c = core.NewBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithIODevice(dev).
			WithMaxInstructions(1000).
			Build("Core")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	run := func(img *codegen.Image) {
		c.MapProgram(img)
		c.Start()
		Expect(engine.Run()).To(Succeed())
	}

	It("should run a counting loop to completion", func() {
		// i = 0; while (i < 3) i = i + 1
		run(image(1,
			"pushi 0", "stg 0",
			"ldg 0", "pushi 3", "lt", "jz 11",
			"ldg 0", "pushi 1", "add", "stg 0", "jmp 2",
			"halt"))

		Expect(c.Err()).NotTo(HaveOccurred())
		Expect(c.Halted()).To(BeTrue())

		s := c.Snapshot()
		Expect(s.Slots).To(Equal([]int32{3}))
		Expect(s.Stack).To(BeEmpty())
		Expect(s.PC).To(Equal(11))
	})

	It("should route in and out through the device", func() {
		gomock.InOrder(
			dev.EXPECT().Read(int32(4)).Return(int32(20), nil),
			dev.EXPECT().Write(int32(4), int32(21)).Return(nil),
		)

		run(image(0, "setport 4", "in", "pushi 1", "add", "out", "halt"))

		Expect(c.Err()).NotTo(HaveOccurred())
	})

	It("should stop with the device error", func() {
		boom := errors.New("device unplugged")
		dev.EXPECT().Read(int32(0)).Return(int32(0), boom)

		run(image(0, "in", "halt"))

		Expect(errors.Is(c.Err(), boom)).To(BeTrue())
		Expect(c.Halted()).To(BeFalse())
	})

	It("should stop an endless loop at the instruction limit", func() {
		run(image(0, "jmp 0"))

		Expect(errors.Is(c.Err(), core.ErrInstructionLimit)).To(BeTrue())
		Expect(c.Snapshot().Retired).To(Equal(uint64(1000)))
	})

	It("should fault when running off the end", func() {
		run(image(0, "pushi 1", "pop"))

		Expect(errors.Is(c.Err(), core.ErrPCOutOfRange)).To(BeTrue())
	})

	It("should fault on division by zero", func() {
		run(image(0, "pushi 1", "pushi 0", "div", "halt"))

		Expect(errors.Is(c.Err(), core.ErrDivideByZero)).To(BeTrue())
		Expect(c.Snapshot().PC).To(Equal(2))
	})

	It("should start from preset slots", func() {
		c.MapProgram(image(2, "ldg 0", "ldg 1", "mul", "stg 0", "halt"))
		Expect(c.SetSlot(0, 6)).To(Succeed())
		Expect(c.SetSlot(1, 7)).To(Succeed())
		Expect(c.SetSlot(2, 1)).To(MatchError(core.ErrBadOperand))

		c.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(c.Snapshot().Slots).To(Equal([]int32{42, 7}))
	})

	It("should print its state", func() {
		run(image(1, "pushi 5", "stg 0", "pushi 2", "halt"))

		var buf bytes.Buffer
		core.PrintState(&buf, c.Snapshot())

		Expect(buf.String()).To(ContainSubstring("Machine State"))
		Expect(buf.String()).To(ContainSubstring("Slots"))
	})
})

var _ = Describe("PortBank", func() {
	It("should hand out queued values in order", func() {
		bank := core.NewPortBank()
		bank.Feed(1, 5, 6)

		v, err := bank.Read(1)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int32(5)))

		v, _ = bank.Read(1)
		Expect(v).To(Equal(int32(6)))

		_, err = bank.Read(1)
		Expect(err).To(MatchError(core.ErrNoInput))
	})

	It("should list written ports in order", func() {
		bank := core.NewPortBank()
		Expect(bank.Write(9, 1)).To(Succeed())
		Expect(bank.Write(2, 1)).To(Succeed())

		Expect(bank.Ports()).To(Equal([]int32{2, 9}))
		Expect(bank.Output(3)).To(BeEmpty())
	})
})
