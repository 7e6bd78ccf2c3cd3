// Package core is a reference stack machine that executes generated images
// one instruction per tick on an akita engine.
package core

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/iREALLYhateGit/MyCompiler/codegen"
)

// Core runs one image.
type Core struct {
	*sim.TickingComponent

	state coreState
	emu   instEmulator
	err   error

	maxInstructions uint64
}

// Snapshot is a copy of the architectural state.
type Snapshot struct {
	PC      int
	Stack   []int32
	Slots   []int32
	Port    int32
	Retired uint64
	Halted  bool
}

// MapProgram loads an image and resets the machine. Every data item gets
// one zeroed slot.
func (c *Core) MapProgram(img *codegen.Image) {
	c.state.Code = img.Instructions
	c.state.Slots = make([]int32, len(img.Data))
	c.state.Stack = c.state.Stack[:0]
	c.state.PC = 0
	c.state.Port = 0
	c.state.Retired = 0
	c.state.Halted = false
	c.err = nil

	Trace("MapProgram",
		"Core", c.Name(),
		"Image", img.Name,
		"Instructions", len(img.Instructions),
		"Slots", len(img.Data),
	)
}

// SetSlot presets a variable, typically a parameter.
func (c *Core) SetSlot(i int, v int32) error {
	if i < 0 || i >= len(c.state.Slots) {
		return fmt.Errorf("%w: slot %d of %d", ErrBadOperand, i, len(c.state.Slots))
	}

	c.state.Slots[i] = v

	return nil
}

// Start schedules the first tick.
func (c *Core) Start() {
	c.TickNow()
}

// Halted reports whether the image executed halt.
func (c *Core) Halted() bool {
	return c.state.Halted
}

// Err returns the fault that stopped the core, if any.
func (c *Core) Err() error {
	return c.err
}

// Snapshot copies the current state.
func (c *Core) Snapshot() Snapshot {
	return Snapshot{
		PC:      c.state.PC,
		Stack:   append([]int32(nil), c.state.Stack...),
		Slots:   append([]int32(nil), c.state.Slots...),
		Port:    c.state.Port,
		Retired: c.state.Retired,
		Halted:  c.state.Halted,
	}
}

// Tick runs the core for one cycle.
func (c *Core) Tick() (madeProgress bool) {
	if c.state.Halted || c.err != nil {
		return false
	}

	if c.maxInstructions > 0 && c.state.Retired >= c.maxInstructions {
		c.fault(ErrInstructionLimit)
		return false
	}

	if c.state.PC < 0 || c.state.PC >= len(c.state.Code) {
		c.fault(fmt.Errorf("%w: %d", ErrPCOutOfRange, c.state.PC))
		return false
	}

	pc := c.state.PC
	inst := c.state.Code[pc]

	Trace("Inst",
		"Core", c.Name(),
		"Time", float64(c.Engine.CurrentTime()*1e9),
		"PC", pc,
		"Inst", inst.String(),
		"Depth", len(c.state.Stack),
	)

	if err := c.emu.RunInst(inst, &c.state); err != nil {
		c.fault(fmt.Errorf("pc %d (%s): %w", pc, inst, err))
		return false
	}

	c.state.Retired++

	return true
}

func (c *Core) fault(err error) {
	c.err = err
	Trace("Fault", "Core", c.Name(), "Error", err.Error())
}
