package core

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/iREALLYhateGit/MyCompiler/program"
)

// Builder can create new cores.
type Builder struct {
	engine          sim.Engine
	freq            sim.Freq
	io              IODevice
	isa             *program.ISA
	maxInstructions uint64
}

// NewBuilder creates a builder with a 1 GHz clock and the default ISA.
func NewBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
		isa:  program.Default(),
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the core.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	if freq <= 0 {
		panic("frequency must be positive")
	}
	b.freq = freq
	return b
}

// WithIODevice attaches the device in and out talk to.
func (b Builder) WithIODevice(io IODevice) Builder {
	b.io = io
	return b
}

// WithISA sets the instruction set whose behaviors the core executes.
func (b Builder) WithISA(isa *program.ISA) Builder {
	b.isa = isa
	return b
}

// WithMaxInstructions stops the core with ErrInstructionLimit after n
// retired instructions. Zero means no limit.
func (b Builder) WithMaxInstructions(n uint64) Builder {
	b.maxInstructions = n
	return b
}

// Build creates a core.
func (b Builder) Build(name string) *Core {
	c := &Core{
		emu:             newInstEmulator(b.isa),
		maxInstructions: b.maxInstructions,
	}

	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)
	c.state = coreState{IO: b.io}

	return c
}
