package verify

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/iREALLYhateGit/MyCompiler/codegen"
	"github.com/iREALLYhateGit/MyCompiler/core"
)

// SimulationResult is the outcome of a functional simulation.
type SimulationResult struct {
	Final core.Snapshot
	Ports *core.PortBank
	Err   error
}

// Simulate runs img on a fresh reference machine. inputs are queued on
// the port bank before the run; maxSteps bounds the number of retired
// instructions (0 means unbounded).
func Simulate(img *codegen.Image, inputs map[int32][]int32, maxSteps uint64) SimulationResult {
	bank := core.NewPortBank()
	for port, values := range inputs {
		bank.Feed(port, values...)
	}

	engine := sim.NewSerialEngine()
	c := core.NewBuilder().
		WithEngine(engine).
		WithIODevice(bank).
		WithMaxInstructions(maxSteps).
		Build("FuncSim.Core")

	c.MapProgram(img)
	c.Start()

	res := SimulationResult{Ports: bank}
	if err := engine.Run(); err != nil {
		res.Err = err
	} else {
		res.Err = c.Err()
	}
	res.Final = c.Snapshot()

	return res
}
