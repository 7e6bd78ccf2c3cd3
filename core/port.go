package core

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoInput is returned when a port has nothing left to read.
var ErrNoInput = errors.New("no input available")

// IODevice is what the in and out instructions talk to. The port is the
// one most recently selected with setport.
type IODevice interface {
	Read(port int32) (int32, error)
	Write(port int32, value int32) error
}

// PortBank is an in-memory IODevice with an input queue and an output log
// per port.
type PortBank struct {
	inputs  map[int32][]int32
	outputs map[int32][]int32
}

// NewPortBank creates an empty PortBank.
func NewPortBank() *PortBank {
	return &PortBank{
		inputs:  make(map[int32][]int32),
		outputs: make(map[int32][]int32),
	}
}

// Feed queues values to be read from port.
func (b *PortBank) Feed(port int32, values ...int32) {
	b.inputs[port] = append(b.inputs[port], values...)
}

// Read pops the next queued value of port.
func (b *PortBank) Read(port int32) (int32, error) {
	queue := b.inputs[port]
	if len(queue) == 0 {
		return 0, fmt.Errorf("port %d: %w", port, ErrNoInput)
	}

	b.inputs[port] = queue[1:]

	return queue[0], nil
}

// Write appends value to the output log of port.
func (b *PortBank) Write(port int32, value int32) error {
	b.outputs[port] = append(b.outputs[port], value)
	return nil
}

// Output returns everything written to port so far.
func (b *PortBank) Output(port int32) []int32 {
	return b.outputs[port]
}

// Ports lists the ports that received output, in ascending order.
func (b *PortBank) Ports() []int32 {
	ports := make([]int32, 0, len(b.outputs))
	for p := range b.outputs {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })

	return ports
}
