// Package api is the compiler driver. It turns parsed subprograms into
// control-flow graphs, generates images from them and runs those images on
// the reference machine.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"golang.org/x/sync/errgroup"

	"github.com/iREALLYhateGit/MyCompiler/cfg"
	"github.com/iREALLYhateGit/MyCompiler/codegen"
	"github.com/iREALLYhateGit/MyCompiler/config"
	"github.com/iREALLYhateGit/MyCompiler/core"
	"github.com/iREALLYhateGit/MyCompiler/syntax"
	"github.com/iREALLYhateGit/MyCompiler/verify"
)

var (
	// ErrNoBody is returned for a subprogram without a body tree.
	ErrNoBody = errors.New("subprogram has no body")

	// ErrNoImage is returned when executing a result that carries no image.
	ErrNoImage = errors.New("result has no image")
)

// Driver provides the interface to compile and run subprograms.
type Driver interface {
	// Compile builds the graph and the image of one subprogram and lints
	// both. When generation fails the partial result is still returned.
	Compile(sub syntax.Subprogram) (*Result, error)

	// CompileAll compiles subprograms concurrently. Results keep the input
	// order; a nil entry means that subprogram was never compiled.
	CompileAll(ctx context.Context, subs []syntax.Subprogram) ([]*Result, error)

	// Execute runs a compiled image on a fresh reference machine. args
	// preset the leading slots, which hold the parameters.
	Execute(res *Result, args ...int32) (core.Snapshot, error)

	// Listing prints the image of a result.
	Listing(res *Result) (string, error)
}

// Result is everything produced for one subprogram.
type Result struct {
	Name   string
	Graph  *cfg.Graph
	Image  *codegen.Image
	Issues []verify.Issue
}

type driverImpl struct {
	name string
	cfg  config.Config
	io   core.IODevice
}

func (d *driverImpl) Compile(sub syntax.Subprogram) (*Result, error) {
	if sub.Body == nil {
		return nil, fmt.Errorf("%s: %w", sub.Name, ErrNoBody)
	}

	res := &Result{Name: sub.Name}
	res.Graph = cfg.NewBuilder().Build(sub.Body)

	gen := codegen.NewGeneratorBuilder().
		WithTypeSizes(d.cfg.TypeSizes).
		Build()

	img, err := gen.Generate(codegen.Subprogram{
		Name:   sub.Name,
		Params: sub.Params,
		Locals: sub.Locals,
		Graph:  res.Graph,
	})
	res.Image = img
	res.Issues = verify.RunLint(res.Graph, img)

	slog.Debug("Compile",
		"Driver", d.name,
		"Subprogram", sub.Name,
		"Nodes", len(res.Graph.Nodes),
		"Issues", len(res.Issues),
	)

	return res, err
}

func (d *driverImpl) CompileAll(
	ctx context.Context,
	subs []syntax.Subprogram,
) ([]*Result, error) {
	results := make([]*Result, len(subs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Concurrency)

	for i, sub := range subs {
		i, sub := i, sub
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := d.Compile(sub)
			results[i] = res

			return err
		})
	}

	return results, g.Wait()
}

func (d *driverImpl) Execute(res *Result, args ...int32) (core.Snapshot, error) {
	if res == nil || res.Image == nil {
		return core.Snapshot{}, ErrNoImage
	}

	engine := sim.NewSerialEngine()
	c := core.NewBuilder().
		WithEngine(engine).
		WithFreq(sim.Freq(d.cfg.FreqGHz) * sim.GHz).
		WithIODevice(d.io).
		WithMaxInstructions(d.cfg.MaxInstructions).
		Build(d.name + ".Core")

	c.MapProgram(res.Image)
	for i, v := range args {
		if err := c.SetSlot(i, v); err != nil {
			return c.Snapshot(), fmt.Errorf("%s: argument %d: %w", res.Name, i, err)
		}
	}

	slog.Debug("Execute",
		"Driver", d.name,
		"Subprogram", res.Name,
		"Args", len(args),
	)

	c.Start()
	if err := engine.Run(); err != nil {
		return c.Snapshot(), err
	}

	if err := c.Err(); err != nil {
		return c.Snapshot(), fmt.Errorf("%s: %w", res.Name, err)
	}

	return c.Snapshot(), nil
}

func (d *driverImpl) Listing(res *Result) (string, error) {
	if res == nil || res.Image == nil {
		return "", ErrNoImage
	}

	entry := d.cfg.EntryLabel
	if entry == "" {
		entry = res.Name
	}

	return codegen.Listing(res.Image, entry), nil
}
