package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/iREALLYhateGit/MyCompiler/api"
	"github.com/iREALLYhateGit/MyCompiler/config"
	"github.com/iREALLYhateGit/MyCompiler/core"
	"github.com/iREALLYhateGit/MyCompiler/syntax"
)

//go:embed program.yaml
var programYAML []byte

//go:embed config.yaml
var configYAML []byte

var args = map[string][]int32{
	"gcd":     {84, 36},
	"collatz": {27},
}

func run(ctx context.Context) error {
	cfg, err := config.Parse(configYAML)
	if err != nil {
		return err
	}
	if err := config.SetupLogging(cfg); err != nil {
		return err
	}

	doc, err := syntax.ParseDocument(programYAML)
	if err != nil {
		return err
	}

	driver := api.NewDriverBuilder().WithConfig(cfg).Build("Driver")

	results, err := driver.CompileAll(ctx, doc.Subprograms)
	if err != nil {
		return err
	}

	for _, res := range results {
		listing, err := driver.Listing(res)
		if err != nil {
			return err
		}
		fmt.Print(listing)

		for _, issue := range res.Issues {
			fmt.Printf("  %s: %s\n", issue.Type, issue.Message)
		}

		bank := core.NewPortBank()
		runner := api.NewDriverBuilder().
			WithConfig(cfg).
			WithIODevice(bank).
			Build("Runner")

		state, err := runner.Execute(res, args[res.Name]...)
		if err != nil {
			return err
		}

		fmt.Printf("%s%v = %v after %d instructions\n\n",
			res.Name, args[res.Name], bank.Output(0), state.Retired)
	}

	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
