package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/iREALLYhateGit/MyCompiler/api"
	"github.com/iREALLYhateGit/MyCompiler/codegen"
	"github.com/iREALLYhateGit/MyCompiler/config"
	"github.com/iREALLYhateGit/MyCompiler/core"
	"github.com/iREALLYhateGit/MyCompiler/syntax"
	"github.com/iREALLYhateGit/MyCompiler/verify"
)

//go:embed program.yaml
var programYAML []byte

func countdown(driver api.Driver, bank *core.PortBank, sub syntax.Subprogram) error {
	res, err := driver.Compile(sub)
	if err != nil {
		return err
	}

	if err := codegen.Fprint(os.Stdout, res.Image, res.Name); err != nil {
		return err
	}

	report := verify.GenerateReport(res.Name, res.Graph, res.Image,
		map[int32][]int32{1: {5}}, 10_000)
	report.WriteReport(os.Stdout)

	bank.Feed(1, 5)
	state, err := driver.Execute(res)
	if err != nil {
		return err
	}

	core.PrintState(os.Stdout, state)
	fmt.Println(bank.Output(1))

	return nil
}

func main() {
	cfg := config.Default()
	if err := config.SetupLogging(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	doc, err := syntax.ParseDocument(programYAML)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	bank := core.NewPortBank()
	driver := api.NewDriverBuilder().
		WithConfig(cfg).
		WithIODevice(bank).
		Build("Driver")

	if err := countdown(driver, bank, doc.Subprograms[0]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
