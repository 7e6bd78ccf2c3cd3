package verify

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/iREALLYhateGit/MyCompiler/cfg"
	"github.com/iREALLYhateGit/MyCompiler/codegen"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Name             string
	NodeCount        int
	InstructionCount int
	MaxStackDepth    int

	LintIssues   []Issue
	StructIssues []Issue
	JumpIssues   []Issue
	StackIssues  []Issue

	Simulated     bool
	SimulationOK  bool
	SimulationErr error
	Simulation    SimulationResult
}

// GenerateReport runs lint and, when the image lints clean, a functional
// simulation. maxSimSteps of 0 skips the simulation.
func GenerateReport(
	name string,
	g *cfg.Graph,
	img *codegen.Image,
	inputs map[int32][]int32,
	maxSimSteps uint64,
) *VerificationReport {
	report := &VerificationReport{Name: name}

	if g != nil {
		report.NodeCount = len(g.Nodes)
	}
	if img != nil {
		report.InstructionCount = len(img.Instructions)
	}

	report.LintIssues = RunLint(g, img)
	for _, issue := range report.LintIssues {
		switch issue.Type {
		case IssueStruct:
			report.StructIssues = append(report.StructIssues, issue)
		case IssueJump:
			report.JumpIssues = append(report.JumpIssues, issue)
		case IssueStack:
			report.StackIssues = append(report.StackIssues, issue)
		}
	}

	if img == nil || len(report.StructIssues)+len(report.JumpIssues) > 0 {
		return report
	}

	_, report.MaxStackDepth, _ = StackDepths(img)

	if maxSimSteps == 0 {
		return report
	}

	report.Simulated = true
	report.Simulation = Simulate(img, inputs, maxSimSteps)
	report.SimulationErr = report.Simulation.Err
	report.SimulationOK = report.SimulationErr == nil

	return report
}

// Clean reports whether lint found nothing and any simulation succeeded.
func (r *VerificationReport) Clean() bool {
	return len(r.LintIssues) == 0 && (!r.Simulated || r.SimulationOK)
}

func location(issue Issue) string {
	switch {
	case issue.Inst != NoLocation:
		return fmt.Sprintf("inst %d", issue.Inst)
	case issue.Node != NoLocation:
		return fmt.Sprintf("node %d", issue.Node)
	default:
		return "-"
	}
}

func details(issue Issue) string {
	keys := make([]string, 0, len(issue.Details))
	for k := range issue.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, issue.Details[k]))
	}

	return strings.Join(parts, " ")
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "VERIFICATION REPORT: %s\n", r.Name)
	fmt.Fprintln(w, separator)

	summary := table.NewWriter()
	summary.SetOutputMirror(w)
	summary.SetTitle("Summary")
	summary.AppendHeader(table.Row{"Nodes", "Instructions", "Max Depth", "STRUCT", "JUMP", "STACK"})
	summary.AppendRow(table.Row{
		r.NodeCount, r.InstructionCount, r.MaxStackDepth,
		len(r.StructIssues), len(r.JumpIssues), len(r.StackIssues),
	})
	summary.Render()

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		issues := table.NewWriter()
		issues.SetOutputMirror(w)
		issues.SetTitle(fmt.Sprintf("Lint Issues (%d)", len(r.LintIssues)))
		issues.AppendHeader(table.Row{"#", "Type", "Location", "Message", "Details"})
		for i, issue := range r.LintIssues {
			issues.AppendRow(table.Row{i + 1, issue.Type, location(issue), issue.Message, details(issue)})
		}
		issues.Render()
	}

	switch {
	case !r.Simulated:
		fmt.Fprintln(w, "- Simulation skipped")
	case r.SimulationOK:
		fmt.Fprintf(w, "✓ Simulation halted after %d instructions\n", r.Simulation.Final.Retired)
		for _, port := range r.Simulation.Ports.Ports() {
			fmt.Fprintf(w, "  port %d: %v\n", port, r.Simulation.Ports.Output(port))
		}
	default:
		fmt.Fprintf(w, "⚠ Simulation error: %v\n", r.SimulationErr)
	}
}
