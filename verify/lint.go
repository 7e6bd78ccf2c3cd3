package verify

import (
	"fmt"
	"strconv"

	"github.com/iREALLYhateGit/MyCompiler/cfg"
	"github.com/iREALLYhateGit/MyCompiler/codegen"
	"github.com/iREALLYhateGit/MyCompiler/program"
)

// RunLint performs static lint checks on a graph and the image generated
// from it. Either may be nil.
func RunLint(g *cfg.Graph, img *codegen.Image) []Issue {
	var issues []Issue

	if g != nil {
		issues = append(issues, CheckGraph(g)...)
	}
	if img != nil {
		issues = append(issues, CheckImage(img)...)
	}

	return issues
}

// CheckGraph validates the structure of a finished graph.
func CheckGraph(g *cfg.Graph) []Issue {
	var issues []Issue

	if len(g.Nodes) == 0 {
		return []Issue{nodeIssue(IssueStruct, NoLocation, "graph has no nodes")}
	}

	if g.Entry != 0 || g.Nodes[0].Kind != cfg.Entry {
		issues = append(issues, nodeIssue(IssueStruct, g.Entry,
			"entry node is not the first node"))
	}

	if exit := g.Node(g.Exit); exit == nil || exit.Kind != cfg.Exit {
		issues = append(issues, nodeIssue(IssueStruct, g.Exit,
			"exit position does not hold an exit node"))
	}

	for pos, n := range g.Nodes {
		issues = append(issues, checkNode(g, pos, n)...)
	}

	for i, e := range g.Edges {
		if g.Node(e.From) == nil || g.Node(e.To) == nil {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Node:    e.From,
				Inst:    NoLocation,
				Message: fmt.Sprintf("edge %d points outside the graph", i),
				Details: map[string]interface{}{"from": e.From, "to": e.To},
			})
		}
	}

	return issues
}

func checkNode(g *cfg.Graph, pos int, n *cfg.Node) []Issue {
	var issues []Issue

	for _, slot := range []int{n.Default, n.Conditional} {
		if slot != cfg.NoNode && g.Node(slot) == nil {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Node:    pos,
				Inst:    NoLocation,
				Message: fmt.Sprintf("%s edge slot points outside the graph", n.Kind),
				Details: map[string]interface{}{"target": slot},
			})
		}
	}

	hasEdge := n.HasDefault() || n.HasConditional()
	switch {
	case n.Kind == cfg.Exit && hasEdge:
		issues = append(issues, nodeIssue(IssueStruct, pos, "exit node has a successor"))
	case n.Kind != cfg.Exit && !hasEdge:
		issues = append(issues, nodeIssue(IssueStruct, pos,
			fmt.Sprintf("%s node has no successor", n.Kind)))
	}

	if !n.Kind.IsDecision() && n.HasConditional() {
		issues = append(issues, nodeIssue(IssueStruct, pos,
			fmt.Sprintf("%s node uses the conditional slot", n.Kind)))
	}

	switch {
	case n.Kind.IsDecision() && len(n.Stmts) > 1:
		issues = append(issues, nodeIssue(IssueStruct, pos,
			fmt.Sprintf("%s node carries %d conditions", n.Kind, len(n.Stmts))))
	case (n.Kind == cfg.Entry || n.Kind == cfg.Exit || n.Kind == cfg.Break) && len(n.Stmts) > 0:
		issues = append(issues, nodeIssue(IssueStruct, pos,
			fmt.Sprintf("%s node carries statements", n.Kind)))
	}

	return issues
}

// CheckImage validates instructions, jump targets and stack balance.
func CheckImage(img *codegen.Image) []Issue {
	issues := checkInstructions(img)

	for _, issue := range issues {
		if issue.Type == IssueJump || issue.Type == IssueStruct {
			// depth analysis needs every target resolved
			return issues
		}
	}

	_, _, stackIssues := StackDepths(img)

	return append(issues, stackIssues...)
}

func checkInstructions(img *codegen.Image) []Issue {
	var issues []Issue
	isa := program.Default()

	for i, inst := range img.Instructions {
		op, ok := isa.Lookup(inst.Mnemonic)
		if !ok {
			issues = append(issues, instIssue(IssueStruct, i,
				fmt.Sprintf("unknown mnemonic %q", inst.Mnemonic)))
			continue
		}

		if n := len(inst.Operands); n < op.MinOperands || n > op.MaxOperands {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Node:    NoLocation,
				Inst:    i,
				Message: fmt.Sprintf("%s takes %d to %d operands", op.Name, op.MinOperands, op.MaxOperands),
				Details: map[string]interface{}{"operands": n},
			})
			continue
		}

		if len(inst.Operands) == 0 {
			continue
		}

		v, err := strconv.Atoi(inst.Operand(0))
		switch {
		case op.Jump && inst.Operand(0) == codegen.Placeholder:
			issues = append(issues, instIssue(IssueJump, i, "jump was never patched"))
		case op.Jump && (err != nil || v < 0 || v >= len(img.Instructions)):
			issues = append(issues, Issue{
				Type:    IssueJump,
				Node:    NoLocation,
				Inst:    i,
				Message: "jump target out of range",
				Details: map[string]interface{}{"target": inst.Operand(0)},
			})
		case err != nil:
			issues = append(issues, instIssue(IssueStruct, i,
				fmt.Sprintf("operand %q is not an integer", inst.Operand(0))))
		case (op.Name == program.Ldg || op.Name == program.Stg) && (v < 0 || v >= len(img.Data)):
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Node:    NoLocation,
				Inst:    i,
				Message: "slot out of range",
				Details: map[string]interface{}{"slot": v, "slots": len(img.Data)},
			})
		}
	}

	return issues
}
