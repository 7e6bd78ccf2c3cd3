package verify

import (
	"fmt"
	"strconv"

	"github.com/iREALLYhateGit/MyCompiler/codegen"
	"github.com/iREALLYhateGit/MyCompiler/program"
)

// StackDepths computes the stack depth on entry to every reachable
// instruction, following jumps and fallthrough from instruction 0.
// Unreachable instructions get -1. Jump operands must already be valid.
func StackDepths(img *codegen.Image) (depths []int, maxDepth int, issues []Issue) {
	count := len(img.Instructions)
	depths = make([]int, count)
	for i := range depths {
		depths[i] = -1
	}
	if count == 0 {
		return depths, 0, nil
	}

	isa := program.Default()
	reported := make(map[int]bool)
	report := func(issue Issue) {
		if !reported[issue.Inst] {
			reported[issue.Inst] = true
			issues = append(issues, issue)
		}
	}

	depths[0] = 0
	work := []int{0}

	for len(work) > 0 {
		pc := work[len(work)-1]
		work = work[:len(work)-1]

		inst := img.Instructions[pc]
		op, ok := isa.Lookup(inst.Mnemonic)
		if !ok {
			continue
		}

		depth := depths[pc]
		pops, pushes := op.StackEffect(len(inst.Operands))
		if depth < pops {
			report(Issue{
				Type:    IssueStack,
				Node:    NoLocation,
				Inst:    pc,
				Message: fmt.Sprintf("%s pops %d values from a stack of %d", inst.Mnemonic, pops, depth),
				Details: map[string]interface{}{"depth": depth, "pops": pops},
			})
			depth = pops
		}

		next := depth - pops + pushes
		if next > maxDepth {
			maxDepth = next
		}

		var succ []int
		if op.Jump {
			t, _ := strconv.Atoi(inst.Operand(0))
			succ = append(succ, t)
		}
		if !op.Stops {
			if pc+1 >= count {
				report(instIssue(IssueJump, pc, "execution runs past the last instruction"))
			} else {
				succ = append(succ, pc+1)
			}
		}

		for _, s := range succ {
			switch depths[s] {
			case -1:
				depths[s] = next
				work = append(work, s)
			case next:
			default:
				report(Issue{
					Type:    IssueStack,
					Node:    NoLocation,
					Inst:    s,
					Message: "instruction is reached with different stack depths",
					Details: map[string]interface{}{"depth": depths[s], "other": next},
				})
			}
		}
	}

	return depths, maxDepth, issues
}
