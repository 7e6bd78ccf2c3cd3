// Package verify provides debugging tools for generated subprograms.
//
// It runs three complementary checks:
//
// 1. Graph lint (CheckGraph): entry and exit placement, edge slots in range,
// every node but Exit leads somewhere, slot usage per node kind.
//
// 2. Image lint (CheckImage): known mnemonics, operand counts, patched and
// in-range jump targets, slot operands, and a stack-depth dataflow pass
// that finds underflows and joins reached with different depths.
//
// 3. Functional simulation (Simulate): runs the image on the reference
// machine in package core with an in-memory port bank.
//
// # Usage Example
//
//	issues := verify.RunLint(graph, img)
//	report := verify.GenerateReport("main", graph, img, nil, 10000)
//	report.WriteReport(os.Stdout)
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Malformed graph or instruction
	IssueJump   IssueType = "JUMP"   // Unpatched or out-of-range jump, fall off the end
	IssueStack  IssueType = "STACK"  // Underflow or inconsistent depth at a join
)

// NoLocation marks an issue that is not tied to a node or instruction.
const NoLocation = -1

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType
	Node    int // graph position, or NoLocation
	Inst    int // instruction index, or NoLocation
	Message string
	Details map[string]interface{}
}

func nodeIssue(t IssueType, pos int, msg string) Issue {
	return Issue{Type: t, Node: pos, Inst: NoLocation, Message: msg}
}

func instIssue(t IssueType, idx int, msg string) Issue {
	return Issue{Type: t, Node: NoLocation, Inst: idx, Message: msg}
}
