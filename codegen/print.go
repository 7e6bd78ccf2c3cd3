package codegen

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iREALLYhateGit/MyCompiler/program"
)

// SanitizeLabel turns a subprogram name into an assembler label.
func SanitizeLabel(name string) string {
	if name == "" {
		return "entry"
	}

	var sb strings.Builder
	first := []rune(name)[0]
	if !isASCIILetter(first) {
		sb.WriteString("M_")
	}

	for _, r := range name {
		if isASCIILetter(r) || r >= '0' && r <= '9' || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}

	return sb.String()
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

// jumpTarget returns the resolved target of inst, if it is an in-range
// jump.
func jumpTarget(inst Instruction, count int) (int, bool) {
	if !program.IsJump(inst.Mnemonic) {
		return 0, false
	}

	t, err := strconv.Atoi(inst.Operand(0))
	if err != nil || t < 0 || t >= count {
		return 0, false
	}

	return t, true
}

// suppressed reports whether the instruction at i is a jmp to i+1.
func suppressed(inst Instruction, i, count int) bool {
	t, ok := jumpTarget(inst, count)
	return ok && inst.Mnemonic == program.Jmp && t == i+1
}

// Labels computes the label printed before each instruction. Index 0
// always carries the entry label; other jump targets are named L1, L2, ...
// in index order. Targets reached only by suppressed jumps get no label.
func Labels(img *Image, entryLabel string) []string {
	count := len(img.Instructions)
	labels := make([]string, count)
	needed := make([]bool, count)

	for i, inst := range img.Instructions {
		if suppressed(inst, i, count) {
			continue
		}
		if t, ok := jumpTarget(inst, count); ok {
			needed[t] = true
		}
	}

	if count > 0 {
		labels[0] = SanitizeLabel(entryLabel)
	}

	next := 1
	for i := 1; i < count; i++ {
		if needed[i] {
			labels[i] = fmt.Sprintf("L%d", next)
			next++
		}
	}

	return labels
}

// Fprint writes img as an assembly listing.
func Fprint(w io.Writer, img *Image, entryLabel string) error {
	bw := bufio.NewWriter(w)
	count := len(img.Instructions)
	labels := Labels(img, entryLabel)

	fmt.Fprintf(bw, "%s:\n", SanitizeLabel(entryLabel))

	for i, inst := range img.Instructions {
		if i > 0 && labels[i] != "" {
			fmt.Fprintf(bw, "%s:\n", labels[i])
		}

		if suppressed(inst, i, count) {
			continue
		}

		bw.WriteString("    ")
		bw.WriteString(inst.Mnemonic)

		if t, ok := jumpTarget(inst, count); ok {
			bw.WriteString(" ")
			bw.WriteString(labels[t])
		} else if len(inst.Operands) > 0 {
			bw.WriteString(" ")
			bw.WriteString(strings.Join(inst.Operands, " "))
		}

		bw.WriteString("\n")
	}

	return bw.Flush()
}

// Listing returns the listing as a string.
func Listing(img *Image, entryLabel string) string {
	var sb strings.Builder
	_ = Fprint(&sb, img, entryLabel)

	return sb.String()
}
