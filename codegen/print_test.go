package codegen_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/iREALLYhateGit/MyCompiler/codegen"
)

func inst(m string, ops ...string) codegen.Instruction {
	return codegen.Instruction{Mnemonic: m, Operands: ops}
}

var _ = Describe("Printer", func() {
	It("should suppress fallthrough jumps in straight-line code", func() {
		img := generate("[BLOCK, [ASSIGN, [ID, x], [ADD, '1', [SUBTRACT, '2', '3']]]]", "x")

		Expect(codegen.Listing(img, "main")).To(Equal(`main:
    pushi 1
    pushi 2
    add
    pushi 3
    sub
    stg 0
    halt
`))
	})

	It("should label the targets of if/else", func() {
		img := generate(`[BLOCK,
			[IF,
				[CONDITION, [LESS_THAN, [ID, x], '1']],
				[THEN, [ASSIGN, [ID, y], '1']],
				[ELSE, [ASSIGN, [ID, y], '2']]]]`, "x", "y")

		Expect(codegen.Listing(img, "main")).To(Equal(`main:
    ldg 0
    pushi 1
    lt
    jz L1
    pushi 1
    stg 1
    jmp L2
L1:
    pushi 2
    stg 1
L2:
    halt
`))
	})

	It("should label the loop head of a while", func() {
		img := generate(`[BLOCK,
			[WHILE,
				[CONDITION, [LESS_THAN, [ID, i], '3']],
				[DO, [ASSIGN, [ID, i], [ADD, [ID, i], '1']]]]]`, "i")

		Expect(codegen.Listing(img, "main")).To(Equal(`main:
L1:
    ldg 0
    pushi 3
    lt
    jz L2
    ldg 0
    pushi 1
    add
    stg 0
    jmp L1
L2:
    halt
`))
	})

	It("should use the entry label for jumps to index 0", func() {
		img := &codegen.Image{Instructions: []codegen.Instruction{
			inst("pushi", "1"),
			inst("out"),
			inst("jmp", "0"),
		}}

		Expect(codegen.Listing(img, "loop")).To(Equal(
			"loop:\n    pushi 1\n    out\n    jmp loop\n"))
	})

	It("should print jumps with unusable operands verbatim", func() {
		img := &codegen.Image{Instructions: []codegen.Instruction{
			inst("jz", "9"),
			inst("halt"),
		}}

		Expect(codegen.Listing(img, "f")).To(Equal("f:\n    jz 9\n    halt\n"))
	})

	It("should print only the label for an empty image", func() {
		var buf bytes.Buffer

		Expect(codegen.Fprint(&buf, &codegen.Image{}, "")).To(Succeed())
		Expect(buf.String()).To(Equal("entry:\n"))
	})

	It("should number labels in index order", func() {
		img := &codegen.Image{Instructions: []codegen.Instruction{
			inst("jz", "4"),
			inst("jnz", "2"),
			inst("pushi", "0"),
			inst("pop"),
			inst("halt"),
		}}

		Expect(codegen.Labels(img, "f")).To(Equal([]string{"f", "", "L1", "", "L2"}))
	})

	DescribeTable("label sanitizing",
		func(name, want string) {
			Expect(codegen.SanitizeLabel(name)).To(Equal(want))
		},
		Entry("empty", "", "entry"),
		Entry("plain", "main", "main"),
		Entry("leading digit", "1st", "M_1st"),
		Entry("dash", "my-func", "my_func"),
		Entry("leading underscore", "_x", "M__x"),
		Entry("dots and spaces", "a.b c", "a_b_c"),
	)
})
