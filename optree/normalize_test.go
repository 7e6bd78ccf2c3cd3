package optree_test

import (
	"github.com/davecgh/go-spew/spew"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/iREALLYhateGit/MyCompiler/optree"
	"github.com/iREALLYhateGit/MyCompiler/syntax"
)

func normalize(src string) *optree.Node {
	return optree.Normalize(syntax.MustParse(src))
}

// depth counts how far the leftmost spine descends through nodes of kinds
// that associate with k.
func leftDepth(n *optree.Node, k optree.Kind) int {
	d := 0
	for n != nil && optree.SameClass(n.Kind, k) {
		d++
		n = n.Operand(0)
	}
	return d
}

var _ = Describe("Normalize", func() {
	Context("left association", func() {
		It("should rotate 10 - 3 - 2 into Sub(Sub(10, 3), 2)", func() {
			n := normalize("[SUBTRACT, '10', [SUBTRACT, '3', '2']]")

			Expect(n.String()).To(Equal(
				"SUBTRACTION(SUBTRACTION(LITERAL:10, LITERAL:3), LITERAL:2)"),
				spew.Sdump(n))
		})

		It("should left-nest a long mixed additive chain", func() {
			n := normalize(
				"[ADD, a, [SUBTRACT, b, [ADD, c, [SUBTRACT, d, e]]]]")

			Expect(n.Leaves()).To(Equal([]string{"a", "b", "c", "d", "e"}))
			Expect(leftDepth(n, optree.Add)).To(Equal(4), spew.Sdump(n))
			Expect(n.String()).To(Equal(
				"SUBTRACTION(ADD(SUBTRACTION(ADD(LITERAL:a, LITERAL:b), " +
					"LITERAL:c), LITERAL:d), LITERAL:e)"))
		})

		It("should re-associate an already left-nested right operand", func() {
			n := normalize("[SUBTRACT, a, [SUBTRACT, [SUBTRACT, b, c], d]]")

			Expect(n.Leaves()).To(Equal([]string{"a", "b", "c", "d"}))
			Expect(leftDepth(n, optree.Sub)).To(Equal(3), spew.Sdump(n))
			Expect(n.Operand(1).Kind).To(Equal(optree.Literal))
		})

		It("should never leave a same-class rightmost operand", func() {
			n := normalize(
				"[MULTIPLY, a, [DIVISION, b, [RESIDUE, c, [MULTIPLY, d, e]]]]")

			for cur := n; cur != nil && cur.Kind.IsBinary(); cur = cur.Operand(0) {
				last := cur.Operand(len(cur.Operands) - 1)
				Expect(optree.SameClass(cur.Kind, last.Kind)).To(BeFalse(),
					spew.Sdump(n))
			}
			Expect(n.Kind).To(Equal(optree.Mul))
		})

		It("should not rotate across classes", func() {
			n := normalize("[ADD, a, [MULTIPLY, b, c]]")

			Expect(n.String()).To(Equal(
				"ADD(LITERAL:a, MULTIPLICATION(LITERAL:b, LITERAL:c))"))
		})

		It("should keep each class apart", func() {
			n := normalize("[AND, [EQUALS, x, y], [AND, [LESS_THAN, a, b], c]]")

			Expect(n.String()).To(Equal(
				"LOGICAL_AND(LOGICAL_AND(EQUAL(LITERAL:x, LITERAL:y), " +
					"LESS_THAN(LITERAL:a, LITERAL:b)), LITERAL:c)"))
		})

		It("should treat relational operators as one class", func() {
			n := normalize("[LESS_THAN, a, [MORE_THAN_OR_EQUALS, b, c]]")

			Expect(n.Kind).To(Equal(optree.Ge))
			Expect(n.Operand(0).Kind).To(Equal(optree.Lt))
		})
	})

	Context("wrappers", func() {
		It("should see through nested wrappers", func() {
			n := normalize(
				"[EXPRESSION, [IN_BRACES, [VALUE, [ID, x]]]]")

			Expect(n.Kind).To(Equal(optree.Identifier))
			Expect(n.Text).To(Equal("x"))
		})

		It("should yield nil for an empty wrapper", func() {
			Expect(normalize("[CONDITION]")).To(BeNil())
			Expect(optree.Normalize(nil)).To(BeNil())
		})

		It("should use only the first child of a wrapper", func() {
			n := normalize("[EXPRESSION, '1', '2']")

			Expect(n.String()).To(Equal("LITERAL:1"))
		})
	})

	Context("identifiers and literals", func() {
		It("should take the name from the child token", func() {
			Expect(normalize("[ARRAY_ID, buf]").Text).To(Equal("buf"))
		})

		It("should fall back to the label itself", func() {
			n := normalize("ID")

			Expect(n.Kind).To(Equal(optree.Identifier))
			Expect(n.Text).To(Equal("ID"))
		})

		It("should keep raw literal text", func() {
			n := normalize("'0x1F'")

			Expect(n.Kind).To(Equal(optree.Literal))
			Expect(n.Text).To(Equal("0x1F"))
		})
	})

	Context("assignment, unary, calls and arrays", func() {
		It("should build an assignment", func() {
			n := normalize("[ASSIGN, [ID, x], [ADD, '1', [SUBTRACT, '2', '3']]]")

			Expect(n.String()).To(Equal(
				"ASSIGN(IDENTIFIER:x, SUBTRACTION(ADD(LITERAL:1, LITERAL:2), LITERAL:3))"))
		})

		DescribeTable("unary operators",
			func(token string, kind optree.Kind) {
				n := optree.Normalize(syntax.NewNode(syntax.LabelUnary,
					syntax.Leaf(token), syntax.NewNode(syntax.LabelID, syntax.Leaf("v"))))

				Expect(n.Kind).To(Equal(kind))
				Expect(n.Operands).To(HaveLen(1))
				Expect(n.Operand(0).Text).To(Equal("v"))
			},
			Entry("plus", "+", optree.Plus),
			Entry("minus", "-", optree.Minus),
			Entry("not", "!", optree.Not),
			Entry("tilde", "~", optree.Unknown),
		)

		It("should degrade a unary node without operand", func() {
			n := normalize("[UNARY_OPERATION, '-']")

			Expect(n.Kind).To(Equal(optree.Unknown))
			Expect(n.Text).To(Equal(syntax.LabelUnary))
		})

		It("should flatten an argument list", func() {
			n := normalize("[CALL, [ID, out], [ARGUMENTS, '1', [ID, y]]]")

			Expect(n.String()).To(Equal("CALL:out(LITERAL:1, IDENTIFIER:y)"))
		})

		It("should take a single non-list argument", func() {
			n := normalize("[CALL, setport, [EXPRESSION, '3']]")

			Expect(n.String()).To(Equal("CALL:setport(LITERAL:3)"))
		})

		It("should accept a call without arguments", func() {
			n := normalize("[CALL, [ID, in]]")

			Expect(n.Kind).To(Equal(optree.Call))
			Expect(n.Text).To(Equal("in"))
			Expect(n.Operands).To(BeEmpty())
		})

		It("should build an array index", func() {
			n := normalize("[ARRAY_ELEMENT, [ARRAY_ID, a], [ARRAY_ELEMENT_INDEX, '2']]")

			Expect(n.String()).To(Equal("ARRAY_INDEX(IDENTIFIER:a, LITERAL:2)"))
		})
	})

	Context("unrecognized shapes", func() {
		It("should keep the label and normalize children", func() {
			n := normalize("[TERNARY, [ID, c], '1', '2']")

			Expect(n.String()).To(Equal(
				"UNKNOWN:TERNARY(IDENTIFIER:c, LITERAL:1, LITERAL:2)"))
		})

		It("should degrade a binary label with one operand", func() {
			n := normalize("[ADD, '1']")

			Expect(n.Kind).To(Equal(optree.Unknown))
			Expect(n.Text).To(Equal("ADD"))
		})
	})
})
