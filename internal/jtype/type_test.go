package jtype_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

var _ = Describe("Type", func() {
	It("strips exactly one dimension", func() {
		t := jtype.ArrayOf(jtype.ArrayOf(jtype.Int))
		elem, err := t.Elem()
		Expect(err).NotTo(HaveOccurred())
		Expect(elem.String()).To(Equal("int[]"))

		elem, err = elem.Elem()
		Expect(err).NotTo(HaveOccurred())
		Expect(elem).To(Equal(jtype.Int))
	})

	It("refuses to strip a non-array", func() {
		_, err := jtype.Int.Elem()
		Expect(err).To(MatchError(jtype.ErrNotArray))

		_, err = jtype.Unknown.Elem()
		Expect(err).To(MatchError(jtype.ErrNotArray))
	})

	It("counts slots per computational category", func() {
		Expect(jtype.Long.Slots()).To(Equal(2))
		Expect(jtype.Double.Slots()).To(Equal(2))
		Expect(jtype.Int.Slots()).To(Equal(1))
		Expect(jtype.Unknown.Slots()).To(Equal(1))
		Expect(jtype.Void.Slots()).To(Equal(0))
		Expect(jtype.Long.Wide()).To(BeTrue())
		Expect(jtype.String.Wide()).To(BeFalse())
	})

	It("renders the unknown type", func() {
		Expect(jtype.Unknown.String()).To(Equal("unknown"))
		Expect(jtype.Unknown.IsUnknown()).To(BeTrue())
	})

	It("compares structurally", func() {
		Expect(jtype.ClassOf("a/B").Equal(jtype.ClassOf("a.B"))).To(BeTrue())
		Expect(jtype.ArrayOf(jtype.Int).Equal(jtype.ArrayOf(jtype.Long))).To(BeFalse())
		Expect(jtype.Int.Equal(jtype.Long)).To(BeFalse())
	})

	DescribeTable("newarray type codes",
		func(code int32, want jtype.Type) {
			got, err := jtype.FromArrayCode(code)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("T_BOOLEAN", int32(4), jtype.Boolean),
		Entry("T_CHAR", int32(5), jtype.Char),
		Entry("T_FLOAT", int32(6), jtype.Float),
		Entry("T_DOUBLE", int32(7), jtype.Double),
		Entry("T_BYTE", int32(8), jtype.Byte),
		Entry("T_SHORT", int32(9), jtype.Short),
		Entry("T_INT", int32(10), jtype.Int),
		Entry("T_LONG", int32(11), jtype.Long),
	)

	It("rejects unknown type codes", func() {
		_, err := jtype.FromArrayCode(3)
		Expect(err).To(MatchError(jtype.ErrInvalidArrayCode))
	})
})
