package jtype_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

var _ = Describe("Descriptor", func() {
	DescribeTable("Display",
		func(desc, want string) {
			got, err := jtype.Display(desc)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("byte", "B", "byte"),
		Entry("char", "C", "char"),
		Entry("double", "D", "double"),
		Entry("float", "F", "float"),
		Entry("int", "I", "int"),
		Entry("long", "J", "long"),
		Entry("short", "S", "short"),
		Entry("boolean", "Z", "boolean"),
		Entry("void", "V", "void"),
		Entry("class", "Ljava/lang/String;", "java.lang.String"),
		Entry("int array", "[I", "int[]"),
		Entry("nested class array", "[[Ljava/util/List;", "java.util.List[][]"),
	)

	DescribeTable("malformed descriptors",
		func(desc string) {
			_, err := jtype.Display(desc)
			Expect(err).To(MatchError(jtype.ErrMalformedDescriptor))
		},
		Entry("empty", ""),
		Entry("unknown letter", "Q"),
		Entry("unterminated class", "Ljava/lang/String"),
		Entry("empty class name", "L;"),
		Entry("trailing characters", "II"),
		Entry("array without element", "["),
		Entry("array of void", "[V"),
	)

	Describe("Parse", func() {
		It("nests arrays recursively", func() {
			t, err := jtype.Parse("[[J")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Dims()).To(Equal(2))
			Expect(t.Innermost()).To(Equal(jtype.Long))
			Expect(t.Equal(jtype.ArrayOf(jtype.ArrayOf(jtype.Long)))).To(BeTrue())
		})
	})

	Describe("ParseMethod", func() {
		It("splits parameters and return type", func() {
			params, ret, err := jtype.ParseMethod("(IJ[Ljava/lang/String;)V")
			Expect(err).NotTo(HaveOccurred())
			Expect(params).To(HaveLen(3))
			Expect(params[0]).To(Equal(jtype.Int))
			Expect(params[1]).To(Equal(jtype.Long))
			Expect(params[2].String()).To(Equal("java.lang.String[]"))
			Expect(ret).To(Equal(jtype.Void))
			Expect(jtype.ArgSlots(params)).To(Equal(4))
		})

		It("accepts an empty parameter list", func() {
			params, ret, err := jtype.ParseMethod("()Ljava/lang/Object;")
			Expect(err).NotTo(HaveOccurred())
			Expect(params).To(BeEmpty())
			Expect(ret).To(Equal(jtype.Object))
		})

		It("rejects a missing parenthesis", func() {
			_, _, err := jtype.ParseMethod("I)V")
			Expect(err).To(MatchError(jtype.ErrMalformedDescriptor))
			_, _, err = jtype.ParseMethod("(I")
			Expect(err).To(MatchError(jtype.ErrMalformedDescriptor))
		})

		It("rejects void parameters", func() {
			_, _, err := jtype.ParseMethod("(V)V")
			Expect(err).To(MatchError(jtype.ErrMalformedDescriptor))
		})
	})

	Describe("FromClassName", func() {
		It("dots internal names", func() {
			t, err := jtype.FromClassName("java/util/Map$Entry")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.String()).To(Equal("java.util.Map$Entry"))
		})

		It("decodes array class names as descriptors", func() {
			t, err := jtype.FromClassName("[[I")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.String()).To(Equal("int[][]"))
		})
	})
})
