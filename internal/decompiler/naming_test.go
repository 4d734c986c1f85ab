package decompiler_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/decompiler"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

var _ = Describe("Local variable naming", func() {
	DescribeTable("SlotName",
		func(info decompiler.MethodInfo, slot int, want string) {
			Expect(info.SlotName(uint16(slot))).To(Equal(want))
		},
		Entry("static first argument", static(2), 0, "arg0"),
		Entry("static second argument", static(2), 1, "arg1"),
		Entry("static local", static(2), 2, "var2"),
		Entry("receiver", instance(1), 0, "this"),
		Entry("instance local", instance(1), 1, "var1"),
		Entry("instance argument", instance(3), 2, "arg2"),
	)

	DescribeTable("NewMethodInfo counts argument slots",
		func(flags classfile.AccessFlags, desc string, static bool, args int) {
			info, err := decompiler.NewMethodInfo(&classfile.Method{AccessFlags: flags, Name: "m", Descriptor: desc})
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Static).To(Equal(static))
			Expect(info.ArgCount).To(Equal(args))
		},
		Entry("static ints", classfile.AccStatic, "(II)I", true, 2),
		Entry("instance no args", classfile.AccPublic, "()V", false, 1),
		Entry("wide parameters", classfile.AccStatic, "(JD)V", true, 4),
		Entry("instance mixed", classfile.AccPublic, "(J[Ljava/lang/String;)V", false, 4),
	)

	It("rejects malformed descriptors", func() {
		_, err := decompiler.NewMethodInfo(&classfile.Method{Name: "m", Descriptor: "(Q)V"})
		Expect(err).To(MatchError(jtype.ErrMalformedDescriptor))
	})

	Describe("VariableTable", func() {
		It("declares each slot once and keeps the first type", func() {
			var t decompiler.VariableTable
			Expect(t.Declare(3, jtype.Int)).To(BeTrue())
			Expect(t.Declare(3, jtype.Long)).To(BeFalse())
			Expect(t.Declare(1, jtype.String)).To(BeTrue())

			v, ok := t.Lookup(3)
			Expect(ok).To(BeTrue())
			Expect(v.Type).To(Equal(jtype.Int))
			Expect(t.Variables()).To(HaveLen(2))
			Expect(t.Variables()[1].Slot).To(Equal(uint16(1)))
		})
	})
})
