package decompiler_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/decompiler"
)

var _ = Describe("Body", func() {
	It("decompiles int m(int a, int b) { return a + b; }", func() {
		out, err := body(nil, static(2), code(bytecode.Iload0, bytecode.Iload1, bytecode.Iadd, bytecode.Ireturn))
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("return arg0 + arg1;"))
	})

	It("fails on opcodes without a rule", func() {
		out, err := body(nil, static(0), code(bytecode.Iconst0, bytecode.Ifeq, 0x00, 0x03, bytecode.Return))
		Expect(err).To(MatchError(decompiler.ErrUnimplementedOpcode))
		Expect(out).To(BeEmpty())

		var uerr *decompiler.UnimplementedError
		Expect(errors.As(err, &uerr)).To(BeTrue())
		Expect(uerr.Op).To(Equal(bytecode.Ifeq))
		Expect(uerr.PC).To(Equal(1))
		Expect(err.Error()).To(Equal("unimplemented opcode ifeq at pc 1"))
	})

	DescribeTable("unsupported opcodes",
		func(c []byte) {
			_, err := body(nil, static(1), c)
			Expect(err).To(MatchError(decompiler.ErrUnimplementedOpcode))
		},
		Entry("goto", code(bytecode.Goto, 0x00, 0x00)),
		Entry("monitorenter", code(bytecode.Aload0, bytecode.Monitorenter)),
		Entry("dup_x1", code(bytecode.Iconst1, bytecode.Iconst2, bytecode.DupX1)),
		Entry("impdep1", code(bytecode.Impdep1)),
		Entry("undefined", code(0xe0)),
	)

	It("fails on operand stack underflow", func() {
		_, err := body(nil, static(0), code(bytecode.Iconst1, bytecode.Iadd, bytecode.Ireturn))
		Expect(err).To(MatchError(decompiler.ErrStackUnderflow))
	})

	Describe("dup and swap", func() {
		It("duplicates the top value", func() {
			out, err := body(nil, static(0), code(bytecode.Iconst1, bytecode.Dup, bytecode.Iadd, bytecode.Ireturn))
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("return 1 + 1;"))
		})

		It("swaps the top two values", func() {
			out, err := body(nil, static(0), code(bytecode.Iconst1, bytecode.Iconst2, bytecode.Swap, bytecode.Isub, bytecode.Ireturn))
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("return 2 - 1;"))
		})
	})

	Describe("leftover operand stack", func() {
		It("dumps pending instructions as a trailing comment", func() {
			b := classfile.NewPoolBuilder()
			printlnRef := b.MethodRef("java/io/PrintStream", "println", "(I)V")
			out := b.FieldRef("java/lang/System", "out", "Ljava/io/PrintStream;")
			s, err := body(b.Build(), static(0), code(
				bytecode.Getstatic, u16(out),
				bytecode.Iconst1,
				bytecode.Invokevirtual, u16(printlnRef),
				bytecode.Return,
			))
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(HavePrefix("return;\n// pending operand stack not empty (3 entries)\n"))
			Expect(s).To(ContainSubstring("//    0: getstatic"))
			Expect(s).To(ContainSubstring("//    3: iconst_1"))
			Expect(s).To(ContainSubstring("java.io.PrintStream.println:(I)V"))
		})

		It("shows materialized values", func() {
			out, err := body(nil, static(0), code(bytecode.Iconst1, bytecode.Dup, bytecode.Pop, bytecode.Return))
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal("return;\n// pending operand stack not empty (1 entries)\n//   value: 1"))
		})
	})

	It("appends the instruction listing on request", func() {
		opts := decompiler.DefaultOptions()
		opts.DumpInstructions = true
		out, err := bodyWith(nil, static(1), code(bytecode.Iload0, bytecode.Ireturn), opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("return arg0;\n// bytecode:\n//    0: iload_0\n//    1: ireturn"))
	})
})

var _ = Describe("Method", func() {
	It("derives slot names from the descriptor", func() {
		b := classfile.NewPoolBuilder()
		m := &classfile.Method{
			Name:       "pick",
			Descriptor: "(JI)I",
			Code:       &classfile.Code{Bytes: code(bytecode.Iload3, bytecode.Istore, 4, bytecode.Iload, 4, bytecode.Ireturn)},
		}
		out, err := decompiler.Method(b.Build(), m, decompiler.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("int var4 = arg3;\nreturn var4;"))
	})

	It("wraps failures with the method name", func() {
		m := &classfile.Method{
			AccessFlags: classfile.AccStatic,
			Name:        "loop",
			Descriptor:  "()V",
			Code:        &classfile.Code{Bytes: code(bytecode.Goto, 0x00, 0x00)},
		}
		_, err := decompiler.Method(classfile.NewPoolBuilder().Build(), m, decompiler.DefaultOptions())
		Expect(err).To(MatchError(decompiler.ErrUnimplementedOpcode))
		Expect(err.Error()).To(Equal("method loop()V: unimplemented opcode goto at pc 0"))
	})

	It("reports truncated code", func() {
		m := &classfile.Method{AccessFlags: classfile.AccStatic, Name: "m", Descriptor: "()V", Code: &classfile.Code{Bytes: []byte{byte(bytecode.Sipush), 1}}}
		_, err := decompiler.Method(classfile.NewPoolBuilder().Build(), m, decompiler.DefaultOptions())
		Expect(err).To(MatchError(bytecode.ErrTruncated))
	})

	It("rejects methods without code", func() {
		m := &classfile.Method{AccessFlags: classfile.AccAbstract, Name: "run", Descriptor: "()V"}
		_, err := decompiler.Method(classfile.NewPoolBuilder().Build(), m, decompiler.DefaultOptions())
		Expect(err).To(HaveOccurred())
	})
})
