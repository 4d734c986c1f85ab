package report_test

import (
	"bytes"
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile/classfiletest"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/decompiler"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/report"
)

func pointClass() *classfile.ClassFile {
	c := classfiletest.New("geo/Point")
	c.Interfaces = []string{"java/io/Serializable"}
	c.AddField(classfile.AccPrivate|classfile.AccFinal, "x", "I")
	x := c.Pool.FieldRef("geo/Point", "x", "I")
	c.AddMethod(classfiletest.Method{
		Access: classfile.AccPublic, Name: "getX", Descriptor: "()I",
		MaxStack: 1, MaxLocals: 1,
		Code: []byte{byte(bytecode.Aload0), byte(bytecode.Getfield), byte(x >> 8), byte(x), byte(bytecode.Ireturn)},
	})
	c.AddMethod(classfiletest.Method{
		Access: classfile.AccPublic, Name: "loop", Descriptor: "()V",
		MaxLocals: 1, Code: []byte{byte(bytecode.Goto), 0, 0},
	})
	c.AddMethod(classfiletest.Method{
		Access: classfile.AccPublic | classfile.AccAbstract, Name: "scale", Descriptor: "(D)Lgeo/Point;",
		Exceptions: []string{"java/lang/ArithmeticException"},
	})
	return c.Model()
}

func build(withBytecode bool) *report.ClassReport {
	cf := pointClass()
	result, err := decompiler.Class(context.Background(), cf, decompiler.DefaultOptions())
	Expect(err).NotTo(HaveOccurred())
	rep, err := report.Build("geo/Point.class", cf, result, withBytecode)
	Expect(err).NotTo(HaveOccurred())
	return rep
}

var _ = Describe("Build", func() {
	It("describes the class", func() {
		rep := build(false)
		Expect(rep.Path).To(Equal("geo/Point.class"))
		Expect(rep.ClassName).To(Equal("geo.Point"))
		Expect(rep.SuperClass).To(Equal("java.lang.Object"))
		Expect(rep.Interfaces).To(Equal([]string{"java.io.Serializable"}))
		Expect(rep.JavaVersion).To(Equal("8"))
		Expect(rep.AccessFlags).To(Equal([]string{"public", "class"}))
		Expect(rep.Source).To(ContainSubstring("public class Point implements java.io.Serializable {"))
	})

	It("describes fields", func() {
		rep := build(false)
		Expect(rep.Fields).To(HaveLen(1))
		f := rep.Fields[0]
		Expect(f.AccessFlags).To(Equal([]string{"private", "final"}))
		Expect(f.TypeName).To(Equal("int"))
		Expect(f.Declaration).To(Equal("private final int x;"))
	})

	It("describes methods and their outcome", func() {
		rep := build(false)
		Expect(rep.Methods).To(HaveLen(3))

		getX := rep.Methods[0]
		Expect(getX.ReturnType).To(Equal("int"))
		Expect(getX.ParamTypes).To(BeEmpty())
		Expect(getX.Body).To(Equal("return this.x;"))
		Expect(getX.Decompiled()).To(BeTrue())
		Expect(getX.MaxStack).To(Equal(1))
		Expect(getX.Bytecode).To(BeEmpty())

		loop := rep.Methods[1]
		Expect(loop.Error).To(ContainSubstring("unimplemented opcode goto"))
		Expect(loop.Decompiled()).To(BeFalse())

		scale := rep.Methods[2]
		Expect(scale.Abstract).To(BeTrue())
		Expect(scale.ParamTypes).To(Equal([]string{"double"}))
		Expect(scale.ReturnType).To(Equal("geo.Point"))
		Expect(scale.Exceptions).To(Equal([]string{"java.lang.ArithmeticException"}))
		Expect(scale.Declaration).To(Equal("public abstract geo.Point scale(double arg1) throws java.lang.ArithmeticException"))
	})

	It("lists bytecode on request", func() {
		rep := build(true)
		Expect(rep.Methods[0].Bytecode).To(ContainSubstring("getfield"))
		Expect(rep.Methods[1].Bytecode).To(ContainSubstring("goto"))
		Expect(rep.Methods[2].Bytecode).To(BeEmpty())
	})

	It("rejects a result for another class shape", func() {
		cf := pointClass()
		result, err := decompiler.Class(context.Background(), cf, decompiler.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		result.Methods = result.Methods[:1]
		_, err = report.Build("", cf, result, false)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Encode", func() {
	It("writes the source as text", func() {
		var buf bytes.Buffer
		rep := build(false)
		Expect(report.Encode(&buf, report.FormatText, []*report.ClassReport{rep, rep})).To(Succeed())
		Expect(buf.String()).To(Equal(rep.Source + "\n" + rep.Source))
	})

	It("writes a JSON array", func() {
		var buf bytes.Buffer
		Expect(report.Encode(&buf, report.FormatJSON, []*report.ClassReport{build(false)})).To(Succeed())

		var decoded []map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(1))
		Expect(decoded[0]).To(HaveKeyWithValue("className", "geo.Point"))
		Expect(decoded[0]).To(HaveKeyWithValue("javaVersion", "8"))
		Expect(decoded[0]).To(HaveKey("source"))
		Expect(decoded[0]).NotTo(HaveKey("sourceFile"))
	})

	It("writes an empty JSON array for no classes", func() {
		var buf bytes.Buffer
		Expect(report.Encode(&buf, report.FormatJSON, nil)).To(Succeed())
		Expect(buf.String()).To(Equal("[]\n"))
	})

	It("writes CBOR that decodes to the same reports", func() {
		var buf bytes.Buffer
		rep := build(false)
		Expect(report.Encode(&buf, report.FormatCBOR, []*report.ClassReport{rep})).To(Succeed())

		decoded, err := report.DecodeCBOR(buf.Bytes())
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded).To(HaveLen(1))
		Expect(decoded[0].ClassName).To(Equal(rep.ClassName))
		Expect(decoded[0].Source).To(Equal(rep.Source))
		Expect(decoded[0].Methods[1].Error).To(Equal(rep.Methods[1].Error))
	})

	It("encodes CBOR deterministically", func() {
		var a, b bytes.Buffer
		rep := build(false)
		Expect(report.Encode(&a, report.FormatCBOR, []*report.ClassReport{rep})).To(Succeed())
		Expect(report.Encode(&b, report.FormatCBOR, []*report.ClassReport{rep})).To(Succeed())
		Expect(a.Bytes()).To(Equal(b.Bytes()))
	})

	It("rejects unknown formats", func() {
		Expect(report.Encode(&bytes.Buffer{}, "yaml", nil)).To(MatchError(ContainSubstring(`unknown output format "yaml"`)))
	})
})

var _ = Describe("Summary", func() {
	It("counts methods per class", func() {
		rep := build(false)
		totals := report.Tally([]*report.ClassReport{rep, rep})
		Expect(totals).To(Equal(report.Totals{Classes: 2, Methods: 6, Decompiled: 2, Failed: 2}))
	})

	It("renders a table row per class", func() {
		var buf bytes.Buffer
		Expect(report.Summary(&buf, []*report.ClassReport{build(false)})).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("geo.Point"))
		Expect(buf.String()).To(ContainSubstring("Decompilation summary"))
	})
})
