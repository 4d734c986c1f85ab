package classfile_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile/classfiletest"
)

var _ = Describe("ClassFile", func() {
	It("splits internal names", func() {
		Expect(classfile.PackageName("com/example/Point")).To(Equal("com.example"))
		Expect(classfile.PackageName("Point")).To(BeEmpty())
		Expect(classfile.SimpleName("com/example/Point")).To(Equal("Point"))
		Expect(classfile.SimpleName("Point")).To(Equal("Point"))
	})

	It("maps major versions to Java releases", func() {
		cf := &classfile.ClassFile{MajorVersion: 61}
		Expect(cf.JavaVersion()).To(Equal("17"))
		cf.MajorVersion = 99
		Expect(cf.JavaVersion()).To(Equal("unknown (99)"))
	})

	It("resolves class names from a synthesized model", func() {
		c := classfiletest.New("com/example/Point")
		c.Interfaces = []string{"java/io/Serializable", "java/lang/Comparable"}
		cf := c.Model()

		name, err := cf.ThisClassName()
		Expect(err).NotTo(HaveOccurred())
		Expect(name).To(Equal("com/example/Point"))

		super, err := cf.SuperClassName()
		Expect(err).NotTo(HaveOccurred())
		Expect(super).To(Equal("java/lang/Object"))

		ifaces, err := cf.InterfaceNames()
		Expect(err).NotTo(HaveOccurred())
		Expect(ifaces).To(Equal([]string{"java/io/Serializable", "java/lang/Comparable"}))
	})

	It("has no superclass name when the index is 0", func() {
		c := classfiletest.New("java/lang/Object")
		c.Super = ""
		super, err := c.Model().SuperClassName()
		Expect(err).NotTo(HaveOccurred())
		Expect(super).To(BeEmpty())
	})

	Describe("Parse", func() {
		It("reads a class written in the class file format", func() {
			c := classfiletest.New("com/example/Adder")
			c.AddField(classfile.AccPrivate, "total", "J")
			c.AddMethod(classfiletest.Method{
				Access:     classfile.AccPublic | classfile.AccStatic,
				Name:       "add",
				Descriptor: "(II)I",
				MaxStack:   2,
				MaxLocals:  2,
				Code:       []byte{0x1a, 0x1b, 0x60, 0xac}, // iload_0 iload_1 iadd ireturn
				Exceptions: []string{"java/io/IOException"},
			})
			data, err := c.Bytes()
			Expect(err).NotTo(HaveOccurred())

			cf, err := classfile.ParseBytes(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(cf.MajorVersion).To(Equal(uint16(52)))

			name, err := cf.ThisClassName()
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("com/example/Adder"))

			Expect(cf.Fields).To(HaveLen(1))
			Expect(cf.Fields[0].Name).To(Equal("total"))
			Expect(cf.Fields[0].Descriptor).To(Equal("J"))

			Expect(cf.Methods).To(HaveLen(1))
			m := cf.Methods[0]
			Expect(m.Name).To(Equal("add"))
			Expect(m.IsStatic()).To(BeTrue())
			Expect(m.Code).NotTo(BeNil())
			Expect(m.Code.Bytes).To(Equal([]byte{0x1a, 0x1b, 0x60, 0xac}))
			Expect(m.Exceptions).To(HaveLen(1))

			exc, err := cf.Pool.ClassName(m.Exceptions[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(exc).To(Equal("java/io/IOException"))
		})

		It("decodes string constants from modified UTF-8", func() {
			c := classfiletest.New("Text")
			idx := c.Pool.String("a\x00b \U0001F600")
			data, err := c.Bytes()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(ContainSubstring("a\xc0\x80b \xed\xa0\xbd\xed\xb8\x80"))

			cf, err := classfile.ParseBytes(data)
			Expect(err).NotTo(HaveOccurred())
			s, err := cf.Pool.Get(idx)
			Expect(err).NotTo(HaveOccurred())
			value, err := cf.Pool.Utf8(s.(*classfile.ConstantString).StringIndex)
			Expect(err).NotTo(HaveOccurred())
			Expect(value).To(Equal("a\x00b \U0001F600"))
		})

		It("fails on data that is not a class file", func() {
			_, err := classfile.ParseBytes([]byte("not a class"))
			Expect(err).To(HaveOccurred())
		})
	})
})
