package bytecode_test

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
)

type fakePool map[uint16]string

func (p fakePool) Describe(index uint16) string {
	if s, ok := p[index]; ok {
		return s
	}
	return fmt.Sprintf("#%d", index)
}

var _ = Describe("Listing", func() {
	It("renders javap-style lines", func() {
		insns, err := bytecode.Decode([]byte{
			0xb2, 0x00, 0x02, // getstatic #2
			0x1a,             // iload_0
			0x10, 0x07,       // bipush 7
			0xbc, 0x0a,       // newarray int
			0xb6, 0x00, 0x03, // invokevirtual #3
			0xb1, // return
		})
		Expect(err).NotTo(HaveOccurred())

		pool := fakePool{2: "java.lang.System.out:Ljava/io/PrintStream;", 3: "java.io.PrintStream.println:(I)V"}
		Expect(bytecode.Listing(insns, pool)).To(Equal(
			"   0: getstatic        #2 // java.lang.System.out:Ljava/io/PrintStream;\n" +
				"   3: iload_0\n" +
				"   4: bipush           7\n" +
				"   6: newarray         int\n" +
				"   8: invokevirtual    #3 // java.io.PrintStream.println:(I)V\n" +
				"  11: return\n"))
	})

	It("omits constant references without a pool", func() {
		insns, err := bytecode.Decode([]byte{0xbb, 0x00, 0x09})
		Expect(err).NotTo(HaveOccurred())
		Expect(bytecode.Format(insns[0], nil)).To(Equal("   0: new              #9"))
	})

	It("marks wide and unknown instructions", func() {
		insns, err := bytecode.Decode([]byte{0xc4, 0x15, 0x01, 0x00, 0xe0})
		Expect(err).NotTo(HaveOccurred())
		Expect(bytecode.Format(insns[0], nil)).To(Equal("   0: wide iload       256"))
		Expect(bytecode.Format(insns[1], nil)).To(Equal("   4: 0xe0 (unknown)"))
	})

	It("lists switch tables", func() {
		insns, err := bytecode.Decode([]byte{
			0xab, 0, 0, 0,
			0, 0, 0, 20,
			0, 0, 0, 1,
			0, 0, 0, 7, 0, 0, 0, 16,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(bytecode.Format(insns[0], nil)).To(Equal(
			"   0: lookupswitch {\n" +
				"           7: 16\n" +
				"     default: 20\n" +
				"      }"))
	})
})
