package archive_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/archive"
)

var classBytes = []byte{0xca, 0xfe, 0xba, 0xbe, 0x00, 0x00, 0x00, 0x34}

type file struct {
	name string
	data []byte
}

func zipOf(files ...file) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.Create(f.name)
		Expect(err).NotTo(HaveOccurred())
		_, err = fw.Write(f.data)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(w.Close()).To(Succeed())
	return buf.Bytes()
}

func tgzOf(files ...file) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	Expect(tw.WriteHeader(&tar.Header{Name: "pkg/", Typeflag: tar.TypeDir, Mode: 0o755})).To(Succeed())
	for _, f := range files {
		Expect(tw.WriteHeader(&tar.Header{Name: f.name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(f.data))})).To(Succeed())
		_, err := tw.Write(f.data)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(tw.Close()).To(Succeed())
	Expect(gz.Close()).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("Archive", func() {
	It("detects formats by magic number", func() {
		Expect(archive.Detect(classBytes)).To(Equal(archive.FormatClass))
		Expect(archive.Detect(zipOf(file{"A.class", classBytes}))).To(Equal(archive.FormatZip))
		Expect(archive.Detect(tgzOf())).To(Equal(archive.FormatTgz))
		Expect(archive.Detect([]byte("hello"))).To(Equal(archive.FormatUnknown))
	})

	It("returns a bare class file as a single entry", func() {
		entries, err := archive.Classes("Foo.class", classBytes, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Path).To(Equal("Foo.class"))
		Expect(entries[0].Data).To(Equal(classBytes))
	})

	It("keeps only class entries of a jar, in order", func() {
		data := zipOf(
			file{"META-INF/MANIFEST.MF", []byte("Manifest-Version: 1.0\n")},
			file{"com/example/B.class", classBytes},
			file{"com/example/A.class", classBytes},
			file{"com/example/readme.txt", []byte("text")},
		)
		entries, err := archive.Classes("lib.jar", data, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Path).To(Equal("com/example/B.class"))
		Expect(entries[1].Path).To(Equal("com/example/A.class"))
		Expect(entries[1].Data).To(Equal(classBytes))
	})

	It("reads class entries from a tarball", func() {
		data := tgzOf(
			file{"pkg/Main.class", classBytes},
			file{"pkg/notes.md", []byte("# notes")},
		)
		entries, err := archive.Classes("dist.tgz", data, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Path).To(Equal("pkg/Main.class"))
		Expect(entries[0].Size).To(Equal(int64(len(classBytes))))
	})

	It("skips entries above the size limit", func() {
		big := append(append([]byte{}, classBytes...), make([]byte, 64)...)
		for _, data := range [][]byte{
			zipOf(file{"Big.class", big}, file{"Small.class", classBytes}),
			tgzOf(file{"Big.class", big}, file{"Small.class", classBytes}),
		} {
			entries, err := archive.Classes("in", data, 16)
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Skipped).To(BeTrue())
			Expect(entries[0].Data).To(BeNil())
			Expect(entries[1].Skipped).To(BeFalse())
			Expect(entries[1].Data).To(Equal(classBytes))
		}
	})

	It("rejects unknown formats", func() {
		_, err := archive.Classes("notes.txt", []byte("plain text"), 0)
		Expect(err).To(MatchError(archive.ErrUnsupportedFormat))
	})

	It("recognizes class paths", func() {
		Expect(archive.IsClassPath("a/B.class")).To(BeTrue())
		Expect(archive.IsClassPath("a/B.java")).To(BeFalse())
		Expect(archive.IsClassPath("a.class/")).To(BeFalse())
	})
})
