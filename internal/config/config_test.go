package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/archive"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/config"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(path, content string) {
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	}

	It("has defaults", func() {
		c := config.Default()
		Expect(c.Output.Indent).To(Equal("\t"))
		Expect(c.Output.Format).To(Equal(config.FormatText))
		Expect(c.Decompile.Workers).To(Equal(4))
		Expect(c.Decompile.Strict).To(BeFalse())
		Expect(c.Decompile.MaxClassSize).To(Equal(int64(archive.DefaultMaxEntrySize)))
	})

	It("loads values and fills in the rest", func() {
		write(filepath.Join(dir, config.FileName), `
[output]
indent = "    "
format = "json"
dump_instructions = true

[decompile]
strict = true
`)
		c, err := config.Load(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Output.Indent).To(Equal("    "))
		Expect(c.Output.Format).To(Equal(config.FormatJSON))
		Expect(c.Output.DumpInstructions).To(BeTrue())
		Expect(c.Decompile.Strict).To(BeTrue())
		Expect(c.Decompile.Workers).To(Equal(4))
		Expect(c.Path).To(Equal(filepath.Join(dir, config.FileName)))

		opts := c.DecompilerOptions()
		Expect(opts.Indent).To(Equal("    "))
		Expect(opts.Strict).To(BeTrue())
		Expect(opts.DumpInstructions).To(BeTrue())
		Expect(opts.Workers).To(Equal(4))
	})

	It("walks up to the nearest file", func() {
		write(filepath.Join(dir, config.FileName), "[decompile]\nworkers = 2\n")
		nested := filepath.Join(dir, "a", "b")
		Expect(os.MkdirAll(nested, 0o755)).To(Succeed())

		c, err := config.FindAndLoad(nested)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Decompile.Workers).To(Equal(2))
	})

	It("falls back to defaults when no file exists", func() {
		c, err := config.FindAndLoad(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Path).To(BeEmpty())
		Expect(c.Output.Format).To(Equal(config.FormatText))
	})

	It("rejects unknown formats", func() {
		write(filepath.Join(dir, config.FileName), "[output]\nformat = \"xml\"\n")
		_, err := config.Load(dir)
		Expect(err).To(MatchError(ContainSubstring(`unknown output format "xml"`)))
	})

	It("reports syntax errors", func() {
		write(filepath.Join(dir, config.FileName), "[output\n")
		_, err := config.Load(dir)
		Expect(err).To(MatchError(ContainSubstring("parse error")))
	})
})
