// Package config handles jdecomp.toml configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/archive"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/decompiler"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/report"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "jdecomp.toml"

// Config represents a jdecomp.toml file.
type Config struct {
	Output    Output    `toml:"output"`
	Decompile Decompile `toml:"decompile"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// Output configures how results are rendered.
type Output struct {
	Indent           string `toml:"indent"`
	Format           string `toml:"format"`
	ShowObjectSuper  bool   `toml:"show_object_super"`
	DumpInstructions bool   `toml:"dump_instructions"`
}

// Decompile configures the decompiler itself.
type Decompile struct {
	Workers      int   `toml:"workers"`
	Strict       bool  `toml:"strict"`
	MaxClassSize int64 `toml:"max_class_size"`
}

// Output formats.
const (
	FormatText = report.FormatText
	FormatJSON = report.FormatJSON
	FormatCBOR = report.FormatCBOR
)

// Default returns the configuration used when no file is found.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Output.Indent == "" {
		c.Output.Indent = "\t"
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Decompile.Workers <= 0 {
		c.Decompile.Workers = 4
	}
	if c.Decompile.MaxClassSize <= 0 {
		c.Decompile.MaxClassSize = archive.DefaultMaxEntrySize
	}
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatCBOR:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or cbor)", c.Output.Format)
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &c, nil
}

// Load parses the jdecomp.toml file in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// FindAndLoad walks up from startDir to find a jdecomp.toml file, then loads
// it. Returns the defaults if no file is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

// DecompilerOptions converts the configuration into decompiler options.
func (c *Config) DecompilerOptions() decompiler.Options {
	return decompiler.Options{
		Indent:           c.Output.Indent,
		DumpInstructions: c.Output.DumpInstructions,
		Strict:           c.Decompile.Strict,
		Workers:          c.Decompile.Workers,
		ShowObjectSuper:  c.Output.ShowObjectSuper,
	}
}
