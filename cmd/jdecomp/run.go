package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/archive"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/config"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/decompiler"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/report"
)

var errUsage = errors.New("usage")

// run is the whole command. Results are written to stdout, usage and the
// summary table to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("jdecomp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(fs)

	configPath := fs.String("config", "", "Configuration file (default: nearest "+config.FileName+")")
	format := fs.String("format", "", "Output format: text, json or cbor")
	summary := fs.Bool("summary", false, "Print a per-class summary table to stderr")
	disasm := fs.Bool("disasm", false, "Append the bytecode listing to every method")
	strict := fs.Bool("strict", false, "Fail on the first method that cannot be decompiled")
	workers := fs.Int("workers", 0, "Classes decompiled in parallel (methods, for a single class)")
	verbose := fs.Bool("v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	configureLogging(*verbose)

	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Output.Format = *format
		case "disasm":
			cfg.Output.DumpInstructions = *disasm
		case "strict":
			cfg.Decompile.Strict = *strict
		case "workers":
			cfg.Decompile.Workers = *workers
		}
	})
	if cfg.Decompile.Workers <= 0 {
		return fmt.Errorf("-workers must be positive, got %d", cfg.Decompile.Workers)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Path != "" {
		log.Infof("using configuration %s", cfg.Path)
	}

	var entries []input
	for _, path := range fs.Args() {
		found, err := readInput(path, cfg.Decompile.MaxClassSize)
		if err != nil {
			return err
		}
		entries = append(entries, found...)
	}

	reports, err := decompileAll(context.Background(), entries, cfg)
	if err != nil {
		return err
	}

	if err := report.Encode(stdout, cfg.Output.Format, reports); err != nil {
		return err
	}
	if *summary {
		return report.Summary(stderr, reports)
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.FindAndLoad(wd)
}

// input is one class file found on the command line.
type input struct {
	// Path names the class for reports: the file itself, or archive!/entry.
	Path string
	Data []byte
}

func readInput(path string, maxClassSize int64) ([]input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := archive.Classes(path, data, maxClassSize)
	if err != nil {
		return nil, err
	}

	bare := archive.Detect(data) == archive.FormatClass
	inputs := make([]input, 0, len(entries))
	for _, e := range entries {
		if e.Skipped {
			log.Warningf("%s: skipping %s (%d bytes)", path, e.Path, e.Size)
			continue
		}
		name := e.Path
		if !bare {
			name = path + "!/" + e.Path
		}
		inputs = append(inputs, input{Path: name, Data: e.Data})
	}
	log.Debugf("%s: %d classes", path, len(inputs))
	return inputs, nil
}

// decompileAll decompiles inputs concurrently and returns their reports in
// input order. Classes that fail to parse are skipped unless strict.
func decompileAll(ctx context.Context, inputs []input, cfg *config.Config) ([]*report.ClassReport, error) {
	opts := classOptions(cfg, len(inputs))
	results := make([]*report.ClassReport, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Decompile.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			rep, err := decompileOne(ctx, in, opts)
			if err != nil {
				if opts.Strict {
					return err
				}
				log.Errorf("%s", err)
				return nil
			}
			results[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reports := make([]*report.ClassReport, 0, len(results))
	for _, r := range results {
		if r != nil {
			reports = append(reports, r)
		}
	}
	return reports, nil
}

// classOptions spends the worker budget on classes when there are several,
// so the two errgroup levels never run more than Workers goroutines.
func classOptions(cfg *config.Config, classes int) decompiler.Options {
	opts := cfg.DecompilerOptions()
	if classes > 1 {
		opts.Workers = 1
	}
	return opts
}

func decompileOne(ctx context.Context, in input, opts decompiler.Options) (*report.ClassReport, error) {
	cf, err := classfile.ParseBytes(in.Data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Path, err)
	}
	result, err := decompiler.Class(ctx, cf, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Path, err)
	}
	return report.Build(in.Path, cf, result, opts.DumpInstructions)
}
