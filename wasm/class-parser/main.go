//go:build js && wasm

// Browser build: exposes class decompilation to JavaScript.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/archive"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/decompiler"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/report"
)

// ---------------------------------------------------------------------------
// Decompilation
// ---------------------------------------------------------------------------

func decompileClass(ctx context.Context, path string, data []byte) (*report.ClassReport, error) {
	cf, err := classfile.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	opts := decompiler.DefaultOptions()
	result, err := decompiler.Class(ctx, cf, opts)
	if err != nil {
		return nil, err
	}
	return report.Build(path, cf, result, true)
}

// decompileArchive decompiles every class in a jar, zip or tgz. Classes that
// fail are left out; oversized entries are skipped.
func decompileArchive(ctx context.Context, data []byte) ([]*report.ClassReport, error) {
	entries, err := archive.Classes("input", data, archive.DefaultMaxEntrySize)
	if err != nil {
		return nil, err
	}
	reports := make([]*report.ClassReport, 0, len(entries))
	for _, e := range entries {
		if e.Skipped {
			continue
		}
		rep, err := decompileClass(ctx, e.Path, e.Data)
		if err != nil {
			continue
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func encodeClass(rep *report.ClassReport) (string, error) {
	jsonBytes, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}
	return string(jsonBytes), nil
}

func encodeArchive(reports []*report.ClassReport) (string, error) {
	var buf bytes.Buffer
	if err := report.Encode(&buf, report.FormatJSON, reports); err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}
	return buf.String(), nil
}

// ---------------------------------------------------------------------------
// JS exports
// ---------------------------------------------------------------------------

func jsError(msg string) any {
	return js.Global().Get("Promise").Call("reject",
		js.Global().Get("Error").New(msg))
}

// export registers fn as a global taking one Uint8Array and returning a
// Promise of the string fn produces.
func export(name string, fn func(data []byte) (string, error)) {
	js.Global().Set(name, js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) != 1 {
			return jsError(name + " requires exactly 1 argument (Uint8Array)")
		}

		handler := js.FuncOf(func(_ js.Value, promise []js.Value) any {
			resolve := promise[0]
			reject := promise[1]

			go func() {
				jsArr := args[0]
				data := make([]byte, jsArr.Get("length").Int())
				js.CopyBytesToGo(data, jsArr)

				out, err := fn(data)
				if err != nil {
					reject.Invoke(js.Global().Get("Error").New(err.Error()))
					return
				}
				resolve.Invoke(out)
			}()

			return nil
		})

		return js.Global().Get("Promise").New(handler)
	}))
}

func main() {
	ctx := context.Background()

	// __wasm_parseClass(Uint8Array) -> Promise<string>
	// Returns the JSON report of one class, source and bytecode included.
	export("__wasm_parseClass", func(data []byte) (string, error) {
		rep, err := decompileClass(ctx, "", data)
		if err != nil {
			return "", fmt.Errorf("failed to parse class file: %w", err)
		}
		return encodeClass(rep)
	})

	// __wasm_decompileArchive(Uint8Array) -> Promise<string>
	// Returns a JSON array with the report of every class in the archive.
	export("__wasm_decompileArchive", func(data []byte) (string, error) {
		reports, err := decompileArchive(ctx, data)
		if err != nil {
			return "", fmt.Errorf("failed to read archive: %w", err)
		}
		return encodeArchive(reports)
	})

	// Block forever: the instance must stay alive to serve calls.
	select {}
}
