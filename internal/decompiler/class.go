package decompiler

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
)

// MethodResult is one decompiled method. Err is set when the body could not
// be decompiled; Body is then empty.
type MethodResult struct {
	Name       string
	Descriptor string
	Signature  string
	Body       string
	Abstract   bool
	Err        error
}

// ClassResult is a decompiled class.
type ClassResult struct {
	// Name is the internal name, e.g. com/example/Point.
	Name    string
	Header  string
	Fields  []string
	Methods []MethodResult
	// Source is the assembled class text.
	Source string
}

// Failed counts the methods whose body could not be decompiled.
func (r *ClassResult) Failed() int {
	n := 0
	for _, m := range r.Methods {
		if m.Err != nil {
			n++
		}
	}
	return n
}

// Class decompiles every method of cf and assembles the class text. Methods
// are decompiled concurrently, up to opts.Workers at a time; output keeps
// declaration order.
func Class(ctx context.Context, cf *classfile.ClassFile, opts Options) (*ClassResult, error) {
	name, err := cf.ThisClassName()
	if err != nil {
		return nil, fmt.Errorf("this class: %w", err)
	}
	header, err := ClassHeader(cf, opts)
	if err != nil {
		return nil, fmt.Errorf("class %s: %w", name, err)
	}
	result := &ClassResult{Name: name, Header: header}

	for i := range cf.Fields {
		decl, err := FieldDeclaration(&cf.Fields[i])
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", name, err)
		}
		result.Fields = append(result.Fields, decl)
	}

	result.Methods = make([]MethodResult, len(cf.Methods))
	for i := range cf.Methods {
		m := &cf.Methods[i]
		sig, err := MethodSignature(cf.Pool, name, m)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", name, err)
		}
		result.Methods[i] = MethodResult{
			Name:       m.Name,
			Descriptor: m.Descriptor,
			Signature:  sig,
			Abstract:   m.Code == nil,
		}
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.Code == nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			body, err := Method(cf.Pool, m, opts)
			if err != nil {
				if opts.Strict {
					return err
				}
				log.Warningf("%s: %s", name, err)
				result.Methods[i].Err = err
				return nil
			}
			result.Methods[i].Body = body
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("class %s: %w", name, err)
	}

	result.Source = result.render(opts)
	return result, nil
}

func (r *ClassResult) render(opts Options) string {
	indent := opts.Indent
	var sb strings.Builder

	if pkg := classfile.PackageName(r.Name); pkg != "" {
		fmt.Fprintf(&sb, "package %s;\n\n", pkg)
	}
	sb.WriteString(r.Header)
	sb.WriteString(" {\n")

	for _, f := range r.Fields {
		sb.WriteString(indent + f + "\n")
	}

	for i, m := range r.Methods {
		if i > 0 || len(r.Fields) > 0 {
			sb.WriteString("\n")
		}
		if m.Abstract {
			sb.WriteString(indent + m.Signature + ";\n")
			continue
		}
		sb.WriteString(indent + m.Signature + " {\n")
		body := m.Body
		if m.Err != nil {
			body = "// decompilation failed: " + m.Err.Error()
		}
		if body != "" {
			for _, line := range strings.Split(body, "\n") {
				sb.WriteString(indent + indent + line + "\n")
			}
		}
		sb.WriteString(indent + "}\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}
