// Package report describes decompiled classes for machine consumers and
// renders them in the output formats the CLI and the browser build offer.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/decompiler"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

var log = commonlog.GetLogger("jdecomp.report")

// ---------------------------------------------------------------------------
// Output types
// ---------------------------------------------------------------------------

type ClassReport struct {
	Path         string         `json:"path,omitempty"`
	MajorVersion int            `json:"majorVersion"`
	MinorVersion int            `json:"minorVersion"`
	JavaVersion  string         `json:"javaVersion"`
	AccessFlags  []string       `json:"accessFlags"`
	ClassName    string         `json:"className"`
	SuperClass   string         `json:"superClass"`
	Interfaces   []string       `json:"interfaces"`
	SourceFile   string         `json:"sourceFile,omitempty"`
	Fields       []FieldReport  `json:"fields"`
	Methods      []MethodReport `json:"methods"`
	IsDeprecated bool           `json:"isDeprecated,omitempty"`
	Signature    string         `json:"signature,omitempty"`
	Source       string         `json:"source"`
}

type FieldReport struct {
	AccessFlags []string `json:"accessFlags"`
	Name        string   `json:"name"`
	Descriptor  string   `json:"descriptor"`
	TypeName    string   `json:"typeName"`
	Signature   string   `json:"signature,omitempty"`
	Declaration string   `json:"declaration"`
}

type MethodReport struct {
	AccessFlags []string `json:"accessFlags"`
	Name        string   `json:"name"`
	Descriptor  string   `json:"descriptor"`
	ReturnType  string   `json:"returnType"`
	ParamTypes  []string `json:"paramTypes"`
	Exceptions  []string `json:"exceptions,omitempty"`
	Signature   string   `json:"signature,omitempty"`
	Declaration string   `json:"declaration"`
	Abstract    bool     `json:"abstract,omitempty"`
	Body        string   `json:"body,omitempty"`
	Error       string   `json:"error,omitempty"`
	Bytecode    string   `json:"bytecode,omitempty"`
	MaxStack    int      `json:"maxStack,omitempty"`
	MaxLocals   int      `json:"maxLocals,omitempty"`
}

// Decompiled reports whether the method had code and its body was recovered.
func (m *MethodReport) Decompiled() bool { return !m.Abstract && m.Error == "" }

// ---------------------------------------------------------------------------
// Building
// ---------------------------------------------------------------------------

// Build describes cf together with its decompilation result. The methods of
// result must be in the declaration order of cf. withBytecode adds the
// instruction listing of every method with code.
func Build(path string, cf *classfile.ClassFile, result *decompiler.ClassResult, withBytecode bool) (*ClassReport, error) {
	if len(result.Methods) != len(cf.Methods) {
		return nil, fmt.Errorf("%s: %d decompiled methods for %d declared", result.Name, len(result.Methods), len(cf.Methods))
	}
	super, err := cf.SuperClassName()
	if err != nil {
		return nil, fmt.Errorf("super class: %w", err)
	}
	interfaces, err := cf.InterfaceNames()
	if err != nil {
		return nil, err
	}
	for i, name := range interfaces {
		interfaces[i] = dotted(name)
	}

	rep := &ClassReport{
		Path:         path,
		MajorVersion: int(cf.MajorVersion),
		MinorVersion: int(cf.MinorVersion),
		JavaVersion:  cf.JavaVersion(),
		AccessFlags:  classfile.ClassFlagNames(cf.AccessFlags),
		ClassName:    dotted(result.Name),
		SuperClass:   dotted(super),
		Interfaces:   interfaces,
		SourceFile:   cf.SourceFile,
		IsDeprecated: cf.Deprecated,
		Signature:    cf.Signature,
		Source:       result.Source,
		Fields:       make([]FieldReport, 0, len(cf.Fields)),
		Methods:      make([]MethodReport, 0, len(cf.Methods)),
	}

	for i := range cf.Fields {
		f := &cf.Fields[i]
		typeName, err := jtype.Display(f.Descriptor)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		decl := ""
		if i < len(result.Fields) {
			decl = result.Fields[i]
		}
		rep.Fields = append(rep.Fields, FieldReport{
			AccessFlags: classfile.FieldFlagNames(f.AccessFlags),
			Name:        f.Name,
			Descriptor:  f.Descriptor,
			TypeName:    typeName,
			Signature:   f.Signature,
			Declaration: decl,
		})
	}

	for i := range cf.Methods {
		mr, err := buildMethod(cf.Pool, &cf.Methods[i], &result.Methods[i], withBytecode)
		if err != nil {
			return nil, err
		}
		rep.Methods = append(rep.Methods, mr)
	}
	return rep, nil
}

func buildMethod(pool *classfile.ConstantPool, m *classfile.Method, res *decompiler.MethodResult, withBytecode bool) (MethodReport, error) {
	params, ret, err := jtype.ParseMethod(m.Descriptor)
	if err != nil {
		return MethodReport{}, fmt.Errorf("method %s: %w", m.Name, err)
	}
	paramTypes := make([]string, len(params))
	for i, p := range params {
		paramTypes[i] = p.String()
	}

	mr := MethodReport{
		AccessFlags: classfile.MethodFlagNames(m.AccessFlags),
		Name:        m.Name,
		Descriptor:  m.Descriptor,
		ReturnType:  ret.String(),
		ParamTypes:  paramTypes,
		Signature:   m.Signature,
		Declaration: res.Signature,
		Abstract:    res.Abstract,
		Body:        res.Body,
	}
	if res.Err != nil {
		mr.Error = res.Err.Error()
	}

	for _, idx := range m.Exceptions {
		name, err := pool.ClassName(idx)
		if err != nil {
			return MethodReport{}, fmt.Errorf("exceptions of %s: %w", m.Name, err)
		}
		mr.Exceptions = append(mr.Exceptions, dotted(name))
	}

	if m.Code != nil {
		mr.MaxStack = int(m.Code.MaxStack)
		mr.MaxLocals = int(m.Code.MaxLocals)
		if withBytecode {
			// A truncated method still lists the instructions before the fault.
			insns, err := bytecode.Decode(m.Code.Bytes)
			if err != nil {
				log.Debugf("listing %s%s: %s", m.Name, m.Descriptor, err)
			}
			mr.Bytecode = bytecode.Listing(insns, pool)
		}
	}
	return mr, nil
}

func dotted(internal string) string { return strings.ReplaceAll(internal, "/", ".") }

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("report: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Encode writes reports to w. Text output is the decompiled source of each
// class; json and cbor encode the reports as one array.
func Encode(w io.Writer, format string, reports []*ClassReport) error {
	switch format {
	case FormatText:
		for i, r := range reports {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, r.Source); err != nil {
				return err
			}
		}
		return nil

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(nonNil(reports))

	case FormatCBOR:
		data, err := cborEncMode.Marshal(nonNil(reports))
		if err != nil {
			return fmt.Errorf("report: marshal cbor: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

// DecodeCBOR reads back reports written by Encode in cbor format.
func DecodeCBOR(data []byte) ([]*ClassReport, error) {
	var reports []*ClassReport
	if err := cbor.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("report: unmarshal cbor: %w", err)
	}
	return reports, nil
}

// nonNil keeps an empty run encoding as an empty array.
func nonNil(reports []*ClassReport) []*ClassReport {
	if reports == nil {
		return []*ClassReport{}
	}
	return reports
}
