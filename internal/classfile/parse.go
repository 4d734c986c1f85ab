package classfile

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/tliron/commonlog"
	parser "github.com/wreulicke/classfile-parser"
)

var log = commonlog.GetLogger("jdecomp.classfile")

// ---------------------------------------------------------------------------
// Container adapter
// ---------------------------------------------------------------------------

// ParseBytes parses an in-memory class file.
func ParseBytes(data []byte) (*ClassFile, error) {
	return Parse(bytes.NewReader(data))
}

// Parse reads a class file and converts it into the decompiler's model.
func Parse(r io.Reader) (*ClassFile, error) {
	p := parser.New(r)
	cf, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse class file: %w", err)
	}

	cp := cf.ConstantPool
	entries := make([]Constant, len(cp.Constants))
	for i, c := range cp.Constants {
		entries[i] = convertConstant(c)
	}
	pool := NewConstantPool(entries)

	out := &ClassFile{
		MajorVersion: uint16(cf.MajorVersion),
		MinorVersion: uint16(cf.MinorVersion),
		Pool:         pool,
		AccessFlags:  AccessFlags(uint16(cf.AccessFlags)),
		ThisClass:    uint16(cf.ThisClass),
		SuperClass:   uint16(cf.SuperClass),
		Deprecated:   cf.Deprecated() != nil,
	}
	for _, idx := range cf.Interfaces {
		out.Interfaces = append(out.Interfaces, uint16(idx))
	}

	if sf := cf.SourceFile(); sf != nil {
		if utf8 := cp.LookupUtf8(sf.SourcefileIndex); utf8 != nil {
			out.SourceFile = DecodeModifiedUTF8(utf8.Bytes)
		}
	}
	if sig := cf.Signature(); sig != nil {
		if utf8 := cp.LookupUtf8(sig.Signature); utf8 != nil {
			out.Signature = DecodeModifiedUTF8(utf8.Bytes)
		}
	}

	// Fields
	out.Fields = make([]Field, 0, len(cf.Fields))
	for _, f := range cf.Fields {
		name, err := f.Name(cp)
		if err != nil {
			return nil, fmt.Errorf("field name: %w", err)
		}
		desc, err := f.Descriptor(cp)
		if err != nil {
			return nil, fmt.Errorf("descriptor of field %s: %w", name, err)
		}
		field := Field{
			AccessFlags: AccessFlags(uint16(f.AccessFlags)),
			Name:        name,
			Descriptor:  desc,
		}
		if sig := f.Signature(); sig != nil {
			if utf8 := cp.LookupUtf8(sig.Signature); utf8 != nil {
				field.Signature = DecodeModifiedUTF8(utf8.Bytes)
			}
		}
		out.Fields = append(out.Fields, field)
	}

	// Methods
	out.Methods = make([]Method, 0, len(cf.Methods))
	for _, m := range cf.Methods {
		name, err := m.Name(cp)
		if err != nil {
			return nil, fmt.Errorf("method name: %w", err)
		}
		desc, err := m.Descriptor(cp)
		if err != nil {
			return nil, fmt.Errorf("descriptor of method %s: %w", name, err)
		}
		method := Method{
			AccessFlags: AccessFlags(uint16(m.AccessFlags)),
			Name:        name,
			Descriptor:  desc,
		}
		if exc := m.Exceptions(); exc != nil {
			for _, idx := range exc.ExceptionIndexes {
				method.Exceptions = append(method.Exceptions, uint16(idx))
			}
		}
		if sig := m.Signature(); sig != nil {
			if utf8 := cp.LookupUtf8(sig.Signature); utf8 != nil {
				method.Signature = DecodeModifiedUTF8(utf8.Bytes)
			}
		}
		if codeAttr := m.Code(); codeAttr != nil {
			method.Code = &Code{
				MaxStack:  uint16(codeAttr.MaxStack),
				MaxLocals: uint16(codeAttr.MaxLocals),
				Bytes:     codeAttr.Codes,
			}
		}
		out.Methods = append(out.Methods, method)
	}

	log.Debugf("parsed class file: %d constants, %d fields, %d methods", pool.Len(), len(out.Fields), len(out.Methods))
	return out, nil
}

func convertConstant(c any) Constant {
	if c == nil {
		return &ConstantPlaceholder{}
	}

	switch v := c.(type) {
	case *parser.ConstantUtf8:
		return &ConstantUtf8{Value: DecodeModifiedUTF8(v.Bytes)}
	case *parser.ConstantInteger:
		return &ConstantInteger{Value: int32(v.Bytes)}
	case *parser.ConstantFloat:
		return &ConstantFloat{Value: math.Float32frombits(uint32(v.Bytes))}
	case *parser.ConstantLong:
		return &ConstantLong{Value: int64(uint64(v.HighBytes)<<32 | uint64(v.LowBytes))}
	case *parser.ConstantDouble:
		return &ConstantDouble{Value: math.Float64frombits(uint64(v.HighBytes)<<32 | uint64(v.LowBytes))}
	case *parser.ConstantClass:
		return &ConstantClass{NameIndex: uint16(v.NameIndex)}
	case *parser.ConstantString:
		return &ConstantString{StringIndex: uint16(v.StringIndex)}
	case *parser.ConstantFieldref:
		return &ConstantFieldref{ClassIndex: uint16(v.ClassIndex), NameAndTypeIndex: uint16(v.NameAndTypeIndex)}
	case *parser.ConstantMethodref:
		return &ConstantMethodref{ClassIndex: uint16(v.ClassIndex), NameAndTypeIndex: uint16(v.NameAndTypeIndex)}
	case *parser.ConstantInterfaceMethodref:
		return &ConstantInterfaceMethodref{ClassIndex: uint16(v.ClassIndex), NameAndTypeIndex: uint16(v.NameAndTypeIndex)}
	case *parser.ConstantNameAndType:
		return &ConstantNameAndType{NameIndex: uint16(v.NameIndex), DescriptorIndex: uint16(v.DescriptorIndex)}
	case *parser.ConstantMethodHandle:
		return &ConstantMethodHandle{ReferenceKind: uint8(v.ReferenceKind), ReferenceIndex: uint16(v.ReferenceIndex)}
	case *parser.ConstantMethodType:
		return &ConstantMethodType{DescriptorIndex: uint16(v.DescriptorIndex)}
	case *parser.ConstantInvokeDynamic:
		return &ConstantInvokeDynamic{
			BootstrapMethodAttrIndex: uint16(v.BootstrapMethodAttrIndex),
			NameAndTypeIndex:         uint16(v.NameAndTypeIndex),
		}
	}
	return &ConstantOpaque{}
}
