// Package classfiletest synthesizes class files for tests, either as an
// in-memory model or as the bytes a compiler would write.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
)

type Field struct {
	Access     classfile.AccessFlags
	Name       string
	Descriptor string
}

type Method struct {
	Access     classfile.AccessFlags
	Name       string
	Descriptor string
	MaxStack   uint16
	MaxLocals  uint16
	// Code is omitted from the output when nil.
	Code       []byte
	Exceptions []string
}

// Class describes one class. Pool may already hold entries referenced from
// Code; names and descriptors are added to it on demand.
type Class struct {
	Pool       *classfile.PoolBuilder
	Access     classfile.AccessFlags
	Name       string
	Super      string
	Interfaces []string
	Fields     []Field
	Methods    []Method
}

// New starts a public class extending java/lang/Object.
func New(name string) *Class {
	return &Class{
		Pool:   classfile.NewPoolBuilder(),
		Access: classfile.AccPublic | classfile.AccSuper,
		Name:   name,
		Super:  "java/lang/Object",
	}
}

func (c *Class) AddField(access classfile.AccessFlags, name, desc string) *Class {
	c.Fields = append(c.Fields, Field{Access: access, Name: name, Descriptor: desc})
	return c
}

func (c *Class) AddMethod(m Method) *Class {
	c.Methods = append(c.Methods, m)
	return c
}

// Model returns the class as the decompiler sees it after parsing.
func (c *Class) Model() *classfile.ClassFile {
	this := c.Pool.Class(c.Name)
	var super uint16
	if c.Super != "" {
		super = c.Pool.Class(c.Super)
	}
	cf := &classfile.ClassFile{
		MajorVersion: 52,
		AccessFlags:  c.Access,
		ThisClass:    this,
		SuperClass:   super,
	}
	for _, i := range c.Interfaces {
		cf.Interfaces = append(cf.Interfaces, c.Pool.Class(i))
	}
	for _, f := range c.Fields {
		cf.Fields = append(cf.Fields, classfile.Field{AccessFlags: f.Access, Name: f.Name, Descriptor: f.Descriptor})
	}
	for _, m := range c.Methods {
		method := classfile.Method{AccessFlags: m.Access, Name: m.Name, Descriptor: m.Descriptor}
		if m.Code != nil {
			method.Code = &classfile.Code{MaxStack: m.MaxStack, MaxLocals: m.MaxLocals, Bytes: m.Code}
		}
		for _, e := range m.Exceptions {
			method.Exceptions = append(method.Exceptions, c.Pool.Class(e))
		}
		cf.Methods = append(cf.Methods, method)
	}
	cf.Pool = c.Pool.Build()
	return cf
}

// Bytes encodes the class in the class file format (version 52).
func (c *Class) Bytes() ([]byte, error) {
	this := c.Pool.Class(c.Name)
	var super uint16
	if c.Super != "" {
		super = c.Pool.Class(c.Super)
	}
	interfaces := make([]uint16, 0, len(c.Interfaces))
	for _, i := range c.Interfaces {
		interfaces = append(interfaces, c.Pool.Class(i))
	}

	var body bytes.Buffer
	w := func(v any) { _ = binary.Write(&body, binary.BigEndian, v) }

	w(uint16(c.Access))
	w(this)
	w(super)
	w(uint16(len(interfaces)))
	for _, i := range interfaces {
		w(i)
	}

	w(uint16(len(c.Fields)))
	for _, f := range c.Fields {
		w(uint16(f.Access))
		w(c.Pool.Utf8(f.Name))
		w(c.Pool.Utf8(f.Descriptor))
		w(uint16(0))
	}

	w(uint16(len(c.Methods)))
	for _, m := range c.Methods {
		w(uint16(m.Access))
		w(c.Pool.Utf8(m.Name))
		w(c.Pool.Utf8(m.Descriptor))
		attrs := 0
		if m.Code != nil {
			attrs++
		}
		if len(m.Exceptions) > 0 {
			attrs++
		}
		w(uint16(attrs))
		if m.Code != nil {
			w(c.Pool.Utf8("Code"))
			w(uint32(12 + len(m.Code)))
			w(m.MaxStack)
			w(m.MaxLocals)
			w(uint32(len(m.Code)))
			body.Write(m.Code)
			w(uint16(0)) // exception_table_length
			w(uint16(0)) // attributes_count
		}
		if len(m.Exceptions) > 0 {
			w(c.Pool.Utf8("Exceptions"))
			w(uint32(2 + 2*len(m.Exceptions)))
			w(uint16(len(m.Exceptions)))
			for _, e := range m.Exceptions {
				w(c.Pool.Class(e))
			}
		}
	}
	w(uint16(0)) // class attributes

	pool := c.Pool.Build()
	var out bytes.Buffer
	o := func(v any) { _ = binary.Write(&out, binary.BigEndian, v) }
	o(uint32(0xCAFEBABE))
	o(uint16(0))
	o(uint16(52))
	o(uint16(pool.Len() + 1))
	for i := 1; i <= pool.Len(); i++ {
		entry, err := pool.Get(uint16(i))
		if err != nil {
			return nil, err
		}
		if err := writeConstant(&out, entry); err != nil {
			return nil, fmt.Errorf("constant #%d: %w", i, err)
		}
	}
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

func writeConstant(out *bytes.Buffer, entry classfile.Constant) error {
	o := func(v any) { _ = binary.Write(out, binary.BigEndian, v) }
	if entry.Tag() == classfile.TagPlaceholder {
		return nil
	}
	o(uint8(entry.Tag()))
	switch v := entry.(type) {
	case *classfile.ConstantUtf8:
		data := classfile.EncodeModifiedUTF8(v.Value)
		o(uint16(len(data)))
		out.Write(data)
	case *classfile.ConstantInteger:
		o(v.Value)
	case *classfile.ConstantFloat:
		o(math.Float32bits(v.Value))
	case *classfile.ConstantLong:
		o(v.Value)
	case *classfile.ConstantDouble:
		o(math.Float64bits(v.Value))
	case *classfile.ConstantClass:
		o(v.NameIndex)
	case *classfile.ConstantString:
		o(v.StringIndex)
	case *classfile.ConstantFieldref:
		o(v.ClassIndex)
		o(v.NameAndTypeIndex)
	case *classfile.ConstantMethodref:
		o(v.ClassIndex)
		o(v.NameAndTypeIndex)
	case *classfile.ConstantInterfaceMethodref:
		o(v.ClassIndex)
		o(v.NameAndTypeIndex)
	case *classfile.ConstantNameAndType:
		o(v.NameIndex)
		o(v.DescriptorIndex)
	case *classfile.ConstantMethodHandle:
		o(v.ReferenceKind)
		o(v.ReferenceIndex)
	case *classfile.ConstantMethodType:
		o(v.DescriptorIndex)
	case *classfile.ConstantInvokeDynamic:
		o(v.BootstrapMethodAttrIndex)
		o(v.NameAndTypeIndex)
	default:
		return fmt.Errorf("cannot encode %s", entry.Tag())
	}
	return nil
}
