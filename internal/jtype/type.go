// Package jtype models the static types the decompiler infers for
// reconstructed values and decodes JVM type descriptors into them.
package jtype

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotArray is returned when an array dimension is stripped from a type
// that is not an array.
var ErrNotArray = errors.New("not an array type")

// Kind enumerates the closed set of type shapes.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindByte
	KindChar
	KindDouble
	KindFloat
	KindInt
	KindLong
	KindShort
	KindBoolean
	KindVoid
	KindClass
	KindArray
)

// Type is an inferred static type. The zero value is Unknown.
type Type struct {
	Kind Kind
	// Name is the dotted class name for KindClass.
	Name string
	elem *Type
}

var (
	Unknown = Type{}
	Byte    = Type{Kind: KindByte}
	Char    = Type{Kind: KindChar}
	Double  = Type{Kind: KindDouble}
	Float   = Type{Kind: KindFloat}
	Int     = Type{Kind: KindInt}
	Long    = Type{Kind: KindLong}
	Short   = Type{Kind: KindShort}
	Boolean = Type{Kind: KindBoolean}
	Void    = Type{Kind: KindVoid}

	String = ClassOf("java/lang/String")
	Class  = ClassOf("java/lang/Class")
	Object = ClassOf("java/lang/Object")
)

// ClassOf returns the class type for an internal (slash separated) or dotted
// class name.
func ClassOf(name string) Type {
	return Type{Kind: KindClass, Name: strings.ReplaceAll(name, "/", ".")}
}

// ArrayOf returns the array type whose components are elem.
func ArrayOf(elem Type) Type {
	e := elem
	return Type{Kind: KindArray, elem: &e}
}

func (t Type) IsUnknown() bool { return t.Kind == KindUnknown }

func (t Type) IsArray() bool { return t.Kind == KindArray }

// IsPrimitive reports whether t is one of the eight primitive types.
func (t Type) IsPrimitive() bool {
	switch t.Kind {
	case KindByte, KindChar, KindDouble, KindFloat, KindInt, KindLong, KindShort, KindBoolean:
		return true
	}
	return false
}

// Elem strips exactly one array dimension.
func (t Type) Elem() (Type, error) {
	if t.Kind != KindArray || t.elem == nil {
		return Unknown, fmt.Errorf("%w: %s", ErrNotArray, t)
	}
	return *t.elem, nil
}

// Innermost strips every array dimension. Non-array types are returned as is.
func (t Type) Innermost() Type {
	for t.Kind == KindArray && t.elem != nil {
		t = *t.elem
	}
	return t
}

// Dims returns the number of array dimensions of t.
func (t Type) Dims() int {
	n := 0
	for t.Kind == KindArray && t.elem != nil {
		n++
		t = *t.elem
	}
	return n
}

// Slots returns the number of operand stack or local variable slots a value
// of this type occupies.
func (t Type) Slots() int {
	switch t.Kind {
	case KindLong, KindDouble:
		return 2
	case KindVoid:
		return 0
	}
	return 1
}

// Wide reports whether t is a category 2 computational type.
func (t Type) Wide() bool { return t.Slots() == 2 }

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Name != o.Name {
		return false
	}
	if t.Kind != KindArray {
		return true
	}
	if t.elem == nil || o.elem == nil {
		return t.elem == o.elem
	}
	return t.elem.Equal(*o.elem)
}

func (t Type) String() string {
	switch t.Kind {
	case KindByte:
		return "byte"
	case KindChar:
		return "char"
	case KindDouble:
		return "double"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindShort:
		return "short"
	case KindBoolean:
		return "boolean"
	case KindVoid:
		return "void"
	case KindClass:
		return t.Name
	case KindArray:
		if t.elem == nil {
			return "unknown[]"
		}
		return t.elem.String() + "[]"
	}
	return "unknown"
}

// ErrInvalidArrayCode is returned for a newarray atype outside 4..11.
var ErrInvalidArrayCode = errors.New("invalid newarray type code")

// FromArrayCode maps the atype operand of newarray to its component type.
func FromArrayCode(atype int32) (Type, error) {
	switch atype {
	case 4:
		return Boolean, nil
	case 5:
		return Char, nil
	case 6:
		return Float, nil
	case 7:
		return Double, nil
	case 8:
		return Byte, nil
	case 9:
		return Short, nil
	case 10:
		return Int, nil
	case 11:
		return Long, nil
	}
	return Unknown, fmt.Errorf("%w: %d", ErrInvalidArrayCode, atype)
}
