// Package classfile holds the validated, indexable model of a Java class
// file that the decompiler reads from, and the adapter that builds it from
// raw bytes.
package classfile

import (
	"fmt"
	"strings"
)

// AccessFlags is the access_flags bit set of a class, field or method.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

// Is reports whether every bit of flag is set.
func (f AccessFlags) Is(flag AccessFlags) bool { return f&flag == flag }

// ClassFile is one parsed class.
type ClassFile struct {
	MajorVersion uint16
	MinorVersion uint16
	Pool         *ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16 // 0 for java.lang.Object and module-info
	Interfaces   []uint16
	Fields       []Field
	Methods      []Method
	SourceFile   string
	Signature    string
	Deprecated   bool
}

// Field is one field_info.
type Field struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Signature   string
}

// Method is one method_info. Code is nil for abstract and native methods.
type Method struct {
	AccessFlags AccessFlags
	Name        string
	Descriptor  string
	Signature   string
	Code        *Code
	Exceptions  []uint16
}

// Code is the part of a Code attribute the decompiler consumes.
type Code struct {
	MaxStack  uint16
	MaxLocals uint16
	Bytes     []byte
}

func (m *Method) IsStatic() bool { return m.AccessFlags.Is(AccStatic) }

// ThisClassName returns the internal name of the class.
func (cf *ClassFile) ThisClassName() (string, error) {
	return cf.Pool.ClassName(cf.ThisClass)
}

// SuperClassName returns the internal name of the superclass, or "" when
// the class has none.
func (cf *ClassFile) SuperClassName() (string, error) {
	if cf.SuperClass == 0 {
		return "", nil
	}
	return cf.Pool.ClassName(cf.SuperClass)
}

// InterfaceNames returns the internal names of the direct superinterfaces.
func (cf *ClassFile) InterfaceNames() ([]string, error) {
	names := make([]string, 0, len(cf.Interfaces))
	for _, idx := range cf.Interfaces {
		name, err := cf.Pool.ClassName(idx)
		if err != nil {
			return nil, fmt.Errorf("interface #%d: %w", idx, err)
		}
		names = append(names, name)
	}
	return names, nil
}

// PackageName splits the dotted package off an internal class name.
func PackageName(internal string) string {
	if i := strings.LastIndexByte(internal, '/'); i >= 0 {
		return strings.ReplaceAll(internal[:i], "/", ".")
	}
	return ""
}

// SimpleName returns the last segment of an internal class name.
func SimpleName(internal string) string {
	if i := strings.LastIndexByte(internal, '/'); i >= 0 {
		return internal[i+1:]
	}
	return internal
}

// ---------------------------------------------------------------------------
// Java version mapping
// ---------------------------------------------------------------------------

var majorVersionMap = map[int]string{
	45: "1.1", 46: "1.2", 47: "1.3", 48: "1.4",
	49: "5", 50: "6", 51: "7", 52: "8",
	53: "9", 54: "10", 55: "11", 56: "12",
	57: "13", 58: "14", 59: "15", 60: "16",
	61: "17", 62: "18", 63: "19", 64: "20",
	65: "21", 66: "22", 67: "23", 68: "24",
}

// JavaVersion returns the Java release that produces this major version.
func (cf *ClassFile) JavaVersion() string {
	if v, ok := majorVersionMap[int(cf.MajorVersion)]; ok {
		return v
	}
	return fmt.Sprintf("unknown (%d)", cf.MajorVersion)
}
