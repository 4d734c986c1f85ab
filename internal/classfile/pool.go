package classfile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIndex is returned for index 0 and indexes past the end of
	// the pool.
	ErrInvalidIndex = errors.New("invalid constant pool index")
	// ErrKindMismatch is wrapped by *KindError.
	ErrKindMismatch = errors.New("constant pool kind mismatch")
)

// KindError reports an entry whose kind differs from what the caller
// expected.
type KindError struct {
	Index uint16
	Want  []Tag
	Got   Tag
}

func (e *KindError) Error() string {
	want := make([]string, len(e.Want))
	for i, t := range e.Want {
		want[i] = t.String()
	}
	return fmt.Sprintf("constant pool #%d: expected %s, found %s", e.Index, strings.Join(want, " or "), e.Got)
}

func (e *KindError) Unwrap() error { return ErrKindMismatch }

// MemberRef is a resolved Fieldref, Methodref or InterfaceMethodref.
type MemberRef struct {
	Tag        Tag
	Class      string // internal name, e.g. java/lang/String
	Name       string
	Descriptor string
}

// Owner returns the dotted name of the declaring class.
func (m MemberRef) Owner() string {
	return strings.ReplaceAll(m.Class, "/", ".")
}

// ConstantPool is a read-only, 1-based table of constants. Lookups never
// modify it, so a pool may be shared between goroutines.
type ConstantPool struct {
	entries []Constant
}

// NewConstantPool wraps entries, where entries[0] is pool index 1. A nil
// entry is treated as a placeholder.
func NewConstantPool(entries []Constant) *ConstantPool {
	cp := &ConstantPool{entries: make([]Constant, len(entries))}
	for i, c := range entries {
		if c == nil {
			c = &ConstantPlaceholder{}
		}
		cp.entries[i] = c
	}
	return cp
}

// Len returns the number of slots, placeholders included.
func (cp *ConstantPool) Len() int { return len(cp.entries) }

// Get returns the entry at index.
func (cp *ConstantPool) Get(index uint16) (Constant, error) {
	if index == 0 || int(index) > len(cp.entries) {
		return nil, fmt.Errorf("%w: #%d (pool has %d entries)", ErrInvalidIndex, index, len(cp.entries))
	}
	return cp.entries[index-1], nil
}

func (cp *ConstantPool) expect(index uint16, want ...Tag) (Constant, error) {
	c, err := cp.Get(index)
	if err != nil {
		return nil, err
	}
	for _, t := range want {
		if c.Tag() == t {
			return c, nil
		}
	}
	return nil, &KindError{Index: index, Want: want, Got: c.Tag()}
}

// Utf8 returns the text of a Utf8 entry.
func (cp *ConstantPool) Utf8(index uint16) (string, error) {
	c, err := cp.expect(index, TagUtf8)
	if err != nil {
		return "", err
	}
	return c.(*ConstantUtf8).Value, nil
}

// ClassName returns the internal name held by a Class entry.
func (cp *ConstantPool) ClassName(index uint16) (string, error) {
	c, err := cp.expect(index, TagClass)
	if err != nil {
		return "", err
	}
	return cp.Utf8(c.(*ConstantClass).NameIndex)
}

// NameAndType returns the name and descriptor of a NameAndType entry.
func (cp *ConstantPool) NameAndType(index uint16) (string, string, error) {
	c, err := cp.expect(index, TagNameAndType)
	if err != nil {
		return "", "", err
	}
	nat := c.(*ConstantNameAndType)
	name, err := cp.Utf8(nat.NameIndex)
	if err != nil {
		return "", "", err
	}
	desc, err := cp.Utf8(nat.DescriptorIndex)
	if err != nil {
		return "", "", err
	}
	return name, desc, nil
}

// FieldRef resolves a Fieldref entry.
func (cp *ConstantPool) FieldRef(index uint16) (MemberRef, error) {
	c, err := cp.expect(index, TagFieldref)
	if err != nil {
		return MemberRef{}, err
	}
	f := c.(*ConstantFieldref)
	return cp.member(TagFieldref, f.ClassIndex, f.NameAndTypeIndex)
}

// MethodRef resolves a Methodref or InterfaceMethodref entry; since Java 8
// invokestatic and invokespecial may name either.
func (cp *ConstantPool) MethodRef(index uint16) (MemberRef, error) {
	c, err := cp.expect(index, TagMethodref, TagInterfaceMethodref)
	if err != nil {
		return MemberRef{}, err
	}
	switch m := c.(type) {
	case *ConstantMethodref:
		return cp.member(TagMethodref, m.ClassIndex, m.NameAndTypeIndex)
	case *ConstantInterfaceMethodref:
		return cp.member(TagInterfaceMethodref, m.ClassIndex, m.NameAndTypeIndex)
	}
	return MemberRef{}, &KindError{Index: index, Want: []Tag{TagMethodref, TagInterfaceMethodref}, Got: c.Tag()}
}

// InterfaceMethodRef resolves an InterfaceMethodref entry.
func (cp *ConstantPool) InterfaceMethodRef(index uint16) (MemberRef, error) {
	c, err := cp.expect(index, TagInterfaceMethodref)
	if err != nil {
		return MemberRef{}, err
	}
	m := c.(*ConstantInterfaceMethodref)
	return cp.member(TagInterfaceMethodref, m.ClassIndex, m.NameAndTypeIndex)
}

func (cp *ConstantPool) member(tag Tag, classIndex, natIndex uint16) (MemberRef, error) {
	class, err := cp.ClassName(classIndex)
	if err != nil {
		return MemberRef{}, err
	}
	name, desc, err := cp.NameAndType(natIndex)
	if err != nil {
		return MemberRef{}, err
	}
	return MemberRef{Tag: tag, Class: class, Name: name, Descriptor: desc}, nil
}

// InvokeDynamic resolves the bootstrap index, name and descriptor of an
// InvokeDynamic entry.
func (cp *ConstantPool) InvokeDynamic(index uint16) (uint16, string, string, error) {
	c, err := cp.expect(index, TagInvokeDynamic)
	if err != nil {
		return 0, "", "", err
	}
	indy := c.(*ConstantInvokeDynamic)
	name, desc, err := cp.NameAndType(indy.NameAndTypeIndex)
	if err != nil {
		return 0, "", "", err
	}
	return indy.BootstrapMethodAttrIndex, name, desc, nil
}

// Loadable returns the entry an ldc or ldc_w instruction pushes: an
// Integer, Float, String or Class.
func (cp *ConstantPool) Loadable(index uint16) (Constant, error) {
	return cp.expect(index, TagInteger, TagFloat, TagString, TagClass)
}

// LoadableWide returns the Long or Double entry an ldc2_w instruction pushes.
func (cp *ConstantPool) LoadableWide(index uint16) (Constant, error) {
	return cp.expect(index, TagLong, TagDouble)
}

// Describe renders an entry for listings and diagnostics. It never fails;
// unresolvable entries render as "#index".
func (cp *ConstantPool) Describe(index uint16) string {
	c, err := cp.Get(index)
	if err != nil {
		return fmt.Sprintf("#%d", index)
	}

	switch v := c.(type) {
	case *ConstantClass:
		if name, err := cp.Utf8(v.NameIndex); err == nil {
			return strings.ReplaceAll(name, "/", ".")
		}
	case *ConstantString:
		if s, err := cp.Utf8(v.StringIndex); err == nil {
			if r := []rune(s); len(r) > 40 {
				s = string(r[:37]) + "..."
			}
			return fmt.Sprintf("%q", s)
		}
	case *ConstantFieldref, *ConstantMethodref, *ConstantInterfaceMethodref:
		var (
			m   MemberRef
			err error
		)
		if _, ok := v.(*ConstantFieldref); ok {
			m, err = cp.FieldRef(index)
		} else {
			m, err = cp.MethodRef(index)
		}
		if err == nil {
			return m.Owner() + "." + m.Name + ":" + m.Descriptor
		}
	case *ConstantNameAndType:
		if name, desc, err := cp.NameAndType(index); err == nil {
			return name + ":" + desc
		}
	case *ConstantInteger:
		return fmt.Sprintf("%d", v.Value)
	case *ConstantFloat:
		return fmt.Sprintf("%gf", v.Value)
	case *ConstantLong:
		return fmt.Sprintf("%dL", v.Value)
	case *ConstantDouble:
		return fmt.Sprintf("%gd", v.Value)
	case *ConstantUtf8:
		return v.Value
	case *ConstantMethodType:
		if desc, err := cp.Utf8(v.DescriptorIndex); err == nil {
			return "MethodType " + desc
		}
	case *ConstantMethodHandle:
		if ref, err := cp.Get(v.ReferenceIndex); err == nil && ref.Tag() != TagMethodHandle {
			return fmt.Sprintf("MethodHandle %d:%s", v.ReferenceKind, cp.Describe(v.ReferenceIndex))
		}
		return fmt.Sprintf("MethodHandle %d:#%d", v.ReferenceKind, v.ReferenceIndex)
	case *ConstantInvokeDynamic:
		if _, name, desc, err := cp.InvokeDynamic(index); err == nil {
			return fmt.Sprintf("InvokeDynamic #%d:%s:%s", v.BootstrapMethodAttrIndex, name, desc)
		}
	}
	return fmt.Sprintf("#%d", index)
}
