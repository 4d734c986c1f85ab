package jtype

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDescriptor is returned for descriptors that do not follow the
// JVM field or method descriptor grammar.
var ErrMalformedDescriptor = errors.New("malformed descriptor")

// ---------------------------------------------------------------------------
// Field descriptors
// ---------------------------------------------------------------------------

// Parse decodes a complete field descriptor (or V) into a Type.
func Parse(desc string) (Type, error) {
	t, n, err := parseType(desc, 0, true)
	if err != nil {
		return Unknown, err
	}
	if n != len(desc) {
		return Unknown, fmt.Errorf("%w: trailing %q in %q", ErrMalformedDescriptor, desc[n:], desc)
	}
	return t, nil
}

// Display decodes desc and returns its Java display form, e.g.
// "[[Ljava/lang/String;" becomes "java.lang.String[][]".
func Display(desc string) (string, error) {
	t, err := Parse(desc)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// FromClassName converts the name held by a CONSTANT_Class entry into a
// Type. Array classes are named by their descriptor.
func FromClassName(name string) (Type, error) {
	if name == "" {
		return Unknown, fmt.Errorf("%w: empty class name", ErrMalformedDescriptor)
	}
	if name[0] == '[' {
		return Parse(name)
	}
	return ClassOf(name), nil
}

func parseType(desc string, pos int, allowVoid bool) (Type, int, error) {
	if pos >= len(desc) {
		return Unknown, pos, fmt.Errorf("%w: unexpected end of %q", ErrMalformedDescriptor, desc)
	}
	ch := desc[pos]
	pos++
	switch ch {
	case 'B':
		return Byte, pos, nil
	case 'C':
		return Char, pos, nil
	case 'D':
		return Double, pos, nil
	case 'F':
		return Float, pos, nil
	case 'I':
		return Int, pos, nil
	case 'J':
		return Long, pos, nil
	case 'S':
		return Short, pos, nil
	case 'Z':
		return Boolean, pos, nil
	case 'V':
		if !allowVoid {
			return Unknown, pos, fmt.Errorf("%w: void not allowed here in %q", ErrMalformedDescriptor, desc)
		}
		return Void, pos, nil
	case '[':
		elem, next, err := parseType(desc, pos, false)
		if err != nil {
			return Unknown, next, err
		}
		return ArrayOf(elem), next, nil
	case 'L':
		end := strings.IndexByte(desc[pos:], ';')
		if end <= 0 {
			return Unknown, pos, fmt.Errorf("%w: unterminated class name in %q", ErrMalformedDescriptor, desc)
		}
		name := desc[pos : pos+end]
		return ClassOf(name), pos + end + 1, nil
	}
	return Unknown, pos, fmt.Errorf("%w: unexpected %q in %q", ErrMalformedDescriptor, ch, desc)
}

// ---------------------------------------------------------------------------
// Method descriptors
// ---------------------------------------------------------------------------

// ParseMethod decodes a method descriptor into its parameter types and
// return type.
func ParseMethod(desc string) ([]Type, Type, error) {
	if len(desc) == 0 || desc[0] != '(' {
		return nil, Unknown, fmt.Errorf("%w: method descriptor %q must start with '('", ErrMalformedDescriptor, desc)
	}
	pos := 1
	params := make([]Type, 0)
	for pos < len(desc) && desc[pos] != ')' {
		var (
			t   Type
			err error
		)
		t, pos, err = parseType(desc, pos, false)
		if err != nil {
			return nil, Unknown, err
		}
		params = append(params, t)
	}
	if pos >= len(desc) {
		return nil, Unknown, fmt.Errorf("%w: missing ')' in %q", ErrMalformedDescriptor, desc)
	}
	ret, err := Parse(desc[pos+1:])
	if err != nil {
		return nil, Unknown, err
	}
	return params, ret, nil
}

// ArgSlots returns the number of local variable slots the parameters of a
// method occupy, not counting the receiver.
func ArgSlots(params []Type) int {
	n := 0
	for _, p := range params {
		n += p.Slots()
	}
	return n
}
