package decompiler

import (
	"fmt"
	"strings"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

func visibility(flags classfile.AccessFlags) []string {
	switch {
	case flags.Is(classfile.AccPublic):
		return []string{"public"}
	case flags.Is(classfile.AccPrivate):
		return []string{"private"}
	case flags.Is(classfile.AccProtected):
		return []string{"protected"}
	}
	return nil
}

func dotted(internal string) string { return strings.ReplaceAll(internal, "/", ".") }

// ClassHeader renders the declaration line of a class, without the opening
// brace.
func ClassHeader(cf *classfile.ClassFile, opts Options) (string, error) {
	name, err := cf.ThisClassName()
	if err != nil {
		return "", fmt.Errorf("this class: %w", err)
	}
	super, err := cf.SuperClassName()
	if err != nil {
		return "", fmt.Errorf("super class: %w", err)
	}
	interfaces, err := cf.InterfaceNames()
	if err != nil {
		return "", err
	}

	flags := cf.AccessFlags
	parts := visibility(flags)
	if flags.Is(classfile.AccSynthetic) {
		parts = append(parts, "/* synthetic */")
	}
	isInterface := flags.Is(classfile.AccInterface)
	switch {
	case flags.Is(classfile.AccAnnotation):
		parts = append(parts, "@interface")
	case isInterface:
		parts = append(parts, "interface")
	case flags.Is(classfile.AccEnum):
		parts = append(parts, "enum")
	default:
		if flags.Is(classfile.AccAbstract) {
			parts = append(parts, "abstract")
		}
		if flags.Is(classfile.AccFinal) {
			parts = append(parts, "final")
		}
		parts = append(parts, "class")
	}
	parts = append(parts, classfile.SimpleName(name))

	switch {
	case isInterface:
		// Annotation types implicitly extend java.lang.annotation.Annotation.
		var supers []string
		for _, i := range interfaces {
			if flags.Is(classfile.AccAnnotation) && i == "java/lang/annotation/Annotation" {
				continue
			}
			supers = append(supers, dotted(i))
		}
		if len(supers) > 0 {
			parts = append(parts, "extends", strings.Join(supers, ", "))
		}
		return strings.Join(parts, " "), nil
	case flags.Is(classfile.AccEnum):
	case super == "":
	case super == "java/lang/Object" && !opts.ShowObjectSuper:
	default:
		parts = append(parts, "extends", dotted(super))
	}

	if len(interfaces) > 0 {
		names := make([]string, len(interfaces))
		for i, iface := range interfaces {
			names[i] = dotted(iface)
		}
		parts = append(parts, "implements", strings.Join(names, ", "))
	}
	return strings.Join(parts, " "), nil
}

// FieldDeclaration renders a field as a statement.
func FieldDeclaration(f *classfile.Field) (string, error) {
	t, err := jtype.Display(f.Descriptor)
	if err != nil {
		return "", fmt.Errorf("field %s: %w", f.Name, err)
	}
	parts := visibility(f.AccessFlags)
	for _, m := range []struct {
		flag classfile.AccessFlags
		word string
	}{
		{classfile.AccSynthetic, "/* synthetic */"},
		{classfile.AccStatic, "static"},
		{classfile.AccFinal, "final"},
		{classfile.AccVolatile, "volatile"},
		{classfile.AccTransient, "transient"},
	} {
		if f.AccessFlags.Is(m.flag) {
			parts = append(parts, m.word)
		}
	}
	parts = append(parts, t, f.Name)
	return strings.Join(parts, " ") + ";", nil
}

// MethodSignature renders a method declaration without body or semicolon.
// Parameters are named after the local slots they arrive in. className is
// the internal name of the declaring class.
func MethodSignature(pool *classfile.ConstantPool, className string, m *classfile.Method) (string, error) {
	if m.Name == "<clinit>" {
		return "static", nil
	}
	params, ret, err := jtype.ParseMethod(m.Descriptor)
	if err != nil {
		return "", fmt.Errorf("method %s: %w", m.Name, err)
	}

	flags := m.AccessFlags
	parts := visibility(flags)
	for _, mod := range []struct {
		flag classfile.AccessFlags
		word string
	}{
		{classfile.AccSynthetic, "/* synthetic */"},
		{classfile.AccStatic, "static"},
		{classfile.AccAbstract, "abstract"},
		{classfile.AccFinal, "final"},
		{classfile.AccSynchronized, "synchronized"},
		{classfile.AccBridge, "/* bridge */"},
		{classfile.AccStrict, "/* strict */"},
		{classfile.AccNative, "native"},
	} {
		if flags.Is(mod.flag) {
			parts = append(parts, mod.word)
		}
	}

	name := m.Name
	if name == "<init>" {
		name = classfile.SimpleName(className)
	} else {
		parts = append(parts, ret.String())
	}

	info := MethodInfo{Static: m.IsStatic()}
	slot := 0
	if !info.Static {
		slot = 1
	}
	info.ArgCount = slot + jtype.ArgSlots(params)

	args := make([]string, len(params))
	for i, p := range params {
		t := p.String()
		if i == len(params)-1 && flags.Is(classfile.AccVarargs) && p.IsArray() {
			elem, _ := p.Elem()
			t = elem.String() + "..."
		}
		args[i] = t + " " + info.SlotName(uint16(slot))
		slot += p.Slots()
	}

	sig := strings.Join(append(parts, name), " ") + "(" + strings.Join(args, ", ") + ")"

	if len(m.Exceptions) > 0 {
		names := make([]string, len(m.Exceptions))
		for i, idx := range m.Exceptions {
			exc, err := pool.ClassName(idx)
			if err != nil {
				return "", fmt.Errorf("exception #%d of %s: %w", i, m.Name, err)
			}
			names[i] = dotted(exc)
		}
		sig += " throws " + strings.Join(names, ", ")
	}
	return sig, nil
}
