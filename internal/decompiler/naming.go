package decompiler

import (
	"fmt"
	"strconv"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

// MethodInfo is what slot naming needs to know about a method. ArgCount is
// the number of local slots taken by the receiver and the parameters.
type MethodInfo struct {
	Static   bool
	ArgCount int
}

// NewMethodInfo derives MethodInfo from a method's flags and descriptor.
func NewMethodInfo(m *classfile.Method) (MethodInfo, error) {
	params, _, err := jtype.ParseMethod(m.Descriptor)
	if err != nil {
		return MethodInfo{}, fmt.Errorf("descriptor of %s: %w", m.Name, err)
	}
	info := MethodInfo{Static: m.IsStatic(), ArgCount: jtype.ArgSlots(params)}
	if !info.Static {
		info.ArgCount++
	}
	return info, nil
}

// SlotName names a local variable slot: this, arg<slot> or var<slot>.
func (mi MethodInfo) SlotName(slot uint16) string {
	if int(slot) < mi.ArgCount {
		if slot == 0 && !mi.Static {
			return "this"
		}
		return "arg" + strconv.Itoa(int(slot))
	}
	return "var" + strconv.Itoa(int(slot))
}

// IsArgument reports whether slot holds the receiver or a parameter.
func (mi MethodInfo) IsArgument(slot uint16) bool { return int(slot) < mi.ArgCount }

// Variable is a declared local.
type Variable struct {
	Type jtype.Type
	Slot uint16
}

// VariableTable records which local slots have been declared in the output.
type VariableTable struct {
	vars []Variable
}

// Declare registers slot and reports whether it was new. A slot keeps the
// type of its first declaration.
func (t *VariableTable) Declare(slot uint16, typ jtype.Type) bool {
	if _, ok := t.Lookup(slot); ok {
		return false
	}
	t.vars = append(t.vars, Variable{Type: typ, Slot: slot})
	return true
}

func (t *VariableTable) Lookup(slot uint16) (Variable, bool) {
	for _, v := range t.vars {
		if v.Slot == slot {
			return v, true
		}
	}
	return Variable{}, false
}

// Variables returns the declarations in the order they were made.
func (t *VariableTable) Variables() []Variable {
	return append([]Variable(nil), t.vars...)
}
