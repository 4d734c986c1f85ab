package decompiler

import (
	"strconv"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

// statement emits the source line for a statement-producing instruction.
// It returns "" for instructions that only discard values.
func (m *method) statement(insn bytecode.Instruction) (string, error) {
	op := insn.Op

	if isLocalStore(op) {
		return m.store(insn)
	}

	switch op {
	case bytecode.Iastore, bytecode.Lastore, bytecode.Fastore, bytecode.Dastore,
		bytecode.Aastore, bytecode.Bastore, bytecode.Castore, bytecode.Sastore:
		value, err := m.value()
		if err != nil {
			return "", err
		}
		index, err := m.value()
		if err != nil {
			return "", err
		}
		ref, err := m.value()
		if err != nil {
			return "", err
		}
		return ref.operand(precPrimary) + "[" + index.Expr + "] = " + value.Expr + ";", nil

	case bytecode.Putstatic:
		ref, err := m.pool.FieldRef(insn.Index)
		if err != nil {
			return "", err
		}
		value, err := m.value()
		if err != nil {
			return "", err
		}
		return ref.Owner() + "." + ref.Name + " = " + value.Expr + ";", nil

	case bytecode.Putfield:
		ref, err := m.pool.FieldRef(insn.Index)
		if err != nil {
			return "", err
		}
		value, err := m.value()
		if err != nil {
			return "", err
		}
		receiver, err := m.value()
		if err != nil {
			return "", err
		}
		return receiver.operand(precPrimary) + "." + ref.Name + " = " + value.Expr + ";", nil

	case bytecode.Return:
		return "return;", nil

	case bytecode.Ireturn, bytecode.Lreturn, bytecode.Freturn, bytecode.Dreturn, bytecode.Areturn:
		value, err := m.value()
		if err != nil {
			return "", err
		}
		return "return " + value.Expr + ";", nil

	case bytecode.Athrow:
		value, err := m.value()
		if err != nil {
			return "", err
		}
		return "throw " + value.Expr + ";", nil

	case bytecode.Pop:
		_, err := m.value()
		return "", err

	case bytecode.Pop2:
		first, err := m.value()
		if err != nil {
			return "", err
		}
		if !first.Type.Wide() {
			_, err = m.value()
		}
		return "", err

	case bytecode.Nop:
		return "// nop", nil

	case bytecode.Breakpoint:
		return "// breakpoint", nil

	case bytecode.Iinc:
		name := m.info.SlotName(insn.Index)
		if insn.Value < 0 {
			return name + " -= " + strconv.Itoa(-int(insn.Value)) + ";", nil
		}
		return name + " += " + strconv.Itoa(int(insn.Value)) + ";", nil
	}

	return "", unimplemented(insn)
}

// store assigns to a local. The first store to a slot past the arguments
// declares it.
func (m *method) store(insn bytecode.Instruction) (string, error) {
	value, err := m.value()
	if err != nil {
		return "", err
	}
	name := m.info.SlotName(insn.Index)
	if m.info.IsArgument(insn.Index) {
		return name + " = " + value.Expr + ";", nil
	}

	t := value.Type
	if t.IsUnknown() {
		family, _ := localFamily(insn.Op)
		t = localFamilies[family]
		if t.IsUnknown() {
			t = jtype.Object
		}
	}
	if m.vars.Declare(insn.Index, t) {
		return t.String() + " " + name + " = " + value.Expr + ";", nil
	}
	return name + " = " + value.Expr + ";", nil
}
