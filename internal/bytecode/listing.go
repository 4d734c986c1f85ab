package bytecode

import (
	"fmt"
	"strings"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

// Describer renders a constant pool entry for a listing.
type Describer interface {
	Describe(index uint16) string
}

// Listing renders instructions one per line in the style of javap -c.
func Listing(insns []Instruction, pool Describer) string {
	var sb strings.Builder
	for _, insn := range insns {
		sb.WriteString(Format(insn, pool))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Format renders one instruction. Switches span several lines.
func Format(insn Instruction, pool Describer) string {
	name := insn.Op.String()
	if insn.Wide {
		name = "wide " + name
	}
	ref := func() string {
		if pool == nil {
			return ""
		}
		return " // " + pool.Describe(insn.Index)
	}

	op := insn.Op
	switch {
	case op >= Iload0 && op <= Aload3, op >= Istore0 && op <= Astore3:
		return fmt.Sprintf("%4d: %s", insn.PC, name)
	}

	switch op {
	case Bipush, Sipush:
		return fmt.Sprintf("%4d: %-16s %d", insn.PC, name, insn.Value)

	case Iload, Lload, Fload, Dload, Aload, Istore, Lstore, Fstore, Dstore, Astore, Ret:
		return fmt.Sprintf("%4d: %-16s %d", insn.PC, name, insn.Index)

	case Newarray:
		if t, err := jtype.FromArrayCode(insn.Value); err == nil {
			return fmt.Sprintf("%4d: %-16s %s", insn.PC, name, t)
		}
		return fmt.Sprintf("%4d: %-16s %d", insn.PC, name, insn.Value)

	case Ldc, LdcW, Ldc2W, Getstatic, Putstatic, Getfield, Putfield,
		Invokevirtual, Invokespecial, Invokestatic, Invokedynamic, New, Anewarray, Checkcast, Instanceof:
		return fmt.Sprintf("%4d: %-16s #%d%s", insn.PC, name, insn.Index, ref())

	case Invokeinterface, Multianewarray:
		return fmt.Sprintf("%4d: %-16s #%d, %d%s", insn.PC, name, insn.Index, insn.Count, ref())

	case Iinc:
		return fmt.Sprintf("%4d: %-16s %d, %d", insn.PC, name, insn.Index, insn.Value)

	case Ifeq, Ifne, Iflt, Ifge, Ifgt, Ifle, IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmpge, IfIcmpgt, IfIcmple,
		IfAcmpeq, IfAcmpne, Goto, Jsr, Ifnull, Ifnonnull, GotoW, JsrW:
		return fmt.Sprintf("%4d: %-16s %d", insn.PC, name, insn.Value)

	case Tableswitch, Lookupswitch:
		var sb strings.Builder
		fmt.Fprintf(&sb, "%4d: %s {", insn.PC, name)
		if insn.Switch != nil {
			for i, key := range insn.Switch.Keys {
				fmt.Fprintf(&sb, "\n%12d: %d", key, insn.Switch.Targets[i])
			}
			fmt.Fprintf(&sb, "\n     default: %d", insn.Switch.Default)
		}
		sb.WriteString("\n      }")
		return sb.String()
	}

	if !op.Defined() {
		return fmt.Sprintf("%4d: %s (unknown)", insn.PC, name)
	}
	return fmt.Sprintf("%4d: %s", insn.PC, name)
}
