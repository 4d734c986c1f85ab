package bytecode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when an instruction's operands run past the
	// end of the code array.
	ErrTruncated = errors.New("truncated instruction")
	// ErrInvalidWide is returned when wide prefixes an opcode it cannot widen.
	ErrInvalidWide = errors.New("invalid wide instruction")
	// ErrInvalidSwitch is returned for a tableswitch whose high bound is
	// below its low bound, or a lookupswitch with a negative pair count.
	ErrInvalidSwitch = errors.New("invalid switch instruction")
)

// Instruction is one decoded instruction.
type Instruction struct {
	PC  int
	Len int
	Op  Opcode
	// Index is a constant pool index or a local variable slot. The _0.._3
	// load and store forms carry their implicit slot here.
	Index uint16
	// Value is the bipush/sipush constant, the iinc delta, the newarray
	// element code, or the absolute branch target.
	Value int32
	// Count is the multianewarray dimension count or the invokeinterface
	// argument count.
	Count  uint8
	Wide   bool
	Switch *Switch
}

// Switch holds the jump table of a tableswitch or lookupswitch. Targets are
// absolute code offsets.
type Switch struct {
	Default int
	Keys    []int32
	Targets []int
}

// Decode splits a code array into instructions.
func Decode(code []byte) ([]Instruction, error) {
	var out []Instruction
	for pc := 0; pc < len(code); {
		insn, err := decodeAt(code, pc)
		if err != nil {
			return out, err
		}
		out = append(out, insn)
		pc += insn.Len
	}
	return out, nil
}

type reader struct {
	code []byte
	pc   int
	op   Opcode
}

func (r reader) need(end int) error {
	if end > len(r.code) {
		return fmt.Errorf("%w: %s at pc %d needs %d bytes, %d left", ErrTruncated, r.op, r.pc, end-r.pc, len(r.code)-r.pc)
	}
	return nil
}

func (r reader) u8(at int) uint8 { return r.code[at] }

func (r reader) u16(at int) uint16 { return binary.BigEndian.Uint16(r.code[at : at+2]) }

func (r reader) s32(at int) int32 { return int32(binary.BigEndian.Uint32(r.code[at : at+4])) }

func decodeAt(code []byte, pc int) (Instruction, error) {
	op := Opcode(code[pc])
	r := reader{code: code, pc: pc, op: op}
	insn := Instruction{PC: pc, Op: op, Len: 1}

	switch {
	case op >= Iload0 && op <= Aload3:
		insn.Index = uint16(op-Iload0) % 4
		return insn, nil
	case op >= Istore0 && op <= Astore3:
		insn.Index = uint16(op-Istore0) % 4
		return insn, nil
	}

	switch op {
	// 1-byte signed value
	case Bipush:
		if err := r.need(pc + 2); err != nil {
			return insn, err
		}
		insn.Value = int32(int8(r.u8(pc + 1)))
		insn.Len = 2

	// 2-byte signed value
	case Sipush:
		if err := r.need(pc + 3); err != nil {
			return insn, err
		}
		insn.Value = int32(int16(r.u16(pc + 1)))
		insn.Len = 3

	// 1-byte local variable index or CP index
	case Ldc, Iload, Lload, Fload, Dload, Aload, Istore, Lstore, Fstore, Dstore, Astore, Ret:
		if err := r.need(pc + 2); err != nil {
			return insn, err
		}
		insn.Index = uint16(r.u8(pc + 1))
		insn.Len = 2

	case Newarray:
		if err := r.need(pc + 2); err != nil {
			return insn, err
		}
		insn.Value = int32(r.u8(pc + 1))
		insn.Len = 2

	// 2-byte CP index
	case LdcW, Ldc2W, Getstatic, Putstatic, Getfield, Putfield,
		Invokevirtual, Invokespecial, Invokestatic, New, Anewarray, Checkcast, Instanceof:
		if err := r.need(pc + 3); err != nil {
			return insn, err
		}
		insn.Index = r.u16(pc + 1)
		insn.Len = 3

	case Iinc:
		if err := r.need(pc + 3); err != nil {
			return insn, err
		}
		insn.Index = uint16(r.u8(pc + 1))
		insn.Value = int32(int8(r.u8(pc + 2)))
		insn.Len = 3

	// 2-byte signed branch offset
	case Ifeq, Ifne, Iflt, Ifge, Ifgt, Ifle, IfIcmpeq, IfIcmpne, IfIcmplt, IfIcmpge, IfIcmpgt, IfIcmple,
		IfAcmpeq, IfAcmpne, Goto, Jsr, Ifnull, Ifnonnull:
		if err := r.need(pc + 3); err != nil {
			return insn, err
		}
		insn.Value = int32(pc) + int32(int16(r.u16(pc+1)))
		insn.Len = 3

	// 4-byte signed branch offset
	case GotoW, JsrW:
		if err := r.need(pc + 5); err != nil {
			return insn, err
		}
		insn.Value = int32(pc) + r.s32(pc+1)
		insn.Len = 5

	// CP index + count + 0
	case Invokeinterface:
		if err := r.need(pc + 5); err != nil {
			return insn, err
		}
		insn.Index = r.u16(pc + 1)
		insn.Count = r.u8(pc + 3)
		insn.Len = 5

	// CP index + 0 + 0
	case Invokedynamic:
		if err := r.need(pc + 5); err != nil {
			return insn, err
		}
		insn.Index = r.u16(pc + 1)
		insn.Len = 5

	// CP index + dimensions
	case Multianewarray:
		if err := r.need(pc + 4); err != nil {
			return insn, err
		}
		insn.Index = r.u16(pc + 1)
		insn.Count = r.u8(pc + 3)
		insn.Len = 4

	case Tableswitch:
		return decodeTableswitch(r, insn)

	case Lookupswitch:
		return decodeLookupswitch(r, insn)

	case Wide:
		return decodeWide(r, insn)
	}
	return insn, nil
}

// switchStart returns the offset of the first operand, past the padding
// that aligns it to a multiple of four from the start of the code array.
func switchStart(pc int) int {
	start := pc + 1
	for start%4 != 0 {
		start++
	}
	return start
}

func decodeTableswitch(r reader, insn Instruction) (Instruction, error) {
	at := switchStart(r.pc)
	if err := r.need(at + 12); err != nil {
		return insn, err
	}
	def, low, high := r.s32(at), r.s32(at+4), r.s32(at+8)
	if high < low {
		return insn, fmt.Errorf("%w: tableswitch at pc %d has bounds %d..%d", ErrInvalidSwitch, r.pc, low, high)
	}
	n := int(int64(high) - int64(low) + 1)
	at += 12
	if err := r.need(at + 4*n); err != nil {
		return insn, err
	}
	sw := &Switch{Default: r.pc + int(def), Keys: make([]int32, n), Targets: make([]int, n)}
	for i := 0; i < n; i++ {
		sw.Keys[i] = low + int32(i)
		sw.Targets[i] = r.pc + int(r.s32(at+4*i))
	}
	insn.Switch = sw
	insn.Len = at + 4*n - r.pc
	return insn, nil
}

func decodeLookupswitch(r reader, insn Instruction) (Instruction, error) {
	at := switchStart(r.pc)
	if err := r.need(at + 8); err != nil {
		return insn, err
	}
	def, npairs := r.s32(at), r.s32(at+4)
	if npairs < 0 {
		return insn, fmt.Errorf("%w: lookupswitch at pc %d has %d pairs", ErrInvalidSwitch, r.pc, npairs)
	}
	n := int(npairs)
	at += 8
	if err := r.need(at + 8*n); err != nil {
		return insn, err
	}
	sw := &Switch{Default: r.pc + int(def), Keys: make([]int32, n), Targets: make([]int, n)}
	for i := 0; i < n; i++ {
		sw.Keys[i] = r.s32(at + 8*i)
		sw.Targets[i] = r.pc + int(r.s32(at+8*i+4))
	}
	insn.Switch = sw
	insn.Len = at + 8*n - r.pc
	return insn, nil
}

func decodeWide(r reader, insn Instruction) (Instruction, error) {
	if err := r.need(r.pc + 2); err != nil {
		return insn, err
	}
	op := Opcode(r.u8(r.pc + 1))
	insn.Op = op
	insn.Wide = true
	switch op {
	case Iinc:
		if err := r.need(r.pc + 6); err != nil {
			return insn, err
		}
		insn.Index = r.u16(r.pc + 2)
		insn.Value = int32(int16(r.u16(r.pc + 4)))
		insn.Len = 6
	case Iload, Lload, Fload, Dload, Aload, Istore, Lstore, Fstore, Dstore, Astore, Ret:
		if err := r.need(r.pc + 4); err != nil {
			return insn, err
		}
		insn.Index = r.u16(r.pc + 2)
		insn.Len = 4
	default:
		return insn, fmt.Errorf("%w: wide %s at pc %d", ErrInvalidWide, op, r.pc)
	}
	return insn, nil
}
