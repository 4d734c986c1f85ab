package decompiler

import (
	"errors"
	"fmt"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
)

var (
	// ErrStackUnderflow is returned when an instruction needs an operand
	// that no earlier instruction pushed.
	ErrStackUnderflow = errors.New("operand stack underflow")
	// ErrUnimplementedOpcode is wrapped by *UnimplementedError.
	ErrUnimplementedOpcode = errors.New("unimplemented opcode")
)

// UnimplementedError reports an instruction the decompiler has no rule for.
type UnimplementedError struct {
	Op bytecode.Opcode
	PC int
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("unimplemented opcode %s at pc %d", e.Op, e.PC)
}

func (e *UnimplementedError) Unwrap() error { return ErrUnimplementedOpcode }

func unimplemented(insn bytecode.Instruction) error {
	return &UnimplementedError{Op: insn.Op, PC: insn.PC}
}
