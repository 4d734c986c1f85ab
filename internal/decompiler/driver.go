// Package decompiler turns straight-line JVM bytecode into Java-like source
// by replaying the operand stack symbolically.
//
// Instructions that produce a value are deferred on a pending stack. When a
// statement-producing instruction needs operands, they are reconstructed by
// popping the pending stack recursively, so operands nest in the order the
// compiler emitted them.
package decompiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
)

var log = commonlog.GetLogger("jdecomp.decompiler")

// Options controls rendering.
type Options struct {
	// Indent is one level of indentation in class output.
	Indent string
	// DumpInstructions appends the instruction listing to each body.
	DumpInstructions bool
	// Strict fails a whole class when one method body fails.
	Strict bool
	// Workers bounds how many methods of a class are decompiled at once.
	Workers int
	// ShowObjectSuper keeps "extends java.lang.Object" in class headers.
	ShowObjectSuper bool
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Indent: "\t", Workers: 4}
}

// method is the per-method decompilation state.
type method struct {
	pool  *classfile.ConstantPool
	info  MethodInfo
	stack pendingStack
	vars  VariableTable
}

type kind uint8

const (
	kindUnsupported kind = iota
	kindValue
	kindStatement
	kindDup
	kindSwap
)

func classify(op bytecode.Opcode) kind {
	if _, ok := binaryOps[op]; ok {
		return kindValue
	}
	if _, ok := conversions[op]; ok {
		return kindValue
	}
	if _, ok := arrayLoads[op]; ok {
		return kindValue
	}
	switch {
	case isLocalLoad(op):
		return kindValue
	case isLocalStore(op):
		return kindStatement
	}

	switch op {
	case bytecode.AconstNull, bytecode.IconstM1, bytecode.Iconst0, bytecode.Iconst1, bytecode.Iconst2,
		bytecode.Iconst3, bytecode.Iconst4, bytecode.Iconst5, bytecode.Lconst0, bytecode.Lconst1,
		bytecode.Fconst0, bytecode.Fconst1, bytecode.Fconst2, bytecode.Dconst0, bytecode.Dconst1,
		bytecode.Bipush, bytecode.Sipush, bytecode.Ldc, bytecode.LdcW, bytecode.Ldc2W,
		bytecode.Ineg, bytecode.Lneg, bytecode.Fneg, bytecode.Dneg,
		bytecode.Lcmp, bytecode.Fcmpl, bytecode.Fcmpg, bytecode.Dcmpl, bytecode.Dcmpg,
		bytecode.Aaload, bytecode.Arraylength,
		bytecode.New, bytecode.Newarray, bytecode.Anewarray, bytecode.Multianewarray,
		bytecode.Getstatic, bytecode.Getfield, bytecode.Checkcast, bytecode.Instanceof,
		bytecode.Invokevirtual, bytecode.Invokespecial, bytecode.Invokestatic,
		bytecode.Invokeinterface, bytecode.Invokedynamic:
		return kindValue

	case bytecode.Iastore, bytecode.Lastore, bytecode.Fastore, bytecode.Dastore,
		bytecode.Aastore, bytecode.Bastore, bytecode.Castore, bytecode.Sastore,
		bytecode.Putstatic, bytecode.Putfield,
		bytecode.Return, bytecode.Ireturn, bytecode.Lreturn, bytecode.Freturn, bytecode.Dreturn, bytecode.Areturn,
		bytecode.Athrow, bytecode.Pop, bytecode.Pop2, bytecode.Nop, bytecode.Breakpoint, bytecode.Iinc:
		return kindStatement

	case bytecode.Dup:
		return kindDup
	case bytecode.Swap:
		return kindSwap
	}
	return kindUnsupported
}

// Body decompiles a decoded instruction sequence into source lines joined
// by newlines. The pool is only read.
func Body(pool *classfile.ConstantPool, info MethodInfo, insns []bytecode.Instruction, opts Options) (string, error) {
	m := &method{pool: pool, info: info}
	var lines []string

	for _, insn := range insns {
		switch classify(insn.Op) {
		case kindValue:
			m.stack.push(insn)

		case kindStatement:
			line, err := m.statement(insn)
			if err != nil {
				return "", wrapAt(insn, err)
			}
			if line != "" {
				lines = append(lines, line)
			}

		case kindDup:
			v, err := m.value()
			if err != nil {
				return "", wrapAt(insn, err)
			}
			m.stack.pushValue(v)
			m.stack.pushValue(v)

		case kindSwap:
			top, err := m.value()
			if err != nil {
				return "", wrapAt(insn, err)
			}
			below, err := m.value()
			if err != nil {
				return "", wrapAt(insn, err)
			}
			m.stack.pushValue(top)
			m.stack.pushValue(below)

		default:
			return "", unimplemented(insn)
		}
	}

	if m.stack.len() > 0 {
		log.Debugf("%d entries left on the pending operand stack", m.stack.len())
		lines = append(lines, m.stack.describe(pool)...)
	}

	if opts.DumpInstructions {
		lines = append(lines, "// bytecode:")
		for _, insn := range insns {
			for _, l := range strings.Split(bytecode.Format(insn, pool), "\n") {
				lines = append(lines, "// "+l)
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}

func wrapAt(insn bytecode.Instruction, err error) error {
	var uerr *UnimplementedError
	if errors.As(err, &uerr) {
		return err
	}
	return fmt.Errorf("%s at pc %d: %w", insn.Op, insn.PC, err)
}

// Method decodes and decompiles one method. It fails for methods without
// code.
func Method(pool *classfile.ConstantPool, m *classfile.Method, opts Options) (string, error) {
	if m.Code == nil {
		return "", fmt.Errorf("method %s%s has no code", m.Name, m.Descriptor)
	}
	info, err := NewMethodInfo(m)
	if err != nil {
		return "", err
	}
	insns, err := bytecode.Decode(m.Code.Bytes)
	if err != nil {
		return "", fmt.Errorf("method %s%s: %w", m.Name, m.Descriptor, err)
	}
	log.Debugf("decompiling %s%s: %d instructions, %d argument slots", m.Name, m.Descriptor, len(insns), info.ArgCount)
	body, err := Body(pool, info, insns, opts)
	if err != nil {
		return "", fmt.Errorf("method %s%s: %w", m.Name, m.Descriptor, err)
	}
	return body, nil
}
