package decompiler

import (
	"fmt"
	"strings"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/bytecode"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/classfile"
	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

type binaryOp struct {
	symbol string
	prec   int
	result jtype.Type
}

var binaryOps = map[bytecode.Opcode]binaryOp{
	bytecode.Iadd:  {"+", precAdditive, jtype.Int},
	bytecode.Ladd:  {"+", precAdditive, jtype.Long},
	bytecode.Fadd:  {"+", precAdditive, jtype.Float},
	bytecode.Dadd:  {"+", precAdditive, jtype.Double},
	bytecode.Isub:  {"-", precAdditive, jtype.Int},
	bytecode.Lsub:  {"-", precAdditive, jtype.Long},
	bytecode.Fsub:  {"-", precAdditive, jtype.Float},
	bytecode.Dsub:  {"-", precAdditive, jtype.Double},
	bytecode.Imul:  {"*", precMultiplicative, jtype.Int},
	bytecode.Lmul:  {"*", precMultiplicative, jtype.Long},
	bytecode.Fmul:  {"*", precMultiplicative, jtype.Float},
	bytecode.Dmul:  {"*", precMultiplicative, jtype.Double},
	bytecode.Idiv:  {"/", precMultiplicative, jtype.Int},
	bytecode.Ldiv:  {"/", precMultiplicative, jtype.Long},
	bytecode.Fdiv:  {"/", precMultiplicative, jtype.Float},
	bytecode.Ddiv:  {"/", precMultiplicative, jtype.Double},
	bytecode.Irem:  {"%", precMultiplicative, jtype.Int},
	bytecode.Lrem:  {"%", precMultiplicative, jtype.Long},
	bytecode.Frem:  {"%", precMultiplicative, jtype.Float},
	bytecode.Drem:  {"%", precMultiplicative, jtype.Double},
	bytecode.Ishl:  {"<<", precShift, jtype.Int},
	bytecode.Lshl:  {"<<", precShift, jtype.Long},
	bytecode.Ishr:  {">>", precShift, jtype.Int},
	bytecode.Lshr:  {">>", precShift, jtype.Long},
	bytecode.Iushr: {">>>", precShift, jtype.Int},
	bytecode.Lushr: {">>>", precShift, jtype.Long},
	bytecode.Iand:  {"&", precAnd, jtype.Int},
	bytecode.Land:  {"&", precAnd, jtype.Long},
	bytecode.Ior:   {"|", precOr, jtype.Int},
	bytecode.Lor:   {"|", precOr, jtype.Long},
	bytecode.Ixor:  {"^", precXor, jtype.Int},
	bytecode.Lxor:  {"^", precXor, jtype.Long},
}

var conversions = map[bytecode.Opcode]jtype.Type{
	bytecode.I2l: jtype.Long,
	bytecode.I2f: jtype.Float,
	bytecode.I2d: jtype.Double,
	bytecode.L2i: jtype.Int,
	bytecode.L2f: jtype.Float,
	bytecode.L2d: jtype.Double,
	bytecode.F2i: jtype.Int,
	bytecode.F2l: jtype.Long,
	bytecode.F2d: jtype.Double,
	bytecode.D2i: jtype.Int,
	bytecode.D2l: jtype.Long,
	bytecode.D2f: jtype.Float,
	bytecode.I2b: jtype.Byte,
	bytecode.I2c: jtype.Char,
	bytecode.I2s: jtype.Short,
}

// arrayLoads maps the primitive array loads to their element type. aaload
// takes its type from the array reference instead.
var arrayLoads = map[bytecode.Opcode]jtype.Type{
	bytecode.Iaload: jtype.Int,
	bytecode.Laload: jtype.Long,
	bytecode.Faload: jtype.Float,
	bytecode.Daload: jtype.Double,
	bytecode.Baload: jtype.Byte,
	bytecode.Caload: jtype.Char,
	bytecode.Saload: jtype.Short,
}

// localFamilies is indexed by the offset of a load or store within its
// i/l/f/d/a group.
var localFamilies = [5]jtype.Type{jtype.Int, jtype.Long, jtype.Float, jtype.Double, jtype.Unknown}

// localFamily returns the offset of a local load or store opcode within
// the i/l/f/d/a group.
func localFamily(op bytecode.Opcode) (int, bool) {
	switch {
	case op >= bytecode.Iload && op <= bytecode.Aload:
		return int(op - bytecode.Iload), true
	case op >= bytecode.Iload0 && op <= bytecode.Aload3:
		return int(op-bytecode.Iload0) / 4, true
	case op >= bytecode.Istore && op <= bytecode.Astore:
		return int(op - bytecode.Istore), true
	case op >= bytecode.Istore0 && op <= bytecode.Astore3:
		return int(op-bytecode.Istore0) / 4, true
	}
	return 0, false
}

func isLocalLoad(op bytecode.Opcode) bool {
	return op >= bytecode.Iload && op <= bytecode.Aload3
}

func isLocalStore(op bytecode.Opcode) bool {
	return op >= bytecode.Istore && op <= bytecode.Astore3
}

// value pops the top pending entry and reconstructs its expression.
func (m *method) value() (Value, error) {
	e, err := m.stack.pop()
	if err != nil {
		return Value{}, err
	}
	if e.value != nil {
		return *e.value, nil
	}
	return m.reconstruct(e.insn)
}

// values pops n values and returns them in push order.
func (m *method) values(n int) ([]Value, error) {
	out := make([]Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := m.value()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *method) reconstruct(insn bytecode.Instruction) (Value, error) {
	op := insn.Op

	if bin, ok := binaryOps[op]; ok {
		operands, err := m.values(2)
		if err != nil {
			return Value{}, err
		}
		return binary(operands[0], bin.symbol, operands[1], bin.prec, bin.result), nil
	}
	if target, ok := conversions[op]; ok {
		v, err := m.value()
		if err != nil {
			return Value{}, err
		}
		return cast(v, target), nil
	}
	if elem, ok := arrayLoads[op]; ok {
		return m.arrayLoad(elem)
	}
	if isLocalLoad(op) {
		family, _ := localFamily(op)
		return primary(m.info.SlotName(insn.Index), localFamilies[family]), nil
	}

	switch op {
	case bytecode.AconstNull:
		return primary("null", jtype.Unknown), nil
	case bytecode.IconstM1, bytecode.Iconst0, bytecode.Iconst1, bytecode.Iconst2,
		bytecode.Iconst3, bytecode.Iconst4, bytecode.Iconst5:
		return intLiteral(int32(op) - int32(bytecode.Iconst0)), nil
	case bytecode.Bipush, bytecode.Sipush:
		return intLiteral(insn.Value), nil
	case bytecode.Lconst0, bytecode.Lconst1:
		return longLiteral(int64(op - bytecode.Lconst0)), nil
	case bytecode.Fconst0, bytecode.Fconst1, bytecode.Fconst2:
		return floatLiteral(float32(op - bytecode.Fconst0)), nil
	case bytecode.Dconst0, bytecode.Dconst1:
		return doubleLiteral(float64(op - bytecode.Dconst0)), nil

	case bytecode.Ldc, bytecode.LdcW:
		c, err := m.pool.Loadable(insn.Index)
		if err != nil {
			return Value{}, err
		}
		return m.constant(c)
	case bytecode.Ldc2W:
		c, err := m.pool.LoadableWide(insn.Index)
		if err != nil {
			return Value{}, err
		}
		return m.constant(c)

	case bytecode.Ineg, bytecode.Lneg, bytecode.Fneg, bytecode.Dneg:
		v, err := m.value()
		if err != nil {
			return Value{}, err
		}
		return negate(v), nil

	case bytecode.Lcmp, bytecode.Fcmpl, bytecode.Fcmpg, bytecode.Dcmpl, bytecode.Dcmpg:
		operands, err := m.values(2)
		if err != nil {
			return Value{}, err
		}
		return primary(fmt.Sprintf("%s(%s, %s)", op, operands[0].Expr, operands[1].Expr), jtype.Int), nil

	case bytecode.Aaload:
		return m.arrayLoad(jtype.Unknown)

	case bytecode.Arraylength:
		ref, err := m.value()
		if err != nil {
			return Value{}, err
		}
		return primary(ref.operand(precPrimary)+".length", jtype.Int), nil

	case bytecode.New:
		t, err := m.classType(insn.Index)
		if err != nil {
			return Value{}, err
		}
		return Value{Expr: "new " + t.String() + "()", Type: t, prec: precCreate}, nil

	case bytecode.Newarray:
		elem, err := jtype.FromArrayCode(insn.Value)
		if err != nil {
			return Value{}, err
		}
		return m.newArray(jtype.ArrayOf(elem), 1)

	case bytecode.Anewarray:
		elem, err := m.classType(insn.Index)
		if err != nil {
			return Value{}, err
		}
		return m.newArray(jtype.ArrayOf(elem), 1)

	case bytecode.Multianewarray:
		t, err := m.classType(insn.Index)
		if err != nil {
			return Value{}, err
		}
		return m.newArray(t, int(insn.Count))

	case bytecode.Getstatic:
		ref, err := m.pool.FieldRef(insn.Index)
		if err != nil {
			return Value{}, err
		}
		t, err := jtype.Parse(ref.Descriptor)
		if err != nil {
			return Value{}, err
		}
		return primary(ref.Owner()+"."+ref.Name, t), nil

	case bytecode.Getfield:
		ref, err := m.pool.FieldRef(insn.Index)
		if err != nil {
			return Value{}, err
		}
		t, err := jtype.Parse(ref.Descriptor)
		if err != nil {
			return Value{}, err
		}
		receiver, err := m.value()
		if err != nil {
			return Value{}, err
		}
		return primary(receiver.operand(precPrimary)+"."+ref.Name, t), nil

	case bytecode.Checkcast:
		t, err := m.classType(insn.Index)
		if err != nil {
			return Value{}, err
		}
		v, err := m.value()
		if err != nil {
			return Value{}, err
		}
		return cast(v, t), nil

	case bytecode.Instanceof:
		t, err := m.classType(insn.Index)
		if err != nil {
			return Value{}, err
		}
		v, err := m.value()
		if err != nil {
			return Value{}, err
		}
		expr := v.operand(precRelational) + " instanceof " + t.String()
		return Value{Expr: expr, Type: jtype.Boolean, prec: precRelational}, nil

	case bytecode.Invokevirtual, bytecode.Invokespecial, bytecode.Invokestatic, bytecode.Invokeinterface:
		ref, err := m.pool.MethodRef(insn.Index)
		if err != nil {
			return Value{}, err
		}
		return primary(ref.Owner()+"."+ref.Name, jtype.Unknown), nil

	case bytecode.Invokedynamic:
		bootstrap, name, _, err := m.pool.InvokeDynamic(insn.Index)
		if err != nil {
			return Value{}, err
		}
		return primary(fmt.Sprintf("InvokeDynamic#%d.%s", bootstrap, name), jtype.Unknown), nil
	}

	return Value{}, unimplemented(insn)
}

// constant renders a loadable constant pool entry.
func (m *method) constant(c classfile.Constant) (Value, error) {
	switch v := c.(type) {
	case *classfile.ConstantInteger:
		return intLiteral(v.Value), nil
	case *classfile.ConstantFloat:
		return floatLiteral(v.Value), nil
	case *classfile.ConstantLong:
		return longLiteral(v.Value), nil
	case *classfile.ConstantDouble:
		return doubleLiteral(v.Value), nil
	case *classfile.ConstantString:
		s, err := m.pool.Utf8(v.StringIndex)
		if err != nil {
			return Value{}, err
		}
		return primary(quote(s), jtype.String), nil
	case *classfile.ConstantClass:
		name, err := m.pool.Utf8(v.NameIndex)
		if err != nil {
			return Value{}, err
		}
		t, err := jtype.FromClassName(name)
		if err != nil {
			return Value{}, err
		}
		return primary(t.String()+".class", jtype.Class), nil
	}
	return Value{}, fmt.Errorf("%w: cannot load %s constant", classfile.ErrKindMismatch, c.Tag())
}

func (m *method) classType(index uint16) (jtype.Type, error) {
	name, err := m.pool.ClassName(index)
	if err != nil {
		return jtype.Unknown, err
	}
	return jtype.FromClassName(name)
}

// arrayLoad pops an index and an array reference. A known elem wins;
// otherwise the element type is the reference type minus one dimension.
func (m *method) arrayLoad(elem jtype.Type) (Value, error) {
	index, err := m.value()
	if err != nil {
		return Value{}, err
	}
	ref, err := m.value()
	if err != nil {
		return Value{}, err
	}
	t := elem
	switch {
	case elem.Kind == jtype.KindByte && ref.Type.IsArray():
		// baload also reads boolean arrays.
		if inner, err := ref.Type.Elem(); err == nil && inner.Kind == jtype.KindBoolean {
			t = inner
		}
	case elem.IsUnknown() && !ref.Type.IsUnknown():
		t, err = ref.Type.Elem()
		if err != nil {
			return Value{}, fmt.Errorf("%s[%s]: %w", ref.Expr, index.Expr, err)
		}
	}
	return primary(ref.operand(precPrimary)+"["+index.Expr+"]", t), nil
}

// newArray pops dims sizes and renders an array creation of type t,
// leaving the remaining dimensions empty.
func (m *method) newArray(t jtype.Type, dims int) (Value, error) {
	if dims < 1 || dims > t.Dims() {
		return Value{}, fmt.Errorf("%w: cannot create %d dimensions of %s", jtype.ErrNotArray, dims, t)
	}
	sizes, err := m.values(dims)
	if err != nil {
		return Value{}, err
	}
	var sb strings.Builder
	sb.WriteString("new ")
	sb.WriteString(t.Innermost().String())
	for _, size := range sizes {
		sb.WriteString("[" + size.Expr + "]")
	}
	sb.WriteString(strings.Repeat("[]", t.Dims()-dims))
	return Value{Expr: sb.String(), Type: t, prec: precCreate}, nil
}
