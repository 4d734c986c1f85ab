package decompiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/GreatGodOfFire/JavaDecompiler/internal/jtype"
)

// Java operator precedence, loosest to tightest.
const (
	precLowest = iota
	precOr
	precXor
	precAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precCreate
	precPrimary
)

// Value is a reconstructed expression and its inferred type.
type Value struct {
	Expr string
	Type jtype.Type
	prec int
}

func primary(expr string, t jtype.Type) Value {
	return Value{Expr: expr, Type: t, prec: precPrimary}
}

// operand renders v as an operand of an operator binding at prec,
// parenthesizing it when it binds more loosely.
func (v Value) operand(prec int) string {
	if v.prec < prec {
		return "(" + v.Expr + ")"
	}
	return v.Expr
}

func binary(left Value, op string, right Value, prec int, t jtype.Type) Value {
	expr := left.operand(prec) + " " + op + " " + right.operand(prec+1)
	return Value{Expr: expr, Type: t, prec: prec}
}

func negate(v Value) Value {
	operand := v.operand(precUnary)
	if strings.HasPrefix(operand, "-") {
		operand = "(" + operand + ")"
	}
	return Value{Expr: "-" + operand, Type: v.Type, prec: precUnary}
}

func cast(v Value, t jtype.Type) Value {
	return Value{Expr: "(" + t.String() + ") " + v.operand(precUnary), Type: t, prec: precUnary}
}

func intLiteral(n int32) Value {
	v := primary(strconv.FormatInt(int64(n), 10), jtype.Int)
	if n < 0 {
		v.prec = precUnary
	}
	return v
}

func longLiteral(n int64) Value {
	v := primary(strconv.FormatInt(n, 10)+"L", jtype.Long)
	if n < 0 {
		v.prec = precUnary
	}
	return v
}

func floatLiteral(f float32) Value {
	expr, neg := formatFloat(float64(f), 32, "Float")
	if !strings.HasPrefix(expr, "Float.") {
		expr += "F"
	}
	v := primary(expr, jtype.Float)
	if neg {
		v.prec = precUnary
	}
	return v
}

func doubleLiteral(d float64) Value {
	expr, neg := formatFloat(d, 64, "Double")
	v := primary(expr, jtype.Double)
	if neg {
		v.prec = precUnary
	}
	return v
}

// formatFloat renders f as a Java floating point literal without suffix.
// Non-finite values render as constants of the boxed class.
func formatFloat(f float64, bits int, class string) (string, bool) {
	switch {
	case math.IsNaN(f):
		return class + ".NaN", false
	case math.IsInf(f, 1):
		return class + ".POSITIVE_INFINITY", false
	case math.IsInf(f, -1):
		return class + ".NEGATIVE_INFINITY", false
	}

	s := strconv.FormatFloat(f, 'g', -1, bits)
	mantissa, exp, hasExp := strings.Cut(s, "e")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	if hasExp {
		exp = strings.TrimPrefix(exp, "+")
		exp = strings.TrimLeft(exp, "0")
		if strings.HasPrefix(exp, "-") {
			exp = "-" + strings.TrimLeft(exp[1:], "0")
		}
		mantissa += "E" + exp
	}
	return mantissa, math.Signbit(f)
}

// quote renders s as a Java string literal.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
