package ipp

import (
	"fmt"
	"strconv"
)

// Kind is the runtime tag of a Value. Unlike the teacher's GVM, where every
// register is an untyped 32-bit pattern, IPPcode19 values carry their kind
// with them everywhere they go.
type Kind int

const (
	Int Kind = iota
	Float
	Bool
	String
	Nil
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Nil:
		return "nil"
	default:
		return "?unknown?"
	}
}

// Value is a tagged value. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	B    bool
	S    string
}

func IntValue(i int64) Value     { return Value{Kind: Int, I: i} }
func FloatValue(f float64) Value { return Value{Kind: Float, F: f} }
func BoolValue(b bool) Value     { return Value{Kind: Bool, B: b} }
func StringValue(s string) Value { return Value{Kind: String, S: s} }
func NilValue() Value            { return Value{Kind: Nil} }

// SameKind reports whether two values share a runtime kind.
func SameKind(a, b Value) bool { return a.Kind == b.Kind }

// String renders a value for BREAK/DPRINT/PRINTINST. WRITE prints the same
// text except that NIL is written as the empty string (see writeString in
// io.go).
func (v Value) String() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.I, 10)
	case Float:
		return formatHexFloat(v.F)
	case Bool:
		if v.B {
			return "true"
		}
		return "false"
	case String:
		return v.S
	case Nil:
		return "nil"
	default:
		return fmt.Sprintf("<invalid kind %d>", v.Kind)
	}
}

// ParseIntLiteral decodes an INT literal token (base-10 signed integer).
func ParseIntLiteral(tok string) (Value, error) {
	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return Value{}, NewErrorf(CodeLexical, "invalid int literal %q", tok)
	}
	return IntValue(i), nil
}

// ParseFloatLiteral decodes a FLOAT literal in the C99 %a / Python
// float.fromhex style, e.g. 0x1.8p+1.
func ParseFloatLiteral(tok string) (Value, error) {
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return Value{}, NewErrorf(CodeLexical, "invalid float literal %q", tok)
	}
	return FloatValue(f), nil
}

// ParseBoolLiteral decodes exactly "true" or "false".
func ParseBoolLiteral(tok string) (Value, error) {
	switch tok {
	case "true":
		return BoolValue(true), nil
	case "false":
		return BoolValue(false), nil
	default:
		return Value{}, NewErrorf(CodeLexical, "invalid bool literal %q", tok)
	}
}

// ParseStringLiteral decodes a STRING literal's raw token, applying the
// \DDD escape decoding (UnescapeIPP, see io.go) once at load time; values
// are stored decoded and WRITE prints them verbatim.
func ParseStringLiteral(tok string) Value {
	return StringValue(UnescapeIPP(tok))
}

// formatHexFloat renders f the way WRITE must, such that READ float on the
// same text reproduces the identical bit pattern.
func formatHexFloat(f float64) string {
	return strconv.FormatFloat(f, 'x', -1, 64)
}
