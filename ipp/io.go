package ipp

import (
	"strconv"
	"strings"
)

func init() {
	register(OpWrite, opWrite)
	register(OpRead, opRead)
}

// UnescapeIPP decodes IPPcode19's \DDD decimal escapes (three-digit,
// zero-padded ordinal of the escaped character), the only escape form the
// language defines -- grounded on original_source's Argument regex-based
// unescape and the teacher's insertEscapeSeqReplacements table-driven
// approach, generalized here to IPPcode19's numeric rather than
// single-character escapes.
func UnescapeIPP(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if code, err := strconv.Atoi(s[i+1 : i+4]); err == nil && s[i+1] != '+' && s[i+1] != '-' {
				b.WriteRune(rune(code))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// writeString renders v the way WRITE must put it on stdout: bools as
// "true"/"false", floats in hex-float form so a later READ float
// round-trips exactly, NIL as the empty string, and
// strings verbatim (escapes are already decoded at load time, not at
// WRITE time).
func writeString(v Value) string {
	if v.Kind == Nil {
		return ""
	}
	return v.String()
}

func opWrite(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 1 {
		return result{}, NewError(CodeLexical, "WRITE requires symb")
	}
	v, err := resolveOperand(e, instr.Args[0])
	if err != nil {
		return result{}, err
	}
	_, err = e.Env.Stdout.WriteString(writeString(v))
	return result{}, err
}

// opRead reads one line of input and coerces it to the requested type,
// falling back to the type's zero value (0, 0.0, "", false) on a parse
// failure, matching original_source's runREAD. Exhaustion of a
// file-backed --input source surfaces as the InputSource's own error
// (32, see loader.fileSource); exhaustion of an unbacked stdin source is
// not an error at all and falls back to the zero value like a parse
// failure would.
func opRead(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 2 || instr.Args[0].Kind != ArgAddress || instr.Args[1].Kind != ArgType {
		return result{}, NewError(CodeLexical, "READ requires var, type")
	}
	line, ok, err := e.Env.Stdin.ReadLine()
	if err != nil {
		if ippErr, isIPPErr := err.(*Error); isIPPErr {
			return result{}, ippErr
		}
		return result{}, NewErrorf(CodeCLI, "read error: %v", err)
	}
	var v Value
	if !ok {
		v = readDefault(instr.Args[1].Type)
	} else {
		v = coerceRead(instr.Args[1].Type, line)
	}
	return result{}, e.Env.Store(instr.Args[0].Addr, v)
}

func readDefault(k Kind) Value {
	switch k {
	case Int:
		return IntValue(0)
	case Float:
		return FloatValue(0)
	case Bool:
		return BoolValue(false)
	case String:
		return StringValue("")
	default:
		return NilValue()
	}
}

func coerceRead(k Kind, line string) Value {
	switch k {
	case Int:
		if v, err := ParseIntLiteral(line); err == nil {
			return v
		}
		return IntValue(0)
	case Float:
		if v, err := ParseFloatLiteral(line); err == nil {
			return v
		}
		if f, err := strconv.ParseFloat(line, 64); err == nil {
			return FloatValue(f)
		}
		return FloatValue(0)
	case Bool:
		if strings.EqualFold(line, "true") {
			return BoolValue(true)
		}
		return BoolValue(false)
	case String:
		return StringValue(line)
	default:
		return NilValue()
	}
}
