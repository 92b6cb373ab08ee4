package ipp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bufWriter/bufReader let tests observe WRITE's stdout and feed READ's
// stdin without touching the filesystem, in the same spirit as the
// teacher's vm_test.go compiling a program from an in-memory string.
type bufWriter struct{ strings.Builder }

func (b *bufWriter) WriteString(s string) (int, error) { return b.Builder.WriteString(s) }

type bufReader struct {
	lines []string
	pos   int
}

func (b *bufReader) ReadLine() (string, bool, error) {
	if b.pos >= len(b.lines) {
		return "", false, nil
	}
	line := b.lines[b.pos]
	b.pos++
	return line, true, nil
}

// exhaustedFileReader mimics loader.fileSource's behavior once its
// underlying file runs out: an error, not a quiet ok=false.
type exhaustedFileReader struct{}

func (exhaustedFileReader) ReadLine() (string, bool, error) {
	return "", false, NewError(CodeLexical, "input file exhausted")
}

func runSource(t *testing.T, src string, input []string) (*bufWriter, error) {
	t.Helper()
	instrs := mustParseLines(t, src)
	out := &bufWriter{}
	env := NewEnvironment(out, &bufWriter{}, &bufReader{lines: input})
	engine := NewEngine(&Program{Instructions: instrs}, env)
	require.NoError(t, engine.ScanLabels())
	err := engine.Run()
	return out, err
}

// mustParseLines is a minimal stand-in for the text loader used only to
// keep these engine-level tests independent of the loader package (which
// imports ipp, so ipp's own tests cannot import loader back).
func mustParseLines(t *testing.T, src string) []Instruction {
	t.Helper()
	var instrs []Instruction
	order := 0
	for _, raw := range strings.Split(strings.TrimSpace(src), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		order++
		fields := strings.Fields(line)
		opcode := Opcode(strings.ToUpper(fields[0]))
		require.True(t, IsKnownOpcode(opcode), "unknown opcode %s", opcode)
		var args []Argument
		for _, tok := range fields[1:] {
			args = append(args, mustParseArg(t, tok))
		}
		instrs = append(instrs, Instruction{Order: order, Opcode: opcode, Args: args})
	}
	return instrs
}

func mustParseArg(t *testing.T, tok string) Argument {
	t.Helper()
	if strings.Contains(tok, "@") {
		parts := strings.SplitN(tok, "@", 2)
		switch parts[0] {
		case "GF", "LF", "TF":
			addr, err := ParseAddress(tok)
			require.NoError(t, err)
			return AddressArg(addr)
		case "int":
			v, err := ParseIntLiteral(parts[1])
			require.NoError(t, err)
			return ValueArg(v)
		case "float":
			v, err := ParseFloatLiteral(parts[1])
			require.NoError(t, err)
			return ValueArg(v)
		case "bool":
			v, err := ParseBoolLiteral(parts[1])
			require.NoError(t, err)
			return ValueArg(v)
		case "string":
			return ValueArg(ParseStringLiteral(parts[1]))
		case "nil":
			return ValueArg(NilValue())
		}
	}
	switch tok {
	case "int", "float", "bool", "string", "nil":
		k, err := kindFromName(tok)
		require.NoError(t, err)
		return TypeArg(k)
	}
	return LabelArg(tok)
}

func kindFromName(s string) (Kind, error) {
	switch s {
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "bool":
		return Bool, nil
	case "string":
		return String, nil
	case "nil":
		return Nil, nil
	default:
		return 0, NewErrorf(CodeLexical, "unknown type %q", s)
	}
}

func TestMoveAndWrite(t *testing.T) {
	out, err := runSource(t, `
		DEFVAR GF@x
		MOVE GF@x string@hello
		WRITE GF@x
	`, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", out.String())
}

func TestUninitializedVariableLoad(t *testing.T) {
	_, err := runSource(t, `
		DEFVAR GF@x
		WRITE GF@x
	`, nil)
	require.Error(t, err)
	ippErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeMissingValue, ippErr.Code)
}

func TestArithmeticAndJump(t *testing.T) {
	out, err := runSource(t, `
		DEFVAR GF@i
		DEFVAR GF@sum
		MOVE GF@i int@0
		MOVE GF@sum int@0
		LABEL loop
		JUMPIFEQ done GF@i int@5
		ADD GF@sum GF@sum GF@i
		ADD GF@i GF@i int@1
		JUMP loop
		LABEL done
		WRITE GF@sum
	`, nil)
	require.NoError(t, err)
	assert.Equal(t, "10", out.String())
}

func TestCallReturn(t *testing.T) {
	out, err := runSource(t, `
		JUMP main
		LABEL fn
		WRITE string@called
		RETURN
		LABEL main
		CALL fn
	`, nil)
	require.NoError(t, err)
	assert.Equal(t, "called", out.String())
}

func TestFrameLifecycle(t *testing.T) {
	out, err := runSource(t, `
		CREATEFRAME
		DEFVAR TF@x
		PUSHFRAME
		MOVE LF@x int@1
		POPFRAME
		WRITE TF@x
	`, nil)
	require.NoError(t, err)
	assert.Equal(t, "1", out.String())
}

func TestStackVariantLessThan(t *testing.T) {
	out, err := runSource(t, `
		DEFVAR GF@result
		PUSHS int@3
		PUSHS int@5
		LTS
		POPS GF@result
		WRITE GF@result
	`, nil)
	require.NoError(t, err)
	assert.Equal(t, "true", out.String())
}

func TestDivisionByZero(t *testing.T) {
	_, err := runSource(t, `
		DEFVAR GF@r
		IDIV GF@r int@1 int@0
	`, nil)
	require.Error(t, err)
	ippErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeOperandValue, ippErr.Code)
}

func TestExitCode(t *testing.T) {
	_, err := runSource(t, `
		EXIT int@7
	`, nil)
	require.Error(t, err)
	assert.Equal(t, 7, ExitCode(err))
}

func TestTypeOnUninitialized(t *testing.T) {
	out, err := runSource(t, `
		DEFVAR GF@x
		DEFVAR GF@t
		TYPE GF@t GF@x
		WRITE GF@t
	`, nil)
	require.NoError(t, err)
	assert.Equal(t, "", out.String())
}

func TestReadWithDefault(t *testing.T) {
	out, err := runSource(t, `
		DEFVAR GF@n
		READ GF@n int
		WRITE GF@n
	`, nil)
	require.NoError(t, err)
	assert.Equal(t, "0", out.String())
}

func TestReadFromExhaustedFileSourceIsError32(t *testing.T) {
	instrs := mustParseLines(t, `
		DEFVAR GF@n
		READ GF@n int
	`)
	out := &bufWriter{}
	env := NewEnvironment(out, &bufWriter{}, exhaustedFileReader{})
	engine := NewEngine(&Program{Instructions: instrs}, env)
	require.NoError(t, engine.ScanLabels())
	err := engine.Run()
	require.Error(t, err)
	ippErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeLexical, ippErr.Code)
}

func TestPrintInstDumpsWholeProgramToStdout(t *testing.T) {
	src := `
		DEFVAR GF@x
		MOVE GF@x int@1
		PRINTINST
	`
	instrs := mustParseLines(t, src)
	out, err := runSource(t, src, nil)
	require.NoError(t, err)

	var want strings.Builder
	for _, instr := range instrs {
		want.WriteString(instr.String())
		want.WriteString("\n")
	}
	assert.Equal(t, want.String(), out.String())
}
