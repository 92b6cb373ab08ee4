package loader

import (
	"bufio"
	"io"
	"strings"

	"ippvm/ipp"
)

// LoadText decodes r as IPPcode19's line-oriented IFJ dialect: one
// instruction per line, "OPCODE arg1 arg2 ...", comments starting at
// '#' stripped first, blank lines skipped, and order numbers assigned
// by position rather than an explicit attribute. Grounded on
// original_source's IFJParser.parseStringToInstruction / IFJFileParser.
func LoadText(r io.Reader) (*ipp.Program, error) {
	scanner := bufio.NewScanner(r)
	var instrs []ipp.Instruction
	order := 0
	sawHeader := false
	for scanner.Scan() {
		line := stripComment(scanner.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !sawHeader {
			// The first non-blank, non-comment line must be the
			// ".IPPcode19" header, mirroring the XML dialect's
			// language attribute.
			if !strings.EqualFold(line, ".ippcode19") {
				return nil, ipp.NewError(ipp.CodeLexical, "missing .IPPcode19 header")
			}
			sawHeader = true
			continue
		}
		order++
		instr, err := parseTextInstruction(order, line)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, instr)
	}
	if err := scanner.Err(); err != nil {
		return nil, ipp.NewErrorf(ipp.CodeCLI, "read error: %v", err)
	}
	if !sawHeader {
		return nil, ipp.NewError(ipp.CodeLexical, "missing .IPPcode19 header")
	}
	return &ipp.Program{Instructions: instrs}, nil
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseTextInstruction(order int, line string) (ipp.Instruction, error) {
	fields := strings.Fields(line)
	opcode := ipp.Opcode(strings.ToUpper(fields[0]))
	if !ipp.IsKnownOpcode(opcode) {
		return ipp.Instruction{}, ipp.NewErrorf(ipp.CodeLexical, "unknown opcode %q", fields[0])
	}
	args := make([]ipp.Argument, 0, len(fields)-1)
	for _, tok := range fields[1:] {
		arg, err := parseTextArgument(opcode, len(args), tok)
		if err != nil {
			return ipp.Instruction{}, err
		}
		args = append(args, arg)
	}
	return ipp.Instruction{Order: order, Opcode: opcode, Args: args}, nil
}

// parseTextArgument decodes a bare token into an Argument. Unlike XML,
// the text dialect carries no explicit type tag, so the token's own
// position and shape decide it: READ's second operand is a type name,
// the first operand of LABEL/CALL/JUMP/JUMPIFEQ/JUMPIFNEQ/JUMPIFEQS/
// JUMPIFNEQS is a label, and any other token must be FRAME@name (a var)
// or type@literal (a typed literal) -- the same grammar
// IFJParser.parseStringToInstruction uses.
func parseTextArgument(opcode ipp.Opcode, argIdx int, tok string) (ipp.Argument, error) {
	if isTypeOnlyOperand(opcode, argIdx) {
		k, err := parseTypeName(tok)
		if err != nil {
			return ipp.Argument{}, err
		}
		return ipp.TypeArg(k), nil
	}
	if isLabelOperand(opcode, argIdx) {
		return ipp.LabelArg(tok), nil
	}
	if strings.Contains(tok, "@") {
		parts := strings.SplitN(tok, "@", 2)
		switch parts[0] {
		case "GF", "LF", "TF":
			addr, err := ipp.ParseAddress(tok)
			if err != nil {
				return ipp.Argument{}, err
			}
			return ipp.AddressArg(addr), nil
		case "int":
			v, err := ipp.ParseIntLiteral(parts[1])
			if err != nil {
				return ipp.Argument{}, err
			}
			return ipp.ValueArg(v), nil
		case "float":
			v, err := ipp.ParseFloatLiteral(parts[1])
			if err != nil {
				return ipp.Argument{}, err
			}
			return ipp.ValueArg(v), nil
		case "bool":
			v, err := ipp.ParseBoolLiteral(parts[1])
			if err != nil {
				return ipp.Argument{}, err
			}
			return ipp.ValueArg(v), nil
		case "string":
			return ipp.ValueArg(ipp.ParseStringLiteral(parts[1])), nil
		case "nil":
			return ipp.ValueArg(ipp.NilValue()), nil
		default:
			return ipp.Argument{}, ipp.NewErrorf(ipp.CodeLexical, "unknown argument prefix %q", parts[0])
		}
	}
	return ipp.Argument{}, ipp.NewErrorf(ipp.CodeLexical, "malformed argument %q", tok)
}

func isLabelOperand(opcode ipp.Opcode, argIdx int) bool {
	switch opcode {
	case ipp.OpCall, ipp.OpJump, ipp.OpLabel, ipp.OpJumpIfEqs, ipp.OpJumpIfNeqs:
		return argIdx == 0
	case ipp.OpJumpIfEq, ipp.OpJumpIfNeq:
		return argIdx == 0
	default:
		return false
	}
}

func isTypeOnlyOperand(opcode ipp.Opcode, argIdx int) bool {
	return opcode == ipp.OpRead && argIdx == 1
}
