package ipp

import "unicode/utf8"

func init() {
	register(OpInt2Char, opInt2Char)
	register(OpStri2Int, opStri2Int)
	register(OpInt2Float, opInt2Float)
	register(OpFloat2Int, opFloat2Int)
	register(OpConcat, opConcat)
	register(OpStrlen, opStrlen)
	register(OpGetChar, opGetChar)
	register(OpSetChar, opSetChar)
	register(OpType, opType)
}

func unaryArgs(e *Engine, instr Instruction) (Address, Value, error) {
	if len(instr.Args) != 2 || instr.Args[0].Kind != ArgAddress {
		return Address{}, Value{}, NewError(CodeLexical, "instruction requires var, symb")
	}
	v, err := resolveOperand(e, instr.Args[1])
	if err != nil {
		return Address{}, Value{}, err
	}
	return instr.Args[0].Addr, v, nil
}

// opInt2Char converts a Unicode code point to a one-rune string.
func opInt2Char(e *Engine, instr Instruction) (result, error) {
	addr, v, err := unaryArgs(e, instr)
	if err != nil {
		return result{}, err
	}
	if v.Kind != Int {
		return result{}, NewErrorf(CodeOperandType, "INT2CHAR requires int, got %s", v.Kind)
	}
	if !utf8.ValidRune(rune(v.I)) {
		return result{}, NewErrorf(CodeStringOp, "value %d is not a valid character", v.I)
	}
	return result{}, e.Env.Store(addr, StringValue(string(rune(v.I))))
}

// opStri2Int reads the code point of the rune at a given index of a
// string, raising 58 for an out-of-bounds index.
func opStri2Int(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 3 || instr.Args[0].Kind != ArgAddress {
		return result{}, NewError(CodeLexical, "STRI2INT requires var, symb, symb")
	}
	addr, s, idx, err := binaryArgs(e, instr)
	if err != nil {
		return result{}, err
	}
	if s.Kind != String || idx.Kind != Int {
		return result{}, NewErrorf(CodeOperandType, "STRI2INT requires string, int, got %s and %s", s.Kind, idx.Kind)
	}
	runes := []rune(s.S)
	if idx.I < 0 || int(idx.I) >= len(runes) {
		return result{}, NewErrorf(CodeStringOp, "index %d out of range", idx.I)
	}
	return result{}, e.Env.Store(addr, IntValue(int64(runes[idx.I])))
}

// opInt2Float widens an INT to a FLOAT.
func opInt2Float(e *Engine, instr Instruction) (result, error) {
	addr, v, err := unaryArgs(e, instr)
	if err != nil {
		return result{}, err
	}
	if v.Kind != Int {
		return result{}, NewErrorf(CodeOperandType, "INT2FLOAT requires int, got %s", v.Kind)
	}
	return result{}, e.Env.Store(addr, FloatValue(float64(v.I)))
}

// opFloat2Int truncates a FLOAT to an INT. Requires a FLOAT operand
// (Open Question 2: spec.md calls the source's INT requirement a typo).
func opFloat2Int(e *Engine, instr Instruction) (result, error) {
	addr, v, err := unaryArgs(e, instr)
	if err != nil {
		return result{}, err
	}
	if v.Kind != Float {
		return result{}, NewErrorf(CodeOperandType, "FLOAT2INT requires float, got %s", v.Kind)
	}
	return result{}, e.Env.Store(addr, IntValue(int64(v.F)))
}

func opConcat(e *Engine, instr Instruction) (result, error) {
	addr, a, b, err := binaryArgs(e, instr)
	if err != nil {
		return result{}, err
	}
	if a.Kind != String || b.Kind != String {
		return result{}, NewErrorf(CodeOperandType, "CONCAT requires two strings, got %s and %s", a.Kind, b.Kind)
	}
	return result{}, e.Env.Store(addr, StringValue(a.S+b.S))
}

func opStrlen(e *Engine, instr Instruction) (result, error) {
	addr, v, err := unaryArgs(e, instr)
	if err != nil {
		return result{}, err
	}
	if v.Kind != String {
		return result{}, NewErrorf(CodeOperandType, "STRLEN requires string, got %s", v.Kind)
	}
	return result{}, e.Env.Store(addr, IntValue(int64(utf8.RuneCountInString(v.S))))
}

// opGetChar returns the code point (INT) of the rune at a given index,
// per Open Question 3 (original_source's runGETCHAR returns an ord-style
// code point, not a one-character string).
func opGetChar(e *Engine, instr Instruction) (result, error) {
	addr, s, idx, err := binaryArgs(e, instr)
	if err != nil {
		return result{}, err
	}
	if s.Kind != String || idx.Kind != Int {
		return result{}, NewErrorf(CodeOperandType, "GETCHAR requires string, int, got %s and %s", s.Kind, idx.Kind)
	}
	runes := []rune(s.S)
	if idx.I < 0 || int(idx.I) >= len(runes) {
		return result{}, NewErrorf(CodeStringOp, "index %d out of range", idx.I)
	}
	return result{}, e.Env.Store(addr, IntValue(int64(runes[idx.I])))
}

// opSetChar overwrites the rune at a given index of the destination
// variable's current string value with the first rune of a source string.
func opSetChar(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 3 || instr.Args[0].Kind != ArgAddress {
		return result{}, NewError(CodeLexical, "SETCHAR requires var, symb, symb")
	}
	dst := instr.Args[0].Addr
	cur, err := e.Env.Load(dst)
	if err != nil {
		return result{}, err
	}
	idx, err := resolveOperand(e, instr.Args[1])
	if err != nil {
		return result{}, err
	}
	src, err := resolveOperand(e, instr.Args[2])
	if err != nil {
		return result{}, err
	}
	if cur.Kind != String || idx.Kind != Int || src.Kind != String {
		return result{}, NewErrorf(CodeOperandType, "SETCHAR requires string, int, string, got %s, %s, %s", cur.Kind, idx.Kind, src.Kind)
	}
	if len(src.S) == 0 {
		return result{}, NewError(CodeStringOp, "source string is empty")
	}
	dstRunes := []rune(cur.S)
	if idx.I < 0 || int(idx.I) >= len(dstRunes) {
		return result{}, NewErrorf(CodeStringOp, "index %d out of range", idx.I)
	}
	srcRunes := []rune(src.S)
	dstRunes[idx.I] = srcRunes[0]
	return result{}, e.Env.Store(dst, StringValue(string(dstRunes)))
}

// opType reports the kind of symb as a string ("int"/"float"/"bool"/
// "string"/"nil"), or "" for an uninitialized variable -- it is the one
// opcode that may observe a variable's "no value yet" state without
// raising 56 (spec.md §4.6).
func opType(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 2 || instr.Args[0].Kind != ArgAddress {
		return result{}, NewError(CodeLexical, "TYPE requires var, symb")
	}
	var v Value
	switch instr.Args[1].Kind {
	case ArgValue:
		v = instr.Args[1].Value
	case ArgAddress:
		val, initialized, err := e.Env.LoadOptional(instr.Args[1].Addr)
		if err != nil {
			return result{}, err
		}
		if !initialized {
			return result{}, e.Env.Store(instr.Args[0].Addr, StringValue(""))
		}
		v = val
	default:
		return result{}, NewErrorf(CodeOperandType, "argument %s is not a symb", instr.Args[1])
	}
	return result{}, e.Env.Store(instr.Args[0].Addr, StringValue(v.Kind.String()))
}
