package ipp

func init() {
	register(OpClears, opClears)
	register(OpAdds, stackArithHandler(addOp))
	register(OpSubs, stackArithHandler(subOp))
	register(OpMuls, stackArithHandler(mulOp))
	register(OpIdivs, stackArithHandler(idivOp))
	register(OpLts, stackRelHandler(ltOp))
	register(OpGts, stackRelHandler(gtOp))
	register(OpEqs, opEqs)
	register(OpAnds, stackLogicHandler(andOp))
	register(OpOrs, stackLogicHandler(orOp))
	register(OpNots, opNots)
	register(OpInt2Chars, opInt2Chars)
	register(OpStri2Ints, opStri2Ints)
	register(OpJumpIfEqs, opJumpIfEqs)
	register(OpJumpIfNeqs, opJumpIfNeqs)
	register(OpExit, opExit)
}

func opClears(e *Engine, instr Instruction) (result, error) {
	e.Env.ClearData()
	return result{}, nil
}

// popPair pops the stack-variant binary operand pair in the convention
// original_source's run*S methods use: the right operand is the one
// pushed last (top of stack, popped first), the left operand is popped
// second. The operation is then applied as left <op> right.
func popPair(e *Engine) (left, right Value, err error) {
	right, err = e.Env.PopData()
	if err != nil {
		return Value{}, Value{}, err
	}
	left, err = e.Env.PopData()
	if err != nil {
		return Value{}, Value{}, err
	}
	return left, right, nil
}

func stackArithHandler(fn func(Value, Value) (Value, error)) handler {
	return func(e *Engine, instr Instruction) (result, error) {
		left, right, err := popPair(e)
		if err != nil {
			return result{}, err
		}
		v, err := fn(left, right)
		if err != nil {
			return result{}, err
		}
		e.Env.PushData(v)
		return result{}, nil
	}
}

func stackRelHandler(fn func(Value, Value) (bool, error)) handler {
	return func(e *Engine, instr Instruction) (result, error) {
		left, right, err := popPair(e)
		if err != nil {
			return result{}, err
		}
		v, err := fn(left, right)
		if err != nil {
			return result{}, err
		}
		e.Env.PushData(BoolValue(v))
		return result{}, nil
	}
}

func stackLogicHandler(fn func(bool, bool) bool) handler {
	return func(e *Engine, instr Instruction) (result, error) {
		left, right, err := popPair(e)
		if err != nil {
			return result{}, err
		}
		if left.Kind != Bool || right.Kind != Bool {
			return result{}, NewErrorf(CodeOperandType, "ANDS/ORS requires two bools, got %s and %s", left.Kind, right.Kind)
		}
		e.Env.PushData(BoolValue(fn(left.B, right.B)))
		return result{}, nil
	}
}

func opEqs(e *Engine, instr Instruction) (result, error) {
	left, right, err := popPair(e)
	if err != nil {
		return result{}, err
	}
	v, err := valuesEqual(left, right)
	if err != nil {
		return result{}, err
	}
	e.Env.PushData(BoolValue(v))
	return result{}, nil
}

func opNots(e *Engine, instr Instruction) (result, error) {
	v, err := e.Env.PopData()
	if err != nil {
		return result{}, err
	}
	if v.Kind != Bool {
		return result{}, NewErrorf(CodeOperandType, "NOTS requires bool, got %s", v.Kind)
	}
	e.Env.PushData(BoolValue(!v.B))
	return result{}, nil
}

func opInt2Chars(e *Engine, instr Instruction) (result, error) {
	v, err := e.Env.PopData()
	if err != nil {
		return result{}, err
	}
	if v.Kind != Int {
		return result{}, NewErrorf(CodeOperandType, "INT2CHARS requires int, got %s", v.Kind)
	}
	s, err := int2char(v.I)
	if err != nil {
		return result{}, err
	}
	e.Env.PushData(s)
	return result{}, nil
}

func int2char(i int64) (Value, error) {
	if i < 0 || i > 0x10FFFF {
		return Value{}, NewErrorf(CodeStringOp, "value %d is not a valid character", i)
	}
	return StringValue(string(rune(i))), nil
}

// opStri2Ints pops the index (top) then the string (convention per
// popPair), pushing the code point at that index.
func opStri2Ints(e *Engine, instr Instruction) (result, error) {
	str, idx, err := popPair(e)
	if err != nil {
		return result{}, err
	}
	if str.Kind != String || idx.Kind != Int {
		return result{}, NewErrorf(CodeOperandType, "STRI2INTS requires string, int, got %s and %s", str.Kind, idx.Kind)
	}
	runes := []rune(str.S)
	if idx.I < 0 || int(idx.I) >= len(runes) {
		return result{}, NewErrorf(CodeStringOp, "index %d out of range", idx.I)
	}
	e.Env.PushData(IntValue(int64(runes[idx.I])))
	return result{}, nil
}

func opJumpIfEqs(e *Engine, instr Instruction) (result, error) {
	return stackJumpIf(e, instr, true)
}

// opJumpIfNeqs uses != rather than the original source's buggy == (Open
// Question 4).
func opJumpIfNeqs(e *Engine, instr Instruction) (result, error) {
	return stackJumpIf(e, instr, false)
}

func stackJumpIf(e *Engine, instr Instruction, wantEqual bool) (result, error) {
	if len(instr.Args) != 1 || instr.Args[0].Kind != ArgLabel {
		return result{}, NewError(CodeLexical, "JUMPIF[N]EQS requires label")
	}
	left, right, err := popPair(e)
	if err != nil {
		return result{}, err
	}
	eq, err := valuesEqual(left, right)
	if err != nil {
		return result{}, err
	}
	if eq != wantEqual {
		return result{}, nil
	}
	target, err := e.Env.ResolveLabel(instr.Args[0].Label)
	if err != nil {
		return result{}, err
	}
	return jumpTo(target), nil
}

// opExit reads its symb operand (it does not use the data stack), which
// must be an INT in [0,49], and stops the engine with that process exit
// code; a non-INT operand is error 53 and an out-of-range INT is error 57.
func opExit(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 1 {
		return result{}, NewError(CodeLexical, "EXIT requires symb")
	}
	v, err := resolveOperand(e, instr.Args[0])
	if err != nil {
		return result{}, err
	}
	if v.Kind != Int {
		return result{}, NewErrorf(CodeOperandType, "EXIT requires int, got %s", v.Kind)
	}
	if v.I < 0 || v.I > 49 {
		return result{}, NewErrorf(CodeOperandValue, "exit code %d out of range", v.I)
	}
	return result{}, &exitSignal{code: int(v.I)}
}
