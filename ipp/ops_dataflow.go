package ipp

func init() {
	register(OpMove, opMove)
	register(OpDefVar, opDefVar)
	register(OpCreateFrame, opCreateFrame)
	register(OpPushFrame, opPushFrame)
	register(OpPopFrame, opPopFrame)
	register(OpCall, opCall)
	register(OpReturn, opReturn)
	register(OpJump, opJump)
	register(OpJumpIfEq, opJumpIfEq)
	register(OpJumpIfNeq, opJumpIfNeq)
	register(OpPushs, opPushs)
	register(OpPops, opPops)
	register(OpLabel, opLabelNoop)
}

// resolveOperand turns a value-or-address Argument into a concrete Value,
// the way original_source's Interpret uniformly calls loadValue on every
// "symb" argument regardless of whether it is a literal or a variable.
func resolveOperand(e *Engine, a Argument) (Value, error) {
	switch a.Kind {
	case ArgValue:
		return a.Value, nil
	case ArgAddress:
		return e.Env.Load(a.Addr)
	default:
		return Value{}, NewErrorf(CodeOperandType, "argument %s is not a value", a)
	}
}

func opMove(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 2 || instr.Args[0].Kind != ArgAddress {
		return result{}, NewError(CodeLexical, "MOVE requires var, symb")
	}
	v, err := resolveOperand(e, instr.Args[1])
	if err != nil {
		return result{}, err
	}
	return result{}, e.Env.Store(instr.Args[0].Addr, v)
}

func opDefVar(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 1 || instr.Args[0].Kind != ArgAddress {
		return result{}, NewError(CodeLexical, "DEFVAR requires var")
	}
	return result{}, e.Env.Define(instr.Args[0].Addr)
}

func opCreateFrame(e *Engine, instr Instruction) (result, error) {
	e.Env.CreateFrame()
	return result{}, nil
}

func opPushFrame(e *Engine, instr Instruction) (result, error) {
	return result{}, e.Env.PushFrame()
}

func opPopFrame(e *Engine, instr Instruction) (result, error) {
	return result{}, e.Env.PopFrame()
}

func opCall(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 1 || instr.Args[0].Kind != ArgLabel {
		return result{}, NewError(CodeLexical, "CALL requires label")
	}
	target, err := e.Env.ResolveLabel(instr.Args[0].Label)
	if err != nil {
		return result{}, err
	}
	e.Env.PushCall(e.ip + 1)
	return jumpTo(target), nil
}

func opReturn(e *Engine, instr Instruction) (result, error) {
	target, err := e.Env.PopCall()
	if err != nil {
		return result{}, err
	}
	return jumpTo(target), nil
}

func opJump(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 1 || instr.Args[0].Kind != ArgLabel {
		return result{}, NewError(CodeLexical, "JUMP requires label")
	}
	target, err := e.Env.ResolveLabel(instr.Args[0].Label)
	if err != nil {
		return result{}, err
	}
	return jumpTo(target), nil
}

func opJumpIfEq(e *Engine, instr Instruction) (result, error) {
	return jumpIfCompare(e, instr, true)
}

func opJumpIfNeq(e *Engine, instr Instruction) (result, error) {
	return jumpIfCompare(e, instr, false)
}

func jumpIfCompare(e *Engine, instr Instruction, wantEqual bool) (result, error) {
	if len(instr.Args) != 3 || instr.Args[0].Kind != ArgLabel {
		return result{}, NewError(CodeLexical, "JUMPIF[N]EQ requires label, symb, symb")
	}
	a, err := resolveOperand(e, instr.Args[1])
	if err != nil {
		return result{}, err
	}
	b, err := resolveOperand(e, instr.Args[2])
	if err != nil {
		return result{}, err
	}
	eq, err := valuesEqual(a, b)
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

func opPushs(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 1 {
		return result{}, NewError(CodeLexical, "PUSHS requires symb")
	}
	v, err := resolveOperand(e, instr.Args[0])
	if err != nil {
		return result{}, err
	}
	e.Env.PushData(v)
	return result{}, nil
}

func opPops(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 1 || instr.Args[0].Kind != ArgAddress {
		return result{}, NewError(CodeLexical, "POPS requires var")
	}
	v, err := e.Env.PopData()
	if err != nil {
		return result{}, err
	}
	return result{}, e.Env.Store(instr.Args[0].Addr, v)
}

func opLabelNoop(e *Engine, instr Instruction) (result, error) {
	return result{}, nil
}
