package ipp

func init() {
	register(OpAdd, arithHandler(addOp))
	register(OpSub, arithHandler(subOp))
	register(OpMul, arithHandler(mulOp))
	register(OpIdiv, arithHandler(idivOp))
	register(OpDiv, arithHandler(divOp))
	register(OpLt, relHandler(ltOp))
	register(OpGt, relHandler(gtOp))
	register(OpEq, opEq)
	register(OpAnd, logicHandler(andOp))
	register(OpOr, logicHandler(orOp))
	register(OpNot, opNot)
}

// valuesEqual implements EQ/JUMPIFEQ's "same kind, or NIL on either side"
// rule (Open Question 1). NIL == NIL is true; NIL compared to anything
// else is false; otherwise both operands must share a kind.
func valuesEqual(a, b Value) (bool, error) {
	if a.Kind == Nil || b.Kind == Nil {
		return a.Kind == Nil && b.Kind == Nil, nil
	}
	if a.Kind != b.Kind {
		return false, NewErrorf(CodeOperandType, "cannot compare %s and %s", a.Kind, b.Kind)
	}
	switch a.Kind {
	case Int:
		return a.I == b.I, nil
	case Float:
		return a.F == b.F, nil
	case Bool:
		return a.B == b.B, nil
	case String:
		return a.S == b.S, nil
	default:
		return false, NewErrorf(CodeOperandType, "cannot compare values of kind %s", a.Kind)
	}
}

// binaryArgs is a shared helper for arithmetic/relational/logic opcodes:
// it checks the var, symb, symb shape and resolves both symb operands,
// returning them with the destination address for the caller to store into.
func binaryArgs(e *Engine, instr Instruction) (Address, Value, Value, error) {
	if len(instr.Args) != 3 || instr.Args[0].Kind != ArgAddress {
		return Address{}, Value{}, Value{}, NewError(CodeLexical, "instruction requires var, symb, symb")
	}
	a, err := resolveOperand(e, instr.Args[1])
	if err != nil {
		return Address{}, Value{}, Value{}, err
	}
	b, err := resolveOperand(e, instr.Args[2])
	if err != nil {
		return Address{}, Value{}, Value{}, err
	}
	return instr.Args[0].Addr, a, b, nil
}

func addOp(a, b Value) (Value, error)  { return numericOp(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y }) }
func subOp(a, b Value) (Value, error)  { return numericOp(a, b, func(x, y int64) int64 { return x - y }, func(x, y float64) float64 { return x - y }) }
func mulOp(a, b Value) (Value, error)  { return numericOp(a, b, func(x, y int64) int64 { return x * y }, func(x, y float64) float64 { return x * y }) }

func numericOp(a, b Value, intFn func(int64, int64) int64, floatFn func(float64, float64) float64) (Value, error) {
	if a.Kind != b.Kind || (a.Kind != Int && a.Kind != Float) {
		return Value{}, NewErrorf(CodeOperandType, "arithmetic requires two ints or two floats, got %s and %s", a.Kind, b.Kind)
	}
	if a.Kind == Int {
		return IntValue(intFn(a.I, b.I)), nil
	}
	return FloatValue(floatFn(a.F, b.F)), nil
}

// idivOp and divOp share the original interpreter's identical body: INT
// operands truncate toward zero (Go's native int64 division already does
// this), FLOAT operands perform true division and stay FLOAT.
func idivOp(a, b Value) (Value, error) { return divideOp(a, b) }
func divOp(a, b Value) (Value, error)  { return divideOp(a, b) }

func divideOp(a, b Value) (Value, error) {
	if a.Kind != b.Kind || (a.Kind != Int && a.Kind != Float) {
		return Value{}, NewErrorf(CodeOperandType, "division requires two ints or two floats, got %s and %s", a.Kind, b.Kind)
	}
	if a.Kind == Int {
		if b.I == 0 {
			return Value{}, NewError(CodeOperandValue, "integer division by zero")
		}
		return IntValue(a.I / b.I), nil
	}
	if b.F == 0 {
		return Value{}, NewError(CodeOperandValue, "float division by zero")
	}
	return FloatValue(a.F / b.F), nil
}

func ltOp(a, b Value) (bool, error) { return orderedCompare(a, b, -1) }
func gtOp(a, b Value) (bool, error) { return orderedCompare(a, b, 1) }

// orderedCompare implements LT/GT, which original_source restricts to
// INT/FLOAT/BOOL/STRING pairs of the same kind (NIL is never ordered).
func orderedCompare(a, b Value, want int) (bool, error) {
	if a.Kind == Nil || b.Kind == Nil {
		return false, NewError(CodeOperandType, "NIL is not ordered")
	}
	if a.Kind != b.Kind {
		return false, NewErrorf(CodeOperandType, "cannot order %s and %s", a.Kind, b.Kind)
	}
	var cmp int
	switch a.Kind {
	case Int:
		cmp = cmpInt64(a.I, b.I)
	case Float:
		cmp = cmpFloat64(a.F, b.F)
	case Bool:
		cmp = cmpBool(a.B, b.B)
	case String:
		cmp = cmpString(a.S, b.S)
	default:
		return false, NewErrorf(CodeOperandType, "kind %s is not ordered", a.Kind)
	}
	return cmp == want, nil
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a && b {
		return -1
	}
	return 1
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func andOp(a, b bool) bool { return a && b }
func orOp(a, b bool) bool  { return a || b }

func arithHandler(fn func(Value, Value) (Value, error)) handler {
	return func(e *Engine, instr Instruction) (result, error) {
		addr, a, b, err := binaryArgs(e, instr)
		if err != nil {
			return result{}, err
		}
		v, err := fn(a, b)
		if err != nil {
			return result{}, err
		}
		return result{}, e.Env.Store(addr, v)
	}
}

func relHandler(fn func(Value, Value) (bool, error)) handler {
	return func(e *Engine, instr Instruction) (result, error) {
		addr, a, b, err := binaryArgs(e, instr)
		if err != nil {
			return result{}, err
		}
		v, err := fn(a, b)
		if err != nil {
			return result{}, err
		}
		return result{}, e.Env.Store(addr, BoolValue(v))
	}
}

func opEq(e *Engine, instr Instruction) (result, error) {
	addr, a, b, err := binaryArgs(e, instr)
	if err != nil {
		return result{}, err
	}
	v, err := valuesEqual(a, b)
	if err != nil {
		return result{}, err
	}
	return result{}, e.Env.Store(addr, BoolValue(v))
}

func logicHandler(fn func(bool, bool) bool) handler {
	return func(e *Engine, instr Instruction) (result, error) {
		addr, a, b, err := binaryArgs(e, instr)
		if err != nil {
			return result{}, err
		}
		if a.Kind != Bool || b.Kind != Bool {
			return result{}, NewErrorf(CodeOperandType, "AND/OR requires two bools, got %s and %s", a.Kind, b.Kind)
		}
		return result{}, e.Env.Store(addr, BoolValue(fn(a.B, b.B)))
	}
}

func opNot(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 2 || instr.Args[0].Kind != ArgAddress {
		return result{}, NewError(CodeLexical, "NOT requires var, symb")
	}
	v, err := resolveOperand(e, instr.Args[1])
	if err != nil {
		return result{}, err
	}
	if v.Kind != Bool {
		return result{}, NewErrorf(CodeOperandType, "NOT requires bool, got %s", v.Kind)
	}
	return result{}, e.Env.Store(instr.Args[0].Addr, BoolValue(!v.B))
}
