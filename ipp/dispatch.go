package ipp

// result is what an opcode handler hands back to the dispatch loop: either
// "fall through to ip+1" (Jumped=false) or "set ip to Next" (Jumped=true).
// Grounded on the teacher's execNextInstruction, which returns a plain
// errcode and relies on pc already having been mutated in place by CALL/
// JUMP handlers; here the mutation is made explicit in the return value
// instead, since Engine.ip is otherwise only ever touched by the loop
// itself.
type result struct {
	Next   int
	Jumped bool
}

func jumpTo(ip int) result { return result{Next: ip, Jumped: true} }

// handler executes one instruction against e, returning how the dispatch
// loop should move ip next.
type handler func(e *Engine, instr Instruction) (result, error)

var handlers map[Opcode]handler

// register is called from each ops_*.go file's init() to populate the
// dispatch table, mirroring the teacher's init()-populated opcode maps in
// vm/bytecode.go.
func register(op Opcode, h handler) {
	if handlers == nil {
		handlers = make(map[Opcode]handler)
	}
	handlers[op] = h
}

// Engine owns a Program plus the Environment it executes against, and the
// instruction pointer driving the dispatch loop.
type Engine struct {
	Program *Program
	Env     *Environment
	ip      int
}

func NewEngine(p *Program, env *Environment) *Engine {
	return &Engine{Program: p, Env: env, ip: -1}
}

// ScanLabels performs the two-pass label pre-scan (spec.md §4.5 /
// original_source's first while-loop over LABEL instructions before the
// real run begins). Must run once before Run.
func (e *Engine) ScanLabels() error {
	for i, instr := range e.Program.Instructions {
		if instr.Opcode != OpLabel {
			continue
		}
		if len(instr.Args) != 1 || instr.Args[0].Kind != ArgLabel {
			return WithInstruction(NewError(CodeLexical, "LABEL requires exactly one label argument"), &instr)
		}
		if err := e.Env.RegisterLabel(instr.Args[0].Label, i); err != nil {
			return WithInstruction(err, &instr)
		}
	}
	return nil
}

// Run drives the fetch-decode-execute loop to completion or until an
// opcode (EXIT, or an error) ends it. ip starts at -1 and is incremented
// before each fetch, so the first instruction executed is index 0.
func (e *Engine) Run() error {
	for {
		e.ip++
		if e.ip >= e.Program.Len() {
			return nil
		}
		instr := e.Program.At(e.ip)
		if instr.Opcode == OpLabel {
			continue // already accounted for by ScanLabels; a no-op at run time
		}
		h, known := handlers[instr.Opcode]
		if !known {
			return WithInstruction(NewErrorf(CodeSemantic, "unknown opcode %s", instr.Opcode), &instr)
		}
		res, err := h(e, instr)
		if err != nil {
			if exitErr, ok := err.(*exitSignal); ok {
				return exitErr
			}
			return WithInstruction(err, &instr)
		}
		if res.Jumped {
			e.ip = res.Next - 1
		}
	}
}

// StepOnce executes exactly the instruction at index idx against the
// engine's current state, used by the interactive loader to run each
// freshly appended line immediately rather than waiting for a full
// program (SPEC_FULL.md §4.10). It does not touch e.ip's usual
// post-increment convention: the caller supplies idx directly since the
// interactive program grows one instruction at a time.
func (e *Engine) StepOnce(idx int) error {
	instr := e.Program.At(idx)
	if instr.Opcode == OpLabel {
		return nil
	}
	h, known := handlers[instr.Opcode]
	if !known {
		return WithInstruction(NewErrorf(CodeSemantic, "unknown opcode %s", instr.Opcode), &instr)
	}
	e.ip = idx
	res, err := h(e, instr)
	if err != nil {
		if exitErr, ok := err.(*exitSignal); ok {
			return exitErr
		}
		return WithInstruction(err, &instr)
	}
	if res.Jumped {
		e.ip = res.Next - 1
	}
	return nil
}

// exitSignal is how EXIT unwinds out of Run without going through the
// WithInstruction wrapping every other error gets -- EXIT's exit code is
// not an error at all when in [0,49], just an early, clean stop.
type exitSignal struct {
	code int
}

func (s *exitSignal) Error() string { return "exit" }

// ExitCode reports the process exit code EXIT requested, or -1 if err is
// not an exit signal.
func ExitCode(err error) int {
	if s, ok := err.(*exitSignal); ok {
		return s.code
	}
	return -1
}
