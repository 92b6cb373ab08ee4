package ipp

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

func init() {
	register(OpDprint, opDprint)
	register(OpBreak, opBreak)
	register(OpPrintInst, opPrintInst)
}

var (
	diagLabel = color.New(color.FgYellow, color.Bold)
	diagValue = color.New(color.FgCyan)
)

// opDprint writes symb's value to stderr, colorized, never touching
// Stdout -- so it can never perturb WRITE's exact byte stream even when
// interleaved with it (spec.md §5).
func opDprint(e *Engine, instr Instruction) (result, error) {
	if len(instr.Args) != 1 {
		return result{}, NewError(CodeLexical, "DPRINT requires symb")
	}
	v, err := resolveOperand(e, instr.Args[0])
	if err != nil {
		return result{}, err
	}
	_, err = e.Env.Stderr.WriteString(diagValue.Sprint(v.String()) + "\n")
	return result{}, err
}

// opPrintInst dumps the whole loaded program to stdout, one line per
// instruction in program order, the way original_source's runPRINTINST
// iterates self.parser.instructions and prints each one (spec.md §4.6,
// SPEC_FULL.md §8) -- it is not a per-step trace of the instruction
// currently executing.
func opPrintInst(e *Engine, instr Instruction) (result, error) {
	for _, i := range e.Program.Instructions {
		if _, err := e.Env.Stdout.WriteString(i.String() + "\n"); err != nil {
			return result{}, err
		}
	}
	return result{}, nil
}

// opBreak dumps a snapshot of the current environment state to stderr:
// instruction pointer, the contents of GF, TF and every LF (top first),
// and the depth and contents of the data and call stacks. This does not
// reproduce original_source's fixed-width box-drawing table byte for
// byte -- that was presentation, not semantics (SPEC_FULL.md §8) -- but
// it surfaces the same information.
func opBreak(e *Engine, instr Instruction) (result, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "-- BREAK at instruction %d --\n", e.ip+1)
	fmt.Fprintf(&b, "GF: %s\n", dumpFrame(e.Env.gf))
	if e.Env.tf != nil {
		fmt.Fprintf(&b, "TF: %s\n", dumpFrame(e.Env.tf))
	} else {
		fmt.Fprintf(&b, "TF: <does not exist>\n")
	}
	fmt.Fprintf(&b, "LF depth: %d\n", len(e.Env.lf))
	for i := len(e.Env.lf) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "LF[%d]: %s\n", i, dumpFrame(e.Env.lf[i]))
	}
	fmt.Fprintf(&b, "data stack depth: %d\n", len(e.Env.dataStack))
	for i := len(e.Env.dataStack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  %s\n", e.Env.dataStack[i].String())
	}
	fmt.Fprintf(&b, "call stack depth: %d\n", len(e.Env.callStack))
	for i := len(e.Env.callStack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "  return to instruction %d\n", e.Env.callStack[i]+1)
	}
	_, err := e.Env.Stderr.WriteString(diagLabel.Sprint(b.String()))
	return result{}, err
}

func dumpFrame(f *frame) string {
	if f == nil || len(f.vars) == 0 {
		return "{}"
	}
	var parts []string
	for name, s := range f.vars {
		if s.initialized {
			parts = append(parts, fmt.Sprintf("%s=%s", name, s.value.String()))
		} else {
			parts = append(parts, fmt.Sprintf("%s=<uninitialized>", name))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
