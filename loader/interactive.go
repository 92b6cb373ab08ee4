package loader

import (
	"errors"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"ippvm/ipp"
)

// RunInteractive drives a read-eval-print loop: each accepted line is
// parsed as exactly one instruction, appended to the engine's program,
// and run immediately. A line that fails to parse is rejected without
// being appended (a static error, same as a malformed source file would
// be). A line that parses but fails at runtime has its error printed and
// the instruction retracted, and the session resumes, mirroring
// original_source's InteractiveParser loop (print(errorMessage);
// removeLastInstruction(); continue) -- a runtime error only ends the
// instruction that caused it, not the whole session. EXIT is the one
// runtime outcome that does end the session, same as it would in a
// loaded program. Ends cleanly on EOF (Ctrl-D).
func RunInteractive(engine *ipp.Engine) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "ippvm> ",
		HistoryFile:     "",
		InterruptPrompt: "^C",
		EOFPrompt:       "^D",
	})
	if err != nil {
		return ipp.NewErrorf(ipp.CodeCLI, "cannot start interactive session: %v", err)
	}
	defer rl.Close()

	order := engine.Program.Len()
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return ipp.NewErrorf(ipp.CodeCLI, "interactive read error: %v", err)
		}
		line = strings.TrimSpace(stripComment(line))
		if line == "" {
			continue
		}
		order++
		instr, perr := parseTextInstruction(order, line)
		if perr != nil {
			order--
			rl.Stderr().Write([]byte(perr.Error() + "\n"))
			continue
		}
		if instr.Opcode == ipp.OpLabel {
			if len(instr.Args) != 1 || instr.Args[0].Kind != ipp.ArgLabel {
				order--
				continue
			}
		}
		engine.Program.Instructions = append(engine.Program.Instructions, instr)
		idx := len(engine.Program.Instructions) - 1
		if instr.Opcode == ipp.OpLabel {
			continue
		}
		if err := engine.StepOnce(idx); err != nil {
			if ipp.ExitCode(err) >= 0 {
				return err
			}
			engine.Program.Instructions = engine.Program.Instructions[:idx]
			order--
			rl.Stderr().Write([]byte(err.Error() + "\n"))
			continue
		}
	}
}
