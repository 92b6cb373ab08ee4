// Package loader builds an ipp.Program from XML, from IFJ-style plain
// text, or interactively from a REPL, and supplies the InputSource the
// READ opcode consumes.
package loader

import (
	"bufio"
	"io"

	"ippvm/ipp"
)

// InputSource is what the READ opcode reads from: one line at a time.
// A file-backed source raises error 32 once exhausted (original_source's
// Input.get raises IPPError(32) past end of file); a stdin-backed source
// instead reports exhaustion with ok=false and a nil error, letting READ
// fall back to the type's default the way it already does for an
// interactive session with no more typed input.
type InputSource interface {
	ReadLine() (line string, ok bool, err error)
}

// stdinSource wraps os.Stdin (or any other non-file reader): running out
// of input is not an error, just "nothing left to read".
type stdinSource struct {
	scanner *bufio.Scanner
}

func NewLineSource(r io.Reader) InputSource {
	return &stdinSource{scanner: bufio.NewScanner(r)}
}

func (l *stdinSource) ReadLine() (string, bool, error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return l.scanner.Text(), true, nil
}

// fileSource wraps a --input file: a READ that runs past the last line
// is error 32, per spec.md §6's InputSource contract.
type fileSource struct {
	scanner *bufio.Scanner
}

func NewFileSource(r io.Reader) InputSource {
	return &fileSource{scanner: bufio.NewScanner(r)}
}

func (f *fileSource) ReadLine() (string, bool, error) {
	if !f.scanner.Scan() {
		if err := f.scanner.Err(); err != nil {
			return "", false, err
		}
		return "", false, ipp.NewError(ipp.CodeLexical, "input file exhausted")
	}
	return f.scanner.Text(), true, nil
}
