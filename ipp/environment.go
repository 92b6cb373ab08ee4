package ipp

// frame holds a single frame's variables. A variable that has been
// DEFVAR'd but never assigned is present in the map with a slot whose
// initialized field is false, so TYPE can tell "undefined variable" (54, not in map)
// apart from "uninitialized value" (56, in map but never stored).
type frame struct {
	vars map[string]*slot
}

type slot struct {
	initialized bool
	value       Value
}

func newFrame() *frame {
	return &frame{vars: make(map[string]*slot)}
}

// Environment is the full mutable state an Instruction executes against:
// the three frame kinds, the data stack, the call stack and the label
// table. Grounded on original_source's Enviroment class, translated from
// Python dicts/lists to Go maps/slices.
type Environment struct {
	gf *frame
	tf *frame // nil when no TF is open
	lf []*frame

	dataStack []Value
	callStack []int

	labels map[string]int // label name -> instruction index (0-based)

	Stdout writer
	Stderr writer
	Stdin  reader
}

// writer/reader are the narrow interfaces WRITE/READ need, so tests can
// swap in an in-memory buffer without dragging in a concrete os.File.
type writer interface {
	WriteString(s string) (int, error)
}

type reader interface {
	ReadLine() (string, bool, error) // line, ok (false at EOF), error
}

func NewEnvironment(out, errOut writer, in reader) *Environment {
	return &Environment{
		gf:     newFrame(),
		labels: make(map[string]int),
		Stdout: out,
		Stderr: errOut,
		Stdin:  in,
	}
}

func (e *Environment) frameFor(sel FrameSel) (*frame, error) {
	switch sel {
	case GF:
		return e.gf, nil
	case TF:
		if e.tf == nil {
			return nil, NewError(CodeBadFrame, "temporary frame does not exist")
		}
		return e.tf, nil
	case LF:
		if len(e.lf) == 0 {
			return nil, NewError(CodeBadFrame, "local frame stack is empty")
		}
		return e.lf[len(e.lf)-1], nil
	default:
		return nil, NewError(CodeBadFrame, "unknown frame selector")
	}
}

// Define creates a new variable slot (DEFVAR). Redefining an existing name
// in the same frame is a semantic error per spec.md.
func (e *Environment) Define(addr Address) error {
	f, err := e.frameFor(addr.Frame)
	if err != nil {
		return err
	}
	if _, exists := f.vars[addr.Name]; exists {
		return NewErrorf(CodeSemantic, "variable %s already defined", addr)
	}
	f.vars[addr.Name] = &slot{}
	return nil
}

// Store writes v into addr, which must already be DEFVAR'd.
func (e *Environment) Store(addr Address, v Value) error {
	f, err := e.frameFor(addr.Frame)
	if err != nil {
		return err
	}
	s, exists := f.vars[addr.Name]
	if !exists {
		return NewErrorf(CodeUndefinedVar, "variable %s is not defined", addr)
	}
	s.initialized = true
	s.value = v
	return nil
}

// Load reads addr's value, raising 56 if it was never assigned.
func (e *Environment) Load(addr Address) (Value, error) {
	f, err := e.frameFor(addr.Frame)
	if err != nil {
		return Value{}, err
	}
	s, exists := f.vars[addr.Name]
	if !exists {
		return Value{}, NewErrorf(CodeUndefinedVar, "variable %s is not defined", addr)
	}
	if !s.initialized {
		return Value{}, NewErrorf(CodeMissingValue, "variable %s has no value", addr)
	}
	return s.value, nil
}

// LoadOptional reads addr's value without raising 56 on an uninitialized
// slot -- TYPE is the one opcode allowed to observe "no value yet" without
// erroring (spec.md §4.6).
func (e *Environment) LoadOptional(addr Address) (Value, bool, error) {
	f, err := e.frameFor(addr.Frame)
	if err != nil {
		return Value{}, false, err
	}
	s, exists := f.vars[addr.Name]
	if !exists {
		return Value{}, false, NewErrorf(CodeUndefinedVar, "variable %s is not defined", addr)
	}
	return s.value, s.initialized, nil
}

// CreateFrame (re)creates TF as a fresh, empty frame, discarding whatever
// TF held before.
func (e *Environment) CreateFrame() {
	e.tf = newFrame()
}

// PushFrame moves TF onto the LF stack, becoming the new top LF. TF must
// exist.
func (e *Environment) PushFrame() error {
	if e.tf == nil {
		return NewError(CodeBadFrame, "temporary frame does not exist")
	}
	e.lf = append(e.lf, e.tf)
	e.tf = nil
	return nil
}

// PopFrame moves the top LF back into TF. The LF stack must be non-empty.
func (e *Environment) PopFrame() error {
	if len(e.lf) == 0 {
		return NewError(CodeBadFrame, "local frame stack is empty")
	}
	e.tf = e.lf[len(e.lf)-1]
	e.lf = e.lf[:len(e.lf)-1]
	return nil
}

// PushData pushes v onto the data stack (PUSHS).
func (e *Environment) PushData(v Value) {
	e.dataStack = append(e.dataStack, v)
}

// PopData pops the top of the data stack (POPS and the *S opcode family).
func (e *Environment) PopData() (Value, error) {
	if len(e.dataStack) == 0 {
		return Value{}, NewError(CodeMissingValue, "data stack is empty")
	}
	v := e.dataStack[len(e.dataStack)-1]
	e.dataStack = e.dataStack[:len(e.dataStack)-1]
	return v, nil
}

// ClearData empties the data stack (CLEARS).
func (e *Environment) ClearData() {
	e.dataStack = e.dataStack[:0]
}

// PushCall pushes a return address onto the call stack (CALL).
func (e *Environment) PushCall(returnIP int) {
	e.callStack = append(e.callStack, returnIP)
}

// PopCall pops a return address off the call stack (RETURN).
func (e *Environment) PopCall() (int, error) {
	if len(e.callStack) == 0 {
		return 0, NewError(CodeMissingValue, "call stack is empty")
	}
	ip := e.callStack[len(e.callStack)-1]
	e.callStack = e.callStack[:len(e.callStack)-1]
	return ip, nil
}

// RegisterLabel records a label -> instruction index mapping during the
// scanner's first pass. A duplicate label name is a semantic error.
func (e *Environment) RegisterLabel(name string, index int) error {
	if _, exists := e.labels[name]; exists {
		return NewErrorf(CodeSemantic, "label %s already defined", name)
	}
	e.labels[name] = index
	return nil
}

// ResolveLabel looks up a previously registered label. An unresolved
// label is a semantic error.
func (e *Environment) ResolveLabel(name string) (int, error) {
	idx, exists := e.labels[name]
	if !exists {
		return 0, NewErrorf(CodeSemantic, "label %s is not defined", name)
	}
	return idx, nil
}
