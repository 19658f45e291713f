package compiler

import (
	"github.com/grim-editor/grim/internal/script/value"
	"github.com/grim-editor/grim/internal/script/vm"
)

// Compile parses source and emits a vm.Proto representing its top-level
// code. Function declarations compile to nested Protos referenced from the
// top-level constant pool as function values.
func Compile(source, name string) (*vm.Proto, error) {
	lex := newLexer(source)
	toks, err := lex.tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, source: name}
	p.fc = newFuncCompiler(name, name)
	if err := p.parseBlockStatements(tokEOF); err != nil {
		return nil, err
	}
	p.fc.emit(vm.OpPushNil, 0, p.line())
	p.fc.emit(vm.OpReturn, 0, p.line())
	return p.fc.toProto(), nil
}

// localVar tracks a declared name, its fixed stack slot, and the scope
// depth it was declared at.
type localVar struct {
	name  string
	slot  int32
	depth int
}

// funcCompiler accumulates bytecode, constants, and local-variable slots
// for one function body (top-level code counts as a function with no
// parameters). Local slots are never reused after a block closes; this
// trades a little stack space for a much simpler compiler.
type funcCompiler struct {
	name       string
	source     string
	code       []vm.Instruction
	constants  []value.Value
	constIndex map[any]int32
	locals     []localVar
	scopeDepth int
	numParams  int
	nextSlot   int32
}

func newFuncCompiler(name, source string) *funcCompiler {
	return &funcCompiler{name: name, source: source, constIndex: make(map[any]int32)}
}

func (fc *funcCompiler) emit(op vm.Opcode, operand int32, line int) int {
	fc.code = append(fc.code, vm.Instruction{Op: op, Operand: operand, Line: line})
	return len(fc.code) - 1
}

func (fc *funcCompiler) patchJumpHere(at int) {
	fc.code[at].Operand = int32(len(fc.code))
}

func (fc *funcCompiler) constNumber(n float64) int32 {
	return fc.intern(n)
}

func (fc *funcCompiler) constString(s string) int32 {
	return fc.intern(s)
}

func (fc *funcCompiler) constBool(b bool) int32 {
	return fc.intern(b)
}

func (fc *funcCompiler) intern(key any) int32 {
	if idx, ok := fc.constIndex[key]; ok {
		return idx
	}
	var v value.Value
	switch t := key.(type) {
	case float64:
		v = value.Number(t)
	case string:
		v = value.String(t)
	case bool:
		v = value.Bool(t)
	}
	fc.constants = append(fc.constants, v)
	idx := int32(len(fc.constants) - 1)
	fc.constIndex[key] = idx
	return idx
}

func (fc *funcCompiler) addConstValue(v value.Value) int32 {
	fc.constants = append(fc.constants, v)
	return int32(len(fc.constants) - 1)
}

func (fc *funcCompiler) beginScope() { fc.scopeDepth++ }

func (fc *funcCompiler) endScope() {
	fc.scopeDepth--
	for len(fc.locals) > 0 && fc.locals[len(fc.locals)-1].depth > fc.scopeDepth {
		fc.locals = fc.locals[:len(fc.locals)-1]
	}
}

// declareLocal allocates a new stack slot for name and returns its index.
// Slots are assigned from a monotonic counter, never reused, even after
// the declaring block's scope closes.
func (fc *funcCompiler) declareLocal(name string) int32 {
	slot := fc.nextSlot
	fc.nextSlot++
	fc.locals = append(fc.locals, localVar{name: name, slot: slot, depth: fc.scopeDepth})
	return slot
}

// resolveLocal finds the nearest-declared local named name, searching
// innermost scope first (shadowing).
func (fc *funcCompiler) resolveLocal(name string) (int32, bool) {
	for i := len(fc.locals) - 1; i >= 0; i-- {
		if fc.locals[i].name == name {
			return fc.locals[i].slot, true
		}
	}
	return 0, false
}

func (fc *funcCompiler) toProto() *vm.Proto {
	return &vm.Proto{
		Name:      fc.name,
		NumParams: fc.numParams,
		NumLocals: int(fc.nextSlot),
		Code:      fc.code,
		Constants: fc.constants,
		Source:    fc.source,
	}
}
