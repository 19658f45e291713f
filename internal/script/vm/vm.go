package vm

import (
	"fmt"
	"time"

	"github.com/grim-editor/grim/internal/script/value"
)

const (
	defaultMaxCallDepth = 256
	// deadlineCheckStride bounds how often the interpreter loop calls
	// time.Now(); checking every opcode would dominate runtime for tight
	// numeric loops.
	deadlineCheckStride = 64
)

// VM executes compiled Protos against a shared global table and a tracked
// allocator. One VM corresponds to one scripting host instance; globals
// persist across calls made through the same VM.
type VM struct {
	Globals     *value.Table
	Alloc       *Allocator
	MaxCallDepth int

	deadline time.Time
	hasDeadline bool
	instrCount  uint64
}

// New creates a VM with the given memory budget (bytes, zero = unbounded).
func New(maxMemoryBytes int64) *VM {
	return &VM{
		Globals:      value.NewTable(),
		Alloc:        NewAllocator(maxMemoryBytes),
		MaxCallDepth: defaultMaxCallDepth,
	}
}

// RegisterBuiltin installs a host function as a global.
func (m *VM) RegisterBuiltin(name string, fn value.HostFunc) {
	m.Globals.Set(name, value.FromFunction(value.NewHostFunction(name, fn)))
}

// Run executes proto with the given arguments, enforcing deadline as a
// cooperative wall-clock cutoff checked between opcodes. A zero deadline
// disables the timeout.
func (m *VM) Run(proto *Proto, args []value.Value, deadline time.Time) (value.Value, error) {
	m.deadline = deadline
	m.hasDeadline = !deadline.IsZero()
	m.instrCount = 0
	return m.call(proto, args, 0)
}

// Call invokes any Function value (host or script) with the given
// arguments, reusing the VM's current deadline. Intended for host builtins
// that need to call back into script-defined handlers.
func (m *VM) Call(fn *value.Function, args []value.Value) (value.Value, error) {
	if fn.IsHost() {
		return fn.Host(args)
	}
	proto, ok := fn.Script.(*Proto)
	if !ok {
		return value.Nil, fmt.Errorf("%w: malformed function value", ErrNotCallable)
	}
	return m.call(proto, args, 0)
}

func (m *VM) call(proto *Proto, args []value.Value, depth int) (value.Value, error) {
	if depth >= m.MaxCallDepth {
		return value.Nil, fmt.Errorf("%w: depth %d", ErrStackOverflow, depth)
	}
	if len(args) != proto.NumParams {
		return value.Nil, fmt.Errorf("%w: %s wants %d, got %d", ErrBadArgCount, proto.Name, proto.NumParams, len(args))
	}
	if err := m.Alloc.Charge(int64(proto.NumLocals) * 16); err != nil {
		return value.Nil, err
	}

	locals := make([]value.Value, proto.NumLocals)
	copy(locals, args)

	var stack []value.Value
	pc := 0
	for pc < len(proto.Code) {
		if err := m.tick(); err != nil {
			return value.Nil, err
		}
		ins := proto.Code[pc]
		pc++

		switch ins.Op {
		case OpPushConst:
			stack = append(stack, proto.Constants[ins.Operand])
		case OpPushNil:
			stack = append(stack, value.Nil)
		case OpPop:
			stack = stack[:len(stack)-1]
		case OpDup:
			stack = append(stack, stack[len(stack)-1])
		case OpLoadGlobal:
			name := proto.Constants[ins.Operand].AsString()
			if !m.Globals.Has(name) {
				return value.Nil, fmt.Errorf("%w: %s", ErrUndefinedGlobal, name)
			}
			stack = append(stack, m.Globals.Get(name))
		case OpStoreGlobal:
			name := proto.Constants[ins.Operand].AsString()
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			m.Globals.Set(name, v)
		case OpLoadLocal:
			stack = append(stack, locals[ins.Operand])
		case OpStoreLocal:
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			locals[ins.Operand] = v
		case OpAdd, OpSub, OpMul, OpDiv, OpMod:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			r, err := arith(ins.Op, a, b)
			if err != nil {
				return value.Nil, annotate(err, proto, ins)
			}
			stack = append(stack, r)
		case OpConcat:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			s := a.String() + b.String()
			if err := m.Alloc.Charge(int64(len(s))); err != nil {
				return value.Nil, err
			}
			stack = append(stack, value.String(s))
		case OpNeg:
			a := stack[len(stack)-1]
			if !a.IsNumber() {
				return value.Nil, annotate(ErrTypeError, proto, ins)
			}
			stack[len(stack)-1] = value.Number(-a.AsNumber())
		case OpNot:
			a := stack[len(stack)-1]
			stack[len(stack)-1] = value.Bool(!a.Truthy())
		case OpEq:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, value.Bool(a.Equals(b)))
		case OpNeq:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			stack = append(stack, value.Bool(!a.Equals(b)))
		case OpLt, OpLe, OpGt, OpGe:
			b := stack[len(stack)-1]
			a := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			r, err := compare(ins.Op, a, b)
			if err != nil {
				return value.Nil, annotate(err, proto, ins)
			}
			stack = append(stack, value.Bool(r))
		case OpJump:
			pc = int(ins.Operand)
		case OpJumpIfFalse:
			cond := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !cond.Truthy() {
				pc = int(ins.Operand)
			}
		case OpJumpIfTrue:
			cond := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if cond.Truthy() {
				pc = int(ins.Operand)
			}
		case OpCall:
			n := int(ins.Operand)
			callArgs := make([]value.Value, n)
			copy(callArgs, stack[len(stack)-n:])
			stack = stack[:len(stack)-n]
			callee := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !callee.IsFunction() {
				return value.Nil, annotate(ErrNotCallable, proto, ins)
			}
			fn := callee.AsFunction()
			var result value.Value
			var err error
			if fn.IsHost() {
				result, err = fn.Host(callArgs)
			} else {
				sub, ok := fn.Script.(*Proto)
				if !ok {
					return value.Nil, annotate(ErrNotCallable, proto, ins)
				}
				result, err = m.call(sub, callArgs, depth+1)
			}
			if err != nil {
				return value.Nil, err
			}
			stack = append(stack, result)
		case OpReturn:
			if len(stack) == 0 {
				return value.Nil, nil
			}
			return stack[len(stack)-1], nil
		case OpMakeArray:
			n := int(ins.Operand)
			items := make([]value.Value, n)
			copy(items, stack[len(stack)-n:])
			stack = stack[:len(stack)-n]
			if err := m.Alloc.Charge(int64(n) * 16); err != nil {
				return value.Nil, err
			}
			stack = append(stack, value.FromArray(value.NewArray(items)))
		case OpMakeTable:
			n := int(ins.Operand)
			t := value.NewTable()
			pairs := stack[len(stack)-2*n:]
			stack = stack[:len(stack)-2*n]
			for i := 0; i < n; i++ {
				k := pairs[2*i]
				v := pairs[2*i+1]
				t.Set(k.String(), v)
			}
			if err := m.Alloc.Charge(int64(n) * 32); err != nil {
				return value.Nil, err
			}
			stack = append(stack, value.FromTable(t))
		case OpIndexGet:
			idx := stack[len(stack)-1]
			container := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			r, err := indexGet(container, idx)
			if err != nil {
				return value.Nil, annotate(err, proto, ins)
			}
			stack = append(stack, r)
		case OpIndexSet:
			v := stack[len(stack)-1]
			idx := stack[len(stack)-2]
			container := stack[len(stack)-3]
			stack = stack[:len(stack)-3]
			if err := indexSet(container, idx, v); err != nil {
				return value.Nil, annotate(err, proto, ins)
			}
		default:
			return value.Nil, fmt.Errorf("%w: unknown opcode %d", ErrTypeError, ins.Op)
		}
	}
	if len(stack) > 0 {
		return stack[len(stack)-1], nil
	}
	return value.Nil, nil
}

func (m *VM) tick() error {
	m.instrCount++
	if !m.hasDeadline {
		return nil
	}
	if m.instrCount%deadlineCheckStride != 0 {
		return nil
	}
	if time.Now().After(m.deadline) {
		return ErrExecutionTimeout
	}
	return nil
}

func annotate(err error, proto *Proto, ins Instruction) error {
	return fmt.Errorf("%s:%d: %w", proto.Source, ins.Line, err)
}
