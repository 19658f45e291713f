package vm

import (
	"errors"
	"testing"
	"time"

	"github.com/grim-editor/grim/internal/script/value"
)

func TestArithmeticPrecedenceByHand(t *testing.T) {
	// 2 + 3 * 4 == 14, hand-assembled since there is no compiler here yet.
	proto := &Proto{
		Name: "main",
		Code: []Instruction{
			{Op: OpPushConst, Operand: 0}, // 2
			{Op: OpPushConst, Operand: 1}, // 3
			{Op: OpPushConst, Operand: 2}, // 4
			{Op: OpMul},
			{Op: OpAdd},
			{Op: OpReturn},
		},
		Constants: []value.Value{value.Number(2), value.Number(3), value.Number(4)},
	}
	m := New(0)
	result, err := m.Run(proto, nil, time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.AsNumber() != 14 {
		t.Fatalf("result = %v, want 14", result.AsNumber())
	}
}

func TestDivisionByZeroIsTypeError(t *testing.T) {
	proto := &Proto{
		Code: []Instruction{
			{Op: OpPushConst, Operand: 0},
			{Op: OpPushConst, Operand: 1},
			{Op: OpDiv},
			{Op: OpReturn},
		},
		Constants: []value.Value{value.Number(1), value.Number(0)},
		Source:    "t",
	}
	_, err := New(0).Run(proto, nil, time.Time{})
	if !errors.Is(err, ErrTypeError) {
		t.Fatalf("err = %v, want ErrTypeError", err)
	}
}

func TestModuloTruncatesTowardZero(t *testing.T) {
	proto := &Proto{
		Code: []Instruction{
			{Op: OpPushConst, Operand: 0},
			{Op: OpPushConst, Operand: 1},
			{Op: OpMod},
			{Op: OpReturn},
		},
		Constants: []value.Value{value.Number(-7), value.Number(2)},
	}
	result, err := New(0).Run(proto, nil, time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.AsNumber() != -1 {
		t.Fatalf("result = %v, want -1", result.AsNumber())
	}
}

func TestMemoryLimitExceeded(t *testing.T) {
	proto := &Proto{
		Code: []Instruction{
			{Op: OpPushConst, Operand: 0},
			{Op: OpPushConst, Operand: 0},
			{Op: OpConcat},
			{Op: OpReturn},
		},
		Constants: []value.Value{value.String("0123456789")},
	}
	m := New(5)
	_, err := m.Run(proto, nil, time.Time{})
	if !errors.Is(err, ErrMemoryLimitExceeded) {
		t.Fatalf("err = %v, want ErrMemoryLimitExceeded", err)
	}
}

func TestExecutionTimeout(t *testing.T) {
	// An infinite loop: jump back to pc 0 forever.
	proto := &Proto{
		Code: []Instruction{
			{Op: OpPushConst, Operand: 0},
			{Op: OpPop},
			{Op: OpJump, Operand: 0},
		},
		Constants: []value.Value{value.Number(1)},
	}
	m := New(0)
	_, err := m.Run(proto, nil, time.Now().Add(10*time.Millisecond))
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("err = %v, want ErrExecutionTimeout", err)
	}
}

func TestCallHostBuiltin(t *testing.T) {
	m := New(0)
	m.RegisterBuiltin("double", func(args []value.Value) (value.Value, error) {
		return value.Number(args[0].AsNumber() * 2), nil
	})
	proto := &Proto{
		Code: []Instruction{
			{Op: OpLoadGlobal, Operand: 0}, // "double"
			{Op: OpPushConst, Operand: 1},  // 21
			{Op: OpCall, Operand: 1},
			{Op: OpReturn},
		},
		Constants: []value.Value{value.String("double"), value.Number(21)},
	}
	result, err := m.Run(proto, nil, time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.AsNumber() != 42 {
		t.Fatalf("result = %v, want 42", result.AsNumber())
	}
}

func TestCallScriptFunctionRecursive(t *testing.T) {
	// factorial(n) = n <= 1 ? 1 : n * factorial(n-1), called with n=5.
	m := New(0)
	fact := &Proto{
		Name:      "factorial",
		NumParams: 1,
		NumLocals: 1,
	}
	fact.Constants = []value.Value{
		value.Number(1),
		value.FromFunction(value.NewScriptFunction("factorial", fact)),
	}
	fact.Code = []Instruction{
		{Op: OpLoadLocal, Operand: 0},   // n
		{Op: OpPushConst, Operand: 0},   // 1
		{Op: OpLe},                      // n <= 1
		{Op: OpJumpIfFalse, Operand: 6}, // else branch
		{Op: OpPushConst, Operand: 0},   // return 1
		{Op: OpReturn},
		{Op: OpPushConst, Operand: 1}, // factorial
		{Op: OpLoadLocal, Operand: 0}, // n
		{Op: OpPushConst, Operand: 0}, // 1
		{Op: OpSub},                   // n-1
		{Op: OpCall, Operand: 1},      // factorial(n-1)
		{Op: OpLoadLocal, Operand: 0}, // n
		{Op: OpMul},                   // n * factorial(n-1)
		{Op: OpReturn},
	}

	result, err := m.Run(fact, []value.Value{value.Number(5)}, time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.AsNumber() != 120 {
		t.Fatalf("result = %v, want 120", result.AsNumber())
	}
}

func TestArrayAndTableRoundTrip(t *testing.T) {
	proto := &Proto{
		Code: []Instruction{
			{Op: OpPushConst, Operand: 0}, // 10
			{Op: OpPushConst, Operand: 1}, // 20
			{Op: OpMakeArray, Operand: 2},
			{Op: OpPushConst, Operand: 2}, // index 1
			{Op: OpIndexGet},
			{Op: OpReturn},
		},
		Constants: []value.Value{value.Number(10), value.Number(20), value.Number(1)},
	}
	result, err := New(0).Run(proto, nil, time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.AsNumber() != 20 {
		t.Fatalf("result = %v, want 20", result.AsNumber())
	}
}
