package compiler

import (
	"testing"
	"time"

	"github.com/grim-editor/grim/internal/script/value"
	"github.com/grim-editor/grim/internal/script/vm"
)

func run(t *testing.T, source string) value.Value {
	t.Helper()
	proto, err := Compile(source, "t")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	result, err := vm.New(0).Run(proto, nil, time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return result
}

func TestCompileArithmeticPrecedence(t *testing.T) {
	result := run(t, "return 2 + 3 * 4;")
	if result.AsNumber() != 14 {
		t.Fatalf("result = %v, want 14", result.AsNumber())
	}
}

func TestCompileUnaryAndGrouping(t *testing.T) {
	result := run(t, "return -(2 + 3) * 2;")
	if result.AsNumber() != -10 {
		t.Fatalf("result = %v, want -10", result.AsNumber())
	}
}

func TestCompileLetAndGlobalAssignment(t *testing.T) {
	result := run(t, `
		let x = 10
		x = x + 5
		return x
	`)
	if result.AsNumber() != 15 {
		t.Fatalf("result = %v, want 15", result.AsNumber())
	}
}

func TestCompileIfElse(t *testing.T) {
	result := run(t, `
		let x = 5
		if (x > 10) {
			return "big"
		} else if (x > 3) {
			return "medium"
		} else {
			return "small"
		}
	`)
	if result.AsString() != "medium" {
		t.Fatalf("result = %q, want %q", result.AsString(), "medium")
	}
}

func TestCompileWhileLoop(t *testing.T) {
	result := run(t, `
		let i = 0
		let sum = 0
		while (i < 5) {
			sum = sum + i
			i = i + 1
		}
		return sum
	`)
	if result.AsNumber() != 10 {
		t.Fatalf("result = %v, want 10", result.AsNumber())
	}
}

func TestCompileAndOrShortCircuit(t *testing.T) {
	result := run(t, `return (false and (1 / 0)) or "fallback";`)
	if result.AsString() != "fallback" {
		t.Fatalf("result = %q, want %q", result.AsString(), "fallback")
	}
}

func TestCompileFunctionDeclarationAndCall(t *testing.T) {
	result := run(t, `
		function add(a, b) {
			return a + b
		}
		return add(2, add(3, 4))
	`)
	if result.AsNumber() != 9 {
		t.Fatalf("result = %v, want 9", result.AsNumber())
	}
}

func TestCompileRecursiveFunction(t *testing.T) {
	result := run(t, `
		function fact(n) {
			if (n <= 1) {
				return 1
			}
			return n * fact(n - 1)
		}
		return fact(5)
	`)
	if result.AsNumber() != 120 {
		t.Fatalf("result = %v, want 120", result.AsNumber())
	}
}

func TestCompileArrayLiteralAndIndexing(t *testing.T) {
	result := run(t, `
		let arr = [1, 2, 3]
		arr[1] = 20
		return arr[0] + arr[1] + arr[2]
	`)
	if result.AsNumber() != 24 {
		t.Fatalf("result = %v, want 24", result.AsNumber())
	}
}

func TestCompileTableLiteralAndFieldAccess(t *testing.T) {
	result := run(t, `
		let t = { name = "hello", count = 1 }
		t.count = t.count + 1
		return t.name .. " " .. t.count
	`)
	if result.AsString() != "hello 2" {
		t.Fatalf("result = %q, want %q", result.AsString(), "hello 2")
	}
}

func TestCompileStringConcat(t *testing.T) {
	result := run(t, `return "hello" .. " " .. "world";`)
	if result.AsString() != "hello world" {
		t.Fatalf("result = %q, want %q", result.AsString(), "hello world")
	}
}

func TestCompileLocalScoping(t *testing.T) {
	result := run(t, `
		function scoped() {
			let x = 1
			if (true) {
				let x = 2
				x = x + 1
			}
			return x
		}
		return scoped()
	`)
	if result.AsNumber() != 1 {
		t.Fatalf("result = %v, want 1 (inner x must not leak)", result.AsNumber())
	}
}

func TestCompileHostBuiltinCall(t *testing.T) {
	proto, err := Compile(`return double(21);`, "t")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m := vm.New(0)
	m.RegisterBuiltin("double", func(args []value.Value) (value.Value, error) {
		return value.Number(args[0].AsNumber() * 2), nil
	})
	result, err := m.Run(proto, nil, time.Time{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.AsNumber() != 42 {
		t.Fatalf("result = %v, want 42", result.AsNumber())
	}
}

func TestCompileSyntaxErrorReportsPosition(t *testing.T) {
	_, err := Compile("let x = ", "broken.gza")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("err = %T, want *ParseError", err)
	}
	if perr.Line == 0 {
		t.Fatalf("ParseError.Line not populated: %+v", perr)
	}
}

func TestCompileMixedNumberStringAddIsTypeError(t *testing.T) {
	proto, err := Compile(`return 1 + "a";`, "t")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	_, err = vm.New(0).Run(proto, nil, time.Time{})
	if err == nil {
		t.Fatal("expected a type error at runtime")
	}
}

func TestCompileTrueFalseNilLiterals(t *testing.T) {
	result := run(t, `
		let a = true
		let b = false
		let c = nil
		if (a and not b and c == nil) {
			return "ok"
		}
		return "no"
	`)
	if result.AsString() != "ok" {
		t.Fatalf("result = %q, want %q", result.AsString(), "ok")
	}
}
