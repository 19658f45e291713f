package vm

import (
	"fmt"
	"math"

	"github.com/grim-editor/grim/internal/script/value"
)

// arith implements the five numeric binary operators. Mixing number and
// string is a TypeError; division and modulo by zero are TypeErrors rather
// than IEEE NaN/Inf.
func arith(op Opcode, a, b value.Value) (value.Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return value.Nil, ErrTypeError
	}
	x, y := a.AsNumber(), b.AsNumber()
	switch op {
	case OpAdd:
		return value.Number(x + y), nil
	case OpSub:
		return value.Number(x - y), nil
	case OpMul:
		return value.Number(x * y), nil
	case OpDiv:
		if y == 0 {
			return value.Nil, ErrTypeError
		}
		return value.Number(x / y), nil
	case OpMod:
		if y == 0 {
			return value.Nil, ErrTypeError
		}
		return value.Number(math.Mod(x, y)), nil
	default:
		return value.Nil, fmt.Errorf("%w: not an arithmetic opcode", ErrTypeError)
	}
}

func compare(op Opcode, a, b value.Value) (bool, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return false, ErrTypeError
	}
	x, y := a.AsNumber(), b.AsNumber()
	switch op {
	case OpLt:
		return x < y, nil
	case OpLe:
		return x <= y, nil
	case OpGt:
		return x > y, nil
	case OpGe:
		return x >= y, nil
	default:
		return false, fmt.Errorf("%w: not a comparison opcode", ErrTypeError)
	}
}

func indexGet(container, idx value.Value) (value.Value, error) {
	switch container.Kind() {
	case value.KindArray:
		if !idx.IsNumber() {
			return value.Nil, ErrTypeError
		}
		i := int(idx.AsNumber())
		if i < 0 || i >= container.AsArray().Len() {
			return value.Nil, ErrIndexOutOfRange
		}
		return container.AsArray().Get(i), nil
	case value.KindTable:
		return container.AsTable().Get(idx.String()), nil
	default:
		return value.Nil, ErrTypeError
	}
}

func indexSet(container, idx, v value.Value) error {
	switch container.Kind() {
	case value.KindArray:
		if !idx.IsNumber() {
			return ErrTypeError
		}
		i := int(idx.AsNumber())
		if !container.AsArray().Set(i, v) {
			return ErrIndexOutOfRange
		}
		return nil
	case value.KindTable:
		container.AsTable().Set(idx.String(), v)
		return nil
	default:
		return ErrTypeError
	}
}
