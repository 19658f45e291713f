package value

import (
	"fmt"
	"math"
)

// Kind tags which arm of the Value union is populated.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindTable
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a Script value. The zero Value is nil.
type Value struct {
	kind Kind
	num  float64
	str  string
	arr  *Array
	tbl  *Table
	fn   *Function
}

// Nil is the canonical nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a boolean value.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Number constructs a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// String constructs a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// FromArray wraps an *Array as a Value.
func FromArray(a *Array) Value {
	return Value{kind: KindArray, arr: a}
}

// FromTable wraps a *Table as a Value.
func FromTable(t *Table) Value {
	return Value{kind: KindTable, tbl: t}
}

// FromFunction wraps a *Function as a Value.
func FromFunction(f *Function) Value {
	return Value{kind: KindFunction, fn: f}
}

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool      { return v.kind == KindNil }
func (v Value) IsBool() bool     { return v.kind == KindBool }
func (v Value) IsNumber() bool   { return v.kind == KindNumber }
func (v Value) IsString() bool   { return v.kind == KindString }
func (v Value) IsArray() bool    { return v.kind == KindArray }
func (v Value) IsTable() bool    { return v.kind == KindTable }
func (v Value) IsFunction() bool { return v.kind == KindFunction }

// AsBool returns the boolean payload; only meaningful when Kind()==KindBool.
func (v Value) AsBool() bool { return v.num != 0 }

// AsNumber returns the numeric payload; only meaningful when Kind()==KindNumber.
func (v Value) AsNumber() float64 { return v.num }

// AsString returns the string payload; only meaningful when Kind()==KindString.
func (v Value) AsString() string { return v.str }

// AsArray returns the array payload, or nil if this value is not an array.
func (v Value) AsArray() *Array { return v.arr }

// AsTable returns the table payload, or nil if this value is not a table.
func (v Value) AsTable() *Table { return v.tbl }

// AsFunction returns the function payload, or nil if this value is not a function.
func (v Value) AsFunction() *Function { return v.fn }

// Truthy follows the language's truthiness rule: everything is truthy except
// nil and the boolean false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.num != 0
	default:
		return true
	}
}

// Equals reports value equality. Arrays, tables, and functions compare by
// reference identity; numbers compare by IEEE equality (so NaN != NaN).
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool, KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindArray:
		return v.arr == other.arr
	case KindTable:
		return v.tbl == other.tbl
	case KindFunction:
		return v.fn == other.fn
	default:
		return false
	}
}

// String renders the value for the builtin print/to_string path.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return fmt.Sprintf("%t", v.AsBool())
	case KindNumber:
		if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return fmt.Sprintf("%v", v.num)
		}
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return fmt.Sprintf("%d", int64(v.num))
		}
		return fmt.Sprintf("%g", v.num)
	case KindString:
		return v.str
	case KindArray:
		return fmt.Sprintf("array(%d)", v.arr.Len())
	case KindTable:
		return fmt.Sprintf("table(%d)", v.tbl.Len())
	case KindFunction:
		return "function"
	default:
		return "?"
	}
}
