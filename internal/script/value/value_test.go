package value

import "testing"

func TestZeroValueIsNil(t *testing.T) {
	var v Value
	if !v.IsNil() || v.Kind() != KindNil {
		t.Fatalf("zero Value = %+v, want nil", v)
	}
}

func TestTruthiness(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Nil, false},
		{Bool(false), false},
		{Bool(true), true},
		{Number(0), true},
		{String(""), true},
		{FromArray(NewArray(nil)), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("Truthy(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualsByKindAndIdentity(t *testing.T) {
	if !Number(1).Equals(Number(1)) {
		t.Fatal("equal numbers must compare equal")
	}
	if Number(1).Equals(String("1")) {
		t.Fatal("values of different kinds must not compare equal")
	}
	a1 := FromArray(NewArray([]Value{Number(1)}))
	a2 := FromArray(NewArray([]Value{Number(1)}))
	if a1.Equals(a2) {
		t.Fatal("distinct array instances must not compare equal even with equal contents")
	}
	if !a1.Equals(a1) {
		t.Fatal("an array must equal itself")
	}
}

func TestStringRendering(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{Bool(true), "true"},
		{Number(3), "3"},
		{Number(3.5), "3.5"},
		{String("hi"), "hi"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestArrayGetSetOutOfRange(t *testing.T) {
	a := NewArray([]Value{Number(1), Number(2)})
	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	if !a.Get(5).IsNil() {
		t.Fatal("out-of-range Get must return Nil")
	}
	if a.Set(5, Number(9)) {
		t.Fatal("out-of-range Set must report failure")
	}
	if !a.Set(0, Number(9)) || a.Get(0).AsNumber() != 9 {
		t.Fatal("in-range Set must update the element")
	}
	a.Append(Number(3))
	if a.Len() != 3 || a.Get(2).AsNumber() != 3 {
		t.Fatal("Append must grow the array")
	}
}

func TestTablePreservesInsertionOrder(t *testing.T) {
	tbl := NewTable()
	tbl.Set("b", Number(2))
	tbl.Set("a", Number(1))
	tbl.Set("b", Number(20)) // overwrite, must not move position
	keys := tbl.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("Keys() = %v, want [b a]", keys)
	}
	if tbl.Get("b").AsNumber() != 20 {
		t.Fatalf("Get(b) = %v, want 20", tbl.Get("b").AsNumber())
	}
	if tbl.Has("missing") {
		t.Fatal("Has(missing) must be false")
	}
	tbl.Delete("b")
	if tbl.Has("b") || tbl.Len() != 1 {
		t.Fatal("Delete must remove the key and compact the order slice")
	}
}

func TestHostFunctionIsHost(t *testing.T) {
	fn := NewHostFunction("double", func(args []Value) (Value, error) {
		return Number(args[0].AsNumber() * 2), nil
	})
	if !fn.IsHost() {
		t.Fatal("NewHostFunction must produce a host function")
	}
	result, err := fn.Host([]Value{Number(21)})
	if err != nil || result.AsNumber() != 42 {
		t.Fatalf("Host(21) = (%v, %v), want (42, nil)", result, err)
	}
}

func TestScriptFunctionIsNotHost(t *testing.T) {
	fn := NewScriptFunction("main", "opaque-proto-placeholder")
	if fn.IsHost() {
		t.Fatal("NewScriptFunction must not be a host function")
	}
}
