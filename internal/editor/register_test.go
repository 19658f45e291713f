package editor

import "testing"

func TestYankAndPasteAfterScenario(t *testing.T) {
	// "one\ntwo\n", yy then p -> "one\none\ntwo\n", cursor at line 1 col 0.
	e := newTestEditor(t, "one\ntwo\n")
	if err := e.YankLine(); err != nil {
		t.Fatal(err)
	}
	if err := e.PasteAfter(); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "one\none\ntwo\n"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	p, err := e.Buffer().OffsetToPoint(e.PrimaryOffset())
	if err != nil {
		t.Fatal(err)
	}
	if p.Line != 1 || p.Column != 0 {
		t.Fatalf("cursor = %v, want line 1 col 0", p)
	}
}

func TestYankLineUnchangedCursor(t *testing.T) {
	e := newTestEditor(t, "abc\ndef\n")
	e.MoveDown()
	before := e.PrimaryOffset()
	if err := e.YankLine(); err != nil {
		t.Fatal(err)
	}
	if got := e.PrimaryOffset(); got != before {
		t.Fatalf("cursor moved by YankLine: %d != %d", got, before)
	}
}

func TestPasteBeforeLinewise(t *testing.T) {
	e := newTestEditor(t, "one\ntwo\n")
	if err := e.YankLine(); err != nil {
		t.Fatal(err)
	}
	e.MoveDown()
	if err := e.PasteBefore(); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "one\none\ntwo\n"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestVisualDeleteThenPasteCharacterwise(t *testing.T) {
	e := newTestEditor(t, "abcdef")
	e.EnterVisual()
	e.ExtendRight()
	e.ExtendRight() // selection [0,2) "ab"
	if err := e.VisualDeleteSelection(); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "cdef"; got != want {
		t.Fatalf("text after delete = %q, want %q", got, want)
	}
	if err := e.PasteAfter(); err != nil {
		t.Fatal(err)
	}
	// cursor sits at 0 after the delete, PasteAfter inserts "ab" after
	// the byte at 0 ('c').
	if got, want := e.Buffer().Text(), "cabdef"; got != want {
		t.Fatalf("text after paste = %q, want %q", got, want)
	}
}

func TestPasteAfterEmptyRegisterIsNoOp(t *testing.T) {
	e := newTestEditor(t, "abc")
	if err := e.PasteAfter(); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "abc"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestVisualYankThenPasteAfter(t *testing.T) {
	e := newTestEditor(t, "abcdef")
	e.EnterVisual()
	e.ExtendRight()
	e.ExtendRight() // selection "ab" (cols 0..2, head at 2)
	if err := e.VisualYankSelection(); err != nil {
		t.Fatal(err)
	}
	reg := e.Register()
	if reg.Linewise || string(reg.Bytes) != "ab" {
		t.Fatalf("register = %+v, want characterwise \"ab\"", reg)
	}
	if err := e.PasteAfter(); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "aabbcdef"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}
