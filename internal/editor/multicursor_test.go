package editor

import "testing"

func TestAddCursorBelowPreservesColumn(t *testing.T) {
	e := newTestEditor(t, "abcdef\nxy\nghijkl\n")
	e.MoveRight()
	e.MoveRight()
	e.MoveRight() // offset 3, line 0 col 3
	e.AddCursorBelow()
	if got := e.Cursors().Count(); got != 2 {
		t.Fatalf("cursor count = %d, want 2", got)
	}
	sels := e.Cursors().All()
	// sorted ascending by start; the added cursor on line 1 (short line,
	// clamped to col 2) should come before the original on line 0... no,
	// line 1 starts after line 0, so it sorts after.
	last := sels[len(sels)-1]
	p, err := e.Buffer().OffsetToPoint(last.Head)
	if err != nil {
		t.Fatal(err)
	}
	if p.Line != 1 || p.Column != 2 {
		t.Fatalf("added cursor at %v, want line 1 col 2 (clamped)", p)
	}
}

func TestAddCursorAtNextMatch(t *testing.T) {
	e := newTestEditor(t, "foo bar foo baz foo")
	e.AddCursorAtNextMatch()
	if got := e.Cursors().Count(); got != 2 {
		t.Fatalf("cursor count = %d, want 2", got)
	}
	sels := e.Cursors().All()
	if sels[1].Head != 8 {
		t.Fatalf("second cursor at %d, want 8", sels[1].Head)
	}
}

func TestAddCursorAtNextMatchNoWordUnderCursor(t *testing.T) {
	e := newTestEditor(t, "   foo")
	e.AddCursorAtNextMatch()
	if got := e.Cursors().Count(); got != 1 {
		t.Fatalf("cursor count = %d, want 1 (no word under cursor)", got)
	}
}

func TestRemoveLastCursor(t *testing.T) {
	e := newTestEditor(t, "foo bar foo")
	e.AddCursorAtNextMatch()
	if got := e.Cursors().Count(); got != 2 {
		t.Fatalf("setup: cursor count = %d, want 2", got)
	}
	e.RemoveLastCursor()
	if got := e.Cursors().Count(); got != 1 {
		t.Fatalf("cursor count after remove = %d, want 1", got)
	}
}
