package history

import (
	"testing"

	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	buf := buffer.NewBufferFromString("the quick brown fox")
	cursors := cursor.NewCursorSetAt(0)
	h := New(10)

	h.Push("insert", buf.Snapshot(), cursors)
	if _, err := buf.Insert(4, "very "); err != nil {
		t.Fatalf("insert: %v", err)
	}
	cursors.SetAll([]cursor.Selection{cursor.NewCursorSelection(9)})

	if buf.Text() != "the very quick brown fox" {
		t.Fatalf("unexpected text after insert: %q", buf.Text())
	}

	if err := h.Undo(buf, cursors); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if buf.Text() != "the quick brown fox" {
		t.Fatalf("after undo = %q, want original text", buf.Text())
	}
	if cursors.PrimaryCursor() != 0 {
		t.Fatalf("after undo cursor = %d, want 0", cursors.PrimaryCursor())
	}

	if err := h.Redo(buf, cursors); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if buf.Text() != "the very quick brown fox" {
		t.Fatalf("after redo = %q, want edited text", buf.Text())
	}
	if cursors.PrimaryCursor() != 9 {
		t.Fatalf("after redo cursor = %d, want 9", cursors.PrimaryCursor())
	}
}

func TestUndoEmptyStackErrors(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	cursors := cursor.NewCursorSetAt(0)
	h := New(10)

	if err := h.Undo(buf, cursors); err != ErrNothingToUndo {
		t.Fatalf("Undo on empty stack = %v, want ErrNothingToUndo", err)
	}
	if err := h.Redo(buf, cursors); err != ErrNothingToRedo {
		t.Fatalf("Redo on empty stack = %v, want ErrNothingToRedo", err)
	}
}

func TestPushClearsRedoStack(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	cursors := cursor.NewCursorSetAt(0)
	h := New(10)

	h.Push("first", buf.Snapshot(), cursors)
	if _, err := buf.Insert(3, "d"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := h.Undo(buf, cursors); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo to be available after undo")
	}

	h.Push("second", buf.Snapshot(), cursors)
	if _, err := buf.Insert(3, "e"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if h.CanRedo() {
		t.Fatal("expected a fresh Push to clear the redo stack")
	}
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	buf := buffer.NewBufferFromString("")
	cursors := cursor.NewCursorSetAt(0)
	h := New(3)

	for i := 0; i < 5; i++ {
		h.Push("edit", buf.Snapshot(), cursors)
		if _, err := buf.Insert(buf.Len(), "x"); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	if got := h.UndoCount(); got != 3 {
		t.Fatalf("UndoCount() = %d, want 3 (capacity eviction)", got)
	}
}

func TestSetMaxEntriesShrinksImmediately(t *testing.T) {
	buf := buffer.NewBufferFromString("")
	cursors := cursor.NewCursorSetAt(0)
	h := New(10)

	for i := 0; i < 5; i++ {
		h.Push("edit", buf.Snapshot(), cursors)
		if _, err := buf.Insert(buf.Len(), "x"); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if got := h.UndoCount(); got != 5 {
		t.Fatalf("UndoCount() = %d, want 5", got)
	}

	h.SetMaxEntries(2)
	if got := h.UndoCount(); got != 2 {
		t.Fatalf("after SetMaxEntries(2), UndoCount() = %d, want 2", got)
	}
}
