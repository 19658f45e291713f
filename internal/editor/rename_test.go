package editor

import "testing"

func TestRenameInFileReplacesWholeWordOnly(t *testing.T) {
	e := newTestEditor(t, "foo foobar foo_baz foo")
	if err := e.RenameInFile("bar"); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "bar foobar foo_baz bar"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestRenameInFileNoWordUnderCursor(t *testing.T) {
	e := newTestEditor(t, "   foo")
	if err := e.RenameInFile("bar"); err != ErrNoMatch {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}

func TestRenameInFileSameNameIsNoOp(t *testing.T) {
	e := newTestEditor(t, "foo bar")
	if err := e.RenameInFile("foo"); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "foo bar"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestRenameInFileCursorMovesToFirstOccurrence(t *testing.T) {
	e := newTestEditor(t, "x = foo + foo")
	e.WordForward() // past "x" onto "=" at offset 2
	e.WordForward() // land on "foo" at offset 4
	if err := e.RenameInFile("value"); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "x = value + value"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if got := e.PrimaryOffset(); got != 4 {
		t.Fatalf("cursor = %d, want 4 (start of first occurrence)", got)
	}
}
