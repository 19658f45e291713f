package editor

import "testing"

func TestDispatchMotion(t *testing.T) {
	e := newTestEditor(t, "abc")
	if err := e.Dispatch(Command{Kind: CmdMoveRight}); err != nil {
		t.Fatal(err)
	}
	if got := e.PrimaryOffset(); got != 1 {
		t.Fatalf("offset = %d, want 1", got)
	}
}

func TestDispatchInsertText(t *testing.T) {
	e := newTestEditor(t, "bc")
	if err := e.Dispatch(Command{Kind: CmdInsertText, Arg: "a"}); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "abc"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
}

func TestDispatchUnsupported(t *testing.T) {
	e := newTestEditor(t, "abc")
	if err := e.Dispatch(Command{Kind: CommandKind(9999)}); err != ErrUnsupported {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestDispatchNoneIsNoOp(t *testing.T) {
	e := newTestEditor(t, "abc")
	if err := e.Dispatch(Command{Kind: CmdNone}); err != nil {
		t.Fatal(err)
	}
}

func TestDispatchSearchNoMatchReturnsErrNoMatch(t *testing.T) {
	e := newTestEditor(t, "abc")
	if err := e.Dispatch(Command{Kind: CmdSearch, Arg: "zzz"}); err != ErrNoMatch {
		t.Fatalf("err = %v, want ErrNoMatch", err)
	}
}

func TestDispatchVisualFlow(t *testing.T) {
	e := newTestEditor(t, "abcdef")
	if err := e.Dispatch(Command{Kind: CmdEnterVisual}); err != nil {
		t.Fatal(err)
	}
	if err := e.Dispatch(Command{Kind: CmdExtendRight}); err != nil {
		t.Fatal(err)
	}
	if err := e.Dispatch(Command{Kind: CmdVisualDelete}); err != nil {
		t.Fatal(err)
	}
	if got, want := e.Buffer().Text(), "bcdef"; got != want {
		t.Fatalf("text = %q, want %q", got, want)
	}
	if e.Mode() != ModeNormal {
		t.Fatalf("mode = %v, want normal", e.Mode())
	}
}
