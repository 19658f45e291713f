package editor

import (
	"testing"

	"github.com/grim-editor/grim/internal/engine/buffer"
)

type stubDefs struct {
	target buffer.ByteOffset
}

func (s stubDefs) DefinitionFor(offset buffer.ByteOffset) (buffer.ByteOffset, bool) {
	return s.target, true
}

func TestJumpToDefinitionRequiresProvider(t *testing.T) {
	e := newTestEditor(t, "foo bar")
	if err := e.JumpToDefinition(); err != ErrUnsupported {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestJumpToDefinitionWithProvider(t *testing.T) {
	buf := buffer.NewBufferFromString("foo bar")
	e := New(buf, WithDefinitionProvider(stubDefs{target: 4}))
	if err := e.JumpToDefinition(); err != nil {
		t.Fatal(err)
	}
	if got := e.PrimaryOffset(); got != 4 {
		t.Fatalf("offset = %d, want 4", got)
	}
}
