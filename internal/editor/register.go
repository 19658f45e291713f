package editor

import (
	"strings"

	"github.com/grim-editor/grim/internal/engine/cursor"
)

// YankLine copies the current line, including its trailing newline, into
// the register as linewise content ('yy'). The cursor is unchanged.
func (e *Editor) YankLine() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.buf.OffsetToPoint(e.cursors.PrimaryCursor())
	if err != nil {
		return err
	}
	start := e.buf.LineStartOffset(p.Line)
	end := e.buf.LineEndOffset(p.Line)
	text, err := e.buf.TextRange(start, end)
	if err != nil {
		return err
	}
	if text != "" && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	e.register = Register{Bytes: []byte(text), Linewise: true}
	return nil
}

// PasteAfter inserts the register's contents after the cursor ('p'). A
// linewise register is inserted as a new line following the cursor's
// line; a characterwise register is inserted immediately after the cursor
// byte.
func (e *Editor) PasteAfter() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.register.Bytes) == 0 {
		return nil
	}
	if e.register.Linewise {
		p, err := e.buf.OffsetToPoint(e.cursors.PrimaryCursor())
		if err != nil {
			return err
		}
		text := ensureTrailingNewline(string(e.register.Bytes))
		insertAt := e.buf.LineEndOffset(p.Line)
		if insertAt == e.buf.Len() {
			if b, ok := e.buf.ByteAt(insertAt - 1); insertAt > 0 && ok && b != '\n' {
				if err := e.insertAt(insertAt, "\n"); err != nil {
					return err
				}
				insertAt = e.buf.Len()
			}
		}
		if err := e.insertAt(insertAt, text); err != nil {
			return err
		}
		e.cursors.SetPrimary(cursor.NewCursorSelection(insertAt))
		return nil
	}

	pos := e.cursors.PrimaryCursor()
	insertAt := pos
	if pos < e.buf.Len() {
		insertAt = nextBoundary(e.buf, pos)
	}
	return e.insertAt(insertAt, string(e.register.Bytes))
}

// PasteBefore inserts the register's contents before the cursor ('P'). A
// linewise register is inserted as a new line preceding the cursor's line;
// a characterwise register is inserted directly at the cursor.
func (e *Editor) PasteBefore() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.register.Bytes) == 0 {
		return nil
	}
	if e.register.Linewise {
		p, err := e.buf.OffsetToPoint(e.cursors.PrimaryCursor())
		if err != nil {
			return err
		}
		insertAt := e.buf.LineStartOffset(p.Line)
		text := ensureTrailingNewline(string(e.register.Bytes))
		if err := e.insertAt(insertAt, text); err != nil {
			return err
		}
		e.cursors.SetPrimary(cursor.NewCursorSelection(insertAt))
		return nil
	}
	return e.insertAt(e.cursors.PrimaryCursor(), string(e.register.Bytes))
}

func ensureTrailingNewline(s string) string {
	if s != "" && !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}
