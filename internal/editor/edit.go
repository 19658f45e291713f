package editor

import (
	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

// InsertText inserts text at the primary cursor and moves the cursor to
// p+len(text), per spec §4.3 "Cursor placement on edits". Secondary
// cursors are shifted by cursor.TransformCursorSet.
func (e *Editor) InsertText(text string) error {
	if text == "" {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.insertAt(e.cursors.PrimaryCursor(), text)
}

// insertAt performs the insert, checkpointing history first. Caller holds e.mu.
func (e *Editor) insertAt(pos buffer.ByteOffset, text string) error {
	e.checkpoint("insert")
	end, err := e.buf.Insert(pos, text)
	if err != nil {
		return err
	}
	edit := buffer.NewInsert(pos, text)
	cursor.TransformCursorSet(e.cursors, edit)
	e.cursors.SetPrimary(cursor.NewCursorSelection(end))
	e.clearGoalColumn()
	recordGlyphFrequency(e.glyphFreqW, text)
	return nil
}

// DeleteChar deletes the grapheme cluster under the primary cursor ('x' in
// normal mode), up to nextBoundary. A no-op at end of buffer.
func (e *Editor) DeleteChar() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	pos := e.cursors.PrimaryCursor()
	if pos >= e.buf.Len() {
		return nil
	}
	end := nextBoundary(e.buf, pos)
	return e.deleteRange(pos, end)
}

// deleteRange deletes [start,end) and places the primary cursor at start,
// per spec §4.3. Caller holds e.mu.
func (e *Editor) deleteRange(start, end buffer.ByteOffset) error {
	if start >= end {
		return nil
	}
	removed, rerr := e.buf.TextRange(start, end)
	e.checkpoint("delete")
	if err := e.buf.Delete(start, end); err != nil {
		return err
	}
	edit := buffer.NewDelete(start, end)
	cursor.TransformCursorSet(e.cursors, edit)
	e.cursors.SetPrimary(cursor.NewCursorSelection(start))
	e.clearGoalColumn()
	if rerr == nil {
		recordGlyphFrequency(e.glyphFreqW, removed)
	}
	return nil
}

// DeleteBackward deletes the grapheme cluster immediately before the primary
// cursor (insert-mode backspace), back to prevBoundary. A no-op at the start of the buffer.
func (e *Editor) DeleteBackward() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	pos := e.cursors.PrimaryCursor()
	if pos <= 0 {
		return nil
	}
	start := prevBoundary(e.buf, pos)
	return e.deleteRange(start, pos)
}

// DeleteLine deletes the whole current line, including its trailing
// newline, and yanks it into the register as linewise ('dd').
func (e *Editor) DeleteLine() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.buf.OffsetToPoint(e.cursors.PrimaryCursor())
	if err != nil {
		return err
	}
	start := e.buf.LineStartOffset(p.Line)
	end := e.buf.LineEndOffset(p.Line)
	if start == end {
		return nil
	}
	text, err := e.buf.TextRange(start, end)
	if err != nil {
		return err
	}
	e.register = Register{Bytes: []byte(text), Linewise: true}
	return e.deleteRange(start, end)
}

// JoinLines joins the current line with the next by removing the newline
// between them.
func (e *Editor) JoinLines() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.buf.OffsetToPoint(e.cursors.PrimaryCursor())
	if err != nil {
		return err
	}
	if uint32(p.Line)+1 >= e.buf.LineCount() {
		return nil
	}
	end := e.buf.LineEndOffset(p.Line)
	if end == 0 {
		return nil
	}
	nl := end - 1
	if b, ok := e.buf.ByteAt(nl); !ok || b != '\n' {
		return nil
	}
	return e.deleteRange(nl, end)
}
