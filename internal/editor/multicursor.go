package editor

import (
	"strings"

	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

// AddCursorBelow adds a secondary cursor one line below the primary,
// preserving its column (clamped to the target line's length).
func (e *Editor) AddCursorBelow() { e.addCursorVertical(1) }

// AddCursorAbove adds a secondary cursor one line above the primary.
func (e *Editor) AddCursorAbove() { e.addCursorVertical(-1) }

func (e *Editor) addCursorVertical(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	off := e.cursors.PrimaryCursor()
	p, err := e.buf.OffsetToPoint(off)
	if err != nil {
		return
	}
	target := int64(p.Line) + int64(delta)
	if target < 0 || target >= int64(e.buf.LineCount()) {
		return
	}
	start := e.buf.LineStartOffset(uint32(target))
	contentEnd := e.lineContentEnd(uint32(target))
	col := buffer.ByteOffset(p.Column)
	if col > contentEnd-start {
		col = contentEnd - start
	}
	e.cursors.Add(cursor.NewCursorSelection(start + col))
}

// AddCursorAtNextMatch finds the identifier-class word under the primary
// cursor and appends a secondary cursor at its next whole-word occurrence
// after the primary. Silent no-op on failure (spec §4.3).
func (e *Editor) AddCursorAtNextMatch() {
	e.mu.Lock()
	defer e.mu.Unlock()

	off := e.cursors.PrimaryCursor()
	word, start, end := wordAt(e.buf, off)
	if word == "" {
		return
	}
	if at, ok := nextWholeWord(e.buf, end, word); ok {
		_ = start
		e.cursors.Add(cursor.NewCursorSelection(at))
	}
}

// RemoveLastCursor drops the most recently added secondary cursor.
func (e *Editor) RemoveLastCursor() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.RemoveLast()
}

// ToggleCursorAt adds a cursor at off if none exists there, or removes the
// one that does.
func (e *Editor) ToggleCursorAt(off buffer.ByteOffset) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sel := range e.cursors.All() {
		if sel.IsEmpty() && sel.Head == off {
			e.cursors.Remove(i)
			return
		}
	}
	e.cursors.Add(cursor.NewCursorSelection(off))
}

// wordAt returns the identifier-class word containing off, and its range.
func wordAt(buf *buffer.Buffer, off buffer.ByteOffset) (string, buffer.ByteOffset, buffer.ByteOffset) {
	n := buf.Len()
	if off >= n {
		return "", off, off
	}
	b, ok := buf.ByteAt(off)
	if !ok || !isWordByte(b) {
		return "", off, off
	}
	start := off
	for start > 0 {
		pb, ok := buf.ByteAt(start - 1)
		if !ok || !isWordByte(pb) {
			break
		}
		start--
	}
	end := off
	for end < n {
		eb, ok := buf.ByteAt(end)
		if !ok || !isWordByte(eb) {
			break
		}
		end++
	}
	text, err := buf.TextRange(start, end)
	if err != nil {
		return "", off, off
	}
	return text, start, end
}

// nextWholeWord finds the next whole-word occurrence of word at or after
// from, respecting word boundaries on both sides.
func nextWholeWord(buf *buffer.Buffer, from buffer.ByteOffset, word string) (buffer.ByteOffset, bool) {
	text := buf.Text()
	start := int(from)
	if start < 0 {
		start = 0
	}
	if start > len(text) {
		return 0, false
	}
	for {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return 0, false
		}
		at := start + idx
		if isWholeWordMatch(text, at, len(word)) {
			return buffer.ByteOffset(at), true
		}
		start = at + 1
		if start > len(text) {
			return 0, false
		}
	}
}

func isWholeWordMatch(text string, at, length int) bool {
	if at > 0 && isWordByte(text[at-1]) {
		return false
	}
	end := at + length
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}
