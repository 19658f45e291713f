package editor

import (
	"github.com/rivo/uniseg"

	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

// graphemeLookahead bounds how much text graphemeSnapForward/Backward
// materialize around a candidate boundary. Combining-mark sequences in
// real text are short; this is generous without risking large allocations
// on pathological input.
const graphemeLookahead = 64

// isWordByte is the word-character class used uniformly by motions,
// rename, and multi-cursor match-finding: [A-Za-z0-9_]. Unicode identifier
// handling is an open question left unresolved by the source (spec §9);
// this byte-oriented class is the one load-bearing definition.
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// isContinuationByte reports whether b is a UTF-8 continuation byte
// (0b10xxxxxx), i.e. not the first byte of a code point.
func isContinuationByte(b byte) bool {
	return b&0xC0 == 0x80
}

// nextBoundary returns the offset of the next UTF-8 code-point boundary
// strictly after pos, clamped to buf.Len(), extended to the enclosing
// grapheme-cluster boundary so a combining-mark sequence moves as one
// unit. The rope itself performs no UTF-8 validation (spec §9); this is
// the editor-level discipline that keeps cursors on code-point (and,
// supplementing that, grapheme-cluster) boundaries.
func nextBoundary(buf *buffer.Buffer, pos buffer.ByteOffset) buffer.ByteOffset {
	n := buf.Len()
	if pos >= n {
		return n
	}
	pos++
	for pos < n {
		b, ok := buf.ByteAt(pos)
		if !ok || !isContinuationByte(b) {
			break
		}
		pos++
	}
	return graphemeSnapForward(buf, pos, n)
}

// prevBoundary returns the offset of the previous UTF-8 code-point
// boundary strictly before pos, clamped to 0, pulled back to the start of
// its enclosing grapheme cluster.
func prevBoundary(buf *buffer.Buffer, pos buffer.ByteOffset) buffer.ByteOffset {
	if pos <= 0 {
		return 0
	}
	pos--
	for pos > 0 {
		b, ok := buf.ByteAt(pos)
		if !ok || !isContinuationByte(b) {
			break
		}
		pos--
	}
	return graphemeSnapBackward(buf, pos)
}

// graphemeSnapForward extends a code-point-boundary candidate forward to
// the nearest grapheme-cluster boundary at or after it, by segmenting a
// bounded window that starts at the beginning of candidate's line.
func graphemeSnapForward(buf *buffer.Buffer, candidate, n buffer.ByteOffset) buffer.ByteOffset {
	if candidate >= n {
		return n
	}
	// Walk back to the start of the current line (always a valid cluster
	// boundary: a line feed is never a combining mark) so segmentation
	// starts from a known-good anchor rather than from candidate itself,
	// which may sit mid-cluster.
	anchor := lineStartBefore(buf, candidate)
	end := candidate + graphemeLookahead
	if end > n {
		end = n
	}
	text, err := buf.TextRange(anchor, end)
	if err != nil || text == "" {
		return candidate
	}

	state := -1
	offset := anchor
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		clusterEnd := offset + buffer.ByteOffset(len(cluster))
		if offset <= candidate && candidate < clusterEnd {
			return clusterEnd
		}
		offset = clusterEnd
		if offset >= candidate {
			break
		}
	}
	return candidate
}

// graphemeSnapBackward pulls a code-point-boundary candidate back to the
// start of its enclosing grapheme cluster.
func graphemeSnapBackward(buf *buffer.Buffer, candidate buffer.ByteOffset) buffer.ByteOffset {
	if candidate <= 0 {
		return 0
	}
	anchor := lineStartBefore(buf, candidate)
	if anchor >= candidate {
		return candidate
	}
	end := candidate + graphemeLookahead
	if n := buf.Len(); end > n {
		end = n
	}
	text, err := buf.TextRange(anchor, end)
	if err != nil || text == "" {
		return candidate
	}

	state := -1
	offset := anchor
	last := anchor
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		clusterEnd := offset + buffer.ByteOffset(len(cluster))
		if clusterEnd > candidate {
			break
		}
		last = clusterEnd
		offset = clusterEnd
	}
	return last
}

// lineStartBefore returns the start offset of the line containing pos, used
// as a safe grapheme-segmentation anchor.
func lineStartBefore(buf *buffer.Buffer, pos buffer.ByteOffset) buffer.ByteOffset {
	p, err := buf.OffsetToPoint(pos)
	if err != nil {
		return 0
	}
	return buf.LineStartOffset(p.Line)
}

// MoveLeft moves the primary cursor to the previous grapheme-cluster
// boundary (see prevBoundary). Infallible: clamps at the start of the buffer.
func (e *Editor) MoveLeft() {
	e.mu.Lock()
	defer e.mu.Unlock()
	off := e.cursors.PrimaryCursor()
	e.cursors.SetPrimary(cursor.NewCursorSelection(prevBoundary(e.buf, off)))
	e.clearGoalColumn()
}

// MoveRight moves the primary cursor to the next grapheme-cluster boundary
// (see nextBoundary). Infallible: clamps at the end of the buffer.
func (e *Editor) MoveRight() {
	e.mu.Lock()
	defer e.mu.Unlock()
	off := e.cursors.PrimaryCursor()
	e.cursors.SetPrimary(cursor.NewCursorSelection(nextBoundary(e.buf, off)))
	e.clearGoalColumn()
}

// currentColumn returns off's byte offset from the start of its line.
func (e *Editor) currentColumn(off buffer.ByteOffset) buffer.ByteOffset {
	p, err := e.buf.OffsetToPoint(off)
	if err != nil {
		return 0
	}
	return buffer.ByteOffset(p.Column)
}

// lineContentEnd returns the offset of the end of line's content, i.e. its
// LineRange end with a trailing newline byte excluded, if present.
func (e *Editor) lineContentEnd(line uint32) buffer.ByteOffset {
	end := e.buf.LineEndOffset(line)
	start := e.buf.LineStartOffset(line)
	if end > start {
		if b, ok := e.buf.ByteAt(end - 1); ok && b == '\n' {
			return end - 1
		}
	}
	return end
}

// MoveUp moves the primary cursor up one line, preserving a goal column
// measured in bytes from the line start and clamped to the target line's
// content length (spec §4.3 "Motion semantics").
func (e *Editor) MoveUp() { e.moveVertical(-1) }

// MoveDown moves the primary cursor down one line.
func (e *Editor) MoveDown() { e.moveVertical(1) }

func (e *Editor) moveVertical(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	off := e.cursors.PrimaryCursor()
	p, err := e.buf.OffsetToPoint(off)
	if err != nil {
		return
	}

	goal := buffer.ByteOffset(p.Column)
	if e.hasGoalColumn {
		goal = e.goalColumn
	} else {
		e.goalColumn = goal
		e.hasGoalColumn = true
	}

	lineCount := int64(e.buf.LineCount())
	target := int64(p.Line) + int64(delta)
	if target < 0 {
		target = 0
	}
	if target >= lineCount {
		target = lineCount - 1
	}

	start := e.buf.LineStartOffset(uint32(target))
	contentEnd := e.lineContentEnd(uint32(target))
	lineLen := contentEnd - start

	col := goal
	if col > lineLen {
		col = lineLen
	}
	e.cursors.SetPrimary(cursor.NewCursorSelection(start + col))
}

// WordForward advances the primary cursor past the current word/punct run
// and any following whitespace, landing at the start of the next token (or
// end of buffer). Word-class per isWordByte.
func (e *Editor) WordForward() {
	e.mu.Lock()
	defer e.mu.Unlock()
	off := e.cursors.PrimaryCursor()
	e.cursors.SetPrimary(cursor.NewCursorSelection(wordForward(e.buf, off)))
	e.clearGoalColumn()
}

func wordForward(buf *buffer.Buffer, pos buffer.ByteOffset) buffer.ByteOffset {
	n := buf.Len()
	if pos >= n {
		return n
	}
	b, _ := buf.ByteAt(pos)
	switch {
	case isWordByte(b):
		for pos < n {
			b, ok := buf.ByteAt(pos)
			if !ok || !isWordByte(b) {
				break
			}
			pos++
		}
	case !isSpaceByte(b):
		for pos < n {
			b, ok := buf.ByteAt(pos)
			if !ok || isWordByte(b) || isSpaceByte(b) {
				break
			}
			pos++
		}
	}
	for pos < n {
		b, ok := buf.ByteAt(pos)
		if !ok || !isSpaceByte(b) {
			break
		}
		pos++
	}
	return pos
}

// WordBackward retreats the primary cursor to the start of the previous
// word/punct token.
func (e *Editor) WordBackward() {
	e.mu.Lock()
	defer e.mu.Unlock()
	off := e.cursors.PrimaryCursor()
	e.cursors.SetPrimary(cursor.NewCursorSelection(wordBackward(e.buf, off)))
	e.clearGoalColumn()
}

func wordBackward(buf *buffer.Buffer, pos buffer.ByteOffset) buffer.ByteOffset {
	if pos <= 0 {
		return 0
	}
	pos--
	for pos > 0 {
		b, ok := buf.ByteAt(pos)
		if !ok || !isSpaceByte(b) {
			break
		}
		pos--
	}
	if pos == 0 {
		b, ok := buf.ByteAt(0)
		if ok && isSpaceByte(b) {
			return 0
		}
	}
	b, _ := buf.ByteAt(pos)
	if isWordByte(b) {
		for pos > 0 {
			pb, ok := buf.ByteAt(pos - 1)
			if !ok || !isWordByte(pb) {
				break
			}
			pos--
		}
	} else if !isSpaceByte(b) {
		for pos > 0 {
			pb, ok := buf.ByteAt(pos - 1)
			if !ok || isWordByte(pb) || isSpaceByte(pb) {
				break
			}
			pos--
		}
	}
	return pos
}

// LineStart moves the primary cursor to the start of its current line.
func (e *Editor) LineStart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	off := e.cursors.PrimaryCursor()
	p, err := e.buf.OffsetToPoint(off)
	if err != nil {
		return
	}
	e.cursors.SetPrimary(cursor.NewCursorSelection(e.buf.LineStartOffset(p.Line)))
	e.clearGoalColumn()
}

// LineEnd moves the primary cursor to the end of its current line's
// content (before any trailing newline).
func (e *Editor) LineEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	off := e.cursors.PrimaryCursor()
	p, err := e.buf.OffsetToPoint(off)
	if err != nil {
		return
	}
	e.cursors.SetPrimary(cursor.NewCursorSelection(e.lineContentEnd(p.Line)))
	e.clearGoalColumn()
}

// FileStart moves the primary cursor to offset 0.
func (e *Editor) FileStart() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.SetPrimary(cursor.NewCursorSelection(0))
	e.clearGoalColumn()
}

// FileEnd moves the primary cursor to the end of the buffer.
func (e *Editor) FileEnd() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors.SetPrimary(cursor.NewCursorSelection(e.buf.Len()))
	e.clearGoalColumn()
}
