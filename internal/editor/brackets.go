package editor

import (
	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

var bracketPairs = map[byte]byte{
	'(': ')', '[': ']', '{': '}', '<': '>',
}

var bracketPairsRev = map[byte]byte{
	')': '(', ']': '[', '}': '{', '>': '<',
}

// MatchBracket finds the bracket matching the one under the primary cursor
// by depth counting over the rope's bytes; it does not respect
// strings/comments. Moves the cursor to the match and returns true, or
// returns false (leaving the cursor alone) if the cursor isn't on a
// bracket or no match exists.
func (e *Editor) MatchBracket() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos := e.cursors.PrimaryCursor()
	b, ok := e.buf.ByteAt(pos)
	if !ok {
		return false
	}

	if close, isOpen := bracketPairs[b]; isOpen {
		if at, found := scanForward(e.buf, pos, b, close); found {
			e.cursors.SetPrimary(cursor.NewCursorSelection(at))
			return true
		}
		return false
	}
	if open, isClose := bracketPairsRev[b]; isClose {
		if at, found := scanBackward(e.buf, pos, open, b); found {
			e.cursors.SetPrimary(cursor.NewCursorSelection(at))
			return true
		}
		return false
	}
	return false
}

func scanForward(buf *buffer.Buffer, from buffer.ByteOffset, open, close byte) (buffer.ByteOffset, bool) {
	depth := 0
	n := buf.Len()
	for pos := from; pos < n; pos++ {
		b, ok := buf.ByteAt(pos)
		if !ok {
			break
		}
		switch b {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return pos, true
			}
		}
	}
	return 0, false
}

func scanBackward(buf *buffer.Buffer, from buffer.ByteOffset, open, close byte) (buffer.ByteOffset, bool) {
	depth := 0
	for pos := from; pos >= 0; pos-- {
		b, ok := buf.ByteAt(pos)
		if !ok {
			break
		}
		switch b {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return pos, true
			}
		}
		if pos == 0 {
			break
		}
	}
	return 0, false
}
