package editor

import (
	"strings"

	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

// Search sets the current search pattern and jumps the primary cursor to
// the first match at or after cursor+1, wrapping around the buffer.
// Pattern matching is plain substring, byte equality (spec §4.3); regex is
// out of scope. Returns whether a match was found.
func (e *Editor) Search(pattern string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.search = SearchState{Pattern: pattern, LastDir: DirForward}
	if pattern == "" {
		return false
	}
	return e.searchFrom(pattern, e.cursors.PrimaryCursor()+1, DirForward)
}

// SearchNext repeats the last search forward from cursor+1, wrapping ('n').
func (e *Editor) SearchNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.search.Pattern == "" {
		return false
	}
	e.search.LastDir = DirForward
	return e.searchFrom(e.search.Pattern, e.cursors.PrimaryCursor()+1, DirForward)
}

// SearchPrev repeats the last search backward from cursor-1, wrapping ('N').
func (e *Editor) SearchPrev() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.search.Pattern == "" {
		return false
	}
	e.search.LastDir = DirBackward
	return e.searchFrom(e.search.Pattern, e.cursors.PrimaryCursor()-1, DirBackward)
}

// searchFrom performs the wraparound substring search and, on a hit, moves
// the primary cursor there. Caller holds e.mu.
func (e *Editor) searchFrom(pattern string, from buffer.ByteOffset, dir Direction) bool {
	text := e.buf.Text()
	if from < 0 {
		from = buffer.ByteOffset(len(text)) + from
	}

	var at int
	switch dir {
	case DirForward:
		start := int(from)
		if start < 0 {
			start = 0
		}
		if start > len(text) {
			start = len(text)
		}
		at = strings.Index(safeSlice(text, start, len(text)), pattern)
		if at >= 0 {
			at += start
		} else {
			at = strings.Index(text, pattern)
		}
	default:
		end := int(from) + len(pattern)
		if end > len(text) {
			end = len(text)
		}
		if end < 0 {
			end = 0
		}
		at = strings.LastIndex(safeSlice(text, 0, end), pattern)
		if at < 0 {
			at = strings.LastIndex(text, pattern)
		}
	}
	if at < 0 {
		return false
	}
	e.cursors.SetPrimary(cursor.NewCursorSelection(buffer.ByteOffset(at)))
	e.clearGoalColumn()
	return true
}

func safeSlice(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		return ""
	}
	return s[start:end]
}
