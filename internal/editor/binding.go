package editor

import (
	"github.com/grim-editor/grim/internal/engine/cursor"
	scripthost "github.com/grim-editor/grim/internal/script/host"
)

// Editor satisfies scripthost.EditorBinding directly, wiring the host
// builtins in spec.md §4.5/§6 ("editor buffer/cursor/selection
// getters/setters") straight through to the live modal state rather than
// through a separate adapter type.
var _ scripthost.EditorBinding = (*Editor)(nil)

// BufferText returns the full text of the active buffer.
func (e *Editor) BufferText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// CursorOffset returns the primary cursor's byte offset.
func (e *Editor) CursorOffset() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return int64(e.cursors.PrimaryCursor())
}

// SetCursorOffset moves the primary cursor to offset, clamped to the
// buffer's bounds, discarding any active selection.
func (e *Editor) SetCursorOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if offset < 0 {
		offset = 0
	}
	if max := e.buf.Len(); offset > max {
		offset = max
	}
	e.cursors.SetPrimary(cursor.NewCursorSelection(offset))
	e.clearGoalColumn()
}

// SelectionRange returns the primary selection's [start, end) byte range;
// start == end when there is no selection.
func (e *Editor) SelectionRange() (start, end int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel := e.cursors.Primary()
	if sel.Anchor <= sel.Head {
		return int64(sel.Anchor), int64(sel.Head)
	}
	return int64(sel.Head), int64(sel.Anchor)
}
