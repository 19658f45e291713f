package editor

import (
	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

// EnterVisual starts a selection anchored at the primary cursor's current
// offset and switches to visual mode.
func (e *Editor) EnterVisual() {
	e.mu.Lock()
	defer e.mu.Unlock()
	off := e.cursors.PrimaryCursor()
	e.cursors.SetPrimary(cursor.NewSelection(off, off))
	e.mode = ModeVisual
}

// ExitVisual collapses the selection to its head and returns to normal mode.
func (e *Editor) ExitVisual() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.collapseToHeadLocked()
	e.mode = ModeNormal
}

func (e *Editor) collapseToHeadLocked() {
	sel := e.cursors.Primary()
	e.cursors.SetPrimary(cursor.NewCursorSelection(sel.Head))
}

// selectionRangeLocked returns the primary selection's byte range in
// ascending order. Caller holds e.mu.
func (e *Editor) selectionRangeLocked() (buffer.ByteOffset, buffer.ByteOffset) {
	sel := e.cursors.Primary()
	start, end := sel.Anchor, sel.Head
	if start > end {
		start, end = end, start
	}
	return start, end
}

// ExtendRight grows the visual selection's head by one grapheme cluster.
func (e *Editor) ExtendRight() {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel := e.cursors.Primary()
	head := nextBoundary(e.buf, sel.Head)
	e.cursors.SetPrimary(cursor.NewSelection(sel.Anchor, head))
	e.clearGoalColumn()
}

// ExtendLeft shrinks/grows the visual selection's head by one grapheme
// cluster toward the start of the buffer.
func (e *Editor) ExtendLeft() {
	e.mu.Lock()
	defer e.mu.Unlock()
	sel := e.cursors.Primary()
	head := prevBoundary(e.buf, sel.Head)
	e.cursors.SetPrimary(cursor.NewSelection(sel.Anchor, head))
	e.clearGoalColumn()
}

// ExtendDown moves the selection head down one line, preserving a goal
// column the same way MoveDown does.
func (e *Editor) ExtendDown() { e.extendVertical(1) }

// ExtendUp moves the selection head up one line.
func (e *Editor) ExtendUp() { e.extendVertical(-1) }

func (e *Editor) extendVertical(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sel := e.cursors.Primary()
	p, err := e.buf.OffsetToPoint(sel.Head)
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
	e.cursors.SetPrimary(cursor.NewSelection(sel.Anchor, start+col))
}

// VisualDeleteSelection deletes the selected range, yanks it
// characterwise, and returns to normal mode.
func (e *Editor) VisualDeleteSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	start, end := e.selectionRangeLocked()
	if start == end {
		e.mode = ModeNormal
		return nil
	}
	text, err := e.buf.TextRange(start, end)
	if err != nil {
		return err
	}
	e.register = Register{Bytes: []byte(text), Linewise: false}
	if err := e.deleteRange(start, end); err != nil {
		return err
	}
	e.mode = ModeNormal
	return nil
}

// VisualYankSelection copies the selected range into the register
// characterwise and returns to normal mode with the cursor at the
// selection start.
func (e *Editor) VisualYankSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	start, end := e.selectionRangeLocked()
	text, err := e.buf.TextRange(start, end)
	if err != nil {
		return err
	}
	e.register = Register{Bytes: []byte(text), Linewise: false}
	e.cursors.SetPrimary(cursor.NewCursorSelection(start))
	e.mode = ModeNormal
	return nil
}

// VisualChangeSelection deletes the selection, yanks it, and enters insert
// mode with the cursor at the deletion point.
func (e *Editor) VisualChangeSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	start, end := e.selectionRangeLocked()
	if start != end {
		text, err := e.buf.TextRange(start, end)
		if err != nil {
			return err
		}
		e.register = Register{Bytes: []byte(text), Linewise: false}
		if err := e.deleteRange(start, end); err != nil {
			return err
		}
	}
	e.mode = ModeInsert
	return nil
}

// ExpandSelection grows the current selection to its syntactic enclosing
// range via the configured SyntaxProvider. Returns ErrUnsupported if none
// is configured (spec §4.3: syntax-aware selection is provider-gated).
func (e *Editor) ExpandSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.syntax == nil {
		return ErrUnsupported
	}
	start, end := e.selectionRangeLocked()
	enclosing, ok := e.syntax.Enclosing(cursor.Range{Start: start, End: end})
	if !ok {
		return ErrNoMatch
	}
	e.cursors.SetPrimary(cursor.NewSelection(enclosing.Start, enclosing.End))
	return nil
}

// ShrinkSelection narrows the current selection to its first syntactic
// child range via the configured SyntaxProvider.
func (e *Editor) ShrinkSelection() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.syntax == nil {
		return ErrUnsupported
	}
	start, end := e.selectionRangeLocked()
	child, ok := e.syntax.ChildOf(cursor.Range{Start: start, End: end})
	if !ok {
		return ErrNoMatch
	}
	e.cursors.SetPrimary(cursor.NewSelection(child.Start, child.End))
	return nil
}
