package history

import (
	"errors"
	"sync"
	"time"

	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// entry is one undo/redo checkpoint: a buffer snapshot plus the cursor
// layout at the time it was captured.
type entry struct {
	snapshot  *buffer.Snapshot
	cursors   *cursor.CursorSet
	label     string
	timestamp time.Time
}

// OperationInfo describes one entry for display purposes (e.g. an undo-tree
// picker), without exposing the captured snapshot itself.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

// History manages bounded undo/redo stacks of buffer.Snapshot for a single
// buffer. It holds no reference to the buffer or cursor set between calls;
// every method takes them explicitly, matching how the engine threads a
// buffer and its cursors through a single edit/undo call.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	maxEntries int
}

// New creates a History capped at maxEntries undo checkpoints. A
// non-positive maxEntries falls back to the default of 1000.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{maxEntries: maxEntries}
}

// Push records the buffer/cursor state as the checkpoint to return to on
// the next Undo. Callers capture this state immediately before applying an
// edit. Pushing clears the redo stack, since a fresh edit invalidates
// whatever was previously redoable.
func (h *History) Push(label string, snap *buffer.Snapshot, cursors *cursor.CursorSet) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, &entry{
		snapshot:  snap,
		cursors:   cursors.Clone(),
		label:     label,
		timestamp: time.Now(),
	})
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo restores buf and cursors to the most recently pushed checkpoint,
// pushing the pre-undo state onto the redo stack.
func (h *History) Undo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	redoEntry := &entry{
		snapshot:  buf.Snapshot(),
		cursors:   cursors.Clone(),
		label:     e.label,
		timestamp: time.Now(),
	}

	buf.Restore(e.snapshot)
	cursors.SetAll(e.cursors.All())

	h.mu.Lock()
	h.redoStack = append(h.redoStack, redoEntry)
	h.mu.Unlock()
	return nil
}

// Redo restores buf and cursors to the most recently undone checkpoint,
// pushing the pre-redo state back onto the undo stack.
func (h *History) Redo(buf *buffer.Buffer, cursors *cursor.CursorSet) error {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	undoEntry := &entry{
		snapshot:  buf.Snapshot(),
		cursors:   cursors.Clone(),
		label:     e.label,
		timestamp: time.Now(),
	}

	buf.Restore(e.snapshot)
	cursors.SetAll(e.cursors.All())

	h.mu.Lock()
	h.undoStack = append(h.undoStack, undoEntry)
	h.mu.Unlock()
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo checkpoints available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo checkpoints available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}

// PeekUndo returns info about the next undo checkpoint without consuming it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	e := h.undoStack[len(h.undoStack)-1]
	return OperationInfo{Description: e.label, Timestamp: e.timestamp}, true
}

// PeekRedo returns info about the next redo checkpoint without consuming it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	e := h.redoStack[len(h.redoStack)-1]
	return OperationInfo{Description: e.label, Timestamp: e.timestamp}, true
}

// SetMaxEntries changes the maximum number of undo checkpoints. If the
// current stack is larger, the oldest entries are evicted immediately.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = 1000
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxEntries = max
	if len(h.undoStack) > max {
		excess := len(h.undoStack) - max
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo checkpoints.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
