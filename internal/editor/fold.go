package editor

import "github.com/grim-editor/grim/internal/engine/buffer"

// FoldRange marks a closed range of lines as collapsed.
type FoldRange struct {
	StartLine uint32
	EndLine   uint32
}

// FoldSet tracks the line ranges currently folded in a buffer. Grim has no
// syntax-aware folding provider in scope (§4.3 Non-goals); folds are
// created and removed explicitly by line range.
type FoldSet struct {
	folds []FoldRange
}

func newFoldSet() *FoldSet {
	return &FoldSet{}
}

// Contains reports whether line is hidden by some fold.
func (f *FoldSet) Contains(line uint32) bool {
	for _, r := range f.folds {
		if line >= r.StartLine && line <= r.EndLine {
			return true
		}
	}
	return false
}

// All returns a copy of the current folds in the order they were created;
// they are not sorted by start line.
func (f *FoldSet) All() []FoldRange {
	out := make([]FoldRange, len(f.folds))
	copy(out, f.folds)
	return out
}

// ToggleFold folds [start,end] if no existing fold covers start, or
// removes the fold that does.
func (e *Editor) ToggleFold(start, end uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if start > end {
		start, end = end, start
	}
	for i, r := range e.folds.folds {
		if start >= r.StartLine && start <= r.EndLine {
			e.folds.folds = append(e.folds.folds[:i], e.folds.folds[i+1:]...)
			return
		}
	}
	e.folds.folds = append(e.folds.folds, FoldRange{StartLine: start, EndLine: end})
}

// FoldAll collapses the whole buffer into a single fold.
func (e *Editor) FoldAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := e.buf.LineCount()
	if n == 0 {
		return
	}
	e.folds.folds = []FoldRange{{StartLine: 0, EndLine: n - 1}}
}

// UnfoldAll removes every fold.
func (e *Editor) UnfoldAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.folds.folds = nil
}

// Folds returns the current fold ranges.
func (e *Editor) Folds() []FoldRange {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.folds.All()
}

// lineLength returns the content length of line in bytes, excluding any
// trailing newline (see lineContentEnd). Caller holds e.mu.
func (e *Editor) lineLength(line uint32) buffer.ByteOffset {
	start := e.buf.LineStartOffset(line)
	end := e.lineContentEnd(line)
	return end - start
}
