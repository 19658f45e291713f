package editor

import (
	"strings"

	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
)

// RenameInFile replaces every whole-word occurrence of the identifier under
// the primary cursor with newName, applying the edits in descending offset
// order so earlier offsets stay valid (spec §4.3). The primary cursor is
// left at the start of what was the first occurrence. Returns ErrNoMatch if
// the cursor isn't on a word.
func (e *Editor) RenameInFile(newName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	off := e.cursors.PrimaryCursor()
	word, _, _ := wordAt(e.buf, off)
	if word == "" {
		return ErrNoMatch
	}
	if word == newName {
		return nil
	}

	occurrences := findWholeWordOccurrences(e.buf.Text(), word)
	if len(occurrences) == 0 {
		return ErrNoMatch
	}

	e.checkpoint("rename")

	edits := make([]buffer.Edit, 0, len(occurrences))
	for _, at := range occurrences {
		edits = append(edits, buffer.NewEdit(buffer.Range{Start: at, End: at + buffer.ByteOffset(len(word))}, newName))
	}
	// ApplyEdits requires descending start order; occurrences is ascending.
	if !cursor.EditsInReverseOrder(edits) {
		cursor.SortEditsReverse(edits)
	}
	if err := e.buf.ApplyEdits(edits); err != nil {
		return err
	}
	cursor.TransformCursorSetMulti(e.cursors, edits)
	e.cursors.SetPrimary(cursor.NewCursorSelection(occurrences[0]))
	e.clearGoalColumn()
	return nil
}

// findWholeWordOccurrences returns the ascending start offsets of every
// whole-word occurrence of word in text.
func findWholeWordOccurrences(text, word string) []buffer.ByteOffset {
	if word == "" {
		return nil
	}
	var out []buffer.ByteOffset
	start := 0
	for {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			break
		}
		at := start + idx
		if isWholeWordMatch(text, at, len(word)) {
			out = append(out, buffer.ByteOffset(at))
		}
		start = at + 1
		if start > len(text) {
			break
		}
	}
	return out
}
