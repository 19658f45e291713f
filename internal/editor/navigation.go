package editor

import "github.com/grim-editor/grim/internal/engine/cursor"

// JumpToDefinition moves the primary cursor to the definition of the
// identifier under it, using the configured DefinitionProvider. Returns
// ErrUnsupported if none is wired (spec §4.3: definition lookup is backed
// by an external index, not part of this package's hard core).
func (e *Editor) JumpToDefinition() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.defs == nil {
		return ErrUnsupported
	}
	off := e.cursors.PrimaryCursor()
	target, ok := e.defs.DefinitionFor(off)
	if !ok {
		return ErrNoMatch
	}
	e.cursors.SetPrimary(cursor.NewCursorSelection(target))
	e.clearGoalColumn()
	return nil
}
