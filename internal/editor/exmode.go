package editor

import (
	"strconv"

	"github.com/grim-editor/grim/internal/engine/cursor"
)

// beginCommandMode switches to command mode with an empty command line.
func (e *Editor) beginCommandMode() {
	e.mu.Lock()
	e.mode = ModeCommand
	e.commandBuf = e.commandBuf[:0]
	e.mu.Unlock()
}

// CommandLine returns the command line being composed in command mode.
func (e *Editor) CommandLine() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return string(e.commandBuf)
}

// handleCommandKey dispatches a key event in command mode: printable runes
// append to the command line, Backspace erases, Enter executes it, Escape
// cancels back to normal mode.
func (e *Editor) handleCommandKey(k Key) error {
	if !k.IsRune() {
		switch k.Special {
		case KeyEscape:
			e.mu.Lock()
			e.mode = ModeNormal
			e.commandBuf = nil
			e.mu.Unlock()
			return nil
		case KeyEnter:
			return e.executeCommandLine()
		case KeyBackspace:
			e.mu.Lock()
			if len(e.commandBuf) > 0 {
				e.commandBuf = e.commandBuf[:len(e.commandBuf)-1]
			}
			e.mu.Unlock()
			return nil
		}
		return ErrUnhandledKey
	}
	e.mu.Lock()
	e.commandBuf = append(e.commandBuf, k.Rune)
	e.mu.Unlock()
	return nil
}

// executeCommandLine runs the composed command line and returns to normal
// mode. Recognized commands are "u" (undo), "redo", and a bare line number
// (go to line, 1-indexed, vim's ":N" convention); anything else is
// ErrUnsupported since file I/O and external commands are out of scope for
// this package (spec §4.3 Non-goals).
func (e *Editor) executeCommandLine() error {
	e.mu.Lock()
	line := string(e.commandBuf)
	e.commandBuf = nil
	e.mode = ModeNormal
	e.mu.Unlock()

	switch line {
	case "u":
		return e.Undo()
	case "redo":
		return e.Redo()
	}
	if n, err := strconv.Atoi(line); err == nil {
		return e.gotoLine(n)
	}
	return ErrUnsupported
}

// gotoLine moves the primary cursor to the start of the given 1-indexed
// line, clamping to the valid range.
func (e *Editor) gotoLine(n int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 1 {
		n = 1
	}
	lineCount := int(e.buf.LineCount())
	if lineCount == 0 {
		return nil
	}
	if n > lineCount {
		n = lineCount
	}
	e.cursors.SetPrimary(cursor.NewCursorSelection(e.buf.LineStartOffset(uint32(n - 1))))
	e.clearGoalColumn()
	return nil
}

// beginSearchInput starts composing a search pattern; keys route to
// handleSearchInputKey until Enter or Escape, without changing Mode.
func (e *Editor) beginSearchInput() {
	e.mu.Lock()
	e.searchPending = true
	e.searchBuf = e.searchBuf[:0]
	e.mu.Unlock()
}

// SearchBuffer returns the pattern being composed by a pending search input.
func (e *Editor) SearchBuffer() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return string(e.searchBuf)
}

// handleSearchInputKey dispatches a key event while a search pattern is
// being composed.
func (e *Editor) handleSearchInputKey(k Key) error {
	if !k.IsRune() {
		switch k.Special {
		case KeyEscape:
			e.mu.Lock()
			e.searchPending = false
			e.searchBuf = nil
			e.mu.Unlock()
			return nil
		case KeyEnter:
			e.mu.Lock()
			pattern := string(e.searchBuf)
			e.searchPending = false
			e.searchBuf = nil
			e.mu.Unlock()
			if !e.Search(pattern) {
				return ErrNoMatch
			}
			return nil
		case KeyBackspace:
			e.mu.Lock()
			if len(e.searchBuf) > 0 {
				e.searchBuf = e.searchBuf[:len(e.searchBuf)-1]
			}
			e.mu.Unlock()
			return nil
		}
		return ErrUnhandledKey
	}
	e.mu.Lock()
	e.searchBuf = append(e.searchBuf, k.Rune)
	e.mu.Unlock()
	return nil
}

// beginRenameInput starts a rename prompt seeded with the identifier under
// the primary cursor.
func (e *Editor) beginRenameInput() {
	e.mu.Lock()
	off := e.cursors.PrimaryCursor()
	word, _, _ := wordAt(e.buf, off)
	e.renameActive = true
	e.renameBuffer = word
	e.mu.Unlock()
}

// handleRenameKey dispatches a key event while a rename prompt is active.
func (e *Editor) handleRenameKey(k Key) error {
	if !k.IsRune() {
		switch k.Special {
		case KeyEscape:
			e.mu.Lock()
			e.renameActive = false
			e.renameBuffer = ""
			e.mu.Unlock()
			return nil
		case KeyEnter:
			e.mu.Lock()
			newName := e.renameBuffer
			e.renameActive = false
			e.renameBuffer = ""
			e.mu.Unlock()
			return e.RenameInFile(newName)
		case KeyBackspace:
			e.mu.Lock()
			if len(e.renameBuffer) > 0 {
				e.renameBuffer = e.renameBuffer[:len(e.renameBuffer)-1]
			}
			e.mu.Unlock()
			return nil
		}
		return ErrUnhandledKey
	}
	e.mu.Lock()
	e.renameBuffer += string(k.Rune)
	e.mu.Unlock()
	return nil
}
