package editor

// handleInsertKey dispatches a key event in insert mode: printable runes
// and newline are inserted at the cursor, Backspace deletes the preceding
// code point, and Escape returns to normal mode.
func (e *Editor) handleInsertKey(k Key) error {
	if k.IsRune() {
		return e.InsertText(string(k.Rune))
	}
	switch k.Special {
	case KeyEnter:
		return e.InsertText("\n")
	case KeyTab:
		return e.InsertText("\t")
	case KeyBackspace:
		return e.DeleteBackward()
	case KeyDelete:
		return e.DeleteChar()
	case KeyLeft:
		e.MoveLeft()
	case KeyRight:
		e.MoveRight()
	case KeyUp:
		e.MoveUp()
	case KeyDown:
		e.MoveDown()
	case KeyEscape:
		e.SetMode(ModeNormal)
	default:
		return ErrUnhandledKey
	}
	return nil
}
