package editor

// handleVisualKey dispatches a key event in visual mode: motions extend
// the selection's head (anchor fixed), operators act on the selection and
// return to normal mode, Escape cancels back to normal without acting.
func (e *Editor) handleVisualKey(k Key) error {
	if !k.IsRune() {
		switch k.Special {
		case KeyLeft:
			e.ExtendLeft()
		case KeyRight:
			e.ExtendRight()
		case KeyUp:
			e.ExtendUp()
		case KeyDown:
			e.ExtendDown()
		case KeyEscape:
			e.ExitVisual()
		default:
			return ErrUnhandledKey
		}
		return nil
	}

	switch k.Rune {
	case 'h':
		e.ExtendLeft()
	case 'l':
		e.ExtendRight()
	case 'j':
		e.ExtendDown()
	case 'k':
		e.ExtendUp()
	case 'd', 'x':
		return e.VisualDeleteSelection()
	case 'y':
		return e.VisualYankSelection()
	case 'c':
		return e.VisualChangeSelection()
	case '+':
		return e.ExpandSelection()
	case '-':
		return e.ShrinkSelection()
	case 'v':
		e.ExitVisual()
	default:
		return ErrUnhandledKey
	}
	return nil
}
