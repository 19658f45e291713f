package editor

// handleNormalKey dispatches a key event in normal mode. Two-key
// sequences (gg, gd, dd, dw, yy, yw, cc, cw, za, zR, zM, ga, gj, gk) are
// tracked with the single pendingLeader slot (spec §9 design note: no
// coroutines, no per-sequence state machines). '/' and 'R' divert
// subsequent keys to the search-input and rename-input buffers until
// Enter or Escape.
func (e *Editor) handleNormalKey(k Key) error {
	e.mu.Lock()
	renameActive := e.renameActive
	searchPending := e.searchPending
	leader := e.pendingLeader
	if leader != 0 {
		e.pendingLeader = 0
	}
	e.mu.Unlock()

	switch {
	case renameActive:
		return e.handleRenameKey(k)
	case searchPending:
		return e.handleSearchInputKey(k)
	case leader != 0:
		return e.handleLeaderSequence(leader, k)
	}

	if !k.IsRune() {
		switch k.Special {
		case KeyLeft:
			e.MoveLeft()
		case KeyRight:
			e.MoveRight()
		case KeyUp:
			e.MoveUp()
		case KeyDown:
			e.MoveDown()
		case KeyEscape:
			// already normal; no-op
		default:
			return ErrUnhandledKey
		}
		return nil
	}

	switch k.Rune {
	case 'h':
		e.MoveLeft()
	case 'l':
		e.MoveRight()
	case 'j':
		e.MoveDown()
	case 'k':
		e.MoveUp()
	case 'w':
		e.WordForward()
	case 'b':
		e.WordBackward()
	case '0':
		e.LineStart()
	case '$':
		e.LineEnd()
	case 'G':
		e.FileEnd()
	case 'x':
		return e.DeleteChar()
	case 'J':
		return e.JoinLines()
	case 'p':
		return e.PasteAfter()
	case 'P':
		return e.PasteBefore()
	case 'u':
		return e.Undo()
	case 'U':
		return e.Redo()
	case '%':
		if !e.MatchBracket() {
			return ErrNoMatch
		}
	case 'n':
		if !e.SearchNext() {
			return ErrNoMatch
		}
	case 'N':
		if !e.SearchPrev() {
			return ErrNoMatch
		}
	case 'v':
		e.EnterVisual()
	case 'i':
		e.SetMode(ModeInsert)
	case 'a':
		e.MoveRight()
		e.SetMode(ModeInsert)
	case ':':
		e.beginCommandMode()
	case '/':
		e.beginSearchInput()
	case 'R':
		e.beginRenameInput()
	case 'g', 'd', 'y', 'c', 'z':
		e.mu.Lock()
		e.pendingLeader = k.Rune
		e.mu.Unlock()
	default:
		return ErrUnhandledKey
	}
	return nil
}

// handleLeaderSequence resolves the second key of a two-key normal-mode
// sequence. An unrecognized second key silently drops the sequence,
// matching the forgiving behavior of a single pendingLeader slot.
func (e *Editor) handleLeaderSequence(leader rune, k Key) error {
	if !k.IsRune() {
		return nil
	}
	switch leader {
	case 'g':
		switch k.Rune {
		case 'g':
			e.FileStart()
		case 'd':
			return e.JumpToDefinition()
		case 'a':
			e.AddCursorAtNextMatch()
		case 'j':
			e.AddCursorBelow()
		case 'k':
			e.AddCursorAbove()
		}
	case 'd':
		switch k.Rune {
		case 'd':
			return e.DeleteLine()
		case 'w':
			return e.DeleteWord()
		}
	case 'y':
		switch k.Rune {
		case 'y':
			return e.YankLine()
		case 'w':
			return e.YankWord()
		}
	case 'c':
		switch k.Rune {
		case 'c':
			return e.ChangeLine()
		case 'w':
			return e.ChangeWord()
		}
	case 'z':
		switch k.Rune {
		case 'a':
			p, err := e.Buffer().OffsetToPoint(e.PrimaryOffset())
			if err != nil {
				return err
			}
			e.ToggleFold(p.Line, p.Line)
		case 'R':
			e.UnfoldAll()
		case 'M':
			e.FoldAll()
		}
	}
	return nil
}
