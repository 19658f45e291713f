package editor

// CommandKind enumerates every editor operation reachable independently of
// how a frontend maps keys to it. HandleKey is one such mapping; a command
// palette or a scripting host builtin (spec §4.5) is another, and both can
// route through Dispatch uniformly.
type CommandKind int

const (
	CmdNone CommandKind = iota

	CmdMoveLeft
	CmdMoveRight
	CmdMoveUp
	CmdMoveDown
	CmdWordForward
	CmdWordBackward
	CmdLineStart
	CmdLineEnd
	CmdFileStart
	CmdFileEnd

	CmdInsertText
	CmdDeleteChar
	CmdDeleteLine
	CmdDeleteWord
	CmdChangeWord
	CmdChangeLine
	CmdJoinLines
	CmdYankLine
	CmdYankWord
	CmdPasteAfter
	CmdPasteBefore

	CmdUndo
	CmdRedo

	CmdEnterInsert
	CmdEnterVisual
	CmdExitToNormal

	CmdMatchBracket

	CmdSearch
	CmdSearchNext
	CmdSearchPrev

	CmdAddCursorBelow
	CmdAddCursorAbove
	CmdAddCursorAtNextMatch
	CmdRemoveLastCursor

	CmdToggleFold
	CmdFoldAll
	CmdUnfoldAll

	CmdExtendLeft
	CmdExtendRight
	CmdExpandSelection
	CmdShrinkSelection
	CmdVisualDelete
	CmdVisualYank
	CmdVisualChange

	CmdRenameInFile
	CmdJumpToDefinition
)

// Command is a single dispatchable operation plus whatever argument it
// needs (rename's new name, search's pattern). Most commands ignore Arg.
type Command struct {
	Kind CommandKind
	Arg  string
}

// Dispatch executes cmd against the editor. It is the single entry point
// used by both HandleKey and any external caller (a command palette, a
// plugin host builtin) that wants to drive the editor without going
// through key codes.
func (e *Editor) Dispatch(cmd Command) error {
	switch cmd.Kind {
	case CmdNone:
		return nil

	case CmdMoveLeft:
		e.MoveLeft()
	case CmdMoveRight:
		e.MoveRight()
	case CmdMoveUp:
		e.MoveUp()
	case CmdMoveDown:
		e.MoveDown()
	case CmdWordForward:
		e.WordForward()
	case CmdWordBackward:
		e.WordBackward()
	case CmdLineStart:
		e.LineStart()
	case CmdLineEnd:
		e.LineEnd()
	case CmdFileStart:
		e.FileStart()
	case CmdFileEnd:
		e.FileEnd()

	case CmdInsertText:
		return e.InsertText(cmd.Arg)
	case CmdDeleteChar:
		return e.DeleteChar()
	case CmdDeleteLine:
		return e.DeleteLine()
	case CmdDeleteWord:
		return e.DeleteWord()
	case CmdChangeWord:
		return e.ChangeWord()
	case CmdChangeLine:
		return e.ChangeLine()
	case CmdJoinLines:
		return e.JoinLines()
	case CmdYankLine:
		return e.YankLine()
	case CmdYankWord:
		return e.YankWord()
	case CmdPasteAfter:
		return e.PasteAfter()
	case CmdPasteBefore:
		return e.PasteBefore()

	case CmdUndo:
		return e.Undo()
	case CmdRedo:
		return e.Redo()

	case CmdEnterInsert:
		e.SetMode(ModeInsert)
	case CmdEnterVisual:
		e.EnterVisual()
	case CmdExitToNormal:
		e.exitToNormal()

	case CmdMatchBracket:
		if !e.MatchBracket() {
			return ErrNoMatch
		}

	case CmdSearch:
		if !e.Search(cmd.Arg) {
			return ErrNoMatch
		}
	case CmdSearchNext:
		if !e.SearchNext() {
			return ErrNoMatch
		}
	case CmdSearchPrev:
		if !e.SearchPrev() {
			return ErrNoMatch
		}

	case CmdAddCursorBelow:
		e.AddCursorBelow()
	case CmdAddCursorAbove:
		e.AddCursorAbove()
	case CmdAddCursorAtNextMatch:
		e.AddCursorAtNextMatch()
	case CmdRemoveLastCursor:
		e.RemoveLastCursor()

	case CmdToggleFold:
		p, err := e.Buffer().OffsetToPoint(e.PrimaryOffset())
		if err != nil {
			return err
		}
		e.ToggleFold(p.Line, p.Line)
	case CmdFoldAll:
		e.FoldAll()
	case CmdUnfoldAll:
		e.UnfoldAll()

	case CmdExtendLeft:
		e.ExtendLeft()
	case CmdExtendRight:
		e.ExtendRight()
	case CmdExpandSelection:
		return e.ExpandSelection()
	case CmdShrinkSelection:
		return e.ShrinkSelection()
	case CmdVisualDelete:
		return e.VisualDeleteSelection()
	case CmdVisualYank:
		return e.VisualYankSelection()
	case CmdVisualChange:
		return e.VisualChangeSelection()

	case CmdRenameInFile:
		return e.RenameInFile(cmd.Arg)
	case CmdJumpToDefinition:
		return e.JumpToDefinition()

	default:
		return ErrUnsupported
	}
	return nil
}

// exitToNormal collapses any selection and returns to normal mode,
// regardless of which mode it's called from.
func (e *Editor) exitToNormal() {
	e.mu.Lock()
	mode := e.mode
	e.mu.Unlock()
	if mode == ModeVisual {
		e.ExitVisual()
		return
	}
	e.SetMode(ModeNormal)
}
