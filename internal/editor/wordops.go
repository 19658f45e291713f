package editor

// DeleteWord deletes from the primary cursor to the start of the next word
// ('dw'), yanking the removed text characterwise.
func (e *Editor) DeleteWord() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := e.cursors.PrimaryCursor()
	end := wordForward(e.buf, start)
	if start == end {
		return nil
	}
	text, err := e.buf.TextRange(start, end)
	if err != nil {
		return err
	}
	e.register = Register{Bytes: []byte(text), Linewise: false}
	return e.deleteRange(start, end)
}

// YankWord copies from the primary cursor to the start of the next word
// into the register characterwise ('yw'). The cursor is unchanged.
func (e *Editor) YankWord() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := e.cursors.PrimaryCursor()
	end := wordForward(e.buf, start)
	text, err := e.buf.TextRange(start, end)
	if err != nil {
		return err
	}
	e.register = Register{Bytes: []byte(text), Linewise: false}
	return nil
}

// ChangeWord deletes from the primary cursor to the start of the next word,
// yanks it, and enters insert mode ('cw').
func (e *Editor) ChangeWord() error {
	e.mu.Lock()
	start := e.cursors.PrimaryCursor()
	end := wordForward(e.buf, start)
	if start != end {
		text, err := e.buf.TextRange(start, end)
		if err != nil {
			e.mu.Unlock()
			return err
		}
		e.register = Register{Bytes: []byte(text), Linewise: false}
		if err := e.deleteRange(start, end); err != nil {
			e.mu.Unlock()
			return err
		}
	}
	e.mode = ModeInsert
	e.mu.Unlock()
	return nil
}

// ChangeLine deletes the current line's content (keeping the line itself),
// yanks it linewise, and enters insert mode ('cc').
func (e *Editor) ChangeLine() error {
	e.mu.Lock()
	p, err := e.buf.OffsetToPoint(e.cursors.PrimaryCursor())
	if err != nil {
		e.mu.Unlock()
		return err
	}
	start := e.buf.LineStartOffset(p.Line)
	end := e.lineContentEnd(p.Line)
	if start != end {
		text, terr := e.buf.TextRange(start, end)
		if terr != nil {
			e.mu.Unlock()
			return terr
		}
		e.register = Register{Bytes: []byte(text), Linewise: true}
		if derr := e.deleteRange(start, end); derr != nil {
			e.mu.Unlock()
			return derr
		}
	}
	e.mode = ModeInsert
	e.mu.Unlock()
	return nil
}
