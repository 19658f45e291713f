package editor

import (
	"io"
	"log"
	"sync"

	"github.com/grim-editor/grim/internal/engine/buffer"
	"github.com/grim-editor/grim/internal/engine/cursor"
	"github.com/grim-editor/grim/internal/engine/history"
)

// Mode is one of the four modal states the editor can be in.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeVisual
	ModeCommand
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInsert:
		return "insert"
	case ModeVisual:
		return "visual"
	case ModeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Direction is a search direction.
type Direction uint8

const (
	DirForward Direction = iota
	DirBackward
)

// Register holds the contents of the last yank, paste-ready.
type Register struct {
	Bytes    []byte
	Linewise bool
}

// SearchState holds the last search pattern and direction, used by n/N.
type SearchState struct {
	Pattern string
	LastDir Direction
}

// DefinitionProvider resolves "jump to definition" for an identifier at an
// offset, backed by an external syntax parser or the LSP client. Neither is
// part of this package's hard core (spec §1); Editor only pins the
// interface it calls through.
type DefinitionProvider interface {
	DefinitionFor(offset buffer.ByteOffset) (buffer.ByteOffset, bool)
}

// SyntaxProvider backs tree-aware selection expand/shrink. Left nil, those
// operations fail closed with ErrUnsupported rather than guessing at
// syntax structure from bytes.
type SyntaxProvider interface {
	// Enclosing returns the smallest syntax node range strictly containing
	// sel, or ok=false if none exists (sel already spans the whole tree).
	Enclosing(sel cursor.Range) (cursor.Range, bool)
	// ChildOf returns the largest immediate child range of sel, or
	// ok=false if sel is already a leaf.
	ChildOf(sel cursor.Range) (cursor.Range, bool)
}

// Editor holds one buffer's modal editing state: cursors, mode, the yank
// register, search state, undo/redo history, and the small amount of
// pending input needed for multi-key normal-mode sequences and Ex command
// entry. It mutates its Buffer directly; callers own buffer lifetime.
type Editor struct {
	mu sync.Mutex

	buf     *buffer.Buffer
	hist    *history.History
	cursors *cursor.CursorSet

	mode Mode

	register Register
	search   SearchState
	folds    *FoldSet

	pendingLeader rune // single pending-key slot for two-key normal sequences
	commandBuf    []rune
	searchPending bool
	searchBuf     []rune

	renameActive bool
	renameBuffer string

	goalColumn    buffer.ByteOffset
	hasGoalColumn bool

	defs    DefinitionProvider
	syntax  SyntaxProvider
	logger  *log.Logger

	glyphFreqW io.Writer
}

// Option configures an Editor at construction time.
type Option func(*Editor)

// WithHistoryCap overrides the undo/redo stack cap (default 1000, per spec §4.2).
func WithHistoryCap(n int) Option {
	return func(e *Editor) { e.hist = history.New(n) }
}

// WithLogger installs a logger for non-fatal, continue-on-error conditions.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithDefinitionProvider wires a navigation backend for JumpToDefinition.
func WithDefinitionProvider(p DefinitionProvider) Option {
	return func(e *Editor) { e.defs = p }
}

// WithSyntaxProvider wires a tree-walk backend for ExpandSelection/ShrinkSelection.
func WithSyntaxProvider(p SyntaxProvider) Option {
	return func(e *Editor) { e.syntax = p }
}

// WithGlyphFrequencyWriter appends one byte-frequency histogram line per
// edit group to w (spec.md §6 "Persisted state"). Nil (the default) skips
// the bookkeeping entirely.
func WithGlyphFrequencyWriter(w io.Writer) Option {
	return func(e *Editor) { e.glyphFreqW = w }
}

// New creates an Editor over buf, starting in normal mode with a single
// cursor at offset 0.
func New(buf *buffer.Buffer, opts ...Option) *Editor {
	e := &Editor{
		buf:     buf,
		hist:    history.New(1000),
		cursors: cursor.NewCursorSetAt(0),
		mode:    ModeNormal,
		folds:   newFoldSet(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Buffer returns the underlying buffer.
func (e *Editor) Buffer() *buffer.Buffer { return e.buf }

// Mode returns the current mode.
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode forces a mode transition, bypassing key dispatch. Used by hosts
// wiring a command palette or by tests.
func (e *Editor) SetMode(m Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
}

// Cursors returns the live cursor set. Callers must not retain it across
// further Editor mutations without re-fetching.
func (e *Editor) Cursors() *cursor.CursorSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors
}

// PrimaryOffset returns the primary cursor's byte offset.
func (e *Editor) PrimaryOffset() buffer.ByteOffset {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.PrimaryCursor()
}

// Register returns a copy of the current yank register.
func (e *Editor) Register() Register {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.register
}

// RenameActive reports whether a cross-file rename is pending UI input.
func (e *Editor) RenameActive() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renameBuffer, e.renameActive
}

// Undo restores the most recent checkpoint.
func (e *Editor) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.Undo(e.buf, e.cursors)
}

// Redo reapplies the most recently undone checkpoint.
func (e *Editor) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.Redo(e.buf, e.cursors)
}

// checkpoint records the current buffer/cursor state as the undo target
// for the edit the caller is about to perform. Must be called with e.mu held.
func (e *Editor) checkpoint(label string) {
	e.hist.Push(label, e.buf.Snapshot(), e.cursors)
}

// clearGoalColumn resets the cached goal column; called by any horizontal
// motion or edit so the next vertical motion recomputes it from the new
// cursor position instead of reusing a stale one.
func (e *Editor) clearGoalColumn() {
	e.hasGoalColumn = false
}
