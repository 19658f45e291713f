package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/grim-editor/grim/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer wraps a piece-table Rope with additional editor functionality.
// It provides the primary interface for text manipulation. All methods
// are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	rope       *rope.Rope
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		rope:       rope.New(),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	s = b.normalizeLineEndings(s)
	b.rope = rope.FromString(s)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	b := NewBuffer(opts...)

	// Read all content first so CRLF sequences split across read
	// boundaries are normalized correctly.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := b.normalizeLineEndings(string(data))
	b.rope = rope.FromString(text)
	return b, nil
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	switch b.lineEnding {
	case LineEndingLF:
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	case LineEndingCRLF:
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
		s = strings.ReplaceAll(s, "\n", "\r\n")
	case LineEndingCR:
		s = strings.ReplaceAll(s, "\r\n", "\r")
		s = strings.ReplaceAll(s, "\n", "\r")
	}
	return s
}

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer TextRange.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// TextRange returns text in the given byte range.
func (b *Buffer) TextRange(start, end ByteOffset) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bs, err := b.rope.Slice(int(start), int(end))
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.rope.Len())
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(b.rope.LineCount())
}

// LineText returns the text of a specific line, including its trailing
// newline if it has one.
func (b *Buffer) LineText(line uint32) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end := b.rope.LineRange(int(line))
	bs, err := b.rope.Slice(start, end)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// LineLen returns the length of a specific line in bytes, including any
// trailing newline.
func (b *Buffer) LineLen(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, end := b.rope.LineRange(int(line))
	return end - start
}

// ByteAt returns the byte at the given offset.
func (b *Buffer) ByteAt(offset ByteOffset) (byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	by, err := b.rope.ByteAt(int(offset))
	return by, err == nil
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ropeLen := ByteOffset(b.rope.Len())
	if offset < 0 || offset >= ropeLen {
		return utf8.RuneError, 0
	}

	end := offset + 4
	if end > ropeLen {
		end = ropeLen
	}

	bs, err := b.rope.Slice(int(offset), int(end))
	if err != nil {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(bs)
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) (Point, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, err := b.rope.OffsetToPoint(int(offset))
	if err != nil {
		return Point{}, err
	}
	return Point{Line: uint32(p.Line), Column: uint32(p.Column)}, nil
}

// PointToOffset converts line/column to byte offset.
func (b *Buffer) PointToOffset(point Point) (ByteOffset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	off, err := b.rope.PointToOffset(rope.Point{Line: int(point.Line), Column: int(point.Column)})
	if err != nil {
		return 0, err
	}
	return ByteOffset(off), nil
}

// OffsetToPointUTF16 converts a byte offset to UTF-16 line/column, as
// required by LSP position encoding.
func (b *Buffer) OffsetToPointUTF16(offset ByteOffset) (PointUTF16, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	point, err := b.rope.OffsetToPoint(int(offset))
	if err != nil {
		return PointUTF16{}, err
	}
	lineStart, _ := b.rope.LineRange(point.Line)
	lineBytes, err := b.rope.Slice(lineStart, int(offset))
	if err != nil {
		return PointUTF16{}, err
	}

	utf16Col := utf16ColumnFromString(string(lineBytes))
	return PointUTF16{Line: uint32(point.Line), Column: utf16Col}, nil
}

// PointUTF16ToOffset converts UTF-16 line/column to byte offset.
func (b *Buffer) PointUTF16ToOffset(point PointUTF16) (ByteOffset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lineStart, lineEnd := b.rope.LineRange(int(point.Line))
	lineBytes, err := b.rope.Slice(lineStart, lineEnd)
	if err != nil {
		return 0, err
	}

	byteCol := byteOffsetFromUTF16Column(string(lineBytes), point.Column)
	return ByteOffset(lineStart + byteCol), nil
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start, _ := b.rope.LineRange(int(line))
	return ByteOffset(start)
}

// LineEndOffset returns the byte offset of the end of a line, including
// any trailing newline.
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, end := b.rope.LineRange(int(line))
	return ByteOffset(end)
}

// Write Operations

// Insert inserts text at the given offset. Returns the end position of
// the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > ByteOffset(b.rope.Len()) {
		return 0, ErrOffsetOutOfRange
	}

	text = b.normalizeLineEndings(text)
	if err := b.rope.Insert(int(offset), []byte(text)); err != nil {
		return 0, err
	}
	b.revisionID = NewRevisionID()

	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(b.rope.Len()) {
		return ErrRangeInvalid
	}

	if err := b.rope.Delete(int(start), int(end-start)); err != nil {
		return err
	}
	b.revisionID = NewRevisionID()

	return nil
}

// Replace replaces text in the given range with new text. Returns the end
// position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(b.rope.Len()) {
		return 0, ErrRangeInvalid
	}

	text = b.normalizeLineEndings(text)
	if start < end {
		if err := b.rope.Delete(int(start), int(end-start)); err != nil {
			return 0, err
		}
	}
	if err := b.rope.Insert(int(start), []byte(text)); err != nil {
		return 0, err
	}
	b.revisionID = NewRevisionID()

	return start + ByteOffset(len(text)), nil
}

// ApplyEdit applies a single edit to the buffer.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End ||
		edit.Range.End > ByteOffset(b.rope.Len()) {
		return EditResult{}, ErrRangeInvalid
	}

	oldBytes, err := b.rope.Slice(int(edit.Range.Start), int(edit.Range.End))
	if err != nil {
		return EditResult{}, err
	}
	text := b.normalizeLineEndings(edit.NewText)

	if edit.Range.Start < edit.Range.End {
		if err := b.rope.Delete(int(edit.Range.Start), int(edit.Range.End-edit.Range.Start)); err != nil {
			return EditResult{}, err
		}
	}
	if err := b.rope.Insert(int(edit.Range.Start), []byte(text)); err != nil {
		return EditResult{}, err
	}
	b.revisionID = NewRevisionID()

	newEnd := edit.Range.Start + ByteOffset(len(text))

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  string(oldBytes),
		Delta:    int64(len(text)) - int64(edit.Range.Len()),
	}, nil
}

// ApplyEdits applies multiple edits atomically. Edits must be in reverse
// order (highest offset first) and non-overlapping, so that applying them
// left-to-right never has to account for offsets shifted by an earlier
// edit in the same batch.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}

	ropeLen := ByteOffset(b.rope.Len())
	for _, edit := range edits {
		if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End ||
			edit.Range.End > ropeLen {
			return ErrRangeInvalid
		}
	}

	for _, edit := range edits {
		text := b.normalizeLineEndings(edit.NewText)
		if edit.Range.Start < edit.Range.End {
			if err := b.rope.Delete(int(edit.Range.Start), int(edit.Range.End-edit.Range.Start)); err != nil {
				return err
			}
		}
		if err := b.rope.Insert(int(edit.Range.Start), []byte(text)); err != nil {
			return err
		}
	}

	b.revisionID = NewRevisionID()
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len() == 0
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// SetLineEnding sets the buffer's line ending style. This does not convert
// existing line endings.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lineEnding = le
}

// SetTabWidth sets the buffer's tab width.
func (b *Buffer) SetTabWidth(width int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tabWidth = width
}

// Snapshot returns a read-only snapshot of the current buffer state,
// capturing the rope's piece list in O(pieces). Safe for concurrent access
// from other goroutines, and unaffected by further edits to the buffer.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		rope:       b.rope.Snapshot(),
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}

// Restore replaces the buffer's content with a previously taken Snapshot.
// Used by internal/engine/history to implement undo/redo.
func (b *Buffer) Restore(s *Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rope.Restore(s.rope)
	b.revisionID = NewRevisionID()
	b.lineEnding = s.lineEnding
	b.tabWidth = s.tabWidth
}

// Helper functions for UTF-16 conversion

// utf16ColumnFromString counts UTF-16 code units in a string.
func utf16ColumnFromString(s string) uint32 {
	var col uint32
	for _, r := range s {
		if r >= 0x10000 {
			col += 2 // Surrogate pair (characters outside BMP)
		} else {
			col++
		}
	}
	return col
}

// byteOffsetFromUTF16Column converts a UTF-16 column to byte offset within a line.
func byteOffsetFromUTF16Column(line string, utf16Col uint32) int {
	var col uint32
	var byteOffset int

	for _, r := range line {
		if col >= utf16Col {
			break
		}

		if r >= 0x10000 {
			col += 2 // Surrogate pair
		} else {
			col++
		}
		byteOffset += utf8.RuneLen(r)
	}

	return byteOffset
}
