package buffer

import (
	"unicode/utf8"

	"github.com/grim-editor/grim/internal/engine/rope"
)

// Snapshot provides a read-only view of a buffer at a specific point in
// time. It is safe for concurrent access and will not change even if the
// original buffer is modified afterwards.
type Snapshot struct {
	rope       rope.Snapshot
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.rope.String()
}

// TextRange returns text in the given byte range.
func (s *Snapshot) TextRange(start, end ByteOffset) (string, error) {
	bs, err := s.rope.Slice(int(start), int(end))
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(s.rope.Len())
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return uint32(s.rope.LineCount())
}

// LineText returns the text of a specific line, including its trailing
// newline if it has one.
func (s *Snapshot) LineText(line uint32) (string, error) {
	start, end := s.rope.LineRange(int(line))
	bs, err := s.rope.Slice(start, end)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// LineLen returns the length of a specific line in bytes, including any
// trailing newline.
func (s *Snapshot) LineLen(line uint32) int {
	start, end := s.rope.LineRange(int(line))
	return end - start
}

// ByteAt returns the byte at the given offset.
func (s *Snapshot) ByteAt(offset ByteOffset) (byte, bool) {
	b, err := s.rope.ByteAt(int(offset))
	return b, err == nil
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (s *Snapshot) RuneAt(offset ByteOffset) (rune, int) {
	ropeLen := ByteOffset(s.rope.Len())
	if offset < 0 || offset >= ropeLen {
		return utf8.RuneError, 0
	}

	end := offset + 4
	if end > ropeLen {
		end = ropeLen
	}

	bs, err := s.rope.Slice(int(offset), int(end))
	if err != nil {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRune(bs)
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) (Point, error) {
	p, err := s.rope.OffsetToPoint(int(offset))
	if err != nil {
		return Point{}, err
	}
	return Point{Line: uint32(p.Line), Column: uint32(p.Column)}, nil
}

// PointToOffset converts line/column to byte offset.
func (s *Snapshot) PointToOffset(point Point) (ByteOffset, error) {
	off, err := s.rope.PointToOffset(rope.Point{Line: int(point.Line), Column: int(point.Column)})
	if err != nil {
		return 0, err
	}
	return ByteOffset(off), nil
}

// OffsetToPointUTF16 converts a byte offset to UTF-16 line/column.
func (s *Snapshot) OffsetToPointUTF16(offset ByteOffset) (PointUTF16, error) {
	point, err := s.rope.OffsetToPoint(int(offset))
	if err != nil {
		return PointUTF16{}, err
	}
	lineStart, _ := s.rope.LineRange(point.Line)
	lineBytes, err := s.rope.Slice(lineStart, int(offset))
	if err != nil {
		return PointUTF16{}, err
	}

	utf16Col := utf16ColumnFromString(string(lineBytes))
	return PointUTF16{Line: uint32(point.Line), Column: utf16Col}, nil
}

// PointUTF16ToOffset converts UTF-16 line/column to byte offset.
func (s *Snapshot) PointUTF16ToOffset(point PointUTF16) (ByteOffset, error) {
	lineStart, lineEnd := s.rope.LineRange(int(point.Line))
	lineBytes, err := s.rope.Slice(lineStart, lineEnd)
	if err != nil {
		return 0, err
	}

	byteCol := byteOffsetFromUTF16Column(string(lineBytes), point.Column)
	return ByteOffset(lineStart + byteCol), nil
}

// LineStartOffset returns the byte offset of the start of a line.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset {
	start, _ := s.rope.LineRange(int(line))
	return ByteOffset(start)
}

// LineEndOffset returns the byte offset of the end of a line, including
// any trailing newline.
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset {
	_, end := s.rope.LineRange(int(line))
	return ByteOffset(end)
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return s.rope.Len() == 0
}

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

// TabWidth returns the snapshot's tab width.
func (s *Snapshot) TabWidth() int {
	return s.tabWidth
}
