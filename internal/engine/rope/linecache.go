package rope

// Point is a zero-based (line, column) position, with column measured in
// bytes from the start of the line.
type Point struct {
	Line   int
	Column int
}

func (v *view) invalidateLineCache() {
	v.lineValid = false
	v.lineStarts = nil
}

// ensureLineCache rebuilds the cached line-start table by walking every
// byte of the view once. It is invoked lazily, the first time a line query
// is made after an edit invalidated the cache (or the first time a fresh
// Snapshot is queried at all).
func (v *view) ensureLineCache() {
	if v.lineValid {
		return
	}
	starts := make([]int, 1, 8)
	starts[0] = 0
	off := 0
	it := v.Iterator(0, v.length)
	for it.Next() {
		seg := it.Segment()
		for _, b := range seg {
			off++
			if b == '\n' {
				starts = append(starts, off)
			}
		}
	}
	v.lineStarts = starts
	v.lineValid = true
}

// LineCount returns the number of lines. An empty view has one (empty)
// line; every trailing newline adds one more, empty, line.
func (v *view) LineCount() int {
	v.ensureLineCache()
	return len(v.lineStarts)
}

// LineRange returns the half-open byte range [start, end) of the i-th line
// (0-based), including its trailing newline if it has one. i == LineCount()
// is the one-past-the-end query and returns (Len(), Len()).
func (v *view) LineRange(i int) (start, end int) {
	v.ensureLineCache()
	L := len(v.lineStarts)
	if i < 0 {
		i = 0
	}
	if i >= L {
		return v.length, v.length
	}
	start = v.lineStarts[i]
	if i == L-1 {
		return start, v.length
	}
	return start, v.lineStarts[i+1]
}

// OffsetToPoint converts a byte offset into a (line, column) position.
func (v *view) OffsetToPoint(offset int) (Point, error) {
	if offset < 0 || offset > v.length {
		return Point{}, ErrBadPosition
	}
	v.ensureLineCache()
	lo, hi := 0, len(v.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if v.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Point{Line: lo, Column: offset - v.lineStarts[lo]}, nil
}

// PointToOffset converts a (line, column) position into a byte offset.
// A column past the end of its line is clamped to the line's end.
func (v *view) PointToOffset(p Point) (int, error) {
	if p.Line < 0 || p.Column < 0 {
		return 0, ErrBadPosition
	}
	v.ensureLineCache()
	if p.Line >= len(v.lineStarts) {
		return 0, ErrBadPosition
	}
	start, end := v.LineRange(p.Line)
	off := start + p.Column
	if off > end {
		off = end
	}
	return off, nil
}
