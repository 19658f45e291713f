package rope

// view is the read-only core shared by Rope and Snapshot: a piece list over
// two backing stores, plus a lazily built line-start cache. Rope embeds a
// view and mutates it in place on Insert/Delete; Snapshot embeds its own
// independent copy, so taking a Snapshot never disturbs the live Rope's
// cache and vice versa.
type view struct {
	original []byte
	add      []byte
	pieces   []piece
	length   int

	lineStarts []int
	lineValid  bool
}

func (v *view) storeFor(s source) []byte {
	if s == sourceOriginal {
		return v.original
	}
	return v.add
}

// Len returns the number of bytes covered by this view.
func (v *view) Len() int {
	return v.length
}

// findPiece returns the index of the piece containing pos and the byte
// offset within that piece. pos == 0 on an empty view, and pos == Len(),
// both return (len(pieces), 0) -- "insert here means append".
func (v *view) findPiece(pos int) (idx, offset int) {
	if pos <= 0 {
		return 0, 0
	}
	if pos >= v.length {
		return len(v.pieces), 0
	}
	acc := 0
	for i, p := range v.pieces {
		if pos < acc+p.length {
			return i, pos - acc
		}
		acc += p.length
	}
	return len(v.pieces), 0
}

// Slice materializes the bytes in [start, end) into a freshly allocated
// slice. Callers that want to avoid the allocation when the range happens
// to fit inside a single piece should use Iterator instead.
func (v *view) Slice(start, end int) ([]byte, error) {
	if start < 0 || end > v.length || start > end {
		return nil, ErrBadPosition
	}
	if start == end {
		return nil, nil
	}
	out := make([]byte, 0, end-start)
	it := v.Iterator(start, end)
	for it.Next() {
		out = append(out, it.Segment()...)
	}
	return out, nil
}

// String materializes the whole view. Intended for tests and debugging,
// not for hot paths over large buffers.
func (v *view) String() string {
	b, _ := v.Slice(0, v.length)
	return string(b)
}

// ByteAt returns the byte at pos, which must be in [0, Len()).
func (v *view) ByteAt(pos int) (byte, error) {
	if pos < 0 || pos >= v.length {
		return 0, ErrBadPosition
	}
	acc := 0
	for _, p := range v.pieces {
		if pos < acc+p.length {
			store := v.storeFor(p.src)
			return store[p.start+(pos-acc)], nil
		}
		acc += p.length
	}
	return 0, ErrBadPosition
}

// Rope is a mutable, byte-indexed piece-table text buffer. The zero value
// is not usable; construct one with New or FromBytes.
//
// A Rope owns exactly two backing stores: original (set once, at
// construction, never mutated again) and add (append-only, grown by every
// Insert). The piece list is the only part of a Rope that Insert/Delete
// ever rewrite, and it is rewritten wholesale on every edit rather than
// mutated in place -- this is what lets Snapshot hand out a shallow copy of
// the piece list and have it remain valid forever, even after the live
// Rope keeps editing.
type Rope struct {
	view

	// MaxAddBytes, if non-zero, caps the size the add store may grow to.
	// Insert returns ErrOutOfMemory rather than exceeding it.
	MaxAddBytes int
}

// New returns an empty Rope.
func New() *Rope {
	r := &Rope{}
	r.invalidateLineCache()
	return r
}

// FromBytes returns a Rope whose initial content is a copy of b.
func FromBytes(b []byte) *Rope {
	r := &Rope{}
	if len(b) > 0 {
		r.original = append([]byte(nil), b...)
		r.pieces = []piece{{src: sourceOriginal, start: 0, length: len(b)}}
		r.length = len(b)
	}
	r.invalidateLineCache()
	return r
}

// FromString returns a Rope whose initial content is s.
func FromString(s string) *Rope {
	return FromBytes([]byte(s))
}

// Insert splices data into the rope at pos, which must be in [0, Len()].
func (r *Rope) Insert(pos int, data []byte) error {
	if pos < 0 || pos > r.length {
		return ErrBadPosition
	}
	if len(data) == 0 {
		return nil
	}
	if r.MaxAddBytes > 0 && len(r.add)+len(data) > r.MaxAddBytes {
		return ErrOutOfMemory
	}

	addStart := len(r.add)
	r.add = append(r.add, data...)
	newPiece := piece{src: sourceAdd, start: addStart, length: len(data)}

	idx, offset := r.findPiece(pos)

	var out []piece
	out = append(out, r.pieces[:idx]...)
	if offset > 0 {
		head := r.pieces[idx]
		out = append(out, piece{src: head.src, start: head.start, length: offset})
	}
	out = append(out, newPiece)
	if idx < len(r.pieces) && offset < r.pieces[idx].length {
		tail := r.pieces[idx]
		out = append(out, piece{src: tail.src, start: tail.start + offset, length: tail.length - offset})
	}
	if idx < len(r.pieces) {
		out = append(out, r.pieces[idx+1:]...)
	}

	r.pieces = out
	r.length += len(data)
	r.invalidateLineCache()
	return nil
}

// InsertString is a convenience wrapper around Insert.
func (r *Rope) InsertString(pos int, s string) error {
	return r.Insert(pos, []byte(s))
}

// Delete removes the length bytes starting at pos. pos and pos+length must
// both fall within [0, Len()].
func (r *Rope) Delete(pos, length int) error {
	if pos < 0 || length < 0 || pos+length > r.length {
		return ErrBadPosition
	}
	if length == 0 {
		return nil
	}
	end := pos + length

	startIdx, startOff := r.findPiece(pos)
	endIdx, endOff := r.findPiece(end)

	var out []piece
	out = append(out, r.pieces[:startIdx]...)
	if startOff > 0 {
		p := r.pieces[startIdx]
		out = append(out, piece{src: p.src, start: p.start, length: startOff})
	}
	if endIdx < len(r.pieces) {
		p := r.pieces[endIdx]
		out = append(out, piece{src: p.src, start: p.start + endOff, length: p.length - endOff})
		out = append(out, r.pieces[endIdx+1:]...)
	}

	r.pieces = out
	r.length -= length
	r.invalidateLineCache()
	return nil
}

// Snapshot is an O(pieces) shallow capture of a Rope's piece list and a
// view onto the same backing stores. It supports the full read-only API
// (Slice, LineCount, OffsetToPoint, ...) independent of further edits to
// the Rope it was taken from.
type Snapshot struct {
	view
}

// Snapshot captures the rope's current piece list.
func (r *Rope) Snapshot() Snapshot {
	cp := make([]piece, len(r.pieces))
	copy(cp, r.pieces)
	return Snapshot{view: view{
		original: r.original,
		add:      r.add,
		pieces:   cp,
		length:   r.length,
	}}
}

// Restore installs a previously captured Snapshot. It is only valid to
// restore a Snapshot taken from this same Rope (or one that shares its
// backing stores), since piece offsets are store-relative.
func (r *Rope) Restore(s Snapshot) {
	r.pieces = s.pieces
	r.length = s.length
	r.invalidateLineCache()
}
