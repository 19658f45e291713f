package rope

// Iterator walks a byte range [start, end) one piece-segment at a time,
// without materializing the whole range. Each Segment is a zero-copy slice
// into a backing store.
type Iterator struct {
	v    *view
	end  int
	pos  int
	seg  []byte
	pidx int
	pacc int
}

// Iterator returns an Iterator over [start, end). start and end must
// satisfy 0 <= start <= end <= Len().
func (v *view) Iterator(start, end int) *Iterator {
	it := &Iterator{v: v, pos: start, end: end}
	it.pidx, it.pacc = it.locate(start)
	return it
}

// locate finds the piece index containing pos and the accumulated byte
// offset at which that piece begins.
func (it *Iterator) locate(pos int) (idx, acc int) {
	v := it.v
	acc = 0
	for i, p := range v.pieces {
		if pos < acc+p.length || i == len(v.pieces)-1 {
			return i, acc
		}
		acc += p.length
	}
	return 0, 0
}

// Next advances to the next segment. It returns false once [start, end)
// has been fully consumed.
func (it *Iterator) Next() bool {
	if it.pos >= it.end {
		it.seg = nil
		return false
	}
	v := it.v
	for it.pidx < len(v.pieces) {
		p := v.pieces[it.pidx]
		pieceStart := it.pacc
		pieceEnd := it.pacc + p.length
		if it.pos >= pieceEnd {
			it.pacc = pieceEnd
			it.pidx++
			continue
		}
		segStart := it.pos
		segEnd := pieceEnd
		if segEnd > it.end {
			segEnd = it.end
		}
		store := v.storeFor(p.src)
		off := segStart - pieceStart
		it.seg = store[p.start+off : p.start+off+(segEnd-segStart)]
		it.pos = segEnd
		if segEnd >= pieceEnd {
			it.pacc = pieceEnd
			it.pidx++
		}
		return true
	}
	it.seg = nil
	return false
}

// Segment returns the bytes produced by the most recent call to Next.
func (it *Iterator) Segment() []byte {
	return it.seg
}
