// Package rope implements a piece-table text buffer.
//
// A Rope maps a logical byte index in [0, N) to a byte value through an
// ordered sequence of immutable pieces, each referencing a half-open slice
// of one of two backing byte stores: an immutable "original" store set at
// construction time, and an append-only "add" store that every Insert grows.
// Pieces are never mutated after creation; every edit rebuilds the piece
// list around a split point. This makes Snapshot/Restore O(pieces) instead
// of O(bytes), because a snapshot only needs a shallow copy of the piece
// list -- the backing stores never move or shrink.
//
// The rope performs no UTF-8 validation; it is a byte-indexed structure so
// that binary and partially-decoded buffers can be opened. UTF-8 boundary
// discipline is the caller's responsibility (see internal/editor).
package rope
