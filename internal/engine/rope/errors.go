package rope

import "errors"

// ErrBadPosition is returned when a byte offset or range falls outside
// [0, Len()] (or, for ranges, describes an empty or negative span where one
// is required to be non-empty).
var ErrBadPosition = errors.New("rope: position out of range")

// ErrOutOfMemory is returned by Insert when the rope was constructed with a
// MaxAddBytes budget and the insert would grow the add store past it.
var ErrOutOfMemory = errors.New("rope: out of memory")
