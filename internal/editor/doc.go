// Package editor implements the modal editing state machine: cursor(s),
// mode, selection, yank register, and search state layered over a
// internal/engine/buffer.Buffer, internal/engine/cursor.CursorSet, and
// internal/engine/history.History.
package editor
