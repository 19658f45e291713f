package editor

import "errors"

// Errors surfaced by Editor operations, matching the taxonomy in spec §6.
var (
	// ErrUnhandledKey is returned by HandleKey when a key does not match
	// any recognized command or pending sequence. State is left unchanged.
	ErrUnhandledKey = errors.New("unhandled key")

	// ErrUnsupported is returned by operations that require an external
	// collaborator (a syntax parser, an LSP client) that was not wired in.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrNoMatch is returned by search/bracket-match/rename operations that
	// found nothing.
	ErrNoMatch = errors.New("no match")
)
