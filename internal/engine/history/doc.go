// Package history implements undo/redo for a buffer as a pair of bounded
// stacks of whole-buffer snapshots, not as a log of replayable commands.
//
// Every entry captures a buffer.Snapshot (an O(pieces) shallow copy of the
// rope's piece list) together with the cursor layout at that point. Undo
// restores the buffer and cursors to the snapshot at the top of the undo
// stack and pushes the pre-undo state onto the redo stack; Redo is the
// mirror image. Both stacks are capped at MaxEntries, with the oldest
// entry evicted first.
//
// Usage:
//
//	h := history.New(1000)
//	h.Push("edit", buf.Snapshot(), cursors)  // capture state before an edit
//	// ... mutate buf and cursors ...
//	h.Undo(buf, cursors)  // restores the captured state, pushes current to redo
//	h.Redo(buf, cursors)
package history
