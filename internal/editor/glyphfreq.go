package editor

import (
	"fmt"
	"io"
	"sort"
)

// glyphFrequency is the append-only, non-load-bearing persisted state
// described in spec.md §6 "Persisted state": one line per edit group,
// recording how often each byte value appeared in the text that edit
// touched. Nothing in the editor reads this back; it exists purely for an
// external cache/telemetry consumer.
func recordGlyphFrequency(w io.Writer, text string) {
	if w == nil || text == "" {
		return
	}

	counts := make(map[byte]int)
	for i := 0; i < len(text); i++ {
		counts[text[i]]++
	}

	bytes := make([]int, 0, len(counts))
	for b := range counts {
		bytes = append(bytes, int(b))
	}
	sort.Ints(bytes)

	for i, b := range bytes {
		if i > 0 {
			fmt.Fprint(w, ",")
		}
		fmt.Fprintf(w, "%02x=%d", b, counts[byte(b)])
	}
	fmt.Fprintln(w)
}
